// Package metrics exposes the bot's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the counters updated by the service and the handlers.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	commands  *prometheus.CounterVec
	coins     *prometheus.CounterVec
	workEvent *prometheus.CounterVec
	marriages *prometheus.CounterVec
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "familybot_commands_total",
			Help: "Bot commands handled, by command and outcome.",
		}, []string{"command", "outcome"}),
		coins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "familybot_ledger_coins_total",
			Help: "Coins moved through family budgets, by reason and direction.",
		}, []string{"reason", "direction"}),
		workEvent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "familybot_work_events_total",
			Help: "Work shifts, by random pay event.",
		}, []string{"event"}),
		marriages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "familybot_marriages_total",
			Help: "Marriage lifecycle transitions.",
		}, []string{"action"}),
	}

	for _, c := range []prometheus.Collector{m.commands, m.coins, m.workEvent, m.marriages} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// NewRegistry returns a registry with the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler serves the registry in the Prometheus text format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// Command counts a handled command. outcome is "ok", a failure code, or "error".
func (m *Metrics) Command(command, outcome string) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(command, outcome).Inc()
}

// Coins records a budget change.
func (m *Metrics) Coins(reason string, delta int64) {
	if m == nil || delta == 0 {
		return
	}
	direction := "credit"
	if delta < 0 {
		direction = "debit"
		delta = -delta
	}
	m.coins.WithLabelValues(reason, direction).Add(float64(delta))
}

// WorkEvent counts a work shift. An empty event is counted as "none".
func (m *Metrics) WorkEvent(event string) {
	if m == nil {
		return
	}
	if event == "" {
		event = "none"
	}
	m.workEvent.WithLabelValues(event).Inc()
}

// Marriage counts a marriage transition: "registered", "dissolved" or "reset".
func (m *Metrics) Marriage(action string) {
	if m == nil {
		return
	}
	m.marriages.WithLabelValues(action).Inc()
}
