package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoinsSplitsDirection(t *testing.T) {
	m, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	m.Coins("salary", 100)
	m.Coins("salary", 50)
	m.Coins("purchase", -300)
	m.Coins("casino", 0)

	assert.Equal(t, 150.0, testutil.ToFloat64(m.coins.WithLabelValues("salary", "credit")))
	assert.Equal(t, 300.0, testutil.ToFloat64(m.coins.WithLabelValues("purchase", "debit")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.coins))
}

func TestWorkEventDefaultsToNone(t *testing.T) {
	m, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	m.WorkEvent("")
	m.WorkEvent("Bonus")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.workEvent.WithLabelValues("none")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.workEvent.WithLabelValues("Bonus")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Command("work", "ok")
		m.Coins("salary", 10)
		m.WorkEvent("")
		m.Marriage("registered")
	})
}

func TestDuplicateRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)
	_, err = New(reg)
	assert.Error(t, err)
}

func TestHandlerServesCounters(t *testing.T) {
	reg := NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)
	m.Command("marry", "ok")

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `familybot_commands_total{command="marry",outcome="ok"} 1`))
	assert.Contains(t, body, "go_goroutines")
}
