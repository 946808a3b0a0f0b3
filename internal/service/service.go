// Package service is the family and economy engine: marriages, the proposal
// gate, the family ledger, levels, children, quests, work and the shop.
//
// Every operation re-reads what it needs from the store and runs as one
// transaction, so concurrent commands for the same family cannot both pass a
// cooldown or funds check.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/FamilyBoT/internal/apperrors"
	"github.com/Kerhoff/FamilyBoT/internal/game"
	"github.com/Kerhoff/FamilyBoT/internal/metrics"
	"github.com/Kerhoff/FamilyBoT/internal/random"
	"github.com/Kerhoff/FamilyBoT/internal/repository"
)

// Rand is the randomness source behind work events, casino rolls and child names.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// NameResolver maps a user to a display name. Failures are tolerated.
type NameResolver interface {
	ResolveName(ctx context.Context, chatID, userID int64) (string, error)
}

// Service is the central business logic layer of the bot.
type Service struct {
	store   repository.Store
	catalog *game.Catalog
	logger  *logrus.Logger
	now     func() time.Time
	rng     Rand
	names   NameResolver
	metrics *metrics.Metrics
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithRand replaces the crypto-seeded source.
func WithRand(r Rand) Option {
	return func(s *Service) { s.rng = r }
}

// WithNameResolver sets the display name lookup.
func WithNameResolver(r NameResolver) Option {
	return func(s *Service) { s.names = r }
}

// WithMetrics enables Prometheus counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New creates a new Service with all required dependencies.
func New(store repository.Store, catalog *game.Catalog, logger *logrus.Logger, opts ...Option) *Service {
	s := &Service{
		store:   store,
		catalog: catalog,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		src, err := random.New()
		if err != nil {
			logger.Warnf("Falling back to time-seeded randomness: %v", err)
			src = random.NewWithSeed(time.Now().UnixNano())
		}
		s.rng = src
	}
	return s
}

// GameCatalog returns the static game rules.
func (s *Service) GameCatalog() *game.Catalog {
	return s.catalog
}

// Now returns the current time of the service clock.
func (s *Service) Now() time.Time {
	return s.now().UTC()
}

// Ping checks the store.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// NameOf returns the display name of a user, or a generic label when the
// name cannot be resolved.
func (s *Service) NameOf(ctx context.Context, chatID, userID int64) string {
	fallback := fmt.Sprintf("Player %d", userID)
	if s.names == nil {
		return fallback
	}
	name, err := s.names.ResolveName(ctx, chatID, userID)
	if err != nil || name == "" {
		if err != nil {
			s.logger.WithFields(logrus.Fields{"user_id": userID, "chat_id": chatID}).Debugf("Failed to resolve name: %v", err)
		}
		return fallback
	}
	return name
}

// op is the unit of work of a single engine operation. Every ledger entry
// written through it shares its id.
type op struct {
	r     *repository.Repositories
	id    string
	now   time.Time
	moves []ledgerMove
}

type ledgerMove struct {
	reason string
	amount int64
}

// run executes fn in one store transaction. Errors that are not already
// engine errors are reported as storage failures.
func (s *Service) run(ctx context.Context, fn func(o *op) error) error {
	o := &op{id: uuid.NewString(), now: s.now().UTC()}
	err := s.store.WithinTx(ctx, func(r *repository.Repositories) error {
		o.r = r
		o.moves = o.moves[:0]
		return fn(o)
	})
	if err != nil {
		return storageErr(err)
	}
	for _, m := range o.moves {
		s.metrics.Coins(m.reason, m.amount)
	}
	return nil
}

// repos returns the non-transactional repositories for plain reads.
func (s *Service) repos() *repository.Repositories {
	return s.store.Repos()
}

func storageErr(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperrors.As(err); ok {
		return err
	}
	return apperrors.Storage(err)
}
