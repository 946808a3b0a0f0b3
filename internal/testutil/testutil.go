// Package testutil holds shared test fixtures: an in-memory store with the
// real schema, a manual clock and a scripted randomness source.
package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/FamilyBoT/internal/config"
	"github.com/Kerhoff/FamilyBoT/internal/repository/sqlstore"
	"github.com/Kerhoff/FamilyBoT/migrations"
	"github.com/Kerhoff/FamilyBoT/pkg/logger"
)

// NewDB opens a private in-memory SQLite database with migrations applied.
func NewDB(t *testing.T) *config.Database {
	t.Helper()

	db, err := config.NewDatabase("sqlite", ":memory:", Logger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.Migrate(migrations.FS))
	return db
}

// NewStore returns a store on a fresh in-memory database.
func NewStore(t *testing.T) *sqlstore.Store {
	t.Helper()
	db := NewDB(t)
	s, err := sqlstore.New(db.DB, sqlstore.DriverSQLite)
	require.NoError(t, err)
	return s
}

// Logger returns a logger that discards output.
func Logger() *logrus.Logger {
	return logger.Discard()
}

// Clock is a manually advanced clock.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock starts a clock at a fixed instant.
func NewClock() *Clock {
	return &Clock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

// Now returns the current instant.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Rand replays scripted values. Once a script runs out Float64 returns 0.99
// and Intn returns 0, so random branches with small chances stay closed.
type Rand struct {
	mu     sync.Mutex
	floats []float64
	ints   []int
}

// NewRand creates an empty script.
func NewRand() *Rand {
	return &Rand{}
}

// PushFloat queues values for Float64.
func (r *Rand) PushFloat(v ...float64) *Rand {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.floats = append(r.floats, v...)
	return r
}

// PushInt queues values for Intn. Each value is reduced modulo n when drawn.
func (r *Rand) PushInt(v ...int) *Rand {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ints = append(r.ints, v...)
	return r
}

// Float64 implements the service randomness source.
func (r *Rand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.floats) == 0 {
		return 0.99
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

// Intn implements the service randomness source.
func (r *Rand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}
