// Package sqlstore implements the repository interfaces on database/sql.
// The same statements run on PostgreSQL (lib/pq) and SQLite (modernc.org/sqlite);
// only row locking and duplicate-key detection differ between the two.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/Kerhoff/FamilyBoT/internal/repository"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type dialect struct {
	driver string
}

// forUpdate returns the row locking clause. SQLite transactions are opened
// IMMEDIATE and already hold the write lock.
func (d dialect) forUpdate() string {
	if d.driver == DriverPostgres {
		return " FOR UPDATE"
	}
	return ""
}

func (d dialect) isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is the SQL implementation of repository.Store
type Store struct {
	db      *sql.DB
	dialect dialect
	repos   *repository.Repositories
}

// New creates a store on an open database handle
func New(db *sql.DB, driver string) (*Store, error) {
	switch driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	s := &Store{db: db, dialect: dialect{driver: driver}}
	s.repos = s.bind(db)
	return s, nil
}

var _ repository.Store = (*Store)(nil)

func (s *Store) bind(q querier) *repository.Repositories {
	return &repository.Repositories{
		Marriages: &marriageRepository{q: q, d: s.dialect},
		Proposals: &proposalRepository{q: q},
		Children:  &childRepository{q: q},
		Jobs:      &jobRepository{q: q, d: s.dialect},
		Quests:    &questRepository{q: q, d: s.dialect},
		Shop:      &shopRepository{q: q},
		Ledger:    &ledgerRepository{q: q},
	}
}

// Repos returns repositories running outside any transaction
func (s *Store) Repos() *repository.Repositories {
	return s.repos
}

// WithinTx runs fn in a transaction
func (s *Store) WithinTx(ctx context.Context, fn func(r *repository.Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(s.bind(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Ping checks the database connection
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// ts normalizes timestamps so that both drivers store and compare them the same way.
func ts(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: ts(*t), Valid: true}
}

func timePtr(n sql.NullTime) *time.Time {
	if !n.Valid {
		return nil
	}
	t := n.Time.UTC()
	return &t
}
