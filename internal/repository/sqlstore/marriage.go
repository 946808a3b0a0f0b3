package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Kerhoff/FamilyBoT/internal/models"
	"github.com/Kerhoff/FamilyBoT/internal/repository"
)

type marriageRepository struct {
	q querier
	d dialect
}

const marriageColumns = `id, user1, user2, chat_id, married_at, budget, last_daily, family_level`

func scanMarriage(row interface{ Scan(dest ...any) error }) (*models.Marriage, error) {
	m := &models.Marriage{}
	var lastDaily sql.NullTime
	err := row.Scan(
		&m.ID,
		&m.User1,
		&m.User2,
		&m.ChatID,
		&m.MarriedAt,
		&m.Budget,
		&lastDaily,
		&m.FamilyLevel,
	)
	if err != nil {
		return nil, err
	}
	m.MarriedAt = m.MarriedAt.UTC()
	m.LastDaily = timePtr(lastDaily)
	return m, nil
}

func (r *marriageRepository) Create(ctx context.Context, marriage *models.Marriage) (*models.Marriage, error) {
	query := `
		INSERT INTO marriages (user1, user2, chat_id, married_at, budget, last_daily, family_level)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	marriage.MarriedAt = ts(marriage.MarriedAt)
	if marriage.FamilyLevel < 1 {
		marriage.FamilyLevel = 1
	}

	err := r.q.QueryRowContext(ctx, query,
		marriage.User1,
		marriage.User2,
		marriage.ChatID,
		marriage.MarriedAt,
		marriage.Budget,
		nullTime(marriage.LastDaily),
		marriage.FamilyLevel,
	).Scan(&marriage.ID)

	if err != nil {
		if r.d.isDuplicate(err) {
			return nil, fmt.Errorf("failed to create marriage: %w: %v", repository.ErrDuplicate, err)
		}
		return nil, fmt.Errorf("failed to create marriage: %w", err)
	}

	return marriage, nil
}

func (r *marriageRepository) GetByUser(ctx context.Context, userID, chatID int64) (*models.Marriage, error) {
	return r.getByUser(ctx, userID, chatID, "")
}

func (r *marriageRepository) LockByUser(ctx context.Context, userID, chatID int64) (*models.Marriage, error) {
	return r.getByUser(ctx, userID, chatID, r.d.forUpdate())
}

func (r *marriageRepository) getByUser(ctx context.Context, userID, chatID int64, lock string) (*models.Marriage, error) {
	query := `
		SELECT ` + marriageColumns + `
		FROM marriages
		WHERE chat_id = $1 AND (user1 = $2 OR user2 = $2)
		LIMIT 1` + lock

	m, err := scanMarriage(r.q.QueryRowContext(ctx, query, chatID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get marriage by user: %w", err)
	}

	return m, nil
}

// LockChat takes a transaction-scoped advisory lock on PostgreSQL. The
// SQLite transaction already holds the database write lock.
func (r *marriageRepository) LockChat(ctx context.Context, chatID int64) error {
	if r.d.driver != DriverPostgres {
		return nil
	}
	if _, err := r.q.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, chatID); err != nil {
		return fmt.Errorf("failed to lock chat %d: %w", chatID, err)
	}
	return nil
}

func (r *marriageRepository) ListByChat(ctx context.Context, chatID int64) ([]*models.Marriage, error) {
	query := `
		SELECT ` + marriageColumns + `
		FROM marriages
		WHERE chat_id = $1
		ORDER BY married_at, id`

	rows, err := r.q.QueryContext(ctx, query, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to list marriages: %w", err)
	}
	defer rows.Close()

	var marriages []*models.Marriage
	for rows.Next() {
		m, err := scanMarriage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan marriage: %w", err)
		}
		marriages = append(marriages, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate marriages: %w", err)
	}

	return marriages, nil
}

func (r *marriageRepository) DeleteByUser(ctx context.Context, userID, chatID int64) (int64, error) {
	query := `DELETE FROM marriages WHERE chat_id = $1 AND (user1 = $2 OR user2 = $2)`

	result, err := r.q.ExecContext(ctx, query, chatID, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete marriage: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return n, nil
}

func (r *marriageRepository) AddBudget(ctx context.Context, marriageID, delta int64) (int64, error) {
	query := `UPDATE marriages SET budget = budget + $1 WHERE id = $2 RETURNING budget`

	var budget int64
	if err := r.q.QueryRowContext(ctx, query, delta, marriageID).Scan(&budget); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("marriage %d not found", marriageID)
		}
		return 0, fmt.Errorf("failed to update budget: %w", err)
	}

	return budget, nil
}

func (r *marriageRepository) SetLevel(ctx context.Context, marriageID int64, level int) error {
	if _, err := r.q.ExecContext(ctx, `UPDATE marriages SET family_level = $1 WHERE id = $2`, level, marriageID); err != nil {
		return fmt.Errorf("failed to update family level: %w", err)
	}
	return nil
}

func (r *marriageRepository) SetLastDaily(ctx context.Context, marriageID int64, at time.Time) error {
	if _, err := r.q.ExecContext(ctx, `UPDATE marriages SET last_daily = $1 WHERE id = $2`, ts(at), marriageID); err != nil {
		return fmt.Errorf("failed to update last daily: %w", err)
	}
	return nil
}
