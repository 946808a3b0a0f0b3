package sqlstore

import (
	"context"
	"fmt"

	"github.com/Kerhoff/FamilyBoT/internal/models"
)

type ledgerRepository struct {
	q querier
}

func (r *ledgerRepository) Append(ctx context.Context, entry *models.LedgerEntry) (*models.LedgerEntry, error) {
	query := `
		INSERT INTO ledger_entries (marriage_id, chat_id, user_id, amount, reason, op_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	entry.CreatedAt = ts(entry.CreatedAt)

	err := r.q.QueryRowContext(ctx, query,
		entry.MarriageID,
		entry.ChatID,
		entry.UserID,
		entry.Amount,
		string(entry.Reason),
		entry.OpID,
		entry.CreatedAt,
	).Scan(&entry.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to append ledger entry: %w", err)
	}

	return entry, nil
}

// ListByMarriage returns the newest entries first.
func (r *ledgerRepository) ListByMarriage(ctx context.Context, marriageID int64, limit int) ([]*models.LedgerEntry, error) {
	query := `
		SELECT id, marriage_id, chat_id, user_id, amount, reason, op_id, created_at
		FROM ledger_entries
		WHERE marriage_id = $1
		ORDER BY id DESC
		LIMIT $2`

	rows, err := r.q.QueryContext(ctx, query, marriageID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.LedgerEntry
	for rows.Next() {
		e := &models.LedgerEntry{}
		var reason string
		if err := rows.Scan(&e.ID, &e.MarriageID, &e.ChatID, &e.UserID, &e.Amount, &reason, &e.OpID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		e.Reason = models.LedgerReason(reason)
		e.CreatedAt = e.CreatedAt.UTC()
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger entries: %w", err)
	}

	return entries, nil
}
