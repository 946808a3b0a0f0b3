package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Kerhoff/FamilyBoT/internal/models"
)

type proposalRepository struct {
	q querier
}

func (r *proposalRepository) Get(ctx context.Context, userID, chatID int64) (*models.Proposal, error) {
	query := `SELECT user_id, chat_id, proposed_at FROM proposals WHERE user_id = $1 AND chat_id = $2`

	p := &models.Proposal{}
	err := r.q.QueryRowContext(ctx, query, userID, chatID).Scan(&p.UserID, &p.ChatID, &p.ProposedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get proposal: %w", err)
	}

	p.ProposedAt = p.ProposedAt.UTC()
	return p, nil
}

func (r *proposalRepository) Upsert(ctx context.Context, proposal *models.Proposal) error {
	query := `
		INSERT INTO proposals (user_id, chat_id, proposed_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, chat_id) DO UPDATE SET proposed_at = excluded.proposed_at`

	proposal.ProposedAt = ts(proposal.ProposedAt)
	if _, err := r.q.ExecContext(ctx, query, proposal.UserID, proposal.ChatID, proposal.ProposedAt); err != nil {
		return fmt.Errorf("failed to upsert proposal: %w", err)
	}
	return nil
}

func (r *proposalRepository) TryRecord(ctx context.Context, proposal *models.Proposal, notAfter time.Time) (bool, error) {
	query := `
		INSERT INTO proposals (user_id, chat_id, proposed_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, chat_id) DO UPDATE SET proposed_at = excluded.proposed_at
		WHERE proposals.proposed_at < $4`

	proposal.ProposedAt = ts(proposal.ProposedAt)
	result, err := r.q.ExecContext(ctx, query, proposal.UserID, proposal.ChatID, proposal.ProposedAt, ts(notAfter))
	if err != nil {
		return false, fmt.Errorf("failed to record proposal: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return n > 0, nil
}

func (r *proposalRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.q.ExecContext(ctx, `DELETE FROM proposals WHERE proposed_at < $1`, ts(before))
	if err != nil {
		return 0, fmt.Errorf("failed to delete old proposals: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return n, nil
}
