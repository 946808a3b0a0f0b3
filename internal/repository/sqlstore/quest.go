package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Kerhoff/FamilyBoT/internal/models"
)

type questRepository struct {
	q querier
	d dialect
}

func (r *questRepository) Ensure(ctx context.Context, userID, chatID int64, questType string, target int) error {
	query := `
		INSERT INTO quests (user_id, chat_id, quest_type, target, progress, completed)
		VALUES ($1, $2, $3, $4, 0, FALSE)
		ON CONFLICT (user_id, chat_id, quest_type) DO NOTHING`

	if _, err := r.q.ExecContext(ctx, query, userID, chatID, questType, target); err != nil {
		return fmt.Errorf("failed to ensure quest: %w", err)
	}
	return nil
}

func (r *questRepository) Get(ctx context.Context, userID, chatID int64, questType string) (*models.Quest, error) {
	return r.get(ctx, userID, chatID, questType, "")
}

func (r *questRepository) LockGet(ctx context.Context, userID, chatID int64, questType string) (*models.Quest, error) {
	return r.get(ctx, userID, chatID, questType, r.d.forUpdate())
}

func (r *questRepository) get(ctx context.Context, userID, chatID int64, questType, lock string) (*models.Quest, error) {
	query := `
		SELECT user_id, chat_id, quest_type, target, progress, completed
		FROM quests
		WHERE user_id = $1 AND chat_id = $2 AND quest_type = $3` + lock

	q := &models.Quest{}
	err := r.q.QueryRowContext(ctx, query, userID, chatID, questType).Scan(
		&q.UserID, &q.ChatID, &q.QuestType, &q.Target, &q.Progress, &q.Completed,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quest: %w", err)
	}

	return q, nil
}

func (r *questRepository) ListByUser(ctx context.Context, userID, chatID int64) ([]*models.Quest, error) {
	query := `
		SELECT user_id, chat_id, quest_type, target, progress, completed
		FROM quests
		WHERE user_id = $1 AND chat_id = $2
		ORDER BY quest_type`

	rows, err := r.q.QueryContext(ctx, query, userID, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to list quests: %w", err)
	}
	defer rows.Close()

	var quests []*models.Quest
	for rows.Next() {
		q := &models.Quest{}
		if err := rows.Scan(&q.UserID, &q.ChatID, &q.QuestType, &q.Target, &q.Progress, &q.Completed); err != nil {
			return nil, fmt.Errorf("failed to scan quest: %w", err)
		}
		quests = append(quests, q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate quests: %w", err)
	}

	return quests, nil
}

// SetProgress only ever moves progress forward on an open quest.
func (r *questRepository) SetProgress(ctx context.Context, userID, chatID int64, questType string, progress int) error {
	query := `
		UPDATE quests
		SET progress = $1
		WHERE user_id = $2 AND chat_id = $3 AND quest_type = $4
		  AND completed = FALSE AND progress < $1`

	if _, err := r.q.ExecContext(ctx, query, progress, userID, chatID, questType); err != nil {
		return fmt.Errorf("failed to set quest progress: %w", err)
	}
	return nil
}

func (r *questRepository) Complete(ctx context.Context, userID, chatID int64, questType string) (bool, error) {
	query := `
		UPDATE quests
		SET completed = TRUE, progress = target
		WHERE user_id = $1 AND chat_id = $2 AND quest_type = $3 AND completed = FALSE`

	result, err := r.q.ExecContext(ctx, query, userID, chatID, questType)
	if err != nil {
		return false, fmt.Errorf("failed to complete quest: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return n == 1, nil
}

func (r *questRepository) ListCompletedTypes(ctx context.Context, userID, chatID int64) ([]string, error) {
	query := `
		SELECT quest_type FROM quests
		WHERE user_id = $1 AND chat_id = $2 AND completed = TRUE
		ORDER BY quest_type`

	rows, err := r.q.QueryContext(ctx, query, userID, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed quests: %w", err)
	}
	defer rows.Close()

	var types []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("failed to scan quest type: %w", err)
		}
		types = append(types, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate completed quests: %w", err)
	}

	return types, nil
}

func (r *questRepository) DeleteByUser(ctx context.Context, userID, chatID int64) (int64, error) {
	result, err := r.q.ExecContext(ctx, `DELETE FROM quests WHERE user_id = $1 AND chat_id = $2`, userID, chatID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete quests: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return n, nil
}
