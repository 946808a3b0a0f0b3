package sqlstore

import (
	"context"
	"fmt"

	"github.com/Kerhoff/FamilyBoT/internal/models"
)

type childRepository struct {
	q querier
}

const parentsMatch = `chat_id = $1 AND ((parent1 = $2 AND parent2 = $3) OR (parent1 = $3 AND parent2 = $2))`

func (r *childRepository) Create(ctx context.Context, child *models.Child) (*models.Child, error) {
	query := `
		INSERT INTO children (parent1, parent2, chat_id, name, created_at, birthday)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	child.CreatedAt = ts(child.CreatedAt)
	child.Birthday = ts(child.Birthday)

	err := r.q.QueryRowContext(ctx, query,
		child.Parent1,
		child.Parent2,
		child.ChatID,
		child.Name,
		child.CreatedAt,
		child.Birthday,
	).Scan(&child.ID)

	if err != nil {
		return nil, fmt.Errorf("failed to create child: %w", err)
	}

	return child, nil
}

func (r *childRepository) CountByParents(ctx context.Context, parentA, parentB, chatID int64) (int, error) {
	var count int
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM children WHERE `+parentsMatch, chatID, parentA, parentB).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count children: %w", err)
	}
	return count, nil
}

func (r *childRepository) ListByParents(ctx context.Context, parentA, parentB, chatID int64) ([]*models.Child, error) {
	query := `
		SELECT id, parent1, parent2, chat_id, name, created_at, birthday
		FROM children
		WHERE ` + parentsMatch + `
		ORDER BY created_at, id`

	rows, err := r.q.QueryContext(ctx, query, chatID, parentA, parentB)
	if err != nil {
		return nil, fmt.Errorf("failed to list children: %w", err)
	}
	defer rows.Close()

	var children []*models.Child
	for rows.Next() {
		c := &models.Child{}
		if err := rows.Scan(&c.ID, &c.Parent1, &c.Parent2, &c.ChatID, &c.Name, &c.CreatedAt, &c.Birthday); err != nil {
			return nil, fmt.Errorf("failed to scan child: %w", err)
		}
		c.CreatedAt = c.CreatedAt.UTC()
		c.Birthday = c.Birthday.UTC()
		children = append(children, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate children: %w", err)
	}

	return children, nil
}
