package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Kerhoff/FamilyBoT/internal/models"
)

type shopRepository struct {
	q querier
}

func (r *shopRepository) Upsert(ctx context.Context, item *models.ShopItem) (*models.ShopItem, error) {
	query := `
		INSERT INTO shop_items (name, type, price, description, position)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (name) DO UPDATE SET
			type = excluded.type,
			price = excluded.price,
			description = excluded.description,
			position = excluded.position
		RETURNING id`

	err := r.q.QueryRowContext(ctx, query,
		item.Name,
		item.Type,
		item.Price,
		item.Description,
		item.Position,
	).Scan(&item.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert shop item %s: %w", item.Name, err)
	}

	return item, nil
}

func (r *shopRepository) List(ctx context.Context) ([]*models.ShopItem, error) {
	query := `
		SELECT id, name, type, price, description, position
		FROM shop_items
		ORDER BY position, id`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list shop items: %w", err)
	}
	defer rows.Close()

	var items []*models.ShopItem
	for rows.Next() {
		item := &models.ShopItem{}
		if err := rows.Scan(&item.ID, &item.Name, &item.Type, &item.Price, &item.Description, &item.Position); err != nil {
			return nil, fmt.Errorf("failed to scan shop item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shop items: %w", err)
	}

	return items, nil
}

func (r *shopRepository) GetByName(ctx context.Context, name string) (*models.ShopItem, error) {
	query := `
		SELECT id, name, type, price, description, position
		FROM shop_items
		WHERE name = $1`

	item := &models.ShopItem{}
	err := r.q.QueryRowContext(ctx, query, name).Scan(
		&item.ID, &item.Name, &item.Type, &item.Price, &item.Description, &item.Position,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get shop item: %w", err)
	}

	return item, nil
}
