package models

import "time"

// Child represents a child of a couple. Children outlive the marriage.
type Child struct {
	ID        int64     `json:"id" db:"id"`
	Parent1   int64     `json:"parent1" db:"parent1"`
	Parent2   int64     `json:"parent2" db:"parent2"`
	ChatID    int64     `json:"chat_id" db:"chat_id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Birthday  time.Time `json:"birthday" db:"birthday"`
}
