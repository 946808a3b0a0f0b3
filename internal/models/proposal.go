package models

import "time"

// Proposal is the anti-spam marker of the last marriage proposal a user made in a chat
type Proposal struct {
	UserID     int64     `json:"user_id" db:"user_id"`
	ChatID     int64     `json:"chat_id" db:"chat_id"`
	ProposedAt time.Time `json:"proposed_at" db:"proposed_at"`
}
