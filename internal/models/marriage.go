package models

import "time"

// Marriage represents a two-player family scoped to one chat
type Marriage struct {
	ID          int64      `json:"id" db:"id"`
	User1       int64      `json:"user1" db:"user1"`
	User2       int64      `json:"user2" db:"user2"`
	ChatID      int64      `json:"chat_id" db:"chat_id"`
	MarriedAt   time.Time  `json:"married_at" db:"married_at"`
	Budget      int64      `json:"budget" db:"budget"`
	LastDaily   *time.Time `json:"last_daily" db:"last_daily"`
	FamilyLevel int        `json:"family_level" db:"family_level"`
}

// HasMember returns true if the user is one of the spouses
func (m *Marriage) HasMember(userID int64) bool {
	return m.User1 == userID || m.User2 == userID
}

// PartnerOf returns the other spouse
func (m *Marriage) PartnerOf(userID int64) int64 {
	if m.User1 == userID {
		return m.User2
	}
	return m.User1
}

// DaysMarried returns the number of whole days since the wedding
func (m *Marriage) DaysMarried(now time.Time) int {
	if now.Before(m.MarriedAt) {
		return 0
	}
	return int(now.Sub(m.MarriedAt) / (24 * time.Hour))
}
