package models

// Quest tracks a player's progress towards a one-time reward
type Quest struct {
	UserID    int64  `json:"user_id" db:"user_id"`
	ChatID    int64  `json:"chat_id" db:"chat_id"`
	QuestType string `json:"quest_type" db:"quest_type"`
	Target    int    `json:"target" db:"target"`
	Progress  int    `json:"progress" db:"progress"`
	Completed bool   `json:"completed" db:"completed"`
}
