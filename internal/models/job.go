package models

import "time"

// UserJob holds a player's job and work statistics in a chat
type UserJob struct {
	UserID     int64      `json:"user_id" db:"user_id"`
	ChatID     int64      `json:"chat_id" db:"chat_id"`
	Job        string     `json:"job" db:"job"`
	WorkStreak int        `json:"work_streak" db:"work_streak"`
	LastWork   *time.Time `json:"last_work" db:"last_work"`
	TotalWorks int        `json:"total_works" db:"total_works"`
}

// SinceLastWork returns the time elapsed since the last shift, and false if
// the player never worked
func (j *UserJob) SinceLastWork(now time.Time) (time.Duration, bool) {
	if j.LastWork == nil {
		return 0, false
	}
	return now.Sub(*j.LastWork), true
}
