package models

import "time"

// LedgerReason labels why a family budget changed
type LedgerReason string

const (
	LedgerReasonSalary      LedgerReason = "salary"
	LedgerReasonPassive     LedgerReason = "passive_income"
	LedgerReasonQuestReward LedgerReason = "quest_reward"
	LedgerReasonDaily       LedgerReason = "daily"
	LedgerReasonChild       LedgerReason = "child"
	LedgerReasonPurchase    LedgerReason = "purchase"
	LedgerReasonGift        LedgerReason = "gift"
	LedgerReasonCasino      LedgerReason = "casino"
	LedgerReasonAdjustment  LedgerReason = "adjustment"
)

// LedgerEntry records one change of a family budget
type LedgerEntry struct {
	ID         int64        `json:"id" db:"id"`
	MarriageID int64        `json:"marriage_id" db:"marriage_id"`
	ChatID     int64        `json:"chat_id" db:"chat_id"`
	UserID     int64        `json:"user_id" db:"user_id"`
	Amount     int64        `json:"amount" db:"amount"`
	Reason     LedgerReason `json:"reason" db:"reason"`
	OpID       string       `json:"op_id" db:"op_id"`
	CreatedAt  time.Time    `json:"created_at" db:"created_at"`
}
