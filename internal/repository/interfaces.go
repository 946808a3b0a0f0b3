package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Kerhoff/FamilyBoT/internal/models"
)

// ErrDuplicate is wrapped by implementations when a unique constraint rejects a write.
var ErrDuplicate = errors.New("duplicate key")

// MarriageRepository defines the interface for marriage data operations.
// Lookups return nil, nil when no marriage exists.
type MarriageRepository interface {
	Create(ctx context.Context, marriage *models.Marriage) (*models.Marriage, error)
	GetByUser(ctx context.Context, userID, chatID int64) (*models.Marriage, error)
	// LockByUser reads the marriage and holds it until the transaction ends.
	LockByUser(ctx context.Context, userID, chatID int64) (*models.Marriage, error)
	// LockChat serializes marriage registration within one chat.
	LockChat(ctx context.Context, chatID int64) error
	ListByChat(ctx context.Context, chatID int64) ([]*models.Marriage, error)
	DeleteByUser(ctx context.Context, userID, chatID int64) (int64, error)
	AddBudget(ctx context.Context, marriageID, delta int64) (int64, error)
	SetLevel(ctx context.Context, marriageID int64, level int) error
	SetLastDaily(ctx context.Context, marriageID int64, at time.Time) error
}

// ProposalRepository defines the interface for proposal cooldown markers
type ProposalRepository interface {
	Get(ctx context.Context, userID, chatID int64) (*models.Proposal, error)
	Upsert(ctx context.Context, proposal *models.Proposal) error
	// TryRecord stores the proposal only if no marker exists or the existing
	// one is older than notAfter. It reports whether the marker was written.
	TryRecord(ctx context.Context, proposal *models.Proposal, notAfter time.Time) (bool, error)
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}

// ChildRepository defines the interface for child data operations.
// Parent pairs match in either order.
type ChildRepository interface {
	Create(ctx context.Context, child *models.Child) (*models.Child, error)
	CountByParents(ctx context.Context, parentA, parentB, chatID int64) (int, error)
	ListByParents(ctx context.Context, parentA, parentB, chatID int64) ([]*models.Child, error)
}

// JobRepository defines the interface for per-chat job records
type JobRepository interface {
	// Ensure creates the record with the given job if it does not exist yet.
	Ensure(ctx context.Context, userID, chatID int64, job string) error
	Get(ctx context.Context, userID, chatID int64) (*models.UserJob, error)
	LockGet(ctx context.Context, userID, chatID int64) (*models.UserJob, error)
	UpdateStats(ctx context.Context, job *models.UserJob) error
	SetJob(ctx context.Context, userID, chatID int64, job string) error
	Delete(ctx context.Context, userID, chatID int64) (int64, error)
}

// QuestRepository defines the interface for quest progress operations
type QuestRepository interface {
	// Ensure creates a zero-progress quest if it does not exist yet.
	Ensure(ctx context.Context, userID, chatID int64, questType string, target int) error
	Get(ctx context.Context, userID, chatID int64, questType string) (*models.Quest, error)
	LockGet(ctx context.Context, userID, chatID int64, questType string) (*models.Quest, error)
	ListByUser(ctx context.Context, userID, chatID int64) ([]*models.Quest, error)
	SetProgress(ctx context.Context, userID, chatID int64, questType string, progress int) error
	// Complete marks the quest completed and pins progress at target. It
	// reports false if the quest was already completed.
	Complete(ctx context.Context, userID, chatID int64, questType string) (bool, error)
	ListCompletedTypes(ctx context.Context, userID, chatID int64) ([]string, error)
	DeleteByUser(ctx context.Context, userID, chatID int64) (int64, error)
}

// ShopRepository defines the interface for the shop catalog
type ShopRepository interface {
	Upsert(ctx context.Context, item *models.ShopItem) (*models.ShopItem, error)
	List(ctx context.Context) ([]*models.ShopItem, error)
	GetByName(ctx context.Context, name string) (*models.ShopItem, error)
}

// LedgerRepository defines the interface for the family budget journal
type LedgerRepository interface {
	Append(ctx context.Context, entry *models.LedgerEntry) (*models.LedgerEntry, error)
	ListByMarriage(ctx context.Context, marriageID int64, limit int) ([]*models.LedgerEntry, error)
}

// Repositories groups the repositories bound to one connection or transaction
type Repositories struct {
	Marriages MarriageRepository
	Proposals ProposalRepository
	Children  ChildRepository
	Jobs      JobRepository
	Quests    QuestRepository
	Shop      ShopRepository
	Ledger    LedgerRepository
}

// Store is the persistent repository of the game state
type Store interface {
	// Repos returns repositories that run each statement on its own.
	Repos() *Repositories
	// WithinTx runs fn with repositories bound to a single transaction. The
	// transaction commits if fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(r *Repositories) error) error
	Ping(ctx context.Context) error
}
