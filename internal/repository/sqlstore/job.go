package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Kerhoff/FamilyBoT/internal/models"
)

type jobRepository struct {
	q querier
	d dialect
}

func (r *jobRepository) Ensure(ctx context.Context, userID, chatID int64, job string) error {
	query := `
		INSERT INTO user_jobs (user_id, chat_id, job, work_streak, total_works)
		VALUES ($1, $2, $3, 0, 0)
		ON CONFLICT (user_id, chat_id) DO NOTHING`

	if _, err := r.q.ExecContext(ctx, query, userID, chatID, job); err != nil {
		return fmt.Errorf("failed to ensure job record: %w", err)
	}
	return nil
}

func (r *jobRepository) Get(ctx context.Context, userID, chatID int64) (*models.UserJob, error) {
	return r.get(ctx, userID, chatID, "")
}

func (r *jobRepository) LockGet(ctx context.Context, userID, chatID int64) (*models.UserJob, error) {
	return r.get(ctx, userID, chatID, r.d.forUpdate())
}

func (r *jobRepository) get(ctx context.Context, userID, chatID int64, lock string) (*models.UserJob, error) {
	query := `
		SELECT user_id, chat_id, job, work_streak, last_work, total_works
		FROM user_jobs
		WHERE user_id = $1 AND chat_id = $2` + lock

	j := &models.UserJob{}
	var lastWork sql.NullTime
	err := r.q.QueryRowContext(ctx, query, userID, chatID).Scan(
		&j.UserID,
		&j.ChatID,
		&j.Job,
		&j.WorkStreak,
		&lastWork,
		&j.TotalWorks,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job record: %w", err)
	}

	j.LastWork = timePtr(lastWork)
	return j, nil
}

func (r *jobRepository) UpdateStats(ctx context.Context, job *models.UserJob) error {
	query := `
		UPDATE user_jobs
		SET work_streak = $1, last_work = $2, total_works = $3
		WHERE user_id = $4 AND chat_id = $5`

	_, err := r.q.ExecContext(ctx, query,
		job.WorkStreak,
		nullTime(job.LastWork),
		job.TotalWorks,
		job.UserID,
		job.ChatID,
	)
	if err != nil {
		return fmt.Errorf("failed to update work stats: %w", err)
	}
	return nil
}

func (r *jobRepository) SetJob(ctx context.Context, userID, chatID int64, job string) error {
	query := `UPDATE user_jobs SET job = $1 WHERE user_id = $2 AND chat_id = $3`
	if _, err := r.q.ExecContext(ctx, query, job, userID, chatID); err != nil {
		return fmt.Errorf("failed to set job: %w", err)
	}
	return nil
}

func (r *jobRepository) Delete(ctx context.Context, userID, chatID int64) (int64, error) {
	result, err := r.q.ExecContext(ctx, `DELETE FROM user_jobs WHERE user_id = $1 AND chat_id = $2`, userID, chatID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete job record: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return n, nil
}
