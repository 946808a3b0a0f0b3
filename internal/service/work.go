package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/FamilyBoT/internal/apperrors"
	"github.com/Kerhoff/FamilyBoT/internal/game"
	"github.com/Kerhoff/FamilyBoT/internal/models"
)

// WorkResult is the outcome of a work shift.
type WorkResult struct {
	Job        string
	Pay        int64
	Event      string
	Passive    int64
	Streak     int
	TotalWorks int
	Married    bool
	Budget     int64
	Completed  []CompletedQuest
}

// Job returns the job record of the user, creating it on first use.
func (s *Service) Job(ctx context.Context, userID, chatID int64) (*models.UserJob, error) {
	var job *models.UserJob
	err := s.run(ctx, func(o *op) error {
		if err := o.r.Jobs.Ensure(ctx, userID, chatID, s.catalog.DefaultJob()); err != nil {
			return err
		}
		var err error
		job, err = o.r.Jobs.Get(ctx, userID, chatID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return job, nil
}

// Work runs one shift. Shifts are at least the work cooldown apart. Pay goes
// to the family budget; an unmarried player still builds streak and quests
// but earns nothing.
func (s *Service) Work(ctx context.Context, userID, chatID int64) (*WorkResult, error) {
	rules := s.catalog.Rules
	res := &WorkResult{}

	err := s.run(ctx, func(o *op) error {
		*res = WorkResult{}

		if err := o.r.Jobs.Ensure(ctx, userID, chatID, s.catalog.DefaultJob()); err != nil {
			return err
		}
		job, err := o.r.Jobs.LockGet(ctx, userID, chatID)
		if err != nil {
			return err
		}
		if job == nil {
			return apperrors.NotFound("job record of user %d is missing", userID)
		}

		since, worked := job.SinceLastWork(o.now)
		if worked && since < rules.WorkCooldown {
			return apperrors.Cooldown("you are tired, rest before the next shift", rules.WorkCooldown-since)
		}

		pay := s.catalog.Salary(job.Job)
		if s.rng.Float64() < rules.WorkEventChance {
			ev := rules.WorkEvents[s.rng.Intn(len(rules.WorkEvents))]
			pay = int64(float64(pay) * ev.Multiplier)
			res.Event = ev.Label
		}

		m, err := o.r.Marriages.LockByUser(ctx, userID, chatID)
		if err != nil {
			return err
		}
		// Passive income depends on the budget alone, not on owning the House.
		if m != nil && m.Budget >= rules.PassiveIncomeThreshold {
			if err := s.credit(ctx, o, m, userID, rules.PassiveIncome, models.LedgerReasonPassive); err != nil {
				return err
			}
			res.Passive = rules.PassiveIncome
		}

		if worked && since < rules.StreakWindow {
			job.WorkStreak++
		} else {
			job.WorkStreak = 1
		}
		job.TotalWorks++
		job.LastWork = &o.now
		if err := o.r.Jobs.UpdateStats(ctx, job); err != nil {
			return err
		}

		if err := s.credit(ctx, o, m, userID, pay, models.LedgerReasonSalary); err != nil {
			return err
		}

		adv, err := s.bump(ctx, o, m, userID, chatID, game.QuestWorkFiveTimes, 1)
		if err != nil {
			return err
		}
		res.Completed = s.appendCompleted(res.Completed, adv)

		res.Job = job.Job
		res.Pay = pay
		res.Streak = job.WorkStreak
		res.TotalWorks = job.TotalWorks
		if m != nil {
			res.Married = true
			res.Budget = m.Budget
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.WorkEvent(res.Event)
	s.logger.WithFields(logrus.Fields{
		"chat_id": chatID,
		"user_id": userID,
		"job":     res.Job,
		"pay":     res.Pay,
		"event":   res.Event,
		"streak":  res.Streak,
	}).Info("Work shift completed")
	return res, nil
}

// AssignJob sets the user's job. Streak and total shifts are kept.
func (s *Service) AssignJob(ctx context.Context, userID, chatID int64, jobName string) error {
	if !s.catalog.HasJob(jobName) {
		return apperrors.Validation("unknown job %q", jobName)
	}
	return s.run(ctx, func(o *op) error {
		return s.assignJob(ctx, o, userID, chatID, jobName)
	})
}

func (s *Service) assignJob(ctx context.Context, o *op, userID, chatID int64, jobName string) error {
	if err := o.r.Jobs.Ensure(ctx, userID, chatID, s.catalog.DefaultJob()); err != nil {
		return err
	}
	return o.r.Jobs.SetJob(ctx, userID, chatID, jobName)
}
