package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/FamilyBoT/internal/apperrors"
	"github.com/Kerhoff/FamilyBoT/internal/models"
)

// DailyResult is the outcome of claiming the daily bonus.
type DailyResult struct {
	Amount int64
	Budget int64
	Level  *LevelResult
}

// Daily credits the family's daily bonus, once per daily cooldown. Wealthy
// families get the larger amount.
func (s *Service) Daily(ctx context.Context, userID, chatID int64) (*DailyResult, error) {
	rules := s.catalog.Rules
	var res *DailyResult

	err := s.run(ctx, func(o *op) error {
		m, err := o.r.Marriages.LockByUser(ctx, userID, chatID)
		if err != nil {
			return err
		}
		if m == nil {
			return apperrors.NotFound("the daily bonus is for married players")
		}

		if m.LastDaily != nil {
			if since := o.now.Sub(*m.LastDaily); since < rules.DailyCooldown {
				return apperrors.Cooldown("the daily bonus was already claimed", rules.DailyCooldown-since)
			}
		}

		amount := rules.DailyAmount
		if m.Budget >= rules.DailyRichThreshold {
			amount = rules.DailyRichAmount
		}
		if err := s.credit(ctx, o, m, userID, amount, models.LedgerReasonDaily); err != nil {
			return err
		}
		if err := o.r.Marriages.SetLastDaily(ctx, m.ID, o.now); err != nil {
			return err
		}

		level, err := s.refreshLevel(ctx, o, m)
		if err != nil {
			return err
		}
		res = &DailyResult{Amount: amount, Budget: m.Budget, Level: level}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"chat_id": chatID,
		"user_id": userID,
		"amount":  res.Amount,
	}).Info("Daily bonus claimed")
	return res, nil
}
