package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/FamilyBoT/internal/apperrors"
	"github.com/Kerhoff/FamilyBoT/internal/models"
)

// LevelResult is the outcome of a level refresh.
type LevelResult struct {
	Level     int
	Title     string
	Score     int64
	LeveledUp bool
}

// RefreshLevel recomputes the family level from budget and kids. The stored
// level only ever goes up: a lower score keeps the tier already reached.
func (s *Service) RefreshLevel(ctx context.Context, userID, chatID int64) (*LevelResult, error) {
	var res *LevelResult
	err := s.run(ctx, func(o *op) error {
		m, err := o.r.Marriages.LockByUser(ctx, userID, chatID)
		if err != nil {
			return err
		}
		if m == nil {
			return apperrors.NotFound("you are not married")
		}
		res, err = s.refreshLevel(ctx, o, m)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Service) refreshLevel(ctx context.Context, o *op, m *models.Marriage) (*LevelResult, error) {
	kids, err := o.r.Children.CountByParents(ctx, m.User1, m.User2, m.ChatID)
	if err != nil {
		return nil, err
	}

	score := s.catalog.Score(m.Budget, kids)
	computed := s.catalog.LevelOf(score)
	res := &LevelResult{Level: m.FamilyLevel, Score: score}

	if computed.Number > m.FamilyLevel {
		if err := o.r.Marriages.SetLevel(ctx, m.ID, computed.Number); err != nil {
			return nil, err
		}
		s.logger.WithFields(logrus.Fields{
			"chat_id":     m.ChatID,
			"marriage_id": m.ID,
			"from":        m.FamilyLevel,
			"to":          computed.Number,
		}).Info("Family leveled up")
		m.FamilyLevel = computed.Number
		res.Level = computed.Number
		res.LeveledUp = true
	}

	res.Title = s.catalog.Title(res.Level)
	return res, nil
}
