package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/FamilyBoT/internal/apperrors"
	"github.com/Kerhoff/FamilyBoT/internal/game"
	"github.com/Kerhoff/FamilyBoT/internal/models"
)

// BirthResult is the outcome of Bear.
type BirthResult struct {
	Child     *models.Child
	Budget    int64
	Completed []CompletedQuest
}

// CountChildren returns the number of children of the user's couple.
func (s *Service) CountChildren(ctx context.Context, userID, chatID int64) (int, error) {
	r := s.repos()
	m, err := r.Marriages.GetByUser(ctx, userID, chatID)
	if err != nil {
		return 0, storageErr(err)
	}
	if m == nil {
		return 0, nil
	}
	n, err := r.Children.CountByParents(ctx, m.User1, m.User2, chatID)
	return n, storageErr(err)
}

// ListChildren returns the children of the user's couple, oldest first.
func (s *Service) ListChildren(ctx context.Context, userID, chatID int64) ([]*models.Child, error) {
	r := s.repos()
	m, err := r.Marriages.GetByUser(ctx, userID, chatID)
	if err != nil {
		return nil, storageErr(err)
	}
	if m == nil {
		return nil, nil
	}
	kids, err := r.Children.ListByParents(ctx, m.User1, m.User2, chatID)
	if err != nil {
		return nil, storageErr(err)
	}
	return kids, nil
}

// Bear adds a child to the user's family for the child price. The limit and
// the funds are checked before anything changes.
func (s *Service) Bear(ctx context.Context, userID, chatID int64) (*BirthResult, error) {
	rules := s.catalog.Rules
	res := &BirthResult{}

	err := s.run(ctx, func(o *op) error {
		res.Completed = nil

		m, err := o.r.Marriages.LockByUser(ctx, userID, chatID)
		if err != nil {
			return err
		}
		if m == nil {
			return apperrors.NotFound("you are not married")
		}

		kids, err := o.r.Children.CountByParents(ctx, m.User1, m.User2, chatID)
		if err != nil {
			return err
		}
		if kids >= rules.MaxChildren {
			return apperrors.Limit("a family can have at most %d children", rules.MaxChildren)
		}

		if err := s.debit(ctx, o, m, userID, rules.ChildPrice, models.LedgerReasonChild); err != nil {
			return err
		}

		child, err := o.r.Children.Create(ctx, &models.Child{
			Parent1:   m.User1,
			Parent2:   m.User2,
			ChatID:    chatID,
			Name:      fmt.Sprintf("Child-%d", 100+s.rng.Intn(900)),
			CreatedAt: o.now,
			Birthday:  o.now.AddDate(1, 0, 0),
		})
		if err != nil {
			return err
		}
		res.Child = child

		// The quest is handed out on marriage; a couple registered any other
		// way has none to complete.
		q, err := o.r.Quests.LockGet(ctx, userID, chatID, game.QuestHaveChild)
		if err != nil {
			return err
		}
		if q != nil && !q.Completed {
			adv, err := s.advance(ctx, o, m, q, 1)
			if err != nil {
				return err
			}
			res.Completed = s.appendCompleted(res.Completed, adv)
		}

		res.Budget = m.Budget
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"chat_id": chatID,
		"user_id": userID,
		"child":   res.Child.Name,
		"budget":  res.Budget,
	}).Info("Child born")
	return res, nil
}
