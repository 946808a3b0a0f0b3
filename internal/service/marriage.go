package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/FamilyBoT/internal/apperrors"
	"github.com/Kerhoff/FamilyBoT/internal/models"
	"github.com/Kerhoff/FamilyBoT/internal/repository"
)

// FamilyInfo is a marriage with its derived standing.
type FamilyInfo struct {
	Marriage *models.Marriage
	Kids     int
	Title    string
}

// Lookup returns the marriage of user in chat, or nil.
func (s *Service) Lookup(ctx context.Context, userID, chatID int64) (*models.Marriage, error) {
	m, err := s.repos().Marriages.GetByUser(ctx, userID, chatID)
	if err != nil {
		return nil, storageErr(err)
	}
	return m, nil
}

// Register marries a and b in chat with an empty budget at level 1.
func (s *Service) Register(ctx context.Context, a, b, chatID int64) (*models.Marriage, error) {
	var m *models.Marriage
	err := s.run(ctx, func(o *op) error {
		var err error
		m, err = s.register(ctx, o, a, b, chatID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.metrics.Marriage("registered")
	return m, nil
}

func (s *Service) register(ctx context.Context, o *op, a, b, chatID int64) (*models.Marriage, error) {
	if a == b {
		return nil, apperrors.Validation("a user cannot marry themselves")
	}

	if err := o.r.Marriages.LockChat(ctx, chatID); err != nil {
		return nil, err
	}
	for _, user := range []int64{a, b} {
		existing, err := o.r.Marriages.GetByUser(ctx, user, chatID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperrors.Conflict("user %d is already married", user)
		}
	}

	m, err := o.r.Marriages.Create(ctx, &models.Marriage{
		User1:       a,
		User2:       b,
		ChatID:      chatID,
		MarriedAt:   o.now,
		FamilyLevel: 1,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("one of the partners is already married")
		}
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"chat_id":     chatID,
		"user1":       a,
		"user2":       b,
		"marriage_id": m.ID,
	}).Info("Marriage registered")
	return m, nil
}

// Dissolve removes the marriage of user in chat. It reports whether there was one.
func (s *Service) Dissolve(ctx context.Context, userID, chatID int64) (bool, error) {
	var removed bool
	err := s.run(ctx, func(o *op) error {
		n, err := o.r.Marriages.DeleteByUser(ctx, userID, chatID)
		removed = n > 0
		return err
	})
	if err != nil {
		return false, err
	}

	if removed {
		s.metrics.Marriage("dissolved")
		s.logger.WithFields(logrus.Fields{"chat_id": chatID, "user_id": userID}).Info("Marriage dissolved")
	}
	return removed, nil
}

// Families lists the marriages of a chat, oldest first.
func (s *Service) Families(ctx context.Context, chatID int64) ([]*FamilyInfo, error) {
	r := s.repos()
	marriages, err := r.Marriages.ListByChat(ctx, chatID)
	if err != nil {
		return nil, storageErr(err)
	}

	families := make([]*FamilyInfo, 0, len(marriages))
	for _, m := range marriages {
		kids, err := r.Children.CountByParents(ctx, m.User1, m.User2, chatID)
		if err != nil {
			return nil, storageErr(err)
		}
		families = append(families, &FamilyInfo{
			Marriage: m,
			Kids:     kids,
			Title:    s.catalog.Title(m.FamilyLevel),
		})
	}
	return families, nil
}
