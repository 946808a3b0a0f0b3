package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/FamilyBoT/internal/apperrors"
	"github.com/Kerhoff/FamilyBoT/internal/game"
	"github.com/Kerhoff/FamilyBoT/internal/models"
)

// ProposalAnswer is the response of the proposed user.
type ProposalAnswer struct {
	ProposerID int64
	TargetID   int64
	ChatID     int64
	Accept     bool
}

// CanPropose reports whether the proposal cooldown of user in chat has passed.
func (s *Service) CanPropose(ctx context.Context, userID, chatID int64) (bool, error) {
	p, err := s.repos().Proposals.Get(ctx, userID, chatID)
	if err != nil {
		return false, storageErr(err)
	}
	if p == nil {
		return true, nil
	}
	return s.now().Sub(p.ProposedAt) > s.catalog.Rules.ProposalCooldown, nil
}

// RecordProposal stamps the proposal time of user in chat.
func (s *Service) RecordProposal(ctx context.Context, userID, chatID int64) error {
	err := s.repos().Proposals.Upsert(ctx, &models.Proposal{
		UserID:     userID,
		ChatID:     chatID,
		ProposedAt: s.now(),
	})
	return storageErr(err)
}

// Propose validates a marriage proposal and records it. The cooldown check
// and the new timestamp are a single compare-and-set, so two concurrent
// proposals cannot both pass.
func (s *Service) Propose(ctx context.Context, proposerID, targetID, chatID int64) error {
	if proposerID == targetID {
		return apperrors.Validation("you cannot marry yourself")
	}

	return s.run(ctx, func(o *op) error {
		married, err := o.r.Marriages.GetByUser(ctx, proposerID, chatID)
		if err != nil {
			return err
		}
		if married != nil {
			return apperrors.Validation("you are already married")
		}
		married, err = o.r.Marriages.GetByUser(ctx, targetID, chatID)
		if err != nil {
			return err
		}
		if married != nil {
			return apperrors.Validation("your chosen one is already married")
		}

		cooldown := s.catalog.Rules.ProposalCooldown
		p := &models.Proposal{UserID: proposerID, ChatID: chatID, ProposedAt: o.now}
		recorded, err := o.r.Proposals.TryRecord(ctx, p, o.now.Add(-cooldown))
		if err != nil {
			return err
		}
		if !recorded {
			remaining := cooldown
			if last, err := o.r.Proposals.Get(ctx, proposerID, chatID); err == nil && last != nil {
				remaining = cooldown - o.now.Sub(last.ProposedAt)
			}
			return apperrors.Cooldown("wait before proposing again", remaining)
		}

		s.logger.WithFields(logrus.Fields{
			"chat_id":  chatID,
			"proposer": proposerID,
			"target":   targetID,
		}).Info("Marriage proposed")
		return nil
	})
}

// AnswerProposal applies the target's answer. On acceptance the couple is
// registered and both spouses get the have_child quest; the new marriage is
// returned. A rejection changes nothing and returns nil.
func (s *Service) AnswerProposal(ctx context.Context, responderID int64, answer ProposalAnswer) (*models.Marriage, error) {
	if responderID != answer.TargetID {
		return nil, apperrors.Validation("this proposal is not addressed to you")
	}
	if !answer.Accept {
		s.logger.WithFields(logrus.Fields{
			"chat_id":  answer.ChatID,
			"proposer": answer.ProposerID,
			"target":   answer.TargetID,
		}).Info("Marriage proposal rejected")
		return nil, nil
	}

	var m *models.Marriage
	err := s.run(ctx, func(o *op) error {
		var err error
		m, err = s.register(ctx, o, answer.ProposerID, answer.TargetID, answer.ChatID)
		if err != nil {
			return err
		}
		for _, user := range []int64{answer.ProposerID, answer.TargetID} {
			if err := s.ensureQuest(ctx, o, user, answer.ChatID, game.QuestHaveChild); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.Marriage("registered")
	return m, nil
}
