package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/FamilyBoT/internal/apperrors"
	"github.com/Kerhoff/FamilyBoT/internal/models"
)

// GetBudget returns the family budget of user, or 0 when the user is not married.
func (s *Service) GetBudget(ctx context.Context, userID, chatID int64) (int64, error) {
	m, err := s.repos().Marriages.GetByUser(ctx, userID, chatID)
	if err != nil {
		return 0, storageErr(err)
	}
	if m == nil {
		return 0, nil
	}
	return m.Budget, nil
}

// Adjust adds delta to the budget of the user's family. It is a no-op when
// the user is not married. Adjust does not clamp at zero: a caller passing a
// negative delta must have checked the funds itself, or use Debit.
func (s *Service) Adjust(ctx context.Context, userID, chatID, delta int64) error {
	return s.run(ctx, func(o *op) error {
		m, err := o.r.Marriages.LockByUser(ctx, userID, chatID)
		if err != nil || m == nil {
			return err
		}
		return s.apply(ctx, o, m, userID, delta, models.LedgerReasonAdjustment)
	})
}

// Debit takes amount from the user's family budget, failing with
// INSUFFICIENT_FUNDS instead of going below zero.
func (s *Service) Debit(ctx context.Context, userID, chatID, amount int64) error {
	if amount <= 0 {
		return apperrors.Validation("debit amount must be positive, got %d", amount)
	}
	return s.run(ctx, func(o *op) error {
		m, err := o.r.Marriages.LockByUser(ctx, userID, chatID)
		if err != nil {
			return err
		}
		return s.debit(ctx, o, m, userID, amount, models.LedgerReasonAdjustment)
	})
}

// History lists the latest budget changes of the user's family.
func (s *Service) History(ctx context.Context, userID, chatID int64, limit int) ([]*models.LedgerEntry, error) {
	r := s.repos()
	m, err := r.Marriages.GetByUser(ctx, userID, chatID)
	if err != nil {
		return nil, storageErr(err)
	}
	if m == nil {
		return nil, apperrors.NotFound("you are not married")
	}
	if limit <= 0 {
		limit = 10
	}
	entries, err := r.Ledger.ListByMarriage(ctx, m.ID, limit)
	if err != nil {
		return nil, storageErr(err)
	}
	return entries, nil
}

// debit checks the funds of a locked marriage and takes amount from it. A nil
// marriage has a budget of zero.
func (s *Service) debit(ctx context.Context, o *op, m *models.Marriage, userID, amount int64, reason models.LedgerReason) error {
	var budget int64
	if m != nil {
		budget = m.Budget
	}
	if budget < amount {
		return apperrors.InsufficientFunds(amount, budget)
	}
	return s.apply(ctx, o, m, userID, -amount, reason)
}

// credit adds amount to a locked marriage; unmarried players earn nothing.
func (s *Service) credit(ctx context.Context, o *op, m *models.Marriage, userID, amount int64, reason models.LedgerReason) error {
	if m == nil {
		return nil
	}
	return s.apply(ctx, o, m, userID, amount, reason)
}

func (s *Service) apply(ctx context.Context, o *op, m *models.Marriage, userID, delta int64, reason models.LedgerReason) error {
	if delta == 0 {
		return nil
	}

	budget, err := o.r.Marriages.AddBudget(ctx, m.ID, delta)
	if err != nil {
		return err
	}
	m.Budget = budget

	_, err = o.r.Ledger.Append(ctx, &models.LedgerEntry{
		MarriageID: m.ID,
		ChatID:     m.ChatID,
		UserID:     userID,
		Amount:     delta,
		Reason:     reason,
		OpID:       o.id,
		CreatedAt:  o.now,
	})
	if err != nil {
		return err
	}

	o.moves = append(o.moves, ledgerMove{reason: string(reason), amount: delta})
	s.logger.WithFields(logrus.Fields{
		"chat_id":     m.ChatID,
		"user_id":     userID,
		"marriage_id": m.ID,
		"delta":       delta,
		"budget":      budget,
		"reason":      reason,
		"op_id":       o.id,
	}).Debug("Family budget changed")
	return nil
}
