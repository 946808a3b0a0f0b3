package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/FamilyBoT/internal/apperrors"
	"github.com/Kerhoff/FamilyBoT/internal/models"
)

// CasinoResult is the outcome of a bet.
type CasinoResult struct {
	Bet    int64
	Won    bool
	Budget int64
}

// Casino bets part of the family budget. A win returns the bet doubled, a
// loss takes it.
func (s *Service) Casino(ctx context.Context, userID, chatID, bet int64) (*CasinoResult, error) {
	rules := s.catalog.Rules
	var res *CasinoResult

	err := s.run(ctx, func(o *op) error {
		m, err := o.r.Marriages.LockByUser(ctx, userID, chatID)
		if err != nil {
			return err
		}
		if m == nil {
			return apperrors.NotFound("the casino is for married players")
		}
		if bet > m.Budget {
			return apperrors.InsufficientFunds(bet, m.Budget)
		}
		if bet < rules.CasinoMinBet {
			return apperrors.Validation("the minimum bet is %d", rules.CasinoMinBet)
		}

		won := s.rng.Float64() < rules.CasinoWinChance
		delta := -bet
		if won {
			delta = bet
		}
		if err := s.apply(ctx, o, m, userID, delta, models.LedgerReasonCasino); err != nil {
			return err
		}
		res = &CasinoResult{Bet: bet, Won: won, Budget: m.Budget}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"chat_id": chatID,
		"user_id": userID,
		"bet":     bet,
		"won":     res.Won,
	}).Info("Casino bet settled")
	return res, nil
}
