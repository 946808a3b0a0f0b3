package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/FamilyBoT/internal/apperrors"
	"github.com/Kerhoff/FamilyBoT/internal/game"
	"github.com/Kerhoff/FamilyBoT/internal/models"
)

// GiftResult is the outcome of a gift to the spouse.
type GiftResult struct {
	Item      *models.ShopItem
	PartnerID int64
	Budget    int64
}

// Gift buys a gift item from the shop for the user's spouse.
func (s *Service) Gift(ctx context.Context, userID, chatID int64, name string) (*GiftResult, error) {
	var res *GiftResult
	err := s.run(ctx, func(o *op) error {
		m, err := o.r.Marriages.LockByUser(ctx, userID, chatID)
		if err != nil {
			return err
		}
		if m == nil {
			return apperrors.NotFound("you are not married")
		}

		item, err := o.r.Shop.GetByName(ctx, name)
		if err != nil {
			return err
		}
		if item == nil {
			return apperrors.NotFound("no item named %q in the shop", name)
		}
		if item.Type != game.ItemGift {
			return apperrors.Validation("%s cannot be given as a gift", item.Name)
		}

		if err := s.debit(ctx, o, m, userID, item.Price, models.LedgerReasonGift); err != nil {
			return err
		}
		res = &GiftResult{Item: item, PartnerID: m.PartnerOf(userID), Budget: m.Budget}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"chat_id": chatID,
		"user_id": userID,
		"partner": res.PartnerID,
		"item":    res.Item.Name,
	}).Info("Gift given")
	return res, nil
}
