package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/FamilyBoT/internal/apperrors"
	"github.com/Kerhoff/FamilyBoT/internal/game"
	"github.com/Kerhoff/FamilyBoT/internal/models"
)

// PurchaseResult is the outcome of a successful purchase.
type PurchaseResult struct {
	Item   *models.ShopItem
	Budget int64
	// NewJob is set when the item was a job.
	NewJob string
}

// SeedShop writes the catalog shop into the store, keeping catalog order.
func (s *Service) SeedShop(ctx context.Context) error {
	err := s.run(ctx, func(o *op) error {
		for i, item := range s.catalog.Shop {
			_, err := o.r.Shop.Upsert(ctx, &models.ShopItem{
				Name:        item.Name,
				Type:        item.Type,
				Price:       item.Price,
				Description: item.Description,
				Position:    i,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.WithField("items", len(s.catalog.Shop)).Info("Shop catalog seeded")
	return nil
}

// Catalog lists the shop items in catalog order.
func (s *Service) Catalog(ctx context.Context) ([]*models.ShopItem, error) {
	items, err := s.repos().Shop.List(ctx)
	if err != nil {
		return nil, storageErr(err)
	}
	return items, nil
}

// Purchase buys an item by exact name with the family budget. An unknown
// item fails with NOT_FOUND and a short budget with INSUFFICIENT_FUNDS; in
// both cases nothing changes. Buying a job also makes it the user's job.
func (s *Service) Purchase(ctx context.Context, userID, chatID int64, name string) (*PurchaseResult, error) {
	var res *PurchaseResult
	err := s.run(ctx, func(o *op) error {
		item, err := o.r.Shop.GetByName(ctx, name)
		if err != nil {
			return err
		}
		if item == nil {
			return apperrors.NotFound("no item named %q in the shop", name)
		}

		m, err := o.r.Marriages.LockByUser(ctx, userID, chatID)
		if err != nil {
			return err
		}
		if err := s.debit(ctx, o, m, userID, item.Price, models.LedgerReasonPurchase); err != nil {
			return err
		}

		res = &PurchaseResult{Item: item, Budget: m.Budget}
		if item.Type == game.ItemJob {
			if err := s.assignJob(ctx, o, userID, chatID, item.Name); err != nil {
				return err
			}
			res.NewJob = item.Name
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"chat_id": chatID,
		"user_id": userID,
		"item":    res.Item.Name,
		"price":   res.Item.Price,
	}).Info("Item purchased")
	return res, nil
}
