package service

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Reset wipes the progress of user in chat: the marriage, the job record and
// the quests go in one transaction. Children are kept. It reports whether a
// marriage was removed.
func (s *Service) Reset(ctx context.Context, userID, chatID int64) (bool, error) {
	var marriages, jobs, quests int64
	err := s.run(ctx, func(o *op) error {
		var err error
		if marriages, err = o.r.Marriages.DeleteByUser(ctx, userID, chatID); err != nil {
			return err
		}
		if jobs, err = o.r.Jobs.Delete(ctx, userID, chatID); err != nil {
			return err
		}
		quests, err = o.r.Quests.DeleteByUser(ctx, userID, chatID)
		return err
	})
	if err != nil {
		return false, err
	}

	if marriages > 0 {
		s.metrics.Marriage("reset")
	}
	s.logger.WithFields(logrus.Fields{
		"chat_id":   chatID,
		"user_id":   userID,
		"marriages": marriages,
		"jobs":      jobs,
		"quests":    quests,
	}).Info("User progress reset")
	return marriages > 0, nil
}
