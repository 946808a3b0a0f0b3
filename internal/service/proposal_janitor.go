package service

import (
	"context"
	"time"
)

// StartProposalJanitor runs a background loop that deletes proposal markers
// older than the proposal cooldown. Such markers can no longer block anyone,
// so this only keeps the table small. It blocks until the context is
// cancelled, so it should be launched in a separate goroutine.
func (s *Service) StartProposalJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("Proposal janitor started")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Proposal janitor stopped")
			return
		case <-ticker.C:
			if _, err := s.PruneProposals(ctx); err != nil {
				s.logger.Errorf("Failed to prune proposals: %v", err)
			}
		}
	}
}

// PruneProposals deletes expired proposal markers and returns how many went.
func (s *Service) PruneProposals(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.catalog.Rules.ProposalCooldown)
	n, err := s.repos().Proposals.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, storageErr(err)
	}
	if n > 0 {
		s.logger.WithField("deleted", n).Debug("Pruned expired proposals")
	}
	return n, nil
}
