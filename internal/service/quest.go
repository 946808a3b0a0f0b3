package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/FamilyBoT/internal/apperrors"
	"github.com/Kerhoff/FamilyBoT/internal/models"
)

// CompletedQuest is a quest that was completed by the current operation.
type CompletedQuest struct {
	Type        string
	Description string
	Reward      int64
}

// QuestAdvance is the outcome of AdvanceQuest.
type QuestAdvance struct {
	Quest     *models.Quest
	Completed bool
	Reward    int64
}

// QuestView is a quest with its catalog description.
type QuestView struct {
	Quest       *models.Quest
	Description string
	Reward      int64
}

// EnsureQuest starts a quest for the user if it was never started.
func (s *Service) EnsureQuest(ctx context.Context, userID, chatID int64, questType string) error {
	return s.run(ctx, func(o *op) error {
		return s.ensureQuest(ctx, o, userID, chatID, questType)
	})
}

// AdvanceQuest sets the progress of a started quest. Progress never goes
// down. Reaching the target completes the quest and credits its reward to
// the user's family exactly once; later calls report Completed false.
func (s *Service) AdvanceQuest(ctx context.Context, userID, chatID int64, questType string, progress int) (*QuestAdvance, error) {
	var res *QuestAdvance
	err := s.run(ctx, func(o *op) error {
		m, err := o.r.Marriages.LockByUser(ctx, userID, chatID)
		if err != nil {
			return err
		}
		q, err := o.r.Quests.LockGet(ctx, userID, chatID, questType)
		if err != nil {
			return err
		}
		if q == nil {
			return apperrors.NotFound("quest %s was not started", questType)
		}
		res, err = s.advance(ctx, o, m, q, progress)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ListQuests starts every catalog quest for the user and returns them in
// catalog order.
func (s *Service) ListQuests(ctx context.Context, userID, chatID int64) ([]*QuestView, error) {
	var views []*QuestView
	err := s.run(ctx, func(o *op) error {
		views = views[:0]
		for _, def := range s.catalog.Quests {
			if err := s.ensureQuest(ctx, o, userID, chatID, def.Type); err != nil {
				return err
			}
			q, err := o.r.Quests.Get(ctx, userID, chatID, def.Type)
			if err != nil {
				return err
			}
			views = append(views, &QuestView{Quest: q, Description: def.Description, Reward: def.Reward})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

// QuestViews lists the user's quests in catalog order without starting
// them. Quests that were never started are reported at zero progress.
func (s *Service) QuestViews(ctx context.Context, userID, chatID int64) ([]*QuestView, error) {
	r := s.repos()
	views := make([]*QuestView, 0, len(s.catalog.Quests))
	for _, def := range s.catalog.Quests {
		q, err := r.Quests.Get(ctx, userID, chatID, def.Type)
		if err != nil {
			return nil, storageErr(err)
		}
		if q == nil {
			q = &models.Quest{UserID: userID, ChatID: chatID, QuestType: def.Type, Target: def.Target}
		}
		views = append(views, &QuestView{Quest: q, Description: def.Description, Reward: def.Reward})
	}
	return views, nil
}

func (s *Service) ensureQuest(ctx context.Context, o *op, userID, chatID int64, questType string) error {
	def, ok := s.catalog.Quest(questType)
	if !ok {
		return apperrors.NotFound("unknown quest %s", questType)
	}
	return o.r.Quests.Ensure(ctx, userID, chatID, questType, def.Target)
}

// bump ensures a quest and moves it forward by step, capped at the target.
func (s *Service) bump(ctx context.Context, o *op, m *models.Marriage, userID, chatID int64, questType string, step int) (*QuestAdvance, error) {
	if err := s.ensureQuest(ctx, o, userID, chatID, questType); err != nil {
		return nil, err
	}
	q, err := o.r.Quests.LockGet(ctx, userID, chatID, questType)
	if err != nil {
		return nil, err
	}
	if q == nil || q.Completed {
		return &QuestAdvance{Quest: q}, nil
	}
	return s.advance(ctx, o, m, q, min(q.Progress+step, q.Target))
}

// advance moves a locked quest to progress. The reward goes to m, which may
// be nil for an unmarried player: the quest still completes and the reward
// is lost.
func (s *Service) advance(ctx context.Context, o *op, m *models.Marriage, q *models.Quest, progress int) (*QuestAdvance, error) {
	res := &QuestAdvance{Quest: q}
	if q.Completed {
		return res, nil
	}

	if progress > q.Progress {
		if err := o.r.Quests.SetProgress(ctx, q.UserID, q.ChatID, q.QuestType, min(progress, q.Target)); err != nil {
			return nil, err
		}
		q.Progress = min(progress, q.Target)
	}
	if progress < q.Target {
		return res, nil
	}

	flipped, err := o.r.Quests.Complete(ctx, q.UserID, q.ChatID, q.QuestType)
	if err != nil {
		return nil, err
	}
	if !flipped {
		return res, nil
	}
	q.Completed = true
	q.Progress = q.Target

	def, _ := s.catalog.Quest(q.QuestType)
	if err := s.credit(ctx, o, m, q.UserID, def.Reward, models.LedgerReasonQuestReward); err != nil {
		return nil, err
	}
	res.Completed = true
	res.Reward = def.Reward

	s.logger.WithFields(logrus.Fields{
		"chat_id": q.ChatID,
		"user_id": q.UserID,
		"quest":   q.QuestType,
		"reward":  def.Reward,
		"married": m != nil,
	}).Info("Quest completed")
	return res, nil
}

func (s *Service) appendCompleted(list []CompletedQuest, adv *QuestAdvance) []CompletedQuest {
	if adv == nil || !adv.Completed {
		return list
	}
	def, _ := s.catalog.Quest(adv.Quest.QuestType)
	return append(list, CompletedQuest{
		Type:        adv.Quest.QuestType,
		Description: def.Description,
		Reward:      adv.Reward,
	})
}
