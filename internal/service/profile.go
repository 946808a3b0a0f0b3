package service

import (
	"context"
	"slices"

	"github.com/Kerhoff/FamilyBoT/internal/game"
	"github.com/Kerhoff/FamilyBoT/internal/models"
)

// Achievement is a badge derived from the current state. Achievements are
// never stored.
type Achievement string

const (
	AchievementSingleStart Achievement = "single_start"
	AchievementNewlyweds   Achievement = "newlyweds"
	AchievementAnniversary Achievement = "anniversary"
	AchievementFirstChild  Achievement = "first_child"
	AchievementLargeFamily Achievement = "large_family"
	AchievementWealthy     Achievement = "wealthy"
	AchievementHardWorker  Achievement = "hard_worker"
	AchievementFinancier   Achievement = "financier"
	AchievementParent      Achievement = "parent"
)

// Profile is the state of a player in a chat.
type Profile struct {
	UserID       int64
	Job          *models.UserJob
	Marriage     *models.Marriage
	PartnerID    int64
	DaysMarried  int
	Kids         int
	Budget       int64
	Level        *LevelResult
	Achievements []Achievement
}

// Profile gathers the player's job, family and achievements. The family
// level is refreshed on the way.
func (s *Service) Profile(ctx context.Context, userID, chatID int64) (*Profile, error) {
	p := &Profile{UserID: userID}
	err := s.run(ctx, func(o *op) error {
		*p = Profile{UserID: userID}

		if err := o.r.Jobs.Ensure(ctx, userID, chatID, s.catalog.DefaultJob()); err != nil {
			return err
		}
		job, err := o.r.Jobs.Get(ctx, userID, chatID)
		if err != nil {
			return err
		}
		p.Job = job

		m, err := o.r.Marriages.LockByUser(ctx, userID, chatID)
		if err != nil {
			return err
		}
		if m != nil {
			p.Marriage = m
			p.PartnerID = m.PartnerOf(userID)
			p.DaysMarried = m.DaysMarried(o.now)
			p.Budget = m.Budget
			if p.Kids, err = o.r.Children.CountByParents(ctx, m.User1, m.User2, chatID); err != nil {
				return err
			}
			if p.Level, err = s.refreshLevel(ctx, o, m); err != nil {
				return err
			}
		}

		completed, err := o.r.Quests.ListCompletedTypes(ctx, userID, chatID)
		if err != nil {
			return err
		}
		p.Achievements = s.achievements(m, p.DaysMarried, p.Kids, completed)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ProfileView is Profile without side effects: a missing job record is
// reported as the default job and the level is derived, not stored.
func (s *Service) ProfileView(ctx context.Context, userID, chatID int64) (*Profile, error) {
	r := s.repos()
	p := &Profile{UserID: userID}

	job, err := r.Jobs.Get(ctx, userID, chatID)
	if err != nil {
		return nil, storageErr(err)
	}
	if job == nil {
		job = &models.UserJob{UserID: userID, ChatID: chatID, Job: s.catalog.DefaultJob()}
	}
	p.Job = job

	m, err := r.Marriages.GetByUser(ctx, userID, chatID)
	if err != nil {
		return nil, storageErr(err)
	}
	if m != nil {
		p.Marriage = m
		p.PartnerID = m.PartnerOf(userID)
		p.DaysMarried = m.DaysMarried(s.now().UTC())
		p.Budget = m.Budget
		if p.Kids, err = r.Children.CountByParents(ctx, m.User1, m.User2, chatID); err != nil {
			return nil, storageErr(err)
		}
		score := s.catalog.Score(m.Budget, p.Kids)
		level := max(m.FamilyLevel, s.catalog.LevelOf(score).Number)
		p.Level = &LevelResult{Level: level, Title: s.catalog.Title(level), Score: score}
	}

	completed, err := r.Quests.ListCompletedTypes(ctx, userID, chatID)
	if err != nil {
		return nil, storageErr(err)
	}
	p.Achievements = s.achievements(m, p.DaysMarried, p.Kids, completed)
	return p, nil
}

// Achievements lists the badges of the player.
func (s *Service) Achievements(ctx context.Context, userID, chatID int64) ([]Achievement, error) {
	r := s.repos()
	m, err := r.Marriages.GetByUser(ctx, userID, chatID)
	if err != nil {
		return nil, storageErr(err)
	}

	var days, kids int
	if m != nil {
		days = m.DaysMarried(s.now().UTC())
		if kids, err = r.Children.CountByParents(ctx, m.User1, m.User2, chatID); err != nil {
			return nil, storageErr(err)
		}
	}

	completed, err := r.Quests.ListCompletedTypes(ctx, userID, chatID)
	if err != nil {
		return nil, storageErr(err)
	}
	return s.achievements(m, days, kids, completed), nil
}

func (s *Service) achievements(m *models.Marriage, days, kids int, completedQuests []string) []Achievement {
	if m == nil {
		return []Achievement{AchievementSingleStart}
	}

	var list []Achievement
	if days >= 365 {
		list = append(list, AchievementAnniversary)
	}
	if kids >= 1 {
		list = append(list, AchievementFirstChild)
	}
	if kids >= 3 {
		list = append(list, AchievementLargeFamily)
	}
	if m.Budget >= s.catalog.Rules.WealthyThreshold {
		list = append(list, AchievementWealthy)
	}
	if slices.Contains(completedQuests, game.QuestWorkFiveTimes) {
		list = append(list, AchievementHardWorker)
	}
	if slices.Contains(completedQuests, game.QuestEarn500) {
		list = append(list, AchievementFinancier)
	}
	if slices.Contains(completedQuests, game.QuestHaveChild) {
		list = append(list, AchievementParent)
	}

	if len(list) == 0 {
		return []Achievement{AchievementNewlyweds}
	}
	return list
}
