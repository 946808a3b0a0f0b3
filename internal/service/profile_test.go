package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.svc.Profile(ctx, 1, chat)
	require.NoError(t, err)
	assert.Equal(t, "Unemployed", p.Job.Job)
	assert.Nil(t, p.Marriage)
	assert.Nil(t, p.Level)
	assert.Equal(t, []Achievement{AchievementSingleStart}, p.Achievements)

	f.marry(t, 1, 2)
	p, err = f.svc.Profile(ctx, 1, chat)
	require.NoError(t, err)
	assert.Equal(t, int64(2), p.PartnerID)
	assert.Equal(t, []Achievement{AchievementNewlyweds}, p.Achievements)

	f.fund(t, 1, 1000)
	_, err = f.svc.Bear(ctx, 2, chat)
	require.NoError(t, err)
	f.clock.Advance(400 * 24 * time.Hour)

	p, err = f.svc.Profile(ctx, 1, chat)
	require.NoError(t, err)
	assert.Equal(t, 400, p.DaysMarried)
	assert.Equal(t, 1, p.Kids)
	assert.Equal(t, int64(900), p.Budget)
	assert.Equal(t, 2, p.Level.Level)
	assert.Equal(t, []Achievement{AchievementAnniversary, AchievementFirstChild}, p.Achievements)

	list, err := f.svc.Achievements(ctx, 2, chat)
	require.NoError(t, err)
	assert.Equal(t, p.Achievements, list)
}

func TestAchievementsFromCompletedQuests(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.marry(t, 1, 2)
	f.fund(t, 1, 800)

	for i := 0; i < 5; i++ {
		_, err := f.svc.Work(ctx, 1, chat)
		require.NoError(t, err)
		f.clock.Advance(6 * time.Hour)
	}

	list, err := f.svc.Achievements(ctx, 1, chat)
	require.NoError(t, err)
	assert.Equal(t, []Achievement{AchievementWealthy, AchievementHardWorker}, list)

	// Quests are personal.
	list, err = f.svc.Achievements(ctx, 2, chat)
	require.NoError(t, err)
	assert.Equal(t, []Achievement{AchievementWealthy}, list)
}

func TestProfileViewDoesNotWrite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.svc.ProfileView(ctx, 9, chat)
	require.NoError(t, err)
	assert.Equal(t, "Unemployed", p.Job.Job)
	assert.Equal(t, []Achievement{AchievementSingleStart}, p.Achievements)
	job, err := f.store.Repos().Jobs.Get(ctx, 9, chat)
	require.NoError(t, err)
	assert.Nil(t, job)

	m := f.marry(t, 1, 2)
	f.fund(t, 1, 600)
	p, err = f.svc.ProfileView(ctx, 1, chat)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Level.Level)
	assert.Equal(t, "Young Family", p.Level.Title)
	assert.False(t, p.Level.LeveledUp)

	stored, err := f.svc.Lookup(ctx, 1, chat)
	require.NoError(t, err)
	assert.Equal(t, m.ID, stored.ID)
	assert.Equal(t, 1, stored.FamilyLevel)
}
