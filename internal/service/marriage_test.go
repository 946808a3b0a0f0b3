package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/FamilyBoT/internal/apperrors"
)

func TestRegisterCreatesEmptyFamily(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	m := f.marry(t, 1, 2)
	assert.Equal(t, int64(0), m.Budget)
	assert.Equal(t, 1, m.FamilyLevel)
	assert.True(t, m.MarriedAt.Equal(f.clock.Now()))

	for _, user := range []int64{1, 2} {
		got, err := f.svc.Lookup(ctx, user, chat)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, m.ID, got.ID)
	}
}

func TestRegisterRejectsSecondMarriage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.marry(t, 1, 2)

	_, err := f.svc.Register(ctx, 1, 3, chat)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	_, err = f.svc.Register(ctx, 3, 2, chat)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	_, err = f.svc.Register(ctx, 4, 4, chat)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	// Another chat is another game.
	_, err = f.svc.Register(ctx, 1, 3, chat+1)
	assert.NoError(t, err)
}

func TestDissolveRemovesBothSpouses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.marry(t, 1, 2)

	removed, err := f.svc.Dissolve(ctx, 1, chat)
	require.NoError(t, err)
	assert.True(t, removed)

	for _, user := range []int64{1, 2} {
		m, err := f.svc.Lookup(ctx, user, chat)
		require.NoError(t, err)
		assert.Nil(t, m)
	}

	removed, err = f.svc.Dissolve(ctx, 1, chat)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestOneMarriagePerUserAfterAnySequence(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	steps := []struct {
		register bool
		a, b     int64
	}{
		{true, 1, 2}, {true, 2, 3}, {true, 3, 4}, {false, 2, 0},
		{true, 2, 3}, {true, 1, 4}, {true, 1, 5}, {false, 4, 0},
		{true, 1, 5}, {true, 4, 2}, {false, 3, 0}, {true, 4, 2},
	}
	for _, st := range steps {
		if st.register {
			_, _ = f.svc.Register(ctx, st.a, st.b, chat)
		} else {
			_, err := f.svc.Dissolve(ctx, st.a, chat)
			require.NoError(t, err)
		}

		families, err := f.svc.Families(ctx, chat)
		require.NoError(t, err)
		seen := map[int64]int{}
		for _, fam := range families {
			seen[fam.Marriage.User1]++
			seen[fam.Marriage.User2]++
		}
		for user, n := range seen {
			require.Equal(t, 1, n, "user %d is in %d marriages", user, n)
		}
	}
}

func TestFamiliesReportsKidsAndTitle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.marry(t, 1, 2)
	f.marry(t, 3, 4)
	f.fund(t, 3, 700)
	_, err := f.svc.Bear(ctx, 4, chat)
	require.NoError(t, err)
	_, err = f.svc.RefreshLevel(ctx, 3, chat)
	require.NoError(t, err)

	families, err := f.svc.Families(ctx, chat)
	require.NoError(t, err)
	require.Len(t, families, 2)
	assert.Equal(t, 0, families[0].Kids)
	assert.Equal(t, "Novices", families[0].Title)
	assert.Equal(t, 1, families[1].Kids)
	assert.Equal(t, "Young Family", families[1].Title)
}

func TestResetKeepsChildren(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.marry(t, 1, 2)
	f.fund(t, 1, 100)
	_, err := f.svc.Bear(ctx, 1, chat)
	require.NoError(t, err)
	_, err = f.svc.Work(ctx, 1, chat)
	require.NoError(t, err)

	removed, err := f.svc.Reset(ctx, 1, chat)
	require.NoError(t, err)
	assert.True(t, removed)

	r := f.store.Repos()
	m, err := r.Marriages.GetByUser(ctx, 2, chat)
	require.NoError(t, err)
	assert.Nil(t, m)

	job, err := r.Jobs.Get(ctx, 1, chat)
	require.NoError(t, err)
	assert.Nil(t, job)

	quests, err := r.Quests.ListByUser(ctx, 1, chat)
	require.NoError(t, err)
	assert.Empty(t, quests)

	kids, err := r.Children.CountByParents(ctx, 1, 2, chat)
	require.NoError(t, err)
	assert.Equal(t, 1, kids)

	removed, err = f.svc.Reset(ctx, 1, chat)
	require.NoError(t, err)
	assert.False(t, removed)

	job2, err := f.svc.Job(ctx, 1, chat)
	require.NoError(t, err)
	assert.Equal(t, "Unemployed", job2.Job)
}
