package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/FamilyBoT/internal/apperrors"
	"github.com/Kerhoff/FamilyBoT/internal/game"
)

func TestBearCreatesChild(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.marry(t, 1, 2)
	f.fund(t, 1, 250)
	f.rng.PushInt(23)

	birth, err := f.svc.Bear(ctx, 2, chat)
	require.NoError(t, err)
	assert.Equal(t, "Child-123", birth.Child.Name)
	assert.Equal(t, int64(150), birth.Budget)
	assert.True(t, birth.Child.Birthday.Equal(f.clock.Now().AddDate(1, 0, 0)))

	kids, err := f.svc.ListChildren(ctx, 1, chat)
	require.NoError(t, err)
	require.Len(t, kids, 1)
	assert.Equal(t, birth.Child.ID, kids[0].ID)
}

func TestBearStopsAtFiveChildren(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.marry(t, 1, 2)
	f.fund(t, 1, 1000)

	for i := 0; i < 5; i++ {
		_, err := f.svc.Bear(ctx, 1, chat)
		require.NoError(t, err)
	}

	_, err := f.svc.Bear(ctx, 1, chat)
	assert.ErrorIs(t, err, apperrors.ErrLimit)

	kids, err := f.svc.CountChildren(ctx, 2, chat)
	require.NoError(t, err)
	assert.Equal(t, 5, kids)
	assert.Equal(t, int64(500), f.budget(t, 1))
}

func TestBearNeedsFunds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.marry(t, 1, 2)
	f.fund(t, 1, 99)

	_, err := f.svc.Bear(ctx, 1, chat)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientFunds)

	kids, err := f.svc.CountChildren(ctx, 1, chat)
	require.NoError(t, err)
	assert.Zero(t, kids)
	assert.Equal(t, int64(99), f.budget(t, 1))
}

func TestBearRequiresMarriage(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Bear(context.Background(), 1, chat)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	kids, err := f.svc.ListChildren(context.Background(), 1, chat)
	require.NoError(t, err)
	assert.Empty(t, kids)
}

func TestBearCompletesHaveChildQuest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.svc.Propose(ctx, 1, 2, chat))
	_, err := f.svc.AnswerProposal(ctx, 2, ProposalAnswer{ProposerID: 1, TargetID: 2, ChatID: chat, Accept: true})
	require.NoError(t, err)
	f.fund(t, 1, 100)

	birth, err := f.svc.Bear(ctx, 1, chat)
	require.NoError(t, err)
	require.Len(t, birth.Completed, 1)
	assert.Equal(t, game.QuestHaveChild, birth.Completed[0].Type)
	assert.Equal(t, int64(150), birth.Completed[0].Reward)
	assert.Equal(t, int64(150), birth.Budget)

	// The spouse has a quest of their own.
	birth, err = f.svc.Bear(ctx, 2, chat)
	require.NoError(t, err)
	assert.Len(t, birth.Completed, 1)
	assert.Equal(t, int64(200), birth.Budget)

	birth, err = f.svc.Bear(ctx, 1, chat)
	require.NoError(t, err)
	assert.Empty(t, birth.Completed)
	assert.Equal(t, int64(100), birth.Budget)
}

func TestConcurrentBearSpendsBudgetOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.marry(t, 1, 2)
	f.fund(t, 1, 100)

	var wg sync.WaitGroup
	errs := make([]error, 6)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Bear(ctx, int64(1+i%2), chat)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, apperrors.ErrInsufficientFunds)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Zero(t, f.budget(t, 1))
}
