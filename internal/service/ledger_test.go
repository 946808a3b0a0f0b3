package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/FamilyBoT/internal/apperrors"
	"github.com/Kerhoff/FamilyBoT/internal/models"
)

func TestBudgetIsSharedBySpouses(t *testing.T) {
	f := newFixture(t)
	f.marry(t, 1, 2)

	f.fund(t, 1, 120)
	f.fund(t, 2, 30)

	assert.Equal(t, int64(150), f.budget(t, 1))
	assert.Equal(t, int64(150), f.budget(t, 2))
}

func TestAdjustIsNoopWhenUnmarried(t *testing.T) {
	f := newFixture(t)

	f.fund(t, 1, 500)
	assert.Zero(t, f.budget(t, 1))
}

func TestAdjustDoesNotClamp(t *testing.T) {
	f := newFixture(t)
	f.marry(t, 1, 2)

	f.fund(t, 1, -40)
	assert.Equal(t, int64(-40), f.budget(t, 1))
}

func TestDebitEnforcesFunds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.marry(t, 1, 2)
	f.fund(t, 1, 80)

	err := f.svc.Debit(ctx, 2, chat, 100)
	require.ErrorIs(t, err, apperrors.ErrInsufficientFunds)
	appErr, _ := apperrors.As(err)
	assert.Equal(t, int64(100), appErr.Required)
	assert.Equal(t, int64(80), appErr.Available)
	assert.Equal(t, int64(80), f.budget(t, 1))

	require.NoError(t, f.svc.Debit(ctx, 2, chat, 80))
	assert.Zero(t, f.budget(t, 1))

	assert.ErrorIs(t, f.svc.Debit(ctx, 2, chat, 0), apperrors.ErrValidation)
	assert.ErrorIs(t, f.svc.Debit(ctx, 9, chat, 1), apperrors.ErrInsufficientFunds)
}

func TestHistoryGroupsEntriesByOperation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.marry(t, 1, 2)
	f.fund(t, 1, 1000)

	_, err := f.svc.Work(ctx, 2, chat)
	require.NoError(t, err)

	entries, err := f.svc.History(ctx, 1, chat, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Newest first: salary and passive income of the shift, then the funding.
	assert.Equal(t, models.LedgerReasonSalary, entries[0].Reason)
	assert.Equal(t, int64(10), entries[0].Amount)
	assert.Equal(t, models.LedgerReasonPassive, entries[1].Reason)
	assert.Equal(t, int64(20), entries[1].Amount)
	assert.Equal(t, entries[0].OpID, entries[1].OpID)
	assert.NotEqual(t, entries[1].OpID, entries[2].OpID)
	assert.Equal(t, int64(2), entries[0].UserID)

	_, err = f.svc.History(ctx, 5, chat, 10)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
