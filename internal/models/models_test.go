package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMarriagePartnerOf(t *testing.T) {
	m := &Marriage{User1: 10, User2: 20}

	assert.Equal(t, int64(20), m.PartnerOf(10))
	assert.Equal(t, int64(10), m.PartnerOf(20))
	assert.True(t, m.HasMember(10))
	assert.False(t, m.HasMember(30))
}

func TestMarriageDaysMarried(t *testing.T) {
	wedding := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := &Marriage{MarriedAt: wedding}

	assert.Equal(t, 0, m.DaysMarried(wedding.Add(23*time.Hour)))
	assert.Equal(t, 1, m.DaysMarried(wedding.Add(24*time.Hour)))
	assert.Equal(t, 30, m.DaysMarried(wedding.AddDate(0, 0, 30)))
	assert.Equal(t, 0, m.DaysMarried(wedding.Add(-time.Hour)))
}

func TestUserJobSinceLastWork(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	j := &UserJob{}

	_, worked := j.SinceLastWork(now)
	assert.False(t, worked)

	last := now.Add(-2 * time.Hour)
	j.LastWork = &last
	elapsed, worked := j.SinceLastWork(now)
	assert.True(t, worked)
	assert.Equal(t, 2*time.Hour, elapsed)
}
