package game

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultCatalogT(t *testing.T) *Catalog {
	t.Helper()
	c, err := Default()
	require.NoError(t, err)
	return c
}

func TestDefaultCatalogValues(t *testing.T) {
	c := defaultCatalogT(t)

	assert.Equal(t, "Unemployed", c.DefaultJob())
	assert.Equal(t, int64(10), c.Salary("Unemployed"))
	assert.Equal(t, int64(30), c.Salary("Cashier"))
	assert.Equal(t, int64(40), c.Salary("Cook"))
	assert.Equal(t, int64(50), c.Salary("Teacher"))
	assert.Equal(t, int64(100), c.Salary("Programmer"))
	assert.Equal(t, int64(70), c.Salary("Blogger"))
	assert.Equal(t, int64(10), c.Salary("Astronaut"))

	q, ok := c.Quest(QuestWorkFiveTimes)
	require.True(t, ok)
	assert.Equal(t, 5, q.Target)
	assert.Equal(t, int64(200), q.Reward)

	assert.Equal(t, 300*time.Second, c.Rules.ProposalCooldown)
	assert.Equal(t, 6*time.Hour, c.Rules.WorkCooldown)
	assert.Equal(t, 24*time.Hour, c.Rules.StreakWindow)
	assert.Equal(t, 24*time.Hour, c.Rules.DailyCooldown)
	assert.Equal(t, 0.2, c.Rules.WorkEventChance)
	require.Len(t, c.Rules.WorkEvents, 2)
	assert.Equal(t, 1.5, c.Rules.WorkEvents[0].Multiplier)
	assert.Equal(t, 2.0, c.Rules.WorkEvents[1].Multiplier)

	house, ok := c.ShopItem("House")
	require.True(t, ok)
	assert.Equal(t, ItemUpgrade, house.Type)
	assert.Equal(t, int64(1000), house.Price)
}

func TestLevelOfBoundaries(t *testing.T) {
	c := defaultCatalogT(t)

	tests := []struct {
		score int64
		level int
		title string
	}{
		{0, 1, "Novices"},
		{499, 1, "Novices"},
		{500, 2, "Young Family"},
		{1499, 2, "Young Family"},
		{1500, 3, "Household with a Child"},
		{2999, 3, "Household with a Child"},
		{3000, 4, "Successful Family"},
		{5000, 5, "Aristocrats"},
		{1000000, 5, "Aristocrats"},
	}
	for _, tt := range tests {
		got := c.LevelOf(tt.score)
		assert.Equal(t, tt.level, got.Number, "score %d", tt.score)
		assert.Equal(t, tt.title, got.Title, "score %d", tt.score)
	}
}

func TestLevelOfIsMonotonic(t *testing.T) {
	c := defaultCatalogT(t)

	prev := c.LevelOf(0).Number
	for score := int64(0); score <= 6000; score += 7 {
		cur := c.LevelOf(score).Number
		require.GreaterOrEqual(t, cur, prev, "score %d", score)
		prev = cur
	}
}

func TestScoreCountsKids(t *testing.T) {
	c := defaultCatalogT(t)
	assert.Equal(t, int64(700), c.Score(500, 1))
	assert.Equal(t, int64(1000), c.Score(0, 5))
}

func TestValidateCollectsAllProblems(t *testing.T) {
	c := defaultCatalogT(t)
	c.Levels[1].Threshold = 0
	c.Shop = append(c.Shop, ShopItem{Name: "Astronaut", Type: ItemJob, Price: 0})

	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strictly ascending")
	assert.Contains(t, err.Error(), "price must be positive")
	assert.Contains(t, err.Error(), "not in the salary table")
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, defaultCatalog, 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, c.Shop, 7)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestTitleClamps(t *testing.T) {
	c := defaultCatalogT(t)
	assert.Equal(t, "Novices", c.Title(0))
	assert.Equal(t, "Aristocrats", c.Title(9))
	assert.Equal(t, "Young Family", c.Title(2))
}
