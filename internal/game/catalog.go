// Package game holds the static rules of the family game: the job salary
// table, the quest catalog, the family level ladder, the shop and the timing
// rules. The catalog is read-only once loaded.
package game

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Quest types known to the engine.
const (
	QuestWorkFiveTimes    = "work_5_times"
	QuestEarn500          = "earn_500"
	QuestHaveChild        = "have_child"
	QuestMarriedThirtyDay = "be_married_30_days"
)

// Shop item types.
const (
	ItemJob     = "job"
	ItemGift    = "gift"
	ItemUpgrade = "upgrade"
)

// Job is an entry of the salary table.
type Job struct {
	Name   string `yaml:"name"`
	Salary int64  `yaml:"salary"`
}

// QuestDef describes a quest type.
type QuestDef struct {
	Type        string `yaml:"type"`
	Description string `yaml:"description"`
	Target      int    `yaml:"target"`
	Reward      int64  `yaml:"reward"`
}

// LevelDef is one rung of the family level ladder.
type LevelDef struct {
	Threshold int64  `yaml:"threshold"`
	Title     string `yaml:"title"`
}

// ShopItem is a catalog entry offered in the shop.
type ShopItem struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Price       int64  `yaml:"price"`
	Description string `yaml:"description"`
}

// WorkEvent is a random pay multiplier applied to a shift.
type WorkEvent struct {
	Label      string  `yaml:"label"`
	Multiplier float64 `yaml:"multiplier"`
}

// Rules holds the timing and economy constants.
type Rules struct {
	ProposalCooldown       time.Duration `yaml:"proposal_cooldown"`
	WorkCooldown           time.Duration `yaml:"work_cooldown"`
	StreakWindow           time.Duration `yaml:"streak_window"`
	DailyCooldown          time.Duration `yaml:"daily_cooldown"`
	WorkEventChance        float64       `yaml:"work_event_chance"`
	WorkEvents             []WorkEvent   `yaml:"work_events"`
	PassiveIncome          int64         `yaml:"passive_income"`
	PassiveIncomeThreshold int64         `yaml:"passive_income_threshold"`
	ChildPrice             int64         `yaml:"child_price"`
	MaxChildren            int           `yaml:"max_children"`
	KidScore               int64         `yaml:"kid_score"`
	DailyAmount            int64         `yaml:"daily_amount"`
	DailyRichAmount        int64         `yaml:"daily_rich_amount"`
	DailyRichThreshold     int64         `yaml:"daily_rich_threshold"`
	CasinoMinBet           int64         `yaml:"casino_min_bet"`
	CasinoWinChance        float64       `yaml:"casino_win_chance"`
	WealthyThreshold       int64         `yaml:"wealthy_threshold"`
}

// Catalog is the full static configuration of the game.
type Catalog struct {
	Jobs   []Job      `yaml:"jobs"`
	Quests []QuestDef `yaml:"quests"`
	Levels []LevelDef `yaml:"levels"`
	Shop   []ShopItem `yaml:"shop"`
	Rules  Rules      `yaml:"rules"`
}

// Level is a computed family tier.
type Level struct {
	Number int
	Title  string
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog from path, or the embedded one when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate reports every inconsistency in the catalog at once.
func (c *Catalog) Validate() error {
	var result *multierror.Error

	if len(c.Jobs) == 0 {
		result = multierror.Append(result, fmt.Errorf("at least one job is required"))
	}
	jobs := make(map[string]bool, len(c.Jobs))
	for _, j := range c.Jobs {
		if j.Name == "" {
			result = multierror.Append(result, fmt.Errorf("job with empty name"))
		}
		if j.Salary <= 0 {
			result = multierror.Append(result, fmt.Errorf("job %q: salary must be positive", j.Name))
		}
		jobs[j.Name] = true
	}

	for _, q := range c.Quests {
		if q.Type == "" {
			result = multierror.Append(result, fmt.Errorf("quest with empty type"))
		}
		if q.Target <= 0 {
			result = multierror.Append(result, fmt.Errorf("quest %q: target must be positive", q.Type))
		}
	}

	if len(c.Levels) == 0 {
		result = multierror.Append(result, fmt.Errorf("at least one level is required"))
	} else if c.Levels[0].Threshold != 0 {
		result = multierror.Append(result, fmt.Errorf("first level threshold must be 0"))
	}
	for i := 1; i < len(c.Levels); i++ {
		if c.Levels[i].Threshold <= c.Levels[i-1].Threshold {
			result = multierror.Append(result, fmt.Errorf("level %d: thresholds must be strictly ascending", i+1))
		}
	}

	names := make(map[string]bool, len(c.Shop))
	for _, item := range c.Shop {
		if names[item.Name] {
			result = multierror.Append(result, fmt.Errorf("shop item %q listed twice", item.Name))
		}
		names[item.Name] = true
		if item.Price <= 0 {
			result = multierror.Append(result, fmt.Errorf("shop item %q: price must be positive", item.Name))
		}
		switch item.Type {
		case ItemJob:
			if !jobs[item.Name] {
				result = multierror.Append(result, fmt.Errorf("shop item %q: job is not in the salary table", item.Name))
			}
		case ItemGift, ItemUpgrade:
		default:
			result = multierror.Append(result, fmt.Errorf("shop item %q: unknown type %q", item.Name, item.Type))
		}
	}

	r := c.Rules
	if r.ProposalCooldown <= 0 || r.WorkCooldown <= 0 || r.DailyCooldown <= 0 || r.StreakWindow <= 0 {
		result = multierror.Append(result, fmt.Errorf("cooldowns must be positive"))
	}
	if r.WorkEventChance < 0 || r.WorkEventChance > 1 || r.CasinoWinChance < 0 || r.CasinoWinChance > 1 {
		result = multierror.Append(result, fmt.Errorf("chances must be within [0, 1]"))
	}
	if r.WorkEventChance > 0 && len(r.WorkEvents) == 0 {
		result = multierror.Append(result, fmt.Errorf("work events are required when work_event_chance > 0"))
	}
	if r.MaxChildren <= 0 {
		result = multierror.Append(result, fmt.Errorf("max_children must be positive"))
	}

	return result.ErrorOrNil()
}

// DefaultJob is the job every player starts with.
func (c *Catalog) DefaultJob() string {
	return c.Jobs[0].Name
}

// HasJob reports whether name is in the salary table.
func (c *Catalog) HasJob(name string) bool {
	for _, j := range c.Jobs {
		if j.Name == name {
			return true
		}
	}
	return false
}

// Salary returns the base pay of a job. Unknown jobs earn the default pay.
func (c *Catalog) Salary(job string) int64 {
	for _, j := range c.Jobs {
		if j.Name == job {
			return j.Salary
		}
	}
	return c.Jobs[0].Salary
}

// Quest looks up a quest definition by type.
func (c *Catalog) Quest(questType string) (QuestDef, bool) {
	for _, q := range c.Quests {
		if q.Type == questType {
			return q, true
		}
	}
	return QuestDef{}, false
}

// ShopItem looks up a shop item by exact name.
func (c *Catalog) ShopItem(name string) (ShopItem, bool) {
	for _, item := range c.Shop {
		if item.Name == name {
			return item, true
		}
	}
	return ShopItem{}, false
}

// Score is the family score the level ladder is measured against.
func (c *Catalog) Score(budget int64, kids int) int64 {
	return budget + int64(kids)*c.Rules.KidScore
}

// LevelOf returns the highest level whose threshold is at or below score.
func (c *Catalog) LevelOf(score int64) Level {
	level := Level{Number: 1, Title: c.Levels[0].Title}
	for i, l := range c.Levels {
		if score >= l.Threshold {
			level = Level{Number: i + 1, Title: l.Title}
		}
	}
	return level
}

// Title returns the title of a level number, clamped to the ladder.
func (c *Catalog) Title(number int) string {
	if number < 1 {
		number = 1
	}
	if number > len(c.Levels) {
		number = len(c.Levels)
	}
	return c.Levels[number-1].Title
}
