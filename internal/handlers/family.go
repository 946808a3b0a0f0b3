package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/FamilyBoT/internal/service"
	"github.com/Kerhoff/FamilyBoT/internal/telegram"
)

const (
	defaultHistory = 10
	maxHistory     = 50
)

var achievementLabels = map[service.Achievement]string{
	service.AchievementSingleStart: "Single start",
	service.AchievementNewlyweds:   "Newlyweds",
	service.AchievementAnniversary: "Anniversary: a year together",
	service.AchievementFirstChild:  "First child",
	service.AchievementLargeFamily: "Large family",
	service.AchievementWealthy:     "Wealthy family",
	service.AchievementHardWorker:  "Hard worker",
	service.AchievementFinancier:   "Financier",
	service.AchievementParent:      "Parent",
}

// ---------------------------------------------------------------------------
// ChildHandler – /child
// ---------------------------------------------------------------------------

// ChildHandler handles the /child command.
type ChildHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewChildHandler creates a new ChildHandler.
func NewChildHandler(svc *service.Service, logger *logrus.Logger) *ChildHandler {
	return &ChildHandler{svc: svc, logger: logger}
}

// Handle processes the /child command.
func (h *ChildHandler) Handle(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, _ []string) error {
	res, err := h.svc.Bear(ctx, message.From.ID, message.Chat.ID)
	if err != nil {
		return fail(bot, message.Chat.ID, err)
	}

	text := fmt.Sprintf("👶 %s was born!", res.Child.Name) + questLines(res.Completed)
	if err := send(bot, message.Chat.ID, text); err != nil {
		return err
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id": message.Chat.ID,
		"user_id": message.From.ID,
		"child":   res.Child.Name,
	}).Info("Child born")

	return nil
}

// ---------------------------------------------------------------------------
// KidsHandler – /kids
// ---------------------------------------------------------------------------

// KidsHandler handles the /kids command.
type KidsHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewKidsHandler creates a new KidsHandler.
func NewKidsHandler(svc *service.Service, logger *logrus.Logger) *KidsHandler {
	return &KidsHandler{svc: svc, logger: logger}
}

// Handle processes the /kids command.
func (h *KidsHandler) Handle(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, _ []string) error {
	kids, err := h.svc.ListChildren(ctx, message.From.ID, message.Chat.ID)
	if err != nil {
		return err
	}
	if len(kids) == 0 {
		return send(bot, message.Chat.ID, "👶 You have no children yet. Try /child!")
	}

	var sb strings.Builder
	sb.WriteString("👶 Your children:\n")
	for _, kid := range kids {
		fmt.Fprintf(&sb, "\n• %s, birthday %s", kid.Name, kid.Birthday.Format("02.01.2006"))
	}
	if err := send(bot, message.Chat.ID, sb.String()); err != nil {
		return err
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id": message.Chat.ID,
		"user_id": message.From.ID,
		"count":   len(kids),
	}).Debug("Listed children")

	return nil
}

// ---------------------------------------------------------------------------
// FamilyHandler – /family
// ---------------------------------------------------------------------------

// FamilyHandler handles the /family command.
type FamilyHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewFamilyHandler creates a new FamilyHandler.
func NewFamilyHandler(svc *service.Service, logger *logrus.Logger) *FamilyHandler {
	return &FamilyHandler{svc: svc, logger: logger}
}

// Handle processes the /family command.
func (h *FamilyHandler) Handle(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, _ []string) error {
	chatID := message.Chat.ID
	level, err := h.svc.RefreshLevel(ctx, message.From.ID, chatID)
	if err != nil {
		return fail(bot, chatID, err)
	}
	m, err := h.svc.Lookup(ctx, message.From.ID, chatID)
	if err != nil {
		return err
	}
	if m == nil {
		return send(bot, chatID, "💔 You are not married.")
	}
	kids, err := h.svc.CountChildren(ctx, message.From.ID, chatID)
	if err != nil {
		return err
	}

	text := fmt.Sprintf(
		"👨‍👩‍👧 The family of %s and %s\n\n• Together: %d days\n• Budget: %d coins\n• Children: %d\n• Level %d: %s (score %d)",
		h.svc.NameOf(ctx, chatID, m.User1), h.svc.NameOf(ctx, chatID, m.User2),
		m.DaysMarried(h.svc.Now()), m.Budget, kids, level.Level, level.Title, level.Score,
	)
	if level.LeveledUp {
		text += "\n🎉 New level reached!"
	}
	if err := send(bot, chatID, text); err != nil {
		return err
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id":     chatID,
		"user_id":     message.From.ID,
		"marriage_id": m.ID,
		"level":       level.Level,
	}).Debug("Family shown")

	return nil
}

// ---------------------------------------------------------------------------
// ProfileHandler – /profile
// ---------------------------------------------------------------------------

// ProfileHandler handles the /profile command.
type ProfileHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(svc *service.Service, logger *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{svc: svc, logger: logger}
}

// Handle processes the /profile command.
func (h *ProfileHandler) Handle(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, _ []string) error {
	chatID := message.Chat.ID
	p, err := h.svc.Profile(ctx, message.From.ID, chatID)
	if err != nil {
		return err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🌟 Profile: %s\n\n", telegram.DisplayName(message.From))
	if p.Marriage != nil {
		fmt.Fprintf(&sb, "📌 Status: 💍 married\n• Partner: %s\n• Together: %d days\n• Family level %d: %s\n",
			h.svc.NameOf(ctx, chatID, p.PartnerID), p.DaysMarried, p.Level.Level, p.Level.Title)
	} else {
		sb.WriteString("📌 Status: 👤 single\n")
	}
	fmt.Fprintf(&sb, "💼 Job: %s\n🔥 Work streak: %d\n👷 Shifts worked: %d\n👶 Children: %d\n💰 Budget: %d coins\n\n🏆 Achievements:",
		p.Job.Job, p.Job.WorkStreak, p.Job.TotalWorks, p.Kids, p.Budget)
	for _, a := range p.Achievements {
		fmt.Fprintf(&sb, "\n🔹 %s", achievementLabels[a])
	}

	if err := send(bot, chatID, sb.String()); err != nil {
		return err
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id":      chatID,
		"user_id":      message.From.ID,
		"achievements": len(p.Achievements),
	}).Debug("Profile shown")

	return nil
}

// ---------------------------------------------------------------------------
// HistoryHandler – /history [count]
// ---------------------------------------------------------------------------

// HistoryHandler handles the /history command.
type HistoryHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(svc *service.Service, logger *logrus.Logger) *HistoryHandler {
	return &HistoryHandler{svc: svc, logger: logger}
}

// Handle processes the /history command.
func (h *HistoryHandler) Handle(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	chatID := message.Chat.ID
	limit := defaultHistory
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return send(bot, chatID, "Usage: /history <count>")
		}
		limit = min(n, maxHistory)
	}

	entries, err := h.svc.History(ctx, message.From.ID, chatID, limit)
	if err != nil {
		return fail(bot, chatID, err)
	}
	if len(entries) == 0 {
		return send(bot, chatID, "📒 No budget changes yet.")
	}

	var sb strings.Builder
	sb.WriteString("📒 Family budget history:\n")
	for _, e := range entries {
		fmt.Fprintf(&sb, "\n%s %+d %s (%s)",
			e.CreatedAt.Format("02.01 15:04"), e.Amount, e.Reason, h.svc.NameOf(ctx, chatID, e.UserID))
	}
	if err := send(bot, chatID, sb.String()); err != nil {
		return err
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id": chatID,
		"user_id": message.From.ID,
		"entries": len(entries),
	}).Debug("Listed budget history")

	return nil
}
