package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/FamilyBoT/internal/game"
	"github.com/Kerhoff/FamilyBoT/internal/service"
	"github.com/Kerhoff/FamilyBoT/internal/telegram"
)

// ---------------------------------------------------------------------------
// WorkHandler – /work
// ---------------------------------------------------------------------------

// WorkHandler handles the /work command.
type WorkHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewWorkHandler creates a new WorkHandler.
func NewWorkHandler(svc *service.Service, logger *logrus.Logger) *WorkHandler {
	return &WorkHandler{svc: svc, logger: logger}
}

// Handle processes the /work command.
func (h *WorkHandler) Handle(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, _ []string) error {
	res, err := h.svc.Work(ctx, message.From.ID, message.Chat.ID)
	if err != nil {
		return fail(bot, message.Chat.ID, err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "💼 Worked as %s: +%d coins", res.Job, res.Pay)
	if res.Event != "" {
		fmt.Fprintf(&sb, "\n🎁 Event: %s!", res.Event)
	}
	if res.Passive > 0 {
		fmt.Fprintf(&sb, "\n🏠 Passive income: +%d", res.Passive)
	}
	sb.WriteString(questLines(res.Completed))
	fmt.Fprintf(&sb, "\n🔥 Streak: %d", res.Streak)
	if !res.Married {
		sb.WriteString("\n💔 You are single, so nobody keeps the money.")
	}

	if err := send(bot, message.Chat.ID, sb.String()); err != nil {
		return err
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id": message.Chat.ID,
		"user_id": message.From.ID,
		"job":     res.Job,
		"pay":     res.Pay,
	}).Info("Shift worked")

	return nil
}

// ---------------------------------------------------------------------------
// QuestsHandler – /quests
// ---------------------------------------------------------------------------

// QuestsHandler handles the /quests command.
type QuestsHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewQuestsHandler creates a new QuestsHandler.
func NewQuestsHandler(svc *service.Service, logger *logrus.Logger) *QuestsHandler {
	return &QuestsHandler{svc: svc, logger: logger}
}

// Handle processes the /quests command.
func (h *QuestsHandler) Handle(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, _ []string) error {
	views, err := h.svc.ListQuests(ctx, message.From.ID, message.Chat.ID)
	if err != nil {
		return fail(bot, message.Chat.ID, err)
	}

	var sb strings.Builder
	sb.WriteString("🎯 Your quests:\n")
	for _, v := range views {
		status := "🔄"
		if v.Quest.Completed {
			status = "✅"
		}
		fmt.Fprintf(&sb, "\n%s %s: %d/%d", status, v.Description, min(v.Quest.Progress, v.Quest.Target), v.Quest.Target)
		if v.Quest.Completed {
			sb.WriteString(" (reward received)")
		} else {
			fmt.Fprintf(&sb, " (reward %d)", v.Reward)
		}
	}

	if err := send(bot, message.Chat.ID, sb.String()); err != nil {
		return err
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id": message.Chat.ID,
		"user_id": message.From.ID,
		"count":   len(views),
	}).Debug("Listed quests")

	return nil
}

// ---------------------------------------------------------------------------
// ShopHandler – /shop
// ---------------------------------------------------------------------------

// ShopHandler handles the /shop command.
type ShopHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewShopHandler creates a new ShopHandler.
func NewShopHandler(svc *service.Service, logger *logrus.Logger) *ShopHandler {
	return &ShopHandler{svc: svc, logger: logger}
}

// itemEmoji returns an emoji for a shop item type.
func itemEmoji(itemType string) string {
	switch itemType {
	case game.ItemJob:
		return "👔"
	case game.ItemGift:
		return "🎁"
	default:
		return "🏠"
	}
}

// Handle processes the /shop command.
func (h *ShopHandler) Handle(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, _ []string) error {
	items, err := h.svc.Catalog(ctx)
	if err != nil {
		return err
	}

	var sb strings.Builder
	sb.WriteString("🛒 Shop:\n\n")
	for _, item := range items {
		fmt.Fprintf(&sb, "%s %s — %d coins\n%s\n\n", itemEmoji(item.Type), item.Name, item.Price, item.Description)
	}
	sb.WriteString("Buy with /buy <name>")

	if err := send(bot, message.Chat.ID, sb.String()); err != nil {
		return err
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id": message.Chat.ID,
		"user_id": message.From.ID,
	}).Debug("Listed shop")

	return nil
}

// ---------------------------------------------------------------------------
// BuyHandler – /buy <item>
// ---------------------------------------------------------------------------

// BuyHandler handles the /buy command.
type BuyHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewBuyHandler creates a new BuyHandler.
func NewBuyHandler(svc *service.Service, logger *logrus.Logger) *BuyHandler {
	return &BuyHandler{svc: svc, logger: logger}
}

// Handle processes the /buy command.
func (h *BuyHandler) Handle(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	if len(args) == 0 {
		return send(bot, message.Chat.ID, "Usage: /buy Cashier")
	}

	res, err := h.svc.Purchase(ctx, message.From.ID, message.Chat.ID, strings.Join(args, " "))
	if err != nil {
		return fail(bot, message.Chat.ID, err)
	}

	text := fmt.Sprintf("✅ Bought: %s!", res.Item.Name)
	if res.NewJob != "" {
		text += fmt.Sprintf("\n💼 You are now a %s!", res.NewJob)
	}
	text += fmt.Sprintf("\n💰 Family budget: %d coins", res.Budget)

	if err := send(bot, message.Chat.ID, text); err != nil {
		return err
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id": message.Chat.ID,
		"user_id": message.From.ID,
		"item":    res.Item.Name,
		"budget":  res.Budget,
	}).Info("Item bought")

	return nil
}

// ---------------------------------------------------------------------------
// DailyHandler – /daily
// ---------------------------------------------------------------------------

// DailyHandler handles the /daily command.
type DailyHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewDailyHandler creates a new DailyHandler.
func NewDailyHandler(svc *service.Service, logger *logrus.Logger) *DailyHandler {
	return &DailyHandler{svc: svc, logger: logger}
}

// Handle processes the /daily command.
func (h *DailyHandler) Handle(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, _ []string) error {
	res, err := h.svc.Daily(ctx, message.From.ID, message.Chat.ID)
	if err != nil {
		return fail(bot, message.Chat.ID, err)
	}

	text := fmt.Sprintf("🎁 Daily bonus: +%d coins!", res.Amount)
	if res.Level.LeveledUp {
		text += fmt.Sprintf("\n🎉 Your family reached level %d: %s!", res.Level.Level, res.Level.Title)
	}
	if err := send(bot, message.Chat.ID, text); err != nil {
		return err
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id": message.Chat.ID,
		"user_id": message.From.ID,
		"amount":  res.Amount,
	}).Info("Daily bonus claimed")

	return nil
}

// ---------------------------------------------------------------------------
// CasinoHandler – /casino <bet>
// ---------------------------------------------------------------------------

// CasinoHandler handles the /casino command.
type CasinoHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewCasinoHandler creates a new CasinoHandler.
func NewCasinoHandler(svc *service.Service, logger *logrus.Logger) *CasinoHandler {
	return &CasinoHandler{svc: svc, logger: logger}
}

// Handle processes the /casino command.
func (h *CasinoHandler) Handle(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	if len(args) != 1 {
		return send(bot, message.Chat.ID, "Usage: /casino <bet>")
	}
	bet, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return send(bot, message.Chat.ID, "❌ The bet must be a whole number.")
	}

	res, err := h.svc.Casino(ctx, message.From.ID, message.Chat.ID, bet)
	if err != nil {
		return fail(bot, message.Chat.ID, err)
	}

	text := fmt.Sprintf("🎲 Casino: 💸 you lost %d coins...", res.Bet)
	if res.Won {
		text = fmt.Sprintf("🎲 Casino: 🎉 you won %d coins!", res.Bet*2)
	}
	if err := send(bot, message.Chat.ID, text); err != nil {
		return err
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id": message.Chat.ID,
		"user_id": message.From.ID,
		"bet":     res.Bet,
		"won":     res.Won,
	}).Info("Casino bet played")

	return nil
}

// ---------------------------------------------------------------------------
// GiftHandler – /gift <item>
// ---------------------------------------------------------------------------

// GiftHandler handles the /gift command.
type GiftHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewGiftHandler creates a new GiftHandler.
func NewGiftHandler(svc *service.Service, logger *logrus.Logger) *GiftHandler {
	return &GiftHandler{svc: svc, logger: logger}
}

// Handle processes the /gift command.
func (h *GiftHandler) Handle(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	if len(args) == 0 {
		return send(bot, message.Chat.ID, "Usage: /gift Ring")
	}

	res, err := h.svc.Gift(ctx, message.From.ID, message.Chat.ID, strings.Join(args, " "))
	if err != nil {
		return fail(bot, message.Chat.ID, err)
	}

	partner := h.svc.NameOf(ctx, message.Chat.ID, res.PartnerID)
	text := fmt.Sprintf("🎁 %s gave %s a %s! 💍", telegram.DisplayName(message.From), partner, res.Item.Name)
	if err := send(bot, message.Chat.ID, text); err != nil {
		return err
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id": message.Chat.ID,
		"user_id": message.From.ID,
		"partner": res.PartnerID,
		"item":    res.Item.Name,
	}).Info("Gift given")

	return nil
}
