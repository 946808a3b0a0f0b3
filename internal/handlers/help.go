package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/FamilyBoT/internal/telegram"
)

const helpText = `📚 *FamilyBoT Help*

*Family:*
• /marry - Propose (reply to a message)
• /divorce - End your marriage
• /family - Your family at a glance
• /child - Have a child (100 coins)
• /kids - List your children
• /reset - Start over from scratch

*Economy:*
• /work - Work a shift (every 6 h)
• /daily - Claim the daily bonus
• /shop - Browse the shop
• /buy <item> - Buy a job or an item
• /gift <item> - Give a gift to your spouse
• /casino <bet> - Bet family coins
• /history <count> - Recent budget changes

*Progress:*
• /quests - Your quests
• /profile - Your profile and achievements`

// HelpHandler handles the /help command
type HelpHandler struct {
	logger *logrus.Logger
}

func NewHelpHandler(logger *logrus.Logger) *HelpHandler {
	return &HelpHandler{logger: logger}
}

func (h *HelpHandler) Handle(_ context.Context, bot telegram.Sender, message *tgbotapi.Message, _ []string) error {
	if err := sendMarkdown(bot, message.Chat.ID, helpText); err != nil {
		return err
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id": message.Chat.ID,
		"user_id": message.From.ID,
	}).Info("Sent help message")

	return nil
}
