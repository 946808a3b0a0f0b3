package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/FamilyBoT/internal/telegram"
)

const welcomeText = `👨‍👩‍👧 *Welcome to FamilyBoT!*

Find your other half, build a family budget and raise children right here in the group chat.

*Getting started:*
• /marry - Reply to a message of your chosen one
• /work - Earn coins for the family
• /shop - See jobs and gifts for sale
• /profile - Your status and achievements

Use /help to see every command.`

// StartHandler handles the /start command
type StartHandler struct {
	logger *logrus.Logger
}

// NewStartHandler creates a new start command handler
func NewStartHandler(logger *logrus.Logger) *StartHandler {
	return &StartHandler{
		logger: logger,
	}
}

// Handle processes the /start command
func (h *StartHandler) Handle(_ context.Context, bot telegram.Sender, message *tgbotapi.Message, _ []string) error {
	if err := sendMarkdown(bot, message.Chat.ID, welcomeText); err != nil {
		return err
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id": message.Chat.ID,
		"user_id": message.From.ID,
	}).Info("Sent start message")

	return nil
}
