package handlers

import (
	"fmt"
	"time"
	"unicode"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Kerhoff/FamilyBoT/internal/apperrors"
	"github.com/Kerhoff/FamilyBoT/internal/service"
	"github.com/Kerhoff/FamilyBoT/internal/telegram"
)

func send(bot telegram.Sender, chatID int64, text string) error {
	if _, err := bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

func sendMarkdown(bot telegram.Sender, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// fail tells the user why a game rule rejected the command. Errors without
// a player-facing code are returned untouched for the router to handle.
func fail(bot telegram.Sender, chatID int64, err error) error {
	text, ok := failureText(err)
	if !ok {
		return err
	}
	if sendErr := send(bot, chatID, text); sendErr != nil {
		return sendErr
	}
	return telegram.Replied(err)
}

func failureText(err error) (string, bool) {
	appErr, ok := apperrors.As(err)
	if !ok {
		return "", false
	}

	switch appErr.Code {
	case apperrors.CodeCooldown:
		return fmt.Sprintf("⏳ %s. Try again in %s.", sentence(appErr.Message), waitText(appErr.Remaining)), true
	case apperrors.CodeInsufficientFunds:
		return fmt.Sprintf("💸 Not enough coins: %d needed, the family has %d.", appErr.Required, appErr.Available), true
	case apperrors.CodeLimit:
		return "👶 " + sentence(appErr.Message) + ".", true
	case apperrors.CodeValidation, apperrors.CodeNotFound, apperrors.CodeConflict:
		return "❌ " + sentence(appErr.Message) + ".", true
	default:
		return "", false
	}
}

// waitText renders a remaining cooldown in whole hours, or whole minutes
// under an hour.
func waitText(d time.Duration) string {
	e := &apperrors.Error{Remaining: d}
	if d >= time.Hour {
		return fmt.Sprintf("%d h", e.WholeHours())
	}
	return fmt.Sprintf("%d min", max(e.WholeMinutes(), 1))
}

func sentence(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func questLines(completed []service.CompletedQuest) string {
	var text string
	for _, q := range completed {
		text += fmt.Sprintf("\n🏆 Quest completed: %s! +%d coins", q.Description, q.Reward)
	}
	return text
}
