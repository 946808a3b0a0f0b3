package handlers

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/FamilyBoT/internal/apperrors"
	"github.com/Kerhoff/FamilyBoT/internal/service"
	"github.com/Kerhoff/FamilyBoT/internal/telegram"
)

// answerCallback stops the loading spinner of an inline button, optionally
// with an alert.
func answerCallback(bot telegram.Sender, query *tgbotapi.CallbackQuery, alert string) error {
	cfg := tgbotapi.NewCallback(query.ID, alert)
	cfg.ShowAlert = alert != ""
	if _, err := bot.Request(cfg); err != nil {
		return fmt.Errorf("failed to answer callback query: %w", err)
	}
	return nil
}

// editCallbackMessage replaces the text of the message carrying the buttons.
func editCallbackMessage(bot telegram.Sender, query *tgbotapi.CallbackQuery, text string) error {
	if query.Message == nil {
		return nil
	}
	edit := tgbotapi.NewEditMessageText(query.Message.Chat.ID, query.Message.MessageID, text)
	if _, err := bot.Send(edit); err != nil {
		return fmt.Errorf("failed to edit message: %w", err)
	}
	return nil
}

func keyboard(yesText string, yes telegram.Callback, noText string, no telegram.Callback) (tgbotapi.InlineKeyboardMarkup, error) {
	yesData, err := telegram.EncodeCallback(yes)
	if err != nil {
		return tgbotapi.InlineKeyboardMarkup{}, err
	}
	noData, err := telegram.EncodeCallback(no)
	if err != nil {
		return tgbotapi.InlineKeyboardMarkup{}, err
	}
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(yesText, yesData),
		tgbotapi.NewInlineKeyboardButtonData(noText, noData),
	)), nil
}

// ---------------------------------------------------------------------------
// MarryHandler – /marry (as a reply)
// ---------------------------------------------------------------------------

// MarryHandler handles the /marry command. The target is the author of the
// replied-to message.
type MarryHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewMarryHandler creates a new MarryHandler.
func NewMarryHandler(svc *service.Service, logger *logrus.Logger) *MarryHandler {
	return &MarryHandler{svc: svc, logger: logger}
}

// Handle processes the /marry command.
func (h *MarryHandler) Handle(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, _ []string) error {
	chatID := message.Chat.ID
	if message.Chat.IsPrivate() {
		return send(bot, chatID, "💍 Marriages happen in group chats only!")
	}

	reply := message.ReplyToMessage
	if reply == nil || reply.From == nil {
		return send(bot, chatID, "💍 Reply to a message of your chosen one with /marry.")
	}
	target := reply.From
	if target.IsBot {
		return send(bot, chatID, "🤖 Bots are not the marrying kind.")
	}

	if err := h.svc.Propose(ctx, message.From.ID, target.ID, chatID); err != nil {
		return fail(bot, chatID, err)
	}

	markup, err := keyboard(
		"💍 Accept", telegram.MarriageResponse{Accept: true, ProposerID: message.From.ID, TargetID: target.ID, ChatID: chatID},
		"💔 Reject", telegram.MarriageResponse{Accept: false, ProposerID: message.From.ID, TargetID: target.ID, ChatID: chatID},
	)
	if err != nil {
		return err
	}

	text := fmt.Sprintf("💍 %s proposes to %s!\nDo you accept?", telegram.DisplayName(message.From), telegram.DisplayName(target))
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = markup
	if _, err := bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send proposal: %w", err)
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id": chatID,
		"user_id": message.From.ID,
		"target":  target.ID,
	}).Info("Proposal sent")

	return nil
}

// MarriageCallbackHandler applies the answer to a proposal.
type MarriageCallbackHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewMarriageCallbackHandler creates a new MarriageCallbackHandler.
func NewMarriageCallbackHandler(svc *service.Service, logger *logrus.Logger) *MarriageCallbackHandler {
	return &MarriageCallbackHandler{svc: svc, logger: logger}
}

// HandleCallback processes a press on the accept or reject button.
func (h *MarriageCallbackHandler) HandleCallback(ctx context.Context, bot telegram.Sender, query *tgbotapi.CallbackQuery, cb telegram.Callback) error {
	resp, ok := cb.(telegram.MarriageResponse)
	if !ok {
		return fmt.Errorf("unexpected callback %T", cb)
	}

	_, err := h.svc.AnswerProposal(ctx, query.From.ID, service.ProposalAnswer{
		ProposerID: resp.ProposerID,
		TargetID:   resp.TargetID,
		ChatID:     resp.ChatID,
		Accept:     resp.Accept,
	})
	if err != nil {
		alert := ""
		switch apperrors.CodeOf(err) {
		case apperrors.CodeValidation:
			alert = "This proposal is not for you!"
		case apperrors.CodeConflict:
			alert = "One of you is already married!"
		default:
			return err
		}
		if ansErr := answerCallback(bot, query, alert); ansErr != nil {
			return ansErr
		}
		return telegram.Replied(err)
	}

	proposer := h.svc.NameOf(ctx, resp.ChatID, resp.ProposerID)
	text := fmt.Sprintf("💔 %s was turned down...", proposer)
	if resp.Accept {
		text = fmt.Sprintf("🎉 Congratulations! %s and %s are now married! 💍", proposer, telegram.DisplayName(query.From))
	}
	if err := editCallbackMessage(bot, query, text); err != nil {
		return err
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id":  resp.ChatID,
		"proposer": resp.ProposerID,
		"user_id":  query.From.ID,
		"accepted": resp.Accept,
	}).Info("Proposal answered")

	return answerCallback(bot, query, "")
}

// ---------------------------------------------------------------------------
// DivorceHandler – /divorce
// ---------------------------------------------------------------------------

// DivorceHandler handles the /divorce command.
type DivorceHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewDivorceHandler creates a new DivorceHandler.
func NewDivorceHandler(svc *service.Service, logger *logrus.Logger) *DivorceHandler {
	return &DivorceHandler{svc: svc, logger: logger}
}

// Handle processes the /divorce command.
func (h *DivorceHandler) Handle(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, _ []string) error {
	removed, err := h.svc.Dissolve(ctx, message.From.ID, message.Chat.ID)
	if err != nil {
		return err
	}
	if !removed {
		return send(bot, message.Chat.ID, "🕊 You are free already!")
	}
	if err := send(bot, message.Chat.ID, "💔 You are divorced..."); err != nil {
		return err
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id": message.Chat.ID,
		"user_id": message.From.ID,
	}).Info("Divorce announced")

	return nil
}

// ---------------------------------------------------------------------------
// ResetHandler – /reset
// ---------------------------------------------------------------------------

// ResetHandler asks for confirmation before wiping the user's progress.
type ResetHandler struct {
	logger *logrus.Logger
}

// NewResetHandler creates a new ResetHandler.
func NewResetHandler(logger *logrus.Logger) *ResetHandler {
	return &ResetHandler{logger: logger}
}

// Handle processes the /reset command.
func (h *ResetHandler) Handle(_ context.Context, bot telegram.Sender, message *tgbotapi.Message, _ []string) error {
	userID, chatID := message.From.ID, message.Chat.ID
	markup, err := keyboard(
		"✅ Yes, reset", telegram.ResetConfirmation{Confirm: true, UserID: userID, ChatID: chatID},
		"❌ No", telegram.ResetConfirmation{Confirm: false, UserID: userID, ChatID: chatID},
	)
	if err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(chatID, "⚠️ Warning!\nThis wipes all your progress:\n• your marriage\n• your job and quests\n\nAre you sure?")
	msg.ReplyMarkup = markup
	if _, err := bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send reset prompt: %w", err)
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id": chatID,
		"user_id": userID,
	}).Debug("Reset confirmation requested")

	return nil
}

// ResetCallbackHandler applies the answer to a reset prompt.
type ResetCallbackHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewResetCallbackHandler creates a new ResetCallbackHandler.
func NewResetCallbackHandler(svc *service.Service, logger *logrus.Logger) *ResetCallbackHandler {
	return &ResetCallbackHandler{svc: svc, logger: logger}
}

// HandleCallback processes a press on the confirm or cancel button.
func (h *ResetCallbackHandler) HandleCallback(ctx context.Context, bot telegram.Sender, query *tgbotapi.CallbackQuery, cb telegram.Callback) error {
	confirm, ok := cb.(telegram.ResetConfirmation)
	if !ok {
		return fmt.Errorf("unexpected callback %T", cb)
	}

	if query.From.ID != confirm.UserID {
		if err := answerCallback(bot, query, "You did not ask for this reset!"); err != nil {
			return err
		}
		return telegram.Replied(apperrors.Validation("reset pressed by user %d", query.From.ID))
	}

	if !confirm.Confirm {
		if err := editCallbackMessage(bot, query, "❌ Reset cancelled."); err != nil {
			return err
		}
		return answerCallback(bot, query, "")
	}

	if _, err := h.svc.Reset(ctx, confirm.UserID, confirm.ChatID); err != nil {
		return err
	}
	if err := editCallbackMessage(bot, query, "✅ Your progress has been reset. Welcome to a new life!"); err != nil {
		return err
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id": confirm.ChatID,
		"user_id": confirm.UserID,
	}).Info("Reset confirmed")

	return answerCallback(bot, query, "")
}
