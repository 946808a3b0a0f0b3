package telegram

import (
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/FamilyBoT/internal/apperrors"
	"github.com/Kerhoff/FamilyBoT/internal/metrics"
)

const (
	genericFailureText = "❌ An error occurred while processing your command. Please try again."
	unknownCommandText = "❓ Unknown command. Use /help to see available commands."
)

// Sender is the part of the Bot API the handlers talk to. *tgbotapi.BotAPI
// implements it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// CommandHandler defines the interface for command handlers
type CommandHandler interface {
	Handle(ctx context.Context, bot Sender, message *tgbotapi.Message, args []string) error
}

// CallbackHandler handles one kind of decoded inline keyboard press
type CallbackHandler interface {
	HandleCallback(ctx context.Context, bot Sender, query *tgbotapi.CallbackQuery, cb Callback) error
}

// repliedError marks a failure the handler already explained to the user.
type repliedError struct {
	err error
}

func (e *repliedError) Error() string { return e.err.Error() }
func (e *repliedError) Unwrap() error { return e.err }

// Replied wraps err to tell the router that the user already got an answer,
// so it only needs to be counted.
func Replied(err error) error {
	if err == nil {
		return nil
	}
	return &repliedError{err: err}
}

// Router handles message routing and command parsing
type Router struct {
	logger    *logrus.Logger
	metrics   *metrics.Metrics
	handlers  map[string]CommandHandler
	callbacks map[CallbackKind]CallbackHandler
}

// NewRouter creates a new message router. m may be nil.
func NewRouter(logger *logrus.Logger, m *metrics.Metrics) *Router {
	return &Router{
		logger:    logger,
		metrics:   m,
		handlers:  make(map[string]CommandHandler),
		callbacks: make(map[CallbackKind]CallbackHandler),
	}
}

// RegisterCommand registers a command handler
func (r *Router) RegisterCommand(command string, handler CommandHandler) {
	r.handlers[command] = handler
	r.logger.Debugf("Registered command: %s", command)
}

// RegisterCallback registers the handler of a callback kind
func (r *Router) RegisterCallback(kind CallbackKind, handler CallbackHandler) {
	r.callbacks[kind] = handler
	r.logger.Debugf("Registered callback: %s", kind)
}

// HandleMessage handles incoming messages
func (r *Router) HandleMessage(ctx context.Context, bot Sender, message *tgbotapi.Message) {
	if message.From == nil {
		return
	}

	r.logger.WithFields(logrus.Fields{
		"chat_id":    message.Chat.ID,
		"user_id":    message.From.ID,
		"username":   message.From.UserName,
		"message_id": message.MessageID,
		"text":       message.Text,
	}).Debug("Received message")

	if message.Text == "" || !message.IsCommand() {
		return
	}

	command := message.Command()
	args := strings.Fields(message.CommandArguments())

	handler, exists := r.handlers[command]
	if !exists {
		r.logger.WithFields(logrus.Fields{
			"command": command,
			"chat_id": message.Chat.ID,
			"user_id": message.From.ID,
		}).Warn("Unknown command")

		r.metrics.Command("unknown", "unknown")
		r.reply(bot, message.Chat.ID, unknownCommandText)
		return
	}

	err := handler.Handle(ctx, bot, message, args)
	r.finish(bot, command, message.Chat.ID, message.From.ID, err)
}

// HandleCallbackQuery decodes the callback data and hands it to the handler
// registered for its kind.
func (r *Router) HandleCallbackQuery(ctx context.Context, bot Sender, query *tgbotapi.CallbackQuery) {
	r.logger.WithFields(logrus.Fields{
		"callback_id": query.ID,
		"user_id":     query.From.ID,
		"data":        query.Data,
	}).Debug("Received callback query")

	cb, err := DecodeCallback(query.Data)
	if err != nil {
		r.logger.WithError(err).WithField("data", query.Data).Warn("Ignoring callback query")
		r.answer(bot, query.ID, "")
		return
	}

	handler, exists := r.callbacks[cb.Kind()]
	if !exists {
		r.logger.WithField("kind", cb.Kind()).Warn("No handler for callback")
		r.answer(bot, query.ID, "")
		return
	}

	var chatID int64
	if query.Message != nil {
		chatID = query.Message.Chat.ID
	}
	err = handler.HandleCallback(ctx, bot, query, cb)
	r.finish(bot, "callback_"+string(cb.Kind()), chatID, query.From.ID, err)
}

// finish records the outcome of a handler and reports unexpected failures.
func (r *Router) finish(bot Sender, command string, chatID, userID int64, err error) {
	if err == nil {
		r.metrics.Command(command, "ok")
		return
	}

	var replied *repliedError
	if errors.As(err, &replied) {
		outcome := "rejected"
		if code := apperrors.CodeOf(err); code != "" {
			outcome = strings.ToLower(string(code))
		}
		r.metrics.Command(command, outcome)
		r.logger.WithFields(logrus.Fields{
			"command": command,
			"chat_id": chatID,
			"user_id": userID,
			"outcome": outcome,
		}).Debug("Command rejected")
		return
	}

	r.metrics.Command(command, "error")
	r.logger.WithFields(logrus.Fields{
		"command": command,
		"chat_id": chatID,
		"user_id": userID,
		"error":   err,
	}).Error("Command handler failed")

	if chatID != 0 {
		r.reply(bot, chatID, genericFailureText)
	}
}

func (r *Router) reply(bot Sender, chatID int64, text string) {
	if _, err := bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		r.logger.WithError(err).Error("Failed to send message")
	}
}

func (r *Router) answer(bot Sender, queryID, text string) {
	if _, err := bot.Request(tgbotapi.NewCallback(queryID, text)); err != nil {
		r.logger.WithError(err).Error("Failed to answer callback query")
	}
}
