package testutil

import (
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender records what handlers send instead of calling Telegram.
type Sender struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
}

func (s *Sender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, c)
	return tgbotapi.Message{MessageID: len(s.sent)}, nil
}

func (s *Sender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

// Sent returns the messages and edits sent so far.
func (s *Sender) Sent() []tgbotapi.Chattable {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]tgbotapi.Chattable(nil), s.sent...)
}

// Texts returns the text of every message and edit sent so far.
func (s *Sender) Texts() []string {
	var texts []string
	for _, c := range s.Sent() {
		switch m := c.(type) {
		case tgbotapi.MessageConfig:
			texts = append(texts, m.Text)
		case tgbotapi.EditMessageTextConfig:
			texts = append(texts, m.Text)
		}
	}
	return texts
}

// LastText returns the text of the last message or edit, or "".
func (s *Sender) LastText() string {
	texts := s.Texts()
	if len(texts) == 0 {
		return ""
	}
	return texts[len(texts)-1]
}

// Answers returns the callback query answers sent so far.
func (s *Sender) Answers() []tgbotapi.CallbackConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	var answers []tgbotapi.CallbackConfig
	for _, c := range s.requests {
		if a, ok := c.(tgbotapi.CallbackConfig); ok {
			answers = append(answers, a)
		}
	}
	return answers
}

// Reset forgets everything sent so far.
func (s *Sender) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = nil
	s.requests = nil
}

// Command builds a group chat message carrying a bot command such as
// "/casino 50".
func Command(chatID, userID int64, text string) *tgbotapi.Message {
	length := len(text)
	if i := strings.IndexByte(text, ' '); i >= 0 {
		length = i
	}
	return &tgbotapi.Message{
		MessageID: 1,
		From:      &tgbotapi.User{ID: userID, FirstName: "User"},
		Chat:      &tgbotapi.Chat{ID: chatID, Type: "group"},
		Text:      text,
		Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: length}},
	}
}

// Callback builds a callback query pressed by userID under a bot message in chatID.
func Callback(chatID, userID int64, data string) *tgbotapi.CallbackQuery {
	return &tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    &tgbotapi.User{ID: userID, FirstName: "User"},
		Message: &tgbotapi.Message{MessageID: 42, Chat: &tgbotapi.Chat{ID: chatID, Type: "group"}},
		Data:    data,
	}
}
