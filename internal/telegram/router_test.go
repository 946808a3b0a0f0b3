package telegram

import (
	"context"
	"errors"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/FamilyBoT/internal/apperrors"
	"github.com/Kerhoff/FamilyBoT/internal/metrics"
	"github.com/Kerhoff/FamilyBoT/internal/testutil"
)

type commandFunc func(args []string) error

func (f commandFunc) Handle(_ context.Context, _ Sender, _ *tgbotapi.Message, args []string) error {
	return f(args)
}

type callbackFunc func(cb Callback) error

func (f callbackFunc) HandleCallback(_ context.Context, _ Sender, _ *tgbotapi.CallbackQuery, cb Callback) error {
	return f(cb)
}

func newRouter(t *testing.T) (*Router, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)
	return NewRouter(testutil.Logger(), m), reg
}

func TestRouterPassesArguments(t *testing.T) {
	r, reg := newRouter(t)
	var got []string
	r.RegisterCommand("buy", commandFunc(func(args []string) error {
		got = args
		return nil
	}))

	bot := &testutil.Sender{}
	r.HandleMessage(context.Background(), bot, testutil.Command(-1, 7, "/buy  Ring   now"))

	assert.Equal(t, []string{"Ring", "now"}, got)
	assert.Empty(t, bot.Texts())
	expected := `
# HELP familybot_commands_total Bot commands handled, by command and outcome.
# TYPE familybot_commands_total counter
familybot_commands_total{command="buy",outcome="ok"} 1
`
	assert.NoError(t, promtest.GatherAndCompare(reg, strings.NewReader(expected), "familybot_commands_total"))
}

func TestRouterUnknownCommand(t *testing.T) {
	r, _ := newRouter(t)
	bot := &testutil.Sender{}

	r.HandleMessage(context.Background(), bot, testutil.Command(-1, 7, "/fly"))
	assert.Equal(t, []string{unknownCommandText}, bot.Texts())

	bot.Reset()
	plain := testutil.Command(-1, 7, "hello")
	plain.Entities = nil
	r.HandleMessage(context.Background(), bot, plain)
	assert.Empty(t, bot.Texts())
}

func TestRouterFailureReplies(t *testing.T) {
	r, reg := newRouter(t)
	r.RegisterCommand("work", commandFunc(func([]string) error {
		return Replied(apperrors.Cooldown("tired", 0))
	}))
	r.RegisterCommand("boom", commandFunc(func([]string) error {
		return errors.New("database is gone")
	}))
	bot := &testutil.Sender{}

	r.HandleMessage(context.Background(), bot, testutil.Command(-1, 7, "/work"))
	assert.Empty(t, bot.Texts())

	r.HandleMessage(context.Background(), bot, testutil.Command(-1, 7, "/boom"))
	assert.Equal(t, []string{genericFailureText}, bot.Texts())

	expected := `
# HELP familybot_commands_total Bot commands handled, by command and outcome.
# TYPE familybot_commands_total counter
familybot_commands_total{command="boom",outcome="error"} 1
familybot_commands_total{command="work",outcome="cooldown"} 1
`
	assert.NoError(t, promtest.GatherAndCompare(reg, strings.NewReader(expected), "familybot_commands_total"))
}

func TestRouterDispatchesCallbacks(t *testing.T) {
	r, _ := newRouter(t)
	var got Callback
	r.RegisterCallback(KindResetConfirmation, callbackFunc(func(cb Callback) error {
		got = cb
		return nil
	}))
	bot := &testutil.Sender{}

	data, err := EncodeCallback(ResetConfirmation{Confirm: true, UserID: 7, ChatID: -1})
	require.NoError(t, err)
	r.HandleCallbackQuery(context.Background(), bot, testutil.Callback(-1, 7, data))
	assert.Equal(t, ResetConfirmation{Confirm: true, UserID: 7, ChatID: -1}, got)

	// Foreign data and kinds without a handler are answered and dropped.
	r.HandleCallbackQuery(context.Background(), bot, testutil.Callback(-1, 7, "reset_cancel"))
	data, err = EncodeCallback(MarriageResponse{Accept: true, ProposerID: 1, TargetID: 2, ChatID: -1})
	require.NoError(t, err)
	r.HandleCallbackQuery(context.Background(), bot, testutil.Callback(-1, 7, data))
	assert.Len(t, bot.Answers(), 2)
	assert.Empty(t, bot.Texts())
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Ann Lee", DisplayName(&tgbotapi.User{FirstName: "Ann", LastName: "Lee"}))
	assert.Equal(t, "Ann", DisplayName(&tgbotapi.User{FirstName: "Ann", UserName: "ann"}))
	assert.Equal(t, "@ann", DisplayName(&tgbotapi.User{UserName: "ann"}))
	assert.Empty(t, DisplayName(nil))
}
