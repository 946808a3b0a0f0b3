package handlers

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/FamilyBoT/internal/apperrors"
	"github.com/Kerhoff/FamilyBoT/internal/game"
	"github.com/Kerhoff/FamilyBoT/internal/service"
	"github.com/Kerhoff/FamilyBoT/internal/telegram"
	"github.com/Kerhoff/FamilyBoT/internal/testutil"
)

const chat = int64(-100)

type harness struct {
	svc    *service.Service
	router *telegram.Router
	bot    *testutil.Sender
	clock  *testutil.Clock
	logs   *logtest.Hook
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	cat, err := game.Default()
	require.NoError(t, err)
	clock := testutil.NewClock()
	svc := service.New(testutil.NewStore(t), cat, testutil.Logger(),
		service.WithClock(clock.Now), service.WithRand(testutil.NewRand()))
	require.NoError(t, svc.SeedShop(context.Background()))

	logger, logs := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	router := telegram.NewRouter(testutil.Logger(), nil)
	Register(router, svc, logger)
	return &harness{svc: svc, router: router, bot: &testutil.Sender{}, clock: clock, logs: logs}
}

// send dispatches a command and returns the last text the bot sent.
func (h *harness) send(msg *tgbotapi.Message) string {
	h.bot.Reset()
	h.router.HandleMessage(context.Background(), h.bot, msg)
	return h.bot.LastText()
}

func (h *harness) command(userID int64, text string) string {
	return h.send(testutil.Command(chat, userID, text))
}

func (h *harness) press(t *testing.T, userID int64, cb telegram.Callback) string {
	t.Helper()
	data, err := telegram.EncodeCallback(cb)
	require.NoError(t, err)
	h.bot.Reset()
	h.router.HandleCallbackQuery(context.Background(), h.bot, testutil.Callback(chat, userID, data))
	return h.bot.LastText()
}

func (h *harness) marry(t *testing.T, a, b int64) {
	t.Helper()
	_, err := h.svc.Register(context.Background(), a, b, chat)
	require.NoError(t, err)
}

func (h *harness) fund(t *testing.T, user, amount int64) {
	t.Helper()
	require.NoError(t, h.svc.Adjust(context.Background(), user, chat, amount))
}

func proposal(from, to int64) *tgbotapi.Message {
	msg := testutil.Command(chat, from, "/marry")
	msg.ReplyToMessage = &tgbotapi.Message{From: &tgbotapi.User{ID: to, FirstName: "Bob"}}
	return msg
}

func TestMarryFlow(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	assert.Equal(t, "💍 Reply to a message of your chosen one with /marry.", h.command(1, "/marry"))

	private := proposal(1, 2)
	private.Chat.Type = "private"
	assert.Equal(t, "💍 Marriages happen in group chats only!", h.send(private))

	assert.Equal(t, "💍 User proposes to Bob!\nDo you accept?", h.send(proposal(1, 2)))
	sent := h.bot.Sent()
	require.Len(t, sent, 1)
	markup, ok := sent[0].(tgbotapi.MessageConfig).ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, markup.InlineKeyboard[0], 2)
	cb, err := telegram.DecodeCallback(*markup.InlineKeyboard[0][0].CallbackData)
	require.NoError(t, err)
	assert.Equal(t, telegram.MarriageResponse{Accept: true, ProposerID: 1, TargetID: 2, ChatID: chat}, cb)

	assert.Equal(t, "⏳ Wait before proposing again. Try again in 5 min.", h.send(proposal(1, 2)))

	// Only the target may answer.
	assert.Empty(t, h.press(t, 3, cb))
	answers := h.bot.Answers()
	require.Len(t, answers, 1)
	assert.True(t, answers[0].ShowAlert)
	assert.Equal(t, "This proposal is not for you!", answers[0].Text)

	assert.Equal(t, "🎉 Congratulations! Player 1 and User are now married! 💍", h.press(t, 2, cb))
	m, err := h.svc.Lookup(ctx, 2, chat)
	require.NoError(t, err)
	require.NotNil(t, m)

	assert.Equal(t, "❌ You are already married.", h.send(proposal(1, 3)))
}

func TestRejectedProposal(t *testing.T) {
	h := newHarness(t)

	reply := h.press(t, 2, telegram.MarriageResponse{Accept: false, ProposerID: 1, TargetID: 2, ChatID: chat})
	assert.Equal(t, "💔 Player 1 was turned down...", reply)

	m, err := h.svc.Lookup(context.Background(), 1, chat)
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestDivorceAndReset(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, "🕊 You are free already!", h.command(1, "/divorce"))
	h.marry(t, 1, 2)
	assert.Equal(t, "💔 You are divorced...", h.command(2, "/divorce"))

	h.marry(t, 1, 2)
	assert.Contains(t, h.command(1, "/reset"), "Are you sure?")

	assert.Equal(t, "❌ Reset cancelled.", h.press(t, 1, telegram.ResetConfirmation{Confirm: false, UserID: 1, ChatID: chat}))

	confirm := telegram.ResetConfirmation{Confirm: true, UserID: 1, ChatID: chat}
	assert.Empty(t, h.press(t, 2, confirm))
	require.Len(t, h.bot.Answers(), 1)
	assert.Equal(t, "You did not ask for this reset!", h.bot.Answers()[0].Text)

	assert.Equal(t, "✅ Your progress has been reset. Welcome to a new life!", h.press(t, 1, confirm))
	m, err := h.svc.Lookup(context.Background(), 2, chat)
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestWorkReplies(t *testing.T) {
	h := newHarness(t)

	reply := h.command(1, "/work")
	assert.Contains(t, reply, "💼 Worked as Unemployed: +10 coins")
	assert.Contains(t, reply, "🔥 Streak: 1")
	assert.Contains(t, reply, "You are single")

	h.clock.Advance(time.Hour)
	assert.Equal(t, "⏳ You are tired, rest before the next shift. Try again in 5 h.", h.command(1, "/work"))
}

func TestEconomyReplies(t *testing.T) {
	h := newHarness(t)
	h.marry(t, 1, 2)
	h.fund(t, 1, 100)

	assert.Equal(t, "Usage: /buy Cashier", h.command(1, "/buy"))
	assert.Equal(t, "💸 Not enough coins: 500 needed, the family has 100.", h.command(1, "/buy Programmer"))
	assert.Equal(t, `❌ No item named "Astronaut" in the shop.`, h.command(1, "/buy Astronaut"))

	reply := h.command(2, "/buy Cashier")
	assert.Contains(t, reply, "✅ Bought: Cashier!")
	assert.Contains(t, reply, "💼 You are now a Cashier!")
	assert.Contains(t, reply, "Family budget: 0 coins")

	assert.Equal(t, "❌ The bet must be a whole number.", h.command(1, "/casino lots"))
	assert.Equal(t, "💸 Not enough coins: 5 needed, the family has 0.", h.command(1, "/casino 5"))
	assert.Equal(t, "❌ House cannot be given as a gift.", h.command(1, "/gift House"))

	assert.Equal(t, "🎁 Daily bonus: +50 coins!", h.command(1, "/daily"))
	assert.Equal(t, "⏳ The daily bonus was already claimed. Try again in 24 h.", h.command(2, "/daily"))

	assert.Equal(t, "🎲 Casino: 💸 you lost 20 coins...", h.command(1, "/casino 20"))
}

func TestFamilyReplies(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, "❌ You are not married.", h.command(1, "/family"))
	assert.Equal(t, "❌ You are not married.", h.command(1, "/child"))

	h.marry(t, 1, 2)
	h.fund(t, 1, 600)

	assert.Equal(t, "👶 Child-100 was born!", h.command(1, "/child"))
	assert.Contains(t, h.command(2, "/kids"), "Child-100, birthday 01.03.2027")
	assert.Contains(t, h.command(2, "/family"), "Level 2: Young Family (score 700)")

	for i := 0; i < 4; i++ {
		h.command(1, "/child")
	}
	assert.Equal(t, "👶 A family can have at most 5 children.", h.command(1, "/child"))

	profile := h.command(1, "/profile")
	assert.Contains(t, profile, "💍 married")
	assert.Contains(t, profile, "Partner: Player 2")
	assert.Contains(t, profile, "🔹 First child")
	assert.Contains(t, profile, "🔹 Large family")

	history := h.command(2, "/history 2")
	assert.Equal(t, 2, countLines(history, "-100 child (Player 1)"))
	assert.Equal(t, "Usage: /history <count>", h.command(2, "/history -1"))
}

func TestListingReplies(t *testing.T) {
	h := newHarness(t)

	quests := h.command(1, "/quests")
	assert.Contains(t, quests, "🔄 Work 5 times: 0/5 (reward 200)")
	assert.Contains(t, quests, "🔄 Stay married for 30 days: 0/30 (reward 400)")

	shop := h.command(1, "/shop")
	assert.Contains(t, shop, "👔 Cashier — 100 coins")
	assert.Contains(t, shop, "🎁 Ring — 150 coins")
	assert.Contains(t, shop, "🏠 House — 1000 coins")

	assert.Contains(t, h.command(1, "/profile"), "🔹 Single start")
	assert.Contains(t, h.command(1, "/help"), "/casino <bet>")
}

func TestFailureText(t *testing.T) {
	_, ok := failureText(apperrors.Storage(errors.New("disk full")))
	assert.False(t, ok)
	_, ok = failureText(errors.New("plain"))
	assert.False(t, ok)

	assert.Equal(t, "2 h", waitText(90*time.Minute))
	assert.Equal(t, "1 h", waitText(time.Hour))
	assert.Equal(t, "59 min", waitText(59*time.Minute))
	assert.Equal(t, "1 min", waitText(10*time.Second))
	assert.Equal(t, "Émile", sentence("émile"))
}

func countLines(text, suffix string) int {
	n := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.HasSuffix(line, suffix) {
			n++
		}
	}
	return n
}

func TestHandlersLogOutcome(t *testing.T) {
	h := newHarness(t)
	h.marry(t, 1, 2)

	h.command(1, "/work")
	entry := h.logs.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "Shift worked", entry.Message)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, int64(1), entry.Data["user_id"])
	assert.Equal(t, int64(10), entry.Data["pay"])

	h.command(2, "/shop")
	assert.Equal(t, "Listed shop", h.logs.LastEntry().Message)

	h.command(1, "/history")
	entry = h.logs.LastEntry()
	assert.Equal(t, "Listed budget history", entry.Message)
	assert.Equal(t, logrus.DebugLevel, entry.Level)
	assert.Equal(t, 1, entry.Data["entries"])

	// Failures are answered but not logged as outcomes.
	h.logs.Reset()
	h.command(1, "/work")
	assert.Empty(t, h.logs.AllEntries())
}
