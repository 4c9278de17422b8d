package telegram

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/attestiz/internal/bank"
	"github.com/abhisek/attestiz/internal/evaluator"
	"github.com/abhisek/attestiz/internal/proctor"
	"github.com/abhisek/attestiz/internal/questiongen"
	"github.com/abhisek/attestiz/internal/quiz"
	"github.com/abhisek/attestiz/internal/session"
)

type sentMessage struct {
	chatID int64
	text   string
	markup *tgbotapi.InlineKeyboardMarkup
}

type fakeClient struct {
	mu        sync.Mutex
	nextID    int
	messages  []sentMessage
	edits     []tgbotapi.EditMessageTextConfig
	callbacks []tgbotapi.CallbackConfig
	keyboard  *tgbotapi.InlineKeyboardMarkup
}

func (f *fakeClient) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg := c.(tgbotapi.MessageConfig)
	sm := sentMessage{chatID: msg.ChatID, text: msg.Text}
	if kb, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup); ok {
		sm.markup = &kb
		f.keyboard = &kb
	}
	f.messages = append(f.messages, sm)
	f.nextID++
	return tgbotapi.Message{MessageID: f.nextID}, nil
}

func (f *fakeClient) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch v := c.(type) {
	case tgbotapi.EditMessageTextConfig:
		f.edits = append(f.edits, v)
		if v.ReplyMarkup != nil {
			f.keyboard = v.ReplyMarkup
		}
	case tgbotapi.CallbackConfig:
		f.callbacks = append(f.callbacks, v)
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeClient) lastText() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.messages[len(f.messages)-1].text
}

func (f *fakeClient) lastCallback() tgbotapi.CallbackConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.callbacks[len(f.callbacks)-1]
}

// firstButton returns the callback data of the first button of the current
// question keyboard.
func (f *fakeClient) firstButton(t *testing.T) string {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotNil(t, f.keyboard)
	require.NotEmpty(t, f.keyboard.InlineKeyboard)
	return *f.keyboard.InlineKeyboard[0][0].CallbackData
}

const (
	userID = int64(7)
	chatID = int64(70)
)

func textUpdate(text string) tgbotapi.Update {
	msg := &tgbotapi.Message{
		MessageID: 1,
		From:      &tgbotapi.User{ID: userID},
		Chat:      &tgbotapi.Chat{ID: chatID},
		Text:      text,
	}
	if strings.HasPrefix(text, "/") {
		msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(text)}}
	}
	return tgbotapi.Update{Message: msg}
}

func callbackUpdate(data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb-" + data,
		From:    &tgbotapi.User{ID: userID},
		Message: &tgbotapi.Message{MessageID: 1, Chat: &tgbotapi.Chat{ID: chatID}},
		Data:    data,
	}}
}

func blueprint(prompt string) quiz.Blueprint {
	return quiz.Blueprint{
		Prompt:      prompt,
		Topic:       "Basics",
		Options:     []quiz.Option{{Text: "right", IsCorrect: true}, {Text: "wrong"}},
		Explanation: "Because.",
	}
}

func newTestBot(t *testing.T) (*Bot, *fakeClient) {
	t.Helper()
	b := bank.New(
		[]quiz.Blueprint{blueprint("common one"), blueprint("common two")},
		bank.RoleSet{Slug: "backend", Title: "Backend", BlockTwoCount: 1, Questions: []quiz.Blueprint{blueprint("role one")}},
	)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := proctor.New(proctor.Deps{
		Bank:          b,
		Materializer:  questiongen.New(rand.New(rand.NewSource(3)), b),
		Engine:        session.NewEngine(evaluator.New()),
		Registry:      session.NewRegistry(),
		Logger:        logger,
		BlockOneCount: 2,
	})
	client := &fakeClient{}
	return New(client, svc, logger), client
}

func TestConversationFlow(t *testing.T) {
	bot, client := newTestBot(t)
	ctx := context.Background()

	bot.HandleUpdate(ctx, textUpdate("/start"))
	assert.Contains(t, client.lastText(), "please enter your full name")

	bot.HandleUpdate(ctx, textUpdate("Ivan"))
	assert.Equal(t, textNameRequired, client.lastText())

	bot.HandleUpdate(ctx, textUpdate("Ivan  Petrov"))
	assert.Contains(t, client.lastText(), "- Backend")
	require.NotNil(t, client.keyboard)
	assert.Equal(t, "role|backend", *client.keyboard.InlineKeyboard[0][0].CallbackData)

	bot.HandleUpdate(ctx, textUpdate("hello?"))
	assert.Equal(t, textChooseRole, client.lastText())

	bot.HandleUpdate(ctx, callbackUpdate("role|backend"))
	assert.Equal(t, textRoleChosen, client.lastCallback().Text)
	assert.Contains(t, client.lastText(), proctor.BlockOneTitle+" • question 1/2")

	first := client.firstButton(t)
	bot.HandleUpdate(ctx, callbackUpdate(first))
	fb := client.lastCallback()
	assert.True(t, fb.ShowAlert)
	assert.Contains(t, fb.Text, "Because.")
	require.NotEmpty(t, client.edits)
	assert.Contains(t, client.edits[len(client.edits)-1].Text, "question 2/2")

	// The first question is closed now.
	bot.HandleUpdate(ctx, callbackUpdate(first))
	assert.Equal(t, "This question is already closed.", client.lastCallback().Text)
	assert.False(t, client.lastCallback().ShowAlert)

	bot.HandleUpdate(ctx, callbackUpdate(client.firstButton(t)))
	assert.Contains(t, client.lastText(), "Block 2 — Backend")
	assert.Contains(t, client.lastText(), "question 1/1")

	bot.HandleUpdate(ctx, callbackUpdate(client.firstButton(t)))
	assert.True(t, strings.HasPrefix(client.lastText(), "Final report\n\nResults for Ivan Petrov (Backend):"), client.lastText())
	assert.Contains(t, client.edits[len(client.edits)-1].Text, textFinished)

	bot.HandleUpdate(ctx, textUpdate("again"))
	assert.Equal(t, textSendStart, client.lastText())
}

func TestNavigationButtons(t *testing.T) {
	bot, client := newTestBot(t)
	ctx := context.Background()

	bot.HandleUpdate(ctx, textUpdate("/start"))
	bot.HandleUpdate(ctx, textUpdate("Ivan Petrov"))
	bot.HandleUpdate(ctx, callbackUpdate("role|backend"))

	bot.HandleUpdate(ctx, callbackUpdate("nav|prev"))
	assert.Equal(t, "Nothing to review yet.", client.lastCallback().Text)
	edits := len(client.edits)

	bot.HandleUpdate(ctx, callbackUpdate(client.firstButton(t)))
	bot.HandleUpdate(ctx, callbackUpdate("nav|prev"))
	require.Greater(t, len(client.edits), edits)
	assert.Contains(t, client.edits[len(client.edits)-1].Text, "Review • 1/1")

	bot.HandleUpdate(ctx, callbackUpdate("nav|next"))
	assert.Contains(t, client.edits[len(client.edits)-1].Text, "question 2/2")
}

func TestUnknownCallbackAndMissingSession(t *testing.T) {
	bot, client := newTestBot(t)
	ctx := context.Background()

	bot.HandleUpdate(ctx, callbackUpdate("bogus"))
	assert.Equal(t, textUnknownAction, client.lastCallback().Text)

	bot.HandleUpdate(ctx, callbackUpdate("sc|b1-00000000|c1"))
	assert.Equal(t, proctor.Hint(proctor.ErrNoSession), client.lastCallback().Text)

	bot.HandleUpdate(ctx, callbackUpdate("role|backend"))
	assert.Equal(t, textSendStart, client.lastCallback().Text)
}

func TestRestartAbandonsSession(t *testing.T) {
	bot, client := newTestBot(t)
	ctx := context.Background()

	bot.HandleUpdate(ctx, textUpdate("/start"))
	bot.HandleUpdate(ctx, textUpdate("Ivan Petrov"))
	bot.HandleUpdate(ctx, callbackUpdate("role|backend"))
	stale := client.firstButton(t)

	bot.HandleUpdate(ctx, textUpdate("/start"))
	assert.Contains(t, client.lastText(), "full name")

	bot.HandleUpdate(ctx, callbackUpdate(stale))
	assert.Equal(t, proctor.Hint(proctor.ErrNoSession), client.lastCallback().Text)
}

func TestIdleConversationsAreReleased(t *testing.T) {
	bot, client := newTestBot(t)
	ctx := context.Background()

	bot.HandleUpdate(ctx, textUpdate("hello"))
	assert.Equal(t, textSendStart, client.lastText())
	assert.Equal(t, 0, bot.Conversations())

	bot.HandleUpdate(ctx, textUpdate("/start"))
	bot.HandleUpdate(ctx, textUpdate("Ivan Petrov"))
	assert.Equal(t, 1, bot.Conversations())

	bot.HandleUpdate(ctx, callbackUpdate("role|backend"))
	for i := 0; i < 3; i++ {
		assert.Equal(t, 1, bot.Conversations())
		bot.HandleUpdate(ctx, callbackUpdate(client.firstButton(t)))
	}
	assert.Contains(t, client.lastText(), "Final report")
	assert.Equal(t, 0, bot.Conversations())

	bot.HandleUpdate(ctx, callbackUpdate("sc|b1-00000000|c1"))
	assert.Equal(t, proctor.Hint(proctor.ErrNoSession), client.lastCallback().Text)
	assert.Equal(t, 0, bot.Conversations())
}

func TestRun(t *testing.T) {
	bot, client := newTestBot(t)
	updates := make(chan tgbotapi.Update, 3)
	updates <- textUpdate("/start")
	updates <- textUpdate("Ivan Petrov")
	updates <- callbackUpdate("role|backend")
	close(updates)

	require.NoError(t, bot.Run(context.Background(), updates))
	assert.Contains(t, client.lastText(), "question 1/2")
}
