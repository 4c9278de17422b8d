// Package telegram is the chat transport: it runs assessments through a
// Telegram bot using inline keyboards.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/abhisek/attestiz/internal/bank"
	"github.com/abhisek/attestiz/internal/proctor"
	"github.com/abhisek/attestiz/internal/report"
	"github.com/abhisek/attestiz/internal/session"
)

// Client is the subset of *tgbotapi.BotAPI the bot uses.
type Client interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Service runs sessions. *proctor.Service satisfies it.
type Service interface {
	Roles() []bank.RoleSet
	Start(ctx context.Context, userID int64, profile session.Profile, roleSlug string) (proctor.Reply, error)
	Apply(ctx context.Context, userID int64, action session.Action) (proctor.Reply, error)
	Abandon(ctx context.Context, userID int64) bool
}

type stage int

const (
	stageIdle stage = iota
	stageName
	stageRole
	stageAnswering
)

// conversation is the transport-side state of one user.
type conversation struct {
	stage     stage
	chatID    int64
	fullName  string
	messageID int // message showing the live question, 0 if none
}

// Bot routes Telegram updates to the Service.
type Bot struct {
	client     Client
	svc        Service
	logger     *slog.Logger
	dispatcher *Dispatcher

	mu    sync.Mutex
	convs map[int64]*conversation
}

// New creates a Bot.
func New(client Client, svc Service, logger *slog.Logger) *Bot {
	return &Bot{
		client:     client,
		svc:        svc,
		logger:     logger,
		dispatcher: NewDispatcher(),
		convs:      make(map[int64]*conversation),
	}
}

// Run consumes updates until ctx is cancelled or updates is closed, then
// waits for in-flight work.
func (b *Bot) Run(ctx context.Context, updates <-chan tgbotapi.Update) error {
	defer b.dispatcher.Wait()
	for {
		select {
		case <-ctx.Done():
			return nil
		case u, ok := <-updates:
			if !ok {
				return nil
			}
			user := u.SentFrom()
			if user == nil {
				continue
			}
			b.dispatcher.Dispatch(user.ID, func() { b.HandleUpdate(ctx, u) })
		}
	}
}

// HandleUpdate processes one update synchronously. Callers must not run two
// updates of the same user concurrently.
func (b *Bot) HandleUpdate(ctx context.Context, u tgbotapi.Update) {
	switch {
	case u.CallbackQuery != nil:
		b.handleCallback(ctx, u.CallbackQuery)
	case u.Message != nil && u.Message.From != nil:
		b.handleMessage(ctx, u.Message)
	}
	if user := u.SentFrom(); user != nil {
		b.release(user.ID)
	}
}

// Conversations returns the number of users with conversation state.
func (b *Bot) Conversations() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.convs)
}

// release drops the conversation of userID once it is idle. An idle
// conversation holds nothing the next update does not carry again.
func (b *Bot) release(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if c, ok := b.convs[userID]; ok && c.stage == stageIdle {
		delete(b.convs, userID)
	}
}

func (b *Bot) conv(userID, chatID int64) *conversation {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.convs[userID]
	if !ok {
		c = &conversation{}
		b.convs[userID] = c
	}
	if chatID != 0 {
		c.chatID = chatID
	}
	return c
}

func (b *Bot) handleMessage(ctx context.Context, m *tgbotapi.Message) {
	userID := m.From.ID
	c := b.conv(userID, m.Chat.ID)

	if m.IsCommand() && m.Command() == "start" {
		if b.svc.Abandon(ctx, userID) {
			b.logger.Info("session restarted", "user_id", userID)
		}
		*c = conversation{stage: stageName, chatID: m.Chat.ID}
		b.send(c.chatID, textGreeting, nil)
		return
	}

	switch c.stage {
	case stageName:
		name, err := proctor.NormalizeName(m.Text)
		if err != nil {
			b.send(c.chatID, textNameRequired, nil)
			return
		}
		roles := b.svc.Roles()
		if len(roles) == 0 {
			b.send(c.chatID, textNoRoles, nil)
			return
		}
		c.fullName = name
		c.stage = stageRole
		kb := roleKeyboard(roles)
		b.send(c.chatID, roleListText(roles), kb)
	case stageRole:
		b.send(c.chatID, textChooseRole, nil)
	case stageAnswering:
		b.send(c.chatID, textUseButtons, nil)
	default:
		b.send(c.chatID, textSendStart, nil)
	}
}

func (b *Bot) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) {
	if q.From == nil || q.Message == nil || q.Message.Chat == nil {
		b.answer(q.ID, "", false)
		return
	}
	userID := q.From.ID
	c := b.conv(userID, q.Message.Chat.ID)

	cb, err := ParseCallback(q.Data)
	if err != nil {
		b.logger.Debug("unknown callback", "user_id", userID, "data", q.Data)
		b.answer(q.ID, textUnknownAction, false)
		return
	}
	if cb.IsRole() {
		b.chooseRole(ctx, q, c, cb.Role)
		return
	}
	b.applyAction(ctx, q, c, cb.Action)
}

func (b *Bot) chooseRole(ctx context.Context, q *tgbotapi.CallbackQuery, c *conversation, slug string) {
	if c.stage != stageRole || c.fullName == "" {
		b.answer(q.ID, textSendStart, false)
		return
	}
	reply, err := b.svc.Start(ctx, q.From.ID, session.Profile{FullName: c.fullName}, slug)
	if err != nil {
		b.logger.Warn("start session failed", "user_id", q.From.ID, "role", slug, "error", err)
		b.answer(q.ID, proctor.Hint(err), false)
		return
	}

	c.stage = stageAnswering
	c.messageID = 0
	b.send(c.chatID, fmt.Sprintf(textStarting, c.fullName), nil)
	if reply.Done() {
		b.finish(c, reply)
	} else {
		b.showQuestion(c, reply.View)
	}
	b.answer(q.ID, textRoleChosen, false)
}

func (b *Bot) applyAction(ctx context.Context, q *tgbotapi.CallbackQuery, c *conversation, a session.Action) {
	reply, err := b.svc.Apply(ctx, q.From.ID, a)
	if err != nil {
		if errors.Is(err, proctor.ErrNoSession) {
			c.stage = stageIdle
		}
		b.answer(q.ID, proctor.Hint(err), false)
		return
	}

	if reply.Outcome == nil {
		if reply.Review != session.ReviewNothing && reply.Review != session.ReviewAtLive {
			b.showQuestion(c, reply.View)
		}
		b.answer(q.ID, reply.Hint, false)
		return
	}

	b.answer(q.ID, reply.Feedback, true)
	switch reply.Outcome.Status {
	case session.StatusSwitch:
		b.closeQuestion(c, fmt.Sprintf(textBlockClosing, proctor.BlockOneTitle))
		b.send(c.chatID, fmt.Sprintf(textBlockSwitch, proctor.BlockOneTitle, reply.View.BlockTitle, reply.View.BlockSize), nil)
		b.showQuestion(c, reply.View)
	case session.StatusDone:
		b.finish(c, reply)
	default:
		b.showQuestion(c, reply.View)
	}
}

// finish replaces the question message and delivers the report.
func (b *Bot) finish(c *conversation, reply proctor.Reply) {
	b.closeQuestion(c, textFinished)
	if reply.Summary != nil {
		for _, chunk := range report.Messages(reply.Summary.Text()) {
			b.send(c.chatID, chunk, nil)
		}
	}
	*c = conversation{chatID: c.chatID}
}

// showQuestion edits the question message in place, or sends a new one.
func (b *Bot) showQuestion(c *conversation, v session.View) {
	text := v.Text()
	kb := questionKeyboard(v)
	if c.messageID != 0 {
		edit := tgbotapi.NewEditMessageText(c.chatID, c.messageID, text)
		edit.ReplyMarkup = kb
		_, err := b.client.Request(edit)
		if err == nil || isNotModified(err) {
			return
		}
		b.logger.Warn("edit question failed, sending a new one", "chat_id", c.chatID, "error", err)
	}
	var markup any
	if kb != nil {
		markup = *kb
	}
	if id := b.send(c.chatID, text, markup); id != 0 {
		c.messageID = id
	}
}

// closeQuestion replaces the question message with text and drops its
// keyboard.
func (b *Bot) closeQuestion(c *conversation, text string) {
	if c.messageID == 0 {
		return
	}
	if _, err := b.client.Request(tgbotapi.NewEditMessageText(c.chatID, c.messageID, text)); err != nil {
		b.logger.Warn("close question failed", "chat_id", c.chatID, "error", err)
	}
	c.messageID = 0
}

// send delivers a message and returns its id, or 0 on failure.
func (b *Bot) send(chatID int64, text string, markup any) int {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	sent, err := b.client.Send(msg)
	if err != nil {
		b.logger.Warn("send message failed", "chat_id", chatID, "error", err)
		return 0
	}
	return sent.MessageID
}

func (b *Bot) answer(callbackID, text string, alert bool) {
	cfg := tgbotapi.NewCallback(callbackID, text)
	cfg.ShowAlert = alert && text != ""
	if _, err := b.client.Request(cfg); err != nil {
		b.logger.Warn("answer callback failed", "error", err)
	}
}

func isNotModified(err error) bool {
	return strings.Contains(err.Error(), "message is not modified")
}
