// internal/telegram/adapter.go

// Package telegram bridges Telegram chats onto chat sessions: each
// Telegram chat maps to one session, and each inbound message becomes one
// user turn against the backend.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/user/chatstream/internal/render"
	"github.com/user/chatstream/internal/session"
)

const maxTelegramMessage = 4096

// SessionFactory creates a fresh session bound to the configured backend.
type SessionFactory func() *session.Session

// Adapter long-polls Telegram updates and relays them through sessions.
type Adapter struct {
	bot        *tgbotapi.BotAPI
	newSession SessionFactory

	mu       sync.Mutex
	sessions map[int64]*session.Session
}

// New creates a Telegram adapter.
func New(token string, factory SessionFactory) (*Adapter, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}
	return &Adapter{
		bot:        bot,
		newSession: factory,
		sessions:   make(map[int64]*session.Session),
	}, nil
}

// Start begins long-polling for Telegram updates.
func (a *Adapter) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := a.bot.GetUpdatesChan(u)

	for {
		select {
		case update := <-updates:
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			a.handleMessage(ctx, update.Message)
		case <-ctx.Done():
			a.bot.StopReceivingUpdates()
			return
		}
	}
}

// session returns the chat's session, creating it on first contact.
func (a *Adapter) session(chatID int64) *session.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	sess, ok := a.sessions[chatID]
	if !ok {
		sess = a.newSession()
		a.sessions[chatID] = sess
	}
	return sess
}

func (a *Adapter) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.IsCommand() {
		a.handleCommand(ctx, msg)
		return
	}

	chatID := msg.Chat.ID
	sess := a.session(chatID)

	if sess.Active() == "" {
		if _, err := sess.NewConversation(ctx, fmt.Sprintf("Telegram %d", chatID)); err != nil {
			slog.Error("create conversation failed", "chat_id", chatID, "error", err)
			a.sendResponse(chatID, "Sorry, I could not reach the chat backend.")
			return
		}
	}

	result, err := sess.Send(ctx, msg.Text, nil)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrBusy):
			a.sendResponse(chatID, "Still answering the previous message, one moment.")
		case errors.Is(err, session.ErrMissingInput):
			a.sendResponse(chatID, "This app needs setup values first: "+err.Error())
		default:
			slog.Error("send failed", "chat_id", chatID, "error", err)
			a.sendResponse(chatID, "Sorry, something went wrong processing your message.")
		}
		return
	}

	a.sendResponse(chatID, render.NormalizeAnswer(result.Text))
}

func (a *Adapter) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start":
		a.sendResponse(chatID, "Hello! Send me a message to start a conversation.")

	case "new":
		sess := a.session(chatID)
		if _, err := sess.NewConversation(ctx, fmt.Sprintf("Telegram %d", chatID)); err != nil {
			a.sendResponse(chatID, "Could not start a new conversation.")
			return
		}
		a.sendResponse(chatID, "Started a new conversation.")

	case "status":
		sess := a.session(chatID)
		active := sess.Active()
		if active == "" {
			a.sendResponse(chatID, "No active conversation.")
			return
		}
		a.sendResponse(chatID, fmt.Sprintf("Conversation: %s\nMessages: %d", active, len(sess.Messages())))

	default:
		a.sendResponse(chatID, "Unknown command. Available: /start, /new, /status")
	}
}

func (a *Adapter) sendResponse(chatID int64, text string) {
	for _, part := range splitMessage(text) {
		msg := tgbotapi.NewMessage(chatID, part)
		msg.ParseMode = "Markdown"
		if _, err := a.bot.Send(msg); err != nil {
			// Retry without markdown if it fails
			msg.ParseMode = ""
			if _, err := a.bot.Send(msg); err != nil {
				slog.Error("send message failed", "chat_id", chatID, "error", err)
			}
		}
	}
}

func splitMessage(text string) []string {
	if len(text) <= maxTelegramMessage {
		return []string{text}
	}
	var parts []string
	for len(text) > 0 {
		end := maxTelegramMessage
		if end > len(text) {
			end = len(text)
		}
		parts = append(parts, text[:end])
		text = text[end:]
	}
	return parts
}
