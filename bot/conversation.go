package bot

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"daylog-bot/domain"
	"daylog-bot/report"
)

const (
	replyGreeting  = "Hi! I'm your daily task tracker. Use /task to add a new task."
	replyPrompt    = "What task are you starting now? Send me the description.\n\nSend /cancel to stop."
	replyCancelled = "Operation cancelled."
	replyNoCancel  = "Nothing to cancel."
	replyAdded     = "✅ Task added and log updated!"
	replyIdleHint  = "Use /task to start logging a task."
	replyUnknown   = "Unknown command. Use /task to add a task or /today to see today's log."
)

// Bot drives the per-chat conversation state machine and the live log
// delivery that follows every successful append.
type Bot struct {
	store    Store
	clock    Clock
	deliver  Deliverer
	deduper  Deduper
	liveDest string
	sessions *sessions
	logger   *log.Logger
}

// New creates a Bot. deduper may be nil, in which case duplicate updates are
// not filtered.
func New(store Store, clock Clock, deliver Deliverer, deduper Deduper, liveDest string, logger *log.Logger) *Bot {
	if store == nil {
		panic("bot.New: store is nil")
	}
	if clock == nil {
		panic("bot.New: clock is nil")
	}
	if deliver == nil {
		panic("bot.New: deliverer is nil")
	}
	if liveDest == "" {
		panic("bot.New: live destination is empty")
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Bot{
		store:    store,
		clock:    clock,
		deliver:  deliver,
		deduper:  deduper,
		liveDest: liveDest,
		sessions: newSessions(),
		logger:   logger,
	}
}

// HandleMessage advances the chat's state machine for one inbound message
// and returns the reply to send back to the reporter. An empty reply means
// no response is warranted.
func (b *Bot) HandleMessage(ctx context.Context, chatID int64, text string) string {
	if text == "" {
		return ""
	}
	if strings.HasPrefix(text, "/") {
		return b.handleCommand(chatID, commandName(text))
	}
	return b.handleDescription(ctx, chatID, text)
}

// commandName extracts the bare command: "/task@daylogbot now" -> "/task".
func commandName(text string) string {
	name := strings.Fields(text)[0]
	if i := strings.Index(name, "@"); i > 0 {
		name = name[:i]
	}
	return name
}

func (b *Bot) handleCommand(chatID int64, cmd string) string {
	switch cmd {
	case "/start":
		return replyGreeting
	case "/task", "/settask":
		b.sessions.await(chatID)
		return replyPrompt
	case "/cancel":
		if !b.sessions.takeAwaiting(chatID) {
			return replyNoCancel
		}
		return replyCancelled
	case "/today":
		_, day := b.clock.Now()
		entries, _ := b.store.Get(day)
		return report.Render(day, entries)
	default:
		return replyUnknown
	}
}

func (b *Bot) handleDescription(ctx context.Context, chatID int64, text string) string {
	if !b.sessions.takeAwaiting(chatID) {
		return replyIdleHint
	}

	displayTime, day := b.clock.Now()
	// The append happens before any delivery attempt: a failed push to the
	// live channel must never lose the entry.
	b.store.Append(day, domain.TaskEntry{DisplayTime: displayTime, Description: text})

	entries, _ := b.store.Get(day)
	rendered := report.Render(day, entries)
	if err := b.deliver.SendMessage(ctx, b.liveDest, rendered); err != nil {
		b.logger.WithFields(log.Fields{
			"chat_id": chatID,
			"day":     day,
			"error":   err.Error(),
		}).Warn("live delivery failed")
		return fmt.Sprintf("⚠️ Task saved, but updating the live log failed: %v", err)
	}
	return replyAdded
}
