package bot

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// Poller drives the bot from the Bot API's getUpdates long poll. It is the
// transport used when no webhook is configured.
type Poller struct {
	source  UpdateSource
	bot     *Bot
	timeout time.Duration
	logger  *log.Logger

	offset int64
}

// NewPoller creates a Poller reading from source with the given long-poll
// timeout.
func NewPoller(source UpdateSource, b *Bot, timeout time.Duration, logger *log.Logger) *Poller {
	if source == nil {
		panic("bot.NewPoller: update source is nil")
	}
	if b == nil {
		panic("bot.NewPoller: bot is nil")
	}
	if timeout <= 0 {
		timeout = 50 * time.Second
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Poller{source: source, bot: b, timeout: timeout, logger: logger}
}

// Run polls until ctx is cancelled. Poll errors are logged and retried after
// a short pause.
func (p *Poller) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		updates, err := p.source.GetUpdates(ctx, p.offset, p.timeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.logger.Warnf("get updates: %v", err)
			time.Sleep(time.Second)
			continue
		}
		for _, upd := range updates {
			if upd.UpdateID >= p.offset {
				p.offset = upd.UpdateID + 1
			}
			p.bot.HandleUpdate(ctx, upd)
		}
	}
}
