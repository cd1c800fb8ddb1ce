package bot

import (
	"context"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"daylog-bot/telegram"
)

// HandleUpdate processes one inbound update end to end: dedup, state
// machine, reply back to the reporter. It is shared by the webhook handler
// and the long-poll loop.
func (b *Bot) HandleUpdate(ctx context.Context, upd telegram.Update) {
	m := upd.Message
	if m == nil || m.Chat.ID == 0 {
		return
	}

	metrics, spanCtx := newUpdateMetrics(ctx, b.logger)
	ctx = spanCtx
	var handleErr error
	defer func() {
		metrics.Log(upd.UpdateID, handleErr)
	}()

	if b.deduper != nil {
		dedupStart := time.Now()
		fresh, err := b.deduper.Add(ctx, upd.UpdateID)
		metrics.ObserveDedup(time.Since(dedupStart))
		if err != nil {
			// Dedup is best effort: losing dedup beats dropping a task.
			metrics.SetErrorStage("dedup")
			b.logger.WithFields(log.Fields{
				"update_id": upd.UpdateID,
				"error":     err.Error(),
			}).Warn("deduper unavailable; handling update anyway")
		} else if !fresh {
			metrics.SetDuplicate(true)
			return
		}
	}

	handleStart := time.Now()
	reply := b.HandleMessage(ctx, m.Chat.ID, m.Text)
	metrics.ObserveHandle(time.Since(handleStart))
	if reply == "" {
		return
	}

	replyStart := time.Now()
	handleErr = b.deliver.SendMessage(ctx, strconv.FormatInt(m.Chat.ID, 10), reply)
	metrics.ObserveReply(time.Since(replyStart))
	if handleErr != nil {
		metrics.SetErrorStage("reply")
		b.logger.WithFields(log.Fields{
			"chat_id": m.Chat.ID,
			"error":   handleErr.Error(),
		}).Warn("reply delivery failed")
		return
	}
	metrics.SetReplied(true)
}
