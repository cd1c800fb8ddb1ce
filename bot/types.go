package bot

import (
	"context"
	"time"

	"daylog-bot/domain"
	"daylog-bot/telegram"
)

// Deliverer pushes text to a named destination. The live and archive paths
// use the same port with different destinations. Attempts are single-shot;
// callers never retry within one interaction.
type Deliverer interface {
	SendMessage(ctx context.Context, chatID, text string) error
}

// Deduper filters updates that were already handled, so webhook retries and
// poller restarts do not replay them.
type Deduper interface {
	// Add records the update ID and returns true if it was newly recorded.
	Add(ctx context.Context, updateID int64) (bool, error)
}

// Clock resolves "now" to a display time and a calendar day key in the
// configured timezone.
type Clock interface {
	Now() (displayTime, dayKey string)
}

// Store is the slice of the task store the bot mutates and reads.
type Store interface {
	Append(day string, entry domain.TaskEntry)
	Get(day string) ([]domain.TaskEntry, bool)
	WithDay(day string, fn func(entries []domain.TaskEntry) (remove bool)) bool
}

// UpdateSource is implemented by the Bot API client's long poll.
type UpdateSource interface {
	GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]telegram.Update, error)
}
