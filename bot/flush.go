package bot

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"daylog-bot/domain"
	"daylog-bot/report"
)

// Flusher pushes the current day's log to the archive destination and clears
// it from the store. The read, render, deliver, and remove all happen inside
// the store's lock, so an append racing the flush either lands before the
// snapshot or starts a fresh day after removal, never in between.
type Flusher struct {
	store       Store
	clock       Clock
	deliver     Deliverer
	archiveDest string
	logger      *log.Logger
}

// NewFlusher creates a Flusher targeting the archive destination.
func NewFlusher(store Store, clock Clock, deliver Deliverer, archiveDest string, logger *log.Logger) *Flusher {
	if store == nil {
		panic("bot.NewFlusher: store is nil")
	}
	if clock == nil {
		panic("bot.NewFlusher: clock is nil")
	}
	if deliver == nil {
		panic("bot.NewFlusher: deliverer is nil")
	}
	if archiveDest == "" {
		panic("bot.NewFlusher: archive destination is empty")
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Flusher{
		store:       store,
		clock:       clock,
		deliver:     deliver,
		archiveDest: archiveDest,
		logger:      logger,
	}
}

// Run performs one flush pass for the current day. A delivery failure leaves
// the day's log intact so the next firing, or a manual trigger, retries the
// same data set.
func (f *Flusher) Run(ctx context.Context) error {
	_, day := f.clock.Now()
	logger := f.logger.WithFields(log.Fields{
		"flush_id": uuid.NewString(),
		"day":      day,
	})

	var deliverErr error
	present := f.store.WithDay(day, func(entries []domain.TaskEntry) bool {
		rendered := report.Render(day, entries)
		if deliverErr = f.deliver.SendMessage(ctx, f.archiveDest, rendered); deliverErr != nil {
			return false
		}
		logger.WithField("entries", len(entries)).Info("daily summary archived")
		return true
	})
	if !present {
		logger.Info("no tasks to archive")
		return nil
	}
	if deliverErr != nil {
		logger.WithField("error", deliverErr.Error()).Error("archive delivery failed; keeping day for retry")
		return fmt.Errorf("archive %s: %w", day, deliverErr)
	}
	return nil
}
