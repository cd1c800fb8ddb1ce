package bot

import (
	"context"
	"errors"
	"sync"
)

type stubClock struct {
	displayTime string
	day         string
}

func (c *stubClock) Now() (string, string) { return c.displayTime, c.day }

type delivery struct {
	dest string
	text string
}

type stubDeliverer struct {
	mu    sync.Mutex
	calls []delivery
	err   error
}

func (d *stubDeliverer) SendMessage(_ context.Context, chatID, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, delivery{dest: chatID, text: text})
	return d.err
}

func (d *stubDeliverer) deliveries() []delivery {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]delivery(nil), d.calls...)
}

func (d *stubDeliverer) setErr(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.err = err
}

type stubDeduper struct {
	mu   sync.Mutex
	seen map[int64]bool
	err  error
}

func newStubDeduper() *stubDeduper {
	return &stubDeduper{seen: make(map[int64]bool)}
}

func (s *stubDeduper) Add(_ context.Context, updateID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	if s.seen[updateID] {
		return false, nil
	}
	s.seen[updateID] = true
	return true, nil
}

var errDeliveryDown = errors.New("telegram: sendMessage: Forbidden: bot is not a member of the channel chat (code 403)")
