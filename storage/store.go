package storage

import (
	"sync"

	"daylog-bot/domain"
)

// TaskStore holds each day's reported tasks in memory, keyed by day. One
// process-wide instance is shared by the conversation handlers and the flush
// job; all access goes through a single mutex so a reader never observes a
// partially appended day.
//
// A day key is present if and only if at least one entry has been appended
// for that day and the day has not been flushed. The map never holds an
// empty slice.
type TaskStore struct {
	mu   sync.Mutex
	days map[string][]domain.TaskEntry
}

// New creates an empty TaskStore.
func New() *TaskStore {
	return &TaskStore{days: make(map[string][]domain.TaskEntry)}
}

// Append adds entry at the end of the day's log, creating the day if absent.
func (s *TaskStore) Append(day string, entry domain.TaskEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.days[day] = append(s.days[day], entry)
}

// Get returns a snapshot copy of the day's entries in insertion order. ok is
// false when nothing has been recorded for the day.
func (s *TaskStore) Get(day string) (entries []domain.TaskEntry, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.days[day]
	if !ok {
		return nil, false
	}
	return append([]domain.TaskEntry(nil), stored...), true
}

// Remove deletes the day's log entirely. No-op when the day is absent.
func (s *TaskStore) Remove(day string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.days, day)
}

// WithDay runs fn with a snapshot of the day's entries while holding the
// store lock, so a flush can read, render, deliver, and remove as one atomic
// step with respect to concurrent appends for the same day. When fn returns
// true the day is removed before the lock is released. fn is not called for
// an absent day; the return value reports whether the day was present.
func (s *TaskStore) WithDay(day string, fn func(entries []domain.TaskEntry) (remove bool)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.days[day]
	if !ok {
		return false
	}
	if fn(append([]domain.TaskEntry(nil), stored...)) {
		delete(s.days, day)
	}
	return true
}
