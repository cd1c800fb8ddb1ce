package bot

import "sync"

type sessionState int

const (
	stateIdle sessionState = iota
	stateAwaitingDescription
)

// sessions tracks each chat's conversation state. An abandoned session stays
// in the awaiting state until the reporter sends text or /cancel; there is
// no automatic expiry. Idle chats carry no map entry.
type sessions struct {
	mu     sync.Mutex
	states map[int64]sessionState
}

func newSessions() *sessions {
	return &sessions{states: make(map[int64]sessionState)}
}

func (s *sessions) await(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[chatID] = stateAwaitingDescription
}

// takeAwaiting atomically moves the chat from awaiting back to idle and
// reports whether the chat was awaiting. At most one caller wins per prompt,
// so two racing messages cannot both consume the same /task.
func (s *sessions) takeAwaiting(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.states[chatID] != stateAwaitingDescription {
		return false
	}
	delete(s.states, chatID)
	return true
}
