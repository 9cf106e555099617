package chat

import (
	"sync"
	"time"

	"github.com/taskflowhq/taskflow/internal/oracle"
)

const (
	defaultSessionTTL = 5 * time.Minute
	defaultMaxHistory = 20
)

// Sessions holds per-user dialogue state and conversation history in memory.
// Entries expire after a TTL of inactivity so an abandoned add-task sequence
// does not trap the user forever. Safe for concurrent use.
type Sessions struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxHistory int
	entries    map[string]*sessionEntry
}

type sessionEntry struct {
	state     State
	history   []oracle.Message
	expiresAt time.Time
}

// NewSessions creates a session store. Non-positive ttl or maxHistory fall
// back to the defaults.
func NewSessions(ttl time.Duration, maxHistory int) *Sessions {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	if maxHistory <= 0 {
		maxHistory = defaultMaxHistory
	}
	return &Sessions{
		ttl:        ttl,
		maxHistory: maxHistory,
		entries:    make(map[string]*sessionEntry),
	}
}

// Get returns the dialogue state and history for key. An unknown or expired
// session yields an idle state and no history.
func (s *Sessions) Get(key string) (State, []oracle.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked()
	entry, ok := s.entries[key]
	if !ok {
		return NewState(), nil
	}
	history := make([]oracle.Message, len(entry.history))
	copy(history, entry.history)
	return entry.state, history
}

// Update stores the new dialogue state for key, appends the latest exchange
// to its history, and refreshes the TTL.
func (s *Sessions) Update(key string, state State, utterance, reply string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		entry = &sessionEntry{}
		s.entries[key] = entry
	}
	entry.state = state
	entry.history = append(entry.history,
		oracle.Message{Role: "user", Content: utterance},
		oracle.Message{Role: "assistant", Content: reply},
	)
	if over := len(entry.history) - s.maxHistory; over > 0 {
		entry.history = entry.history[over:]
	}
	entry.expiresAt = time.Now().Add(s.ttl)
}

// Len reports the number of live sessions, pruning expired ones first.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked()
	return len(s.entries)
}

func (s *Sessions) pruneLocked() {
	now := time.Now()
	for key, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, key)
		}
	}
}
