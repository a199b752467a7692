package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"voicedesk/models"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore is an in-process Store. It backs tests and serves as the
// transparent fallback when Redis is unreachable.
type MemoryStore struct {
	mu         sync.Mutex
	entries    map[string]memoryEntry
	ttl        time.Duration
	defaultDur int
}

// NewMemoryStore returns an in-process store with the given session TTL
// and default appointment duration in minutes.
func NewMemoryStore(ttl time.Duration, defaultDurationMin int) *MemoryStore {
	return &MemoryStore{
		entries:    make(map[string]memoryEntry),
		ttl:        ttl,
		defaultDur: defaultDurationMin,
	}
}

// Get returns the stored session, or a fresh one when absent or expired.
func (s *MemoryStore) Get(ctx context.Context, callID string) (*models.ConversationSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[callID]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(s.entries, callID)
		return models.NewConversationSession(callID, int(s.ttl.Seconds()), s.defaultDur), nil
	}

	var sess models.ConversationSession
	if err := json.Unmarshal(entry.data, &sess); err != nil {
		// A corrupt entry is unrecoverable; start the call over.
		delete(s.entries, callID)
		return models.NewConversationSession(callID, int(s.ttl.Seconds()), s.defaultDur), nil
	}
	return &sess, nil
}

// Save stores the session and refreshes its TTL. The single map write
// under the mutex keeps the per-key update atomic.
func (s *MemoryStore) Save(ctx context.Context, sess *models.ConversationSession) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[sess.CallID] = memoryEntry{data: data, expiresAt: time.Now().Add(s.ttl)}
	return nil
}

// Reset clears the session for callID.
func (s *MemoryStore) Reset(ctx context.Context, callID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, callID)
	return nil
}

// Sweep drops expired entries. Called periodically by the background
// worker so a long-running degraded process does not accumulate garbage.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	removed := 0
	for id, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}
