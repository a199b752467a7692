package session

import (
	"context"

	"voicedesk/models"
)

// Store persists per-call conversation state between turns.
//
// Get never fails with "not found": an unseen call ID yields a fresh
// session at the first dialogue step. Reset is the only operation allowed
// to clear a session back to its initial state.
type Store interface {
	// Get returns the session for callID, creating a fresh default
	// session when none exists or the stored one has expired.
	Get(ctx context.Context, callID string) (*models.ConversationSession, error)
	// Save persists the session and refreshes its TTL.
	Save(ctx context.Context, sess *models.ConversationSession) error
	// Reset explicitly clears the session for callID to its initial state.
	Reset(ctx context.Context, callID string) error
}
