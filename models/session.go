package models

import "time"

// Step identifies the information-gathering stage a call is in.
type Step string

const (
	StepAskName   Step = "ask_name"
	StepAskMobile Step = "ask_mobile"
	StepAskTime   Step = "ask_time"
	StepConfirm   Step = "confirm"
	StepComplete  Step = "complete"
)

// stepOrder is the fixed forward sequence of the dialogue.
var stepOrder = []Step{StepAskName, StepAskMobile, StepAskTime, StepConfirm, StepComplete}

// Next returns the step that follows s in the fixed sequence.
// StepComplete is terminal and returns itself.
func (s Step) Next() Step {
	for i, st := range stepOrder {
		if st == s && i < len(stepOrder)-1 {
			return stepOrder[i+1]
		}
	}
	return StepComplete
}

// Valid reports whether s is one of the known dialogue steps.
func (s Step) Valid() bool {
	for _, st := range stepOrder {
		if st == s {
			return true
		}
	}
	return false
}

// SessionFields holds the values collected so far during a call.
type SessionFields struct {
	FullName        string     `json:"fullName,omitempty"`
	Phone           string     `json:"phone,omitempty"`
	StartTimeUTC    *time.Time `json:"startTimeUtc,omitempty"`
	DurationMinutes int        `json:"durationMinutes"`
}

// ConversationSession holds per-call dialogue progress between turns.
type ConversationSession struct {
	CallID      string         `json:"callId"`
	CurrentStep Step           `json:"currentStep"`
	Fields      SessionFields  `json:"fields"`
	RetryCounts map[Step]int   `json:"retryCounts,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	TTLSeconds  int            `json:"ttlSeconds"`
}

// NewConversationSession returns a fresh session at the first dialogue step.
func NewConversationSession(callID string, ttlSeconds, defaultDurationMin int) *ConversationSession {
	return &ConversationSession{
		CallID:      callID,
		CurrentStep: StepAskName,
		Fields:      SessionFields{DurationMinutes: defaultDurationMin},
		RetryCounts: make(map[Step]int),
		CreatedAt:   time.Now().UTC(),
		TTLSeconds:  ttlSeconds,
	}
}

// Advance moves the session to the next step in the fixed sequence.
func (s *ConversationSession) Advance() {
	s.CurrentStep = s.CurrentStep.Next()
}

// RecordRetry increments the retry counter for the current step and
// returns the new count.
func (s *ConversationSession) RecordRetry() int {
	if s.RetryCounts == nil {
		s.RetryCounts = make(map[Step]int)
	}
	s.RetryCounts[s.CurrentStep]++
	return s.RetryCounts[s.CurrentStep]
}

// ReadyToFinalize reports whether every field needed for booking is present.
func (s *ConversationSession) ReadyToFinalize() bool {
	return s.Fields.FullName != "" && s.Fields.Phone != "" && s.Fields.StartTimeUTC != nil
}
