package models

// TurnRequest is the per-turn webhook payload from the telephony channel.
// SpeechText may be empty when the caller said nothing recognizable.
type TurnRequest struct {
	CallID       string `json:"call_id" binding:"required"`
	CallerNumber string `json:"caller_number"`
	SpeechText   string `json:"speech_text"`
}

// TurnResponse is returned to the telephony channel after each turn.
type TurnResponse struct {
	NextPrompt string `json:"next_prompt"`
	Terminal   bool   `json:"terminal"`
}
