// Package dialog drives the per-call conversation: which extractor runs
// for a turn, how its result moves the session through the fixed step
// sequence, and what the caller hears next.
package dialog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"voicedesk/models"
	"voicedesk/services/booking"
	"voicedesk/services/extract"
	"voicedesk/services/hours"
	"voicedesk/services/session"

	"go.uber.org/zap"
)

// Extractor is the slice of an extraction pipeline the engine needs.
type Extractor interface {
	Run(ctx context.Context, transcript string) extract.Result
}

// Engine is the conversation state machine. One Engine serves all calls;
// per-call state lives exclusively in the session store.
type Engine struct {
	Store     session.Store
	NameExt   Extractor
	PhoneExt  Extractor
	TimeExt   Extractor
	Hours     hours.BusinessHours
	Finalizer booking.Finalizer
	Logger    *zap.Logger

	// OpeningStep and Lookahead bound the next-opening suggestion walk.
	OpeningStep time.Duration
	Lookahead   time.Duration
}

// HandleTurn processes one utterance for a call and returns the next
// prompt. Sessions only move forward through the step sequence here; the
// sole path back to ask_name is an explicit Reset.
func (e *Engine) HandleTurn(ctx context.Context, req models.TurnRequest) (models.TurnResponse, error) {
	sess, err := e.Store.Get(ctx, req.CallID)
	if err != nil {
		return models.TurnResponse{}, fmt.Errorf("load session for call %s: %w", req.CallID, err)
	}
	if !sess.CurrentStep.Valid() {
		return models.TurnResponse{}, fmt.Errorf("session for call %s has invalid step %q", req.CallID, sess.CurrentStep)
	}

	resp := e.step(ctx, sess, req.SpeechText)

	if sess.CurrentStep != models.StepComplete {
		if err := e.Store.Save(ctx, sess); err != nil {
			return models.TurnResponse{}, fmt.Errorf("save session for call %s: %w", req.CallID, err)
		}
	} else {
		// Completed sessions are dead weight; drop them rather than wait
		// for the TTL.
		_ = e.Store.Reset(ctx, req.CallID)
	}
	return resp, nil
}

// Reset explicitly clears a call's session back to the initial state.
// This is the only operation allowed to do so, and it is audited.
func (e *Engine) Reset(ctx context.Context, callID, operator string) error {
	e.Logger.Warn("session explicitly reset",
		zap.String("callId", callID),
		zap.String("operator", operator))
	return e.Store.Reset(ctx, callID)
}

func (e *Engine) step(ctx context.Context, sess *models.ConversationSession, speech string) models.TurnResponse {
	switch sess.CurrentStep {
	case models.StepAskName:
		return e.handleName(ctx, sess, speech)
	case models.StepAskMobile:
		return e.handleMobile(ctx, sess, speech)
	case models.StepAskTime:
		return e.handleTime(ctx, sess, speech)
	case models.StepConfirm:
		return e.handleConfirm(ctx, sess, speech)
	case models.StepComplete:
		return models.TurnResponse{NextPrompt: promptAlreadyDone, Terminal: true}
	}
	// Unreachable: HandleTurn validates the step first.
	return models.TurnResponse{NextPrompt: promptGreeting}
}

func (e *Engine) handleName(ctx context.Context, sess *models.ConversationSession, speech string) models.TurnResponse {
	// The opening turn of a call usually carries no speech; greet instead
	// of burning a retry.
	if strings.TrimSpace(speech) == "" && sess.RetryCounts[models.StepAskName] == 0 {
		return models.TurnResponse{NextPrompt: promptGreeting}
	}

	res := e.NameExt.Run(ctx, speech)
	if !res.OK {
		sess.RecordRetry()
		return models.TurnResponse{NextPrompt: promptRetryName}
	}
	sess.Fields.FullName = res.Value
	sess.Advance()
	return models.TurnResponse{NextPrompt: fmt.Sprintf(promptAskMobile, firstName(res.Value))}
}

func (e *Engine) handleMobile(ctx context.Context, sess *models.ConversationSession, speech string) models.TurnResponse {
	res := e.PhoneExt.Run(ctx, speech)
	if !res.OK {
		sess.RecordRetry()
		return models.TurnResponse{NextPrompt: promptRetryMobile}
	}
	sess.Fields.Phone = res.Value
	sess.Advance()
	return models.TurnResponse{NextPrompt: promptAskTime}
}

func (e *Engine) handleTime(ctx context.Context, sess *models.ConversationSession, speech string) models.TurnResponse {
	res := e.TimeExt.Run(ctx, speech)
	if !res.OK {
		sess.RecordRetry()
		return models.TurnResponse{NextPrompt: promptRetryTime}
	}

	start, err := time.Parse(time.RFC3339, res.Value)
	if err != nil {
		// The pipeline only emits RFC3339; reaching here is a bug, but it
		// must still read as a retry to the caller.
		e.Logger.Error("time pipeline emitted unparseable value",
			zap.String("callId", sess.CallID), zap.String("value", res.Value))
		sess.RecordRetry()
		return models.TurnResponse{NextPrompt: promptRetryTime}
	}

	if !e.Hours.Contains(start) {
		// Parsed fine but outside the window: do not advance; steer the
		// caller toward the next opening when one exists.
		sess.RecordRetry()
		prompt := promptOutsideHours
		if next, ok := e.Hours.NextOpening(start, e.OpeningStep, e.Lookahead); ok {
			prompt += fmt.Sprintf(promptNextOpening, spokenTime(next, e.Hours.Location))
		}
		return models.TurnResponse{NextPrompt: prompt}
	}

	utc := start.UTC()
	sess.Fields.StartTimeUTC = &utc
	sess.Advance()
	return models.TurnResponse{NextPrompt: confirmPrompt(sess, e.Hours.Location)}
}

func (e *Engine) handleConfirm(ctx context.Context, sess *models.ConversationSession, speech string) models.TurnResponse {
	switch classifyConfirmation(speech) {
	case confirmYes:
		appt, err := e.Finalizer.Finalize(ctx, sess)
		if err != nil {
			// Fields stay intact and the step stays at confirm so the
			// caller can retry without repeating anything.
			e.Logger.Error("finalize failed",
				zap.String("callId", sess.CallID), zap.Error(err))
			sess.RecordRetry()
			return models.TurnResponse{NextPrompt: promptBookingDown}
		}
		sess.CurrentStep = models.StepComplete
		return models.TurnResponse{
			NextPrompt: fmt.Sprintf(promptBooked,
				firstName(sess.Fields.FullName),
				spokenTime(appt.StartTimeUTC, e.Hours.Location)),
			Terminal: true,
		}
	case confirmNo:
		// Name and phone are retained; only the time is renegotiated.
		sess.Fields.StartTimeUTC = nil
		sess.CurrentStep = models.StepAskTime
		return models.TurnResponse{NextPrompt: promptRebook}
	default:
		sess.RecordRetry()
		return models.TurnResponse{NextPrompt: promptRetryConfirm}
	}
}

func firstName(full string) string {
	if i := strings.IndexByte(full, ' '); i > 0 {
		return full[:i]
	}
	return full
}
