package dialog

import (
	"context"
	"testing"
	"time"

	"voicedesk/models"
	"voicedesk/services/extract"
	"voicedesk/services/hours"
	"voicedesk/services/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Fixed clock: Tuesday morning, so "Thursday at 9:30am" lands two days out.
var scenarioNow = time.Date(2026, time.August, 25, 8, 0, 0, 0, engineZone)

// newScenarioEngine wires the real extraction pipelines, with no LLM
// configured, against an in-process store and a recording finalizer.
func newScenarioEngine(fin *stubFinalizer) (*Engine, session.Store) {
	logger := zap.NewNop()
	store := session.NewMemoryStore(15*time.Minute, 30)
	tp := extract.NewTimeParser(engineZone, func() time.Time { return scenarioNow })
	return &Engine{
		Store:       store,
		NameExt:     extract.NewNamePipeline(nil, time.Second, logger),
		PhoneExt:    extract.NewPhonePipeline(nil, "US", time.Second, logger),
		TimeExt:     extract.NewTimePipeline(tp, nil, time.Second, logger),
		Hours:       hours.New(engineZone, 9, 17, []int{1, 2, 3, 4, 5}),
		Finalizer:   fin,
		Logger:      logger,
		OpeningStep: 30 * time.Minute,
		Lookahead:   14 * 24 * time.Hour,
	}, store
}

func TestScenarioCleanBooking(t *testing.T) {
	fin := &stubFinalizer{}
	e, store := newScenarioEngine(fin)

	turns := []struct {
		speech     string
		wantInNext string
	}{
		{"My name is Johnny Walker", "Johnny"},
		{"8153288957", "day and time"},
		{"Thursday at 9:30am", "Shall I book"},
		{"yes", "all set"},
	}

	var last models.TurnResponse
	for _, tt := range turns {
		last = turn(t, e, "call-clean", tt.speech)
		assert.Contains(t, last.NextPrompt, tt.wantInNext, "speech %q", tt.speech)
	}
	assert.True(t, last.Terminal)
	require.Equal(t, 1, fin.calls)

	// The finalizer saw validated, normalized fields.
	require.NotNil(t, fin.lastSess)
	assert.Equal(t, "Johnny Walker", fin.lastSess.Fields.FullName)
	assert.Equal(t, "+18153288957", fin.lastSess.Fields.Phone)
	require.NotNil(t, fin.lastSess.Fields.StartTimeUTC)
	wantStart := time.Date(2026, time.August, 27, 9, 30, 0, 0, engineZone)
	assert.True(t, fin.lastSess.Fields.StartTimeUTC.Equal(wantStart))

	// Completed sessions do not linger.
	assert.Equal(t, models.StepAskName, storedSession(t, store, "call-clean").CurrentStep)
}

func TestScenarioTrailingPunctuationStillAdvances(t *testing.T) {
	fin := &stubFinalizer{}
	e, store := newScenarioEngine(fin)

	turn(t, e, "call-punct", "my name is Sarah Connor.")
	resp := turn(t, e, "call-punct", "8536945968.")
	assert.Equal(t, promptAskTime, resp.NextPrompt)

	sess := storedSession(t, store, "call-punct")
	assert.Equal(t, models.StepAskTime, sess.CurrentStep)
	assert.Equal(t, "+18536945968", sess.Fields.Phone)
}

func TestScenarioGarbledTurnThenRecovery(t *testing.T) {
	fin := &stubFinalizer{}
	e, store := newScenarioEngine(fin)

	turn(t, e, "call-retry", "My name is Johnny Walker")

	// No number anywhere in the utterance; the call must not advance.
	resp := turn(t, e, "call-retry", "uh, hold on, where did I put it")
	assert.Equal(t, promptRetryMobile, resp.NextPrompt)
	sess := storedSession(t, store, "call-retry")
	assert.Equal(t, models.StepAskMobile, sess.CurrentStep)
	assert.Equal(t, 1, sess.RetryCounts[models.StepAskMobile])

	resp = turn(t, e, "call-retry", "okay, eight one five three two eight eight nine five seven")
	assert.Equal(t, promptAskTime, resp.NextPrompt)
	assert.Equal(t, "+18153288957", storedSession(t, store, "call-retry").Fields.Phone)
}

func TestScenarioDoubleConfirmBooksOnce(t *testing.T) {
	fin := &stubFinalizer{}
	e, _ := newScenarioEngine(fin)

	turn(t, e, "call-double", "My name is Johnny Walker")
	turn(t, e, "call-double", "8153288957")
	turn(t, e, "call-double", "Thursday at 9:30am")

	first := turn(t, e, "call-double", "yes")
	assert.True(t, first.Terminal)

	// The webhook retries the confirm turn. The session is gone, so the
	// engine restarts the dialogue instead of booking again; idempotency at
	// the store level is the finalizer's job, exercised in its own tests.
	second := turn(t, e, "call-double", "yes")
	assert.False(t, second.Terminal)
	assert.Equal(t, 1, fin.calls)
}

func TestScenarioOutsideHoursRenegotiation(t *testing.T) {
	fin := &stubFinalizer{}
	e, store := newScenarioEngine(fin)

	turn(t, e, "call-late", "My name is Johnny Walker")
	turn(t, e, "call-late", "8153288957")

	// Saturday is closed; the caller is steered to the next opening.
	resp := turn(t, e, "call-late", "Saturday at 10am")
	assert.Contains(t, resp.NextPrompt, "not open")
	assert.Contains(t, resp.NextPrompt, "Monday, August 31")
	assert.Equal(t, models.StepAskTime, storedSession(t, store, "call-late").CurrentStep)

	resp = turn(t, e, "call-late", "fine, Monday at 10am then")
	assert.Contains(t, resp.NextPrompt, "Shall I book")

	resp = turn(t, e, "call-late", "yes please")
	assert.True(t, resp.Terminal)
	require.NotNil(t, fin.lastSess.Fields.StartTimeUTC)
	wantStart := time.Date(2026, time.August, 31, 10, 0, 0, 0, engineZone)
	assert.True(t, fin.lastSess.Fields.StartTimeUTC.Equal(wantStart))
}

func TestScenarioConfirmNoKeepsIdentity(t *testing.T) {
	fin := &stubFinalizer{}
	e, _ := newScenarioEngine(fin)

	turn(t, e, "call-change", "My name is Johnny Walker")
	turn(t, e, "call-change", "8153288957")
	turn(t, e, "call-change", "Thursday at 9:30am")

	resp := turn(t, e, "call-change", "no, actually")
	assert.Equal(t, promptRebook, resp.NextPrompt)

	// Only the time is re-collected; name and phone carry over.
	resp = turn(t, e, "call-change", "Friday at 2pm")
	assert.Contains(t, resp.NextPrompt, "Johnny Walker")
	assert.Contains(t, resp.NextPrompt, "Friday, August 28 at 2:00 PM")

	resp = turn(t, e, "call-change", "yes")
	assert.True(t, resp.Terminal)
	assert.Equal(t, 1, fin.calls)
}

func TestScenarioSessionExpiryStartsOver(t *testing.T) {
	fin := &stubFinalizer{}
	logger := zap.NewNop()
	store := session.NewMemoryStore(time.Millisecond, 30)
	tp := extract.NewTimeParser(engineZone, func() time.Time { return scenarioNow })
	e := &Engine{
		Store:       store,
		NameExt:     extract.NewNamePipeline(nil, time.Second, logger),
		PhoneExt:    extract.NewPhonePipeline(nil, "US", time.Second, logger),
		TimeExt:     extract.NewTimePipeline(tp, nil, time.Second, logger),
		Hours:       hours.New(engineZone, 9, 17, []int{1, 2, 3, 4, 5}),
		Finalizer:   fin,
		Logger:      logger,
		OpeningStep: 30 * time.Minute,
		Lookahead:   14 * 24 * time.Hour,
	}

	turn(t, e, "call-idle", "My name is Johnny Walker")
	time.Sleep(5 * time.Millisecond)

	// The abandoned call's state is gone; the next turn greets afresh.
	resp, err := e.HandleTurn(context.Background(), models.TurnRequest{CallID: "call-idle"})
	require.NoError(t, err)
	assert.Equal(t, promptGreeting, resp.NextPrompt)
}
