package extract

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Tuesday morning, fixed offset so tests don't depend on zone databases.
var (
	testZone = time.FixedZone("CDT", -5*3600)
	testNow  = time.Date(2026, time.August, 25, 8, 0, 0, 0, testZone)
)

func newTestTimeParser() *TimeParser {
	return NewTimeParser(testZone, func() time.Time { return testNow })
}

func newTestTimePipeline(llm *stubLLM) *Pipeline {
	tp := newTestTimeParser()
	if llm == nil {
		return NewTimePipeline(tp, nil, time.Second, zap.NewNop())
	}
	return NewTimePipeline(tp, llm, time.Second, zap.NewNop())
}

func mustParseRFC3339(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return parsed
}

func TestTimeCalendarPhrases(t *testing.T) {
	tests := []struct {
		name       string
		transcript string
		wantLocal  time.Time
	}{
		{
			name:       "weekday with clock time",
			transcript: "Thursday at 9:30am",
			wantLocal:  time.Date(2026, time.August, 27, 9, 30, 0, 0, testZone),
		},
		{
			name:       "next week weekday",
			transcript: "Next week. Thursday at 9:30 a.m.",
			wantLocal:  time.Date(2026, time.September, 3, 9, 30, 0, 0, testZone),
		},
		{
			name:       "tomorrow with clock time",
			transcript: "tomorrow at 3pm",
			wantLocal:  time.Date(2026, time.August, 26, 15, 0, 0, 0, testZone),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestTimePipeline(nil)
			res := p.Run(context.Background(), tt.transcript)
			require.True(t, res.OK, "reason: %s", res.Reason)
			got := mustParseRFC3339(t, res.Value)
			assert.True(t, got.Equal(tt.wantLocal), "got %s, want %s", got, tt.wantLocal)
		})
	}
}

func TestTimeGeneralParserFallback(t *testing.T) {
	p := newTestTimePipeline(nil)
	res := p.Run(context.Background(), "2026-08-27 09:30")
	require.True(t, res.OK, "reason: %s", res.Reason)
	want := time.Date(2026, time.August, 27, 9, 30, 0, 0, testZone)
	assert.True(t, mustParseRFC3339(t, res.Value).Equal(want))
}

func TestTimeResultIsUTC(t *testing.T) {
	p := newTestTimePipeline(nil)
	res := p.Run(context.Background(), "Thursday at 9:30am")
	require.True(t, res.OK)
	// 9:30 local at -05:00 is 14:30 UTC; the value must carry the UTC form.
	assert.Equal(t, "2026-08-27T14:30:00Z", res.Value)
}

func TestTimeUnparseableFails(t *testing.T) {
	p := newTestTimePipeline(nil)
	res := p.Run(context.Background(), "I really don't know yet")
	require.False(t, res.OK)
	assert.Equal(t, "no_time_found", res.Reason)
}

func TestTimeAnchorOnlyPhraseFails(t *testing.T) {
	// "next week" with no day or clock time is not enough to book.
	p := newTestTimePipeline(nil)
	res := p.Run(context.Background(), "next week")
	assert.False(t, res.OK)
}

func TestTimeLLMGuessIsReparsed(t *testing.T) {
	llm := &stubLLM{reply: "2026-08-27 09:30"}
	p := newTestTimePipeline(llm)
	res := p.Run(context.Background(), "same as my last visit")
	require.True(t, res.OK)
	assert.Equal(t, "llm_guess", res.Layer)
	assert.Equal(t, "2026-08-27T14:30:00Z", res.Value)
}

func TestTimeLLMGarbageGuessRejected(t *testing.T) {
	llm := &stubLLM{reply: "whenever works"}
	p := newTestTimePipeline(llm)
	res := p.Run(context.Background(), "same as my last visit")
	assert.False(t, res.OK)
}

func TestStartOfNextWeek(t *testing.T) {
	tests := []struct {
		now  time.Time
		want time.Time
	}{
		{
			now:  time.Date(2026, time.August, 25, 8, 0, 0, 0, testZone), // Tuesday
			want: time.Date(2026, time.August, 31, 0, 0, 0, 0, testZone),
		},
		{
			now:  time.Date(2026, time.August, 31, 12, 0, 0, 0, testZone), // Monday
			want: time.Date(2026, time.September, 7, 0, 0, 0, 0, testZone),
		},
		{
			now:  time.Date(2026, time.August, 30, 23, 0, 0, 0, testZone), // Sunday
			want: time.Date(2026, time.August, 31, 0, 0, 0, 0, testZone),
		},
	}
	for _, tt := range tests {
		got := startOfNextWeek(tt.now)
		assert.True(t, got.Equal(tt.want), "now %s: got %s, want %s", tt.now, got, tt.want)
	}
}
