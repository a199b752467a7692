package extract

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubLLM struct {
	reply string
	err   error
	calls int
}

func (s *stubLLM) GenerateContent(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.reply, s.err
}

func newTestPhonePipeline(llm *stubLLM) *Pipeline {
	if llm == nil {
		return NewPhonePipeline(nil, "US", time.Second, zap.NewNop())
	}
	return NewPhonePipeline(llm, "US", time.Second, zap.NewNop())
}

func TestPhoneExtraction(t *testing.T) {
	tests := []struct {
		name       string
		transcript string
		want       string
		wantLayer  string
	}{
		{
			name:       "bare digits",
			transcript: "8153288957",
			want:       "+18153288957",
			wantLayer:  "digit_pattern",
		},
		{
			name:       "trailing punctuation",
			transcript: "8536945968.",
			want:       "+18536945968",
			wantLayer:  "digit_pattern",
		},
		{
			name:       "spaced groupings",
			transcript: "it's 815 328 8957, thanks",
			want:       "+18153288957",
			wantLayer:  "digit_pattern",
		},
		{
			name:       "dashed with country code",
			transcript: "+1 815-328-8957",
			want:       "+18153288957",
			wantLayer:  "digit_pattern",
		},
		{
			name:       "spelled out digits",
			transcript: "eight one five three two eight eight nine five seven",
			want:       "+18153288957",
			wantLayer:  "spelled_out",
		},
		{
			name:       "spelled out with oh",
			transcript: "four one five five five five oh one two three",
			want:       "+14155550123",
			wantLayer:  "spelled_out",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPhonePipeline(nil)
			res := p.Run(context.Background(), tt.transcript)
			require.True(t, res.OK, "reason: %s", res.Reason)
			assert.Equal(t, tt.want, res.Value)
			assert.Equal(t, tt.wantLayer, res.Layer)
		})
	}
}

func TestPhoneExtractionFailsWithoutNumber(t *testing.T) {
	p := newTestPhonePipeline(nil)
	res := p.Run(context.Background(), "I'll call you back later")
	require.False(t, res.OK)
	assert.Equal(t, "no_phone_found", res.Reason)
}

func TestPhoneTooShortRunRejected(t *testing.T) {
	p := newTestPhonePipeline(nil)
	res := p.Run(context.Background(), "extension 12345")
	assert.False(t, res.OK)
}

func TestPhoneLLMGuessIsRevalidated(t *testing.T) {
	// An invalid guess must be rejected by the numbering-plan check, not
	// accepted on the model's word.
	llm := &stubLLM{reply: "not a number"}
	p := newTestPhonePipeline(llm)
	res := p.Run(context.Background(), "um, you know my number already")
	require.False(t, res.OK)
	assert.Equal(t, 1, llm.calls)
}

func TestPhoneLLMValidGuessAccepted(t *testing.T) {
	llm := &stubLLM{reply: "815 328 8957"}
	p := newTestPhonePipeline(llm)
	res := p.Run(context.Background(), "same number as my wife")
	require.True(t, res.OK)
	assert.Equal(t, "+18153288957", res.Value)
	assert.Equal(t, "llm_guess", res.Layer)
}

func TestPhoneLLMErrorExhaustsChain(t *testing.T) {
	llm := &stubLLM{err: errors.New("model unavailable")}
	p := newTestPhonePipeline(llm)
	res := p.Run(context.Background(), "call me on the usual")
	require.False(t, res.OK)
	assert.Equal(t, "no_phone_found", res.Reason)
}
