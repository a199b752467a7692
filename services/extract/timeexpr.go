package extract

import (
	"context"
	"fmt"
	"strings"
	"time"

	ai "voicedesk/services/intelligence"

	"github.com/araddon/dateparse"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"go.uber.org/zap"
)

const timePrompt = `Extract the appointment date and time the caller asked for
from this call transcript. Today is %s. Reply with only the date and time in
the format 2006-01-02 15:04 and nothing else. If there is none reply with the
single word NONE.
Transcript: %q`

// TimeParser resolves natural-language appointment times to UTC. It owns
// the relative-phrase preprocessing plus the calendar-phrase and general
// parser layers that the LLM guess is also re-parsed through.
type TimeParser struct {
	Location *time.Location
	Now      func() time.Time
	w        *when.Parser
}

// NewTimeParser builds a parser anchored to the business's local timezone.
// now is injectable for tests; pass nil for the wall clock.
func NewTimeParser(loc *time.Location, now func() time.Time) *TimeParser {
	if now == nil {
		now = time.Now
	}
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &TimeParser{Location: loc, Now: now, w: w}
}

// NewTimePipeline builds the time extractor chain: calendar-phrase parse,
// general date/time parse, then an LLM guess re-parsed through the first
// two layers. Every layer yields an RFC3339 UTC timestamp.
func NewTimePipeline(tp *TimeParser, llm ai.Client, layerTimeout time.Duration, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		Field: "time",
		Layers: []Strategy{
			strategyFunc{name: "calendar_phrase", fn: tp.whenLayer},
			strategyFunc{name: "general_parse", fn: tp.dateparseLayer},
			strategyFunc{name: "llm_guess", fn: tp.llmLayer(llm)},
		},
		LayerTimeout: layerTimeout,
		FailReason:   "no_time_found",
		Logger:       logger,
	}
}

// preprocess rewrites relative-day phrases into an explicit anchor date
// before parsing; raw phrases like "next week" frequently break the
// downstream parsers. It returns the cleaned text and the anchor to parse
// against.
// meridiemNormalizer collapses spoken meridiem spellings so a transcript
// like "9:30 a.m." survives punctuation trimming.
var meridiemNormalizer = strings.NewReplacer(
	"a.m.", "am", "p.m.", "pm", "a.m", "am", "p.m", "pm",
)

func (tp *TimeParser) preprocess(text string) (string, time.Time) {
	now := tp.Now().In(tp.Location)
	lowered := meridiemNormalizer.Replace(strings.ToLower(text))
	base := now

	switch {
	case strings.Contains(lowered, "day after tomorrow"):
		base = now.AddDate(0, 0, 2)
		lowered = strings.ReplaceAll(lowered, "day after tomorrow", "")
	case strings.Contains(lowered, "tomorrow"):
		base = now.AddDate(0, 0, 1)
		lowered = strings.ReplaceAll(lowered, "tomorrow", "")
	case strings.Contains(lowered, "next week"):
		base = startOfNextWeek(now)
		lowered = strings.ReplaceAll(lowered, "next week", "")
	case strings.Contains(lowered, "this week"):
		lowered = strings.ReplaceAll(lowered, "this week", "")
	case strings.Contains(lowered, "today"):
		lowered = strings.ReplaceAll(lowered, "today", "")
	}

	cleaned := strings.Trim(lowered, " \t.,!?;:")
	return cleaned, base
}

// startOfNextWeek returns Monday 00:00 of the following week.
func startOfNextWeek(now time.Time) time.Time {
	days := (8 - int(now.Weekday())) % 7
	if days == 0 {
		days = 7
	}
	next := now.AddDate(0, 0, days)
	return time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, now.Location())
}

func (tp *TimeParser) whenLayer(_ context.Context, transcript string) (string, bool) {
	cleaned, base := tp.preprocess(transcript)
	if cleaned == "" {
		// The utterance was only a relative-day phrase; the anchor alone
		// has no clock time, so let the caller be asked again.
		return "", false
	}
	r, err := tp.w.Parse(cleaned, base)
	if err != nil || r == nil {
		return "", false
	}
	// A digit left outside the match means the phrase parser only caught
	// a fragment (e.g. the clock part of "2026-08-27 09:30"); defer to
	// the general parser instead of anchoring it to the wrong day.
	rest := cleaned[:r.Index] + cleaned[r.Index+len(r.Text):]
	if strings.ContainsAny(rest, "0123456789") {
		return "", false
	}
	return r.Time.UTC().Format(time.RFC3339), true
}

func (tp *TimeParser) dateparseLayer(_ context.Context, transcript string) (string, bool) {
	cleaned, _ := tp.preprocess(transcript)
	if cleaned == "" {
		return "", false
	}
	t, err := dateparse.ParseIn(cleaned, tp.Location)
	if err != nil {
		return "", false
	}
	return t.UTC().Format(time.RFC3339), true
}

// llmLayer asks the model for a best-guess datetime string and re-parses
// it through the deterministic layers; the guess is never trusted as-is.
func (tp *TimeParser) llmLayer(llm ai.Client) func(ctx context.Context, transcript string) (string, bool) {
	return func(ctx context.Context, transcript string) (string, bool) {
		if llm == nil {
			return "", false
		}
		today := tp.Now().In(tp.Location).Format("Monday, January 2, 2006")
		guess, err := llm.GenerateContent(ctx, fmt.Sprintf(timePrompt, today, transcript))
		if err != nil {
			return "", false
		}
		guess = strings.TrimSpace(guess)
		if guess == "" || strings.EqualFold(guess, "NONE") {
			return "", false
		}
		if t, err := time.ParseInLocation("2006-01-02 15:04", guess, tp.Location); err == nil {
			return t.UTC().Format(time.RFC3339), true
		}
		if v, ok := tp.whenLayer(ctx, guess); ok {
			return v, true
		}
		return tp.dateparseLayer(ctx, guess)
	}
}
