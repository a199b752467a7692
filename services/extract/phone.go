package extract

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	ai "voicedesk/services/intelligence"

	"github.com/nyaruka/phonenumbers"
	"go.uber.org/zap"
)

// digitRunPattern matches a contiguous run of 7-11 digits with room for an
// optional leading country code, after non-digit characters are stripped.
var digitRunPattern = regexp.MustCompile(`\+?\d{7,14}`)

// spokenDigits maps word-form digits to numerals. "oh" is the spoken zero.
var spokenDigits = map[string]string{
	"zero": "0", "oh": "0", "one": "1", "two": "2", "three": "3",
	"four": "4", "five": "5", "six": "6", "seven": "7", "eight": "8",
	"nine": "9",
}

const phonePrompt = `Extract the phone number the caller said from this call transcript.
Reply with only the digits of the phone number and nothing else.
Transcript: %q`

// NewPhonePipeline builds the phone extractor chain:
// digit-run scan, spelled-out digit normalization, then an LLM guess.
// Every candidate, LLM guesses included, is validated against the default
// region's numbering plan before it is accepted, and the accepted value is
// normalized to E.164.
func NewPhonePipeline(llm ai.Client, region string, layerTimeout time.Duration, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		Field: "phone",
		Layers: []Strategy{
			strategyFunc{name: "digit_pattern", fn: digitPatternLayer},
			strategyFunc{name: "spelled_out", fn: spelledOutLayer},
			strategyFunc{name: "llm_guess", fn: phoneLLMLayer(llm)},
		},
		Normalize:    phoneNormalizer(region),
		LayerTimeout: layerTimeout,
		FailReason:   "no_phone_found",
		Logger:       logger,
	}
}

// stripToDialable drops everything except digits and a leading plus, so
// spaced groupings and trailing punctuation cannot break matching.
func stripToDialable(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func digitPatternLayer(_ context.Context, transcript string) (string, bool) {
	stripped := stripToDialable(strings.TrimSpace(transcript))
	candidate := digitRunPattern.FindString(stripped)
	return candidate, candidate != ""
}

// spelledOutLayer converts word-form digits ("four one six ...") to
// numerals and rescans for a digit run.
func spelledOutLayer(ctx context.Context, transcript string) (string, bool) {
	words := strings.Fields(strings.ToLower(transcript))
	converted := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.Trim(w, ".,!?;:")
		if d, ok := spokenDigits[w]; ok {
			converted = append(converted, d)
		} else {
			converted = append(converted, w)
		}
	}
	return digitPatternLayer(ctx, strings.Join(converted, " "))
}

func phoneLLMLayer(llm ai.Client) func(ctx context.Context, transcript string) (string, bool) {
	return func(ctx context.Context, transcript string) (string, bool) {
		if llm == nil {
			return "", false
		}
		guess, err := llm.GenerateContent(ctx, fmt.Sprintf(phonePrompt, transcript))
		if err != nil || guess == "" {
			return "", false
		}
		return stripToDialable(strings.TrimSpace(guess)), true
	}
}

// phoneNormalizer parses a candidate against the region's numbering plan
// and formats valid numbers as E.164.
func phoneNormalizer(region string) func(raw string) (string, bool) {
	return func(raw string) (string, bool) {
		if raw == "" {
			return "", false
		}
		num, err := phonenumbers.Parse(raw, region)
		if err != nil || !phonenumbers.IsValidNumber(num) {
			return "", false
		}
		return phonenumbers.Format(num, phonenumbers.E164), true
	}
}
