package extract

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	ai "voicedesk/services/intelligence"

	prose "github.com/jdkato/prose/v2"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// namePattern matches common self-introduction lead-ins followed by one
// or two name tokens.
var namePattern = regexp.MustCompile(
	`(?i)\b(?:my name is|my name's|name is|this is|i am|i'm|it's|call me)\s+([a-zA-Z'-]+(?:\s+[a-zA-Z'-]+)?)`)

// disfluencyArtifacts are speech-recognition fragments that must never be
// accepted as a name, alone or as a name token.
var disfluencyArtifacts = map[string]bool{
	"um": true, "umm": true, "uh": true, "uhh": true, "er": true,
	"ah": true, "hmm": true, "mhm": true, "huh": true, "like": true,
	"yeah": true, "yes": true, "no": true, "okay": true, "ok": true,
	"so": true, "well": true, "hello": true, "hi": true, "hey": true,
}

var titleCaser = cases.Title(language.English)

const namePrompt = `Extract the caller's full name from this call transcript.
Reply with only the name, first and last, and nothing else. If there is no
name reply with the single word NONE.
Transcript: %q`

// NewNamePipeline builds the name extractor chain: lead-in pattern match,
// named-entity recognition under the layer timeout, then an LLM guess.
// Every candidate passes through the disfluency denylist; the accepted
// value is formatted "First Last" in title case.
func NewNamePipeline(llm ai.Client, layerTimeout time.Duration, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		Field: "name",
		Layers: []Strategy{
			strategyFunc{name: "lead_in_pattern", fn: namePatternLayer},
			strategyFunc{name: "ner", fn: nerLayer},
			strategyFunc{name: "llm_guess", fn: nameLLMLayer(llm)},
		},
		Normalize:    normalizeName,
		LayerTimeout: layerTimeout,
		FailReason:   "no_name_found",
		Logger:       logger,
	}
}

func namePatternLayer(_ context.Context, transcript string) (string, bool) {
	m := namePattern.FindStringSubmatch(transcript)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// nerLayer tags the transcript and returns the first PERSON entity. The
// tagging runs entirely inside this call, so the pipeline's timeout
// goroutine bounds it.
func nerLayer(_ context.Context, transcript string) (string, bool) {
	doc, err := prose.NewDocument(transcript)
	if err != nil {
		return "", false
	}
	for _, ent := range doc.Entities() {
		if ent.Label == "PERSON" && strings.TrimSpace(ent.Text) != "" {
			return ent.Text, true
		}
	}
	return "", false
}

func nameLLMLayer(llm ai.Client) func(ctx context.Context, transcript string) (string, bool) {
	return func(ctx context.Context, transcript string) (string, bool) {
		if llm == nil {
			return "", false
		}
		guess, err := llm.GenerateContent(ctx, fmt.Sprintf(namePrompt, transcript))
		if err != nil {
			return "", false
		}
		guess = strings.TrimSpace(guess)
		if guess == "" || strings.EqualFold(guess, "NONE") {
			return "", false
		}
		return guess, true
	}
}

// normalizeName filters candidate tokens through the artifact denylist and
// formats the survivors as "First Last" in title case. A candidate left
// empty after filtering is a failure, never a wrong success.
func normalizeName(raw string) (string, bool) {
	tokens := strings.Fields(raw)
	kept := make([]string, 0, 2)
	for _, tok := range tokens {
		cleaned := strings.Trim(tok, ".,!?;:'\"-")
		if cleaned == "" || len(cleaned) < 2 {
			continue
		}
		if disfluencyArtifacts[strings.ToLower(cleaned)] {
			continue
		}
		kept = append(kept, titleCaser.String(strings.ToLower(cleaned)))
		if len(kept) == 2 {
			break
		}
	}
	if len(kept) == 0 {
		return "", false
	}
	return strings.Join(kept, " "), true
}
