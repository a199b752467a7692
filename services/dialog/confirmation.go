package dialog

import "strings"

type confirmation int

const (
	confirmUnknown confirmation = iota
	confirmYes
	confirmNo
)

var affirmatives = map[string]bool{
	"yes": true, "yeah": true, "yep": true, "yup": true, "sure": true,
	"correct": true, "right": true, "absolutely": true, "confirm": true,
	"ok": true, "okay": true, "please": true, "book": true,
}

var negatives = map[string]bool{
	"no": true, "nope": true, "nah": true, "wrong": true, "cancel": true,
	"change": true, "different": true, "not": true, "don't": true,
}

// classifyConfirmation decides whether an utterance at the confirm step is
// an affirmative, a negative, or neither. Negatives win when both appear
// ("no, that's not right, yes I said Thursday" is a correction).
func classifyConfirmation(speech string) confirmation {
	sawYes := false
	for _, w := range strings.Fields(strings.ToLower(speech)) {
		w = strings.Trim(w, ".,!?;:")
		if negatives[w] {
			return confirmNo
		}
		if affirmatives[w] {
			sawYes = true
		}
	}
	if sawYes {
		return confirmYes
	}
	return confirmUnknown
}
