package dialog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyConfirmation(t *testing.T) {
	tests := []struct {
		speech string
		want   confirmation
	}{
		{"yes", confirmYes},
		{"Yes, please.", confirmYes},
		{"yeah that's right", confirmYes},
		{"sure, book it", confirmYes},
		{"OKAY", confirmYes},
		{"no", confirmNo},
		{"Nope.", confirmNo},
		{"no, that's wrong", confirmNo},
		{"actually can we change it", confirmNo},
		{"no, that's not right, yes I said Thursday", confirmNo},
		{"that's not my number", confirmNo},
		{"hmm", confirmUnknown},
		{"what did you say", confirmUnknown},
		{"", confirmUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.speech, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyConfirmation(tt.speech), "speech %q", tt.speech)
		})
	}
}
