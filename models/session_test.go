package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStepSequence(t *testing.T) {
	assert.Equal(t, StepAskMobile, StepAskName.Next())
	assert.Equal(t, StepAskTime, StepAskMobile.Next())
	assert.Equal(t, StepConfirm, StepAskTime.Next())
	assert.Equal(t, StepComplete, StepConfirm.Next())
	assert.Equal(t, StepComplete, StepComplete.Next())
}

func TestStepValid(t *testing.T) {
	assert.True(t, StepAskName.Valid())
	assert.True(t, StepComplete.Valid())
	assert.False(t, Step("").Valid())
	assert.False(t, Step("ask_email").Valid())
}

func TestReadyToFinalize(t *testing.T) {
	start := time.Now().UTC()
	sess := NewConversationSession("call-1", 900, 30)
	assert.False(t, sess.ReadyToFinalize())

	sess.Fields.FullName = "Johnny Walker"
	assert.False(t, sess.ReadyToFinalize())

	sess.Fields.Phone = "+18153288957"
	assert.False(t, sess.ReadyToFinalize())

	sess.Fields.StartTimeUTC = &start
	assert.True(t, sess.ReadyToFinalize())
}

func TestRecordRetryCountsPerStep(t *testing.T) {
	sess := NewConversationSession("call-1", 900, 30)
	assert.Equal(t, 1, sess.RecordRetry())
	assert.Equal(t, 2, sess.RecordRetry())

	sess.Advance()
	assert.Equal(t, 1, sess.RecordRetry())
	assert.Equal(t, 2, sess.RetryCounts[StepAskName])
	assert.Equal(t, 1, sess.RetryCounts[StepAskMobile])
}
