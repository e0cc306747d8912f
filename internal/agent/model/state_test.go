package model

import (
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStateCopiesHistory(t *testing.T) {
	history := []*schema.Message{schema.UserMessage("hi"), schema.AssistantMessage("hello", nil)}
	req := Request{
		Question: "Explain fractions",
		History:  history,
		Options: Options{
			Mode:     ModeTeacher,
			ThreadID: "t-1",
			UserID:   "u-1",
			Settings: Settings{ContentType: "worksheet"},
		},
	}

	st := NewState(req)
	require.Len(t, st.Messages, 2)
	assert.Equal(t, "Explain fractions", st.UserInput)
	assert.Equal(t, ModeTeacher, st.Mode)
	assert.Equal(t, "t-1", st.ThreadID)
	assert.Equal(t, "u-1", st.UserID)

	// mutating the caller's slice must not leak into the snapshot
	history[0] = schema.UserMessage("mutated")
	assert.Equal(t, "hi", st.Messages[0].Content)
}

func TestMergeOverwritesSetFieldsOnly(t *testing.T) {
	chat := "the answer"
	st := State{UserInput: "question", ChatOutput: "old"}

	next := st.Merge(Patch{ChatOutput: &chat})
	assert.Equal(t, "the answer", next.ChatOutput)
	assert.Equal(t, "question", next.UserInput)

	// the previous snapshot is untouched
	assert.Equal(t, "old", st.ChatOutput)

	// an empty patch changes nothing
	assert.Equal(t, next, next.Merge(Patch{}))
}

func TestMergeAppendsMessages(t *testing.T) {
	st := State{Messages: []*schema.Message{schema.UserMessage("first")}}

	next := st.Merge(Patch{AppendMessages: []*schema.Message{
		schema.UserMessage("second"),
		schema.AssistantMessage("reply", nil),
	}})

	require.Len(t, next.Messages, 3)
	assert.Equal(t, "second", next.Messages[1].Content)
	require.Len(t, st.Messages, 1, "original snapshot keeps its message list")
}

func TestMergeDistinguishesEmptyRetrievedContext(t *testing.T) {
	st := State{}
	assert.Nil(t, st.RetrievedContext, "retrieval not yet run")

	next := st.Merge(Patch{RetrievedContext: []*schema.Document{}})
	require.NotNil(t, next.RetrievedContext, "empty retrieval result is distinct from skipped retrieval")
	assert.Empty(t, next.RetrievedContext)

	docs := []*schema.Document{{ID: "a", Content: "snippet"}}
	withDocs := next.Merge(Patch{RetrievedContext: docs})
	assert.Len(t, withDocs.RetrievedContext, 1)

	// a patch without the field keeps the previous value
	unchanged := withDocs.Merge(Patch{})
	assert.Len(t, unchanged.RetrievedContext, 1)
}

func TestErrorPatch(t *testing.T) {
	st := State{}.Merge(ErrorPatch("stage blew up"))
	assert.Equal(t, "stage blew up", st.Error)
}

func TestParseMode(t *testing.T) {
	assert.Equal(t, ModeTeacher, ParseMode("teacher"))
	assert.Equal(t, ModeTeacher, ParseMode("  TEACHER "))
	assert.Equal(t, ModeStudent, ParseMode("student"))
	assert.Equal(t, ModeStudent, ParseMode("gibberish"))
	assert.Equal(t, ModeStudent, ParseMode(""))
}

func TestInternalValidationError(t *testing.T) {
	res := InternalValidationError("checker offline")
	assert.Equal(t, ValidationInternalError, res.Status)
	assert.Equal(t, "checker offline", res.Message)
	assert.Empty(t, res.Issues)
}

func TestEventTerminal(t *testing.T) {
	assert.True(t, FinalEvent("out").Terminal())
	assert.True(t, ErrorEvent("boom").Terminal())
	assert.False(t, StatusEvent("chat", "").Terminal())
	assert.False(t, TokenEvent("x").Terminal())
	assert.False(t, PreviewEvent("p").Terminal())
	assert.False(t, ValidationEvent(&ValidationResult{Status: ValidationValid}).Terminal())
}
