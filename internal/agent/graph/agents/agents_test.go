package agents

import (
	"context"
	"errors"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/retriever"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduassist/server/internal/agent/model"
)

var testPrompt = model.PromptConfig{PlatformName: "EduAssist", Subject: "mathematics"}

type fakeChatModel struct {
	chunks   []string
	err      error
	lastSeen []*schema.Message
}

func (m *fakeChatModel) Generate(ctx context.Context, in []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	m.lastSeen = in
	if m.err != nil {
		return nil, m.err
	}
	var content string
	for _, c := range m.chunks {
		content += c
	}
	return schema.AssistantMessage(content, nil), nil
}

func (m *fakeChatModel) Stream(ctx context.Context, in []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	m.lastSeen = in
	if m.err != nil {
		return nil, m.err
	}
	msgs := make([]*schema.Message, 0, len(m.chunks))
	for _, c := range m.chunks {
		msgs = append(msgs, schema.AssistantMessage(c, nil))
	}
	return schema.StreamReaderFromArray(msgs), nil
}

type fakeRetriever struct {
	docs []*schema.Document
	err  error
}

func (r *fakeRetriever) Retrieve(ctx context.Context, query string, opts ...retriever.Option) ([]*schema.Document, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.docs, nil
}

type fakeChecker struct {
	result *model.ValidationResult
	err    error
}

func (c *fakeChecker) Check(ctx context.Context, content string) (*model.ValidationResult, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.result, nil
}

func captureEvents() (EmitFunc, *[]*model.Event) {
	var events []*model.Event
	return func(ev *model.Event) { events = append(events, ev) }, &events
}

// ---- chat agent ----

func TestChatAgentStreamsAndPatches(t *testing.T) {
	m := &fakeChatModel{chunks: []string{"Deriv", "atives ", "measure change."}}
	agent := NewChatAgent(m, "fake-model", testPrompt)
	emit, events := captureEvents()

	st := model.NewState(model.Request{
		Question: "Explain derivatives",
		History:  []*schema.Message{schema.UserMessage("earlier"), schema.AssistantMessage("earlier reply", nil)},
		Options:  model.Options{Mode: model.ModeStudent, Settings: model.Settings{Tone: "friendly"}},
	})

	patch, err := agent.Run(context.Background(), st, emit)
	require.NoError(t, err)

	require.NotNil(t, patch.ChatOutput)
	assert.Equal(t, "Derivatives measure change.", *patch.ChatOutput)

	require.Len(t, patch.AppendMessages, 2)
	assert.Equal(t, schema.User, patch.AppendMessages[0].Role)
	assert.Equal(t, "Explain derivatives", patch.AppendMessages[0].Content)
	assert.Equal(t, schema.Assistant, patch.AppendMessages[1].Role)

	require.Len(t, *events, 3)
	for _, ev := range *events {
		assert.Equal(t, model.EventToken, ev.Type)
	}

	// system prompt first, then history, then the new user turn
	require.Len(t, m.lastSeen, 4)
	assert.Equal(t, schema.System, m.lastSeen[0].Role)
	assert.Equal(t, "Explain derivatives", m.lastSeen[3].Content)
}

func TestChatAgentPropagatesModelFailure(t *testing.T) {
	agent := NewChatAgent(&fakeChatModel{err: errors.New("rate limited")}, "fake-model", testPrompt)
	emit, events := captureEvents()

	_, err := agent.Run(context.Background(), model.State{UserInput: "q"}, emit)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
	assert.Empty(t, *events)
}

// ---- retriever agent ----

func TestRetrieverAgentPatchesDocs(t *testing.T) {
	docs := []*schema.Document{
		{ID: "a", Content: "first"},
		nil,
		{ID: "b", Content: ""},
		{ID: "c", Content: "second"},
	}
	agent := NewRetrieverAgent(&fakeRetriever{docs: docs}, model.RetrievalConfig{MaxSnippets: 4})
	emit, events := captureEvents()

	patch, err := agent.Run(context.Background(), model.State{UserInput: "fractions"}, emit)
	require.NoError(t, err)

	require.NotNil(t, patch.RetrievedContext)
	require.Len(t, patch.RetrievedContext, 2, "nil and empty docs are dropped")

	require.Len(t, *events, 1)
	assert.Equal(t, model.EventStatus, (*events)[0].Type)
	assert.Equal(t, "retrieve", (*events)[0].Stage)
	assert.Equal(t, "found 2 sources", (*events)[0].Detail)
}

func TestRetrieverAgentTrimsToMaxSnippets(t *testing.T) {
	docs := []*schema.Document{
		{ID: "a", Content: "1"}, {ID: "b", Content: "2"}, {ID: "c", Content: "3"},
	}
	agent := NewRetrieverAgent(&fakeRetriever{docs: docs}, model.RetrievalConfig{MaxSnippets: 2})
	emit, _ := captureEvents()

	patch, err := agent.Run(context.Background(), model.State{UserInput: "q"}, emit)
	require.NoError(t, err)
	assert.Len(t, patch.RetrievedContext, 2)
}

func TestRetrieverAgentFailureIsEmptyContext(t *testing.T) {
	agent := NewRetrieverAgent(&fakeRetriever{err: errors.New("timeout")}, model.RetrievalConfig{})
	emit, events := captureEvents()

	patch, err := agent.Run(context.Background(), model.State{UserInput: "q"}, emit)
	require.NoError(t, err, "retrieval is best-effort and never fails the stage")
	require.NotNil(t, patch.RetrievedContext)
	assert.Empty(t, patch.RetrievedContext)

	require.Len(t, *events, 1)
	assert.Equal(t, "retrieval unavailable", (*events)[0].Detail)
}

func TestRetrieverAgentNilBackend(t *testing.T) {
	agent := NewRetrieverAgent(nil, model.RetrievalConfig{})
	emit, _ := captureEvents()

	patch, err := agent.Run(context.Background(), model.State{UserInput: "q"}, emit)
	require.NoError(t, err)
	require.NotNil(t, patch.RetrievedContext)
	assert.Empty(t, patch.RetrievedContext)
}

// ---- preview agent ----

func TestPreviewAgentDraftsArtifact(t *testing.T) {
	m := &fakeChatModel{chunks: []string{"# Worksheet\n", "1. Solve 2x = 6."}}
	agent := NewPreviewAgent(m, "fake-model", testPrompt)
	emit, events := captureEvents()

	st := model.State{
		UserInput:  "Make a worksheet on linear equations",
		ChatOutput: "Linear equations balance both sides.",
		Settings:   model.Settings{ContentType: "worksheet", GradeLevel: "8"},
		RetrievedContext: []*schema.Document{
			{ID: "s1", Content: "Isolate the variable step by step."},
		},
	}

	patch, err := agent.Run(context.Background(), st, emit)
	require.NoError(t, err)

	require.NotNil(t, patch.PreviewContent)
	assert.Equal(t, "# Worksheet\n1. Solve 2x = 6.", *patch.PreviewContent)

	require.Len(t, *events, 3)
	assert.Equal(t, model.EventToken, (*events)[0].Type)
	assert.Equal(t, model.EventToken, (*events)[1].Type)
	last := (*events)[2]
	assert.Equal(t, model.EventPreview, last.Type)
	assert.Equal(t, "# Worksheet\n1. Solve 2x = 6.", last.Content)

	// retrieved context reaches the system prompt
	require.NotEmpty(t, m.lastSeen)
	assert.Contains(t, m.lastSeen[0].Content, "Isolate the variable")
}

func TestPreviewAgentPropagatesModelFailure(t *testing.T) {
	agent := NewPreviewAgent(&fakeChatModel{err: errors.New("model unavailable")}, "fake-model", testPrompt)
	emit, _ := captureEvents()

	_, err := agent.Run(context.Background(), model.State{UserInput: "q"}, emit)
	require.Error(t, err)
}

// ---- validation agent ----

func TestValidationAgentReportsFindings(t *testing.T) {
	result := &model.ValidationResult{
		Status: model.ValidationErrorsFound,
		Issues: []model.ValidationIssue{{Detail: "answer key mismatch"}},
	}
	agent := NewValidationAgent(&fakeChecker{result: result})
	emit, events := captureEvents()

	patch, err := agent.Run(context.Background(), model.State{PreviewContent: "draft"}, emit)
	require.NoError(t, err)
	assert.Equal(t, result, patch.ValidationResult)

	require.Len(t, *events, 1)
	assert.Equal(t, model.EventValidation, (*events)[0].Type)
	assert.Equal(t, result, (*events)[0].Result)
}

func TestValidationAgentCheckerFailureIsData(t *testing.T) {
	agent := NewValidationAgent(&fakeChecker{err: errors.New("llm exploded")})
	emit, events := captureEvents()

	patch, err := agent.Run(context.Background(), model.State{PreviewContent: "draft"}, emit)
	require.NoError(t, err, "checker failure must never fail the stage")
	require.NotNil(t, patch.ValidationResult)
	assert.Equal(t, model.ValidationInternalError, patch.ValidationResult.Status)
	assert.Contains(t, patch.ValidationResult.Message, "llm exploded")
	require.Len(t, *events, 1)
}

func TestValidationAgentWithoutPreviewContent(t *testing.T) {
	agent := NewValidationAgent(&fakeChecker{result: &model.ValidationResult{Status: model.ValidationValid}})
	emit, _ := captureEvents()

	patch, err := agent.Run(context.Background(), model.State{}, emit)
	require.NoError(t, err)
	require.NotNil(t, patch.ValidationResult)
	assert.Equal(t, model.ValidationInternalError, patch.ValidationResult.Status)
}
