package agents

import (
	"context"
	"fmt"
	"io"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/eduassist/server/internal/agent/graph/prompts"
	"github.com/eduassist/server/internal/agent/model"
)

// PreviewAgent drafts the structured artifact from the conversational answer,
// the retrieved context and the caller's settings. Drafting progress streams
// as token events; the finished draft is emitted once as a preview event.
type PreviewAgent struct {
	model     einomodel.BaseChatModel
	modelName string
	prompt    model.PromptConfig
}

func NewPreviewAgent(m einomodel.BaseChatModel, modelName string, promptConfig model.PromptConfig) *PreviewAgent {
	return &PreviewAgent{model: m, modelName: modelName, prompt: promptConfig}
}

func (a *PreviewAgent) Name() string {
	return "preview"
}

func (a *PreviewAgent) Run(ctx context.Context, st model.State, emit EmitFunc) (model.Patch, error) {
	contextBlock := prompts.FormatContextBlock(st.RetrievedContext)
	systemPrompt, err := prompts.RenderPreviewSystem(ctx, a.prompt, st.Settings, contextBlock)
	if err != nil {
		return model.Patch{}, err
	}

	basis := st.ChatOutput
	if basis == "" {
		basis = st.UserInput
	}
	request := fmt.Sprintf("Request: %s\n\nConversational answer to build on:\n%s", st.UserInput, basis)

	messages := []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(request),
	}

	reader, err := a.model.Stream(ctx, messages)
	if err != nil {
		return model.Patch{}, fmt.Errorf("preview generation: %w", err)
	}
	defer reader.Close()

	var chunks []*schema.Message
	for {
		chunk, err := reader.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			return model.Patch{}, fmt.Errorf("preview stream: %w", err)
		}
		chunks = append(chunks, chunk)
		if chunk.Content != "" {
			emit(model.TokenEvent(chunk.Content))
		}
	}
	if len(chunks) == 0 {
		return model.Patch{}, fmt.Errorf("preview model returned no output")
	}

	full, err := schema.ConcatMessages(chunks)
	if err != nil {
		return model.Patch{}, fmt.Errorf("concat preview chunks: %w", err)
	}
	model.LogUsage(a.Name(), a.modelName, full)

	content := full.Content
	emit(model.PreviewEvent(content))
	return model.Patch{PreviewContent: &content}, nil
}

var _ Agent = (*PreviewAgent)(nil)
