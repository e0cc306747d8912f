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

// ChatAgent produces the conversational reply. It streams the model output
// token by token and appends both the user turn and the assistant turn to the
// message history.
type ChatAgent struct {
	model     einomodel.BaseChatModel
	modelName string
	prompt    model.PromptConfig
}

func NewChatAgent(m einomodel.BaseChatModel, modelName string, promptConfig model.PromptConfig) *ChatAgent {
	return &ChatAgent{model: m, modelName: modelName, prompt: promptConfig}
}

func (a *ChatAgent) Name() string {
	return "chat"
}

func (a *ChatAgent) Run(ctx context.Context, st model.State, emit EmitFunc) (model.Patch, error) {
	systemPrompt, err := prompts.RenderChatSystem(ctx, a.prompt, st.Mode, st.Settings)
	if err != nil {
		return model.Patch{}, err
	}

	userMsg := schema.UserMessage(st.UserInput)
	messages := make([]*schema.Message, 0, len(st.Messages)+2)
	messages = append(messages, schema.SystemMessage(systemPrompt))
	messages = append(messages, st.Messages...)
	messages = append(messages, userMsg)

	reader, err := a.model.Stream(ctx, messages)
	if err != nil {
		return model.Patch{}, fmt.Errorf("chat generation: %w", err)
	}
	defer reader.Close()

	var chunks []*schema.Message
	for {
		chunk, err := reader.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			return model.Patch{}, fmt.Errorf("chat stream: %w", err)
		}
		chunks = append(chunks, chunk)
		if chunk.Content != "" {
			emit(model.TokenEvent(chunk.Content))
		}
	}
	if len(chunks) == 0 {
		return model.Patch{}, fmt.Errorf("chat model returned no output")
	}

	full, err := schema.ConcatMessages(chunks)
	if err != nil {
		return model.Patch{}, fmt.Errorf("concat chat chunks: %w", err)
	}
	model.LogUsage(a.Name(), a.modelName, full)

	content := full.Content
	return model.Patch{
		AppendMessages: []*schema.Message{userMsg, schema.AssistantMessage(content, nil)},
		ChatOutput:     &content,
	}, nil
}

var _ Agent = (*ChatAgent)(nil)
