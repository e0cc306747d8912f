package validators

import (
	"context"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/eduassist/server/internal/agent/graph/parsers"
	"github.com/eduassist/server/internal/agent/graph/prompts"
	"github.com/eduassist/server/internal/agent/model"
)

// Checker verifies the mathematical correctness of a drafted artifact. A
// returned error means the checker itself failed, not that the content is
// wrong; content findings are carried inside the result.
type Checker interface {
	Check(ctx context.Context, content string) (*model.ValidationResult, error)
}

// LLMChecker asks a chat model to audit the artifact and report findings as
// JSON.
type LLMChecker struct {
	model     einomodel.BaseChatModel
	modelName string
	prompt    model.PromptConfig
}

func NewLLMChecker(m einomodel.BaseChatModel, modelName string, promptConfig model.PromptConfig) *LLMChecker {
	return &LLMChecker{model: m, modelName: modelName, prompt: promptConfig}
}

func (c *LLMChecker) Check(ctx context.Context, content string) (*model.ValidationResult, error) {
	systemPrompt, err := prompts.RenderValidationSystem(ctx, c.prompt)
	if err != nil {
		return nil, err
	}

	out, err := c.model.Generate(ctx, []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(content),
	})
	if err != nil {
		return nil, fmt.Errorf("validation generation: %w", err)
	}
	if out == nil {
		return nil, fmt.Errorf("validation model returned no output")
	}
	model.LogUsage("validate", c.modelName, out)

	return parsers.ParseValidationResponse(out.Content)
}

var _ Checker = (*LLMChecker)(nil)
