package prompts

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/eduassist/server/internal/agent/model"
)

//go:embed template/validation_prompt.txt
var validationSystemPrompt string

// RenderValidationSystem renders the checker system prompt. The template
// carries a literal JSON schema, so known tokens are substituted directly and
// the result is passed through a messages placeholder rather than a format
// string, mirroring how delimiter-heavy templates are handled elsewhere.
func RenderValidationSystem(ctx context.Context, config model.PromptConfig) (string, error) {
	content := strings.NewReplacer(
		"{platform_name}", config.PlatformName,
		"{subject}", config.Subject,
	).Replace(validationSystemPrompt)

	tpl := prompt.FromMessages(
		schema.FString,
		schema.MessagesPlaceholder("system_messages", false),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"system_messages": []*schema.Message{schema.SystemMessage(content)},
	})
	if err != nil {
		return "", fmt.Errorf("validation prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("validation prompt render: empty result")
	}
	return msgs[0].Content, nil
}
