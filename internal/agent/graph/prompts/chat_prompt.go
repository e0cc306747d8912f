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

//go:embed template/chat_prompt.txt
var chatSystemPrompt string

// RenderChatSystem renders the conversational system prompt, shaped by mode
// and tone, via the Eino prompt component.
func RenderChatSystem(ctx context.Context, config model.PromptConfig, mode model.Mode, settings model.Settings) (string, error) {
	audience := "student working through the material themselves"
	guidance := "Keep answers encouraging and check for understanding before moving on."
	if mode == model.ModeTeacher {
		audience = "teacher preparing material for their class"
		guidance = "Be direct and thorough; include teaching notes and common misconceptions."
	}

	tone := strings.TrimSpace(settings.Tone)
	if tone == "" {
		tone = "clear and supportive"
	}
	gradeLevel := strings.TrimSpace(settings.GradeLevel)
	if gradeLevel == "" {
		gradeLevel = "unspecified"
	}

	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(chatSystemPrompt),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"PlatformName":     config.PlatformName,
		"Subject":          config.Subject,
		"Audience":         audience,
		"AudienceGuidance": guidance,
		"Tone":             tone,
		"GradeLevel":       gradeLevel,
	})
	if err != nil {
		return "", fmt.Errorf("chat prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("chat prompt render: empty result")
	}
	return msgs[0].Content, nil
}
