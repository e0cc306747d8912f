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

//go:embed template/preview_prompt.txt
var previewSystemPrompt string

// RenderPreviewSystem renders the artifact-drafting system prompt. The
// contextBlock is the formatted retrieved reference material, empty when
// retrieval was skipped or found nothing.
func RenderPreviewSystem(ctx context.Context, config model.PromptConfig, settings model.Settings, contextBlock string) (string, error) {
	contentType := strings.TrimSpace(settings.ContentType)
	if contentType == "" {
		contentType = "worksheet"
	}

	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(previewSystemPrompt),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"PlatformName": config.PlatformName,
		"Subject":      config.Subject,
		"ContentType":  contentType,
		"GradeLevel":   settings.GradeLevel,
		"Length":       settings.Length,
		"Tone":         settings.Tone,
		"Context":      contextBlock,
	})
	if err != nil {
		return "", fmt.Errorf("preview prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("preview prompt render: empty result")
	}
	return msgs[0].Content, nil
}

// FormatContextBlock joins retrieved snippets into the numbered source block
// the preview template embeds.
func FormatContextBlock(docs []*schema.Document) string {
	if len(docs) == 0 {
		return ""
	}
	var b strings.Builder
	for i, doc := range docs {
		if doc == nil || strings.TrimSpace(doc.Content) == "" {
			continue
		}
		fmt.Fprintf(&b, "[source %d] %s\n", i+1, strings.TrimSpace(doc.Content))
	}
	return b.String()
}
