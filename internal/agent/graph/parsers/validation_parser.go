package parsers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/eduassist/server/internal/agent/model"
	logx "github.com/eduassist/server/pkg/logger"
)

// basic safety limits to avoid pathological inputs
const (
	maxContentLen = 128 * 1024 // 128KB
	maxIssues     = 200
	maxErrSnippet = 200
)

// validationPayload is the raw JSON shape the checker model is asked for.
type validationPayload struct {
	Status      string                  `json:"status"`
	Issues      []model.ValidationIssue `json:"issues"`
	Suggestions []string                `json:"suggestions"`
}

// ParseValidationResponse turns the checker model's raw output into a
// ValidationResult. Model output is JSON wrapped in varying amounts of noise
// (code fences, leading prose), so the parser extracts the outermost object
// and repairs sloppy JSON before unmarshalling.
func ParseValidationResponse(content string) (*model.ValidationResult, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("empty checker response")
	}
	if len(content) > maxContentLen {
		return nil, fmt.Errorf("checker response too large: %d bytes", len(content))
	}

	raw := extractJSONObject(content)
	if raw == "" {
		return nil, fmt.Errorf("no JSON object in checker response: %q", snippet(content))
	}

	var payload validationPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(raw)
		if repairErr != nil {
			logx.Warn().Err(repairErr).Msg("failed to repair checker JSON")
			return nil, fmt.Errorf("unmarshal checker response: %w", err)
		}
		if err := json.Unmarshal([]byte(repaired), &payload); err != nil {
			return nil, fmt.Errorf("unmarshal repaired checker response: %w", err)
		}
	}

	return normalize(payload)
}

func normalize(payload validationPayload) (*model.ValidationResult, error) {
	if len(payload.Issues) > maxIssues {
		payload.Issues = payload.Issues[:maxIssues]
	}

	issues := make([]model.ValidationIssue, 0, len(payload.Issues))
	for _, issue := range payload.Issues {
		issue.Detail = strings.TrimSpace(issue.Detail)
		if issue.Detail == "" {
			continue
		}
		issues = append(issues, issue)
	}

	// Reject unknown status tags outright; the accepted ones only gate entry,
	// the issue list decides the final status. The model occasionally reports
	// "valid" alongside issues or vice versa.
	switch model.ValidationStatus(strings.ToLower(strings.TrimSpace(payload.Status))) {
	case model.ValidationValid, model.ValidationErrorsFound, "":
	default:
		return nil, fmt.Errorf("unknown validation status %q", payload.Status)
	}
	status := model.ValidationValid
	if len(issues) > 0 {
		status = model.ValidationErrorsFound
	}

	return &model.ValidationResult{
		Status:      status,
		Issues:      issues,
		Suggestions: payload.Suggestions,
	}, nil
}

// extractJSONObject strips markdown code fences and returns the substring
// between the first '{' and the last '}'.
func extractJSONObject(content string) string {
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	}
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return ""
	}
	return content[start : end+1]
}

func snippet(s string) string {
	if len(s) > maxErrSnippet {
		return s[:maxErrSnippet] + "..."
	}
	return s
}
