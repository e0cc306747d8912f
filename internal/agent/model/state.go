package model

import (
	"strings"

	"github.com/cloudwego/eino/schema"
)

// Mode selects agent routing and tone for a pipeline run.
type Mode string

const (
	ModeStudent Mode = "student"
	ModeTeacher Mode = "teacher"
)

// ParseMode normalises a raw mode value. Unknown values fall back to student
// so a malformed request still produces a conversational answer.
func ParseMode(v string) Mode {
	if Mode(strings.ToLower(strings.TrimSpace(v))) == ModeTeacher {
		return ModeTeacher
	}
	return ModeStudent
}

// Settings carries the caller's content-generation preferences. All fields are
// free-form strings; range validation is the caller's concern.
type Settings struct {
	ContentType string `json:"content_type"`
	GradeLevel  string `json:"grade_level"`
	Length      string `json:"length"`
	Tone        string `json:"tone"`
}

// Options controls routing for one pipeline invocation.
type Options struct {
	Mode             Mode     `json:"mode"`
	StructuredOutput bool     `json:"structured_output"`
	Fallback         bool     `json:"fallback"`
	Settings         Settings `json:"settings"`
	ThreadID         string   `json:"thread_id,omitempty"`
	UserID           string   `json:"user_id,omitempty"`
}

// Request is the inbound invocation contract: the current question, prior
// turns, and routing options. The caller validates that Question is non-empty
// before invoking the pipeline.
type Request struct {
	Question string            `json:"question"`
	History  []*schema.Message `json:"history,omitempty"`
	Options  Options           `json:"options"`
}

// State is the record threaded through every pipeline stage. It is never
// mutated in place: each agent returns a Patch and the runner produces a new
// snapshot via Merge, so later stages observe all earlier results.
//
// RetrievedContext distinguishes "retrieval skipped" (nil) from "retrieval ran
// and found nothing or failed" (non-nil empty slice).
type State struct {
	Messages         []*schema.Message
	ThreadID         string
	UserID           string
	Mode             Mode
	Settings         Settings
	UserInput        string
	ChatOutput       string
	RetrievedContext []*schema.Document
	PreviewContent   string
	ValidationResult *ValidationResult
	FinalOutput      string
	Error            string
}

// NewState builds the initial snapshot for one invocation from the caller's
// request. The history slice is copied so the caller's slice is never shared.
func NewState(req Request) State {
	msgs := make([]*schema.Message, len(req.History))
	copy(msgs, req.History)
	return State{
		Messages:  msgs,
		ThreadID:  req.Options.ThreadID,
		UserID:    req.Options.UserID,
		Mode:      req.Options.Mode,
		Settings:  req.Options.Settings,
		UserInput: req.Question,
	}
}

// Patch is the subset of State fields an agent produces. Nil fields leave the
// previous snapshot untouched; AppendMessages is additive.
type Patch struct {
	AppendMessages   []*schema.Message
	ChatOutput       *string
	RetrievedContext []*schema.Document
	PreviewContent   *string
	ValidationResult *ValidationResult
	FinalOutput      *string
	Error            *string
}

// Merge returns a new snapshot with the patch applied. Set patch fields
// overwrite, unspecified fields persist and messages are append-only.
func (s State) Merge(p Patch) State {
	next := s
	if len(p.AppendMessages) > 0 {
		msgs := make([]*schema.Message, 0, len(s.Messages)+len(p.AppendMessages))
		msgs = append(msgs, s.Messages...)
		msgs = append(msgs, p.AppendMessages...)
		next.Messages = msgs
	}
	if p.ChatOutput != nil {
		next.ChatOutput = *p.ChatOutput
	}
	if p.RetrievedContext != nil {
		next.RetrievedContext = p.RetrievedContext
	}
	if p.PreviewContent != nil {
		next.PreviewContent = *p.PreviewContent
	}
	if p.ValidationResult != nil {
		next.ValidationResult = p.ValidationResult
	}
	if p.FinalOutput != nil {
		next.FinalOutput = *p.FinalOutput
	}
	if p.Error != nil {
		next.Error = *p.Error
	}
	return next
}

// ErrorPatch builds the terminal patch the runner applies when a stage's own
// execution fails.
func ErrorPatch(message string) Patch {
	return Patch{Error: &message}
}

// ValidationStatus tags the outcome of the mathematical-correctness check.
type ValidationStatus string

const (
	// ValidationValid means no content errors were found.
	ValidationValid ValidationStatus = "valid"
	// ValidationErrorsFound means the checker found content errors; the
	// pipeline continues and reports them as data.
	ValidationErrorsFound ValidationStatus = "errors_found"
	// ValidationInternalError means the checker itself failed. Never fatal.
	ValidationInternalError ValidationStatus = "validation_error"
)

// ValidationIssue describes one content error found by the checker.
type ValidationIssue struct {
	Detail     string `json:"detail"`
	Location   string `json:"location,omitempty"`
	Correction string `json:"correction,omitempty"`
}

// ValidationResult is the tagged outcome of the validation stage.
type ValidationResult struct {
	Status      ValidationStatus  `json:"status"`
	Issues      []ValidationIssue `json:"issues,omitempty"`
	Suggestions []string          `json:"suggestions,omitempty"`
	Message     string            `json:"message,omitempty"`
}

// InternalValidationError builds the result used when the checker itself
// fails, as opposed to finding errors in the content.
func InternalValidationError(message string) *ValidationResult {
	return &ValidationResult{
		Status:  ValidationInternalError,
		Message: message,
	}
}
