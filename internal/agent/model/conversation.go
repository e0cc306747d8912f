package model

import (
	"context"
	"time"

	"github.com/cloudwego/eino/schema"
)

type ConversationRepository interface {
	// AddMessage appends a message to the conversation history for the given thread
	AddMessage(ctx context.Context, threadID string, message *schema.Message) error

	// LoadHistory retrieves the conversation history for a thread
	LoadHistory(ctx context.Context, threadID string) (*ConversationHistory, error)

	// ClearHistory removes all conversation history for a thread
	ClearHistory(ctx context.Context, threadID string) error

	// GetMessageCount returns the number of messages in the conversation
	GetMessageCount(ctx context.Context, threadID string) (int, error)
}

// ConversationHistory represents loaded conversation data with metadata.
type ConversationHistory struct {
	ThreadID string
	Messages []*schema.Message
}

// PreviewRecord is the persisted form of a drafted artifact, keyed by thread.
type PreviewRecord struct {
	ThreadID         string           `json:"thread_id"`
	UserID           string           `json:"user_id,omitempty"`
	ContentType      string           `json:"content_type,omitempty"`
	Content          string           `json:"content"`
	ValidationStatus ValidationStatus `json:"validation_status,omitempty"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

type PreviewRepository interface {
	// SavePreview upserts the preview record for its thread. Saving the same
	// record twice is idempotent.
	SavePreview(ctx context.Context, record *PreviewRecord) error

	// LoadPreview retrieves the stored preview for a thread, or nil if none.
	LoadPreview(ctx context.Context, threadID string) (*PreviewRecord, error)
}
