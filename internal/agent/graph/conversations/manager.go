package conversations

import (
	"context"

	"github.com/cloudwego/eino/schema"

	"github.com/eduassist/server/internal/agent/model"
)

// MessagesManager loads and persists conversation turns for a thread. The
// runner treats it as optional: persistence belongs to the caller's domain,
// the pipeline only keeps the thread's record in step when one is configured.
type MessagesManager struct {
	conversationRepo model.ConversationRepository
	maxTurns         int
}

func NewMessagesManager(conversationRepo model.ConversationRepository, config model.ConversationConfig) *MessagesManager {
	return &MessagesManager{
		conversationRepo: conversationRepo,
		maxTurns:         config.MaxTurns,
	}
}

// History returns the most recent turns for a thread, trimmed to the
// configured window so the prompt context stays bounded.
func (mm *MessagesManager) History(ctx context.Context, threadID string) ([]*schema.Message, error) {
	history, err := mm.conversationRepo.LoadHistory(ctx, threadID)
	if err != nil {
		return nil, err
	}
	return trimTail(history.Messages, mm.maxTurns), nil
}

// SaveUserTurn persists the current question as a user message.
func (mm *MessagesManager) SaveUserTurn(ctx context.Context, threadID string, question string) error {
	return mm.conversationRepo.AddMessage(ctx, threadID, schema.UserMessage(question))
}

// SaveAssistantTurn persists the assistant reply.
func (mm *MessagesManager) SaveAssistantTurn(ctx context.Context, threadID string, content string) error {
	return mm.conversationRepo.AddMessage(ctx, threadID, schema.AssistantMessage(content, nil))
}

// Clear drops the stored history for a thread.
func (mm *MessagesManager) Clear(ctx context.Context, threadID string) error {
	return mm.conversationRepo.ClearHistory(ctx, threadID)
}

// ====================== Helper function ======================
func trimTail(messages []*schema.Message, maxTurns int) []*schema.Message {
	if maxTurns <= 0 || len(messages) <= maxTurns {
		result := make([]*schema.Message, len(messages))
		copy(result, messages)
		return result
	}
	source := messages[len(messages)-maxTurns:]
	result := make([]*schema.Message, len(source))
	copy(result, source)
	return result
}
