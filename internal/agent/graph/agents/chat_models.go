package agents

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	einomodel "github.com/cloudwego/eino/components/model"
	"google.golang.org/genai"

	"github.com/eduassist/server/internal/agent/model"
	logx "github.com/eduassist/server/pkg/logger"
)

// ChatModelConfig holds the configuration for chat model creation
type ChatModelConfig struct {
	APIKey           string
	BaseURL          string
	ChatConfig       *model.ChatModelConfig
	PreviewConfig    *model.PreviewModelConfig
	ValidationConfig *model.ValidationModelConfig
}

// ChatModels holds the models backing the chat, preview and validation
// stages. The fields are the Eino chat-model contract so tests can substitute
// deterministic stubs.
type ChatModels struct {
	Chat                einomodel.BaseChatModel
	Preview             einomodel.BaseChatModel
	Validation          einomodel.BaseChatModel
	ChatModelName       string
	PreviewModelName    string
	ValidationModelName string
}

// NewChatModels creates the three stage models with the given configuration
func NewChatModels(ctx context.Context, config ChatModelConfig) (*ChatModels, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = config.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	chatModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.ChatConfig.Model,
		Temperature: &config.ChatConfig.Temperature,
		MaxTokens:   &config.ChatConfig.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating chat model")
		return nil, fmt.Errorf("error creating chat model: %w", err)
	}

	previewModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.PreviewConfig.Model,
		Temperature: &config.PreviewConfig.Temperature,
		MaxTokens:   &config.PreviewConfig.MaxTokens,
		ThinkingConfig: &genai.ThinkingConfig{
			IncludeThoughts: false,
			ThinkingBudget:  genai.Ptr(int32(2000)),
		},
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating preview model")
		return nil, fmt.Errorf("error creating preview model: %w", err)
	}

	validationModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.ValidationConfig.Model,
		Temperature: &config.ValidationConfig.Temperature,
		MaxTokens:   &config.ValidationConfig.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating validation model")
		return nil, fmt.Errorf("error creating validation model: %w", err)
	}

	return &ChatModels{
		Chat:                chatModel,
		Preview:             previewModel,
		Validation:          validationModel,
		ChatModelName:       config.ChatConfig.Model,
		PreviewModelName:    config.PreviewConfig.Model,
		ValidationModelName: config.ValidationConfig.Model,
	}, nil
}
