package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/eduassist/server/internal/agent/graph"
	"github.com/eduassist/server/internal/agent/model"
	"github.com/eduassist/server/internal/agent/repo"
	"github.com/eduassist/server/internal/agent/stream"
	"github.com/eduassist/server/internal/core"
	logx "github.com/eduassist/server/pkg/logger"
	pkgredis "github.com/eduassist/server/pkg/redis"
)

// AppConfig defines all configurable parameters for the pipeline example,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	// Runtime
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	// Infrastructure
	Redis pkgredis.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Pipeline configs
	Chat         model.ChatModelConfig
	Preview      model.PreviewModelConfig
	Validation   model.ValidationModelConfig
	Prompt       model.PromptConfig
	Conversation model.ConversationConfig
	Retrieval    model.RetrievalConfig
}

func main() {
	ctx := context.Background()

	// Load .env file
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Load structured config from env
	var envCfg AppConfig
	if err := envconfig.Process("", &envCfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(envCfg.Environment)})

	rdb, err := envCfg.Redis.New()
	if err != nil {
		log.Fatalf("Failed to initialise Redis client: %v", err)
	}
	defer rdb.Close()

	ttl, err := time.ParseDuration(envCfg.Conversation.TTL)
	if err != nil {
		log.Fatalf("Invalid CONVERSATION_TTL '%s': %v", envCfg.Conversation.TTL, err)
	}

	runner, err := graph.BuildPipeline(ctx, graph.Config{
		APIKey:           envCfg.APIKey,
		BaseURL:          envCfg.BaseURL,
		ChatModel:        envCfg.Chat,
		PreviewModel:     envCfg.Preview,
		ValidationModel:  envCfg.Validation,
		Prompt:           envCfg.Prompt,
		Conversation:     envCfg.Conversation,
		Retrieval:        envCfg.Retrieval,
		ConversationRepo: repo.NewRedisConversationRepository(rdb, ttl),
		PreviewRepo:      repo.NewRedisPreviewRepository(rdb, ttl),
		StageTimeout:     2 * time.Minute,
	})
	if err != nil {
		log.Fatalf("Failed to build pipeline: %v", err)
	}

	requests := []struct {
		description string
		request     model.Request
	}{
		{
			description: "Student asks for an explanation",
			request: model.Request{
				Question: "Explain derivatives",
				Options: model.Options{
					Mode:     model.ModeStudent,
					ThreadID: "demo-thread-1",
					Settings: model.Settings{
						GradeLevel: "11",
						Tone:       "encouraging",
					},
				},
			},
		},
		{
			description: "Teacher requests a worksheet",
			request: model.Request{
				Question: "Make a worksheet on derivatives",
				Options: model.Options{
					Mode:             model.ModeTeacher,
					StructuredOutput: true,
					ThreadID:         "demo-thread-2",
					Settings: model.Settings{
						ContentType: "worksheet",
						GradeLevel:  "12",
						Length:      "10 exercises",
						Tone:        "formal",
					},
				},
			},
		},
	}

	for i, demo := range requests {
		fmt.Printf("\n=== Demo %d: %s ===\n", i+1, demo.description)
		events := runner.Stream(ctx, demo.request)
		if err := stream.WriteNDJSON(ctx, os.Stdout, events); err != nil {
			log.Fatalf("Pipeline stream failed for demo %d: %v", i+1, err)
		}
	}
}
