package model

// ================ Config ================
type ConversationConfig struct {
	TTL      string `envconfig:"CONVERSATION_TTL" default:"15m"`
	MaxTurns int    `envconfig:"CONVERSATION_MAX_TURNS" default:"10"`
}

type ChatModelConfig struct {
	Model       string  `envconfig:"CHAT_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"CHAT_MAX_TOKENS" default:"2048"`
	Temperature float32 `envconfig:"CHAT_TEMPERATURE" default:"0.6"`
}

type PreviewModelConfig struct {
	Model       string  `envconfig:"PREVIEW_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"PREVIEW_MAX_TOKENS" default:"4096"`
	Temperature float32 `envconfig:"PREVIEW_TEMPERATURE" default:"0.3"`
}

type ValidationModelConfig struct {
	Model       string  `envconfig:"VALIDATION_MODEL" default:"gemini-2.5-flash-lite"`
	MaxTokens   int     `envconfig:"VALIDATION_MAX_TOKENS" default:"2048"`
	Temperature float32 `envconfig:"VALIDATION_TEMPERATURE" default:"0.0"`
}

type PromptConfig struct {
	PlatformName string `envconfig:"PROMPT_PLATFORM_NAME" default:"EduAssist"`
	Subject      string `envconfig:"PROMPT_SUBJECT" default:"mathematics"`
}

type RetrievalConfig struct {
	MaxSnippets int `envconfig:"RETRIEVAL_MAX_SNIPPETS" default:"4"`
}
