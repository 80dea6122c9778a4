package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY" required:"true"`

	ChatModel      string `envconfig:"CHAT_MODEL" default:"gpt-4o-mini"`
	EmbeddingModel string `envconfig:"EMBEDDING_MODEL" default:"text-embedding-3-small"`
	// EmbeddingDimensions must match the configured embedding model's output
	// width; responses of any other width are rejected.
	EmbeddingDimensions int    `envconfig:"EMBEDDING_DIMENSIONS" default:"1536"`
	WhisperModel        string `envconfig:"WHISPER_MODEL" default:"whisper-1"`
	SpeechModel         string `envconfig:"SPEECH_MODEL" default:"tts-1"`
	SpeechVoice         string `envconfig:"SPEECH_VOICE" default:"alloy"`

	GitHubUsername string `envconfig:"GITHUB_USERNAME" default:"abdullah-khaled0"`
	GitHubToken    string `envconfig:"GITHUB_TOKEN"`

	IndexDir string `envconfig:"INDEX_DIR" default:"knowledge/indexes/repos"`
	TopK     int    `envconfig:"TOP_K" default:"5"`

	// IndexRefreshInterval enables the periodic index rebuild worker when > 0.
	// Zero keeps the build-once cache semantics.
	IndexRefreshInterval time.Duration `envconfig:"INDEX_REFRESH_INTERVAL" default:"0"`

	TurnTimeout time.Duration `envconfig:"TURN_TIMEOUT" default:"120s"`

	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"*"`

	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("SECRETARY", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func (c *Config) HasGitHubToken() bool {
	return c.GitHubToken != ""
}

func (c *Config) HasSentry() bool {
	return c.SentryDSN != ""
}
