package config

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	// Remote generator credentials. An absent key must not fail startup;
	// the first remote call reports a generation error instead.
	TogetherAPIKey  string `envconfig:"TOGETHER_API_KEY"`
	TogetherBaseURL string `envconfig:"TOGETHER_BASE_URL" default:"https://api.together.xyz/v1"`

	ChatModel           string `envconfig:"CHAT_MODEL" default:"mistralai/Mistral-7B-Instruct-v0.2"`
	EmbeddingModel      string `envconfig:"EMBEDDING_MODEL" default:"togethercomputer/m2-bert-80M-8k-retrieval"`
	EmbeddingDimensions int    `envconfig:"EMBEDDING_DIMENSIONS" default:"768"`

	// Generator selects who produces answers: "together" streams from the
	// remote chat-completion API, "ollama" runs a locally served model.
	Generator   string `envconfig:"GENERATOR" default:"together"`
	OllamaURL   string `envconfig:"OLLAMA_URL" default:"http://localhost:11434"`
	OllamaModel string `envconfig:"OLLAMA_MODEL" default:"mistral"`

	StorePath  string `envconfig:"STORE_PATH" default:"chroma_store"`
	Collection string `envconfig:"COLLECTION" default:"resume"`

	ChunkSize    int `envconfig:"CHUNK_SIZE" default:"500"`
	ChunkOverlap int `envconfig:"CHUNK_OVERLAP" default:"50"`
	TopK         int `envconfig:"TOP_K" default:"2"`

	Temperature float32 `envconfig:"TEMPERATURE" default:"0.7"`
	MaxTokens   int     `envconfig:"MAX_TOKENS" default:"300"`

	// PersonalInfo enables the regex shortcut that answers name/email/phone
	// questions without retrieval. RequireContext makes /chat reject
	// questions when retrieval finds nothing.
	PersonalInfo   bool `envconfig:"PERSONAL_INFO" default:"true"`
	RequireContext bool `envconfig:"REQUIRE_CONTEXT" default:"true"`

	CORSOrigin     string `envconfig:"CORS_ORIGIN" default:"http://localhost:3000"`
	MaxUploadBytes int64  `envconfig:"MAX_UPLOAD_BYTES" default:"10485760"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("RESUMECHAT", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.ChunkOverlap >= cfg.ChunkSize {
		return nil, fmt.Errorf("chunk overlap (%d) must be smaller than chunk size (%d)", cfg.ChunkOverlap, cfg.ChunkSize)
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

func (c *Config) HasTogether() bool {
	return c.TogetherAPIKey != ""
}
