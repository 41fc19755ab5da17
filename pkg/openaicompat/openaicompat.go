package openaicompat

import (
	"context"
	"fmt"
	"strings"
	"time"

	openaimodel "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultBaseURL points at a local Ollama server.
const DefaultBaseURL = "http://localhost:11434/v1"

type ChatModelBuilder interface {
	New(ctx context.Context) (model.ToolCallingChatModel, error)
}

var _ ChatModelBuilder = (*Config)(nil)

// Config describes any OpenAI-compatible chat completions endpoint
// (Ollama, OpenRouter, OpenAI itself).
type Config struct {
	BaseURL  string        `envconfig:"BASE_URL" split_words:"true" default:"http://localhost:11434/v1"`
	APIKey   string        `envconfig:"API_KEY" split_words:"true" default:"nokeyneeded"`
	Model    string        `envconfig:"MODEL" split_words:"true" default:"phi3:mini"`
	Timeout  time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"120s"`
	SiteURL  string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName string        `envconfig:"SITE_NAME" split_words:"true"`

	// MaxRetries < 0 keeps the SDK default.
	MaxRetries int `envconfig:"MAX_RETRIES" split_words:"true" default:"0"`
}

func (c Config) baseURL() string {
	if trimmed := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/"); trimmed != "" {
		return trimmed
	}
	return DefaultBaseURL
}

func (c Config) headers() map[string]string {
	h := map[string]string{}
	if v := strings.TrimSpace(c.SiteURL); v != "" {
		h["HTTP-Referer"] = v
	}
	if v := strings.TrimSpace(c.SiteName); v != "" {
		h["X-Title"] = v
	}
	return h
}

// New builds an eino chat model for the endpoint. Per-call token limits and
// temperature are passed as model options by the caller.
func (c *Config) New(ctx context.Context) (model.ToolCallingChatModel, error) {
	modelName := strings.TrimSpace(c.Model)
	if modelName == "" {
		return nil, fmt.Errorf("openaicompat: model is required")
	}

	conf := &openaimodel.ChatModelConfig{
		BaseURL: c.baseURL(),
		APIKey:  strings.TrimSpace(c.APIKey),
		Model:   modelName,
		Timeout: c.Timeout,
	}

	m, err := openaimodel.NewChatModel(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("openaicompat: create chat model: %w", err)
	}

	return m, nil
}

// NewClient creates an OpenAI SDK client for the endpoint.
func NewClient(cfg Config) *openaisdk.Client {
	client := openaisdk.NewClient(ClientOptions(cfg)...)
	return &client
}

func ClientOptions(cfg Config) []option.RequestOption {
	opts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
		option.WithBaseURL(cfg.baseURL()),
	}

	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	if cfg.MaxRetries >= 0 {
		opts = append(opts, option.WithMaxRetries(cfg.MaxRetries))
	}

	for k, v := range cfg.headers() {
		opts = append(opts, option.WithHeader(k, v))
	}

	return opts
}
