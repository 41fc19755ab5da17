package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const DefaultModel = "gemini-2.5-flash-lite"

type Config struct {
	APIKey   string `envconfig:"API_KEY" split_words:"true"`
	Model    string `envconfig:"MODEL" split_words:"true" default:"gemini-2.5-flash-lite"`
	Endpoint string `envconfig:"ENDPOINT" split_words:"true"`
}

func (c Config) ModelName() string {
	if v := strings.TrimSpace(c.Model); v != "" {
		return v
	}
	return DefaultModel
}

// NewClient opens a Generative AI client. The caller owns Close.
func NewClient(ctx context.Context, cfg Config) (*genai.Client, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil, fmt.Errorf("gemini: api key is required")
	}

	opts := []option.ClientOption{option.WithAPIKey(key)}
	if v := strings.TrimSpace(cfg.Endpoint); v != "" {
		opts = append(opts, option.WithEndpoint(v))
	}

	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return client, nil
}
