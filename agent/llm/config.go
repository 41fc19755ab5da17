package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/startup-strategic-planner/agent/contract"
	geminix "github.com/tanpawarit/startup-strategic-planner/pkg/gemini"
	openaicompatx "github.com/tanpawarit/startup-strategic-planner/pkg/openaicompat"
)

type Backend string

const (
	BackendOpenAI Backend = "openai"
	BackendEino   Backend = "eino"
	BackendGemini Backend = "gemini"
)

type Config struct {
	Backend  Backend       `envconfig:"BACKEND" split_words:"true" default:"openai"`
	BaseURL  string        `envconfig:"BASE_URL" split_words:"true" default:"http://localhost:11434/v1"`
	APIKey   string        `envconfig:"API_KEY" split_words:"true" default:"nokeyneeded"`
	Model    string        `envconfig:"MODEL" split_words:"true" default:"phi3:mini"`
	Timeout  time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"120s"`
	SiteURL  string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName string        `envconfig:"SITE_NAME" split_words:"true"`

	GeminiAPIKey string `envconfig:"GEMINI_API_KEY" split_words:"true"`
}

func (c Config) Validate() error {
	switch c.backend() {
	case BackendOpenAI, BackendEino:
		if strings.TrimSpace(c.Model) == "" {
			return fmt.Errorf("%w: llm model is required", contractx.ErrValidation)
		}
	case BackendGemini:
		if strings.TrimSpace(c.GeminiAPIKey) == "" {
			return fmt.Errorf("%w: gemini api key is required", contractx.ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown llm backend %q", contractx.ErrValidation, c.Backend)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: llm timeout must not be negative", contractx.ErrValidation)
	}
	return nil
}

func (c Config) backend() Backend {
	b := Backend(strings.ToLower(strings.TrimSpace(string(c.Backend))))
	if b == "" {
		return BackendOpenAI
	}
	return b
}

// ModelName is what the execution log records for the session.
func (c Config) ModelName() string {
	if c.backend() == BackendGemini {
		return c.Gemini().ModelName()
	}
	return strings.TrimSpace(c.Model)
}

func (c Config) OpenAICompat() openaicompatx.Config {
	return openaicompatx.Config{
		BaseURL:  strings.TrimSpace(c.BaseURL),
		APIKey:   strings.TrimSpace(c.APIKey),
		Model:    strings.TrimSpace(c.Model),
		Timeout:  c.Timeout,
		SiteURL:  strings.TrimSpace(c.SiteURL),
		SiteName: strings.TrimSpace(c.SiteName),
	}
}

func (c Config) Gemini() geminix.Config {
	model := strings.TrimSpace(c.Model)
	if !strings.HasPrefix(model, "gemini") {
		model = geminix.DefaultModel
	}
	return geminix.Config{
		APIKey: strings.TrimSpace(c.GeminiAPIKey),
		Model:  model,
	}
}
