package llm

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/startup-strategic-planner/agent/contract"
	geminix "github.com/tanpawarit/startup-strategic-planner/pkg/gemini"
	openaicompatx "github.com/tanpawarit/startup-strategic-planner/pkg/openaicompat"
)

// NewCompleter builds the backend selected by cfg. The returned close func
// is never nil.
func NewCompleter(ctx context.Context, cfg Config) (contractx.Completer, func(), error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	noop := func() {}
	switch cfg.backend() {
	case BackendEino:
		compat := cfg.OpenAICompat()
		chatModel, err := compat.New(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
		}
		c, err := NewChatModelCompleter(ctx, chatModel, compat.Model)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("backend", string(BackendEino)).Str("model", compat.Model).Msg("completion backend ready")
		return c, noop, nil

	case BackendGemini:
		gcfg := cfg.Gemini()
		client, err := geminix.NewClient(ctx, gcfg)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
		}
		log.Info().Str("backend", string(BackendGemini)).Str("model", gcfg.ModelName()).Msg("completion backend ready")
		return NewGeminiCompleter(client, gcfg.ModelName()), func() {
			if err := client.Close(); err != nil {
				log.Warn().Err(err).Msg("close gemini client")
			}
		}, nil

	default:
		compat := cfg.OpenAICompat()
		log.Info().Str("backend", string(BackendOpenAI)).Str("model", compat.Model).Str("base_url", compat.BaseURL).Msg("completion backend ready")
		return NewSDKCompleter(openaicompatx.NewClient(compat), compat.Model), noop, nil
	}
}

func pickModel(requested, fallback string) string {
	if requested != "" {
		return requested
	}
	return fallback
}

// classifyCallErr wraps a backend error with the matching generation sentinel.
func classifyCallErr(ctx context.Context, err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(ctx.Err(), context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		return fmt.Errorf("%w: %w", contractx.ErrGenerationTimeout, err)
	default:
		return fmt.Errorf("%w: %w", contractx.ErrGenerationTransport, err)
	}
}
