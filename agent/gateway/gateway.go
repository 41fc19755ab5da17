package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/startup-strategic-planner/agent/contract"
)

// Temperature is fixed near zero so repeated runs stay close to deterministic.
const Temperature = 0.05

// Result is the outcome of one generation. Stages only look at OK();
// Kind and Err are kept for diagnostics.
type Result struct {
	Text string
	Kind contractx.FailureKind
	Err  error
}

func (r Result) OK() bool {
	return r.Err == nil && r.Text != ""
}

// Value returns the generated text, or "" when the call failed.
func (r Result) Value() string {
	if !r.OK() {
		return ""
	}
	return r.Text
}

// String renders the result for the execution log.
func (r Result) String() string {
	if r.OK() {
		return r.Text
	}
	return fmt.Sprintf("None (%s)", r.Kind)
}

// Generator is what the stages depend on.
type Generator interface {
	Generate(ctx context.Context, prompt string) Result
}

type Config struct {
	Model        string
	SystemPrompt string
	Timeout      time.Duration
}

type Gateway struct {
	completer contractx.Completer
	budget    contractx.BudgetSource
	model     string
	system    string
	timeout   time.Duration
}

var _ Generator = (*Gateway)(nil)

func New(completer contractx.Completer, budget contractx.BudgetSource, cfg Config) (*Gateway, error) {
	if completer == nil {
		return nil, fmt.Errorf("%w: completer is required", contractx.ErrValidation)
	}
	if budget == nil {
		return nil, fmt.Errorf("%w: budget source is required", contractx.ErrValidation)
	}
	if cfg.SystemPrompt == "" {
		return nil, fmt.Errorf("%w: system prompt is required", contractx.ErrValidation)
	}
	return &Gateway{
		completer: completer,
		budget:    budget,
		model:     cfg.Model,
		system:    cfg.SystemPrompt,
		timeout:   cfg.Timeout,
	}, nil
}

// Request builds the two-message exchange for prompt.
func (g *Gateway) Request(prompt string) contractx.CompletionRequest {
	return contractx.CompletionRequest{
		Model: g.model,
		Messages: []contractx.Message{
			{Role: contractx.RoleSystem, Content: g.system},
			{Role: contractx.RoleUser, Content: prompt},
		},
		MaxTokens:   g.budget.TokenBudget(),
		Temperature: Temperature,
	}
}

// Generate never returns an error; any failure becomes a Result with
// OK() == false.
func (g *Gateway) Generate(ctx context.Context, prompt string) Result {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	req := g.Request(prompt)
	started := time.Now()
	text, err := g.completer.Complete(ctx, req)
	if err == nil && text == "" {
		err = fmt.Errorf("%w: empty completion", contractx.ErrMalformedResponse)
	}
	if err != nil {
		kind := Classify(err)
		log.Warn().
			Err(err).
			Str("failure_kind", string(kind)).
			Int("max_tokens", req.MaxTokens).
			Dur("elapsed", time.Since(started)).
			Msg("generation unavailable")
		return Result{Kind: kind, Err: err}
	}

	log.Debug().
		Int("max_tokens", req.MaxTokens).
		Int("chars", len(text)).
		Dur("elapsed", time.Since(started)).
		Msg("generation completed")
	return Result{Text: text}
}

// Classify maps a completer error to a failure kind. Unrecognised errors
// count as transport failures.
func Classify(err error) contractx.FailureKind {
	if err == nil {
		return contractx.FailureNone
	}

	var netErr net.Error
	switch {
	case errors.Is(err, contractx.ErrMalformedResponse):
		return contractx.FailureMalformed
	case errors.Is(err, contractx.ErrGenerationTimeout),
		errors.Is(err, context.DeadlineExceeded):
		return contractx.FailureTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		return contractx.FailureTimeout
	default:
		return contractx.FailureTransport
	}
}
