package gateway

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	contractx "github.com/tanpawarit/startup-strategic-planner/agent/contract"
)

type fakeCompleter struct {
	text  string
	err   error
	block bool
	reqs  []contractx.CompletionRequest
}

func (f *fakeCompleter) Complete(ctx context.Context, req contractx.CompletionRequest) (string, error) {
	f.reqs = append(f.reqs, req)
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.text, f.err
}

type fixedBudget int

func (b fixedBudget) TokenBudget() int { return int(b) }

func newTestGateway(t *testing.T, completer contractx.Completer, budget int, timeout time.Duration) *Gateway {
	t.Helper()
	g, err := New(completer, fixedBudget(budget), Config{Model: "phi3:mini", SystemPrompt: "system", Timeout: timeout})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return g
}

func TestGenerateBuildsTwoMessageExchange(t *testing.T) {
	t.Parallel()

	fake := &fakeCompleter{text: "resposta"}
	g := newTestGateway(t, fake, 400, 0)

	res := g.Generate(context.Background(), "prompt do usuário")
	if !res.OK() || res.Value() != "resposta" {
		t.Fatalf("unexpected result: %#v", res)
	}

	if len(fake.reqs) != 1 {
		t.Fatalf("expected one request, got %d", len(fake.reqs))
	}
	req := fake.reqs[0]
	if len(req.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(req.Messages))
	}
	if req.Messages[0].Role != contractx.RoleSystem || req.Messages[0].Content != "system" {
		t.Fatalf("unexpected system message: %#v", req.Messages[0])
	}
	if req.Messages[1].Role != contractx.RoleUser || req.Messages[1].Content != "prompt do usuário" {
		t.Fatalf("unexpected user message: %#v", req.Messages[1])
	}
	if req.MaxTokens != 400 {
		t.Fatalf("MaxTokens = %d, want 400", req.MaxTokens)
	}
	if req.Temperature != 0.05 {
		t.Fatalf("Temperature = %v, want 0.05", req.Temperature)
	}
	if req.Model != "phi3:mini" {
		t.Fatalf("Model = %q", req.Model)
	}
}

func TestGenerateCollapsesFailures(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		fake *fakeCompleter
		want contractx.FailureKind
	}{
		{"transport", &fakeCompleter{err: errors.New("connection refused")}, contractx.FailureTransport},
		{"wrapped transport", &fakeCompleter{err: fmt.Errorf("%w: status 502", contractx.ErrGenerationTransport)}, contractx.FailureTransport},
		{"timeout", &fakeCompleter{err: fmt.Errorf("%w: slow", contractx.ErrGenerationTimeout)}, contractx.FailureTimeout},
		{"malformed", &fakeCompleter{err: fmt.Errorf("%w: no choices", contractx.ErrMalformedResponse)}, contractx.FailureMalformed},
		{"empty text", &fakeCompleter{text: ""}, contractx.FailureMalformed},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			res := newTestGateway(t, tc.fake, 200, 0).Generate(context.Background(), "p")
			if res.OK() {
				t.Fatalf("expected failure, got %#v", res)
			}
			if res.Value() != "" {
				t.Fatalf("Value() = %q, want empty", res.Value())
			}
			if res.Kind != tc.want {
				t.Fatalf("Kind = %q, want %q", res.Kind, tc.want)
			}
		})
	}
}

func TestGenerateAppliesTimeout(t *testing.T) {
	t.Parallel()

	res := newTestGateway(t, &fakeCompleter{block: true}, 200, 10*time.Millisecond).Generate(context.Background(), "p")
	if res.OK() {
		t.Fatal("expected timeout failure")
	}
	if res.Kind != contractx.FailureTimeout {
		t.Fatalf("Kind = %q, want timeout", res.Kind)
	}
}

func TestResultString(t *testing.T) {
	t.Parallel()

	if got := (Result{Text: "ok"}).String(); got != "ok" {
		t.Fatalf("String() = %q", got)
	}
	if got := (Result{Kind: contractx.FailureTimeout, Err: errors.New("x")}).String(); got != "None (timeout)" {
		t.Fatalf("String() = %q", got)
	}
}

func TestNewValidation(t *testing.T) {
	t.Parallel()

	if _, err := New(nil, fixedBudget(1), Config{SystemPrompt: "s"}); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := New(&fakeCompleter{}, nil, Config{SystemPrompt: "s"}); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := New(&fakeCompleter{}, fixedBudget(1), Config{}); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
