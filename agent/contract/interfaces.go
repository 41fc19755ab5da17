package contract

import "context"

// Completer is the external text-generation capability.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// BudgetSource supplies the max_tokens value for the next completion.
type BudgetSource interface {
	TokenBudget() int
}
