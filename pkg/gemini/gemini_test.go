package gemini

import (
	"context"
	"testing"
)

func TestNewClientRequiresAPIKey(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(context.Background(), Config{APIKey: "  "}); err == nil {
		t.Fatal("expected error for empty api key")
	}
}

func TestModelNameDefault(t *testing.T) {
	t.Parallel()

	if got := (Config{}).ModelName(); got != DefaultModel {
		t.Fatalf("ModelName() = %q, want %q", got, DefaultModel)
	}
	if got := (Config{Model: "gemini-pro"}).ModelName(); got != "gemini-pro" {
		t.Fatalf("ModelName() = %q", got)
	}
}
