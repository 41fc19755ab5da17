package logx

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestNewRespectsDebugLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&buf, Config{Service: "planner-test"})
	logger.Debug().Msg("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug line written at info level: %s", buf.String())
	}

	logger.Info().Str("stage", "fill_informations").Msg("visible")
	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if line["service"] != "planner-test" || line["stage"] != "fill_informations" || line["message"] != "visible" {
		t.Fatalf("unexpected log line %v", line)
	}
}

func TestNewDebugEnabled(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&buf, Config{Debug: true})
	logger.Debug().Msg("shown")
	if buf.Len() == 0 {
		t.Fatal("expected debug line")
	}
}
