package execlog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	contractx "github.com/tanpawarit/startup-strategic-planner/agent/contract"
)

var fixedNow = time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

func TestEntryRender(t *testing.T) {
	t.Parallel()

	e := Entry{
		Timestamp: fixedNow,
		Operation: "review_specific_response",
		Inputs:    Inputs{}.Add("key", "mission").Add("raw_response", "Nova missão").String(),
		Result:    "Nova missão",
		Elapsed:   1234567 * time.Microsecond,
		Profile:   "startup_name | Acme\nmission | Nova missão",
	}

	want := "\n-----\n" +
		"Data/Hora: 2024-03-09 14:05:07\n" +
		"Operação: review_specific_response\n" +
		"Inputs: {key: mission, raw_response: Nova missão}\n" +
		"Result: Nova missão\n" +
		"Tempo de execução (s): 1.2346\n" +
		"Status final de startup_info:\n" +
		"startup_name | Acme\nmission | Nova missão\n" +
		"-----\n"
	if got := e.Render(); got != want {
		t.Fatalf("Render() mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestInputsAddDoesNotAlias(t *testing.T) {
	t.Parallel()

	base := Inputs{}.Add("a", 1)
	left := base.Add("b", 2)
	right := base.Add("c", 3)

	if left.String() != "{a: 1, b: 2}" || right.String() != "{a: 1, c: 3}" {
		t.Fatalf("inputs aliased: %s / %s", left, right)
	}
	if (Inputs{}).String() != "{}" {
		t.Fatalf("empty inputs = %q", Inputs{}.String())
	}
}

func TestRunKeyAndFileName(t *testing.T) {
	t.Parallel()

	key := RunKey(fixedNow, "Acme")
	if key != "2024-03-09 14:05:07_Acme" {
		t.Fatalf("RunKey() = %q", key)
	}
	if got := FileName(key); got != "2024-03-09 14:05:07_Acme_execution_log.txt" {
		t.Fatalf("FileName() = %q", got)
	}
	if got := FileName(RunKey(fixedNow, "a/b\\c")); got != "2024-03-09 14:05:07_a_b_c_execution_log.txt" {
		t.Fatalf("FileName() = %q", got)
	}
}

func TestFileSinkAppendOnly(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx := context.Background()
	runKey := RunKey(fixedNow, "Acme")

	logger, err := Open(ctx, FileSinkFactory{Dir: dir}, runKey, WithClock(func() time.Time { return fixedNow }))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	first, err := logger.Content(ctx)
	if err != nil {
		t.Fatalf("Content() on missing file error = %v", err)
	}
	if first != "" {
		t.Fatalf("missing log should read as empty, got %q", first)
	}

	var previous string
	for i, op := range []string{"__init__", "fill_informations", "response_quality_control"} {
		if err := logger.Append(ctx, op, Inputs{}.Add("i", i), "ok", fixedNow, fixedNow.Add(time.Second), "startup_name | Acme"); err != nil {
			t.Fatalf("Append(%s) error = %v", op, err)
		}
		content, err := logger.Content(ctx)
		if err != nil {
			t.Fatalf("Content() error = %v", err)
		}
		if !strings.HasPrefix(content, previous) {
			t.Fatalf("log is not append-only after %s", op)
		}
		if len(content) <= len(previous) {
			t.Fatalf("log did not grow after %s", op)
		}
		previous = content
	}

	onDisk, err := os.ReadFile(filepath.Join(dir, "2024-03-09 14:05:07_Acme_execution_log.txt"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if string(onDisk) != previous {
		t.Fatal("file content differs from Content()")
	}
	if strings.Count(previous, "Operação: ") != 3 {
		t.Fatalf("expected 3 entries, got %q", previous)
	}
}

func TestFileSinkWriteFailure(t *testing.T) {
	t.Parallel()

	sink := NewFileSink(filepath.Join(t.TempDir(), "missing-dir"), "run")
	logger := New(sink, "run")
	err := logger.Append(context.Background(), "op", Inputs{}, "r", fixedNow, fixedNow, "")
	if !errors.Is(err, contractx.ErrLogSinkUnavailable) {
		t.Fatalf("expected ErrLogSinkUnavailable, got %v", err)
	}
}

type failingSink struct {
	readErr  error
	writeErr error
}

func (f failingSink) Read(ctx context.Context) (string, error) { return "", f.readErr }

func (f failingSink) Append(ctx context.Context, runKey string, e Entry) error { return f.writeErr }

func TestAppendPropagatesSinkErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("disk full")
	for _, sink := range []Sink{failingSink{readErr: boom}, failingSink{writeErr: boom}} {
		err := New(sink, "run").Append(context.Background(), "op", Inputs{}, "r", fixedNow, fixedNow, "")
		if !errors.Is(err, contractx.ErrLogSinkUnavailable) || !errors.Is(err, boom) {
			t.Fatalf("expected wrapped sink error, got %v", err)
		}
	}
}

func TestMemorySinkFactoryReusesSinkPerRun(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := NewMemorySinkFactory()
	a, _ := f.Open(ctx, "a")
	b, _ := f.Open(ctx, "b")
	a2, _ := f.Open(ctx, "a")

	if a != a2 {
		t.Fatal("expected same sink for same run key")
	}
	if a == b {
		t.Fatal("expected different sinks for different run keys")
	}

	if err := New(a, "a").Append(ctx, "op", Inputs{}, "r", fixedNow, fixedNow, ""); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if got := len(f.Sink("a").Entries()); got != 1 {
		t.Fatalf("entries = %d", got)
	}
	if got := len(f.Sink("b").Entries()); got != 0 {
		t.Fatalf("entries = %d", got)
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	if err := (Config{Sink: "file"}).Validate(); err != nil {
		t.Fatalf("file sink: %v", err)
	}
	if err := (Config{Sink: "postgres"}).Validate(); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation for postgres without dsn, got %v", err)
	}
	if err := (Config{Sink: "s3"}).Validate(); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown sink, got %v", err)
	}
}

func TestNewSinkFactoryFile(t *testing.T) {
	t.Parallel()

	factory, closeFn, err := NewSinkFactory(context.Background(), Config{Sink: "FILE", Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("NewSinkFactory() error = %v", err)
	}
	defer closeFn()
	if _, ok := factory.(FileSinkFactory); !ok {
		t.Fatalf("unexpected factory %T", factory)
	}
}
