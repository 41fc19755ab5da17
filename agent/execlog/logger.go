package execlog

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/startup-strategic-planner/agent/contract"
)

// Sink is append-only storage for one run's log.
type Sink interface {
	// Read returns everything written so far. A log that does not exist
	// yet reads as "".
	Read(ctx context.Context) (string, error)
	Append(ctx context.Context, runKey string, e Entry) error
}

// SinkFactory opens the sink for a run.
type SinkFactory interface {
	Open(ctx context.Context, runKey string) (Sink, error)
}

type Logger struct {
	sink   Sink
	runKey string
	now    func() time.Time
}

type Option func(*Logger)

func WithClock(now func() time.Time) Option {
	return func(l *Logger) {
		if now != nil {
			l.now = now
		}
	}
}

func New(sink Sink, runKey string, opts ...Option) *Logger {
	l := &Logger{sink: sink, runKey: runKey, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Open builds a Logger on the sink the factory opens for runKey.
func Open(ctx context.Context, factory SinkFactory, runKey string, opts ...Option) (*Logger, error) {
	if factory == nil {
		return nil, fmt.Errorf("%w: sink factory is required", contractx.ErrLogSinkUnavailable)
	}
	sink, err := factory.Open(ctx, runKey)
	if err != nil {
		return nil, fmt.Errorf("%w: open %q: %w", contractx.ErrLogSinkUnavailable, runKey, err)
	}
	return New(sink, runKey, opts...), nil
}

func (l *Logger) RunKey() string { return l.runKey }

// Append reads the current log, then writes one new entry. The two steps
// are not atomic.
func (l *Logger) Append(ctx context.Context, operation string, inputs fmt.Stringer, result string, start, end time.Time, profileTable string) error {
	previous, err := l.sink.Read(ctx)
	if err != nil {
		return fmt.Errorf("%w: read %q: %w", contractx.ErrLogSinkUnavailable, l.runKey, err)
	}

	in := ""
	if inputs != nil {
		in = inputs.String()
	}
	entry := Entry{
		Timestamp: l.now(),
		Operation: operation,
		Inputs:    in,
		Result:    result,
		Elapsed:   end.Sub(start),
		Profile:   profileTable,
	}
	if err := l.sink.Append(ctx, l.runKey, entry); err != nil {
		return fmt.Errorf("%w: append %q: %w", contractx.ErrLogSinkUnavailable, l.runKey, err)
	}

	log.Debug().
		Str("run_key", l.runKey).
		Str("operation", operation).
		Int("previous_bytes", len(previous)).
		Msg("execution log entry appended")
	return nil
}

// Content returns the full log for the run.
func (l *Logger) Content(ctx context.Context) (string, error) {
	content, err := l.sink.Read(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: read %q: %w", contractx.ErrLogSinkUnavailable, l.runKey, err)
	}
	return content, nil
}
