package execlog

import (
	"context"
	"strings"
	"sync"
)

// MemorySink keeps the log in process.
type MemorySink struct {
	mu      sync.Mutex
	buf     strings.Builder
	entries []Entry
}

var _ Sink = (*MemorySink)(nil)

func (s *MemorySink) Read(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String(), nil
}

func (s *MemorySink) Append(ctx context.Context, runKey string, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf.WriteString(e.Render())
	s.entries = append(s.entries, e)
	return nil
}

func (s *MemorySink) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// MemorySinkFactory hands out one MemorySink per run key.
type MemorySinkFactory struct {
	mu    sync.Mutex
	sinks map[string]*MemorySink
}

var _ SinkFactory = (*MemorySinkFactory)(nil)

func NewMemorySinkFactory() *MemorySinkFactory {
	return &MemorySinkFactory{sinks: map[string]*MemorySink{}}
}

func (f *MemorySinkFactory) Open(ctx context.Context, runKey string) (Sink, error) {
	return f.Sink(runKey), nil
}

func (f *MemorySinkFactory) Sink(runKey string) *MemorySink {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sinks == nil {
		f.sinks = map[string]*MemorySink{}
	}
	s, ok := f.sinks[runKey]
	if !ok {
		s = &MemorySink{}
		f.sinks[runKey] = s
	}
	return s
}
