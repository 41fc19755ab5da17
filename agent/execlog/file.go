package execlog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

type FileSink struct {
	path string
}

var _ Sink = (*FileSink)(nil)

func NewFileSink(dir, runKey string) *FileSink {
	return &FileSink{path: filepath.Join(dir, FileName(runKey))}
}

func (s *FileSink) Path() string { return s.path }

func (s *FileSink) Read(ctx context.Context) (string, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return string(b), nil
}

func (s *FileSink) Append(ctx context.Context, runKey string, e Entry) error {
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(e.Render()); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return f.Close()
}

// FileSinkFactory writes one file per run under Dir.
type FileSinkFactory struct {
	Dir string
}

var _ SinkFactory = FileSinkFactory{}

func (f FileSinkFactory) Open(ctx context.Context, runKey string) (Sink, error) {
	dir := f.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return NewFileSink(dir, runKey), nil
}
