package execlog

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/startup-strategic-planner/agent/contract"
)

const (
	SinkFile     = "file"
	SinkPostgres = "postgres"
	SinkMemory   = "memory"
)

type Config struct {
	Sink string `envconfig:"SINK" split_words:"true" default:"file"`
	Dir  string `envconfig:"DIR" split_words:"true" default:"."`
	DSN  string `envconfig:"DSN" split_words:"true"`
}

func (c Config) kind() string {
	return strings.ToLower(strings.TrimSpace(c.Sink))
}

func (c Config) Validate() error {
	switch c.kind() {
	case "", SinkFile, SinkMemory:
		return nil
	case SinkPostgres:
		if strings.TrimSpace(c.DSN) == "" {
			return fmt.Errorf("%w: execlog dsn is required for the postgres sink", contractx.ErrValidation)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown execlog sink %q", contractx.ErrValidation, c.Sink)
	}
}

// NewSinkFactory builds the configured factory. The close func is never nil.
func NewSinkFactory(ctx context.Context, cfg Config) (SinkFactory, func(), error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	switch cfg.kind() {
	case SinkPostgres:
		db, err := OpenPostgres(cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", contractx.ErrLogSinkUnavailable, err)
		}
		factory := NewPostgresSinkFactory(db)
		if err := factory.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("%w: %w", contractx.ErrLogSinkUnavailable, err)
		}
		log.Info().Str("sink", SinkPostgres).Msg("execution log sink ready")
		return factory, func() {
			if err := db.Close(); err != nil {
				log.Warn().Err(err).Msg("close execution log db")
			}
		}, nil
	case SinkMemory:
		log.Info().Str("sink", SinkMemory).Msg("execution log sink ready")
		return NewMemorySinkFactory(), func() {}, nil
	default:
		log.Info().Str("sink", SinkFile).Str("dir", cfg.Dir).Msg("execution log sink ready")
		return FileSinkFactory{Dir: cfg.Dir}, func() {}, nil
	}
}
