package execlog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

type logRow struct {
	bun.BaseModel `bun:"table:execution_logs,alias:el"`

	ID             int64     `bun:"id,pk,autoincrement"`
	RunKey         string    `bun:"run_key,notnull"`
	Operation      string    `bun:"operation,notnull"`
	Inputs         string    `bun:"inputs,notnull"`
	Result         string    `bun:"result,notnull"`
	ElapsedSeconds float64   `bun:"elapsed_seconds,notnull"`
	ProfileTable   string    `bun:"profile_table,notnull"`
	Body           string    `bun:"body,notnull"`
	LoggedAt       time.Time `bun:"logged_at,notnull"`
}

func newLogRow(runKey string, e Entry) *logRow {
	return &logRow{
		RunKey:         runKey,
		Operation:      e.Operation,
		Inputs:         e.Inputs,
		Result:         e.Result,
		ElapsedSeconds: e.Elapsed.Seconds(),
		ProfileTable:   e.Profile,
		Body:           e.Render(),
		LoggedAt:       e.Timestamp,
	}
}

// OpenPostgres returns a bun DB over pgdriver. No connection is made until
// the first query.
func OpenPostgres(dsn string) (*bun.DB, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New()), nil
}

// PostgresSinkFactory stores every run in the execution_logs table.
type PostgresSinkFactory struct {
	db *bun.DB
}

var _ SinkFactory = (*PostgresSinkFactory)(nil)

func NewPostgresSinkFactory(db *bun.DB) *PostgresSinkFactory {
	return &PostgresSinkFactory{db: db}
}

func (f *PostgresSinkFactory) EnsureSchema(ctx context.Context) error {
	if _, err := f.db.NewCreateTable().Model((*logRow)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("create execution_logs: %w", err)
	}
	if _, err := f.db.NewCreateIndex().
		Model((*logRow)(nil)).
		Index("execution_logs_run_key_idx").
		Column("run_key", "id").
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("create execution_logs index: %w", err)
	}
	log.Debug().Msg("execution_logs schema ready")
	return nil
}

func (f *PostgresSinkFactory) Open(ctx context.Context, runKey string) (Sink, error) {
	return &PostgresSink{db: f.db, runKey: runKey}, nil
}

type PostgresSink struct {
	db     *bun.DB
	runKey string
}

var _ Sink = (*PostgresSink)(nil)

func (s *PostgresSink) selectQuery() *bun.SelectQuery {
	return s.db.NewSelect().
		Model((*logRow)(nil)).
		Column("body").
		Where("run_key = ?", s.runKey).
		Order("id ASC")
}

func (s *PostgresSink) Read(ctx context.Context) (string, error) {
	var bodies []string
	if err := s.selectQuery().Scan(ctx, &bodies); err != nil {
		return "", fmt.Errorf("select execution_logs: %w", err)
	}
	return strings.Join(bodies, ""), nil
}

func (s *PostgresSink) insertQuery(runKey string, e Entry) *bun.InsertQuery {
	return s.db.NewInsert().Model(newLogRow(runKey, e))
}

func (s *PostgresSink) Append(ctx context.Context, runKey string, e Entry) error {
	if _, err := s.insertQuery(runKey, e).Exec(ctx); err != nil {
		return fmt.Errorf("insert execution_logs: %w", err)
	}
	return nil
}
