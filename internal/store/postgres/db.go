package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
)

// Options configures the connection pool and query logging.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration

	// SlowQuery is the duration above which a query is logged at warn
	// level. Zero disables query logging.
	SlowQuery time.Duration
	Log       *slog.Logger
}

// Open connects through the pgx stdlib driver, pings, and wraps the pool in
// a bun.DB with the Postgres dialect.
func Open(ctx context.Context, databaseURL string, opts Options) (*bun.DB, error) {
	sqlDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}
	if opts.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(opts.ConnMaxIdleTime)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	db := bun.NewDB(sqlDB, pgdialect.New())
	if opts.SlowQuery > 0 {
		db.AddQueryHook(newQueryLogger(opts.Log, opts.SlowQuery))
	}
	return db, nil
}

func Close(db *bun.DB) error {
	if db == nil {
		return nil
	}
	return db.Close()
}

// queryLogger reports slow and failed queries. Query text is not logged
// since bun inlines arguments into it.
type queryLogger struct {
	log  *slog.Logger
	slow time.Duration
}

func newQueryLogger(log *slog.Logger, slow time.Duration) *queryLogger {
	if log == nil {
		log = slog.Default()
	}
	return &queryLogger{log: log.With(slog.String("component", "postgres")), slow: slow}
}

func (h *queryLogger) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *queryLogger) AfterQuery(ctx context.Context, e *bun.QueryEvent) {
	took := time.Since(e.StartTime)
	switch {
	case e.Err != nil && !errors.Is(e.Err, sql.ErrNoRows):
		// Constraint violations land here and are mapped by the repos.
		h.log.DebugContext(ctx, "query failed",
			slog.String("operation", e.Operation()),
			slog.Duration("took", took),
			slog.Any("err", e.Err),
		)
	case took >= h.slow:
		h.log.WarnContext(ctx, "slow query",
			slog.String("operation", e.Operation()),
			slog.Duration("took", took),
			slog.Duration("threshold", h.slow),
		)
	}
}

// LogArgs describes the target database for logging without credentials.
func LogArgs(databaseURL string) []any {
	cfg, err := pgconn.ParseConfig(databaseURL)
	if err != nil {
		return []any{slog.String("db_url", "invalid")}
	}

	host, name, port := cfg.Host, cfg.Database, "default"
	if cfg.Port != 0 {
		port = strconv.Itoa(int(cfg.Port))
	}
	if host == "" {
		host = "unknown"
	}
	if name == "" {
		name = "unknown"
	}
	return []any{
		slog.String("db_host", host),
		slog.String("db_port", port),
		slog.String("db_name", name),
	}
}
