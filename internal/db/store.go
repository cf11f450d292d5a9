// Package db persists completed task executions to Postgres. Writes happen
// after the report is final, so a database outage can never fail a task.
package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// Config holds database configuration.
type Config struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"-"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConnections  int           `mapstructure:"max_connections"`
	IdleConnections int           `mapstructure:"idle_connections"`
	MaxLifetime     time.Duration `mapstructure:"max_lifetime"`
}

// ExecutionRecord is one row of task_executions. ToolsInvoked is stored as
// a comma-joined text column, preserving invocation order.
type ExecutionRecord struct {
	ID                uuid.UUID `db:"id"`
	TaskID            string    `db:"task_id"`
	SourceName        string    `db:"source_name"`
	TaskText          string    `db:"task_text"`
	Domain            string    `db:"domain"`
	Query             string    `db:"query"`
	Destination       string    `db:"destination"`
	Response          string    `db:"response"`
	ToolsInvoked      string    `db:"tools_invoked"`
	StepCount         int       `db:"step_count"`
	SearchSucceeded   bool      `db:"search_succeeded"`
	PagesFetched      int       `db:"pages_fetched"`
	DeliveryAttempted bool      `db:"delivery_attempted"`
	DeliverySucceeded bool      `db:"delivery_succeeded"`
	ElapsedSeconds    float64   `db:"elapsed_seconds"`
	CreatedAt         time.Time `db:"created_at"`
}

// JoinTools renders a tool name list for the tools_invoked column.
func JoinTools(tools []string) string {
	return strings.Join(tools, ",")
}

// Store wraps the execution table.
type Store struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewStore opens the connection pool and pings once so bad credentials fail
// at startup.
func NewStore(cfg Config, logger *zap.Logger) (*Store, error) {
	if cfg.MaxConnections == 0 {
		cfg.MaxConnections = 25
	}
	if cfg.IdleConnections == 0 {
		cfg.IdleConnections = 5
	}
	if cfg.MaxLifetime == 0 {
		cfg.MaxLifetime = 5 * time.Minute
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = "disable"
	}

	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)
	pool, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	pool.SetMaxOpenConns(cfg.MaxConnections)
	pool.SetMaxIdleConns(cfg.IdleConnections)
	pool.SetConnMaxLifetime(cfg.MaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.PingContext(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("Execution store initialized",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database),
	)
	return &Store{db: pool, logger: logger}, nil
}

// NewStoreFromDB wires an existing pool, used by tests.
func NewStoreFromDB(pool *sqlx.DB, logger *zap.Logger) *Store {
	return &Store{db: pool, logger: logger}
}

const insertExecution = `
	INSERT INTO task_executions (
		id, task_id, source_name, task_text, domain, query, destination,
		response, tools_invoked, step_count, search_succeeded, pages_fetched,
		delivery_attempted, delivery_succeeded, elapsed_seconds, created_at
	) VALUES (
		:id, :task_id, :source_name, :task_text, :domain, :query, :destination,
		:response, :tools_invoked, :step_count, :search_succeeded, :pages_fetched,
		:delivery_attempted, :delivery_succeeded, :elapsed_seconds, :created_at
	)
	ON CONFLICT (task_id) DO UPDATE SET
		response = EXCLUDED.response,
		tools_invoked = EXCLUDED.tools_invoked,
		step_count = EXCLUDED.step_count,
		search_succeeded = EXCLUDED.search_succeeded,
		pages_fetched = EXCLUDED.pages_fetched,
		delivery_attempted = EXCLUDED.delivery_attempted,
		delivery_succeeded = EXCLUDED.delivery_succeeded,
		elapsed_seconds = EXCLUDED.elapsed_seconds`

// SaveExecution writes one record, idempotent by task_id so a replayed
// persistence attempt updates rather than duplicates.
func (s *Store) SaveExecution(ctx context.Context, rec *ExecutionRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	if _, err := s.db.NamedExecContext(ctx, insertExecution, rec); err != nil {
		return fmt.Errorf("save task execution: %w", err)
	}
	return nil
}

// RecentExecutions returns the newest records, most recent first.
func (s *Store) RecentExecutions(ctx context.Context, limit int) ([]ExecutionRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	var out []ExecutionRecord
	err := s.db.SelectContext(ctx, &out,
		`SELECT id, task_id, source_name, task_text, domain, query, destination,
		        response, tools_invoked, step_count, search_succeeded, pages_fetched,
		        delivery_attempted, delivery_succeeded, elapsed_seconds, created_at
		   FROM task_executions
		  ORDER BY created_at DESC
		  LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list task executions: %w", err)
	}
	return out, nil
}

// Close releases the pool.
func (s *Store) Close() error {
	return s.db.Close()
}
