package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bluebrandly-api/internal/config"
	"github.com/bluebrandly-api/internal/domain"
)

// Repository provides PostgreSQL-based data access
type Repository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(cfg *config.PostgresConfig, logger *slog.Logger) (*Repository, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.MinConns = int32(cfg.MinConnections)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	return &Repository{
		pool:   pool,
		logger: logger,
	}, nil
}

// Close closes the database connection pool
func (r *Repository) Close() {
	r.pool.Close()
}

// RunMigrations executes database migrations
func (r *Repository) RunMigrations(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS waitlist (
			email VARCHAR(255) PRIMARY KEY,
			status VARCHAR(32) NOT NULL DEFAULT 'pending',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_waitlist_status ON waitlist(status)`,
	}

	for _, migration := range migrations {
		_, err := r.pool.Exec(ctx, migration)
		if err != nil {
			return fmt.Errorf("executing migration: %w", err)
		}
	}

	r.logger.Info("database migrations completed")
	return nil
}

// UpsertWaitlistEntry inserts a waitlist row or, when the email already
// exists, overwrites its status and bumps updated_at. created_at is only
// written on first insert; last write wins, no history.
func (r *Repository) UpsertWaitlistEntry(ctx context.Context, email, status string) error {
	query := `
		INSERT INTO waitlist (email, status, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (email)
		DO UPDATE SET status = $2, updated_at = $3
	`
	now := time.Now()
	_, err := r.pool.Exec(ctx, query, email, status, now)
	if err != nil {
		return fmt.Errorf("upserting waitlist entry: %w", err)
	}
	return nil
}

// GetWaitlistEntry retrieves a waitlist row by email
func (r *Repository) GetWaitlistEntry(ctx context.Context, email string) (*domain.WaitlistEntry, error) {
	query := `
		SELECT email, status, created_at, updated_at
		FROM waitlist
		WHERE email = $1
	`
	var entry domain.WaitlistEntry
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&entry.Email,
		&entry.Status,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("getting waitlist entry: %w", err)
	}
	return &entry, nil
}

// CountWaitlistEntries returns the number of waitlist rows
func (r *Repository) CountWaitlistEntries(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM waitlist`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting waitlist entries: %w", err)
	}
	return count, nil
}

// Ping verifies database connectivity for readiness checks
func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
