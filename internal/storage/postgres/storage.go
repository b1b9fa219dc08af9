package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/polkiloo/leatherdesk/internal/domain/errors"
	"github.com/polkiloo/leatherdesk/internal/domain/repository"
)

const uniqueViolation = "23505"

// pgxPool is the subset of *pgxpool.Pool used by the repositories.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

var _ repository.Factory = (*Storage)(nil)

// New connects to dsn and creates the schema when missing.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// HealthCheck pings the database.
func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping db: %w", err)
	}
	return nil
}

func (s *Storage) Requests() repository.RequestRepository {
	return &requestRepository{storage: s}
}

func (s *Storage) Notifications() repository.NotificationRepository {
	return &notificationRepository{storage: s}
}

func (s *Storage) Admins() repository.AdminRepository {
	return &adminRepository{storage: s}
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS requests (
            id TEXT PRIMARY KEY,
            kind TEXT NOT NULL,
            request_number TEXT NOT NULL,
            status TEXT NOT NULL,
            customer_name TEXT NOT NULL,
            company TEXT NOT NULL DEFAULT '',
            email TEXT NOT NULL,
            phone TEXT NOT NULL DEFAULT '',
            destination TEXT NOT NULL DEFAULT '',
            message TEXT NOT NULL DEFAULT '',
            product_id TEXT NOT NULL DEFAULT '',
            product_name TEXT NOT NULL,
            quantity INTEGER NOT NULL CHECK (quantity > 0),
            currency TEXT NOT NULL DEFAULT 'USD',
            target_price DOUBLE PRECISION,
            proposed_unit_price DOUBLE PRECISION,
            proposed_total_price DOUBLE PRECISION,
            payment_method TEXT NOT NULL DEFAULT '',
            payment_details TEXT NOT NULL DEFAULT '',
            payment_reference TEXT NOT NULL DEFAULT '',
            invoice_id TEXT NOT NULL DEFAULT '',
            admin_comments TEXT NOT NULL DEFAULT '',
            tracking_number TEXT NOT NULL DEFAULT '',
            tracking_link TEXT NOT NULL DEFAULT '',
            shipped_at TIMESTAMPTZ,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            CONSTRAINT requests_kind_number_key UNIQUE (kind, request_number)
        )`,
	`CREATE TABLE IF NOT EXISTS notifications (
            id BIGSERIAL PRIMARY KEY,
            title TEXT NOT NULL,
            message TEXT NOT NULL,
            type TEXT NOT NULL,
            link TEXT NOT NULL DEFAULT '',
            related_id TEXT NOT NULL DEFAULT '',
            read BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
	`CREATE TABLE IF NOT EXISTS admins (
            id BIGSERIAL PRIMARY KEY,
            email TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
	`CREATE INDEX IF NOT EXISTS idx_requests_kind_created ON requests(kind, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_requests_kind_status ON requests(kind, status, updated_at)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_unread ON notifications(read, created_at DESC)`,
}

func (s *Storage) initSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func notFoundOr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domainErrors.ErrNotFound
	}
	return err
}
