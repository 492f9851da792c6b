package postgres_adapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/contextkeys"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port"
)

const createAdminUsersTable = `
CREATE TABLE IF NOT EXISTS admin_users (
	id            UUID PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role          TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL
)`

// UserRepository stores back-office accounts in PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) (*UserRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &UserRepository{pool: pool}, nil
}

// Migrate creates the accounts table when it is missing.
func (r *UserRepository) Migrate(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, createAdminUsersTable); err != nil {
		return fmt.Errorf("failed to create admin_users table: %w", err)
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.AdminUser) error {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "UserRepository",
		"method":    "Create",
		"user_id":   user.ID.String(),
	})

	query := `INSERT INTO admin_users (id, email, password_hash, role, created_at) VALUES ($1, $2, $3, $4, $5)`
	_, err := r.pool.Exec(ctx, query, user.ID, user.Email, user.PasswordHash, user.Role, user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrEmailInUse
		}
		repoLogger.Error("Failed to create user", err, nil)
		return fmt.Errorf("failed to create user: %w", err)
	}

	repoLogger.Debug("User created", nil)
	return nil
}

// FindByEmail returns (nil, nil) when no account matches.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "UserRepository",
		"method":    "FindByEmail",
	})

	query := `SELECT id, email, password_hash, role, created_at FROM admin_users WHERE email = $1`

	var user domain.AdminUser
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		repoLogger.Error("Failed to find user by email", err, nil)
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return &user, nil
}
