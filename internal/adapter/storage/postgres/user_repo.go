package postgres

import (
	"context"
	"errors"
	"fmt"

	"satoshi-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// UserRepo implements ports.UserRepository.
type UserRepo struct {
	pool Pool
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(pool Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// Create inserts a user and sets its ID.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (email, api_key, created_at) VALUES ($1, $2, $3) RETURNING id`

	if err := r.pool.QueryRow(ctx, query, u.Email, u.APIKey, u.CreatedAt).Scan(&u.ID); err != nil {
		return fmt.Errorf("insert user: %w", uniqueViolation(err))
	}
	return nil
}

// ExistsByEmail reports whether email is registered.
func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return exists, nil
}

// GetByAPIKey fetches the user owning apiKey.
func (r *UserRepo) GetByAPIKey(ctx context.Context, apiKey string) (*domain.User, error) {
	query := `SELECT id, email, api_key, created_at FROM users WHERE api_key = $1`

	u := &domain.User{}
	err := r.pool.QueryRow(ctx, query, apiKey).Scan(&u.ID, &u.Email, &u.APIKey, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by api key: %w", err)
	}
	return u, nil
}
