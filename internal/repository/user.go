package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"social_network/internal/domain"
	apperrors "social_network/pkg/errors"
	"social_network/pkg/logger"
)

// UserRepository keeps the public profile rows that messages join onto.
type UserRepository interface {
	Upsert(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

type userRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewUserRepository(db *pgxpool.Pool, log logger.Logger) UserRepository {
	return &userRepository{db: db, log: log}
}

func (r *userRepository) Upsert(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, name, image)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, image = EXCLUDED.image
	`

	if _, err := r.db.Exec(ctx, query, user.ID, user.Name, user.Image); err != nil {
		r.log.Error("Failed to upsert user", "error", err, "user_id", user.ID)
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT id, name, image FROM users WHERE id = $1`

	user := &domain.User{}
	err := r.db.QueryRow(ctx, query, id).Scan(&user.ID, &user.Name, &user.Image)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		r.log.Error("Failed to get user", "error", err, "user_id", id)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
