package service

import (
	"context"
	"fmt"
	"strings"

	"social_network/internal/domain"
	"social_network/internal/repository"
	apperrors "social_network/pkg/errors"
	"social_network/pkg/logger"
)

type UserService interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	// Save creates or replaces the profile shown next to a user's messages.
	Save(ctx context.Context, userID, name, image string) (*domain.User, error)
}

type userService struct {
	userRepo repository.UserRepository
	log      logger.Logger
}

func NewUserService(userRepo repository.UserRepository, log logger.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		log:      log,
	}
}

func (s *userService) Get(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, apperrors.ErrBadRequest
	}
	return s.userRepo.GetByID(ctx, userID)
}

func (s *userService) Save(ctx context.Context, userID, name, image string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	if userID == "" || name == "" {
		return nil, fmt.Errorf("%w: id and name are required", apperrors.ErrBadRequest)
	}

	user := &domain.User{ID: userID, Name: name}
	if image != "" {
		user.Image = &image
	}

	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("User profile saved", "user_id", userID)
	return user, nil
}
