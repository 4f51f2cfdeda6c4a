package services

import (
	"context"
	"log/slog"

	"github.com/Kwanddwo/conflow-service/internal/models"
	"github.com/Kwanddwo/conflow-service/internal/repositories"
)

// userService fronts the external user directory
type userService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewUserService(repo repositories.Repository, logger *slog.Logger) UserService {
	return &userService{
		repo:   repo,
		logger: logger,
	}
}

func (s *userService) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrUserNotFound)
	}
	return user, nil
}

func (s *userService) Search(ctx context.Context, query string, limit int) ([]*models.User, error) {
	users, err := s.repo.User().Search(ctx, query, limit)
	if err != nil {
		return nil, WrapServiceError(ErrCodeInternal, "user search failed", err)
	}
	return users, nil
}
