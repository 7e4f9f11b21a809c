package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	usererrors "docportal/internal/users/errors"
	"docportal/internal/users/repository"
	"docportal/pkg/config"
	apperrors "docportal/pkg/errors"
	"docportal/pkg/model"
)

type UserService interface {
	List(ctx context.Context) ([]*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, user *model.User) (*model.InsertResult, error)
	IsAdmin(ctx context.Context, email string) (bool, error)
	Promote(ctx context.Context, id string) (*model.UpdateResult, error)
}

type userService struct {
	repo     repository.UserRepository
	validate *validator.Validate
	cfg      *config.Config
}

func NewUserService(repo repository.UserRepository, cfg *config.Config) UserService {
	return &userService{
		repo:     repo,
		validate: validator.New(),
		cfg:      cfg,
	}
}

func (s *userService) List(ctx context.Context) ([]*model.User, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list users", "error", err)
		return nil, apperrors.Internal("Failed to retrieve users", err)
	}
	return users, nil
}

func (s *userService) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.repo.FindByEmail(ctx, email)
}

func (s *userService) Create(ctx context.Context, user *model.User) (*model.InsertResult, error) {
	if err := s.validate.Struct(user); err != nil {
		s.cfg.Log.Warn("User validation failed", "error", err)
		return nil, apperrors.Validation("Invalid user input", map[string]any{"error": err.Error()})
	}

	result, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, usererrors.ErrDuplicateEmail) {
			return nil, apperrors.Conflict("A user with this email already exists")
		}
		s.cfg.Log.Error("Failed to create user", "error", err)
		return nil, apperrors.Internal("Failed to create user", err)
	}

	s.cfg.Log.Info("User created", "id", result.InsertedID, "email", user.Email)
	return result, nil
}

// IsAdmin is the role gate's source of truth. A missing user record is an
// ordinary denial, not an error.
func (s *userService) IsAdmin(ctx context.Context, email string) (bool, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, usererrors.ErrNotFound) {
			return false, nil
		}
		s.cfg.Log.Error("Failed to look up role", "email", email, "error", err)
		return false, apperrors.Internal("Failed to look up role", err)
	}
	return user.IsAdmin(), nil
}

func (s *userService) Promote(ctx context.Context, id string) (*model.UpdateResult, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	result, err := s.repo.PromoteToAdmin(ctx, id)
	if err != nil {
		if errors.Is(err, usererrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid user ID format")
		}
		s.cfg.Log.Error("Failed to promote user", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to promote user", err)
	}

	s.cfg.Log.Info("User promoted to admin", "id", id)
	return result, nil
}
