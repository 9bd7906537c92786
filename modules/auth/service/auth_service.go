package service

import (
	"context"
	"time"

	"stayops/core/cache"
	"stayops/core/config"
	"stayops/core/errors"
	"stayops/core/logger"
	"stayops/core/utils"
	"stayops/modules/auth/dto"
	"stayops/modules/auth/entity"
	"stayops/modules/auth/repository"

	"github.com/google/uuid"
)

// AuthServiceInterface defines the service contract
type AuthServiceInterface interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, *errors.AppError)
	Logout(ctx context.Context, token string) *errors.AppError
	Me(ctx context.Context, userID uuid.UUID) (*entity.User, *errors.AppError)
}

type AuthService struct {
	Repo  repository.UserRepositoryInterface
	Cache cache.Cache
}

func NewAuthService(repo repository.UserRepositoryInterface, c cache.Cache) *AuthService {
	return &AuthService{Repo: repo, Cache: c}
}

// Login verifies credentials and issues a signed token. The same generic
// error covers unknown email and wrong password.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, *errors.AppError) {
	if req.Email == "" || req.Password == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "email and password are required", nil)
	}

	user, err := s.Repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrDatabase, "failed to look up account", nil)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "invalid credentials", nil)
	}

	if err := utils.ComparePassword(user.PasswordHash, req.Password); err != nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "invalid credentials", nil)
	}

	token, err := utils.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to issue token", nil)
	}

	logger.Info("AuthService:Login:Success", "user_id", user.ID, "email", user.Email)
	return &dto.LoginResponse{
		Token: token,
		Email: user.Email,
		Name:  user.Name,
		Role:  string(user.Role),
	}, nil
}

// Logout blacklists the presented token for the remainder of its lifetime.
func (s *AuthService) Logout(ctx context.Context, token string) *errors.AppError {
	if token == "" {
		return errors.NewAppError(errors.ErrInvalidInput, "missing token", nil)
	}

	ttl := 24 * time.Hour
	if cfg, ok := config.GetSafe(); ok {
		ttl = cfg.Auth.TokenTTL
	}
	if s.Cache != nil {
		if err := s.Cache.AddToTokenBlacklist(ctx, token, ttl); err != nil {
			return errors.NewAppError(errors.ErrDependencyUnavailable, "failed to revoke token", nil)
		}
	}
	return nil
}

// Me returns the account behind an authenticated request.
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*entity.User, *errors.AppError) {
	user, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrDatabase, "failed to look up account", nil)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "account not found", nil)
	}
	return user, nil
}
