package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"satoshi-ledger/internal/core/domain"
	"satoshi-ledger/internal/core/ports"
	"satoshi-ledger/pkg/apperror"

	"github.com/rs/zerolog"
)

// UserServiceImpl implements ports.UserService.
type UserServiceImpl struct {
	userRepo ports.UserRepository
	apiKey   APIKeyFunc
	log      zerolog.Logger
}

// NewUserService creates a new UserServiceImpl.
func NewUserService(userRepo ports.UserRepository, apiKey APIKeyFunc, log zerolog.Logger) *UserServiceImpl {
	return &UserServiceImpl{
		userRepo: userRepo,
		apiKey:   apiKey,
		log:      log,
	}
}

// CreateUser registers email. The returned user carries its API key.
func (s *UserServiceImpl) CreateUser(ctx context.Context, email string) (*domain.User, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check email: %w", err))
	}
	if exists {
		return nil, apperror.ErrEmailAlreadyInUse(email)
	}

	user := &domain.User{
		Email:     email,
		APIKey:    s.apiKey(email),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration of the same email
		if errors.Is(err, domain.ErrDuplicateKey) {
			return nil, apperror.ErrEmailAlreadyInUse(email)
		}
		return nil, apperror.InternalError(fmt.Errorf("create user: %w", err))
	}

	s.log.Info().Int64("user_id", user.ID).Msg("user registered")
	return user, nil
}

// ResolveUser maps an API key to its user id.
func (s *UserServiceImpl) ResolveUser(ctx context.Context, apiKey string) (int64, error) {
	if apiKey == "" {
		return 0, apperror.ErrInvalidAPIKey(apiKey)
	}
	user, err := s.userRepo.GetByAPIKey(ctx, apiKey)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("lookup api key: %w", err))
	}
	if user == nil {
		return 0, apperror.ErrInvalidAPIKey(apiKey)
	}
	return user.ID, nil
}
