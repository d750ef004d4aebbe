package service

import (
	"context"

	"shopping-ledger/internal/model"
	"shopping-ledger/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// authService implements AuthService.
type authService struct {
	userRepo repository.UserRepository
	logger   zerolog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, logger zerolog.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		logger:   logger.With().Str("service", "auth").Logger(),
	}
}

// Authenticate validates username/password credentials. Lookup failures and
// password mismatches are indistinguishable to the caller.
func (s *authService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		s.logger.Debug().Str("username", username).Msg("login for unknown user")
		return nil, model.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Debug().Str("username", username).Msg("password mismatch")
		return nil, model.ErrInvalidCredentials
	}

	return user, nil
}

// GetUser retrieves a user by id.
func (s *authService) GetUser(ctx context.Context, id int64) (*model.User, error) {
	return s.userRepo.GetByID(ctx, id)
}
