package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/keyxmakerx/storefront/internal/apperror"
)

// InvalidCredentialsMessage is shown for any failed login. It does not say
// whether the email or the password was wrong.
const InvalidCredentialsMessage = "Invalid credentials. Please try again."

// AuthService defines the business logic contract for authentication.
// Handlers call these methods -- they never touch the repository directly.
type AuthService interface {
	// Login returns the user matching the credentials, or an Unauthorized
	// AppError carrying InvalidCredentialsMessage.
	Login(ctx context.Context, input LoginInput) (*User, error)

	// CurrentUser resolves a session's user ID to a live user. Returns
	// apperror.NotFound for empty or unknown IDs.
	CurrentUser(ctx context.Context, userID string) (*User, error)
}

// authService implements AuthService over a UserRepository.
type authService struct {
	repo UserRepository
}

// NewAuthService creates a new auth service with the given repository.
func NewAuthService(repo UserRepository) AuthService {
	return &authService{repo: repo}
}

// Login authenticates a user by exact email and password match.
func (s *authService) Login(ctx context.Context, input LoginInput) (*User, error) {
	user, err := s.repo.FindByCredentials(ctx, input.Email, input.Password)
	if err != nil {
		if apperror.IsNotFound(err) {
			slog.Info("login failed", slog.String("email", input.Email))
			return nil, apperror.NewUnauthorized(InvalidCredentialsMessage)
		}
		return nil, apperror.NewInternal(fmt.Errorf("finding user: %w", err))
	}

	slog.Info("user logged in",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, nil
}

// CurrentUser resolves a session user ID to a user.
func (s *authService) CurrentUser(ctx context.Context, userID string) (*User, error) {
	if userID == "" {
		return nil, apperror.NewNotFound("user not found")
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, err
		}
		return nil, apperror.NewInternal(fmt.Errorf("finding user by id: %w", err))
	}
	return user, nil
}
