package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"golang.org/x/crypto/bcrypt"

	"github.com/comfortbites/backend/internal/models"
)

// ErrInvalidCredentials is returned for unknown usernames and wrong
// passwords alike so a caller cannot probe which one failed.
var ErrInvalidCredentials = errors.New("invalid username or password")

const (
	minUsernameLength = 3
	minPasswordLength = 6
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// ValidationError reports malformed signup input
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// AuthService validates credentials and manages the session lifecycle
type AuthService struct {
	users    *UserService
	sessions SessionStore
}

// NewAuthService creates a new AuthService instance
func NewAuthService(users *UserService, sessions SessionStore) *AuthService {
	return &AuthService{users: users, sessions: sessions}
}

// Login verifies the credentials and establishes a session. Unknown
// username and password mismatch fail identically.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("login lookup: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("create session: %w", err)
	}
	return user, token, nil
}

// Signup validates the credentials, creates the user, and logs them in
// immediately. Duplicate usernames surface as ErrUsernameTaken from the
// store's unique index.
func (s *AuthService) Signup(ctx context.Context, username, password string) (*models.User, string, error) {
	if err := validateCredentials(username, password); err != nil {
		return nil, "", err
	}

	user, err := s.users.Create(ctx, username, password)
	if err != nil {
		return nil, "", err
	}

	token, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("create session: %w", err)
	}
	return user, token, nil
}

// CurrentUser resolves a session token to a user. A missing or expired
// token means the caller is anonymous, which is not an error.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*models.User, bool, error) {
	userID, ok, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		return nil, false, fmt.Errorf("resolve session: %w", err)
	}
	if !ok {
		return nil, false, nil
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// Session outlived the user record; treat as anonymous.
			return nil, false, nil
		}
		return nil, false, err
	}
	return user, true, nil
}

// Logout invalidates the session token. Calling it with a stale or empty
// token is a no-op.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Destroy(ctx, token)
}

func validateCredentials(username, password string) error {
	if len(username) < minUsernameLength {
		return &ValidationError{Message: "Username must be at least 3 characters"}
	}
	if !usernamePattern.MatchString(username) {
		return &ValidationError{Message: "Username can only contain letters, numbers, and underscores"}
	}
	if len(password) < minPasswordLength {
		return &ValidationError{Message: "Password must be at least 6 characters"}
	}
	return nil
}
