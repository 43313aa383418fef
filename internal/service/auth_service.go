package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spec-kit/vectorvault/internal/auth"
	"github.com/spec-kit/vectorvault/internal/config"
	"github.com/spec-kit/vectorvault/internal/domain"
	"github.com/spec-kit/vectorvault/internal/events"
	"github.com/spec-kit/vectorvault/internal/repository"
)

// Tagged results of the authentication operations. Callers map these to
// transport responses; nothing else leaks through.
var (
	// ErrUsernameTaken is returned by Register when the username exists.
	ErrUsernameTaken = errors.New("username already registered")
	// ErrInvalidCredentials covers both unknown username and wrong password,
	// so login failures never reveal whether an account exists.
	ErrInvalidCredentials = errors.New("incorrect username or password")
	// ErrUnauthenticated covers every token failure: missing, malformed,
	// expired, tampered, or a subject that no longer exists.
	ErrUnauthenticated = errors.New("could not validate credentials")
	// ErrInactiveUser means the token is valid but the account is deactivated.
	ErrInactiveUser = errors.New("inactive user")
	// ErrPasswordTooLong rejects passwords beyond the hasher's input limit
	// as caller error rather than an internal hashing failure.
	ErrPasswordTooLong = errors.New("password exceeds 72 bytes")
)

// AuthService coordinates registration, login, and token authentication.
// It holds no mutable state; all mutation goes through the repository.
type AuthService struct {
	users      repository.UserRepository
	hasher     *auth.PasswordHasher
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository, dispatcher events.Dispatcher) *AuthService {
	return &AuthService{
		users:      users,
		hasher:     auth.NewPasswordHasher(cfg.BcryptCost),
		tokenMgr:   auth.NewTokenManager(cfg.SecretKey, cfg.AccessTokenTTL()),
		dispatcher: dispatcher,
	}
}

// Register creates a new credential record. The username uniqueness check is
// ultimately the store's; a losing concurrent registration still surfaces as
// ErrUsernameTaken with no state mutated.
func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	if len(password) > auth.MaxPasswordBytes {
		return nil, ErrPasswordTooLong
	}
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("register %q: %w", username, err)
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	s.publish(ctx, events.EventUserRegistered, user.Username)
	return user, nil
}

// Login verifies the credentials and issues an access token bound to the
// username. Unknown usernames and wrong passwords are indistinguishable.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", time.Time{}, ErrInvalidCredentials
		}
		return "", time.Time{}, err
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", time.Time{}, ErrInvalidCredentials
	}
	return s.tokenMgr.Issue(user.Username)
}

// Authenticate resolves a bearer token to its credential record. The active
// flag is re-read from the store on every call, so deactivation takes effect
// immediately even for tokens issued earlier.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	username, err := s.tokenMgr.Parse(token)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// A token for a deleted user is an invalid token, not a lookup failure.
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}
	return user, nil
}

// ChangePassword verifies the current password before storing the new hash.
// A record that vanished since the token was checked is treated like any
// other invalid token subject.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if len(newPassword) > auth.MaxPasswordBytes {
		return ErrPasswordTooLong
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUnauthenticated
		}
		return err
	}
	if !s.hasher.Verify(currentPassword, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUnauthenticated
		}
		return err
	}

	s.publish(ctx, events.EventPasswordChanged, user.Username)
	return nil
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, username string) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		Type:      eventType,
		Username:  username,
		Timestamp: time.Now(),
	})
}
