package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/vectorvault/internal/auth"
	"github.com/spec-kit/vectorvault/internal/config"
	"github.com/spec-kit/vectorvault/internal/domain"
	"github.com/spec-kit/vectorvault/internal/repository"
)

const testSecret = "test-secret"

func newTestService() (*AuthService, *repository.MemoryUserRepository) {
	repo := repository.NewMemoryUserRepository()
	cfg := config.AuthConfig{
		SecretKey:             testSecret,
		AccessTokenTTLMinutes: 15,
		BcryptCost:            bcrypt.MinCost,
	}
	return NewAuthService(cfg, repo, nil), repo
}

func TestRegister(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "password1")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "password1", user.PasswordHash)
	assert.Equal(t, 1, repo.Count())
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "password1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "different-password")
	assert.ErrorIs(t, err, ErrUsernameTaken)
	assert.Equal(t, 1, repo.Count())
}

func TestRegister_RaceLosesToStoreConstraint(t *testing.T) {
	// When the lookup misses but the insert hits the unique index (a
	// concurrent registration won), the store error still maps to
	// ErrUsernameTaken.
	repo := &createConflictRepo{MemoryUserRepository: repository.NewMemoryUserRepository()}
	cfg := config.AuthConfig{SecretKey: testSecret, AccessTokenTTLMinutes: 15, BcryptCost: bcrypt.MinCost}
	svc := NewAuthService(cfg, repo, nil)

	_, err := svc.Register(context.Background(), "alice", "password1")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRegister_PasswordTooLong(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	// bcrypt cannot hash more than 72 bytes; the service rejects the input
	// up front instead of surfacing a hashing failure.
	_, err := svc.Register(ctx, "alice", strings.Repeat("a", 80))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
	assert.Equal(t, 0, repo.Count())

	_, err = svc.Register(ctx, "alice", strings.Repeat("a", auth.MaxPasswordBytes))
	assert.NoError(t, err)
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "password1")
	require.NoError(t, err)

	token, expiresAt, err := svc.Login(ctx, "alice", "password1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 2*time.Second)
}

func TestLogin_NoExistenceOracle(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "password1")
	require.NoError(t, err)

	_, _, wrongPassErr := svc.Login(ctx, "alice", "wrongpass")
	_, _, ghostErr := svc.Login(ctx, "ghost", "anything")

	assert.ErrorIs(t, wrongPassErr, ErrInvalidCredentials)
	assert.ErrorIs(t, ghostErr, ErrInvalidCredentials)
	assert.Equal(t, wrongPassErr, ghostErr)
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	registered, err := svc.Register(ctx, "alice", "password1")
	require.NoError(t, err)

	token, _, err := svc.Login(ctx, "alice", "password1")
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.Equal(t, "alice", user.Username)
}

func TestAuthenticate_BadTokens(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "password1")
	require.NoError(t, err)

	otherIssuer := auth.NewTokenManager("another-secret", time.Hour)
	wrongKeyToken, _, err := otherIssuer.Issue("alice")
	require.NoError(t, err)

	sameIssuer := auth.NewTokenManager(testSecret, time.Hour)
	expiredToken, _, err := sameIssuer.IssueWithTTL("alice", 0)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not.a.token"},
		{name: "wrong key", token: wrongKeyToken},
		{name: "zero ttl", token: expiredToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Authenticate(ctx, tt.token)
			assert.ErrorIs(t, err, ErrUnauthenticated)
		})
	}
}

func TestAuthenticate_DeactivatedUser(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "password1")
	require.NoError(t, err)

	token, _, err := svc.Login(ctx, "alice", "password1")
	require.NoError(t, err)

	// Valid before deactivation.
	_, err = svc.Authenticate(ctx, token)
	require.NoError(t, err)

	require.NoError(t, repo.SetActive(ctx, "alice", false))

	// Same token afterwards: the active flag is re-read per request.
	_, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, ErrInactiveUser)

	require.NoError(t, repo.SetActive(ctx, "alice", true))
	_, err = svc.Authenticate(ctx, token)
	assert.NoError(t, err)
}

func TestAuthenticate_DeletedSubject(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "password1")
	require.NoError(t, err)

	token, _, err := svc.Login(ctx, "alice", "password1")
	require.NoError(t, err)

	repo.Delete(ctx, "alice")

	_, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestChangePassword(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "old-password")
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, user.ID, "wrong-password", "new-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword(ctx, user.ID, "old-password", "new-password"))

	_, _, err = svc.Login(ctx, "alice", "old-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "alice", "new-password")
	assert.NoError(t, err)
}

func TestChangePassword_NewPasswordTooLong(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "old-password")
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, user.ID, "old-password", strings.Repeat("a", 80))
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	// Rejected before any mutation: the old password still works.
	_, _, err = svc.Login(ctx, "alice", "old-password")
	assert.NoError(t, err)
}

func TestChangePassword_DeletedUser(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "password1")
	require.NoError(t, err)

	repo.Delete(ctx, "alice")

	// A user id that no longer resolves is an authentication failure,
	// not a store error.
	err = svc.ChangePassword(ctx, user.ID, "password1", "new-password")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

// createConflictRepo reports no user on lookup but a duplicate on insert,
// emulating a lost registration race.
type createConflictRepo struct {
	*repository.MemoryUserRepository
}

func (r *createConflictRepo) GetByUsername(_ context.Context, _ string) (*domain.User, error) {
	return nil, repository.ErrNotFound
}

func (r *createConflictRepo) Create(_ context.Context, _ *domain.User) error {
	return repository.ErrDuplicateUsername
}
