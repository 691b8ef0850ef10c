package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/apperrors"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database/users"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// memoryUserStore is an in-memory UserStore.
type memoryUserStore struct {
	byID   map[uint]*entities.User
	nextID uint
	err    error
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{byID: map[uint]*entities.User{}, nextID: 1}
}

func (m *memoryUserStore) CreateUser(in users.NewUser) (*entities.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.byID {
		if u.Email == in.Email {
			return nil, apperrors.Duplicate("user", "email", in.Email)
		}
	}
	role := in.Role
	if role == "" {
		role = entities.UserRoleUser
	}
	name := in.DisplayName
	if name == "" {
		name = entities.DefaultDisplayName(in.Email)
	}
	u := &entities.User{ID: m.nextID, Email: in.Email, PasswordHash: in.PasswordHash, DisplayName: name, Role: role}
	m.byID[u.ID] = u
	m.nextID++
	return u, nil
}

func (m *memoryUserStore) GetUserByID(id uint) (*entities.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return nil, apperrors.NotFound("user", id)
}

func (m *memoryUserStore) GetUserByEmail(email string) (*entities.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.NotFound("user", email)
}

func testAuthConfig(mode config.AuthMode) config.Auth {
	return config.Auth{
		Mode:        mode,
		JWTSecret:   "test-secret",
		TokenExpiry: 30 * time.Minute,
		BcryptCost:  4, // Low cost for faster tests
	}
}

func setupService(t *testing.T) (*Service, *memoryUserStore) {
	t.Helper()
	store := newMemoryUserStore()
	service, err := NewService(store, testAuthConfig(config.AuthModeJWT))
	require.NoError(t, err)
	return service, store
}

func TestService_Register(t *testing.T) {
	service, _ := setupService(t)

	user, err := service.Register("reader@example.com", "password123", "")
	require.NoError(t, err)
	assert.Equal(t, "reader", user.DisplayName)
	assert.Equal(t, entities.UserRoleUser, user.Role)
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.NoError(t, CheckPassword("password123", user.PasswordHash))

	_, err = service.Register("reader@example.com", "password123", "")
	assert.True(t, apperrors.IsConflict(err))

	_, err = service.Register("short@example.com", "short", "")
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "password", verr.Field)
}

func TestService_Login(t *testing.T) {
	service, _ := setupService(t)

	registered, err := service.Register("reader@example.com", "password123", "Reader")
	require.NoError(t, err)

	result, err := service.Login("reader@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "bearer", result.TokenType)
	assert.NotEmpty(t, result.AccessToken)
	assert.Equal(t, registered.ID, result.User.ID)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), result.ExpiresAt, time.Minute)

	user, err := service.Authenticate(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
}

func TestService_Login_InvalidCredentials(t *testing.T) {
	service, _ := setupService(t)

	_, err := service.Register("reader@example.com", "password123", "")
	require.NoError(t, err)

	_, err = service.Login("reader@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = service.Login("nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Login_StoreFailure(t *testing.T) {
	service, store := setupService(t)
	store.err = apperrors.Store("get user by email", errors.New("database is locked"))

	_, err := service.Login("reader@example.com", "password123")
	assert.True(t, apperrors.IsStore(err))
}

func TestService_Authenticate_Errors(t *testing.T) {
	service, store := setupService(t)

	_, err := service.Authenticate("")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = service.Authenticate("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Valid signature for a user that has since been removed.
	user, err := service.Register("gone@example.com", "password123", "")
	require.NoError(t, err)
	result, err := service.Login("gone@example.com", "password123")
	require.NoError(t, err)
	delete(store.byID, user.ID)

	_, err = service.Authenticate(result.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewService_GeneratesSecret(t *testing.T) {
	cfg := testAuthConfig(config.AuthModeJWT)
	cfg.JWTSecret = ""

	first, err := NewService(newMemoryUserStore(), cfg)
	require.NoError(t, err)
	second, err := NewService(newMemoryUserStore(), cfg)
	require.NoError(t, err)

	user, err := first.Register("reader@example.com", "password123", "")
	require.NoError(t, err)
	token, _, err := first.tokens.Issue(user)
	require.NoError(t, err)

	// A token from one process is useless to another with a different secret.
	_, err = second.tokens.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_AuthMode(t *testing.T) {
	service, err := NewService(newMemoryUserStore(), testAuthConfig(config.AuthModeNone))
	require.NoError(t, err)
	assert.False(t, service.IsAuthEnabled())
	assert.Equal(t, config.AuthModeNone, service.GetAuthMode())
}
