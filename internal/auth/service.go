package auth

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mrlokans/bookshelf/internal/apperrors"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database/users"
	"github.com/mrlokans/bookshelf/internal/entities"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrAuthRequired       = errors.New("authentication required")
	ErrForbidden          = errors.New("insufficient permissions")
)

// UserStore is the slice of the users repository the service needs.
type UserStore interface {
	CreateUser(in users.NewUser) (*entities.User, error)
	GetUserByID(id uint) (*entities.User, error)
	GetUserByEmail(email string) (*entities.User, error)
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	ExpiresAt   time.Time      `json:"expires_at"`
	User        *entities.User `json:"user"`
}

// Service handles registration, login and token verification.
type Service struct {
	users  UserStore
	tokens *TokenIssuer
	config config.Auth
}

// NewService creates a new authentication service. When no JWT secret is
// configured a random one is generated, so tokens do not survive a restart.
func NewService(store UserStore, cfg config.Auth) (*Service, error) {
	secret := cfg.JWTSecret
	if secret == "" {
		generated, err := GenerateSecret()
		if err != nil {
			return nil, fmt.Errorf("failed to generate jwt secret: %w", err)
		}
		secret = generated
		if cfg.Mode == config.AuthModeJWT {
			log.Printf("[AUTH] AUTH_JWT_SECRET not set, using a generated secret; tokens will not survive a restart")
		}
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 12
	}
	if cfg.TokenExpiry <= 0 {
		cfg.TokenExpiry = 30 * time.Minute
	}

	return &Service{
		users:  store,
		tokens: NewTokenIssuer([]byte(secret), cfg.TokenExpiry),
		config: cfg,
	}, nil
}

// HashPassword hashes password with the configured cost. Length problems
// come back as validation errors on the password field.
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := HashPassword(password, s.config.BcryptCost)
	if errors.Is(err, ErrPasswordTooShort) || errors.Is(err, ErrPasswordTooLong) {
		return "", apperrors.Validation("password", nil, err.Error())
	}
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, nil
}

// Register creates a USER account.
func (s *Service) Register(email, password, displayName string) (*entities.User, error) {
	return s.CreateUser(email, password, displayName, entities.UserRoleUser)
}

// CreateUser creates an account with an explicit role.
func (s *Service) CreateUser(email, password, displayName string, role entities.UserRole) (*entities.User, error) {
	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, err
	}
	return s.users.CreateUser(users.NewUser{
		Email:        email,
		PasswordHash: hash,
		DisplayName:  displayName,
		Role:         role,
	})
}

// Login checks the credentials and issues an access token. Unknown
// emails and wrong passwords fail the same way.
func (s *Service) Login(email, password string) (*LoginResult, error) {
	user, err := s.users.GetUserByEmail(strings.TrimSpace(email))
	if apperrors.IsNotFound(err) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrInvalidPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
		User:        user,
	}, nil
}

// Authenticate verifies token and loads the user it was issued to.
func (s *Service) Authenticate(token string) (*entities.User, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByID(userID)
	if apperrors.IsNotFound(err) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// IsAuthEnabled returns true if authentication is required.
func (s *Service) IsAuthEnabled() bool {
	return s.config.Mode == config.AuthModeJWT
}

// GetAuthMode returns the current authentication mode.
func (s *Service) GetAuthMode() config.AuthMode {
	return s.config.Mode
}
