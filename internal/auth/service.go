package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tasknest/tasknest/internal/user"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailRequired      = errors.New("email is required")
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrPasswordRequired   = errors.New("password is required")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrPasswordTooLong    = errors.New("password must be at most 128 characters")
)

const (
	minPasswordLen = 6
	maxPasswordLen = 128
	maxEmailLen    = 254
)

// UserRepository defines the persistence operations the auth service needs.
// Implemented by user.Repository.
type UserRepository interface {
	Create(ctx context.Context, email, passwordHash string) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// AuthToken is the response payload for a successful login
type AuthToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Service handles authentication business logic
type Service struct {
	userRepo            UserRepository
	tokenService        TokenService
	accessTokenDuration time.Duration
}

func NewService(
	userRepo UserRepository,
	tokenService TokenService,
	accessTokenDuration time.Duration,
) *Service {
	return &Service{
		userRepo:            userRepo,
		tokenService:        tokenService,
		accessTokenDuration: accessTokenDuration,
	}
}

// Signup creates a new user account
func (s *Service) Signup(ctx context.Context, email, password string) (*user.User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}
	if len(password) < minPasswordLen {
		return nil, ErrPasswordTooShort
	}
	if len(password) > maxPasswordLen {
		return nil, ErrPasswordTooLong
	}

	// Fast-path duplicate check; the unique constraint in the repository is
	// the authoritative guard when two signups race past this lookup
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, user.ErrDuplicateEmail
	} else if !errors.Is(err, user.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	passwordHash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	newUser, err := s.userRepo.Create(ctx, email, passwordHash)
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			return nil, user.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return newUser, nil
}

// Login authenticates a user and returns a bearer token. Unknown email and
// wrong password are indistinguishable to the caller: both cost one argon2id
// verification and both return ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthToken, error) {
	normalized, err := normalizeEmail(email)
	if err != nil || password == "" {
		return nil, ErrInvalidCredentials
	}

	existingUser, err := s.userRepo.GetByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			verifyDecoy(password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !VerifyPassword(existingUser.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.tokenService.CreateToken(existingUser.ID, existingUser.Email, s.accessTokenDuration)
	if err != nil {
		return nil, fmt.Errorf("failed to create access token: %w", err)
	}

	return &AuthToken{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.accessTokenDuration.Seconds()),
	}, nil
}

// normalizeEmail validates an email address and lowercases it so that
// uniqueness and lookups are case-insensitive. Only a bare address is
// accepted: name-addr forms like "Alice <a@x.com>" parse, but storing
// anything other than the address itself would corrupt the unique column.
func normalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", ErrEmailRequired
	}
	if len(email) > maxEmailLen {
		return "", ErrInvalidEmailFormat
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmailFormat
	}
	return strings.ToLower(addr.Address), nil
}
