package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mkrajewski/task-manager-api/internal/models"
	"github.com/mkrajewski/task-manager-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	// MinPasswordLength is the minimum length of a source password.
	MinPasswordLength = 7

	// bcryptCost matches the reference cost of 8 rounds.
	bcryptCost = 8
)

var (
	ErrEmailRequired      = errors.New("email is required")
	ErrEmailInvalid       = errors.New("email address is invalid")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrPasswordForbidden  = errors.New("password must not contain the word \"password\"")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrUserNotFound       = errors.New("user not found")
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// AuthService owns credential storage: password hashing and verification and
// the per-user set of currently-valid session tokens.
type AuthService struct {
	userRepo repository.UserRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{
		userRepo: userRepo,
	}
}

// NormalizeEmail trims and lowercases an email address. Emails are stored
// and looked up normalized, which makes uniqueness case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Email    string
	Password string
}

// Register validates credentials and persists a new user with an empty
// token set. Only a bcrypt hash of the password is ever stored.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	email := NormalizeEmail(input.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if !emailPattern.MatchString(email) {
		return nil, ErrEmailInvalid
	}

	password := strings.TrimSpace(input.Password)
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if strings.Contains(strings.ToLower(password), "password") {
		return nil, ErrPasswordForbidden
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.userRepo.Create(user); err != nil {
		// The uniqueness pre-check races with concurrent registrations;
		// the unique index is the authority.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the authenticated user. Unknown
// email and wrong password produce the same error.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(NormalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(strings.TrimSpace(input.Password))); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// AddToken appends a session token to the user's stored token set.
func (s *AuthService) AddToken(userID uint64, token string) error {
	if err := s.userRepo.AddToken(&models.AuthToken{UserID: userID, Token: token}); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	return nil
}

// RemoveToken revokes a single session token. The user's other tokens stay
// valid.
func (s *AuthService) RemoveToken(userID uint64, token string) error {
	if err := s.userRepo.RemoveToken(userID, token); err != nil {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	return nil
}

// IsTokenValid reports whether the token is in the user's stored token set.
// A cryptographically valid token that has been revoked fails this check.
func (s *AuthService) IsTokenValid(userID uint64, token string) (bool, error) {
	return s.userRepo.HasToken(userID, token)
}
