// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login and profile lookup, and
// mints session tokens for successful authentications.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/server/auth"
	"github.com/dmitrijs2005/taskboard/internal/server/models"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

const minPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// PasswordHasher hashes and checks user passwords.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
	VerifyDummy(plain string)
}

// TokenIssuer mints session tokens.
type TokenIssuer interface {
	Issue(userID, email string) (string, time.Time, error)
}

// Session is the result of a successful registration or login.
type Session struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

// UserService provides authentication-related operations:
// - Register: validate input, create the user and mint a token
// - Login: verify credentials and mint a token
// - GetByID: resolve the identity carried by a token
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      PasswordHasher
	tokens      TokenIssuer
}

// NewUserService constructs a UserService.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher PasswordHasher, tokens TokenIssuer) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
	}
}

// Register validates the input, creates the user and opens a session.
// All validation happens before the datastore is touched.
func (s *UserService) Register(ctx context.Context, email, password, name string) (*Session, error) {
	if email == "" || password == "" || name == "" {
		return nil, common.NewValidationError("Email, password, and name are required")
	}

	email = common.NormalizeEmail(email)
	if !emailPattern.MatchString(email) {
		return nil, common.NewValidationError("Invalid email format")
	}
	if len([]rune(password)) < minPasswordLength {
		return nil, common.NewValidationError("Password must be at least 6 characters long")
	}
	if len(password) > auth.MaxPasswordBytes {
		return nil, common.NewValidationError("Password must be at most 72 bytes long")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, common.NewValidationError("Name cannot be empty")
	}

	repo := s.repomanager.Users(s.db)

	_, err := repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, common.ErrDuplicateEmail
	case !errors.Is(err, common.ErrorNotFound):
		return nil, fmt.Errorf("error checking email: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user, err := repo.Create(ctx, &models.User{Email: email, PasswordHash: hash, Name: name})
	if err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return s.openSession(user)
}

// Login verifies credentials. Unknown email and wrong password are
// indistinguishable to the caller, in result and in timing.
func (s *UserService) Login(ctx context.Context, email, password string) (*Session, error) {
	if email == "" || password == "" {
		return nil, common.NewValidationError("Email and password are required")
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, common.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.VerifyDummy(password)
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error looking up user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	return s.openSession(user)
}

// GetByID returns the user a token refers to, or ErrUserNotFound when the
// account no longer exists.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrUserNotFound
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("error looking up user: %w", err)
	}
	return user, nil
}

func (s *UserService) openSession(user *models.User) (*Session, error) {
	token, expiresAt, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("error issuing token: %w", err)
	}
	return &Session{User: user, Token: token, ExpiresAt: expiresAt}, nil
}
