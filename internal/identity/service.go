package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials covers both "no such user" and "wrong password" so a
// login failure never reveals whether the email is registered.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrValidation reports missing or malformed registration input.
var ErrValidation = errors.New("validation")

// Service manages the credential lifecycle.
type Service struct {
	repo Repository
}

// NewService creates a new identity service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a credential record with a bcrypt-hashed password.
// Registering an email that already exists returns ErrEmailTaken.
func (s *Service) Register(ctx context.Context, creds Credentials) (User, error) {
	name := strings.TrimSpace(creds.Name)
	email := strings.TrimSpace(strings.ToLower(creds.Email))
	if name == "" || email == "" || creds.Password == "" {
		return User{}, fmt.Errorf("%w: name, email and password are required", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	user := User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return User{}, err
	}

	return user, nil
}

// Authenticate verifies an email/password pair. Any failure, lookup miss or
// hash mismatch alike, collapses to ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, creds Credentials) (User, error) {
	email := strings.TrimSpace(strings.ToLower(creds.Email))

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(creds.Password)); err != nil {
		return User{}, ErrInvalidCredentials
	}

	return user, nil
}
