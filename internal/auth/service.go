package auth

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/gestor-pm/gestor/internal/shared"
	"github.com/gestor-pm/gestor/internal/users"
)

// Service wraps authentication business rules.
type Service struct {
	repo users.Repository
}

// NewService constructs a new Service.
func NewService(repo users.Repository) *Service {
	return &Service{repo: repo}
}

// Authenticate validates email/password credentials. All failure modes
// collapse into ErrInvalidCredentials so callers cannot probe for accounts.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*users.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if !user.Active {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// RecordLogin stamps the user's last access time.
func (s *Service) RecordLogin(ctx context.Context, userID int64, at time.Time) error {
	return s.repo.TouchLastLogin(ctx, userID, at)
}
