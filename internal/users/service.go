package users

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/gestor-pm/gestor/internal/shared"
)

// Service wraps account management rules.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a new account with a bcrypt-hashed password.
func (s *Service) Create(ctx context.Context, req CreateUserRequest) (*User, error) {
	if existing, err := s.repo.FindByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, shared.ErrEmailTaken
	} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := User{
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: string(hash),
		Admin:        req.Admin,
		Active:       true,
	}
	id, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Get returns a single account.
func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	return s.repo.Get(ctx, id)
}

// List returns a page of accounts.
func (s *Service) List(ctx context.Context, p shared.Pagination) ([]User, int, error) {
	return s.repo.List(ctx, p.PerPage, p.Offset())
}

// Update edits an account's profile and flags.
func (s *Service) Update(ctx context.Context, id int64, req UpdateUserRequest) (*User, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Email != req.Email {
		if existing, err := s.repo.FindByEmail(ctx, req.Email); err == nil && existing != nil && existing.ID != id {
			return nil, shared.ErrEmailTaken
		} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	}

	current.Email = req.Email
	current.FirstName = req.FirstName
	current.LastName = req.LastName
	current.Admin = req.Admin
	current.Active = req.Active
	if err := s.repo.Update(ctx, *current); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// ChangePassword replaces an account's password hash.
func (s *Service) ChangePassword(ctx context.Context, id int64, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.SetPasswordHash(ctx, id, string(hash))
}
