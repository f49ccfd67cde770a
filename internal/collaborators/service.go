package collaborators

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/gestor-pm/gestor/internal/platform/httpx"
	"github.com/gestor-pm/gestor/internal/shared"
)

// Service wraps collaborator management rules.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func parseHourlyCost(raw string) (decimal.Decimal, error) {
	cost, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: hourly_cost is not a number", httpx.ErrValidation)
	}
	if cost.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: hourly_cost must not be negative", httpx.ErrValidation)
	}
	return cost, nil
}

// Create registers a new collaborator.
func (s *Service) Create(ctx context.Context, req CreateCollaboratorRequest) (*Collaborator, error) {
	cost, err := parseHourlyCost(req.HourlyCost)
	if err != nil {
		return nil, err
	}
	id, err := s.repo.Create(ctx, Collaborator{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Phone:      req.Phone,
		Role:       req.Role,
		Department: req.Department,
		Kind:       Kind(req.Kind),
		HourlyCost: cost,
		Skills:     req.Skills,
		Available:  true,
		Active:     true,
		HiredAt:    req.HiredAt,
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Get returns a single collaborator.
func (s *Service) Get(ctx context.Context, id int64) (*Collaborator, error) {
	return s.repo.Get(ctx, id)
}

// List returns a filtered page of collaborators.
func (s *Service) List(ctx context.Context, f ListFilter, p shared.Pagination) ([]Collaborator, int, error) {
	if f.Kind != "" && !f.Kind.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown kind %q", httpx.ErrValidation, f.Kind)
	}
	return s.repo.List(ctx, f, p.PerPage, p.Offset())
}

// Update edits a collaborator.
func (s *Service) Update(ctx context.Context, id int64, req UpdateCollaboratorRequest) (*Collaborator, error) {
	cost, err := parseHourlyCost(req.HourlyCost)
	if err != nil {
		return nil, err
	}
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	current.FirstName = req.FirstName
	current.LastName = req.LastName
	current.Email = req.Email
	current.Phone = req.Phone
	current.Role = req.Role
	current.Department = req.Department
	current.Kind = Kind(req.Kind)
	current.HourlyCost = cost
	current.Skills = req.Skills
	current.Available = req.Available
	current.Active = req.Active
	current.HiredAt = req.HiredAt
	if err := s.repo.Update(ctx, *current); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Deactivate soft-deletes a collaborator.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	return s.repo.Deactivate(ctx, id)
}
