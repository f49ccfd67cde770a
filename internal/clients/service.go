package clients

import (
	"context"

	"github.com/gestor-pm/gestor/internal/shared"
)

// Service wraps client management rules.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a new client.
func (s *Service) Create(ctx context.Context, req CreateClientRequest) (*Client, error) {
	id, err := s.repo.Create(ctx, Client{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		City:    req.City,
		Country: req.Country,
		Contact: req.Contact,
		TaxID:   req.TaxID,
		Notes:   req.Notes,
		Active:  true,
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Get returns a single client.
func (s *Service) Get(ctx context.Context, id int64) (*Client, error) {
	return s.repo.Get(ctx, id)
}

// List returns a filtered page of clients.
func (s *Service) List(ctx context.Context, f ListFilter, p shared.Pagination) ([]Client, int, error) {
	return s.repo.List(ctx, f, p.PerPage, p.Offset())
}

// Update edits a client.
func (s *Service) Update(ctx context.Context, id int64, req UpdateClientRequest) (*Client, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	current.Name = req.Name
	current.Email = req.Email
	current.Phone = req.Phone
	current.Address = req.Address
	current.City = req.City
	current.Country = req.Country
	current.Contact = req.Contact
	current.TaxID = req.TaxID
	current.Notes = req.Notes
	current.Active = req.Active
	if err := s.repo.Update(ctx, *current); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Deactivate soft-deletes a client. Historical quotations keep pointing at it.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	return s.repo.Deactivate(ctx, id)
}
