package rigidcosts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"github.com/gestor-pm/gestor/internal/platform/httpx"
	"github.com/gestor-pm/gestor/internal/shared"
)

// Service wraps rigid cost management and projection.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func buildCost(id int64, projectID *int64, name string, description *string, category string,
	provider *string, currencyCode, amount, recurrence string, startDate time.Time,
	endDate *time.Time, active bool) (RigidCost, error) {

	if _, err := currency.ParseISO(currencyCode); err != nil {
		return RigidCost{}, fmt.Errorf("%w: unknown currency %q", httpx.ErrValidation, currencyCode)
	}
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return RigidCost{}, fmt.Errorf("%w: amount is not a number", httpx.ErrValidation)
	}
	if !value.IsPositive() {
		return RigidCost{}, fmt.Errorf("%w: amount must be positive", httpx.ErrValidation)
	}

	cost := RigidCost{
		ID:          id,
		ProjectID:   projectID,
		Name:        name,
		Description: description,
		Category:    category,
		Provider:    provider,
		Currency:    currencyCode,
		Amount:      value,
		Recurrence:  Recurrence(recurrence),
		StartDate:   startDate,
		EndDate:     endDate,
		Active:      active,
	}
	if err := validateCost(cost); err != nil {
		return RigidCost{}, fmt.Errorf("%w: %s", httpx.ErrValidation, err)
	}
	return cost, nil
}

// Create registers a rigid cost after validating its recurrence range.
func (s *Service) Create(ctx context.Context, req CreateCostRequest) (*RigidCost, error) {
	cost, err := buildCost(0, req.ProjectID, req.Name, req.Description, req.Category,
		req.Provider, req.Currency, req.Amount, req.Recurrence, req.StartDate, req.EndDate, true)
	if err != nil {
		return nil, err
	}
	id, err := s.repo.Create(ctx, cost)
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Get returns a single cost record.
func (s *Service) Get(ctx context.Context, id int64) (*RigidCost, error) {
	return s.repo.Get(ctx, id)
}

// List returns a filtered page of cost records.
func (s *Service) List(ctx context.Context, f ListFilter, p shared.Pagination) ([]RigidCost, int, error) {
	if f.Recurrence != "" && !f.Recurrence.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown recurrence %q", httpx.ErrValidation, f.Recurrence)
	}
	return s.repo.List(ctx, f, p.PerPage, p.Offset())
}

// Update edits a cost record.
func (s *Service) Update(ctx context.Context, id int64, req UpdateCostRequest) (*RigidCost, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}
	cost, err := buildCost(id, req.ProjectID, req.Name, req.Description, req.Category,
		req.Provider, req.Currency, req.Amount, req.Recurrence, req.StartDate, req.EndDate, req.Active)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, cost); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Deactivate retires a cost record. Projections skip inactive costs.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	return s.repo.Deactivate(ctx, id)
}

// Projection expands every active cost into the window and aggregates the
// result.
func (s *Service) Projection(ctx context.Context, from, to time.Time) (*ProjectionSummary, error) {
	w, err := NewWindow(from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", httpx.ErrValidation, err)
	}
	costs, err := s.repo.ListAllActive(ctx)
	if err != nil {
		return nil, err
	}
	summary, err := Project(costs, w)
	if err != nil {
		if errors.Is(err, ErrInvalidRecurrenceRange) || errors.Is(err, ErrUnknownRecurrence) {
			return nil, fmt.Errorf("%w: %s", httpx.ErrValidation, err)
		}
		return nil, err
	}
	return &summary, nil
}

// UpcomingRenewals lists the next occurrence of every active cost that falls
// within daysAhead of now.
func (s *Service) UpcomingRenewals(ctx context.Context, daysAhead int) ([]Renewal, error) {
	if daysAhead <= 0 {
		daysAhead = 30
	}
	costs, err := s.repo.ListAllActive(ctx)
	if err != nil {
		return nil, err
	}

	today := dateOnly(s.now())
	w := Window{From: today, To: today.AddDate(0, 0, daysAhead)}

	var renewals []Renewal
	for _, cost := range costs {
		seq, err := Expand(cost, w)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", httpx.ErrValidation, err)
		}
		for occ := range seq {
			renewals = append(renewals, Renewal{
				Cost:    cost,
				DueDate: occ.Date,
				DaysOut: int(occ.Date.Sub(today).Hours() / 24),
			})
			break
		}
	}
	return renewals, nil
}
