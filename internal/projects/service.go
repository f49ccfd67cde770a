package projects

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gestor-pm/gestor/internal/platform/httpx"
	"github.com/gestor-pm/gestor/internal/shared"
)

// Service wraps project lifecycle rules.
type Service struct {
	repo  Repository
	audit *shared.AuditRecorder
	now   func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repository, audit *shared.AuditRecorder) *Service {
	return &Service{repo: repo, audit: audit, now: time.Now}
}

func parseAmount(raw, field string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s is not a number", httpx.ErrValidation, field)
	}
	if v.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s must not be negative", httpx.ErrValidation, field)
	}
	return v, nil
}

// Create opens a project in PLANNING.
func (s *Service) Create(ctx context.Context, req CreateProjectRequest) (*Project, error) {
	budget, err := parseAmount(req.Budget, "budget")
	if err != nil {
		return nil, err
	}
	estimated, err := parseAmount(req.EstimatedHours, "estimated_hours")
	if err != nil {
		return nil, err
	}
	if req.StartDate != nil && req.DueDate != nil && req.DueDate.Before(*req.StartDate) {
		return nil, fmt.Errorf("%w: due_date precedes start_date", httpx.ErrValidation)
	}

	priority := Priority(req.Priority)
	if priority == "" {
		priority = PriorityMedium
	}

	id, err := s.repo.Create(ctx, Project{
		ClientID:       req.ClientID,
		Name:           req.Name,
		Description:    req.Description,
		Status:         StatusPlanning,
		Priority:       priority,
		Budget:         budget,
		EstimatedHours: estimated,
		StartDate:      req.StartDate,
		DueDate:        req.DueDate,
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Get returns a single project.
func (s *Service) Get(ctx context.Context, id int64) (*Project, error) {
	return s.repo.Get(ctx, id)
}

// List returns a filtered page of projects.
func (s *Service) List(ctx context.Context, f ListFilter, p shared.Pagination) ([]Project, int, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown status %q", httpx.ErrValidation, f.Status)
	}
	if f.Priority != "" && !f.Priority.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown priority %q", httpx.ErrValidation, f.Priority)
	}
	return s.repo.List(ctx, f, p.PerPage, p.Offset())
}

// Update edits a project's plan fields. Terminal projects are read-only.
func (s *Service) Update(ctx context.Context, id int64, req UpdateProjectRequest) (*Project, error) {
	budget, err := parseAmount(req.Budget, "budget")
	if err != nil {
		return nil, err
	}
	estimated, err := parseAmount(req.EstimatedHours, "estimated_hours")
	if err != nil {
		return nil, err
	}

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status.Terminal() {
		return nil, fmt.Errorf("%w: project is %s", httpx.ErrConflict, current.Status)
	}

	current.Name = req.Name
	current.Description = req.Description
	current.Priority = Priority(req.Priority)
	current.Budget = budget
	current.EstimatedHours = estimated
	current.StartDate = req.StartDate
	current.DueDate = req.DueDate
	if err := s.repo.Update(ctx, *current); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// ChangeStatus moves a project along its lifecycle.
func (s *Service) ChangeStatus(ctx context.Context, id int64, actorID int64, target Status) (*Project, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", httpx.ErrValidation, target)
	}
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ValidateTransition(current.Status, target); err != nil {
		return nil, err
	}

	current.Status = target
	if target == StatusCompleted {
		now := s.now()
		current.CompletedAt = &now
		current.Progress = 100
	}
	if err := s.repo.Update(ctx, *current); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, shared.AuditLog{
		Module:  "projects",
		RefID:   id,
		ActorID: actorID,
		Action:  "status:" + string(target),
	})
	return s.repo.Get(ctx, id)
}

// UpdateProgress records progress and accumulated hours/cost.
func (s *Service) UpdateProgress(ctx context.Context, id int64, req UpdateProgressRequest) (*Project, error) {
	worked, err := parseAmount(req.WorkedHours, "worked_hours")
	if err != nil {
		return nil, err
	}
	actual, err := parseAmount(req.ActualCost, "actual_cost")
	if err != nil {
		return nil, err
	}

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status.Terminal() {
		return nil, fmt.Errorf("%w: project is %s", httpx.ErrConflict, current.Status)
	}

	current.Progress = req.Progress
	if req.WorkedHours != "" {
		current.WorkedHours = worked
	}
	if req.ActualCost != "" {
		current.ActualCost = actual
	}
	if err := s.repo.Update(ctx, *current); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Assign attaches a collaborator with an hour allocation. Re-assigning
// updates the allocation.
func (s *Service) Assign(ctx context.Context, projectID int64, req AssignRequest) error {
	hours, err := parseAmount(req.AssignedHours, "assigned_hours")
	if err != nil {
		return err
	}
	project, err := s.repo.Get(ctx, projectID)
	if err != nil {
		return err
	}
	if project.Status.Terminal() {
		return fmt.Errorf("%w: project is %s", httpx.ErrConflict, project.Status)
	}
	return s.repo.Assign(ctx, Assignment{
		ProjectID:      projectID,
		CollaboratorID: req.CollaboratorID,
		AssignedHours:  hours,
		RoleInProject:  req.RoleInProject,
	})
}

// Unassign detaches a collaborator from a project.
func (s *Service) Unassign(ctx context.Context, projectID, collaboratorID int64) error {
	if _, err := s.repo.Get(ctx, projectID); err != nil {
		return err
	}
	return s.repo.Unassign(ctx, projectID, collaboratorID)
}

// Assignments lists a project's collaborator allocations.
func (s *Service) Assignments(ctx context.Context, projectID int64) ([]Assignment, error) {
	if _, err := s.repo.Get(ctx, projectID); err != nil {
		return nil, err
	}
	return s.repo.Assignments(ctx, projectID)
}

// Stats summarizes the portfolio.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	return s.repo.Stats(ctx, s.now())
}
