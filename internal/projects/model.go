// Package projects manages per-client projects and their staffing.
package projects

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gestor-pm/gestor/internal/platform/httpx"
)

// Status is a project's lifecycle state.
type Status string

const (
	StatusPlanning   Status = "PLANNING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusPaused     Status = "PAUSED"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPlanning, StatusInProgress, StatusPaused, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition may leave s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// ValidateTransition checks a status change against the allowed edges.
func ValidateTransition(from, to Status) error {
	allowed := map[Status][]Status{
		StatusPlanning:   {StatusInProgress, StatusCancelled},
		StatusInProgress: {StatusPaused, StatusCompleted, StatusCancelled},
		StatusPaused:     {StatusInProgress, StatusCancelled},
	}
	for _, t := range allowed[from] {
		if t == to {
			return nil
		}
	}
	return fmt.Errorf("%w: cannot move project from %s to %s", httpx.ErrConflict, from, to)
}

// Priority orders projects for planning views.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Project is a unit of client work.
type Project struct {
	ID             int64           `json:"id" db:"id"`
	ClientID       int64           `json:"client_id" db:"client_id"`
	Name           string          `json:"name" db:"name"`
	Description    string          `json:"description" db:"description"`
	Status         Status          `json:"status" db:"status"`
	Priority       Priority        `json:"priority" db:"priority"`
	Budget         decimal.Decimal `json:"budget" db:"budget"`
	ActualCost     decimal.Decimal `json:"actual_cost" db:"actual_cost"`
	EstimatedHours decimal.Decimal `json:"estimated_hours" db:"estimated_hours"`
	WorkedHours    decimal.Decimal `json:"worked_hours" db:"worked_hours"`
	Progress       int             `json:"progress" db:"progress"`
	StartDate      *time.Time      `json:"start_date,omitempty" db:"start_date"`
	DueDate        *time.Time      `json:"due_date,omitempty" db:"due_date"`
	CompletedAt    *time.Time      `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}

// Assignment links a collaborator to a project with an hour allocation.
type Assignment struct {
	ProjectID      int64           `json:"project_id" db:"project_id"`
	CollaboratorID int64           `json:"collaborator_id" db:"collaborator_id"`
	AssignedHours  decimal.Decimal `json:"assigned_hours" db:"assigned_hours"`
	RoleInProject  string          `json:"role_in_project" db:"role_in_project"`
	AssignedAt     time.Time       `json:"assigned_at" db:"assigned_at"`
}

// Stats summarizes the portfolio for dashboards.
type Stats struct {
	Total        int             `json:"total"`
	ByStatus     map[Status]int  `json:"by_status"`
	TotalBudget  decimal.Decimal `json:"total_budget"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	AvgProgress  float64         `json:"avg_progress"`
	OverdueCount int             `json:"overdue_count"`
}
