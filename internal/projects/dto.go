package projects

import "time"

// CreateProjectRequest is the payload for opening a project.
type CreateProjectRequest struct {
	ClientID       int64      `json:"client_id" validate:"required,gt=0"`
	Name           string     `json:"name" validate:"required,max=200"`
	Description    string     `json:"description" validate:"max=2000"`
	Priority       string     `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	Budget         string     `json:"budget" validate:"required"`
	EstimatedHours string     `json:"estimated_hours" validate:"omitempty"`
	StartDate      *time.Time `json:"start_date"`
	DueDate        *time.Time `json:"due_date"`
}

// UpdateProjectRequest is the payload for editing a project's plan fields.
type UpdateProjectRequest struct {
	Name           string     `json:"name" validate:"required,max=200"`
	Description    string     `json:"description" validate:"max=2000"`
	Priority       string     `json:"priority" validate:"required,oneof=LOW MEDIUM HIGH URGENT"`
	Budget         string     `json:"budget" validate:"required"`
	EstimatedHours string     `json:"estimated_hours" validate:"omitempty"`
	StartDate      *time.Time `json:"start_date"`
	DueDate        *time.Time `json:"due_date"`
}

// ChangeStatusRequest moves a project through its lifecycle.
type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PLANNING IN_PROGRESS PAUSED COMPLETED CANCELLED"`
}

// UpdateProgressRequest records progress and hours worked.
type UpdateProgressRequest struct {
	Progress    int    `json:"progress" validate:"min=0,max=100"`
	WorkedHours string `json:"worked_hours" validate:"omitempty"`
	ActualCost  string `json:"actual_cost" validate:"omitempty"`
}

// AssignRequest attaches a collaborator to a project.
type AssignRequest struct {
	CollaboratorID int64  `json:"collaborator_id" validate:"required,gt=0"`
	AssignedHours  string `json:"assigned_hours" validate:"required"`
	RoleInProject  string `json:"role_in_project" validate:"max=120"`
}

// ListFilter narrows project listings.
type ListFilter struct {
	ClientID int64
	Status   Status
	Priority Priority
	Search   string
}
