package rigidcosts

import "time"

// CreateCostRequest is the payload for registering a rigid cost.
type CreateCostRequest struct {
	ProjectID   *int64     `json:"project_id" validate:"omitempty,gt=0"`
	Name        string     `json:"name" validate:"required,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	Category    string     `json:"category" validate:"required,max=120"`
	Provider    *string    `json:"provider" validate:"omitempty,max=200"`
	Currency    string     `json:"currency" validate:"required,len=3"`
	Amount      string     `json:"amount" validate:"required"`
	Recurrence  string     `json:"recurrence" validate:"required,oneof=ONE_TIME WEEKLY MONTHLY YEARLY"`
	StartDate   time.Time  `json:"start_date" validate:"required"`
	EndDate     *time.Time `json:"end_date"`
}

// UpdateCostRequest is the payload for editing a rigid cost.
type UpdateCostRequest struct {
	ProjectID   *int64     `json:"project_id" validate:"omitempty,gt=0"`
	Name        string     `json:"name" validate:"required,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	Category    string     `json:"category" validate:"required,max=120"`
	Provider    *string    `json:"provider" validate:"omitempty,max=200"`
	Currency    string     `json:"currency" validate:"required,len=3"`
	Amount      string     `json:"amount" validate:"required"`
	Recurrence  string     `json:"recurrence" validate:"required,oneof=ONE_TIME WEEKLY MONTHLY YEARLY"`
	StartDate   time.Time  `json:"start_date" validate:"required"`
	EndDate     *time.Time `json:"end_date"`
	Active      bool       `json:"active"`
}

// ListFilter narrows cost listings.
type ListFilter struct {
	Category   string
	Provider   string
	Recurrence Recurrence
	ProjectID  int64
	OnlyActive bool
}

// Renewal is an upcoming occurrence of an active recurring cost, used for
// reminder listings.
type Renewal struct {
	Cost    RigidCost `json:"cost"`
	DueDate time.Time `json:"due_date"`
	DaysOut int       `json:"days_out"`
}
