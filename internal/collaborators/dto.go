package collaborators

import "time"

// CreateCollaboratorRequest is the payload for registering a collaborator.
type CreateCollaboratorRequest struct {
	FirstName  string     `json:"first_name" validate:"required,max=120"`
	LastName   string     `json:"last_name" validate:"required,max=120"`
	Email      string     `json:"email" validate:"required,email"`
	Phone      string     `json:"phone" validate:"max=40"`
	Role       string     `json:"role" validate:"required,max=120"`
	Department string     `json:"department" validate:"max=120"`
	Kind       string     `json:"kind" validate:"required,oneof=INTERNAL EXTERNAL FREELANCE"`
	HourlyCost string     `json:"hourly_cost" validate:"required"`
	Skills     []string   `json:"skills" validate:"dive,max=80"`
	HiredAt    *time.Time `json:"hired_at"`
}

// UpdateCollaboratorRequest is the payload for editing a collaborator.
type UpdateCollaboratorRequest struct {
	FirstName  string     `json:"first_name" validate:"required,max=120"`
	LastName   string     `json:"last_name" validate:"required,max=120"`
	Email      string     `json:"email" validate:"required,email"`
	Phone      string     `json:"phone" validate:"max=40"`
	Role       string     `json:"role" validate:"required,max=120"`
	Department string     `json:"department" validate:"max=120"`
	Kind       string     `json:"kind" validate:"required,oneof=INTERNAL EXTERNAL FREELANCE"`
	HourlyCost string     `json:"hourly_cost" validate:"required"`
	Skills     []string   `json:"skills" validate:"dive,max=80"`
	Available  bool       `json:"available"`
	Active     bool       `json:"active"`
	HiredAt    *time.Time `json:"hired_at"`
}

// ListFilter narrows collaborator listings.
type ListFilter struct {
	Kind          Kind
	OnlyAvailable bool
	OnlyActive    bool
	Search        string
}
