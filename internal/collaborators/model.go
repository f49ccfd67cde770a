// Package collaborators manages the people who execute project work.
package collaborators

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind classifies a collaborator's contractual relationship.
type Kind string

const (
	KindInternal  Kind = "INTERNAL"
	KindExternal  Kind = "EXTERNAL"
	KindFreelance Kind = "FREELANCE"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindInternal, KindExternal, KindFreelance:
		return true
	}
	return false
}

// Collaborator is a person assignable to projects.
type Collaborator struct {
	ID         int64           `json:"id" db:"id"`
	FirstName  string          `json:"first_name" db:"first_name"`
	LastName   string          `json:"last_name" db:"last_name"`
	Email      string          `json:"email" db:"email"`
	Phone      string          `json:"phone" db:"phone"`
	Role       string          `json:"role" db:"role"`
	Department string          `json:"department" db:"department"`
	Kind       Kind            `json:"kind" db:"kind"`
	HourlyCost decimal.Decimal `json:"hourly_cost" db:"hourly_cost"`
	Skills     []string        `json:"skills" db:"skills"`
	Available  bool            `json:"available" db:"available"`
	Active     bool            `json:"active" db:"active"`
	HiredAt    *time.Time      `json:"hired_at,omitempty" db:"hired_at"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"`
}
