package rigidcosts

import (
	"time"

	"github.com/shopspring/decimal"
)

type Recurrence string

const (
	RecurrenceOneTime Recurrence = "ONE_TIME"
	RecurrenceWeekly  Recurrence = "WEEKLY"
	RecurrenceMonthly Recurrence = "MONTHLY"
	RecurrenceYearly  Recurrence = "YEARLY"
)

// Valid reports whether r is one of the known recurrence kinds.
func (r Recurrence) Valid() bool {
	switch r {
	case RecurrenceOneTime, RecurrenceWeekly, RecurrenceMonthly, RecurrenceYearly:
		return true
	}
	return false
}

// RigidCost is a fixed expense tracked independently of project billing:
// rent, licenses, subscriptions. An absent EndDate means open-ended.
type RigidCost struct {
	ID          int64           `json:"id" db:"id"`
	ProjectID   *int64          `json:"project_id,omitempty" db:"project_id"`
	Name        string          `json:"name" db:"name"`
	Description *string         `json:"description,omitempty" db:"description"`
	Category    string          `json:"category" db:"category"`
	Provider    *string         `json:"provider,omitempty" db:"provider"`
	Currency    string          `json:"currency" db:"currency"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	Recurrence  Recurrence      `json:"recurrence" db:"recurrence"`
	StartDate   time.Time       `json:"start_date" db:"start_date"`
	EndDate     *time.Time      `json:"end_date,omitempty" db:"end_date"`
	Active      bool            `json:"active" db:"active"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// Occurrence is a single dated instance of a cost inside a projection
// window. It is never persisted; the amount always equals the source amount,
// partial periods are not pro-rated.
type Occurrence struct {
	CostID   int64           `json:"cost_id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Date     time.Time       `json:"date"`
	Amount   decimal.Decimal `json:"amount"`
}
