// Package reports builds the dashboard aggregates served to the front office.
package reports

import (
	"github.com/shopspring/decimal"

	"github.com/gestor-pm/gestor/internal/rigidcosts"
)

// StatusCount is a count plus monetary total for one quotation status.
type StatusCount struct {
	Status string          `json:"status"`
	Count  int             `json:"count"`
	Total  decimal.Decimal `json:"total"`
}

// MonthlyTotal is the approved quotation volume of one calendar month.
type MonthlyTotal struct {
	Month string          `json:"month"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// Dashboard is the landing-page summary.
type Dashboard struct {
	ActiveClients      int             `json:"active_clients"`
	ActiveProjects     int             `json:"active_projects"`
	QuotationsByStatus []StatusCount   `json:"quotations_by_status"`
	ProjectsByStatus   map[string]int  `json:"projects_by_status"`
	ApprovedThisMonth  decimal.Decimal `json:"approved_this_month"`
	MonthlyQuotations  []MonthlyTotal  `json:"monthly_quotations"`
}

// CostReport combines the stored cost breakdown with a projection over the
// coming months.
type CostReport struct {
	ByCategory   []rigidcosts.CategoryTotal    `json:"by_category"`
	ByRecurrence map[string]int                `json:"by_recurrence"`
	Projection   *rigidcosts.ProjectionSummary `json:"projection"`
}

// CollaboratorProductivity is the project load of one active collaborator.
type CollaboratorProductivity struct {
	CollaboratorID int64           `json:"collaborator_id"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Role           string          `json:"role"`
	Projects       int             `json:"projects"`
	AssignedHours  decimal.Decimal `json:"assigned_hours"`
}

// ActiveClient ranks a client by the number of projects contracted.
type ActiveClient struct {
	ClientID int64  `json:"client_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Projects int    `json:"projects"`
}

// FinancialSummary opposes approved quotation income to recurring cost spend.
type FinancialSummary struct {
	ApprovedIncome decimal.Decimal `json:"approved_income"`
	RigidCostSpend decimal.Decimal `json:"rigid_cost_spend"`
	GrossMargin    decimal.Decimal `json:"gross_margin"`
	MarginPct      decimal.Decimal `json:"margin_pct"`
}
