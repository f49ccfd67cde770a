package quotations

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusDraft    Status = "DRAFT"
	StatusSent     Status = "SENT"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// Quotation is the header of a priced offer to a client. Number stays empty
// until the first transition out of Draft, so abandoned drafts never consume
// sequence values.
type Quotation struct {
	ID                 int64           `json:"id" db:"id"`
	Number             string          `json:"number" db:"number"`
	ClientID           int64           `json:"client_id" db:"client_id"`
	ProjectID          *int64          `json:"project_id,omitempty" db:"project_id"`
	Title              string          `json:"title" db:"title"`
	Description        *string         `json:"description,omitempty" db:"description"`
	Currency           string          `json:"currency" db:"currency"`
	GlobalDiscountPct  decimal.Decimal `json:"global_discount_pct" db:"global_discount_pct"`
	TaxRatePct         decimal.Decimal `json:"tax_rate_pct" db:"tax_rate_pct"`
	Status             Status          `json:"status" db:"status"`
	Subtotal           decimal.Decimal `json:"subtotal" db:"subtotal"`
	DiscountedSubtotal decimal.Decimal `json:"discounted_subtotal" db:"discounted_subtotal"`
	TaxAmount          decimal.Decimal `json:"tax_amount" db:"tax_amount"`
	GrandTotal         decimal.Decimal `json:"grand_total" db:"grand_total"`
	ValidUntil         *time.Time      `json:"valid_until,omitempty" db:"valid_until"`
	SentAt             *time.Time      `json:"sent_at,omitempty" db:"sent_at"`
	ApprovedAt         *time.Time      `json:"approved_at,omitempty" db:"approved_at"`
	RejectedAt         *time.Time      `json:"rejected_at,omitempty" db:"rejected_at"`
	RejectionReason    *string         `json:"rejection_reason,omitempty" db:"rejection_reason"`
	CreatedBy          int64           `json:"created_by" db:"created_by"`
	CreatedAt          time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at" db:"updated_at"`
	Items              []LineItem      `json:"items,omitempty" db:"-"`
}

// LineItem is one priced row of a quotation. Order matters for display only;
// totals are independent of it.
type LineItem struct {
	ID          int64           `json:"id" db:"id"`
	QuotationID int64           `json:"quotation_id" db:"quotation_id"`
	Description string          `json:"description" db:"description"`
	Quantity    decimal.Decimal `json:"quantity" db:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price" db:"unit_price"`
	DiscountPct decimal.Decimal `json:"discount_pct" db:"discount_pct"`
	LineOrder   int             `json:"line_order" db:"line_order"`
}

type QuotationWithDetails struct {
	Quotation
	ClientName  string  `json:"client_name" db:"client_name"`
	ProjectName *string `json:"project_name,omitempty" db:"project_name"`
}
