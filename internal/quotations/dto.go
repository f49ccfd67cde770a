package quotations

import (
	"fmt"
	"time"

	"golang.org/x/text/currency"
)

// LineItemInput is one incoming line of a draft.
type LineItemInput struct {
	Description string `json:"description" validate:"required,max=500"`
	Quantity    string `json:"quantity" validate:"required"`
	UnitPrice   string `json:"unit_price" validate:"required"`
	DiscountPct string `json:"discount_pct" validate:"omitempty"`
}

// CreateQuotationRequest is the payload for opening a draft.
type CreateQuotationRequest struct {
	ClientID          int64           `json:"client_id" validate:"required,gt=0"`
	ProjectID         *int64          `json:"project_id" validate:"omitempty,gt=0"`
	Title             string          `json:"title" validate:"required,max=200"`
	Description       *string         `json:"description" validate:"omitempty,max=2000"`
	Currency          string          `json:"currency" validate:"required,len=3"`
	GlobalDiscountPct string          `json:"global_discount_pct" validate:"omitempty"`
	TaxRatePct        string          `json:"tax_rate_pct" validate:"omitempty"`
	ValidUntil        *time.Time      `json:"valid_until"`
	Items             []LineItemInput `json:"items" validate:"dive"`
}

// UpdateQuotationRequest replaces a draft's header fields and items.
type UpdateQuotationRequest struct {
	Title             string          `json:"title" validate:"required,max=200"`
	Description       *string         `json:"description" validate:"omitempty,max=2000"`
	Currency          string          `json:"currency" validate:"required,len=3"`
	GlobalDiscountPct string          `json:"global_discount_pct" validate:"omitempty"`
	TaxRatePct        string          `json:"tax_rate_pct" validate:"omitempty"`
	ValidUntil        *time.Time      `json:"valid_until"`
	Items             []LineItemInput `json:"items" validate:"dive"`
}

// RejectRequest carries the mandatory rejection reason.
type RejectRequest struct {
	Reason string `json:"reason" validate:"required,max=1000"`
}

// ListFilter narrows quotation listings.
type ListFilter struct {
	ClientID  int64
	ProjectID int64
	Status    Status
	Search    string
}

// ValidateCurrency checks the code against the ISO 4217 registry.
func ValidateCurrency(code string) error {
	if _, err := currency.ParseISO(code); err != nil {
		return fmt.Errorf("unknown currency %q: %w", code, err)
	}
	return nil
}
