package quotations

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidLineItem indicates a line with non-positive quantity,
	// negative unit price or a discount outside 0-100.
	ErrInvalidLineItem = errors.New("invalid line item")
	// ErrInvalidTransition indicates a status change outside the allowed edges.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrQuotationLocked indicates an item mutation attempt outside Draft.
	ErrQuotationLocked = errors.New("quotation locked")
	// ErrReasonRequired indicates a rejection without a reason.
	ErrReasonRequired = errors.New("rejection reason required")
)

// currencyPlaces is the minor-unit precision used for every monetary figure.
const currencyPlaces = 2

var (
	oneHundred = decimal.NewFromInt(100)
	one        = decimal.NewFromInt(1)
)

// Totals carries the derived monetary figures of a quotation. Every field is
// already rounded to minor-unit precision.
type Totals struct {
	Subtotal           decimal.Decimal `json:"subtotal"`
	DiscountedSubtotal decimal.Decimal `json:"discounted_subtotal"`
	TaxAmount          decimal.Decimal `json:"tax_amount"`
	GrandTotal         decimal.Decimal `json:"grand_total"`
}

// LineTotal computes quantity x unit price less the line discount, rounded
// half-up to minor units. It rejects quantity <= 0, unit price < 0 and
// discounts outside 0-100.
func LineTotal(item LineItem) (decimal.Decimal, error) {
	if !item.Quantity.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: quantity must be positive, got %s", ErrInvalidLineItem, item.Quantity)
	}
	if item.UnitPrice.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: unit price must not be negative, got %s", ErrInvalidLineItem, item.UnitPrice)
	}
	if item.DiscountPct.IsNegative() || item.DiscountPct.GreaterThan(oneHundred) {
		return decimal.Zero, fmt.Errorf("%w: discount must be between 0 and 100, got %s", ErrInvalidLineItem, item.DiscountPct)
	}
	factor := one.Sub(item.DiscountPct.Div(oneHundred))
	return item.Quantity.Mul(item.UnitPrice).Mul(factor).Round(currencyPlaces), nil
}

// ComputeTotals derives subtotal, discounted subtotal, tax and grand total
// from the given items. Each stage is rounded to minor units before feeding
// the next one, so the result matches a human adding rounded line amounts.
// The rounding order is load-bearing: stored quotations were produced this
// way and recomputation must reproduce them exactly.
func ComputeTotals(items []LineItem, globalDiscountPct, taxRatePct decimal.Decimal) (Totals, error) {
	if globalDiscountPct.IsNegative() || globalDiscountPct.GreaterThan(oneHundred) {
		return Totals{}, fmt.Errorf("%w: global discount must be between 0 and 100, got %s", ErrInvalidLineItem, globalDiscountPct)
	}
	if taxRatePct.IsNegative() {
		return Totals{}, fmt.Errorf("%w: tax rate must not be negative, got %s", ErrInvalidLineItem, taxRatePct)
	}

	subtotal := decimal.Zero
	for i, item := range items {
		lineTotal, err := LineTotal(item)
		if err != nil {
			return Totals{}, fmt.Errorf("line %d: %w", i+1, err)
		}
		subtotal = subtotal.Add(lineTotal)
	}
	subtotal = subtotal.Round(currencyPlaces)

	discounted := subtotal.Mul(one.Sub(globalDiscountPct.Div(oneHundred))).Round(currencyPlaces)
	tax := discounted.Mul(taxRatePct.Div(oneHundred)).Round(currencyPlaces)
	grand := discounted.Add(tax).Round(currencyPlaces)

	return Totals{
		Subtotal:           subtotal,
		DiscountedSubtotal: discounted,
		TaxAmount:          tax,
		GrandTotal:         grand,
	}, nil
}

// AssertEditable reports whether the quotation's items may still be mutated.
// Callers must invoke it before touching items; only Draft quotations are
// editable.
func AssertEditable(q Quotation) error {
	if q.Status != StatusDraft {
		return fmt.Errorf("%w: status is %s", ErrQuotationLocked, q.Status)
	}
	return nil
}

// allowedEdges is the full approval state machine. Approved and Rejected are
// terminal; Sent can be recalled to Draft for edits.
var allowedEdges = map[Status][]Status{
	StatusDraft: {StatusSent},
	StatusSent:  {StatusApproved, StatusRejected, StatusDraft},
}

func transitionAllowed(from, to Status) bool {
	for _, t := range allowedEdges[from] {
		if t == to {
			return true
		}
	}
	return false
}

// Transition validates and applies a status change, stamping the relevant
// timestamp from the explicit now argument. The input is not mutated; a
// rejection requires a non-empty reason which is recorded on the result.
func Transition(q Quotation, target Status, now time.Time, reason string) (Quotation, error) {
	if !transitionAllowed(q.Status, target) {
		return Quotation{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, q.Status, target)
	}

	out := q
	switch target {
	case StatusSent:
		out.SentAt = &now
	case StatusApproved:
		out.ApprovedAt = &now
	case StatusRejected:
		if reason == "" {
			return Quotation{}, ErrReasonRequired
		}
		out.RejectedAt = &now
		out.RejectionReason = &reason
	}
	out.Status = target
	return out, nil
}
