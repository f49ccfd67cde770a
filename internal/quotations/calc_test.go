package quotations

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestLineTotalRoundsHalfUp(t *testing.T) {
	cases := []struct {
		name     string
		item     LineItem
		expected string
	}{
		{"plain", LineItem{Quantity: dec("2"), UnitPrice: dec("100.00")}, "200.00"},
		{"sub-cent price with discount", LineItem{Quantity: dec("1"), UnitPrice: dec("50.005"), DiscountPct: dec("10")}, "45.00"},
		{"half cent rounds up", LineItem{Quantity: dec("1"), UnitPrice: dec("10.005")}, "10.01"},
		{"full discount", LineItem{Quantity: dec("3"), UnitPrice: dec("9.99"), DiscountPct: dec("100")}, "0.00"},
		{"zero price", LineItem{Quantity: dec("5"), UnitPrice: dec("0")}, "0.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			total, err := LineTotal(tc.item)
			if err != nil {
				t.Fatalf("line total: %v", err)
			}
			if total.StringFixed(2) != tc.expected {
				t.Fatalf("expected %s, got %s", tc.expected, total.StringFixed(2))
			}
		})
	}
}

func TestLineTotalRejectsMalformedItems(t *testing.T) {
	cases := []struct {
		name string
		item LineItem
	}{
		{"zero quantity", LineItem{Quantity: dec("0"), UnitPrice: dec("10")}},
		{"negative quantity", LineItem{Quantity: dec("-1"), UnitPrice: dec("10")}},
		{"negative price", LineItem{Quantity: dec("1"), UnitPrice: dec("-0.01")}},
		{"discount above 100", LineItem{Quantity: dec("1"), UnitPrice: dec("10"), DiscountPct: dec("101")}},
		{"negative discount", LineItem{Quantity: dec("1"), UnitPrice: dec("10"), DiscountPct: dec("-5")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LineTotal(tc.item); !errors.Is(err, ErrInvalidLineItem) {
				t.Fatalf("expected ErrInvalidLineItem, got %v", err)
			}
		})
	}
}

func TestComputeTotalsScenario(t *testing.T) {
	items := []LineItem{
		{Quantity: dec("2"), UnitPrice: dec("100.00")},
		{Quantity: dec("1"), UnitPrice: dec("50.005"), DiscountPct: dec("10")},
	}

	totals, err := ComputeTotals(items, dec("5"), dec("19"))
	if err != nil {
		t.Fatalf("compute totals: %v", err)
	}
	if got := totals.Subtotal.StringFixed(2); got != "245.00" {
		t.Fatalf("subtotal: expected 245.00, got %s", got)
	}
	if got := totals.DiscountedSubtotal.StringFixed(2); got != "232.75" {
		t.Fatalf("discounted subtotal: expected 232.75, got %s", got)
	}
	if got := totals.TaxAmount.StringFixed(2); got != "44.22" {
		t.Fatalf("tax: expected 44.22, got %s", got)
	}
	if got := totals.GrandTotal.StringFixed(2); got != "276.97" {
		t.Fatalf("grand total: expected 276.97, got %s", got)
	}
}

func TestComputeTotalsOrderIndependent(t *testing.T) {
	items := []LineItem{
		{Quantity: dec("3"), UnitPrice: dec("33.335")},
		{Quantity: dec("1"), UnitPrice: dec("0.015")},
		{Quantity: dec("7"), UnitPrice: dec("12.49"), DiscountPct: dec("12.5")},
	}
	reversed := []LineItem{items[2], items[1], items[0]}

	a, err := ComputeTotals(items, dec("10"), dec("19"))
	if err != nil {
		t.Fatalf("compute totals: %v", err)
	}
	b, err := ComputeTotals(reversed, dec("10"), dec("19"))
	if err != nil {
		t.Fatalf("compute totals reversed: %v", err)
	}
	if !a.GrandTotal.Equal(b.GrandTotal) || !a.Subtotal.Equal(b.Subtotal) {
		t.Fatalf("totals depend on item order: %+v vs %+v", a, b)
	}
}

// Lines are rounded before summation, which is observable: two 0.005 lines
// contribute 0.02, not the 0.01 a sum-then-round would yield.
func TestComputeTotalsRoundsPerLineBeforeSumming(t *testing.T) {
	items := []LineItem{
		{Quantity: dec("1"), UnitPrice: dec("0.005")},
		{Quantity: dec("1"), UnitPrice: dec("0.005")},
	}
	totals, err := ComputeTotals(items, decimal.Zero, decimal.Zero)
	if err != nil {
		t.Fatalf("compute totals: %v", err)
	}
	if got := totals.Subtotal.StringFixed(2); got != "0.02" {
		t.Fatalf("expected per-line rounding to yield 0.02, got %s", got)
	}
}

func TestComputeTotalsEmptyItems(t *testing.T) {
	totals, err := ComputeTotals(nil, dec("5"), dec("19"))
	if err != nil {
		t.Fatalf("compute totals: %v", err)
	}
	if !totals.Subtotal.IsZero() || !totals.GrandTotal.IsZero() {
		t.Fatalf("expected zero totals for empty item list, got %+v", totals)
	}
}

func TestComputeTotalsRejectsBadLine(t *testing.T) {
	items := []LineItem{
		{Quantity: dec("1"), UnitPrice: dec("10")},
		{Quantity: dec("0"), UnitPrice: dec("10")},
	}
	if _, err := ComputeTotals(items, decimal.Zero, decimal.Zero); !errors.Is(err, ErrInvalidLineItem) {
		t.Fatalf("expected ErrInvalidLineItem, got %v", err)
	}
}

func TestTransitionAllowedEdges(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	q := Quotation{Status: StatusDraft}
	sent, err := Transition(q, StatusSent, now, "")
	if err != nil {
		t.Fatalf("draft->sent: %v", err)
	}
	if sent.Status != StatusSent || sent.SentAt == nil || !sent.SentAt.Equal(now) {
		t.Fatalf("sent transition not stamped: %+v", sent)
	}

	approved, err := Transition(sent, StatusApproved, now, "")
	if err != nil {
		t.Fatalf("sent->approved: %v", err)
	}
	if approved.Status != StatusApproved || approved.ApprovedAt == nil {
		t.Fatalf("approved transition not stamped: %+v", approved)
	}

	recalled, err := Transition(sent, StatusDraft, now, "")
	if err != nil {
		t.Fatalf("sent->draft recall: %v", err)
	}
	if recalled.Status != StatusDraft {
		t.Fatalf("expected recall to Draft, got %s", recalled.Status)
	}
}

func TestTransitionRejectsForbiddenEdges(t *testing.T) {
	now := time.Now()
	forbidden := []struct {
		from, to Status
	}{
		{StatusDraft, StatusApproved},
		{StatusDraft, StatusRejected},
		{StatusApproved, StatusDraft},
		{StatusApproved, StatusSent},
		{StatusApproved, StatusRejected},
		{StatusRejected, StatusDraft},
		{StatusRejected, StatusSent},
		{StatusRejected, StatusApproved},
		{StatusSent, StatusSent},
	}
	for _, edge := range forbidden {
		if _, err := Transition(Quotation{Status: edge.from}, edge.to, now, "reason"); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("%s -> %s: expected ErrInvalidTransition, got %v", edge.from, edge.to, err)
		}
	}
}

func TestTransitionRejectRequiresReason(t *testing.T) {
	now := time.Now()
	q := Quotation{Status: StatusSent}

	if _, err := Transition(q, StatusRejected, now, ""); !errors.Is(err, ErrReasonRequired) {
		t.Fatalf("expected ErrReasonRequired, got %v", err)
	}

	rejected, err := Transition(q, StatusRejected, now, "budget cut")
	if err != nil {
		t.Fatalf("reject with reason: %v", err)
	}
	if rejected.Status != StatusRejected || rejected.RejectionReason == nil || *rejected.RejectionReason != "budget cut" {
		t.Fatalf("rejection not recorded: %+v", rejected)
	}

	// Rejected is terminal.
	for _, target := range []Status{StatusDraft, StatusSent, StatusApproved} {
		if _, err := Transition(rejected, target, now, ""); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("rejected -> %s: expected ErrInvalidTransition, got %v", target, err)
		}
	}
}

func TestTransitionDoesNotMutateInput(t *testing.T) {
	now := time.Now()
	q := Quotation{Status: StatusSent}
	if _, err := Transition(q, StatusApproved, now, ""); err != nil {
		t.Fatalf("transition: %v", err)
	}
	if q.Status != StatusSent || q.ApprovedAt != nil {
		t.Fatalf("input quotation mutated: %+v", q)
	}
}

func TestAssertEditable(t *testing.T) {
	if err := AssertEditable(Quotation{Status: StatusDraft}); err != nil {
		t.Fatalf("draft must be editable: %v", err)
	}
	for _, status := range []Status{StatusSent, StatusApproved, StatusRejected} {
		if err := AssertEditable(Quotation{Status: status}); !errors.Is(err, ErrQuotationLocked) {
			t.Fatalf("%s: expected ErrQuotationLocked, got %v", status, err)
		}
	}
}
