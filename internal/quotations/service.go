package quotations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gestor-pm/gestor/internal/platform/httpx"
	"github.com/gestor-pm/gestor/internal/shared"
)

// Service drives the quotation lifecycle. Totals are always recomputed from
// the submitted items; figures sent by the client are never trusted.
type Service struct {
	repo     Repository
	numberer *Numberer
	audit    *shared.AuditRecorder
	now      func() time.Time
}

// NewService constructs a Service. The repository doubles as the sequence
// claim source.
func NewService(repo Repository, audit *shared.AuditRecorder) *Service {
	return &Service{
		repo:     repo,
		numberer: NewNumberer(repo),
		audit:    audit,
		now:      time.Now,
	}
}

func parsePct(raw, field string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s is not a number", httpx.ErrValidation, field)
	}
	return v, nil
}

func buildItems(inputs []LineItemInput) ([]LineItem, error) {
	items := make([]LineItem, 0, len(inputs))
	for i, in := range inputs {
		qty, err := decimal.NewFromString(in.Quantity)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d quantity is not a number", httpx.ErrValidation, i+1)
		}
		price, err := decimal.NewFromString(in.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d unit_price is not a number", httpx.ErrValidation, i+1)
		}
		disc := decimal.Zero
		if in.DiscountPct != "" {
			disc, err = decimal.NewFromString(in.DiscountPct)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d discount_pct is not a number", httpx.ErrValidation, i+1)
			}
		}
		items = append(items, LineItem{
			Description: in.Description,
			Quantity:    qty,
			UnitPrice:   price,
			DiscountPct: disc,
			LineOrder:   i + 1,
		})
	}
	return items, nil
}

func (s *Service) applyTotals(q *Quotation) error {
	totals, err := ComputeTotals(q.Items, q.GlobalDiscountPct, q.TaxRatePct)
	if err != nil {
		if errors.Is(err, ErrInvalidLineItem) {
			return fmt.Errorf("%w: %s", httpx.ErrValidation, err)
		}
		return err
	}
	q.Subtotal = totals.Subtotal
	q.DiscountedSubtotal = totals.DiscountedSubtotal
	q.TaxAmount = totals.TaxAmount
	q.GrandTotal = totals.GrandTotal
	return nil
}

// Create opens a Draft with recomputed totals.
func (s *Service) Create(ctx context.Context, actorID int64, req CreateQuotationRequest) (*Quotation, error) {
	if err := ValidateCurrency(req.Currency); err != nil {
		return nil, fmt.Errorf("%w: %s", httpx.ErrValidation, err)
	}
	globalDisc, err := parsePct(req.GlobalDiscountPct, "global_discount_pct")
	if err != nil {
		return nil, err
	}
	taxRate, err := parsePct(req.TaxRatePct, "tax_rate_pct")
	if err != nil {
		return nil, err
	}
	items, err := buildItems(req.Items)
	if err != nil {
		return nil, err
	}

	q := Quotation{
		ClientID:          req.ClientID,
		ProjectID:         req.ProjectID,
		Title:             req.Title,
		Description:       req.Description,
		Currency:          req.Currency,
		GlobalDiscountPct: globalDisc,
		TaxRatePct:        taxRate,
		Status:            StatusDraft,
		ValidUntil:        req.ValidUntil,
		CreatedBy:         actorID,
		Items:             items,
	}
	if err := s.applyTotals(&q); err != nil {
		return nil, err
	}

	id, err := s.repo.Create(ctx, q)
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Get returns a quotation with its items.
func (s *Service) Get(ctx context.Context, id int64) (*Quotation, error) {
	return s.repo.Get(ctx, id)
}

// List returns a filtered page of quotations with client and project names.
func (s *Service) List(ctx context.Context, f ListFilter, p shared.Pagination) ([]QuotationWithDetails, int, error) {
	return s.repo.List(ctx, f, p.PerPage, p.Offset())
}

// Update replaces a Draft's header and items, recomputing totals. Locked
// quotations are refused.
func (s *Service) Update(ctx context.Context, id int64, req UpdateQuotationRequest) (*Quotation, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := AssertEditable(*current); err != nil {
		return nil, fmt.Errorf("%w: %s", httpx.ErrConflict, err)
	}
	if err := ValidateCurrency(req.Currency); err != nil {
		return nil, fmt.Errorf("%w: %s", httpx.ErrValidation, err)
	}
	globalDisc, err := parsePct(req.GlobalDiscountPct, "global_discount_pct")
	if err != nil {
		return nil, err
	}
	taxRate, err := parsePct(req.TaxRatePct, "tax_rate_pct")
	if err != nil {
		return nil, err
	}
	items, err := buildItems(req.Items)
	if err != nil {
		return nil, err
	}

	current.Title = req.Title
	current.Description = req.Description
	current.Currency = req.Currency
	current.GlobalDiscountPct = globalDisc
	current.TaxRatePct = taxRate
	current.ValidUntil = req.ValidUntil
	current.Items = items
	if err := s.applyTotals(current); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateWithItems(ctx, *current, items); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) transition(ctx context.Context, id, actorID int64, target Status, reason string) (*Quotation, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := Transition(*current, target, s.now(), reason)
	if err != nil {
		switch {
		case errors.Is(err, ErrReasonRequired):
			return nil, fmt.Errorf("%w: %s", httpx.ErrValidation, err)
		case errors.Is(err, ErrInvalidTransition):
			return nil, fmt.Errorf("%w: %s", httpx.ErrConflict, err)
		}
		return nil, err
	}

	// A re-sent quotation keeps the number it was first issued; the sequence
	// is only consulted on the first send.
	if target == StatusSent && next.Number == "" {
		number, err := s.numberer.Assign(ctx, next, s.now())
		if err != nil {
			return nil, err
		}
		next.Number = number
	}

	if err := s.repo.Update(ctx, next); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, shared.AuditLog{
		Module:  "quotations",
		RefID:   id,
		ActorID: actorID,
		Action:  "status:" + string(target),
		Note:    reason,
	})
	return s.repo.Get(ctx, id)
}

// Submit sends a Draft to the client, assigning its number on first send.
func (s *Service) Submit(ctx context.Context, id, actorID int64) (*Quotation, error) {
	return s.transition(ctx, id, actorID, StatusSent, "")
}

// Approve marks a Sent quotation as accepted. Terminal.
func (s *Service) Approve(ctx context.Context, id, actorID int64) (*Quotation, error) {
	return s.transition(ctx, id, actorID, StatusApproved, "")
}

// Reject marks a Sent quotation as declined, recording the mandatory reason.
// Terminal.
func (s *Service) Reject(ctx context.Context, id, actorID int64, reason string) (*Quotation, error) {
	return s.transition(ctx, id, actorID, StatusRejected, reason)
}

// Recall pulls a Sent quotation back to Draft for edits. The number is kept.
func (s *Service) Recall(ctx context.Context, id, actorID int64) (*Quotation, error) {
	return s.transition(ctx, id, actorID, StatusDraft, "")
}
