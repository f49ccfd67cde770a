package quotations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestor-pm/gestor/internal/platform/httpx"
	"github.com/gestor-pm/gestor/internal/shared"
)

type memoryRepo struct {
	nextID     int64
	quotations map[int64]Quotation
	seq        map[string]int64

	updateWithItemsErr error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{nextID: 1, quotations: map[int64]Quotation{}, seq: map[string]int64{}}
}

func (m *memoryRepo) Create(_ context.Context, q Quotation) (int64, error) {
	q.ID = m.nextID
	m.nextID++
	q.CreatedAt = time.Now()
	m.quotations[q.ID] = q
	return q.ID, nil
}

func (m *memoryRepo) Get(_ context.Context, id int64) (*Quotation, error) {
	q, ok := m.quotations[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &q, nil
}

func (m *memoryRepo) GetByNumber(_ context.Context, number string) (*Quotation, error) {
	for _, q := range m.quotations {
		if q.Number == number {
			return &q, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *memoryRepo) List(_ context.Context, f ListFilter, limit, offset int) ([]QuotationWithDetails, int, error) {
	var out []QuotationWithDetails
	for _, q := range m.quotations {
		if f.Status != "" && q.Status != f.Status {
			continue
		}
		out = append(out, QuotationWithDetails{Quotation: q})
	}
	return out, len(out), nil
}

func (m *memoryRepo) Update(_ context.Context, q Quotation) error {
	stored, ok := m.quotations[q.ID]
	if !ok {
		return shared.ErrNotFound
	}
	q.Items = stored.Items
	m.quotations[q.ID] = q
	return nil
}

func (m *memoryRepo) UpdateWithItems(_ context.Context, q Quotation, items []LineItem) error {
	if m.updateWithItemsErr != nil {
		return m.updateWithItemsErr
	}
	if _, ok := m.quotations[q.ID]; !ok {
		return shared.ErrNotFound
	}
	q.Items = items
	m.quotations[q.ID] = q
	return nil
}

func (m *memoryRepo) Next(_ context.Context, period string) (int64, error) {
	m.seq[period]++
	return m.seq[period], nil
}

func newTestService(repo Repository) *Service {
	s := NewService(repo, nil)
	s.now = func() time.Time {
		return time.Date(2026, 4, 15, 10, 0, 0, 0, time.UTC)
	}
	return s
}

func draftRequest() CreateQuotationRequest {
	return CreateQuotationRequest{
		ClientID:          1,
		Title:             "Corporate website",
		Currency:          "EUR",
		GlobalDiscountPct: "5",
		TaxRatePct:        "19",
		Items: []LineItemInput{
			{Description: "Design", Quantity: "2", UnitPrice: "100.00"},
			{Description: "Hosting setup", Quantity: "1", UnitPrice: "50.005", DiscountPct: "10"},
		},
	}
}

func TestCreateRecomputesTotals(t *testing.T) {
	s := newTestService(newMemoryRepo())
	q, err := s.Create(context.Background(), 1, draftRequest())
	require.NoError(t, err)

	assert.Equal(t, "245.00", q.Subtotal.StringFixed(2))
	assert.Equal(t, "232.75", q.DiscountedSubtotal.StringFixed(2))
	assert.Equal(t, "44.22", q.TaxAmount.StringFixed(2))
	assert.Equal(t, "276.97", q.GrandTotal.StringFixed(2))
	assert.Empty(t, q.Number, "a draft must not carry a number yet")
	assert.Equal(t, StatusDraft, q.Status)
}

func TestCreateRejectsUnknownCurrency(t *testing.T) {
	s := newTestService(newMemoryRepo())
	req := draftRequest()
	req.Currency = "XXX_BAD"
	_, err := s.Create(context.Background(), 1, req)
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestSubmitAssignsNumberOnce(t *testing.T) {
	s := newTestService(newMemoryRepo())
	q, err := s.Create(context.Background(), 1, draftRequest())
	require.NoError(t, err)

	sent, err := s.Submit(context.Background(), q.ID, 1)
	require.NoError(t, err)
	require.Equal(t, "COT-202604-0001", sent.Number)
	require.NotNil(t, sent.SentAt)

	recalled, err := s.Recall(context.Background(), q.ID, 1)
	require.NoError(t, err)
	require.Equal(t, StatusDraft, recalled.Status)

	resent, err := s.Submit(context.Background(), q.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "COT-202604-0001", resent.Number, "a re-sent quotation keeps its original number")
}

func TestUpdateRefusedOutsideDraft(t *testing.T) {
	s := newTestService(newMemoryRepo())
	q, err := s.Create(context.Background(), 1, draftRequest())
	require.NoError(t, err)
	_, err = s.Submit(context.Background(), q.ID, 1)
	require.NoError(t, err)

	_, err = s.Update(context.Background(), q.ID, UpdateQuotationRequest{
		Title:    "changed",
		Currency: "EUR",
	})
	require.ErrorIs(t, err, httpx.ErrConflict)
}

func TestUpdateFailureLeavesQuotationIntact(t *testing.T) {
	repo := newMemoryRepo()
	s := newTestService(repo)
	q, err := s.Create(context.Background(), 1, draftRequest())
	require.NoError(t, err)

	repo.updateWithItemsErr = errors.New("connection reset")
	_, err = s.Update(context.Background(), q.ID, UpdateQuotationRequest{
		Title:    "changed",
		Currency: "EUR",
		Items: []LineItemInput{
			{Description: "Design", Quantity: "1", UnitPrice: "10.00"},
		},
	})
	require.Error(t, err)

	stored, err := s.Get(context.Background(), q.ID)
	require.NoError(t, err)
	assert.Equal(t, "Corporate website", stored.Title)
	assert.Len(t, stored.Items, 2, "items must not be replaced when the write fails")
	assert.Equal(t, "245.00", stored.Subtotal.StringFixed(2))
	assert.Equal(t, "276.97", stored.GrandTotal.StringFixed(2))
}

func TestRejectRequiresReason(t *testing.T) {
	s := newTestService(newMemoryRepo())
	q, err := s.Create(context.Background(), 1, draftRequest())
	require.NoError(t, err)
	_, err = s.Submit(context.Background(), q.ID, 1)
	require.NoError(t, err)

	_, err = s.Reject(context.Background(), q.ID, 1, "")
	require.ErrorIs(t, err, httpx.ErrValidation)

	rejected, err := s.Reject(context.Background(), q.ID, 1, "budget cut")
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, rejected.Status)
	require.NotNil(t, rejected.RejectionReason)
	assert.Equal(t, "budget cut", *rejected.RejectionReason)
}

func TestApprovedIsTerminal(t *testing.T) {
	s := newTestService(newMemoryRepo())
	q, err := s.Create(context.Background(), 1, draftRequest())
	require.NoError(t, err)
	_, err = s.Submit(context.Background(), q.ID, 1)
	require.NoError(t, err)

	approved, err := s.Approve(context.Background(), q.ID, 1)
	require.NoError(t, err)
	require.NotNil(t, approved.ApprovedAt)

	_, err = s.Recall(context.Background(), q.ID, 1)
	assert.ErrorIs(t, err, httpx.ErrConflict)
	_, err = s.Submit(context.Background(), q.ID, 1)
	assert.ErrorIs(t, err, httpx.ErrConflict)
}

func TestSequenceContinuesAcrossQuotations(t *testing.T) {
	s := newTestService(newMemoryRepo())
	want := []string{"COT-202604-0001", "COT-202604-0002", "COT-202604-0003"}
	for i, expected := range want {
		q, err := s.Create(context.Background(), 1, draftRequest())
		require.NoError(t, err, "create #%d", i+1)
		sent, err := s.Submit(context.Background(), q.ID, 1)
		require.NoError(t, err, "submit #%d", i+1)
		assert.Equal(t, expected, sent.Number)
	}
}
