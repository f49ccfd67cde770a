package rigidcosts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gestor-pm/gestor/internal/platform/httpx"
	"github.com/gestor-pm/gestor/internal/shared"
)

type memoryRepo struct {
	nextID int64
	costs  map[int64]RigidCost
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{nextID: 1, costs: map[int64]RigidCost{}}
}

func (m *memoryRepo) Create(_ context.Context, c RigidCost) (int64, error) {
	c.ID = m.nextID
	m.nextID++
	m.costs[c.ID] = c
	return c.ID, nil
}

func (m *memoryRepo) Get(_ context.Context, id int64) (*RigidCost, error) {
	c, ok := m.costs[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &c, nil
}

func (m *memoryRepo) List(_ context.Context, f ListFilter, limit, offset int) ([]RigidCost, int, error) {
	var out []RigidCost
	for _, c := range m.costs {
		if f.Category != "" && c.Category != f.Category {
			continue
		}
		out = append(out, c)
	}
	return out, len(out), nil
}

func (m *memoryRepo) ListAllActive(_ context.Context) ([]RigidCost, error) {
	var out []RigidCost
	for id := int64(1); id < m.nextID; id++ {
		if c, ok := m.costs[id]; ok && c.Active {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memoryRepo) Update(_ context.Context, c RigidCost) error {
	if _, ok := m.costs[c.ID]; !ok {
		return shared.ErrNotFound
	}
	m.costs[c.ID] = c
	return nil
}

func (m *memoryRepo) Deactivate(_ context.Context, id int64) error {
	c, ok := m.costs[id]
	if !ok {
		return shared.ErrNotFound
	}
	c.Active = false
	m.costs[id] = c
	return nil
}

func newTestService(repo Repository) *Service {
	return &Service{repo: repo, now: func() time.Time {
		return time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	}}
}

func TestCreateRejectsNonPositiveAmount(t *testing.T) {
	s := newTestService(newMemoryRepo())
	for _, amount := range []string{"0", "-10.50", "abc"} {
		_, err := s.Create(context.Background(), CreateCostRequest{
			Name:       "Office rent",
			Category:   "facilities",
			Currency:   "EUR",
			Amount:     amount,
			Recurrence: "MONTHLY",
			StartDate:  date(2026, 1, 1),
		})
		if !errors.Is(err, httpx.ErrValidation) {
			t.Fatalf("amount %q: err = %v, want ErrValidation", amount, err)
		}
	}
}

func TestCreateRejectsInvertedRange(t *testing.T) {
	s := newTestService(newMemoryRepo())
	end := date(2025, 12, 1)
	_, err := s.Create(context.Background(), CreateCostRequest{
		Name:       "License",
		Category:   "software",
		Currency:   "EUR",
		Amount:     "99.00",
		Recurrence: "MONTHLY",
		StartDate:  date(2026, 1, 1),
		EndDate:    &end,
	})
	if !errors.Is(err, httpx.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestProjectionAggregatesActiveCosts(t *testing.T) {
	repo := newMemoryRepo()
	s := newTestService(repo)

	if _, err := s.Create(context.Background(), CreateCostRequest{
		Name:       "Office rent",
		Category:   "facilities",
		Currency:   "EUR",
		Amount:     "1200.00",
		Recurrence: "MONTHLY",
		StartDate:  date(2026, 1, 15),
	}); err != nil {
		t.Fatalf("create rent: %v", err)
	}
	deactivated, err := s.Create(context.Background(), CreateCostRequest{
		Name:       "Old license",
		Category:   "software",
		Currency:   "EUR",
		Amount:     "500.00",
		Recurrence: "MONTHLY",
		StartDate:  date(2026, 1, 1),
	})
	if err != nil {
		t.Fatalf("create license: %v", err)
	}
	if err := s.Deactivate(context.Background(), deactivated.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	summary, err := s.Projection(context.Background(), date(2026, 1, 1), date(2026, 3, 31))
	if err != nil {
		t.Fatalf("projection: %v", err)
	}
	if summary.Count != 3 {
		t.Fatalf("count = %d, want 3 (inactive cost must be skipped)", summary.Count)
	}
	if got := summary.Total.StringFixed(2); got != "3600.00" {
		t.Fatalf("total = %s, want 3600.00", got)
	}
	if len(summary.ByMonth) != 3 {
		t.Fatalf("months = %d, want 3", len(summary.ByMonth))
	}
}

func TestProjectionRejectsInvertedWindow(t *testing.T) {
	s := newTestService(newMemoryRepo())
	_, err := s.Projection(context.Background(), date(2026, 3, 1), date(2026, 1, 1))
	if !errors.Is(err, httpx.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestUpcomingRenewalsReturnsNextOccurrenceOnly(t *testing.T) {
	s := newTestService(newMemoryRepo())

	if _, err := s.Create(context.Background(), CreateCostRequest{
		Name:       "CDN subscription",
		Category:   "infrastructure",
		Currency:   "EUR",
		Amount:     "80.00",
		Recurrence: "WEEKLY",
		StartDate:  date(2026, 1, 5),
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	renewals, err := s.UpcomingRenewals(context.Background(), 30)
	if err != nil {
		t.Fatalf("renewals: %v", err)
	}
	if len(renewals) != 1 {
		t.Fatalf("len(renewals) = %d, want 1 (only the next occurrence per cost)", len(renewals))
	}
	// Weekly from Jan 5 lands on Feb 2 relative to the frozen Feb 1 clock.
	if !renewals[0].DueDate.Equal(date(2026, 2, 2)) {
		t.Fatalf("due date = %s, want 2026-02-02", renewals[0].DueDate.Format("2006-01-02"))
	}
	if renewals[0].DaysOut != 1 {
		t.Fatalf("days out = %d, want 1", renewals[0].DaysOut)
	}
}

func TestUpcomingRenewalsSkipsExpiredCosts(t *testing.T) {
	s := newTestService(newMemoryRepo())
	end := date(2026, 1, 20)
	if _, err := s.Create(context.Background(), CreateCostRequest{
		Name:       "Short campaign",
		Category:   "marketing",
		Currency:   "EUR",
		Amount:     "300.00",
		Recurrence: "WEEKLY",
		StartDate:  date(2026, 1, 1),
		EndDate:    &end,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	renewals, err := s.UpcomingRenewals(context.Background(), 30)
	if err != nil {
		t.Fatalf("renewals: %v", err)
	}
	if len(renewals) != 0 {
		t.Fatalf("len(renewals) = %d, want 0 for a cost that ended before the window", len(renewals))
	}
}
