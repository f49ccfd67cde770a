package reports

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/gestor-pm/gestor/internal/platform/cache"
)

type stubRepo struct {
	calls  int
	income decimal.Decimal
	spend  decimal.Decimal
}

func (s *stubRepo) ActiveClients(context.Context) (int, error) {
	s.calls++
	return 4, nil
}

func (s *stubRepo) ActiveProjects(context.Context) (int, error) { return 2, nil }

func (s *stubRepo) QuotationsByStatus(context.Context) ([]StatusCount, error) {
	return []StatusCount{
		{Status: "DRAFT", Count: 3, Total: decimal.RequireFromString("150.00")},
		{Status: "APPROVED", Count: 1, Total: decimal.RequireFromString("276.97")},
	}, nil
}

func (s *stubRepo) ProjectsByStatus(context.Context) (map[string]int, error) {
	return map[string]int{"IN_PROGRESS": 2}, nil
}

func (s *stubRepo) ApprovedBetween(context.Context, time.Time, time.Time) (decimal.Decimal, error) {
	return decimal.RequireFromString("276.97"), nil
}

func (s *stubRepo) MonthlyQuotations(_ context.Context, months int, _ time.Time) ([]MonthlyTotal, error) {
	out := make([]MonthlyTotal, months)
	for i := range out {
		out[i] = MonthlyTotal{Month: "2026-01", Total: decimal.Zero}
	}
	return out, nil
}

func (s *stubRepo) CostsByRecurrence(context.Context) (map[string]int, error) {
	return map[string]int{"MONTHLY": 5}, nil
}

func (s *stubRepo) CollaboratorProductivity(context.Context) ([]CollaboratorProductivity, error) {
	return []CollaboratorProductivity{
		{CollaboratorID: 1, Name: "Ana Silva", Email: "ana@example.com", Role: "developer", Projects: 3},
		{CollaboratorID: 2, Name: "Bruno Reyes", Email: "bruno@example.com", Role: "designer", Projects: 1},
	}, nil
}

func (s *stubRepo) MostActiveClients(_ context.Context, limit int) ([]ActiveClient, error) {
	all := []ActiveClient{
		{ClientID: 1, Name: "Acme", Projects: 5},
		{ClientID: 2, Name: "Globex", Projects: 2},
		{ClientID: 3, Name: "Initech", Projects: 1},
	}
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (s *stubRepo) FinancialTotals(context.Context) (decimal.Decimal, decimal.Decimal, error) {
	return s.income, s.spend, nil
}

func newTestStore(t *testing.T) *cache.Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewStore(client, "reports-test", time.Minute)
}

func TestDashboardIsCached(t *testing.T) {
	repo := &stubRepo{}
	s := NewService(repo, nil, newTestStore(t))
	s.now = func() time.Time { return time.Date(2026, 1, 20, 8, 0, 0, 0, time.UTC) }

	first, err := s.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if first.ActiveClients != 4 {
		t.Fatalf("active clients = %d, want 4", first.ActiveClients)
	}
	if got := first.ApprovedThisMonth.StringFixed(2); got != "276.97" {
		t.Fatalf("approved this month = %s, want 276.97", got)
	}
	if len(first.MonthlyQuotations) != 12 {
		t.Fatalf("monthly series length = %d, want 12", len(first.MonthlyQuotations))
	}

	second, err := s.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("dashboard (cached): %v", err)
	}
	if repo.calls != 1 {
		t.Fatalf("repo hit %d times, want 1 (second read must come from cache)", repo.calls)
	}
	if second.ActiveClients != first.ActiveClients {
		t.Fatalf("cached dashboard diverges from original")
	}
}

func TestInvalidateForcesRecompute(t *testing.T) {
	repo := &stubRepo{}
	s := NewService(repo, nil, newTestStore(t))
	s.now = func() time.Time { return time.Date(2026, 1, 20, 8, 0, 0, 0, time.UTC) }

	if _, err := s.Dashboard(context.Background()); err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	s.Invalidate(context.Background())
	if _, err := s.Dashboard(context.Background()); err != nil {
		t.Fatalf("dashboard after invalidate: %v", err)
	}
	if repo.calls != 2 {
		t.Fatalf("repo hit %d times, want 2 after invalidation", repo.calls)
	}
}

func TestFinancialSummaryComputesMargin(t *testing.T) {
	repo := &stubRepo{
		income: decimal.RequireFromString("1000.00"),
		spend:  decimal.RequireFromString("400.00"),
	}
	s := NewService(repo, nil, newTestStore(t))

	summary, err := s.FinancialSummary(context.Background())
	if err != nil {
		t.Fatalf("financial summary: %v", err)
	}
	if got := summary.GrossMargin.StringFixed(2); got != "600.00" {
		t.Fatalf("gross margin = %s, want 600.00", got)
	}
	if got := summary.MarginPct.StringFixed(2); got != "60.00" {
		t.Fatalf("margin pct = %s, want 60.00", got)
	}
}

func TestFinancialSummaryWithoutIncome(t *testing.T) {
	repo := &stubRepo{spend: decimal.RequireFromString("250.00")}
	s := NewService(repo, nil, newTestStore(t))

	summary, err := s.FinancialSummary(context.Background())
	if err != nil {
		t.Fatalf("financial summary: %v", err)
	}
	if got := summary.GrossMargin.StringFixed(2); got != "-250.00" {
		t.Fatalf("gross margin = %s, want -250.00", got)
	}
	if !summary.MarginPct.IsZero() {
		t.Fatalf("margin pct = %s, want 0 when there is no income", summary.MarginPct)
	}
}

func TestTopClientsHonorsLimit(t *testing.T) {
	s := NewService(&stubRepo{}, nil, newTestStore(t))

	two, err := s.TopClients(context.Background(), 2)
	if err != nil {
		t.Fatalf("top clients: %v", err)
	}
	if len(two) != 2 {
		t.Fatalf("len = %d, want 2", len(two))
	}

	// A different limit must not be served from the first listing's cache.
	three, err := s.TopClients(context.Background(), 3)
	if err != nil {
		t.Fatalf("top clients (limit 3): %v", err)
	}
	if len(three) != 3 {
		t.Fatalf("len = %d, want 3", len(three))
	}
}

func TestDashboardWithoutRedisStillWorks(t *testing.T) {
	repo := &stubRepo{}
	s := NewService(repo, nil, cache.NewStore(nil, "reports-test", time.Minute))
	s.now = func() time.Time { return time.Date(2026, 1, 20, 8, 0, 0, 0, time.UTC) }

	if _, err := s.Dashboard(context.Background()); err != nil {
		t.Fatalf("dashboard without redis: %v", err)
	}
	if _, err := s.Dashboard(context.Background()); err != nil {
		t.Fatalf("second dashboard without redis: %v", err)
	}
	if repo.calls != 2 {
		t.Fatalf("repo hit %d times, want 2 with caching disabled", repo.calls)
	}
}
