package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gestor-pm/gestor/internal/platform/cache"
	"github.com/gestor-pm/gestor/internal/rigidcosts"
)

// Service assembles cached dashboard reports. Every report goes through the
// read-through cache; a nil store degrades to computing on every request.
type Service struct {
	repo  Repository
	costs *rigidcosts.Service
	store *cache.Store
	now   func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repository, costs *rigidcosts.Service, store *cache.Store) *Service {
	return &Service{repo: repo, costs: costs, store: store, now: time.Now}
}

func (s *Service) buildDashboard(ctx context.Context) (*Dashboard, error) {
	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	activeClients, err := s.repo.ActiveClients(ctx)
	if err != nil {
		return nil, err
	}
	activeProjects, err := s.repo.ActiveProjects(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.repo.QuotationsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	projectsByStatus, err := s.repo.ProjectsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	approved, err := s.repo.ApprovedBetween(ctx, monthStart, monthStart.AddDate(0, 1, 0))
	if err != nil {
		return nil, err
	}
	monthly, err := s.repo.MonthlyQuotations(ctx, 12, now)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		ActiveClients:      activeClients,
		ActiveProjects:     activeProjects,
		QuotationsByStatus: byStatus,
		ProjectsByStatus:   projectsByStatus,
		ApprovedThisMonth:  approved,
		MonthlyQuotations:  monthly,
	}, nil
}

// Dashboard returns the landing-page summary, cached under one key.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	var out Dashboard
	err := s.store.FetchJSON(ctx, "dashboard", &out, func(ctx context.Context) (any, error) {
		return s.buildDashboard(ctx)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) buildCostReport(ctx context.Context, monthsAhead int) (*CostReport, error) {
	now := s.now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, monthsAhead, -1)

	projection, err := s.costs.Projection(ctx, from, to)
	if err != nil {
		return nil, err
	}
	byRecurrence, err := s.repo.CostsByRecurrence(ctx)
	if err != nil {
		return nil, err
	}

	return &CostReport{
		ByCategory:   projection.ByCategory,
		ByRecurrence: byRecurrence,
		Projection:   projection,
	}, nil
}

// CostReport returns the recurring-cost breakdown with a six month forward
// projection, cached under one key.
func (s *Service) CostReport(ctx context.Context) (*CostReport, error) {
	var out CostReport
	err := s.store.FetchJSON(ctx, "costs", &out, func(ctx context.Context) (any, error) {
		return s.buildCostReport(ctx, 6)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Productivity returns active collaborators ranked by project load.
func (s *Service) Productivity(ctx context.Context) ([]CollaboratorProductivity, error) {
	var out []CollaboratorProductivity
	err := s.store.FetchJSON(ctx, "productivity", &out, func(ctx context.Context) (any, error) {
		return s.repo.CollaboratorProductivity(ctx)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// TopClients returns the most active clients by project count. The limit is
// part of the cache key, so differently sized listings do not collide.
func (s *Service) TopClients(ctx context.Context, limit int) ([]ActiveClient, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	var out []ActiveClient
	key := fmt.Sprintf("top_clients:%d", limit)
	err := s.store.FetchJSON(ctx, key, &out, func(ctx context.Context) (any, error) {
		return s.repo.MostActiveClients(ctx, limit)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) buildFinancialSummary(ctx context.Context) (*FinancialSummary, error) {
	income, spend, err := s.repo.FinancialTotals(ctx)
	if err != nil {
		return nil, err
	}
	margin := income.Sub(spend)
	pct := decimal.Zero
	if income.IsPositive() {
		pct = margin.Div(income).Mul(decimal.NewFromInt(100)).Round(2)
	}
	return &FinancialSummary{
		ApprovedIncome: income,
		RigidCostSpend: spend,
		GrossMargin:    margin,
		MarginPct:      pct,
	}, nil
}

// FinancialSummary returns approved income against recurring cost spend,
// cached under one key.
func (s *Service) FinancialSummary(ctx context.Context) (*FinancialSummary, error) {
	var out FinancialSummary
	err := s.store.FetchJSON(ctx, "financial", &out, func(ctx context.Context) (any, error) {
		return s.buildFinancialSummary(ctx)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Warm precomputes the cached reports. Used by the background warmup job.
func (s *Service) Warm(ctx context.Context) error {
	if _, err := s.Dashboard(ctx); err != nil {
		return err
	}
	if _, err := s.CostReport(ctx); err != nil {
		return err
	}
	if _, err := s.Productivity(ctx); err != nil {
		return err
	}
	_, err := s.FinancialSummary(ctx)
	return err
}

// Invalidate drops the cached reports after a mutation. Client rankings are
// keyed per limit and simply age out on TTL.
func (s *Service) Invalidate(ctx context.Context) {
	_ = s.store.Invalidate(ctx, "dashboard")
	_ = s.store.Invalidate(ctx, "costs")
	_ = s.store.Invalidate(ctx, "productivity")
	_ = s.store.Invalidate(ctx, "financial")
}
