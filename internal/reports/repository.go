package reports

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Repository runs the aggregate queries behind the dashboard.
type Repository interface {
	ActiveClients(ctx context.Context) (int, error)
	ActiveProjects(ctx context.Context) (int, error)
	QuotationsByStatus(ctx context.Context) ([]StatusCount, error)
	ProjectsByStatus(ctx context.Context) (map[string]int, error)
	ApprovedBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	MonthlyQuotations(ctx context.Context, months int, now time.Time) ([]MonthlyTotal, error)
	CostsByRecurrence(ctx context.Context) (map[string]int, error)
	CollaboratorProductivity(ctx context.Context) ([]CollaboratorProductivity, error)
	MostActiveClients(ctx context.Context, limit int) ([]ActiveClient, error)
	FinancialTotals(ctx context.Context) (income, spend decimal.Decimal, err error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the Postgres-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) ActiveClients(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM clients WHERE active`).Scan(&n)
	return n, err
}

func (r *repository) ActiveProjects(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM projects WHERE status NOT IN ('COMPLETED', 'CANCELLED')`).Scan(&n)
	return n, err
}

func (r *repository) QuotationsByStatus(ctx context.Context) ([]StatusCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT status, COUNT(*), COALESCE(SUM(grand_total), 0)
		FROM quotations
		GROUP BY status
		ORDER BY status
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StatusCount
	for rows.Next() {
		var sc StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count, &sc.Total); err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

func (r *repository) ProjectsByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM projects GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		out[status] = count
	}
	return out, rows.Err()
}

func (r *repository) ApprovedBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(grand_total), 0)
		FROM quotations
		WHERE status = 'APPROVED' AND approved_at >= $1 AND approved_at < $2
	`, from, to).Scan(&total)
	return total, err
}

func (r *repository) MonthlyQuotations(ctx context.Context, months int, now time.Time) ([]MonthlyTotal, error) {
	since := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)
	rows, err := r.pool.Query(ctx, `
		SELECT to_char(date_trunc('month', created_at), 'YYYY-MM') AS month,
		       COUNT(*), COALESCE(SUM(grand_total), 0)
		FROM quotations
		WHERE created_at >= $1
		GROUP BY month
		ORDER BY month
	`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byMonth := map[string]MonthlyTotal{}
	for rows.Next() {
		var mt MonthlyTotal
		if err := rows.Scan(&mt.Month, &mt.Count, &mt.Total); err != nil {
			return nil, err
		}
		byMonth[mt.Month] = mt
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Zero-fill so the series always covers every requested month.
	out := make([]MonthlyTotal, 0, months)
	for cursor := since; len(out) < months; cursor = cursor.AddDate(0, 1, 0) {
		key := cursor.Format("2006-01")
		if mt, ok := byMonth[key]; ok {
			out = append(out, mt)
		} else {
			out = append(out, MonthlyTotal{Month: key, Total: decimal.Zero})
		}
	}
	return out, nil
}

func (r *repository) CollaboratorProductivity(ctx context.Context) ([]CollaboratorProductivity, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT co.id, co.first_name || ' ' || co.last_name, co.email, co.role,
		       COUNT(pa.project_id), COALESCE(SUM(pa.assigned_hours), 0)
		FROM collaborators co
		LEFT JOIN project_assignments pa ON pa.collaborator_id = co.id
		WHERE co.active
		GROUP BY co.id, co.first_name, co.last_name, co.email, co.role
		ORDER BY COUNT(pa.project_id) DESC, co.last_name, co.first_name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CollaboratorProductivity
	for rows.Next() {
		var cp CollaboratorProductivity
		if err := rows.Scan(&cp.CollaboratorID, &cp.Name, &cp.Email, &cp.Role,
			&cp.Projects, &cp.AssignedHours); err != nil {
			return nil, err
		}
		out = append(out, cp)
	}
	return out, rows.Err()
}

func (r *repository) MostActiveClients(ctx context.Context, limit int) ([]ActiveClient, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.id, c.name, c.email, c.phone, COUNT(p.id)
		FROM clients c
		LEFT JOIN projects p ON p.client_id = c.id
		WHERE c.active
		GROUP BY c.id, c.name, c.email, c.phone
		ORDER BY COUNT(p.id) DESC, c.name
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ActiveClient
	for rows.Next() {
		var ac ActiveClient
		if err := rows.Scan(&ac.ClientID, &ac.Name, &ac.Email, &ac.Phone, &ac.Projects); err != nil {
			return nil, err
		}
		out = append(out, ac)
	}
	return out, rows.Err()
}

func (r *repository) FinancialTotals(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	var income, spend decimal.Decimal
	err := r.pool.QueryRow(ctx, `
		SELECT (SELECT COALESCE(SUM(grand_total), 0) FROM quotations WHERE status = 'APPROVED'),
		       (SELECT COALESCE(SUM(amount), 0) FROM rigid_costs WHERE active)
	`).Scan(&income, &spend)
	return income, spend, err
}

func (r *repository) CostsByRecurrence(ctx context.Context) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT recurrence, COUNT(*) FROM rigid_costs WHERE active GROUP BY recurrence`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var recurrence string
		var count int
		if err := rows.Scan(&recurrence, &count); err != nil {
			return nil, err
		}
		out[recurrence] = count
	}
	return out, rows.Err()
}
