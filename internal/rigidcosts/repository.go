package rigidcosts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gestor-pm/gestor/internal/shared"
)

// Repository persists rigid cost records.
type Repository interface {
	Create(ctx context.Context, c RigidCost) (int64, error)
	Get(ctx context.Context, id int64) (*RigidCost, error)
	List(ctx context.Context, f ListFilter, limit, offset int) ([]RigidCost, int, error)
	ListAllActive(ctx context.Context) ([]RigidCost, error)
	Update(ctx context.Context, c RigidCost) error
	Deactivate(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the Postgres-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const costColumns = `id, project_id, name, description, category, provider, currency, amount,
	recurrence, start_date, end_date, active, created_at, updated_at`

func scanCost(row pgx.Row) (*RigidCost, error) {
	var c RigidCost
	var projectID pgtype.Int8
	var description, provider pgtype.Text
	var endDate pgtype.Date
	err := row.Scan(&c.ID, &projectID, &c.Name, &description, &c.Category, &provider,
		&c.Currency, &c.Amount, &c.Recurrence, &c.StartDate, &endDate, &c.Active,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if projectID.Valid {
		c.ProjectID = &projectID.Int64
	}
	if description.Valid {
		c.Description = &description.String
	}
	if provider.Valid {
		c.Provider = &provider.String
	}
	if endDate.Valid {
		c.EndDate = &endDate.Time
	}
	return &c, nil
}

func (r *repository) Create(ctx context.Context, c RigidCost) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO rigid_costs (project_id, name, description, category, provider,
			currency, amount, recurrence, start_date, end_date, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, TRUE)
		RETURNING id
	`, c.ProjectID, c.Name, c.Description, c.Category, c.Provider,
		c.Currency, c.Amount, c.Recurrence, c.StartDate, c.EndDate).Scan(&id)
	return id, err
}

func (r *repository) Get(ctx context.Context, id int64) (*RigidCost, error) {
	return scanCost(r.pool.QueryRow(ctx, `SELECT `+costColumns+` FROM rigid_costs WHERE id = $1`, id))
}

func (r *repository) List(ctx context.Context, f ListFilter, limit, offset int) ([]RigidCost, int, error) {
	where := []string{"TRUE"}
	args := []any{}
	n := 1
	if f.Category != "" {
		where = append(where, fmt.Sprintf("category = $%d", n))
		args = append(args, f.Category)
		n++
	}
	if f.Provider != "" {
		where = append(where, fmt.Sprintf("provider ILIKE $%d", n))
		args = append(args, "%"+f.Provider+"%")
		n++
	}
	if f.Recurrence != "" {
		where = append(where, fmt.Sprintf("recurrence = $%d", n))
		args = append(args, f.Recurrence)
		n++
	}
	if f.ProjectID > 0 {
		where = append(where, fmt.Sprintf("project_id = $%d", n))
		args = append(args, f.ProjectID)
		n++
	}
	if f.OnlyActive {
		where = append(where, "active")
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM rigid_costs WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM rigid_costs WHERE %s ORDER BY category, name LIMIT $%d OFFSET $%d`,
		costColumns, cond, n, n+1)
	rows, err := r.pool.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []RigidCost
	for rows.Next() {
		c, err := scanCost(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *c)
	}
	return out, total, rows.Err()
}

func (r *repository) ListAllActive(ctx context.Context) ([]RigidCost, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+costColumns+` FROM rigid_costs WHERE active ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RigidCost
	for rows.Next() {
		c, err := scanCost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *repository) Update(ctx context.Context, c RigidCost) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE rigid_costs
		SET project_id = $2, name = $3, description = $4, category = $5, provider = $6,
		    currency = $7, amount = $8, recurrence = $9, start_date = $10, end_date = $11,
		    active = $12, updated_at = NOW()
		WHERE id = $1
	`, c.ID, c.ProjectID, c.Name, c.Description, c.Category, c.Provider,
		c.Currency, c.Amount, c.Recurrence, c.StartDate, c.EndDate, c.Active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Deactivate(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE rigid_costs SET active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
