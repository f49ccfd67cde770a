package projects

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/gestor-pm/gestor/internal/platform/db"
	"github.com/gestor-pm/gestor/internal/platform/httpx"
	"github.com/gestor-pm/gestor/internal/shared"
)

// Repository persists projects and their collaborator assignments.
type Repository interface {
	Create(ctx context.Context, p Project) (int64, error)
	Get(ctx context.Context, id int64) (*Project, error)
	List(ctx context.Context, f ListFilter, limit, offset int) ([]Project, int, error)
	Update(ctx context.Context, p Project) error
	Assign(ctx context.Context, a Assignment) error
	Unassign(ctx context.Context, projectID, collaboratorID int64) error
	Assignments(ctx context.Context, projectID int64) ([]Assignment, error)
	Stats(ctx context.Context, now time.Time) (*Stats, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the Postgres-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const projectColumns = `id, client_id, name, description, status, priority, budget, actual_cost,
	estimated_hours, worked_hours, progress, start_date, due_date, completed_at, created_at, updated_at`

func scanProject(row pgx.Row) (*Project, error) {
	var p Project
	var start, due pgtype.Date
	var completed pgtype.Timestamptz
	err := row.Scan(&p.ID, &p.ClientID, &p.Name, &p.Description, &p.Status, &p.Priority,
		&p.Budget, &p.ActualCost, &p.EstimatedHours, &p.WorkedHours, &p.Progress,
		&start, &due, &completed, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if start.Valid {
		p.StartDate = &start.Time
	}
	if due.Valid {
		p.DueDate = &due.Time
	}
	if completed.Valid {
		p.CompletedAt = &completed.Time
	}
	return &p, nil
}

func (r *repository) Create(ctx context.Context, p Project) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO projects (client_id, name, description, status, priority, budget,
			actual_cost, estimated_hours, worked_hours, progress, start_date, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7, 0, 0, $8, $9)
		RETURNING id
	`, p.ClientID, p.Name, p.Description, p.Status, p.Priority, p.Budget,
		p.EstimatedHours, p.StartDate, p.DueDate).Scan(&id)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return 0, fmt.Errorf("%w: client %d does not exist", httpx.ErrValidation, p.ClientID)
	}
	return id, err
}

func (r *repository) Get(ctx context.Context, id int64) (*Project, error) {
	return scanProject(r.pool.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id))
}

func (r *repository) List(ctx context.Context, f ListFilter, limit, offset int) ([]Project, int, error) {
	where := []string{"TRUE"}
	args := []any{}
	n := 1
	if f.ClientID > 0 {
		where = append(where, fmt.Sprintf("client_id = $%d", n))
		args = append(args, f.ClientID)
		n++
	}
	if f.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", n))
		args = append(args, f.Status)
		n++
	}
	if f.Priority != "" {
		where = append(where, fmt.Sprintf("priority = $%d", n))
		args = append(args, f.Priority)
		n++
	}
	if f.Search != "" {
		where = append(where, fmt.Sprintf("name ILIKE $%d", n))
		args = append(args, "%"+f.Search+"%")
		n++
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM projects WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM projects WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		projectColumns, cond, n, n+1)
	rows, err := r.pool.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *p)
	}
	return out, total, rows.Err()
}

func (r *repository) Update(ctx context.Context, p Project) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE projects
		SET name = $2, description = $3, status = $4, priority = $5, budget = $6,
		    actual_cost = $7, estimated_hours = $8, worked_hours = $9, progress = $10,
		    start_date = $11, due_date = $12, completed_at = $13, updated_at = NOW()
		WHERE id = $1
	`, p.ID, p.Name, p.Description, p.Status, p.Priority, p.Budget, p.ActualCost,
		p.EstimatedHours, p.WorkedHours, p.Progress, p.StartDate, p.DueDate, p.CompletedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Assign(ctx context.Context, a Assignment) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var exists bool
		err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM collaborators WHERE id = $1 AND active)`,
			a.CollaboratorID).Scan(&exists)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: collaborator %d not found or inactive", httpx.ErrValidation, a.CollaboratorID)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO project_assignments (project_id, collaborator_id, assigned_hours, role_in_project)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (project_id, collaborator_id)
			DO UPDATE SET assigned_hours = EXCLUDED.assigned_hours, role_in_project = EXCLUDED.role_in_project
		`, a.ProjectID, a.CollaboratorID, a.AssignedHours, a.RoleInProject)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23503" {
				return shared.ErrNotFound
			}
			return err
		}
		return nil
	})
}

func (r *repository) Unassign(ctx context.Context, projectID, collaboratorID int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM project_assignments WHERE project_id = $1 AND collaborator_id = $2`,
		projectID, collaboratorID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Assignments(ctx context.Context, projectID int64) ([]Assignment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT project_id, collaborator_id, assigned_hours, role_in_project, assigned_at
		FROM project_assignments
		WHERE project_id = $1
		ORDER BY assigned_at
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Assignment
	for rows.Next() {
		var a Assignment
		if err := rows.Scan(&a.ProjectID, &a.CollaboratorID, &a.AssignedHours, &a.RoleInProject, &a.AssignedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *repository) Stats(ctx context.Context, now time.Time) (*Stats, error) {
	stats := &Stats{
		ByStatus:    map[Status]int{},
		TotalBudget: decimal.Zero,
		TotalCost:   decimal.Zero,
	}

	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM projects GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.ByStatus[status] = count
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(budget), 0), COALESCE(SUM(actual_cost), 0), COALESCE(AVG(progress), 0)
		FROM projects
	`).Scan(&stats.TotalBudget, &stats.TotalCost, &stats.AvgProgress)
	if err != nil {
		return nil, err
	}

	err = r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM projects
		WHERE due_date IS NOT NULL AND due_date < $1 AND status NOT IN ('COMPLETED', 'CANCELLED')
	`, now).Scan(&stats.OverdueCount)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
