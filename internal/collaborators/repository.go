package collaborators

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gestor-pm/gestor/internal/platform/httpx"
	"github.com/gestor-pm/gestor/internal/shared"
)

// Repository persists collaborators.
type Repository interface {
	Create(ctx context.Context, c Collaborator) (int64, error)
	Get(ctx context.Context, id int64) (*Collaborator, error)
	List(ctx context.Context, f ListFilter, limit, offset int) ([]Collaborator, int, error)
	Update(ctx context.Context, c Collaborator) error
	Deactivate(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the Postgres-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const collaboratorColumns = `id, first_name, last_name, email, phone, role, department, kind,
	hourly_cost, skills, available, active, hired_at, created_at, updated_at`

func scanCollaborator(row pgx.Row) (*Collaborator, error) {
	var c Collaborator
	var hiredAt pgtype.Date
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Role,
		&c.Department, &c.Kind, &c.HourlyCost, &c.Skills, &c.Available, &c.Active,
		&hiredAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if hiredAt.Valid {
		c.HiredAt = &hiredAt.Time
	}
	return &c, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *repository) Create(ctx context.Context, c Collaborator) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO collaborators (first_name, last_name, email, phone, role, department,
			kind, hourly_cost, skills, available, active, hired_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE, TRUE, $10)
		RETURNING id
	`, c.FirstName, c.LastName, c.Email, c.Phone, c.Role, c.Department,
		c.Kind, c.HourlyCost, c.Skills, c.HiredAt).Scan(&id)
	if isUniqueViolation(err) {
		return 0, httpx.ErrDuplicate
	}
	return id, err
}

func (r *repository) Get(ctx context.Context, id int64) (*Collaborator, error) {
	return scanCollaborator(r.pool.QueryRow(ctx,
		`SELECT `+collaboratorColumns+` FROM collaborators WHERE id = $1`, id))
}

func (r *repository) List(ctx context.Context, f ListFilter, limit, offset int) ([]Collaborator, int, error) {
	where := []string{"TRUE"}
	args := []any{}
	n := 1
	if f.Kind != "" {
		where = append(where, fmt.Sprintf("kind = $%d", n))
		args = append(args, f.Kind)
		n++
	}
	if f.Search != "" {
		where = append(where, fmt.Sprintf("(first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d)", n, n, n))
		args = append(args, "%"+f.Search+"%")
		n++
	}
	if f.OnlyAvailable {
		where = append(where, "available")
	}
	if f.OnlyActive {
		where = append(where, "active")
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM collaborators WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM collaborators WHERE %s ORDER BY last_name, first_name LIMIT $%d OFFSET $%d`,
		collaboratorColumns, cond, n, n+1)
	rows, err := r.pool.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Collaborator
	for rows.Next() {
		c, err := scanCollaborator(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *c)
	}
	return out, total, rows.Err()
}

func (r *repository) Update(ctx context.Context, c Collaborator) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE collaborators
		SET first_name = $2, last_name = $3, email = $4, phone = $5, role = $6,
		    department = $7, kind = $8, hourly_cost = $9, skills = $10,
		    available = $11, active = $12, hired_at = $13, updated_at = NOW()
		WHERE id = $1
	`, c.ID, c.FirstName, c.LastName, c.Email, c.Phone, c.Role, c.Department,
		c.Kind, c.HourlyCost, c.Skills, c.Available, c.Active, c.HiredAt)
	if isUniqueViolation(err) {
		return httpx.ErrDuplicate
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Deactivate(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE collaborators SET active = FALSE, available = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
