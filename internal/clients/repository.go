package clients

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gestor-pm/gestor/internal/platform/httpx"
	"github.com/gestor-pm/gestor/internal/shared"
)

// Repository persists clients.
type Repository interface {
	Create(ctx context.Context, c Client) (int64, error)
	Get(ctx context.Context, id int64) (*Client, error)
	List(ctx context.Context, f ListFilter, limit, offset int) ([]Client, int, error)
	Update(ctx context.Context, c Client) error
	Deactivate(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the Postgres-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const clientColumns = `id, name, email, phone, address, city, country, contact, tax_id, notes, active, created_at, updated_at`

func scanClient(row pgx.Row) (*Client, error) {
	var c Client
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.City,
		&c.Country, &c.Contact, &c.TaxID, &c.Notes, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *repository) Create(ctx context.Context, c Client) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO clients (name, email, phone, address, city, country, contact, tax_id, notes, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE)
		RETURNING id
	`, c.Name, c.Email, c.Phone, c.Address, c.City, c.Country, c.Contact, c.TaxID, c.Notes).Scan(&id)
	if isUniqueViolation(err) {
		return 0, httpx.ErrDuplicate
	}
	return id, err
}

func (r *repository) Get(ctx context.Context, id int64) (*Client, error) {
	return scanClient(r.pool.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id))
}

func (r *repository) List(ctx context.Context, f ListFilter, limit, offset int) ([]Client, int, error) {
	where := []string{"TRUE"}
	args := []any{}
	n := 1
	if f.Search != "" {
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d OR contact ILIKE $%d)", n, n, n))
		args = append(args, "%"+f.Search+"%")
		n++
	}
	if f.OnlyActive {
		where = append(where, "active")
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM clients WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM clients WHERE %s ORDER BY name LIMIT $%d OFFSET $%d`,
		clientColumns, cond, n, n+1)
	rows, err := r.pool.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *c)
	}
	return out, total, rows.Err()
}

func (r *repository) Update(ctx context.Context, c Client) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE clients
		SET name = $2, email = $3, phone = $4, address = $5, city = $6, country = $7,
		    contact = $8, tax_id = $9, notes = $10, active = $11, updated_at = NOW()
		WHERE id = $1
	`, c.ID, c.Name, c.Email, c.Phone, c.Address, c.City, c.Country, c.Contact, c.TaxID, c.Notes, c.Active)
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
	tag, err := r.pool.Exec(ctx, `UPDATE clients SET active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
