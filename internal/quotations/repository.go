package quotations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gestor-pm/gestor/internal/platform/db"
	"github.com/gestor-pm/gestor/internal/platform/httpx"
	"github.com/gestor-pm/gestor/internal/shared"
)

// Repository persists quotations, their lines and the number sequence.
type Repository interface {
	Create(ctx context.Context, q Quotation) (int64, error)
	Get(ctx context.Context, id int64) (*Quotation, error)
	GetByNumber(ctx context.Context, number string) (*Quotation, error)
	List(ctx context.Context, f ListFilter, limit, offset int) ([]QuotationWithDetails, int, error)
	Update(ctx context.Context, q Quotation) error
	UpdateWithItems(ctx context.Context, q Quotation, items []LineItem) error
	NumberSource
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the Postgres-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const quotationColumns = `id, number, client_id, project_id, title, description, currency,
	global_discount_pct, tax_rate_pct, status, subtotal, discounted_subtotal, tax_amount,
	grand_total, valid_until, sent_at, approved_at, rejected_at, rejection_reason,
	created_by, created_at, updated_at`

func scanQuotation(row pgx.Row) (*Quotation, error) {
	var q Quotation
	var number, description, reason pgtype.Text
	var projectID pgtype.Int8
	var validUntil pgtype.Date
	var sentAt, approvedAt, rejectedAt pgtype.Timestamptz
	err := row.Scan(&q.ID, &number, &q.ClientID, &projectID, &q.Title, &description,
		&q.Currency, &q.GlobalDiscountPct, &q.TaxRatePct, &q.Status, &q.Subtotal,
		&q.DiscountedSubtotal, &q.TaxAmount, &q.GrandTotal, &validUntil,
		&sentAt, &approvedAt, &rejectedAt, &reason, &q.CreatedBy, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if number.Valid {
		q.Number = number.String
	}
	if projectID.Valid {
		q.ProjectID = &projectID.Int64
	}
	if description.Valid {
		q.Description = &description.String
	}
	if validUntil.Valid {
		q.ValidUntil = &validUntil.Time
	}
	if sentAt.Valid {
		q.SentAt = &sentAt.Time
	}
	if approvedAt.Valid {
		q.ApprovedAt = &approvedAt.Time
	}
	if rejectedAt.Valid {
		q.RejectedAt = &rejectedAt.Time
	}
	if reason.Valid {
		q.RejectionReason = &reason.String
	}
	return &q, nil
}

func (r *repository) loadItems(ctx context.Context, quotationID int64) ([]LineItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, quotation_id, description, quantity, unit_price, discount_pct, line_order
		FROM quotation_items
		WHERE quotation_id = $1
		ORDER BY line_order
	`, quotationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []LineItem
	for rows.Next() {
		var item LineItem
		if err := rows.Scan(&item.ID, &item.QuotationID, &item.Description,
			&item.Quantity, &item.UnitPrice, &item.DiscountPct, &item.LineOrder); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *repository) Create(ctx context.Context, q Quotation) (int64, error) {
	var id int64
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO quotations (client_id, project_id, title, description, currency,
				global_discount_pct, tax_rate_pct, status, subtotal, discounted_subtotal,
				tax_amount, grand_total, valid_until, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			RETURNING id
		`, q.ClientID, q.ProjectID, q.Title, q.Description, q.Currency,
			q.GlobalDiscountPct, q.TaxRatePct, q.Status, q.Subtotal, q.DiscountedSubtotal,
			q.TaxAmount, q.GrandTotal, q.ValidUntil, q.CreatedBy).Scan(&id)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23503" {
				return fmt.Errorf("%w: referenced client or project does not exist", httpx.ErrValidation)
			}
			return err
		}
		return insertItems(ctx, tx, id, q.Items)
	})
	return id, err
}

func insertItems(ctx context.Context, tx pgx.Tx, quotationID int64, items []LineItem) error {
	for i, item := range items {
		_, err := tx.Exec(ctx, `
			INSERT INTO quotation_items (quotation_id, description, quantity, unit_price, discount_pct, line_order)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, quotationID, item.Description, item.Quantity, item.UnitPrice, item.DiscountPct, i+1)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) Get(ctx context.Context, id int64) (*Quotation, error) {
	q, err := scanQuotation(r.pool.QueryRow(ctx, `SELECT `+quotationColumns+` FROM quotations WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	q.Items, err = r.loadItems(ctx, id)
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (r *repository) GetByNumber(ctx context.Context, number string) (*Quotation, error) {
	q, err := scanQuotation(r.pool.QueryRow(ctx, `SELECT `+quotationColumns+` FROM quotations WHERE number = $1`, number))
	if err != nil {
		return nil, err
	}
	q.Items, err = r.loadItems(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (r *repository) List(ctx context.Context, f ListFilter, limit, offset int) ([]QuotationWithDetails, int, error) {
	where := []string{"TRUE"}
	args := []any{}
	n := 1
	if f.ClientID > 0 {
		where = append(where, fmt.Sprintf("q.client_id = $%d", n))
		args = append(args, f.ClientID)
		n++
	}
	if f.ProjectID > 0 {
		where = append(where, fmt.Sprintf("q.project_id = $%d", n))
		args = append(args, f.ProjectID)
		n++
	}
	if f.Status != "" {
		where = append(where, fmt.Sprintf("q.status = $%d", n))
		args = append(args, f.Status)
		n++
	}
	if f.Search != "" {
		where = append(where, fmt.Sprintf("(q.title ILIKE $%d OR q.number ILIKE $%d)", n, n))
		args = append(args, "%"+f.Search+"%")
		n++
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM quotations q WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s, c.name AS client_name, p.name AS project_name
		FROM quotations q
		JOIN clients c ON c.id = q.client_id
		LEFT JOIN projects p ON p.id = q.project_id
		WHERE %s
		ORDER BY q.created_at DESC
		LIMIT $%d OFFSET $%d
	`, qualify(quotationColumns), cond, n, n+1)

	rows, err := r.pool.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []QuotationWithDetails
	for rows.Next() {
		var d QuotationWithDetails
		var number, description, reason, projectName pgtype.Text
		var projectID pgtype.Int8
		var validUntil pgtype.Date
		var sentAt, approvedAt, rejectedAt pgtype.Timestamptz
		err := rows.Scan(&d.ID, &number, &d.ClientID, &projectID, &d.Title, &description,
			&d.Currency, &d.GlobalDiscountPct, &d.TaxRatePct, &d.Status, &d.Subtotal,
			&d.DiscountedSubtotal, &d.TaxAmount, &d.GrandTotal, &validUntil,
			&sentAt, &approvedAt, &rejectedAt, &reason, &d.CreatedBy, &d.CreatedAt, &d.UpdatedAt,
			&d.ClientName, &projectName)
		if err != nil {
			return nil, 0, err
		}
		if number.Valid {
			d.Number = number.String
		}
		if projectID.Valid {
			d.ProjectID = &projectID.Int64
		}
		if description.Valid {
			d.Description = &description.String
		}
		if validUntil.Valid {
			d.ValidUntil = &validUntil.Time
		}
		if sentAt.Valid {
			d.SentAt = &sentAt.Time
		}
		if approvedAt.Valid {
			d.ApprovedAt = &approvedAt.Time
		}
		if rejectedAt.Valid {
			d.RejectedAt = &rejectedAt.Time
		}
		if reason.Valid {
			d.RejectionReason = &reason.String
		}
		if projectName.Valid {
			d.ProjectName = &projectName.String
		}
		out = append(out, d)
	}
	return out, total, rows.Err()
}

// qualify prefixes each column of a comma-separated list with the quotations
// alias for use in joined queries.
func qualify(columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = "q." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func updateHeader(ctx context.Context, ex execer, q Quotation) error {
	var number *string
	if q.Number != "" {
		number = &q.Number
	}
	tag, err := ex.Exec(ctx, `
		UPDATE quotations
		SET number = $2, title = $3, description = $4, currency = $5,
		    global_discount_pct = $6, tax_rate_pct = $7, status = $8,
		    subtotal = $9, discounted_subtotal = $10, tax_amount = $11, grand_total = $12,
		    valid_until = $13, sent_at = $14, approved_at = $15, rejected_at = $16,
		    rejection_reason = $17, updated_at = NOW()
		WHERE id = $1
	`, q.ID, number, q.Title, q.Description, q.Currency,
		q.GlobalDiscountPct, q.TaxRatePct, q.Status,
		q.Subtotal, q.DiscountedSubtotal, q.TaxAmount, q.GrandTotal,
		q.ValidUntil, q.SentAt, q.ApprovedAt, q.RejectedAt, q.RejectionReason)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Update(ctx context.Context, q Quotation) error {
	return updateHeader(ctx, r.pool, q)
}

// UpdateWithItems rewrites the header and the full line set in one
// transaction, so a failure cannot leave new items stored against stale
// totals.
func (r *repository) UpdateWithItems(ctx context.Context, q Quotation, items []LineItem) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := updateHeader(ctx, tx, q); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM quotation_items WHERE quotation_id = $1`, q.ID); err != nil {
			return err
		}
		return insertItems(ctx, tx, q.ID, items)
	})
}

// Next claims the next value of the monthly quotation sequence. The upsert is
// a single statement, so concurrent senders each receive a distinct value.
func (r *repository) Next(ctx context.Context, period string) (int64, error) {
	var seq int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO document_sequences (doc_type, period, seq)
		VALUES ('COT', $1, 1)
		ON CONFLICT (doc_type, period)
		DO UPDATE SET seq = document_sequences.seq + 1
		RETURNING seq
	`, period).Scan(&seq)
	return seq, err
}
