package shared

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditLog represents a single audit trail entry.
type AuditLog struct {
	ID      uuid.UUID
	Module  string
	RefID   int64
	ActorID int64
	Action  string
	Note    string
	At      time.Time
}

// AuditRecorder persists audit history for workflow actions such as
// quotation submissions, approvals and rejections.
type AuditRecorder struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewAuditRecorder constructs an AuditRecorder.
func NewAuditRecorder(pool *pgxpool.Pool, logger *slog.Logger) *AuditRecorder {
	return &AuditRecorder{pool: pool, logger: logger}
}

// Record writes an audit entry to the database. Failures are logged and
// swallowed; the audit trail never blocks the workflow action it describes.
func (r *AuditRecorder) Record(ctx context.Context, entry AuditLog) {
	if r == nil || r.pool == nil {
		return
	}
	if entry.Module == "" || entry.Action == "" {
		r.logger.Error("audit entry missing module or action",
			slog.String("module", entry.Module), slog.String("action", entry.Action))
		return
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.At.IsZero() {
		entry.At = time.Now()
	}
	_, err := r.pool.Exec(ctx, `INSERT INTO audit_log (id, module, ref_id, actor_id, action, note, at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`, entry.ID, entry.Module, entry.RefID, entry.ActorID, entry.Action, entry.Note, entry.At)
	if err != nil {
		r.logger.Error("record audit entry", slog.Any("error", err))
	}
}
