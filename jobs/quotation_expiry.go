package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// QuotationExpiryJob flags sent quotations whose validity date has passed
// without a client decision.
type QuotationExpiryJob struct {
	Pool   *pgxpool.Pool
	Logger *slog.Logger
	clock  func() time.Time
}

// NewQuotationExpiryJob constructs the handler.
func NewQuotationExpiryJob(pool *pgxpool.Pool, logger *slog.Logger) *QuotationExpiryJob {
	return &QuotationExpiryJob{
		Pool:   pool,
		Logger: logger,
		clock:  func() time.Time { return time.Now().UTC() },
	}
}

// Handle executes one expiry scan.
func (j *QuotationExpiryJob) Handle(ctx context.Context, _ *asynq.Task) error {
	now := j.clock()
	rows, err := j.Pool.Query(ctx, `
		SELECT id, number, client_id, valid_until
		FROM quotations
		WHERE status = 'SENT' AND valid_until IS NOT NULL AND valid_until < $1
		ORDER BY valid_until
	`, now)
	if err != nil {
		return err
	}
	defer rows.Close()

	expired := 0
	for rows.Next() {
		var id, clientID int64
		var number string
		var validUntil time.Time
		if err := rows.Scan(&id, &number, &clientID, &validUntil); err != nil {
			return err
		}
		expired++
		j.Logger.Warn("sent quotation past validity",
			slog.Int64("quotation_id", id),
			slog.String("number", number),
			slog.Int64("client_id", clientID),
			slog.String("valid_until", validUntil.Format("2006-01-02")),
		)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	j.Logger.Info("quotation expiry scan complete", slog.Int("expired", expired))
	return nil
}
