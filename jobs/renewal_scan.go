package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/gestor-pm/gestor/internal/rigidcosts"
)

// RenewalScanJob reports upcoming rigid cost renewals so operators can act
// before the charge lands.
type RenewalScanJob struct {
	Costs  *rigidcosts.Service
	Logger *slog.Logger
}

// NewRenewalScanJob constructs the handler.
func NewRenewalScanJob(costs *rigidcosts.Service, logger *slog.Logger) *RenewalScanJob {
	return &RenewalScanJob{Costs: costs, Logger: logger}
}

// Handle executes one scan.
func (j *RenewalScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload RenewalScanPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}
	if payload.DaysAhead <= 0 {
		payload.DaysAhead = 30
	}

	renewals, err := j.Costs.UpcomingRenewals(ctx, payload.DaysAhead)
	if err != nil {
		return err
	}
	for _, renewal := range renewals {
		j.Logger.Info("rigid cost renewal due",
			slog.Int64("cost_id", renewal.Cost.ID),
			slog.String("name", renewal.Cost.Name),
			slog.String("due", renewal.DueDate.Format("2006-01-02")),
			slog.Int("days_out", renewal.DaysOut),
			slog.String("amount", renewal.Cost.Amount.String()),
		)
	}
	j.Logger.Info("renewal scan complete",
		slog.Int("renewals", len(renewals)),
		slog.Int("days_ahead", payload.DaysAhead))
	return nil
}
