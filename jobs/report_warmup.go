package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/gestor-pm/gestor/internal/reports"
)

// ReportWarmupJob precomputes the cached dashboard reports so the first
// morning request does not pay the aggregation cost.
type ReportWarmupJob struct {
	Reports *reports.Service
	Logger  *slog.Logger
}

// NewReportWarmupJob constructs the handler.
func NewReportWarmupJob(reportsService *reports.Service, logger *slog.Logger) *ReportWarmupJob {
	return &ReportWarmupJob{Reports: reportsService, Logger: logger}
}

// Handle refreshes the cached reports.
func (j *ReportWarmupJob) Handle(ctx context.Context, _ *asynq.Task) error {
	j.Reports.Invalidate(ctx)
	if err := j.Reports.Warm(ctx); err != nil {
		return err
	}
	j.Logger.Info("report cache warmed")
	return nil
}
