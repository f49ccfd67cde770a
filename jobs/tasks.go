// Package jobs contains the background task handlers processed by the
// asynq worker.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"

	// TaskRenewalScan looks for rigid cost renewals coming due.
	TaskRenewalScan = "rigidcosts:renewal-scan"
	// TaskQuotationExpiry flags sent quotations whose validity lapsed.
	TaskQuotationExpiry = "quotations:expiry-scan"
	// TaskReportWarmup precomputes the cached dashboard reports.
	TaskReportWarmup = "reports:warmup"
)

// RenewalScanPayload configures a renewal scan run.
type RenewalScanPayload struct {
	DaysAhead int `json:"days_ahead"`
}

// NewRenewalScanTask constructs the renewal scan task.
func NewRenewalScanTask(payload RenewalScanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRenewalScan, data), nil
}

// NewQuotationExpiryTask constructs the quotation expiry scan task.
func NewQuotationExpiryTask() *asynq.Task {
	return asynq.NewTask(TaskQuotationExpiry, nil)
}

// NewReportWarmupTask constructs the report warmup task.
func NewReportWarmupTask() *asynq.Task {
	return asynq.NewTask(TaskReportWarmup, nil)
}
