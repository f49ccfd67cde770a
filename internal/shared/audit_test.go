package shared

import (
	"context"
	"log/slog"
	"testing"
)

func TestRecordWithoutPoolIsNoOp(t *testing.T) {
	entry := AuditLog{Module: "quotations", RefID: 1, ActorID: 1, Action: "status:SENT"}

	var nilRecorder *AuditRecorder
	nilRecorder.Record(context.Background(), entry)

	NewAuditRecorder(nil, slog.Default()).Record(context.Background(), entry)
}
