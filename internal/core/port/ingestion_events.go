package port

import (
	"context"

	"github.com/rauljr10980/county-cad-tracker-sub005/internal/core/domain"
)

// ReportReadyEvent is published after an ingestion completes, so downstream
// consumers (alerting, staff dashboards) can react to the new report.
type ReportReadyEvent struct {
	ReportID          string             `json:"report_id"`
	CurrentSnapshotID string             `json:"current_snapshot_id"`
	Summary           domain.DiffSummary `json:"summary"`
}

// IngestionEventsPort publishes ingestion outcomes to the message bus.
type IngestionEventsPort interface {
	PublishReportReady(ctx context.Context, event ReportReadyEvent) error
}
