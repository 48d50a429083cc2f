package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/rauljr10980/county-cad-tracker-sub005/internal/core/domain"
)

// DiffReportStoragePort persists diff reports. Reports are immutable after
// creation; there is no update operation on purpose.
type DiffReportStoragePort interface {
	SaveReport(ctx context.Context, report domain.DiffReport) error

	// ReportForSnapshot returns the report whose current side is snapshotID,
	// or (nil, nil) when the snapshot has no report.
	ReportForSnapshot(ctx context.Context, snapshotID uuid.UUID) (*domain.DiffReport, error)

	// LatestReport returns the newest report, or (nil, nil) when none exists.
	LatestReport(ctx context.Context) (*domain.DiffReport, error)
}
