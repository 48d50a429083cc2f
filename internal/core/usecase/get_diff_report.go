package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/rauljr10980/county-cad-tracker-sub005/internal/contextkeys"
	"github.com/rauljr10980/county-cad-tracker-sub005/internal/core/domain"
	"github.com/rauljr10980/county-cad-tracker-sub005/internal/core/port"
)

// GetDiffReportUseCase fetches the diff report generated for one snapshot.
type GetDiffReportUseCase struct {
	reports port.DiffReportStoragePort
}

func NewGetDiffReportUseCase(reports port.DiffReportStoragePort) *GetDiffReportUseCase {
	return &GetDiffReportUseCase{reports: reports}
}

func (uc *GetDiffReportUseCase) Execute(ctx context.Context, snapshotID uuid.UUID) (*domain.DiffReport, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":    "GetDiffReport",
		"snapshot_id": snapshotID.String(),
	})

	report, err := uc.reports.ReportForSnapshot(ctx, snapshotID)
	if err != nil {
		logger.Error("Storage returned an error while loading report", err, nil)
		return nil, fmt.Errorf("failed to load report for snapshot %s: %w", snapshotID, err)
	}
	return report, nil
}
