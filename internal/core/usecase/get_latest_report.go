package usecase

import (
	"context"
	"fmt"

	"github.com/rauljr10980/county-cad-tracker-sub005/internal/contextkeys"
	"github.com/rauljr10980/county-cad-tracker-sub005/internal/core/domain"
	"github.com/rauljr10980/county-cad-tracker-sub005/internal/core/port"
)

// GetLatestDiffReportUseCase returns the newest diff report, if any.
type GetLatestDiffReportUseCase struct {
	reports port.DiffReportStoragePort
}

func NewGetLatestDiffReportUseCase(reports port.DiffReportStoragePort) *GetLatestDiffReportUseCase {
	return &GetLatestDiffReportUseCase{reports: reports}
}

func (uc *GetLatestDiffReportUseCase) Execute(ctx context.Context) (*domain.DiffReport, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "GetLatestDiffReport",
	})

	report, err := uc.reports.LatestReport(ctx)
	if err != nil {
		logger.Error("Storage returned an error while loading latest report", err, nil)
		return nil, fmt.Errorf("failed to load latest report: %w", err)
	}
	return report, nil
}
