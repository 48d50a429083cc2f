package usecases_port

import (
	"context"

	"github.com/rauljr10980/county-cad-tracker-sub005/internal/core/domain"
)

type GetLatestDiffReportUseCase interface {
	Execute(ctx context.Context) (*domain.DiffReport, error)
}
