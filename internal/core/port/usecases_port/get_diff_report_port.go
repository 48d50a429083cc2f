package usecases_port

import (
	"context"

	"github.com/google/uuid"

	"github.com/rauljr10980/county-cad-tracker-sub005/internal/core/domain"
)

type GetDiffReportUseCase interface {
	Execute(ctx context.Context, snapshotID uuid.UUID) (*domain.DiffReport, error)
}
