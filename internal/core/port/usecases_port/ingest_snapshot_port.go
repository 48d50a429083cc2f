package usecases_port

import (
	"context"

	"github.com/google/uuid"

	"github.com/rauljr10980/county-cad-tracker-sub005/internal/core/port"
)

type IngestSnapshotUseCase interface {
	Execute(ctx context.Context, source port.TabularSourcePort, sourceName string) (uuid.UUID, error)
}
