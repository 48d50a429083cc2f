package usecase

import (
	"context"
	"fmt"

	"github.com/rauljr10980/county-cad-tracker-sub005/internal/contextkeys"
	"github.com/rauljr10980/county-cad-tracker-sub005/internal/core/domain"
	"github.com/rauljr10980/county-cad-tracker-sub005/internal/core/port"
)

const defaultSnapshotListLimit = 20

// ListSnapshotsUseCase lists ingested snapshots newest first, all lifecycle
// states included so operators can spot errored ingestions.
type ListSnapshotsUseCase struct {
	snapshots port.SnapshotStoragePort
}

func NewListSnapshotsUseCase(snapshots port.SnapshotStoragePort) *ListSnapshotsUseCase {
	return &ListSnapshotsUseCase{snapshots: snapshots}
}

func (uc *ListSnapshotsUseCase) Execute(ctx context.Context, limit int) ([]domain.Snapshot, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "ListSnapshots",
	})
	if limit <= 0 {
		limit = defaultSnapshotListLimit
	}

	snapshots, err := uc.snapshots.ListSnapshots(ctx, limit)
	if err != nil {
		logger.Error("Storage returned an error while listing snapshots", err, nil)
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	return snapshots, nil
}
