package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/rauljr10980/county-cad-tracker-sub005/internal/core/domain"
)

// SnapshotStoragePort owns the durable snapshot lifecycle. The core never
// touches the database directly; it hands records over and reads completed
// snapshots back.
type SnapshotStoragePort interface {
	// CreateSnapshot opens a new snapshot in the processing state.
	CreateSnapshot(ctx context.Context, source string) (domain.Snapshot, error)

	// SaveRecords persists the canonical records of a snapshot in one batch.
	SaveRecords(ctx context.Context, snapshotID uuid.UUID, records []domain.DelinquentProperty) error

	// MarkCompleted / MarkError finish the snapshot lifecycle.
	MarkCompleted(ctx context.Context, snapshotID uuid.UUID, recordCount int) error
	MarkError(ctx context.Context, snapshotID uuid.UUID) error

	// LatestCompleted returns the most recent completed snapshot other than
	// excludeID, or (nil, nil) when none exists yet.
	LatestCompleted(ctx context.Context, excludeID uuid.UUID) (*domain.Snapshot, error)

	// RecordsOf loads the full record set of a snapshot.
	RecordsOf(ctx context.Context, snapshotID uuid.UUID) ([]domain.DelinquentProperty, error)

	// ListSnapshots returns snapshots newest first.
	ListSnapshots(ctx context.Context, limit int) ([]domain.Snapshot, error)
}
