package domain

import (
	"time"

	"github.com/google/uuid"
)

// SnapshotStatus is the ingestion lifecycle of a snapshot. Only completed
// snapshots participate in comparisons.
type SnapshotStatus string

const (
	SnapshotProcessing SnapshotStatus = "processing"
	SnapshotCompleted  SnapshotStatus = "completed"
	SnapshotError      SnapshotStatus = "error"
)

// Snapshot is one ingested export: the full set of canonical records tagged
// with the ingestion time. IngestedAt is the monotonic ordering key between
// snapshots of the same county feed.
type Snapshot struct {
	ID          uuid.UUID      `json:"id"`
	Source      string         `json:"source"`
	Status      SnapshotStatus `json:"status"`
	IngestedAt  time.Time      `json:"ingested_at"`
	RecordCount int            `json:"record_count"`
}
