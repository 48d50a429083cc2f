package rest

import "time"

// StartIngestionRequest asks the service to ingest one delinquency export
// that is already available on the local filesystem.
type StartIngestionRequest struct {
	Path   string `json:"path"`
	Source string `json:"source,omitempty"` // defaults to the file name
}

type StartIngestionResponse struct {
	SnapshotID string `json:"snapshot_id"`
}

type SnapshotResponse struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	Status      string    `json:"status"`
	IngestedAt  time.Time `json:"ingested_at"`
	RecordCount int       `json:"record_count"`
}
