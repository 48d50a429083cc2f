package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/rauljr10980/county-cad-tracker-sub005/internal/core/port"
	"github.com/rauljr10980/county-cad-tracker-sub005/internal/core/port/usecases_port"
)

// SourceOpener turns a file path into a readable tabular source. Wired to the
// spreadsheet adapter in the composition root.
type SourceOpener func(path string) (port.TabularSourcePort, error)

type IngestionHandler struct {
	ingestUC        usecases_port.IngestSnapshotUseCase
	listSnapshotsUC usecases_port.ListSnapshotsUseCase
	openSource      SourceOpener
}

func NewIngestionHandler(ingestUC usecases_port.IngestSnapshotUseCase,
	listSnapshotsUC usecases_port.ListSnapshotsUseCase,
	openSource SourceOpener) *IngestionHandler {
	return &IngestionHandler{
		ingestUC:        ingestUC,
		listSnapshotsUC: listSnapshotsUC,
		openSource:      openSource,
	}
}

func (h *IngestionHandler) StartIngestion(w http.ResponseWriter, r *http.Request) {
	var req StartIngestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "StartIngestion: invalid request body")
		return
	}
	if req.Path == "" {
		WriteJSONError(w, http.StatusBadRequest, "StartIngestion: path is required")
		return
	}

	sourceName := req.Source
	if sourceName == "" {
		sourceName = filepath.Base(req.Path)
	}

	src, err := h.openSource(req.Path)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, fmt.Sprintf("StartIngestion: failed to open source file: %v", err))
		return
	}

	snapshotID, err := h.ingestUC.Execute(r.Context(), src, sourceName)
	if err != nil {
		WriteJSONError(w, http.StatusInternalServerError, fmt.Sprintf("StartIngestion: ingestion failed: %v", err))
		return
	}

	RespondWithJSON(w, http.StatusCreated, StartIngestionResponse{
		SnapshotID: snapshotID.String(),
	})
}

func (h *IngestionHandler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	limit, err := GetLimitOrDefault(r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "ListSnapshots: invalid limit value")
		return
	}

	snapshots, err := h.listSnapshotsUC.Execute(r.Context(), *limit)
	if err != nil {
		WriteJSONError(w, http.StatusInternalServerError, fmt.Sprintf("ListSnapshots: failed to list snapshots: %v", err))
		return
	}

	response := make([]SnapshotResponse, len(snapshots))
	for i, s := range snapshots {
		response[i] = SnapshotResponse{
			ID:          s.ID.String(),
			Source:      s.Source,
			Status:      string(s.Status),
			IngestedAt:  s.IngestedAt,
			RecordCount: s.RecordCount,
		}
	}

	RespondWithJSON(w, http.StatusOK, response)
}
