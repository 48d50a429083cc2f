package rest

import (
	"fmt"
	"net/http"

	"github.com/rauljr10980/county-cad-tracker-sub005/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type ReportHandler struct {
	getReportUC       usecases_port.GetDiffReportUseCase
	getLatestReportUC usecases_port.GetLatestDiffReportUseCase
}

func NewReportHandler(getReportUC usecases_port.GetDiffReportUseCase,
	getLatestReportUC usecases_port.GetLatestDiffReportUseCase) *ReportHandler {
	return &ReportHandler{
		getReportUC:       getReportUC,
		getLatestReportUC: getLatestReportUC,
	}
}

func (h *ReportHandler) GetReportForSnapshot(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "snapshotID")
	snapshotID, err := uuid.Parse(idStr)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "GetReportForSnapshot: invalid snapshot id")
		return
	}

	report, err := h.getReportUC.Execute(r.Context(), snapshotID)
	if err != nil {
		WriteJSONError(w, http.StatusInternalServerError, fmt.Sprintf("GetReportForSnapshot: failed to load report: %v", err))
		return
	}
	if report == nil {
		WriteJSONError(w, http.StatusNotFound, "GetReportForSnapshot: no report for this snapshot")
		return
	}

	RespondWithJSON(w, http.StatusOK, report)
}

func (h *ReportHandler) GetLatestReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.getLatestReportUC.Execute(r.Context())
	if err != nil {
		WriteJSONError(w, http.StatusInternalServerError, fmt.Sprintf("GetLatestReport: failed to load report: %v", err))
		return
	}
	if report == nil {
		WriteJSONError(w, http.StatusNotFound, "GetLatestReport: no reports yet")
		return
	}

	RespondWithJSON(w, http.StatusOK, report)
}
