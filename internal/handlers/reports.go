package handlers

import (
	"net/http"

	"vigil/internal/metrics"
	"vigil/internal/moderation"
	"vigil/internal/tracing"
)

// CreateReportRequest is the body of POST /moderation/reports.
type CreateReportRequest struct {
	TargetType  string `json:"target_type" validate:"required"`
	TargetID    string `json:"target_id" validate:"required"`
	ReportType  string `json:"report_type" validate:"required"`
	Description string `json:"description" validate:"max=2000"`
}

// HandleCreateReport files a report on behalf of the authenticated
// caller. Any active user may report; no moderator role is needed.
func (h *Handler) HandleCreateReport(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req CreateReportRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	ctx, span := tracing.OperationSpan(r.Context(), "create_report", id.UserID)
	defer span.End()

	receipt, err := h.svc.CreateReport(ctx, id.UserID, moderation.CreateReportInput{
		TargetType:  moderation.TargetType(req.TargetType),
		TargetID:    req.TargetID,
		ReportType:  moderation.ReportType(req.ReportType),
		Description: req.Description,
	})
	if err != nil {
		tracing.EndWithError(span, err)
		writeError(w, err)
		return
	}

	metrics.ReportsCreatedTotal.WithLabelValues(req.TargetType, req.ReportType).Inc()
	writeJSON(w, http.StatusCreated, receipt)
}

// HandleListReports returns filtered, paginated reports, newest first.
func (h *Handler) HandleListReports(w http.ResponseWriter, r *http.Request) {
	id, ok := requireModerator(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	limit, offset := parsePagination(r, 50, 100)
	filter := moderation.ReportFilter{
		Status:     moderation.ReportStatus(q.Get("status")),
		TargetType: moderation.TargetType(q.Get("target_type")),
		ReportType: moderation.ReportType(q.Get("report_type")),
		Limit:      limit,
		Offset:     offset,
	}

	views, err := h.svc.ListReports(r.Context(), id.UserID, filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"reports": views,
		"limit":   limit,
		"offset":  offset,
	})
}

// HandleGetReport returns a single report with actor display data.
func (h *Handler) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	id, ok := requireModerator(w, r)
	if !ok {
		return
	}

	view, err := h.svc.GetReport(r.Context(), id.UserID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// UpdateReportStatusRequest is the body of PATCH /moderation/reports/{id}/status.
type UpdateReportStatusRequest struct {
	Status          string `json:"status" validate:"required"`
	ResolutionNotes string `json:"resolution_notes" validate:"max=1000"`
}

// HandleUpdateReportStatus advances a report through its lifecycle.
func (h *Handler) HandleUpdateReportStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := requireModerator(w, r)
	if !ok {
		return
	}

	var req UpdateReportStatusRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	ctx, span := tracing.OperationSpan(r.Context(), "update_report_status", id.UserID)
	defer span.End()

	rep, err := h.svc.UpdateReportStatus(ctx, id.UserID, r.PathValue("id"),
		moderation.ReportStatus(req.Status), req.ResolutionNotes)
	if err != nil {
		tracing.EndWithError(span, err)
		writeError(w, err)
		return
	}

	metrics.ReportTransitionsTotal.WithLabelValues(req.Status).Inc()
	writeJSON(w, http.StatusOK, rep)
}
