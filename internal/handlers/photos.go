package handlers

import (
	"context"
	"net/http"

	"vigil/internal/metrics"
	"vigil/internal/moderation"
	"vigil/internal/notify"
	"vigil/internal/tracing"
)

// HandlePendingPhotos returns the photo review queue, oldest first.
func (h *Handler) HandlePendingPhotos(w http.ResponseWriter, r *http.Request) {
	id, ok := requireModerator(w, r)
	if !ok {
		return
	}

	limit, offset := parsePagination(r, 50, 100)
	queue, err := h.svc.ListPendingPhotos(r.Context(), id.UserID, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"photos": queue,
		"limit":  limit,
		"offset": offset,
	})
}

// ModeratePhotoRequest is the body of POST /moderation/photos/moderate.
type ModeratePhotoRequest struct {
	UserID           string `json:"user_id" validate:"required"`
	ModerationStatus string `json:"moderation_status" validate:"required"`
	RejectionReason  string `json:"rejection_reason" validate:"max=500"`
}

// HandleModeratePhoto approves or rejects a user's main photo.
func (h *Handler) HandleModeratePhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := requireModerator(w, r)
	if !ok {
		return
	}

	var req ModeratePhotoRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	ctx, span := tracing.OperationSpan(r.Context(), "moderate_photo", id.UserID)
	defer span.End()

	res, err := h.svc.ModeratePhoto(ctx, id.UserID, moderation.PhotoInput{
		UserID:          req.UserID,
		Decision:        moderation.PhotoStatus(req.ModerationStatus),
		RejectionReason: req.RejectionReason,
	})
	if err != nil {
		tracing.EndWithError(span, err)
		writeError(w, err)
		return
	}

	metrics.PhotoDecisionsTotal.WithLabelValues(req.ModerationStatus).Inc()
	if res.Status == moderation.PhotoStatusRejected {
		go h.notifier.Send(context.WithoutCancel(ctx), res.UserID, res.Email,
			notify.TemplatePhotoRejected, map[string]string{"reason": req.RejectionReason})
	}

	writeJSON(w, http.StatusOK, res)
}
