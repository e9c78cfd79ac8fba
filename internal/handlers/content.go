package handlers

import (
	"context"
	"net/http"

	"vigil/internal/metrics"
	"vigil/internal/moderation"
	"vigil/internal/notify"
	"vigil/internal/tracing"
)

// RemoveContentRequest is the body of POST /moderation/content/remove.
type RemoveContentRequest struct {
	ContentType string `json:"content_type" validate:"required"`
	ContentID   string `json:"content_id" validate:"required"`
	Reason      string `json:"reason" validate:"required,max=1000"`
}

// HandleRemoveContent takes down a post or comment.
func (h *Handler) HandleRemoveContent(w http.ResponseWriter, r *http.Request) {
	id, ok := requireModerator(w, r)
	if !ok {
		return
	}

	var req RemoveContentRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	ctx, span := tracing.OperationSpan(r.Context(), "remove_content", id.UserID)
	defer span.End()

	res, err := h.svc.RemoveContent(ctx, id.UserID, moderation.RemoveContentInput{
		Type:   moderation.ContentType(req.ContentType),
		ID:     req.ContentID,
		Reason: req.Reason,
	})
	if err != nil {
		tracing.EndWithError(span, err)
		writeError(w, err)
		return
	}

	metrics.ContentRemovalsTotal.WithLabelValues(req.ContentType).Inc()
	go h.notifier.Send(context.WithoutCancel(ctx), res.Author.ID, res.Author.Email,
		notify.TemplateContentRemoved, map[string]string{
			"content_type": req.ContentType,
			"reason":       req.Reason,
		})

	writeJSON(w, http.StatusOK, res)
}
