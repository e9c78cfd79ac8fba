package handlers

import (
	"context"
	"net/http"

	"vigil/internal/metrics"
	"vigil/internal/moderation"
	"vigil/internal/notify"
	"vigil/internal/tracing"
)

// BanUserRequest is the body of POST /moderation/users/{id}/ban.
type BanUserRequest struct {
	BanType          string `json:"ban_type" validate:"required"`
	BanReason        string `json:"ban_reason" validate:"required,max=1000"`
	BanDurationHours *int   `json:"ban_duration_hours" validate:"omitempty,gt=0"`
}

// HandleBanUser places a permanent or temporary ban on a user.
func (h *Handler) HandleBanUser(w http.ResponseWriter, r *http.Request) {
	id, ok := requireModerator(w, r)
	if !ok {
		return
	}

	var req BanUserRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	ctx, span := tracing.OperationSpan(r.Context(), "ban_user", id.UserID)
	defer span.End()

	res, err := h.svc.BanUser(ctx, id.UserID, r.PathValue("id"), moderation.BanInput{
		Type:          moderation.BanType(req.BanType),
		Reason:        req.BanReason,
		DurationHours: req.BanDurationHours,
	})
	if err != nil {
		tracing.EndWithError(span, err)
		writeError(w, err)
		return
	}

	metrics.BansTotal.WithLabelValues(req.BanType).Inc()

	// Best-effort, after commit; never affects the response.
	tmplCtx := map[string]string{"reason": res.BanReason, "ban_type": req.BanType}
	if res.BanExpiresAt != nil {
		tmplCtx["expires_at"] = res.BanExpiresAt.Format("2006-01-02 15:04:05 MST")
	}
	go h.notifier.Send(context.WithoutCancel(ctx), res.UserID, res.Email, notify.TemplateUserBanned, tmplCtx)

	writeJSON(w, http.StatusOK, res)
}

// UnbanUserRequest is the body of POST /moderation/users/{id}/unban.
type UnbanUserRequest struct {
	Reason string `json:"reason" validate:"max=1000"`
}

// HandleUnbanUser lifts a ban.
func (h *Handler) HandleUnbanUser(w http.ResponseWriter, r *http.Request) {
	id, ok := requireModerator(w, r)
	if !ok {
		return
	}

	// Body is optional; a missing reason is fine.
	var req UnbanUserRequest
	if r.ContentLength != 0 {
		if !h.decodeJSON(w, r, &req) {
			return
		}
	}

	ctx, span := tracing.OperationSpan(r.Context(), "unban_user", id.UserID)
	defer span.End()

	res, err := h.svc.UnbanUser(ctx, id.UserID, r.PathValue("id"), req.Reason)
	if err != nil {
		tracing.EndWithError(span, err)
		writeError(w, err)
		return
	}

	metrics.UnbansTotal.Inc()
	go h.notifier.Send(context.WithoutCancel(ctx), res.UserID, res.Email, notify.TemplateUserUnbanned, nil)

	writeJSON(w, http.StatusOK, res)
}

// HandleUserHistory returns a user's aggregated moderation record.
func (h *Handler) HandleUserHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := requireModerator(w, r)
	if !ok {
		return
	}

	hist, err := h.svc.UserHistory(r.Context(), id.UserID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, hist)
}
