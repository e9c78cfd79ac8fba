package handlers

import (
	"net/http"
	"time"

	"vigil/internal/moderation"
)

// HandleStatistics returns aggregate moderation counters, optionally
// windowed by date_from/date_to (RFC 3339).
func (h *Handler) HandleStatistics(w http.ResponseWriter, r *http.Request) {
	id, ok := requireModerator(w, r)
	if !ok {
		return
	}

	var window *moderation.TimeRange
	q := r.URL.Query()
	if q.Get("date_from") != "" || q.Get("date_to") != "" {
		window = &moderation.TimeRange{}
		var err error
		if raw := q.Get("date_from"); raw != "" {
			if window.From, err = time.Parse(time.RFC3339, raw); err != nil {
				writeError(w, moderation.ErrInvalidDateRange)
				return
			}
		}
		if raw := q.Get("date_to"); raw != "" {
			if window.To, err = time.Parse(time.RFC3339, raw); err != nil {
				writeError(w, moderation.ErrInvalidDateRange)
				return
			}
		}
	}

	stats, err := h.svc.Statistics(r.Context(), id.UserID, window)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
