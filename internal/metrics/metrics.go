package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vigil_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vigil_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"method", "path"})
)

// Moderation event counters (incremented on occurrence)
var (
	ReportsCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vigil_reports_created_total",
		Help: "Total number of reports filed",
	}, []string{"target_type", "report_type"})

	ReportTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vigil_report_transitions_total",
		Help: "Total number of report status transitions",
	}, []string{"status"})

	BansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vigil_bans_total",
		Help: "Total number of user bans applied",
	}, []string{"ban_type"})

	UnbansTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vigil_unbans_total",
		Help: "Total number of user bans lifted",
	})

	ContentRemovalsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vigil_content_removals_total",
		Help: "Total number of content takedowns",
	}, []string{"content_type"})

	PhotoDecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vigil_photo_decisions_total",
		Help: "Total number of main photo review decisions",
	}, []string{"decision"})

	NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vigil_notifications_total",
		Help: "Total number of outbound notification attempts",
	}, []string{"template", "status"})
)

// Queue gauges (updated periodically by the collector)
var (
	PendingReports = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "vigil_pending_reports",
		Help: "Number of reports awaiting review",
	})

	BannedUsers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "vigil_banned_users",
		Help: "Number of users currently banned (permanent or temporary)",
	})

	PendingPhotos = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "vigil_pending_photos",
		Help: "Number of main photos awaiting review",
	})

	RemovedContent = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "vigil_removed_content",
		Help: "Number of taken-down posts and comments",
	})
)

// NormalizePath reduces high-cardinality path labels by replacing dynamic
// segments with placeholders. This keeps the metric label space bounded.
func NormalizePath(path string) string {
	segments := splitPath(path)
	if len(segments) < 3 || segments[0] != "moderation" {
		return path
	}

	switch segments[1] {
	case "reports":
		if len(segments) == 3 {
			return "/moderation/reports/:id"
		}
		if len(segments) == 4 && segments[3] == "status" {
			return "/moderation/reports/:id/status"
		}
	case "users":
		if len(segments) == 4 {
			return "/moderation/users/:id/" + segments[3]
		}
	}

	return path
}

func splitPath(path string) []string {
	// Skip leading slash
	if len(path) > 0 && path[0] == '/' {
		path = path[1:]
	}
	// Split on /
	var segments []string
	start := 0
	for i := 0; i < len(path); i++ {
		if path[i] == '/' {
			if i > start {
				segments = append(segments, path[start:i])
			}
			start = i + 1
		}
	}
	if start < len(path) {
		segments = append(segments, path[start:])
	}
	return segments
}
