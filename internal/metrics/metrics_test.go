package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		// Exact routes (no normalization needed)
		{"/", "/"},
		{"/healthz", "/healthz"},
		{"/metrics", "/metrics"},
		{"/moderation/reports", "/moderation/reports"},
		{"/moderation/statistics", "/moderation/statistics"},
		{"/moderation/photos/pending", "/moderation/photos/pending"},
		{"/moderation/photos/moderate", "/moderation/photos/moderate"},
		{"/moderation/content/remove", "/moderation/content/remove"},

		// Report routes with IDs
		{"/moderation/reports/8f14e45f", "/moderation/reports/:id"},
		{"/moderation/reports/8f14e45f/status", "/moderation/reports/:id/status"},

		// User routes with IDs
		{"/moderation/users/8f14e45f/ban", "/moderation/users/:id/ban"},
		{"/moderation/users/8f14e45f/unban", "/moderation/users/:id/unban"},
		{"/moderation/users/8f14e45f/history", "/moderation/users/:id/history"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizePath(tt.input))
		})
	}
}
