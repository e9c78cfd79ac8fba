// Package notify delivers moderation outcome notifications to the
// platform's messaging service. Delivery is best-effort: the moderation
// state change has already committed by the time a notification goes
// out, so failures are logged and never surfaced to the caller.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"vigil/internal/email"
	"vigil/internal/metrics"

	"github.com/rs/zerolog/log"
)

// Notification templates understood by the messaging service.
const (
	TemplateUserBanned     = "user_banned"
	TemplateUserUnbanned   = "user_unbanned"
	TemplateContentRemoved = "content_removed"
	TemplatePhotoRejected  = "photo_rejected"
)

// Config holds messaging service configuration.
type Config struct {
	// BaseURL of the messaging service. Empty disables delivery.
	BaseURL string

	// Timeout for a single delivery attempt. If zero, 5 seconds is used.
	Timeout time.Duration

	// Mailer, if configured, is used as a direct-SMTP fallback when the
	// messaging service is unreachable or not configured.
	Mailer *email.Sender
}

// Client sends notifications to the messaging service.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient creates a notification client.
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// Enabled returns true if any delivery channel is configured.
func (c *Client) Enabled() bool {
	return c.cfg.BaseURL != "" || (c.cfg.Mailer != nil && c.cfg.Mailer.Enabled())
}

type sendRequest struct {
	UserID   string            `json:"user_id"`
	Email    string            `json:"email,omitempty"`
	Template string            `json:"template"`
	Context  map[string]string `json:"context,omitempty"`
}

// Send delivers one templated notification. Errors are logged and
// swallowed; the status lands on the notifications metric either way.
// When the messaging service is unavailable the client falls back to
// direct SMTP if a mailer is configured.
func (c *Client) Send(ctx context.Context, userID, addr, template string, tmplCtx map[string]string) {
	if !c.Enabled() {
		return
	}

	var err error
	if c.cfg.BaseURL != "" {
		err = c.send(ctx, sendRequest{
			UserID:   userID,
			Email:    addr,
			Template: template,
			Context:  tmplCtx,
		})
		if err == nil {
			metrics.NotificationsTotal.WithLabelValues(template, "ok").Inc()
			log.Debug().
				Str("user_id", userID).
				Str("template", template).
				Msg("notify: delivered")
			return
		}
	}

	if c.cfg.Mailer != nil && c.cfg.Mailer.Enabled() && addr != "" {
		if mailErr := c.cfg.Mailer.Send(addr, subjectFor(template), bodyFor(template, tmplCtx)); mailErr == nil {
			metrics.NotificationsTotal.WithLabelValues(template, "ok").Inc()
			log.Debug().
				Str("user_id", userID).
				Str("template", template).
				Msg("notify: delivered via smtp fallback")
			return
		} else if err == nil {
			err = mailErr
		}
	}

	metrics.NotificationsTotal.WithLabelValues(template, "error").Inc()
	log.Warn().
		Err(err).
		Str("user_id", userID).
		Str("template", template).
		Msg("notify: delivery failed")
}

// subjectFor maps a template to the subject line used on the SMTP
// fallback path. The messaging service renders its own copy.
func subjectFor(template string) string {
	switch template {
	case TemplateUserBanned:
		return "Your account has been suspended"
	case TemplateUserUnbanned:
		return "Your account has been reinstated"
	case TemplateContentRemoved:
		return "Your content has been removed"
	case TemplatePhotoRejected:
		return "Your profile photo was not approved"
	default:
		return "Account notice"
	}
}

func bodyFor(template string, tmplCtx map[string]string) string {
	var b strings.Builder
	b.WriteString(subjectFor(template))
	b.WriteString(".\r\n")
	if reason := tmplCtx["reason"]; reason != "" {
		b.WriteString("Reason: " + reason + "\r\n")
	}
	if expires := tmplCtx["expires_at"]; expires != "" {
		b.WriteString("The suspension lifts at " + expires + ".\r\n")
	}
	return b.String()
}

func (c *Client) send(ctx context.Context, req sendRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/notifications/send", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("post notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("messaging service returned %d", resp.StatusCode)
	}
	return nil
}
