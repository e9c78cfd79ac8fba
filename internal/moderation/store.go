package moderation

import (
	"context"
	"time"
)

// CreateReportParams carries a new report together with its transactional
// side conditions: the dedup lookback and the optional no-show counter
// bump. The store must evaluate both in the same transaction as the
// insert so concurrent callers observe each other.
type CreateReportParams struct {
	Report Report

	// DedupSince rejects the insert with ErrDuplicateReport when a report
	// with the same (reporter, target_type, target_id, report_type) tuple
	// was created at or after this instant.
	DedupSince time.Time

	// IncrementNoShow bumps the reported user's no_show_count together
	// with the insert.
	IncrementNoShow bool
}

// ReportTransition advances a report out of a non-terminal status. The
// store must reject transitions out of resolved/dismissed with
// ErrInvalidStatusTransition inside the same transaction as the write.
type ReportTransition struct {
	Status     ReportStatus
	ReviewerID string
	Notes      string
	At         time.Time
}

// BanRecord is the state written by a successful ban.
type BanRecord struct {
	Status    UserStatus // temporary_ban or banned
	ExpiresAt *time.Time // set iff Status == temporary_ban
	Reason    string
	Audit     AuditEntry
}

// UnbanRecord is the state written by a successful unban.
type UnbanRecord struct {
	At    time.Time
	Audit AuditEntry
}

// PhotoDecision is the state written by a main photo review.
type PhotoDecision struct {
	Status PhotoStatus
	At     time.Time
	// Audit is appended when non-nil (rejections always carry one).
	Audit *AuditEntry
}

// Removal is the state written by a content takedown.
type Removal struct {
	At    time.Time
	Audit AuditEntry
}

// Store is the persistence interface for moderation data. Implementations
// must be safe for concurrent use, and every guarded mutation (ban,
// unban, report transition, takedown, report insert) must apply its
// conflict check and write atomically. Methods return the package's
// typed errors for rule violations and nil, nil for plain lookups of
// absent entities.
type Store interface {
	// Users
	GetUser(ctx context.Context, id string) (*User, error)
	PutUser(ctx context.Context, u User) error
	ApplyBan(ctx context.Context, userID string, ban BanRecord) (*User, error)
	LiftBan(ctx context.Context, userID string, unban UnbanRecord) (*User, error)
	SetPhotoDecision(ctx context.Context, userID string, d PhotoDecision) (*User, error)
	ListPendingPhotos(ctx context.Context, limit, offset int) ([]User, error)
	CountPendingPhotos(ctx context.Context) (int, error)
	CountUsersByStatus(ctx context.Context, status UserStatus) (int, error)

	// Audit trail (append-only)
	ListAudit(ctx context.Context, userID string) ([]AuditEntry, error)
	CountAuditActions(ctx context.Context, userID string, action AuditAction) (int, error)

	// Reports
	CreateReport(ctx context.Context, p CreateReportParams) error
	GetReport(ctx context.Context, id string) (*Report, error)
	ListReports(ctx context.Context, f ReportFilter) ([]Report, error)
	TransitionReport(ctx context.Context, id string, t ReportTransition) (*Report, error)
	CountReportsAgainst(ctx context.Context, userID string) (int, error)
	CountReportsBy(ctx context.Context, userID string) (int, error)
	ListReportsAgainst(ctx context.Context, userID string, limit int) ([]Report, error)
	CountReportsByStatus(ctx context.Context, between *TimeRange) (map[ReportStatus]int, error)

	// Content
	GetPost(ctx context.Context, id string) (*Post, error)
	PutPost(ctx context.Context, p Post) error
	RemovePost(ctx context.Context, id string, rm Removal) (*Post, error)
	GetComment(ctx context.Context, id string) (*Comment, error)
	PutComment(ctx context.Context, c Comment) error
	DeleteComment(ctx context.Context, id string, rm Removal) (*Comment, error)
	CountRemovedContent(ctx context.Context) (int, error)
	CountRemovedContentByAuthor(ctx context.Context, authorID string) (int, error)

	// Non-moderated target collections, mirrored from the platform so
	// report targets can be existence-checked.
	PutActivityRef(ctx context.Context, id string) error
	PutCommunityRef(ctx context.Context, id string) error
	TargetRefExists(ctx context.Context, t TargetType, id string) (bool, error)

	Close() error
}

// TimeRange bounds a statistics query on report creation time. Zero
// bounds are open.
type TimeRange struct {
	From time.Time
	To   time.Time
}

// Contains reports whether ts falls inside the range.
func (r *TimeRange) Contains(ts time.Time) bool {
	if r == nil {
		return true
	}
	if !r.From.IsZero() && ts.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && ts.After(r.To) {
		return false
	}
	return true
}
