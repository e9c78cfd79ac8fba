// Package moderation implements the moderation core for the activity
// platform: report lifecycle, user bans, content takedowns and main photo
// review. All business rules live here; persistence is behind the Store
// interface and HTTP is a thin layer on top.
package moderation

import "time"

// UserStatus is the lifecycle status of a platform user.
type UserStatus string

const (
	UserStatusActive       UserStatus = "active"
	UserStatusTemporaryBan UserStatus = "temporary_ban"
	UserStatusBanned       UserStatus = "banned"
)

// PhotoStatus is the moderation state of a user's main profile photo.
type PhotoStatus string

const (
	PhotoStatusPending  PhotoStatus = "pending"
	PhotoStatusApproved PhotoStatus = "approved"
	PhotoStatusRejected PhotoStatus = "rejected"
)

// BanType selects between a permanent and a time-limited ban.
type BanType string

const (
	BanTypePermanent BanType = "permanent"
	BanTypeTemporary BanType = "temporary"
)

// TargetType identifies the kind of entity a report refers to.
type TargetType string

const (
	TargetTypeUser      TargetType = "user"
	TargetTypePost      TargetType = "post"
	TargetTypeComment   TargetType = "comment"
	TargetTypeActivity  TargetType = "activity"
	TargetTypeCommunity TargetType = "community"
)

// ReportType categorizes why a report was filed.
type ReportType string

const (
	ReportTypeSpam          ReportType = "spam"
	ReportTypeHarassment    ReportType = "harassment"
	ReportTypeInappropriate ReportType = "inappropriate"
	ReportTypeFake          ReportType = "fake"
	ReportTypeNoShow        ReportType = "no_show"
	ReportTypeOther         ReportType = "other"
)

// ReportStatus is the lifecycle status of a report. Transitions are
// one-directional: pending -> reviewing -> resolved|dismissed, and the
// two rightmost states are terminal.
type ReportStatus string

const (
	ReportStatusPending   ReportStatus = "pending"
	ReportStatusReviewing ReportStatus = "reviewing"
	ReportStatusResolved  ReportStatus = "resolved"
	ReportStatusDismissed ReportStatus = "dismissed"
)

// Terminal reports true for statuses that permit no further transition.
func (s ReportStatus) Terminal() bool {
	return s == ReportStatusResolved || s == ReportStatusDismissed
}

// ContentType identifies the kind of removable content.
type ContentType string

const (
	ContentTypePost    ContentType = "post"
	ContentTypeComment ContentType = "comment"
)

// PostStatus is the lifecycle status of a post. Posts and comments encode
// "taken down" differently (status enum vs boolean flag); the takedown
// engine normalizes both into one outward "removed" concept.
type PostStatus string

const (
	PostStatusActive  PostStatus = "active"
	PostStatusRemoved PostStatus = "removed"
)

// DedupWindow is the sliding lookback used to reject repeat reports for
// the same (reporter, target, report type) tuple.
const DedupWindow = 24 * time.Hour

// HistoryReportLimit caps the recent-reports feed in a user's history.
const HistoryReportLimit = 20

// User is a moderation subject (and potential actor). Users are mutated
// by the ban engine and photo review; they are never deleted.
type User struct {
	ID           string      `json:"id"`
	Username     string      `json:"username"`
	Email        string      `json:"email"`
	Status       UserStatus  `json:"status"`
	BanExpiresAt *time.Time  `json:"ban_expires_at,omitempty"`
	BanReason    string      `json:"ban_reason,omitempty"`
	NoShowCount  int         `json:"no_show_count"`
	MainPhotoURL string      `json:"main_photo_url,omitempty"`
	PhotoStatus  PhotoStatus `json:"main_photo_moderation_status,omitempty"`
	// PhotoSubmittedAt orders the pending photo queue (oldest first).
	PhotoSubmittedAt time.Time `json:"photo_submitted_at,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Report is a user-filed complaint about a target entity.
type Report struct {
	ID              string       `json:"id"`
	ReporterID      string       `json:"reporter_id"`
	ReportedUserID  string       `json:"reported_user_id,omitempty"` // set iff TargetType == user
	TargetType      TargetType   `json:"target_type"`
	TargetID        string       `json:"target_id"`
	ReportType      ReportType   `json:"report_type"`
	Description     string       `json:"description,omitempty"`
	Status          ReportStatus `json:"status"`
	ReviewerID      string       `json:"reviewer_id,omitempty"`
	ReviewedAt      *time.Time   `json:"reviewed_at,omitempty"`
	ResolutionNotes string       `json:"resolution_notes,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// Post is a content item whose takedown marker is a status enum.
type Post struct {
	ID        string     `json:"id"`
	AuthorID  string     `json:"author_id"`
	Status    PostStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Comment is a content item whose takedown marker is a boolean flag.
type Comment struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	IsDeleted bool      `json:"is_deleted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuditAction is a type of recorded moderation action.
type AuditAction string

const (
	AuditActionBan            AuditAction = "ban"
	AuditActionUnban          AuditAction = "unban"
	AuditActionPhotoApproved  AuditAction = "photo_approved"
	AuditActionPhotoRejected  AuditAction = "photo_rejected"
	AuditActionContentRemoved AuditAction = "content_removed"
)

// AuditEntry is one append-only record in a user's moderation audit
// trail. Entries accumulate and are never overwritten.
type AuditEntry struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"` // subject of the action
	Action    AuditAction       `json:"action"`
	ActorID   string            `json:"actor_id"` // admin who acted
	Reason    string            `json:"reason,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// UserRef is the display identity joined onto read results.
type UserRef struct {
	ID       string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// ReportReceipt is returned by CreateReport.
type ReportReceipt struct {
	ReportID  string       `json:"report_id"`
	Status    ReportStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
}

// ReportView is a report joined with actor display data.
type ReportView struct {
	Report
	Reporter     UserRef  `json:"reporter"`
	ReportedUser *UserRef `json:"reported_user,omitempty"`
}

// ReportFilter narrows and pages report listings. Zero values mean "no
// filter". Ordering is newest-created-first.
type ReportFilter struct {
	Status     ReportStatus
	TargetType TargetType
	ReportType ReportType
	Limit      int
	Offset     int
}

// BanResult is the outcome of a successful ban, including the contact
// identity the caller hands to the notification service.
type BanResult struct {
	UserID       string     `json:"user_id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	Status       UserStatus `json:"status"`
	BanExpiresAt *time.Time `json:"ban_expires_at,omitempty"`
	BanReason    string     `json:"ban_reason"`
	BannedAt     time.Time  `json:"banned_at"`
}

// UnbanResult is the outcome of a successful unban.
type UnbanResult struct {
	UserID     string     `json:"user_id"`
	Username   string     `json:"username"`
	Email      string     `json:"email"`
	Status     UserStatus `json:"status"`
	UnbannedAt time.Time  `json:"unbanned_at"`
	UnbannedBy string     `json:"unbanned_by_user_id"`
}

// RemovalResult is the outcome of a content takedown. Status is always
// "removed" regardless of how the underlying entity encodes it.
type RemovalResult struct {
	ContentType ContentType `json:"content_type"`
	ContentID   string      `json:"content_id"`
	Status      string      `json:"status"`
	RemovedAt   time.Time   `json:"removed_at"`
	RemovedBy   string      `json:"removed_by_user_id"`
	Author      UserRef     `json:"author"`
}

// PhotoResult is the outcome of a main photo decision.
type PhotoResult struct {
	UserID       string      `json:"user_id"`
	Username     string      `json:"username"`
	Email        string      `json:"email"`
	MainPhotoURL string      `json:"main_photo_url"`
	Status       PhotoStatus `json:"moderation_status"`
	ModeratedAt  time.Time   `json:"moderated_at"`
}

// PendingPhoto is one entry in the photo review queue.
type PendingPhoto struct {
	UserID       string    `json:"user_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	MainPhotoURL string    `json:"main_photo_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserHistory aggregates a user's moderation record. Ban and photo
// rejection totals are derived from the audit trail.
type UserHistory struct {
	UserID               string       `json:"user_id"`
	Username             string       `json:"username"`
	Status               UserStatus   `json:"status"`
	ReportsReceived      int          `json:"reports_received"`
	ReportsMade          int          `json:"reports_made"`
	ContentRemoved       int          `json:"content_removed"`
	TotalBans            int          `json:"total_bans"`
	TotalPhotoRejections int          `json:"total_photo_rejections"`
	RecentReports        []ReportView `json:"recent_reports"`
}

// Statistics holds the simple counts shown on the admin dashboard.
type Statistics struct {
	TotalReports    int                  `json:"total_reports"`
	ReportsByStatus map[ReportStatus]int `json:"reports_by_status"`
	BannedUsers     int                  `json:"banned_users"`
	PendingPhotos   int                  `json:"pending_photos"`
	RemovedContent  int                  `json:"removed_content"`
}
