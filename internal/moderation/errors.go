package moderation

// Kind classifies a moderation error for transport mapping. Every rule
// violation carries both a Kind and a stable machine code so callers can
// react without parsing messages.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindInvalidInput
	KindConflict
	KindForbidden
)

// Error is a typed moderation failure. Errors with the same Code compare
// equal under errors.Is, so store implementations may return the package
// sentinels directly or wrapped.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

// Is matches any *Error with the same Code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Not found
var (
	ErrReporterNotFound = &Error{KindNotFound, "REPORTER_NOT_FOUND", "reporter does not exist"}
	ErrAdminNotFound    = &Error{KindNotFound, "ADMIN_NOT_FOUND", "admin does not exist"}
	ErrUserNotFound     = &Error{KindNotFound, "USER_NOT_FOUND", "user does not exist"}
	ErrTargetNotFound   = &Error{KindNotFound, "TARGET_NOT_FOUND", "report target does not exist"}
	ErrReportNotFound   = &Error{KindNotFound, "REPORT_NOT_FOUND", "report does not exist"}
	ErrContentNotFound  = &Error{KindNotFound, "CONTENT_NOT_FOUND", "content does not exist"}
)

// Invalid input
var (
	ErrInvalidTargetType       = &Error{KindInvalidInput, "INVALID_TARGET_TYPE", "target_type must be one of user, post, comment, activity, community"}
	ErrInvalidReportType       = &Error{KindInvalidInput, "INVALID_REPORT_TYPE", "report_type must be one of spam, harassment, inappropriate, fake, no_show, other"}
	ErrInvalidStatus           = &Error{KindInvalidInput, "INVALID_STATUS", "status must be one of reviewing, resolved, dismissed"}
	ErrInvalidBanType          = &Error{KindInvalidInput, "INVALID_BAN_TYPE", "ban_type must be permanent or temporary"}
	ErrInvalidModerationStatus = &Error{KindInvalidInput, "INVALID_MODERATION_STATUS", "moderation_status must be approved or rejected"}
	ErrInvalidContentType      = &Error{KindInvalidInput, "INVALID_CONTENT_TYPE", "content_type must be post or comment"}
	ErrInvalidDateRange        = &Error{KindInvalidInput, "INVALID_DATE_RANGE", "date_from must not be after date_to"}
	ErrDurationRequired        = &Error{KindInvalidInput, "DURATION_REQUIRED", "temporary bans require ban_duration_hours > 0"}
)

// Conflicts
var (
	ErrDuplicateReport         = &Error{KindConflict, "DUPLICATE_REPORT", "an identical report was filed within the last 24 hours"}
	ErrUserAlreadyBanned       = &Error{KindConflict, "USER_ALREADY_BANNED", "user is already banned"}
	ErrUserNotBanned           = &Error{KindConflict, "USER_NOT_BANNED", "user is not banned"}
	ErrContentAlreadyRemoved   = &Error{KindConflict, "CONTENT_ALREADY_REMOVED", "content has already been removed"}
	ErrInvalidStatusTransition = &Error{KindConflict, "INVALID_STATUS_TRANSITION", "report is in a terminal status"}
	ErrNoMainPhoto             = &Error{KindConflict, "NO_MAIN_PHOTO", "user has no main photo to moderate"}
)

// Business-rule forbiddances. Authorization proper is enforced upstream;
// these reject self-targeting actions and inactive actors.
var (
	ErrCannotSelfReport        = &Error{KindForbidden, "CANNOT_SELF_REPORT", "you cannot report yourself"}
	ErrCannotSelfBan           = &Error{KindForbidden, "CANNOT_SELF_BAN", "you cannot ban yourself"}
	ErrAdminInactive           = &Error{KindForbidden, "ADMIN_INACTIVE", "admin account is not active"}
	ErrReporterInactive        = &Error{KindForbidden, "REPORTER_INACTIVE", "reporter account is not active"}
	ErrInsufficientPermissions = &Error{KindForbidden, "INSUFFICIENT_PERMISSIONS", "admin or moderator role required"}
)
