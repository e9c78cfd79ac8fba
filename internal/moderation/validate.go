package moderation

import "context"

// Closed enumeration sets. The validators below are pure and
// side-effect-free; every lifecycle operation opens with them before
// touching the store.

var targetTypes = map[TargetType]bool{
	TargetTypeUser:      true,
	TargetTypePost:      true,
	TargetTypeComment:   true,
	TargetTypeActivity:  true,
	TargetTypeCommunity: true,
}

var reportTypes = map[ReportType]bool{
	ReportTypeSpam:          true,
	ReportTypeHarassment:    true,
	ReportTypeInappropriate: true,
	ReportTypeFake:          true,
	ReportTypeNoShow:        true,
	ReportTypeOther:         true,
}

// transitionTargets are the statuses a manual transition may move a
// report into. Pending is never a valid target.
var transitionTargets = map[ReportStatus]bool{
	ReportStatusReviewing: true,
	ReportStatusResolved:  true,
	ReportStatusDismissed: true,
}

var banTypes = map[BanType]bool{
	BanTypePermanent: true,
	BanTypeTemporary: true,
}

var photoDecisions = map[PhotoStatus]bool{
	PhotoStatusApproved: true,
	PhotoStatusRejected: true,
}

var contentTypes = map[ContentType]bool{
	ContentTypePost:    true,
	ContentTypeComment: true,
}

// reportFilterStatuses are the statuses accepted as a listing filter
// (any lifecycle status, unlike transition targets).
var reportFilterStatuses = map[ReportStatus]bool{
	ReportStatusPending:   true,
	ReportStatusReviewing: true,
	ReportStatusResolved:  true,
	ReportStatusDismissed: true,
}

// ValidateTargetType checks membership in the closed target type set.
func ValidateTargetType(t TargetType) error {
	if !targetTypes[t] {
		return ErrInvalidTargetType
	}
	return nil
}

// ValidateReportType checks membership in the closed report type set.
func ValidateReportType(t ReportType) error {
	if !reportTypes[t] {
		return ErrInvalidReportType
	}
	return nil
}

// ValidateTransitionTarget checks that a status is a legal target of a
// manual report transition.
func ValidateTransitionTarget(s ReportStatus) error {
	if !transitionTargets[s] {
		return ErrInvalidStatus
	}
	return nil
}

// ValidateBanType checks membership in the closed ban type set.
func ValidateBanType(t BanType) error {
	if !banTypes[t] {
		return ErrInvalidBanType
	}
	return nil
}

// ValidatePhotoDecision checks that a decision is approved or rejected.
func ValidatePhotoDecision(s PhotoStatus) error {
	if !photoDecisions[s] {
		return ErrInvalidModerationStatus
	}
	return nil
}

// ValidateContentType checks membership in the closed content type set.
func ValidateContentType(t ContentType) error {
	if !contentTypes[t] {
		return ErrInvalidContentType
	}
	return nil
}

// ValidateReportFilter checks the enum fields of a listing filter.
func ValidateReportFilter(f ReportFilter) error {
	if f.Status != "" && !reportFilterStatuses[f.Status] {
		return ErrInvalidStatus
	}
	if f.TargetType != "" && !targetTypes[f.TargetType] {
		return ErrInvalidTargetType
	}
	if f.ReportType != "" && !reportTypes[f.ReportType] {
		return ErrInvalidReportType
	}
	return nil
}

// requireActiveActor loads an actor and confirms it exists and is
// active, mapping the failure to the role-specific error pair.
func (s *Service) requireActiveActor(ctx context.Context, id string, notFound, inactive *Error) (*User, error) {
	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, notFound
	}
	if u.Status != UserStatusActive {
		return nil, inactive
	}
	return u, nil
}

// requireTarget confirms referential existence of a report target
// against the appropriate entity collection.
func (s *Service) requireTarget(ctx context.Context, t TargetType, id string) error {
	var (
		ok  bool
		err error
	)
	switch t {
	case TargetTypeUser:
		var u *User
		u, err = s.store.GetUser(ctx, id)
		ok = u != nil
	case TargetTypePost:
		var p *Post
		p, err = s.store.GetPost(ctx, id)
		ok = p != nil
	case TargetTypeComment:
		var c *Comment
		c, err = s.store.GetComment(ctx, id)
		ok = c != nil
	default:
		ok, err = s.store.TargetRefExists(ctx, t, id)
	}
	if err != nil {
		return err
	}
	if !ok {
		return ErrTargetNotFound
	}
	return nil
}
