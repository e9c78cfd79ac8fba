package moderation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Service runs the moderation lifecycle engines on top of a Store. It
// holds no mutable state of its own, so a single instance may be shared
// by any number of concurrent callers; atomicity of each operation is
// delegated to the store's transactional guards.
type Service struct {
	store Store
	now   func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the service clock. Used by tests to step through
// the report dedup window and ban expiries.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a moderation service backed by the given store.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateReportInput is the operation-specific parameter set for
// CreateReport.
type CreateReportInput struct {
	TargetType  TargetType
	TargetID    string
	ReportType  ReportType
	Description string
}

// CreateReport files a report on behalf of reporterID. The reported-user
// reference is forced to the target when the target is a user; the
// identical-report dedup window and the no-show counter bump are applied
// in the same store transaction as the insert.
func (s *Service) CreateReport(ctx context.Context, reporterID string, in CreateReportInput) (*ReportReceipt, error) {
	if _, err := s.requireActiveActor(ctx, reporterID, ErrReporterNotFound, ErrReporterInactive); err != nil {
		return nil, err
	}
	if err := ValidateTargetType(in.TargetType); err != nil {
		return nil, err
	}
	if err := ValidateReportType(in.ReportType); err != nil {
		return nil, err
	}
	if err := s.requireTarget(ctx, in.TargetType, in.TargetID); err != nil {
		return nil, err
	}

	// A report about a user always points at that user.
	reportedUserID := ""
	if in.TargetType == TargetTypeUser {
		reportedUserID = in.TargetID
		if reportedUserID == reporterID {
			return nil, ErrCannotSelfReport
		}
	}

	now := s.now().UTC()
	rep := Report{
		ID:             uuid.NewString(),
		ReporterID:     reporterID,
		ReportedUserID: reportedUserID,
		TargetType:     in.TargetType,
		TargetID:       in.TargetID,
		ReportType:     in.ReportType,
		Description:    in.Description,
		Status:         ReportStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err := s.store.CreateReport(ctx, CreateReportParams{
		Report:          rep,
		DedupSince:      now.Add(-DedupWindow),
		IncrementNoShow: in.ReportType == ReportTypeNoShow && in.TargetType == TargetTypeUser,
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("report_id", rep.ID).
		Str("reporter_id", reporterID).
		Str("target_type", string(in.TargetType)).
		Str("target_id", in.TargetID).
		Str("report_type", string(in.ReportType)).
		Msg("moderation: report created")

	return &ReportReceipt{ReportID: rep.ID, Status: rep.Status, CreatedAt: rep.CreatedAt}, nil
}

// UpdateReportStatus advances a report to reviewing, resolved or
// dismissed. Reports already in a terminal status are locked.
func (s *Service) UpdateReportStatus(ctx context.Context, adminID, reportID string, status ReportStatus, notes string) (*Report, error) {
	if _, err := s.requireActiveActor(ctx, adminID, ErrAdminNotFound, ErrAdminInactive); err != nil {
		return nil, err
	}
	if err := ValidateTransitionTarget(status); err != nil {
		return nil, err
	}

	rep, err := s.store.TransitionReport(ctx, reportID, ReportTransition{
		Status:     status,
		ReviewerID: adminID,
		Notes:      notes,
		At:         s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("report_id", reportID).
		Str("status", string(status)).
		Str("admin_id", adminID).
		Msg("moderation: report status updated")

	return rep, nil
}

// GetReport returns a single report joined with actor display data.
func (s *Service) GetReport(ctx context.Context, adminID, reportID string) (*ReportView, error) {
	if _, err := s.requireActiveActor(ctx, adminID, ErrAdminNotFound, ErrAdminInactive); err != nil {
		return nil, err
	}
	rep, err := s.store.GetReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if rep == nil {
		return nil, ErrReportNotFound
	}
	view, err := s.joinReport(ctx, *rep)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// ListReports returns filtered, paginated reports, newest first.
func (s *Service) ListReports(ctx context.Context, adminID string, f ReportFilter) ([]ReportView, error) {
	if _, err := s.requireActiveActor(ctx, adminID, ErrAdminNotFound, ErrAdminInactive); err != nil {
		return nil, err
	}
	if err := ValidateReportFilter(f); err != nil {
		return nil, err
	}
	reports, err := s.store.ListReports(ctx, f)
	if err != nil {
		return nil, err
	}
	views := make([]ReportView, 0, len(reports))
	for _, rep := range reports {
		view, err := s.joinReport(ctx, rep)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// joinReport attaches reporter and reported-user display data. Missing
// users degrade to a bare ID rather than failing the read.
func (s *Service) joinReport(ctx context.Context, rep Report) (ReportView, error) {
	view := ReportView{Report: rep, Reporter: UserRef{ID: rep.ReporterID}}

	if u, err := s.store.GetUser(ctx, rep.ReporterID); err != nil {
		return view, err
	} else if u != nil {
		view.Reporter = UserRef{ID: u.ID, Username: u.Username, Email: u.Email}
	}

	if rep.ReportedUserID != "" {
		ref := UserRef{ID: rep.ReportedUserID}
		if u, err := s.store.GetUser(ctx, rep.ReportedUserID); err != nil {
			return view, err
		} else if u != nil {
			ref = UserRef{ID: u.ID, Username: u.Username, Email: u.Email}
		}
		view.ReportedUser = &ref
	}
	return view, nil
}

// BanInput is the operation-specific parameter set for BanUser.
type BanInput struct {
	Type          BanType
	Reason        string
	DurationHours *int // required iff Type == temporary
}

// BanUser places a permanent or temporary ban on userID. Double bans are
// rejected inside the store transaction so concurrent attempts cannot
// both succeed.
func (s *Service) BanUser(ctx context.Context, adminID, userID string, in BanInput) (*BanResult, error) {
	if _, err := s.requireActiveActor(ctx, adminID, ErrAdminNotFound, ErrAdminInactive); err != nil {
		return nil, err
	}
	if adminID == userID {
		return nil, ErrCannotSelfBan
	}
	if err := ValidateBanType(in.Type); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	ban := BanRecord{
		Status: UserStatusBanned,
		Reason: in.Reason,
	}
	if in.Type == BanTypeTemporary {
		if in.DurationHours == nil || *in.DurationHours <= 0 {
			return nil, ErrDurationRequired
		}
		expires := now.Add(time.Duration(*in.DurationHours) * time.Hour)
		ban.Status = UserStatusTemporaryBan
		ban.ExpiresAt = &expires
	}
	ban.Audit = AuditEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Action:    AuditActionBan,
		ActorID:   adminID,
		Reason:    in.Reason,
		Details:   map[string]string{"ban_type": string(in.Type)},
		CreatedAt: now,
	}

	u, err := s.store.ApplyBan(ctx, userID, ban)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("user_id", userID).
		Str("ban_type", string(in.Type)).
		Str("admin_id", adminID).
		Msg("moderation: user banned")

	return &BanResult{
		UserID:       u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Status:       u.Status,
		BanExpiresAt: u.BanExpiresAt,
		BanReason:    u.BanReason,
		BannedAt:     now,
	}, nil
}

// UnbanUser lifts a ban, resetting status and expiry and appending the
// unban metadata to the user's audit trail.
func (s *Service) UnbanUser(ctx context.Context, adminID, userID, reason string) (*UnbanResult, error) {
	if _, err := s.requireActiveActor(ctx, adminID, ErrAdminNotFound, ErrAdminInactive); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	u, err := s.store.LiftBan(ctx, userID, UnbanRecord{
		At: now,
		Audit: AuditEntry{
			ID:        uuid.NewString(),
			UserID:    userID,
			Action:    AuditActionUnban,
			ActorID:   adminID,
			Reason:    reason,
			CreatedAt: now,
		},
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("user_id", userID).
		Str("admin_id", adminID).
		Msg("moderation: user unbanned")

	return &UnbanResult{
		UserID:     u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Status:     u.Status,
		UnbannedAt: now,
		UnbannedBy: adminID,
	}, nil
}

// UserHistory aggregates a user's moderation record: counters plus the
// most recent reports received. The counts are independent reads, so
// they are fetched in parallel.
func (s *Service) UserHistory(ctx context.Context, adminID, userID string) (*UserHistory, error) {
	if _, err := s.requireActiveActor(ctx, adminID, ErrAdminNotFound, ErrAdminInactive); err != nil {
		return nil, err
	}
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	hist := &UserHistory{
		UserID:   u.ID,
		Username: u.Username,
		Status:   u.Status,
	}

	var recent []Report
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		hist.ReportsReceived, err = s.store.CountReportsAgainst(gCtx, userID)
		return err
	})
	g.Go(func() (err error) {
		hist.ReportsMade, err = s.store.CountReportsBy(gCtx, userID)
		return err
	})
	g.Go(func() (err error) {
		hist.ContentRemoved, err = s.store.CountRemovedContentByAuthor(gCtx, userID)
		return err
	})
	g.Go(func() (err error) {
		hist.TotalBans, err = s.store.CountAuditActions(gCtx, userID, AuditActionBan)
		return err
	})
	g.Go(func() (err error) {
		hist.TotalPhotoRejections, err = s.store.CountAuditActions(gCtx, userID, AuditActionPhotoRejected)
		return err
	})
	g.Go(func() (err error) {
		recent, err = s.store.ListReportsAgainst(gCtx, userID, HistoryReportLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	hist.RecentReports = make([]ReportView, 0, len(recent))
	for _, rep := range recent {
		view, err := s.joinReport(ctx, rep)
		if err != nil {
			return nil, err
		}
		hist.RecentReports = append(hist.RecentReports, view)
	}
	return hist, nil
}

// RemoveContentInput is the operation-specific parameter set for
// RemoveContent.
type RemoveContentInput struct {
	Type   ContentType
	ID     string
	Reason string
}

// RemoveContent marks a post removed or a comment deleted, exactly once.
// The two content kinds encode takedown differently; the result
// normalizes both into status "removed" and carries the author's contact
// identity for downstream notification.
func (s *Service) RemoveContent(ctx context.Context, adminID string, in RemoveContentInput) (*RemovalResult, error) {
	if _, err := s.requireActiveActor(ctx, adminID, ErrAdminNotFound, ErrAdminInactive); err != nil {
		return nil, err
	}
	if err := ValidateContentType(in.Type); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	var authorID string
	rm := func(auditUserID string) Removal {
		return Removal{
			At: now,
			Audit: AuditEntry{
				ID:      uuid.NewString(),
				UserID:  auditUserID,
				Action:  AuditActionContentRemoved,
				ActorID: adminID,
				Reason:  in.Reason,
				Details: map[string]string{
					"content_type": string(in.Type),
					"content_id":   in.ID,
				},
				CreatedAt: now,
			},
		}
	}

	switch in.Type {
	case ContentTypePost:
		p, err := s.store.GetPost(ctx, in.ID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, ErrContentNotFound
		}
		if _, err := s.store.RemovePost(ctx, in.ID, rm(p.AuthorID)); err != nil {
			return nil, err
		}
		authorID = p.AuthorID
	case ContentTypeComment:
		c, err := s.store.GetComment(ctx, in.ID)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, ErrContentNotFound
		}
		if _, err := s.store.DeleteComment(ctx, in.ID, rm(c.AuthorID)); err != nil {
			return nil, err
		}
		authorID = c.AuthorID
	}

	author := UserRef{ID: authorID}
	if u, err := s.store.GetUser(ctx, authorID); err != nil {
		return nil, err
	} else if u != nil {
		author = UserRef{ID: u.ID, Username: u.Username, Email: u.Email}
	}

	log.Info().
		Str("content_type", string(in.Type)).
		Str("content_id", in.ID).
		Str("admin_id", adminID).
		Msg("moderation: content removed")

	return &RemovalResult{
		ContentType: in.Type,
		ContentID:   in.ID,
		Status:      "removed",
		RemovedAt:   now,
		RemovedBy:   adminID,
		Author:      author,
	}, nil
}

// PhotoInput is the operation-specific parameter set for ModeratePhoto.
type PhotoInput struct {
	UserID          string
	Decision        PhotoStatus
	RejectionReason string
}

// ModeratePhoto approves or rejects a user's main photo. Rejections
// append the reason to the user's audit trail.
func (s *Service) ModeratePhoto(ctx context.Context, adminID string, in PhotoInput) (*PhotoResult, error) {
	if _, err := s.requireActiveActor(ctx, adminID, ErrAdminNotFound, ErrAdminInactive); err != nil {
		return nil, err
	}
	if err := ValidatePhotoDecision(in.Decision); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	decision := PhotoDecision{Status: in.Decision, At: now}
	if in.Decision == PhotoStatusRejected {
		decision.Audit = &AuditEntry{
			ID:        uuid.NewString(),
			UserID:    in.UserID,
			Action:    AuditActionPhotoRejected,
			ActorID:   adminID,
			Reason:    in.RejectionReason,
			CreatedAt: now,
		}
	}

	u, err := s.store.SetPhotoDecision(ctx, in.UserID, decision)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("user_id", in.UserID).
		Str("decision", string(in.Decision)).
		Str("admin_id", adminID).
		Msg("moderation: main photo moderated")

	return &PhotoResult{
		UserID:       u.ID,
		Username:     u.Username,
		Email:        u.Email,
		MainPhotoURL: u.MainPhotoURL,
		Status:       u.PhotoStatus,
		ModeratedAt:  now,
	}, nil
}

// ListPendingPhotos returns the photo review queue, oldest submission
// first.
func (s *Service) ListPendingPhotos(ctx context.Context, adminID string, limit, offset int) ([]PendingPhoto, error) {
	if _, err := s.requireActiveActor(ctx, adminID, ErrAdminNotFound, ErrAdminInactive); err != nil {
		return nil, err
	}
	users, err := s.store.ListPendingPhotos(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	queue := make([]PendingPhoto, 0, len(users))
	for _, u := range users {
		queue = append(queue, PendingPhoto{
			UserID:       u.ID,
			Username:     u.Username,
			Email:        u.Email,
			MainPhotoURL: u.MainPhotoURL,
			CreatedAt:    u.CreatedAt,
			UpdatedAt:    u.UpdatedAt,
		})
	}
	return queue, nil
}

// Statistics returns dashboard counts, optionally bounding the report
// counts to a creation-time window.
func (s *Service) Statistics(ctx context.Context, adminID string, between *TimeRange) (*Statistics, error) {
	if _, err := s.requireActiveActor(ctx, adminID, ErrAdminNotFound, ErrAdminInactive); err != nil {
		return nil, err
	}
	if between != nil && !between.From.IsZero() && !between.To.IsZero() && between.From.After(between.To) {
		return nil, ErrInvalidDateRange
	}

	stats := &Statistics{}
	var permBans, tempBans int

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.ReportsByStatus, err = s.store.CountReportsByStatus(gCtx, between)
		return err
	})
	g.Go(func() (err error) {
		permBans, err = s.store.CountUsersByStatus(gCtx, UserStatusBanned)
		return err
	})
	g.Go(func() (err error) {
		tempBans, err = s.store.CountUsersByStatus(gCtx, UserStatusTemporaryBan)
		return err
	})
	g.Go(func() (err error) {
		stats.PendingPhotos, err = s.store.CountPendingPhotos(gCtx)
		return err
	})
	g.Go(func() (err error) {
		stats.RemovedContent, err = s.store.CountRemovedContent(gCtx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats.BannedUsers = permBans + tempBans
	for _, n := range stats.ReportsByStatus {
		stats.TotalReports += n
	}
	return stats, nil
}
