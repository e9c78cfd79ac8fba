package moderation_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vigil/internal/database/boltstore"
	"vigil/internal/moderation"
)

// fakeClock lets tests step through the report dedup window and ban
// expiries deterministically.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func newTestService(t *testing.T) (*moderation.Service, moderation.Store, *fakeClock) {
	t.Helper()

	store, err := boltstore.Open(boltstore.Options{
		Path: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	ms := store.ModerationStore()
	svc := moderation.NewService(ms, moderation.WithClock(clock.Now))
	return svc, ms, clock
}

func seedUser(t *testing.T, store moderation.Store, id string) {
	t.Helper()
	seedUserWith(t, store, moderation.User{ID: id, Username: id, Email: id + "@example.com"})
}

func seedUserWith(t *testing.T, store moderation.Store, u moderation.User) {
	t.Helper()
	if u.Status == "" {
		u.Status = moderation.UserStatusActive
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	u.UpdatedAt = u.CreatedAt
	require.NoError(t, store.PutUser(context.Background(), u))
}

func TestCreateReport(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	seedUser(t, store, "alice")
	seedUser(t, store, "bob")

	receipt, err := svc.CreateReport(ctx, "alice", moderation.CreateReportInput{
		TargetType:  moderation.TargetTypeUser,
		TargetID:    "bob",
		ReportType:  moderation.ReportTypeSpam,
		Description: "spamming the activity feed",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, receipt.ReportID)
	assert.Equal(t, moderation.ReportStatusPending, receipt.Status)

	rep, err := store.GetReport(ctx, receipt.ReportID)
	require.NoError(t, err)
	require.NotNil(t, rep)
	assert.Equal(t, "alice", rep.ReporterID)
	assert.Equal(t, "bob", rep.ReportedUserID)
	assert.Equal(t, moderation.ReportTypeSpam, rep.ReportType)
}

func TestCreateReportDedupWindow(t *testing.T) {
	svc, store, clock := newTestService(t)
	ctx := context.Background()
	seedUser(t, store, "alice")
	seedUser(t, store, "bob")

	in := moderation.CreateReportInput{
		TargetType: moderation.TargetTypeUser,
		TargetID:   "bob",
		ReportType: moderation.ReportTypeHarassment,
	}

	_, err := svc.CreateReport(ctx, "alice", in)
	require.NoError(t, err)

	// Identical report inside the window is rejected.
	_, err = svc.CreateReport(ctx, "alice", in)
	assert.ErrorIs(t, err, moderation.ErrDuplicateReport)

	// Still inside the window 23 hours later.
	clock.Advance(23 * time.Hour)
	_, err = svc.CreateReport(ctx, "alice", in)
	assert.ErrorIs(t, err, moderation.ErrDuplicateReport)

	// A different report type is not a duplicate.
	_, err = svc.CreateReport(ctx, "alice", moderation.CreateReportInput{
		TargetType: moderation.TargetTypeUser,
		TargetID:   "bob",
		ReportType: moderation.ReportTypeSpam,
	})
	assert.NoError(t, err)

	// Past the 24h window the same tuple is accepted again.
	clock.Advance(2 * time.Hour)
	_, err = svc.CreateReport(ctx, "alice", in)
	assert.NoError(t, err)
}

func TestCreateReportSelfReport(t *testing.T) {
	svc, store, _ := newTestService(t)
	seedUser(t, store, "alice")

	_, err := svc.CreateReport(context.Background(), "alice", moderation.CreateReportInput{
		TargetType: moderation.TargetTypeUser,
		TargetID:   "alice",
		ReportType: moderation.ReportTypeSpam,
	})
	assert.ErrorIs(t, err, moderation.ErrCannotSelfReport)
}

func TestCreateReportValidation(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	seedUser(t, store, "alice")
	seedUser(t, store, "bob")

	_, err := svc.CreateReport(ctx, "alice", moderation.CreateReportInput{
		TargetType: "photo",
		TargetID:   "bob",
		ReportType: moderation.ReportTypeSpam,
	})
	assert.ErrorIs(t, err, moderation.ErrInvalidTargetType)

	_, err = svc.CreateReport(ctx, "alice", moderation.CreateReportInput{
		TargetType: moderation.TargetTypeUser,
		TargetID:   "bob",
		ReportType: "rude",
	})
	assert.ErrorIs(t, err, moderation.ErrInvalidReportType)

	_, err = svc.CreateReport(ctx, "alice", moderation.CreateReportInput{
		TargetType: moderation.TargetTypeUser,
		TargetID:   "ghost",
		ReportType: moderation.ReportTypeSpam,
	})
	assert.ErrorIs(t, err, moderation.ErrTargetNotFound)

	_, err = svc.CreateReport(ctx, "ghost", moderation.CreateReportInput{
		TargetType: moderation.TargetTypeUser,
		TargetID:   "bob",
		ReportType: moderation.ReportTypeSpam,
	})
	assert.ErrorIs(t, err, moderation.ErrReporterNotFound)
}

func TestCreateReportInactiveReporter(t *testing.T) {
	svc, store, _ := newTestService(t)
	seedUserWith(t, store, moderation.User{ID: "banned-user", Status: moderation.UserStatusBanned})
	seedUser(t, store, "bob")

	_, err := svc.CreateReport(context.Background(), "banned-user", moderation.CreateReportInput{
		TargetType: moderation.TargetTypeUser,
		TargetID:   "bob",
		ReportType: moderation.ReportTypeSpam,
	})
	assert.ErrorIs(t, err, moderation.ErrReporterInactive)
}

func TestCreateReportNoShowIncrementsCounter(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	seedUser(t, store, "alice")
	seedUser(t, store, "bob")

	_, err := svc.CreateReport(ctx, "alice", moderation.CreateReportInput{
		TargetType: moderation.TargetTypeUser,
		TargetID:   "bob",
		ReportType: moderation.ReportTypeNoShow,
	})
	require.NoError(t, err)

	u, err := store.GetUser(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 1, u.NoShowCount)

	// Non-user no_show reports do not touch any counter.
	require.NoError(t, store.PutActivityRef(ctx, "hike-42"))
	seedUser(t, store, "carol")
	_, err = svc.CreateReport(ctx, "carol", moderation.CreateReportInput{
		TargetType: moderation.TargetTypeActivity,
		TargetID:   "hike-42",
		ReportType: moderation.ReportTypeNoShow,
	})
	require.NoError(t, err)

	u, err = store.GetUser(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 1, u.NoShowCount)
}

func TestUpdateReportStatus(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	seedUser(t, store, "alice")
	seedUser(t, store, "bob")
	seedUser(t, store, "admin")

	receipt, err := svc.CreateReport(ctx, "alice", moderation.CreateReportInput{
		TargetType: moderation.TargetTypeUser,
		TargetID:   "bob",
		ReportType: moderation.ReportTypeSpam,
	})
	require.NoError(t, err)

	rep, err := svc.UpdateReportStatus(ctx, "admin", receipt.ReportID, moderation.ReportStatusReviewing, "")
	require.NoError(t, err)
	assert.Equal(t, moderation.ReportStatusReviewing, rep.Status)
	assert.Equal(t, "admin", rep.ReviewerID)
	require.NotNil(t, rep.ReviewedAt)

	rep, err = svc.UpdateReportStatus(ctx, "admin", receipt.ReportID, moderation.ReportStatusResolved, "user warned")
	require.NoError(t, err)
	assert.Equal(t, moderation.ReportStatusResolved, rep.Status)
	assert.Equal(t, "user warned", rep.ResolutionNotes)

	// Terminal statuses are locked.
	_, err = svc.UpdateReportStatus(ctx, "admin", receipt.ReportID, moderation.ReportStatusReviewing, "")
	assert.ErrorIs(t, err, moderation.ErrInvalidStatusTransition)
	_, err = svc.UpdateReportStatus(ctx, "admin", receipt.ReportID, moderation.ReportStatusDismissed, "")
	assert.ErrorIs(t, err, moderation.ErrInvalidStatusTransition)

	// pending is never a transition target.
	_, err = svc.UpdateReportStatus(ctx, "admin", receipt.ReportID, moderation.ReportStatusPending, "")
	assert.ErrorIs(t, err, moderation.ErrInvalidStatus)

	_, err = svc.UpdateReportStatus(ctx, "admin", "missing", moderation.ReportStatusReviewing, "")
	assert.ErrorIs(t, err, moderation.ErrReportNotFound)
}

func TestListReports(t *testing.T) {
	svc, store, clock := newTestService(t)
	ctx := context.Background()
	seedUser(t, store, "alice")
	seedUser(t, store, "bob")
	seedUser(t, store, "admin")

	for _, rt := range []moderation.ReportType{moderation.ReportTypeSpam, moderation.ReportTypeFake, moderation.ReportTypeOther} {
		_, err := svc.CreateReport(ctx, "alice", moderation.CreateReportInput{
			TargetType: moderation.TargetTypeUser,
			TargetID:   "bob",
			ReportType: rt,
		})
		require.NoError(t, err)
		clock.Advance(time.Minute)
	}

	views, err := svc.ListReports(ctx, "admin", moderation.ReportFilter{})
	require.NoError(t, err)
	require.Len(t, views, 3)
	// Newest first.
	assert.Equal(t, moderation.ReportTypeOther, views[0].ReportType)
	assert.Equal(t, "alice", views[0].Reporter.Username)
	require.NotNil(t, views[0].ReportedUser)
	assert.Equal(t, "bob", views[0].ReportedUser.Username)

	views, err = svc.ListReports(ctx, "admin", moderation.ReportFilter{ReportType: moderation.ReportTypeFake})
	require.NoError(t, err)
	require.Len(t, views, 1)

	views, err = svc.ListReports(ctx, "admin", moderation.ReportFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, moderation.ReportTypeSpam, views[0].ReportType)

	_, err = svc.ListReports(ctx, "admin", moderation.ReportFilter{Status: "open"})
	assert.ErrorIs(t, err, moderation.ErrInvalidStatus)
}

func TestBanUser(t *testing.T) {
	svc, store, clock := newTestService(t)
	ctx := context.Background()
	seedUser(t, store, "admin")
	seedUser(t, store, "bob")

	res, err := svc.BanUser(ctx, "admin", "bob", moderation.BanInput{
		Type:   moderation.BanTypePermanent,
		Reason: "repeated harassment",
	})
	require.NoError(t, err)
	assert.Equal(t, moderation.UserStatusBanned, res.Status)
	assert.Nil(t, res.BanExpiresAt)
	assert.Equal(t, "repeated harassment", res.BanReason)
	assert.Equal(t, clock.Now(), res.BannedAt)

	// Banning a banned user is a conflict.
	_, err = svc.BanUser(ctx, "admin", "bob", moderation.BanInput{Type: moderation.BanTypePermanent})
	assert.ErrorIs(t, err, moderation.ErrUserAlreadyBanned)
}

func TestBanUserTemporary(t *testing.T) {
	svc, store, clock := newTestService(t)
	ctx := context.Background()
	seedUser(t, store, "admin")
	seedUser(t, store, "bob")

	hours := 48
	res, err := svc.BanUser(ctx, "admin", "bob", moderation.BanInput{
		Type:          moderation.BanTypeTemporary,
		Reason:        "cool off",
		DurationHours: &hours,
	})
	require.NoError(t, err)
	assert.Equal(t, moderation.UserStatusTemporaryBan, res.Status)
	require.NotNil(t, res.BanExpiresAt)
	assert.Equal(t, clock.Now().Add(48*time.Hour), *res.BanExpiresAt)
}

func TestBanUserValidation(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	seedUser(t, store, "admin")
	seedUser(t, store, "bob")

	_, err := svc.BanUser(ctx, "admin", "admin", moderation.BanInput{Type: moderation.BanTypePermanent})
	assert.ErrorIs(t, err, moderation.ErrCannotSelfBan)

	_, err = svc.BanUser(ctx, "admin", "bob", moderation.BanInput{Type: "forever"})
	assert.ErrorIs(t, err, moderation.ErrInvalidBanType)

	_, err = svc.BanUser(ctx, "admin", "bob", moderation.BanInput{Type: moderation.BanTypeTemporary})
	assert.ErrorIs(t, err, moderation.ErrDurationRequired)

	zero := 0
	_, err = svc.BanUser(ctx, "admin", "bob", moderation.BanInput{Type: moderation.BanTypeTemporary, DurationHours: &zero})
	assert.ErrorIs(t, err, moderation.ErrDurationRequired)

	_, err = svc.BanUser(ctx, "admin", "ghost", moderation.BanInput{Type: moderation.BanTypePermanent})
	assert.ErrorIs(t, err, moderation.ErrUserNotFound)

	seedUserWith(t, store, moderation.User{ID: "suspended", Status: moderation.UserStatusBanned})
	_, err = svc.BanUser(ctx, "suspended", "bob", moderation.BanInput{Type: moderation.BanTypePermanent})
	assert.ErrorIs(t, err, moderation.ErrAdminInactive)
}

func TestUnbanUser(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	seedUser(t, store, "admin")
	seedUser(t, store, "bob")

	// Unbanning an active user is a conflict.
	_, err := svc.UnbanUser(ctx, "admin", "bob", "")
	assert.ErrorIs(t, err, moderation.ErrUserNotBanned)

	hours := 24
	_, err = svc.BanUser(ctx, "admin", "bob", moderation.BanInput{
		Type:          moderation.BanTypeTemporary,
		Reason:        "cool off",
		DurationHours: &hours,
	})
	require.NoError(t, err)

	res, err := svc.UnbanUser(ctx, "admin", "bob", "appeal accepted")
	require.NoError(t, err)
	assert.Equal(t, moderation.UserStatusActive, res.Status)
	assert.Equal(t, "admin", res.UnbannedBy)

	// Status and expiry are both cleared.
	u, err := store.GetUser(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, moderation.UserStatusActive, u.Status)
	assert.Nil(t, u.BanExpiresAt)
	assert.Empty(t, u.BanReason)
}

func TestUserHistory(t *testing.T) {
	svc, store, clock := newTestService(t)
	ctx := context.Background()
	seedUser(t, store, "admin")
	seedUser(t, store, "alice")
	seedUser(t, store, "bob")

	_, err := svc.CreateReport(ctx, "alice", moderation.CreateReportInput{
		TargetType: moderation.TargetTypeUser,
		TargetID:   "bob",
		ReportType: moderation.ReportTypeSpam,
	})
	require.NoError(t, err)
	clock.Advance(time.Minute)
	_, err = svc.CreateReport(ctx, "bob", moderation.CreateReportInput{
		TargetType: moderation.TargetTypeUser,
		TargetID:   "alice",
		ReportType: moderation.ReportTypeOther,
	})
	require.NoError(t, err)

	// Two ban cycles: totals come from the audit trail, not current status.
	for range 2 {
		_, err = svc.BanUser(ctx, "admin", "bob", moderation.BanInput{Type: moderation.BanTypePermanent, Reason: "x"})
		require.NoError(t, err)
		_, err = svc.UnbanUser(ctx, "admin", "bob", "")
		require.NoError(t, err)
	}

	hist, err := svc.UserHistory(ctx, "admin", "bob")
	require.NoError(t, err)
	assert.Equal(t, "bob", hist.UserID)
	assert.Equal(t, moderation.UserStatusActive, hist.Status)
	assert.Equal(t, 1, hist.ReportsReceived)
	assert.Equal(t, 1, hist.ReportsMade)
	assert.Equal(t, 2, hist.TotalBans)
	assert.Equal(t, 0, hist.TotalPhotoRejections)
	require.Len(t, hist.RecentReports, 1)
	assert.Equal(t, "alice", hist.RecentReports[0].Reporter.Username)

	_, err = svc.UserHistory(ctx, "admin", "ghost")
	assert.ErrorIs(t, err, moderation.ErrUserNotFound)
}

func TestRemoveContent(t *testing.T) {
	svc, store, clock := newTestService(t)
	ctx := context.Background()
	seedUser(t, store, "admin")
	seedUser(t, store, "bob")
	require.NoError(t, store.PutPost(ctx, moderation.Post{
		ID: "post-1", AuthorID: "bob", Status: moderation.PostStatusActive,
		CreatedAt: clock.Now(), UpdatedAt: clock.Now(),
	}))
	require.NoError(t, store.PutComment(ctx, moderation.Comment{
		ID: "comment-1", AuthorID: "bob",
		CreatedAt: clock.Now(), UpdatedAt: clock.Now(),
	}))

	res, err := svc.RemoveContent(ctx, "admin", moderation.RemoveContentInput{
		Type: moderation.ContentTypePost, ID: "post-1", Reason: "off-topic spam",
	})
	require.NoError(t, err)
	assert.Equal(t, "removed", res.Status)
	assert.Equal(t, "bob", res.Author.ID)
	assert.Equal(t, "bob@example.com", res.Author.Email)

	p, err := store.GetPost(ctx, "post-1")
	require.NoError(t, err)
	assert.Equal(t, moderation.PostStatusRemoved, p.Status)

	// Removing removed content is a conflict, not a no-op.
	_, err = svc.RemoveContent(ctx, "admin", moderation.RemoveContentInput{
		Type: moderation.ContentTypePost, ID: "post-1",
	})
	assert.ErrorIs(t, err, moderation.ErrContentAlreadyRemoved)

	// Comments normalize to the same outward status.
	res, err = svc.RemoveContent(ctx, "admin", moderation.RemoveContentInput{
		Type: moderation.ContentTypeComment, ID: "comment-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "removed", res.Status)

	c, err := store.GetComment(ctx, "comment-1")
	require.NoError(t, err)
	assert.True(t, c.IsDeleted)

	_, err = svc.RemoveContent(ctx, "admin", moderation.RemoveContentInput{
		Type: moderation.ContentTypeComment, ID: "comment-1",
	})
	assert.ErrorIs(t, err, moderation.ErrContentAlreadyRemoved)

	_, err = svc.RemoveContent(ctx, "admin", moderation.RemoveContentInput{
		Type: moderation.ContentTypePost, ID: "ghost",
	})
	assert.ErrorIs(t, err, moderation.ErrContentNotFound)

	_, err = svc.RemoveContent(ctx, "admin", moderation.RemoveContentInput{
		Type: "photo", ID: "post-1",
	})
	assert.ErrorIs(t, err, moderation.ErrInvalidContentType)
}

func TestModeratePhoto(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	seedUser(t, store, "admin")
	seedUserWith(t, store, moderation.User{
		ID: "bob", Username: "bob", Email: "bob@example.com",
		MainPhotoURL: "https://cdn.example.com/bob.jpg",
		PhotoStatus:  moderation.PhotoStatusPending,
	})

	res, err := svc.ModeratePhoto(ctx, "admin", moderation.PhotoInput{
		UserID: "bob", Decision: moderation.PhotoStatusApproved,
	})
	require.NoError(t, err)
	assert.Equal(t, moderation.PhotoStatusApproved, res.Status)

	// Rejection records the reason in the audit trail.
	res, err = svc.ModeratePhoto(ctx, "admin", moderation.PhotoInput{
		UserID: "bob", Decision: moderation.PhotoStatusRejected, RejectionReason: "not a face photo",
	})
	require.NoError(t, err)
	assert.Equal(t, moderation.PhotoStatusRejected, res.Status)

	hist, err := svc.UserHistory(ctx, "admin", "bob")
	require.NoError(t, err)
	assert.Equal(t, 1, hist.TotalPhotoRejections)

	_, err = svc.ModeratePhoto(ctx, "admin", moderation.PhotoInput{
		UserID: "bob", Decision: "pending",
	})
	assert.ErrorIs(t, err, moderation.ErrInvalidModerationStatus)

	seedUser(t, store, "nophoto")
	_, err = svc.ModeratePhoto(ctx, "admin", moderation.PhotoInput{
		UserID: "nophoto", Decision: moderation.PhotoStatusApproved,
	})
	assert.ErrorIs(t, err, moderation.ErrNoMainPhoto)

	_, err = svc.ModeratePhoto(ctx, "admin", moderation.PhotoInput{
		UserID: "ghost", Decision: moderation.PhotoStatusApproved,
	})
	assert.ErrorIs(t, err, moderation.ErrUserNotFound)
}

func TestListPendingPhotosOrder(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	seedUser(t, store, "admin")

	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	seedUserWith(t, store, moderation.User{
		ID: "late", MainPhotoURL: "https://cdn.example.com/l.jpg",
		PhotoStatus: moderation.PhotoStatusPending, PhotoSubmittedAt: base.Add(2 * time.Hour), CreatedAt: base,
	})
	seedUserWith(t, store, moderation.User{
		ID: "early", MainPhotoURL: "https://cdn.example.com/e.jpg",
		PhotoStatus: moderation.PhotoStatusPending, PhotoSubmittedAt: base, CreatedAt: base,
	})
	// No photo URL: never queued even when status says pending.
	seedUserWith(t, store, moderation.User{
		ID: "empty", PhotoStatus: moderation.PhotoStatusPending, CreatedAt: base,
	})
	// Approved photos are not pending.
	seedUserWith(t, store, moderation.User{
		ID: "done", MainPhotoURL: "https://cdn.example.com/d.jpg",
		PhotoStatus: moderation.PhotoStatusApproved, CreatedAt: base,
	})

	queue, err := svc.ListPendingPhotos(ctx, "admin", 10, 0)
	require.NoError(t, err)
	require.Len(t, queue, 2)
	assert.Equal(t, "early", queue[0].UserID)
	assert.Equal(t, "late", queue[1].UserID)

	queue, err = svc.ListPendingPhotos(ctx, "admin", 1, 1)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, "late", queue[0].UserID)
}

func TestStatistics(t *testing.T) {
	svc, store, clock := newTestService(t)
	ctx := context.Background()
	seedUser(t, store, "admin")
	seedUser(t, store, "alice")
	seedUser(t, store, "bob")
	seedUser(t, store, "carol")
	require.NoError(t, store.PutPost(ctx, moderation.Post{
		ID: "post-1", AuthorID: "bob", Status: moderation.PostStatusActive,
		CreatedAt: clock.Now(), UpdatedAt: clock.Now(),
	}))

	_, err := svc.CreateReport(ctx, "alice", moderation.CreateReportInput{
		TargetType: moderation.TargetTypeUser, TargetID: "bob", ReportType: moderation.ReportTypeSpam,
	})
	require.NoError(t, err)

	_, err = svc.BanUser(ctx, "admin", "bob", moderation.BanInput{Type: moderation.BanTypePermanent})
	require.NoError(t, err)
	hours := 12
	_, err = svc.BanUser(ctx, "admin", "carol", moderation.BanInput{Type: moderation.BanTypeTemporary, DurationHours: &hours})
	require.NoError(t, err)

	_, err = svc.RemoveContent(ctx, "admin", moderation.RemoveContentInput{
		Type: moderation.ContentTypePost, ID: "post-1",
	})
	require.NoError(t, err)

	stats, err := svc.Statistics(ctx, "admin", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalReports)
	assert.Equal(t, 1, stats.ReportsByStatus[moderation.ReportStatusPending])
	assert.Equal(t, 2, stats.BannedUsers)
	assert.Equal(t, 1, stats.RemovedContent)

	// Window excluding the report.
	past := &moderation.TimeRange{
		From: clock.Now().Add(-48 * time.Hour),
		To:   clock.Now().Add(-24 * time.Hour),
	}
	stats, err = svc.Statistics(ctx, "admin", past)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalReports)

	_, err = svc.Statistics(ctx, "admin", &moderation.TimeRange{
		From: clock.Now(),
		To:   clock.Now().Add(-time.Hour),
	})
	assert.ErrorIs(t, err, moderation.ErrInvalidDateRange)
}
