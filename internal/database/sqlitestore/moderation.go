package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"vigil/internal/moderation"
)

// ModerationStore implements moderation.Store using SQLite. Guarded
// mutations run in a single transaction so the conflict check and the
// write are atomic.
type ModerationStore struct {
	db *sql.DB
}

// NewModerationStore creates a ModerationStore backed by the given
// database. The database must already have the schema applied (see Open).
func NewModerationStore(db *sql.DB) *ModerationStore {
	return &ModerationStore{db: db}
}

// Ensure ModerationStore implements the interface at compile time.
var _ moderation.Store = (*ModerationStore)(nil)

// Close closes the underlying database.
func (s *ModerationStore) Close() error {
	return s.db.Close()
}

func fmtTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func fmtTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return fmtTime(*t)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

func parseTimePtr(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t := parseTime(s.String)
	return &t
}

// ========== Users ==========

const userColumns = `id, username, email, status, ban_expires_at, ban_reason,
	no_show_count, main_photo_url, photo_status, photo_submitted_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*moderation.User, error) {
	var u moderation.User
	var banExpires, photoSubmitted sql.NullString
	var createdAt, updatedAt string
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Status, &banExpires, &u.BanReason,
		&u.NoShowCount, &u.MainPhotoURL, &u.PhotoStatus, &photoSubmitted, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.BanExpiresAt = parseTimePtr(banExpires)
	if ts := parseTimePtr(photoSubmitted); ts != nil {
		u.PhotoSubmittedAt = *ts
	}
	u.CreatedAt = parseTime(createdAt)
	u.UpdatedAt = parseTime(updatedAt)
	return &u, nil
}

func (s *ModerationStore) GetUser(ctx context.Context, id string) (*moderation.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (s *ModerationStore) PutUser(ctx context.Context, u moderation.User) error {
	var photoSubmitted any
	if !u.PhotoSubmittedAt.IsZero() {
		photoSubmitted = fmtTime(u.PhotoSubmittedAt)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			username           = excluded.username,
			email              = excluded.email,
			status             = excluded.status,
			ban_expires_at     = excluded.ban_expires_at,
			ban_reason         = excluded.ban_reason,
			no_show_count      = excluded.no_show_count,
			main_photo_url     = excluded.main_photo_url,
			photo_status       = excluded.photo_status,
			photo_submitted_at = excluded.photo_submitted_at,
			updated_at         = excluded.updated_at
	`, u.ID, u.Username, u.Email, string(u.Status), fmtTimePtr(u.BanExpiresAt), u.BanReason,
		u.NoShowCount, u.MainPhotoURL, string(u.PhotoStatus), photoSubmitted,
		fmtTime(u.CreatedAt), fmtTime(u.UpdatedAt))
	if err != nil {
		return fmt.Errorf("put user: %w", err)
	}
	return nil
}

func (s *ModerationStore) ApplyBan(ctx context.Context, userID string, ban moderation.BanRecord) (*moderation.User, error) {
	var user *moderation.User
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		u, err := scanUser(tx.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, userID))
		if err != nil {
			return err
		}
		if u == nil {
			return moderation.ErrUserNotFound
		}
		if u.Status == moderation.UserStatusBanned || u.Status == moderation.UserStatusTemporaryBan {
			return moderation.ErrUserAlreadyBanned
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE users SET status = ?, ban_expires_at = ?, ban_reason = ?, updated_at = ? WHERE id = ?
		`, string(ban.Status), fmtTimePtr(ban.ExpiresAt), ban.Reason, fmtTime(ban.Audit.CreatedAt), userID)
		if err != nil {
			return fmt.Errorf("apply ban: %w", err)
		}
		if err := insertAudit(ctx, tx, ban.Audit); err != nil {
			return err
		}

		u.Status = ban.Status
		u.BanExpiresAt = ban.ExpiresAt
		u.BanReason = ban.Reason
		u.UpdatedAt = ban.Audit.CreatedAt
		user = u
		return nil
	})
	return user, err
}

func (s *ModerationStore) LiftBan(ctx context.Context, userID string, unban moderation.UnbanRecord) (*moderation.User, error) {
	var user *moderation.User
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		u, err := scanUser(tx.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, userID))
		if err != nil {
			return err
		}
		if u == nil {
			return moderation.ErrUserNotFound
		}
		if u.Status != moderation.UserStatusBanned && u.Status != moderation.UserStatusTemporaryBan {
			return moderation.ErrUserNotBanned
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE users SET status = 'active', ban_expires_at = NULL, ban_reason = '', updated_at = ? WHERE id = ?
		`, fmtTime(unban.At), userID)
		if err != nil {
			return fmt.Errorf("lift ban: %w", err)
		}
		if err := insertAudit(ctx, tx, unban.Audit); err != nil {
			return err
		}

		u.Status = moderation.UserStatusActive
		u.BanExpiresAt = nil
		u.BanReason = ""
		u.UpdatedAt = unban.At
		user = u
		return nil
	})
	return user, err
}

func (s *ModerationStore) SetPhotoDecision(ctx context.Context, userID string, d moderation.PhotoDecision) (*moderation.User, error) {
	var user *moderation.User
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		u, err := scanUser(tx.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, userID))
		if err != nil {
			return err
		}
		if u == nil {
			return moderation.ErrUserNotFound
		}
		if u.MainPhotoURL == "" {
			return moderation.ErrNoMainPhoto
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE users SET photo_status = ?, updated_at = ? WHERE id = ?
		`, string(d.Status), fmtTime(d.At), userID)
		if err != nil {
			return fmt.Errorf("set photo decision: %w", err)
		}
		if d.Audit != nil {
			if err := insertAudit(ctx, tx, *d.Audit); err != nil {
				return err
			}
		}

		u.PhotoStatus = d.Status
		u.UpdatedAt = d.At
		user = u
		return nil
	})
	return user, err
}

func (s *ModerationStore) ListPendingPhotos(ctx context.Context, limit, offset int) ([]moderation.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE photo_status = 'pending' AND main_photo_url != ''
		ORDER BY COALESCE(photo_submitted_at, created_at) ASC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []moderation.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			continue
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (s *ModerationStore) CountPendingPhotos(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM users WHERE photo_status = 'pending' AND main_photo_url != ''
	`).Scan(&count)
	return count, err
}

func (s *ModerationStore) CountUsersByStatus(ctx context.Context, status moderation.UserStatus) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE status = ?`, string(status)).Scan(&count)
	return count, err
}

// ========== Audit trail ==========

func insertAudit(ctx context.Context, tx *sql.Tx, entry moderation.AuditEntry) error {
	details, err := json.Marshal(entry.Details)
	if err != nil {
		details = []byte("{}")
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO audit_log (id, user_id, action, actor_id, reason, details, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.UserID, string(entry.Action), entry.ActorID, entry.Reason,
		string(details), fmtTime(entry.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (s *ModerationStore) ListAudit(ctx context.Context, userID string) ([]moderation.AuditEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, action, actor_id, reason, details, created_at
		FROM audit_log WHERE user_id = ? ORDER BY created_at ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []moderation.AuditEntry
	for rows.Next() {
		var e moderation.AuditEntry
		var detailsStr, createdAt string
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.ActorID, &e.Reason, &detailsStr, &createdAt); err != nil {
			continue
		}
		_ = json.Unmarshal([]byte(detailsStr), &e.Details)
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *ModerationStore) CountAuditActions(ctx context.Context, userID string, action moderation.AuditAction) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM audit_log WHERE user_id = ? AND action = ?
	`, userID, string(action)).Scan(&count)
	return count, err
}

// ========== Reports ==========

const reportColumns = `id, reporter_id, reported_user_id, target_type, target_id, report_type,
	description, status, reviewer_id, reviewed_at, resolution_notes, created_at, updated_at`

func scanReport(row rowScanner) (*moderation.Report, error) {
	var r moderation.Report
	var reviewedAt sql.NullString
	var createdAt, updatedAt string
	err := row.Scan(&r.ID, &r.ReporterID, &r.ReportedUserID, &r.TargetType, &r.TargetID,
		&r.ReportType, &r.Description, &r.Status, &r.ReviewerID, &reviewedAt,
		&r.ResolutionNotes, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r.ReviewedAt = parseTimePtr(reviewedAt)
	r.CreatedAt = parseTime(createdAt)
	r.UpdatedAt = parseTime(updatedAt)
	return &r, nil
}

func (s *ModerationStore) CreateReport(ctx context.Context, p moderation.CreateReportParams) error {
	rep := p.Report
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var dup int
		err := tx.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM reports
			WHERE reporter_id = ? AND target_type = ? AND target_id = ? AND report_type = ?
			  AND created_at >= ?
		`, rep.ReporterID, string(rep.TargetType), rep.TargetID, string(rep.ReportType),
			fmtTime(p.DedupSince)).Scan(&dup)
		if err != nil {
			return err
		}
		if dup > 0 {
			return moderation.ErrDuplicateReport
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO reports (`+reportColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, rep.ID, rep.ReporterID, rep.ReportedUserID, string(rep.TargetType), rep.TargetID,
			string(rep.ReportType), rep.Description, string(rep.Status), rep.ReviewerID,
			fmtTimePtr(rep.ReviewedAt), rep.ResolutionNotes, fmtTime(rep.CreatedAt), fmtTime(rep.UpdatedAt))
		if err != nil {
			return fmt.Errorf("create report: %w", err)
		}

		if p.IncrementNoShow {
			_, err = tx.ExecContext(ctx, `
				UPDATE users SET no_show_count = no_show_count + 1, updated_at = ? WHERE id = ?
			`, fmtTime(rep.CreatedAt), rep.ReportedUserID)
			if err != nil {
				return fmt.Errorf("increment no_show_count: %w", err)
			}
		}
		return nil
	})
}

func (s *ModerationStore) GetReport(ctx context.Context, id string) (*moderation.Report, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+reportColumns+` FROM reports WHERE id = ?`, id)
	return scanReport(row)
}

func (s *ModerationStore) ListReports(ctx context.Context, f moderation.ReportFilter) ([]moderation.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE 1=1`
	var args []any
	if f.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(f.Status))
	}
	if f.TargetType != "" {
		query += ` AND target_type = ?`
		args = append(args, string(f.TargetType))
	}
	if f.ReportType != "" {
		query += ` AND report_type = ?`
		args = append(args, string(f.ReportType))
	}
	query += ` ORDER BY created_at DESC`
	if f.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReports(rows)
}

func collectReports(rows *sql.Rows) ([]moderation.Report, error) {
	var reports []moderation.Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			continue
		}
		reports = append(reports, *r)
	}
	return reports, rows.Err()
}

func (s *ModerationStore) TransitionReport(ctx context.Context, id string, t moderation.ReportTransition) (*moderation.Report, error) {
	var report *moderation.Report
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		r, err := scanReport(tx.QueryRowContext(ctx, `SELECT `+reportColumns+` FROM reports WHERE id = ?`, id))
		if err != nil {
			return err
		}
		if r == nil {
			return moderation.ErrReportNotFound
		}
		if r.Status.Terminal() {
			return moderation.ErrInvalidStatusTransition
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE reports SET status = ?, reviewer_id = ?, reviewed_at = ?, resolution_notes = ?, updated_at = ?
			WHERE id = ?
		`, string(t.Status), t.ReviewerID, fmtTime(t.At), t.Notes, fmtTime(t.At), id)
		if err != nil {
			return fmt.Errorf("transition report: %w", err)
		}

		at := t.At
		r.Status = t.Status
		r.ReviewerID = t.ReviewerID
		r.ReviewedAt = &at
		r.ResolutionNotes = t.Notes
		r.UpdatedAt = t.At
		report = r
		return nil
	})
	return report, err
}

func (s *ModerationStore) CountReportsAgainst(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reports WHERE reported_user_id = ?`, userID).Scan(&count)
	return count, err
}

func (s *ModerationStore) CountReportsBy(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reports WHERE reporter_id = ?`, userID).Scan(&count)
	return count, err
}

func (s *ModerationStore) ListReportsAgainst(ctx context.Context, userID string, limit int) ([]moderation.Report, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+reportColumns+` FROM reports WHERE reported_user_id = ?
		ORDER BY created_at DESC LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReports(rows)
}

func (s *ModerationStore) CountReportsByStatus(ctx context.Context, between *moderation.TimeRange) (map[moderation.ReportStatus]int, error) {
	query := `SELECT status, COUNT(*) FROM reports WHERE 1=1`
	var args []any
	if between != nil && !between.From.IsZero() {
		query += ` AND created_at >= ?`
		args = append(args, fmtTime(between.From))
	}
	if between != nil && !between.To.IsZero() {
		query += ` AND created_at <= ?`
		args = append(args, fmtTime(between.To))
	}
	query += ` GROUP BY status`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[moderation.ReportStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			continue
		}
		counts[moderation.ReportStatus(status)] = n
	}
	return counts, rows.Err()
}

// ========== Content ==========

func (s *ModerationStore) GetPost(ctx context.Context, id string) (*moderation.Post, error) {
	var p moderation.Post
	var createdAt, updatedAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, author_id, status, created_at, updated_at FROM posts WHERE id = ?
	`, id).Scan(&p.ID, &p.AuthorID, &p.Status, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return &p, nil
}

func (s *ModerationStore) PutPost(ctx context.Context, p moderation.Post) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO posts (id, author_id, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			author_id  = excluded.author_id,
			status     = excluded.status,
			updated_at = excluded.updated_at
	`, p.ID, p.AuthorID, string(p.Status), fmtTime(p.CreatedAt), fmtTime(p.UpdatedAt))
	if err != nil {
		return fmt.Errorf("put post: %w", err)
	}
	return nil
}

func (s *ModerationStore) RemovePost(ctx context.Context, id string, rm moderation.Removal) (*moderation.Post, error) {
	var post *moderation.Post
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		p, err := s.getPostTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return moderation.ErrContentNotFound
		}
		if p.Status == moderation.PostStatusRemoved {
			return moderation.ErrContentAlreadyRemoved
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE posts SET status = 'removed', updated_at = ? WHERE id = ?
		`, fmtTime(rm.At), id)
		if err != nil {
			return fmt.Errorf("remove post: %w", err)
		}
		if err := insertAudit(ctx, tx, rm.Audit); err != nil {
			return err
		}

		p.Status = moderation.PostStatusRemoved
		p.UpdatedAt = rm.At
		post = p
		return nil
	})
	return post, err
}

func (s *ModerationStore) getPostTx(ctx context.Context, tx *sql.Tx, id string) (*moderation.Post, error) {
	var p moderation.Post
	var createdAt, updatedAt string
	err := tx.QueryRowContext(ctx, `
		SELECT id, author_id, status, created_at, updated_at FROM posts WHERE id = ?
	`, id).Scan(&p.ID, &p.AuthorID, &p.Status, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return &p, nil
}

func (s *ModerationStore) GetComment(ctx context.Context, id string) (*moderation.Comment, error) {
	var c moderation.Comment
	var deleted int
	var createdAt, updatedAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, author_id, is_deleted, created_at, updated_at FROM comments WHERE id = ?
	`, id).Scan(&c.ID, &c.AuthorID, &deleted, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c.IsDeleted = deleted == 1
	c.CreatedAt = parseTime(createdAt)
	c.UpdatedAt = parseTime(updatedAt)
	return &c, nil
}

func (s *ModerationStore) PutComment(ctx context.Context, c moderation.Comment) error {
	deleted := 0
	if c.IsDeleted {
		deleted = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO comments (id, author_id, is_deleted, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			author_id  = excluded.author_id,
			is_deleted = excluded.is_deleted,
			updated_at = excluded.updated_at
	`, c.ID, c.AuthorID, deleted, fmtTime(c.CreatedAt), fmtTime(c.UpdatedAt))
	if err != nil {
		return fmt.Errorf("put comment: %w", err)
	}
	return nil
}

func (s *ModerationStore) DeleteComment(ctx context.Context, id string, rm moderation.Removal) (*moderation.Comment, error) {
	var comment *moderation.Comment
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var c moderation.Comment
		var deleted int
		var createdAt, updatedAt string
		err := tx.QueryRowContext(ctx, `
			SELECT id, author_id, is_deleted, created_at, updated_at FROM comments WHERE id = ?
		`, id).Scan(&c.ID, &c.AuthorID, &deleted, &createdAt, &updatedAt)
		if err == sql.ErrNoRows {
			return moderation.ErrContentNotFound
		}
		if err != nil {
			return err
		}
		if deleted == 1 {
			return moderation.ErrContentAlreadyRemoved
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE comments SET is_deleted = 1, updated_at = ? WHERE id = ?
		`, fmtTime(rm.At), id)
		if err != nil {
			return fmt.Errorf("delete comment: %w", err)
		}
		if err := insertAudit(ctx, tx, rm.Audit); err != nil {
			return err
		}

		c.IsDeleted = true
		c.CreatedAt = parseTime(createdAt)
		c.UpdatedAt = rm.At
		comment = &c
		return nil
	})
	return comment, err
}

func (s *ModerationStore) CountRemovedContent(ctx context.Context) (int, error) {
	var posts, comments int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts WHERE status = 'removed'`).Scan(&posts); err != nil {
		return 0, err
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM comments WHERE is_deleted = 1`).Scan(&comments); err != nil {
		return 0, err
	}
	return posts + comments, nil
}

func (s *ModerationStore) CountRemovedContentByAuthor(ctx context.Context, authorID string) (int, error) {
	var posts, comments int
	if err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM posts WHERE status = 'removed' AND author_id = ?
	`, authorID).Scan(&posts); err != nil {
		return 0, err
	}
	if err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM comments WHERE is_deleted = 1 AND author_id = ?
	`, authorID).Scan(&comments); err != nil {
		return 0, err
	}
	return posts + comments, nil
}

// ========== Target refs ==========

func (s *ModerationStore) PutActivityRef(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO activity_refs (id) VALUES (?)`, id)
	return err
}

func (s *ModerationStore) PutCommunityRef(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO community_refs (id) VALUES (?)`, id)
	return err
}

func (s *ModerationStore) TargetRefExists(ctx context.Context, t moderation.TargetType, id string) (bool, error) {
	var table string
	switch t {
	case moderation.TargetTypeActivity:
		table = "activity_refs"
	case moderation.TargetTypeCommunity:
		table = "community_refs"
	default:
		return false, nil
	}

	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM `+table+` WHERE id = ?`, id).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return exists == 1, err
}

// withTx runs fn in a transaction, rolling back on error.
func (s *ModerationStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
