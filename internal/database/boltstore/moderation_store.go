package boltstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"vigil/internal/moderation"

	bolt "go.etcd.io/bbolt"
)

// ModerationStore provides persistent storage for moderation data.
// Every guarded mutation runs inside a single bolt update transaction,
// which BoltDB serializes, so conflict checks and writes are atomic with
// respect to concurrent operations.
type ModerationStore struct {
	db *bolt.DB
}

// Ensure ModerationStore implements the interface at compile time.
var _ moderation.Store = (*ModerationStore)(nil)

// Close closes the underlying database.
func (s *ModerationStore) Close() error {
	return s.db.Close()
}

// ========== Users ==========

// GetUser retrieves a user by ID. Returns nil, nil when absent.
func (s *ModerationStore) GetUser(ctx context.Context, id string) (*moderation.User, error) {
	var user *moderation.User

	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(BucketUsers).Get([]byte(id))
		if data == nil {
			return nil
		}
		user = &moderation.User{}
		return json.Unmarshal(data, user)
	})

	return user, err
}

// PutUser stores a user record, replacing any existing one.
func (s *ModerationStore) PutUser(ctx context.Context, u moderation.User) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return putUser(tx, u)
	})
}

func putUser(tx *bolt.Tx, u moderation.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}
	return tx.Bucket(BucketUsers).Put([]byte(u.ID), data)
}

func getUser(tx *bolt.Tx, id string) (*moderation.User, error) {
	data := tx.Bucket(BucketUsers).Get([]byte(id))
	if data == nil {
		return nil, nil
	}
	var u moderation.User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ApplyBan transitions a user into a banned status. The already-banned
// check runs in the same transaction as the write, so of two concurrent
// ban attempts exactly one succeeds.
func (s *ModerationStore) ApplyBan(ctx context.Context, userID string, ban moderation.BanRecord) (*moderation.User, error) {
	var user *moderation.User

	err := s.db.Update(func(tx *bolt.Tx) error {
		u, err := getUser(tx, userID)
		if err != nil {
			return err
		}
		if u == nil {
			return moderation.ErrUserNotFound
		}
		if u.Status == moderation.UserStatusBanned || u.Status == moderation.UserStatusTemporaryBan {
			return moderation.ErrUserAlreadyBanned
		}

		u.Status = ban.Status
		u.BanExpiresAt = ban.ExpiresAt
		u.BanReason = ban.Reason
		u.UpdatedAt = ban.Audit.CreatedAt
		if err := putUser(tx, *u); err != nil {
			return err
		}
		if err := appendAudit(tx, ban.Audit); err != nil {
			return err
		}
		user = u
		return nil
	})

	return user, err
}

// LiftBan resets a banned user to active and appends the unban entry to
// the audit trail in the same transaction.
func (s *ModerationStore) LiftBan(ctx context.Context, userID string, unban moderation.UnbanRecord) (*moderation.User, error) {
	var user *moderation.User

	err := s.db.Update(func(tx *bolt.Tx) error {
		u, err := getUser(tx, userID)
		if err != nil {
			return err
		}
		if u == nil {
			return moderation.ErrUserNotFound
		}
		if u.Status != moderation.UserStatusBanned && u.Status != moderation.UserStatusTemporaryBan {
			return moderation.ErrUserNotBanned
		}

		u.Status = moderation.UserStatusActive
		u.BanExpiresAt = nil
		u.BanReason = ""
		u.UpdatedAt = unban.At
		if err := putUser(tx, *u); err != nil {
			return err
		}
		if err := appendAudit(tx, unban.Audit); err != nil {
			return err
		}
		user = u
		return nil
	})

	return user, err
}

// SetPhotoDecision applies a main photo review decision.
func (s *ModerationStore) SetPhotoDecision(ctx context.Context, userID string, d moderation.PhotoDecision) (*moderation.User, error) {
	var user *moderation.User

	err := s.db.Update(func(tx *bolt.Tx) error {
		u, err := getUser(tx, userID)
		if err != nil {
			return err
		}
		if u == nil {
			return moderation.ErrUserNotFound
		}
		if u.MainPhotoURL == "" {
			return moderation.ErrNoMainPhoto
		}

		u.PhotoStatus = d.Status
		u.UpdatedAt = d.At
		if err := putUser(tx, *u); err != nil {
			return err
		}
		if d.Audit != nil {
			if err := appendAudit(tx, *d.Audit); err != nil {
				return err
			}
		}
		user = u
		return nil
	})

	return user, err
}

// ListPendingPhotos returns users awaiting photo review, oldest
// submission first.
func (s *ModerationStore) ListPendingPhotos(ctx context.Context, limit, offset int) ([]moderation.User, error) {
	var pending []moderation.User

	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(BucketUsers).ForEach(func(k, v []byte) error {
			var u moderation.User
			if err := json.Unmarshal(v, &u); err != nil {
				return nil // Skip malformed entries
			}
			if u.PhotoStatus == moderation.PhotoStatusPending && u.MainPhotoURL != "" {
				pending = append(pending, u)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(pending, func(i, j int) bool {
		return photoQueueTime(pending[i]).Before(photoQueueTime(pending[j]))
	})
	return page(pending, limit, offset), nil
}

// CountPendingPhotos returns the size of the photo review queue.
func (s *ModerationStore) CountPendingPhotos(ctx context.Context) (int, error) {
	var count int

	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(BucketUsers).ForEach(func(k, v []byte) error {
			var u moderation.User
			if err := json.Unmarshal(v, &u); err != nil {
				return nil
			}
			if u.PhotoStatus == moderation.PhotoStatusPending && u.MainPhotoURL != "" {
				count++
			}
			return nil
		})
	})

	return count, err
}

// CountUsersByStatus counts users in the given lifecycle status.
func (s *ModerationStore) CountUsersByStatus(ctx context.Context, status moderation.UserStatus) (int, error) {
	var count int

	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(BucketUsers).ForEach(func(k, v []byte) error {
			var u moderation.User
			if err := json.Unmarshal(v, &u); err != nil {
				return nil
			}
			if u.Status == status {
				count++
			}
			return nil
		})
	})

	return count, err
}

// ========== Audit trail ==========

func appendAudit(tx *bolt.Tx, entry moderation.AuditEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal audit entry: %w", err)
	}
	// Timestamp-based key for chronological ordering within a user
	key := fmt.Sprintf("%s:%020d:%s", entry.UserID, entry.CreatedAt.UnixNano(), entry.ID)
	return tx.Bucket(BucketAudit).Put([]byte(key), data)
}

// ListAudit returns a user's audit trail in chronological order.
func (s *ModerationStore) ListAudit(ctx context.Context, userID string) ([]moderation.AuditEntry, error) {
	var entries []moderation.AuditEntry

	err := s.db.View(func(tx *bolt.Tx) error {
		cursor := tx.Bucket(BucketAudit).Cursor()
		prefix := []byte(userID + ":")

		for k, v := cursor.Seek(prefix); k != nil && hasPrefix(k, prefix); k, v = cursor.Next() {
			var entry moderation.AuditEntry
			if err := json.Unmarshal(v, &entry); err != nil {
				continue
			}
			entries = append(entries, entry)
		}
		return nil
	})

	return entries, err
}

// CountAuditActions counts entries of one action kind in a user's trail.
func (s *ModerationStore) CountAuditActions(ctx context.Context, userID string, action moderation.AuditAction) (int, error) {
	var count int

	err := s.db.View(func(tx *bolt.Tx) error {
		cursor := tx.Bucket(BucketAudit).Cursor()
		prefix := []byte(userID + ":")

		for k, v := cursor.Seek(prefix); k != nil && hasPrefix(k, prefix); k, v = cursor.Next() {
			var entry moderation.AuditEntry
			if err := json.Unmarshal(v, &entry); err != nil {
				continue
			}
			if entry.Action == action {
				count++
			}
		}
		return nil
	})

	return count, err
}

// ========== Reports ==========

// CreateReport inserts a report. The dedup lookback and the optional
// no-show counter bump run in the same transaction as the insert.
func (s *ModerationStore) CreateReport(ctx context.Context, p moderation.CreateReportParams) error {
	rep := p.Report

	return s.db.Update(func(tx *bolt.Tx) error {
		// Sliding-window dedup on (reporter, target, report type)
		dup := false
		err := tx.Bucket(BucketReports).ForEach(func(k, v []byte) error {
			var existing moderation.Report
			if err := json.Unmarshal(v, &existing); err != nil {
				return nil // Skip malformed entries
			}
			if existing.ReporterID == rep.ReporterID &&
				existing.TargetType == rep.TargetType &&
				existing.TargetID == rep.TargetID &&
				existing.ReportType == rep.ReportType &&
				!existing.CreatedAt.Before(p.DedupSince) {
				dup = true
			}
			return nil
		})
		if err != nil {
			return err
		}
		if dup {
			return moderation.ErrDuplicateReport
		}

		data, err := json.Marshal(rep)
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		if err := tx.Bucket(BucketReports).Put([]byte(rep.ID), data); err != nil {
			return err
		}

		// Index by creation time for newest-first listings
		timeKey := []byte(fmt.Sprintf("%020d:%s", rep.CreatedAt.UnixNano(), rep.ID))
		if err := tx.Bucket(BucketReportsByTime).Put(timeKey, []byte(rep.ID)); err != nil {
			return err
		}

		// Secondary write on the reported user, same transaction
		if p.IncrementNoShow {
			u, err := getUser(tx, rep.ReportedUserID)
			if err != nil {
				return err
			}
			if u != nil {
				u.NoShowCount++
				u.UpdatedAt = rep.CreatedAt
				if err := putUser(tx, *u); err != nil {
					return err
				}
			}
		}

		return nil
	})
}

// GetReport retrieves a report by ID. Returns nil, nil when absent.
func (s *ModerationStore) GetReport(ctx context.Context, id string) (*moderation.Report, error) {
	var report *moderation.Report

	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(BucketReports).Get([]byte(id))
		if data == nil {
			return nil
		}
		report = &moderation.Report{}
		return json.Unmarshal(data, report)
	})

	return report, err
}

// ListReports walks the time index newest-first, applying filters and
// pagination.
func (s *ModerationStore) ListReports(ctx context.Context, f moderation.ReportFilter) ([]moderation.Report, error) {
	var reports []moderation.Report
	skip := f.Offset

	err := s.db.View(func(tx *bolt.Tx) error {
		index := tx.Bucket(BucketReportsByTime).Cursor()
		bucket := tx.Bucket(BucketReports)

		for k, id := index.Last(); k != nil; k, id = index.Prev() {
			if f.Limit > 0 && len(reports) >= f.Limit {
				break
			}
			data := bucket.Get(id)
			if data == nil {
				continue
			}
			var rep moderation.Report
			if err := json.Unmarshal(data, &rep); err != nil {
				continue
			}
			if f.Status != "" && rep.Status != f.Status {
				continue
			}
			if f.TargetType != "" && rep.TargetType != f.TargetType {
				continue
			}
			if f.ReportType != "" && rep.ReportType != f.ReportType {
				continue
			}
			if skip > 0 {
				skip--
				continue
			}
			reports = append(reports, rep)
		}
		return nil
	})

	return reports, err
}

// TransitionReport advances a report's status. The terminal-state lock
// is checked in the same transaction as the write.
func (s *ModerationStore) TransitionReport(ctx context.Context, id string, t moderation.ReportTransition) (*moderation.Report, error) {
	var report *moderation.Report

	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(BucketReports)
		data := bucket.Get([]byte(id))
		if data == nil {
			return moderation.ErrReportNotFound
		}

		var rep moderation.Report
		if err := json.Unmarshal(data, &rep); err != nil {
			return err
		}
		if rep.Status.Terminal() {
			return moderation.ErrInvalidStatusTransition
		}

		rep.Status = t.Status
		rep.ReviewerID = t.ReviewerID
		at := t.At
		rep.ReviewedAt = &at
		rep.ResolutionNotes = t.Notes
		rep.UpdatedAt = t.At

		newData, err := json.Marshal(rep)
		if err != nil {
			return err
		}
		if err := bucket.Put([]byte(id), newData); err != nil {
			return err
		}
		report = &rep
		return nil
	})

	return report, err
}

// CountReportsAgainst returns the number of reports naming a user.
func (s *ModerationStore) CountReportsAgainst(ctx context.Context, userID string) (int, error) {
	return s.countReports(func(rep moderation.Report) bool {
		return rep.ReportedUserID == userID
	})
}

// CountReportsBy returns the number of reports filed by a user.
func (s *ModerationStore) CountReportsBy(ctx context.Context, userID string) (int, error) {
	return s.countReports(func(rep moderation.Report) bool {
		return rep.ReporterID == userID
	})
}

func (s *ModerationStore) countReports(match func(moderation.Report) bool) (int, error) {
	var count int

	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(BucketReports).ForEach(func(k, v []byte) error {
			var rep moderation.Report
			if err := json.Unmarshal(v, &rep); err != nil {
				return nil // Skip malformed entries
			}
			if match(rep) {
				count++
			}
			return nil
		})
	})

	return count, err
}

// ListReportsAgainst returns the most recent reports naming a user,
// newest first.
func (s *ModerationStore) ListReportsAgainst(ctx context.Context, userID string, limit int) ([]moderation.Report, error) {
	var reports []moderation.Report

	err := s.db.View(func(tx *bolt.Tx) error {
		index := tx.Bucket(BucketReportsByTime).Cursor()
		bucket := tx.Bucket(BucketReports)

		for k, id := index.Last(); k != nil; k, id = index.Prev() {
			if limit > 0 && len(reports) >= limit {
				break
			}
			data := bucket.Get(id)
			if data == nil {
				continue
			}
			var rep moderation.Report
			if err := json.Unmarshal(data, &rep); err != nil {
				continue
			}
			if rep.ReportedUserID == userID {
				reports = append(reports, rep)
			}
		}
		return nil
	})

	return reports, err
}

// CountReportsByStatus counts reports per status, optionally bounded by
// a creation-time window.
func (s *ModerationStore) CountReportsByStatus(ctx context.Context, between *moderation.TimeRange) (map[moderation.ReportStatus]int, error) {
	counts := make(map[moderation.ReportStatus]int)

	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(BucketReports).ForEach(func(k, v []byte) error {
			var rep moderation.Report
			if err := json.Unmarshal(v, &rep); err != nil {
				return nil
			}
			if between.Contains(rep.CreatedAt) {
				counts[rep.Status]++
			}
			return nil
		})
	})

	return counts, err
}

// ========== Content ==========

// GetPost retrieves a post by ID. Returns nil, nil when absent.
func (s *ModerationStore) GetPost(ctx context.Context, id string) (*moderation.Post, error) {
	var post *moderation.Post

	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(BucketPosts).Get([]byte(id))
		if data == nil {
			return nil
		}
		post = &moderation.Post{}
		return json.Unmarshal(data, post)
	})

	return post, err
}

// PutPost stores a post record.
func (s *ModerationStore) PutPost(ctx context.Context, p moderation.Post) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("failed to marshal post: %w", err)
		}
		return tx.Bucket(BucketPosts).Put([]byte(p.ID), data)
	})
}

// RemovePost sets a post's status to removed. A second removal attempt
// fails with ErrContentAlreadyRemoved and leaves state unchanged.
func (s *ModerationStore) RemovePost(ctx context.Context, id string, rm moderation.Removal) (*moderation.Post, error) {
	var post *moderation.Post

	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(BucketPosts)
		data := bucket.Get([]byte(id))
		if data == nil {
			return moderation.ErrContentNotFound
		}

		var p moderation.Post
		if err := json.Unmarshal(data, &p); err != nil {
			return err
		}
		if p.Status == moderation.PostStatusRemoved {
			return moderation.ErrContentAlreadyRemoved
		}

		p.Status = moderation.PostStatusRemoved
		p.UpdatedAt = rm.At
		newData, err := json.Marshal(p)
		if err != nil {
			return err
		}
		if err := bucket.Put([]byte(id), newData); err != nil {
			return err
		}
		if err := appendAudit(tx, rm.Audit); err != nil {
			return err
		}
		post = &p
		return nil
	})

	return post, err
}

// GetComment retrieves a comment by ID. Returns nil, nil when absent.
func (s *ModerationStore) GetComment(ctx context.Context, id string) (*moderation.Comment, error) {
	var comment *moderation.Comment

	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(BucketComments).Get([]byte(id))
		if data == nil {
			return nil
		}
		comment = &moderation.Comment{}
		return json.Unmarshal(data, comment)
	})

	return comment, err
}

// PutComment stores a comment record.
func (s *ModerationStore) PutComment(ctx context.Context, c moderation.Comment) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("failed to marshal comment: %w", err)
		}
		return tx.Bucket(BucketComments).Put([]byte(c.ID), data)
	})
}

// DeleteComment sets a comment's deletion flag, idempotency-guarded like
// RemovePost.
func (s *ModerationStore) DeleteComment(ctx context.Context, id string, rm moderation.Removal) (*moderation.Comment, error) {
	var comment *moderation.Comment

	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(BucketComments)
		data := bucket.Get([]byte(id))
		if data == nil {
			return moderation.ErrContentNotFound
		}

		var c moderation.Comment
		if err := json.Unmarshal(data, &c); err != nil {
			return err
		}
		if c.IsDeleted {
			return moderation.ErrContentAlreadyRemoved
		}

		c.IsDeleted = true
		c.UpdatedAt = rm.At
		newData, err := json.Marshal(c)
		if err != nil {
			return err
		}
		if err := bucket.Put([]byte(id), newData); err != nil {
			return err
		}
		if err := appendAudit(tx, rm.Audit); err != nil {
			return err
		}
		comment = &c
		return nil
	})

	return comment, err
}

// CountRemovedContent counts taken-down posts and comments.
func (s *ModerationStore) CountRemovedContent(ctx context.Context) (int, error) {
	return s.countRemoved(func(string) bool { return true })
}

// CountRemovedContentByAuthor counts taken-down content by one author.
func (s *ModerationStore) CountRemovedContentByAuthor(ctx context.Context, authorID string) (int, error) {
	return s.countRemoved(func(id string) bool { return id == authorID })
}

func (s *ModerationStore) countRemoved(match func(authorID string) bool) (int, error) {
	var count int

	err := s.db.View(func(tx *bolt.Tx) error {
		err := tx.Bucket(BucketPosts).ForEach(func(k, v []byte) error {
			var p moderation.Post
			if err := json.Unmarshal(v, &p); err != nil {
				return nil
			}
			if p.Status == moderation.PostStatusRemoved && match(p.AuthorID) {
				count++
			}
			return nil
		})
		if err != nil {
			return err
		}
		return tx.Bucket(BucketComments).ForEach(func(k, v []byte) error {
			var c moderation.Comment
			if err := json.Unmarshal(v, &c); err != nil {
				return nil
			}
			if c.IsDeleted && match(c.AuthorID) {
				count++
			}
			return nil
		})
	})

	return count, err
}

// ========== Target refs ==========

// PutActivityRef records an activity ID mirrored from the platform.
func (s *ModerationStore) PutActivityRef(ctx context.Context, id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(BucketActivityRefs).Put([]byte(id), []byte{})
	})
}

// PutCommunityRef records a community ID mirrored from the platform.
func (s *ModerationStore) PutCommunityRef(ctx context.Context, id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(BucketCommunityRefs).Put([]byte(id), []byte{})
	})
}

// TargetRefExists checks existence of an activity or community ref.
func (s *ModerationStore) TargetRefExists(ctx context.Context, t moderation.TargetType, id string) (bool, error) {
	var bucket []byte
	switch t {
	case moderation.TargetTypeActivity:
		bucket = BucketActivityRefs
	case moderation.TargetTypeCommunity:
		bucket = BucketCommunityRefs
	default:
		return false, nil
	}

	var exists bool
	err := s.db.View(func(tx *bolt.Tx) error {
		exists = tx.Bucket(bucket).Get([]byte(id)) != nil
		return nil
	})
	return exists, err
}

// ========== Helpers ==========

// photoQueueTime is the instant a user entered the photo review queue,
// falling back to account creation for records predating the field.
func photoQueueTime(u moderation.User) time.Time {
	if !u.PhotoSubmittedAt.IsZero() {
		return u.PhotoSubmittedAt
	}
	return u.CreatedAt
}

// page applies limit/offset to an already-sorted slice.
func page(users []moderation.User, limit, offset int) []moderation.User {
	if offset >= len(users) {
		return nil
	}
	users = users[offset:]
	if limit > 0 && len(users) > limit {
		users = users[:limit]
	}
	return users
}

// hasPrefix checks if a byte slice has a given prefix.
func hasPrefix(s, prefix []byte) bool {
	if len(s) < len(prefix) {
		return false
	}
	for i, b := range prefix {
		if s[i] != b {
			return false
		}
	}
	return true
}
