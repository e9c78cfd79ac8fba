// Package boltstore provides persistent storage using BoltDB (bbolt).
// It implements moderation.Store for single-node deployments; the
// sqlitestore package offers the same semantics on SQLite.
package boltstore

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Bucket names for organizing data
var (
	// BucketUsers stores user records keyed by user ID
	BucketUsers = []byte("users")

	// BucketReports stores reports keyed by report ID
	BucketReports = []byte("reports")

	// BucketReportsByTime indexes reports by creation time for
	// newest-first listings: {unixnano:report_id} -> report_id
	BucketReportsByTime = []byte("reports_by_time")

	// BucketAudit stores the append-only audit trail keyed by
	// {user_id:unixnano:entry_id}
	BucketAudit = []byte("audit")

	// BucketPosts stores post records keyed by post ID
	BucketPosts = []byte("posts")

	// BucketComments stores comment records keyed by comment ID
	BucketComments = []byte("comments")

	// BucketActivityRefs stores activity IDs mirrored from the platform
	BucketActivityRefs = []byte("activity_refs")

	// BucketCommunityRefs stores community IDs mirrored from the platform
	BucketCommunityRefs = []byte("community_refs")
)

// Store wraps a BoltDB database and provides access to specialized stores.
type Store struct {
	db *bolt.DB
}

// Options configures the BoltDB store.
type Options struct {
	// Path to the database file. Parent directories will be created if needed.
	Path string

	// Timeout for obtaining a file lock on the database.
	// If zero, a default of 5 seconds is used.
	Timeout time.Duration

	// FileMode for creating the database file.
	// If zero, 0600 is used.
	FileMode os.FileMode
}

// DefaultOptions returns sensible defaults for development.
func DefaultOptions() Options {
	return Options{
		Path:     "vigil.db",
		Timeout:  5 * time.Second,
		FileMode: 0600,
	}
}

// Open creates or opens a BoltDB database at the specified path.
// It creates all necessary buckets if they don't exist.
func Open(opts Options) (*Store, error) {
	if opts.Path == "" {
		opts.Path = "vigil.db"
	}
	if opts.Timeout == 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.FileMode == 0 {
		opts.FileMode = 0600
	}

	// Ensure parent directory exists
	dir := filepath.Dir(opts.Path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := bolt.Open(opts.Path, opts.FileMode, &bolt.Options{
		Timeout: opts.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Create buckets if they don't exist
	err = db.Update(func(tx *bolt.Tx) error {
		buckets := [][]byte{
			BucketUsers,
			BucketReports,
			BucketReportsByTime,
			BucketAudit,
			BucketPosts,
			BucketComments,
			BucketActivityRefs,
			BucketCommunityRefs,
		}

		for _, bucket := range buckets {
			_, err := tx.CreateBucketIfNotExists(bucket)
			if err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}

		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// DB returns the underlying BoltDB instance for advanced operations.
func (s *Store) DB() *bolt.DB {
	return s.db
}

// ModerationStore returns a moderation store backed by this database.
func (s *Store) ModerationStore() *ModerationStore {
	return &ModerationStore{db: s.db}
}

// Stats returns database statistics.
func (s *Store) Stats() bolt.Stats {
	return s.db.Stats()
}
