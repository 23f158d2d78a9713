package reconcile

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"payment-reconciler/core/storage"

	"github.com/minio/minio-go/v7"
)

// ReportSink persists serialized reports.
type ReportSink interface {
	// Write stores one report payload under the given name.
	Write(ctx context.Context, name string, data []byte) error
}

// Pruner is an optional sink capability: removing archived reports older
// than a cutoff. Callers detect it via type assertion.
type Pruner interface {
	Prune(ctx context.Context, olderThan time.Time) (int, error)
}

// DirSink writes reports into a local directory.
type DirSink struct {
	Dir string
}

func (s DirSink) Write(ctx context.Context, name string, data []byte) error {
	path := filepath.Join(s.Dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", name, err)
	}
	return nil
}

// StorageSink archives reports in an object storage bucket.
type StorageSink struct {
	client storage.Client
	bucket string
}

// NewStorageSink creates a sink writing into the given bucket.
func NewStorageSink(client storage.Client, bucket string) *StorageSink {
	return &StorageSink{client: client, bucket: bucket}
}

// Ensure verifies the archive bucket exists, creating it when missing.
func (s *StorageSink) Ensure(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check report bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create report bucket %s: %w", s.bucket, err)
	}
	return nil
}

func (s *StorageSink) Write(ctx context.Context, name string, data []byte) error {
	opts := minio.PutObjectOptions{
		ContentType: ContentTypeFor(strings.TrimPrefix(filepath.Ext(name), ".")),
	}
	_, err := s.client.PutObject(ctx, s.bucket, name, bytes.NewReader(data), int64(len(data)), opts)
	if err != nil {
		return fmt.Errorf("failed to archive report %s: %w", name, err)
	}
	return nil
}

// ArchiveEntry describes one archived report object.
type ArchiveEntry struct {
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
}

// List returns the archived reports under the prefix, newest first.
func (s *StorageSink) List(ctx context.Context, prefix string) ([]ArchiveEntry, error) {
	var entries []ArchiveEntry
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list archived reports: %w", obj.Err)
		}
		entries = append(entries, ArchiveEntry{
			Name:         obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].LastModified.After(entries[j].LastModified)
	})
	return entries, nil
}

// Read fetches one archived report payload.
func (s *StorageSink) Read(ctx context.Context, name string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch archived report %s: %w", name, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read archived report %s: %w", name, err)
	}
	return data, nil
}

// Prune batch-removes archived reports last modified before the cutoff and
// returns how many were removed.
func (s *StorageSink) Prune(ctx context.Context, olderThan time.Time) (int, error) {
	var stale []minio.ObjectInfo
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return 0, fmt.Errorf("failed to list archived reports: %w", obj.Err)
		}
		if obj.LastModified.Before(olderThan) {
			stale = append(stale, obj)
		}
	}
	if len(stale) == 0 {
		return 0, nil
	}

	objectsCh := make(chan minio.ObjectInfo, len(stale))
	for _, obj := range stale {
		objectsCh <- obj
	}
	close(objectsCh)

	removed := len(stale)
	var firstErr error
	for rerr := range s.client.RemoveObjects(ctx, s.bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		removed--
		if firstErr == nil {
			firstErr = fmt.Errorf("failed to prune report %s: %w", rerr.ObjectName, rerr.Err)
		}
	}
	return removed, firstErr
}
