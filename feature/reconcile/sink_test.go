package reconcile

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"payment-reconciler/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func objectChannel(objs ...minio.ObjectInfo) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(objs))
	for _, obj := range objs {
		ch <- obj
	}
	close(ch)
	return ch
}

func removeErrorChannel(errs ...minio.RemoveObjectError) <-chan minio.RemoveObjectError {
	ch := make(chan minio.RemoveObjectError, len(errs))
	for _, e := range errs {
		ch <- e
	}
	close(ch)
	return ch
}

func TestDirSink_Write(t *testing.T) {
	dir := t.TempDir()
	sink := DirSink{Dir: dir}

	payload := []byte(`{"reportId":"report-1"}`)
	err := sink.Write(context.Background(), "reconciliation/report-1.json", payload)
	require.NoError(t, err)

	written, err := os.ReadFile(filepath.Join(dir, "reconciliation", "report-1.json"))
	require.NoError(t, err)
	assert.Equal(t, payload, written)
}

func TestStorageSink_EnsureCreatesMissingBucket(t *testing.T) {
	mockClient := new(mocks.Client)
	mockClient.On("BucketExists", mock.Anything, "reports").Return(false, nil)
	mockClient.On("MakeBucket", mock.Anything, "reports", mock.Anything).Return(nil)

	sink := NewStorageSink(mockClient, "reports")
	require.NoError(t, sink.Ensure(context.Background()))

	mockClient.AssertCalled(t, "MakeBucket", mock.Anything, "reports", mock.Anything)
}

func TestStorageSink_EnsureSkipsExistingBucket(t *testing.T) {
	mockClient := new(mocks.Client)
	mockClient.On("BucketExists", mock.Anything, "reports").Return(true, nil)

	sink := NewStorageSink(mockClient, "reports")
	require.NoError(t, sink.Ensure(context.Background()))

	mockClient.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
}

func TestStorageSink_WriteSetsContentType(t *testing.T) {
	payload := []byte("report_id,timestamp\n")

	mockClient := new(mocks.Client)
	mockClient.On("PutObject", mock.Anything, "reports", "reconciliation/report-1.csv",
		mock.Anything, int64(len(payload)),
		mock.MatchedBy(func(opts minio.PutObjectOptions) bool {
			return opts.ContentType == "text/csv"
		})).Return(minio.UploadInfo{}, nil)

	sink := NewStorageSink(mockClient, "reports")
	err := sink.Write(context.Background(), "reconciliation/report-1.csv", payload)
	require.NoError(t, err)

	mockClient.AssertExpectations(t)
}

func TestStorageSink_WriteError(t *testing.T) {
	mockClient := new(mocks.Client)
	mockClient.On("PutObject", mock.Anything, "reports", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, fmt.Errorf("access denied"))

	sink := NewStorageSink(mockClient, "reports")
	err := sink.Write(context.Background(), "reconciliation/report-1.json", []byte("{}"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to archive report")
}

func TestStorageSink_ListSortsNewestFirst(t *testing.T) {
	older := minio.ObjectInfo{Key: "reconciliation/a.json", Size: 10, LastModified: testNow.Add(-2 * time.Hour)}
	newer := minio.ObjectInfo{Key: "reconciliation/b.json", Size: 20, LastModified: testNow.Add(-time.Hour)}

	mockClient := new(mocks.Client)
	mockClient.On("ListObjects", mock.Anything, "reports", mock.MatchedBy(func(opts minio.ListObjectsOptions) bool {
		return opts.Prefix == "reconciliation" && opts.Recursive
	})).Return(objectChannel(older, newer))

	sink := NewStorageSink(mockClient, "reports")
	entries, err := sink.List(context.Background(), "reconciliation")
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, "reconciliation/b.json", entries[0].Name)
	assert.Equal(t, int64(20), entries[0].Size)
	assert.Equal(t, "reconciliation/a.json", entries[1].Name)
}

func TestStorageSink_ListError(t *testing.T) {
	mockClient := new(mocks.Client)
	mockClient.On("ListObjects", mock.Anything, "reports", mock.Anything).
		Return(objectChannel(minio.ObjectInfo{Err: fmt.Errorf("bucket gone")}))

	sink := NewStorageSink(mockClient, "reports")
	_, err := sink.List(context.Background(), "reconciliation")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list archived reports")
}

func TestStorageSink_Read(t *testing.T) {
	payload := []byte(`{"reportId":"report-1"}`)

	mockClient := new(mocks.Client)
	mockClient.On("GetObject", mock.Anything, "reports", "reconciliation/report-1.json", mock.Anything).
		Return(io.NopCloser(bytes.NewReader(payload)), nil)

	sink := NewStorageSink(mockClient, "reports")
	data, err := sink.Read(context.Background(), "reconciliation/report-1.json")
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestStorageSink_PruneRemovesStaleObjects(t *testing.T) {
	cutoff := testNow.Add(-90 * 24 * time.Hour)
	stale1 := minio.ObjectInfo{Key: "reconciliation/old1.json", LastModified: cutoff.Add(-time.Hour)}
	stale2 := minio.ObjectInfo{Key: "reconciliation/old2.json", LastModified: cutoff.Add(-2 * time.Hour)}
	fresh := minio.ObjectInfo{Key: "reconciliation/new.json", LastModified: cutoff.Add(time.Hour)}

	mockClient := new(mocks.Client)
	mockClient.On("ListObjects", mock.Anything, "reports", mock.Anything).
		Return(objectChannel(stale1, stale2, fresh))

	var removeRequested []string
	mockClient.On("RemoveObjects", mock.Anything, "reports", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			ch := args.Get(2).(<-chan minio.ObjectInfo)
			for obj := range ch {
				removeRequested = append(removeRequested, obj.Key)
			}
		}).
		Return(removeErrorChannel())

	sink := NewStorageSink(mockClient, "reports")
	removed, err := sink.Prune(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.ElementsMatch(t, []string{"reconciliation/old1.json", "reconciliation/old2.json"}, removeRequested)
}

func TestStorageSink_PruneNothingStale(t *testing.T) {
	cutoff := testNow.Add(-90 * 24 * time.Hour)
	fresh := minio.ObjectInfo{Key: "reconciliation/new.json", LastModified: testNow}

	mockClient := new(mocks.Client)
	mockClient.On("ListObjects", mock.Anything, "reports", mock.Anything).
		Return(objectChannel(fresh))

	sink := NewStorageSink(mockClient, "reports")
	removed, err := sink.Prune(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Zero(t, removed)

	mockClient.AssertNotCalled(t, "RemoveObjects", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestStorageSink_PruneCountsFailures(t *testing.T) {
	cutoff := testNow
	stale1 := minio.ObjectInfo{Key: "reconciliation/old1.json", LastModified: cutoff.Add(-time.Hour)}
	stale2 := minio.ObjectInfo{Key: "reconciliation/old2.json", LastModified: cutoff.Add(-time.Hour)}

	mockClient := new(mocks.Client)
	mockClient.On("ListObjects", mock.Anything, "reports", mock.Anything).
		Return(objectChannel(stale1, stale2))
	mockClient.On("RemoveObjects", mock.Anything, "reports", mock.Anything, mock.Anything).
		Return(removeErrorChannel(minio.RemoveObjectError{
			ObjectName: "reconciliation/old1.json",
			Err:        fmt.Errorf("object locked"),
		}))

	sink := NewStorageSink(mockClient, "reports")
	removed, err := sink.Prune(context.Background(), cutoff)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to prune report")
	assert.Equal(t, 1, removed)
}
