package objects_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"s3-manager/core/journal"
	"s3-manager/core/storage"
	"s3-manager/core/storage/mocks"
	"s3-manager/feature/objects"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memJournal struct {
	entries []journal.Entry
	err     error
}

func (m *memJournal) Record(_ context.Context, e journal.Entry) error {
	m.entries = append(m.entries, e)
	return m.err
}

func (m *memJournal) Recent(_ context.Context, limit int) ([]journal.Entry, error) {
	return m.entries, nil
}

func newService(client storage.Client, fs afero.Fs, opts ...objects.Option) *objects.Service {
	cfg := storage.Config{Region: "eu-west-1", ListPageSize: 1000}
	opts = append([]objects.Option{objects.WithFilesystem(fs)}, opts...)
	return objects.NewService(client, cfg, zap.NewNop(), opts...)
}

// fakeStore wires PutObject/GetObject on a mock so uploaded content can be read back.
func fakeStore(m *mocks.Client) map[string][]byte {
	stored := map[string][]byte{}
	encodings := map[string]string{}

	m.On("PutObject", mock.Anything, "assets", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			key := args.String(2)
			data, _ := io.ReadAll(args.Get(3).(io.Reader))
			stored[key] = data
			encodings[key] = args.Get(5).(storage.PutOptions).ContentEncoding
		}).
		Return(storage.UploadInfo{Bucket: "assets", ETag: "etag"}, nil)

	m.On("GetObject", mock.Anything, "assets", mock.Anything).
		Return(func(_ context.Context, bucket, key string) storage.Object {
			data, ok := stored[key]
			if !ok {
				return nil
			}
			info := storage.ObjectInfo{Bucket: bucket, Key: key, Size: int64(len(data)), ContentEncoding: encodings[key]}
			return storage.NewObject(io.NopCloser(bytes.NewReader(data)), info)
		}, nil)

	return stored
}

func TestUploadDownloadRoundTrip(t *testing.T) {
	content := []byte("hello object storage, hello object storage, hello object storage")

	t.Run("Plain", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "/src/report.txt", content, 0o644))

		client := new(mocks.Client)
		stored := fakeStore(client)
		svc := newService(client, fs)

		_, err := svc.Upload(context.Background(), "/src/report.txt", "assets", "", objects.UploadOptions{})
		require.NoError(t, err)
		assert.Equal(t, content, stored["report.txt"])

		n, err := svc.Download(context.Background(), "assets", "report.txt", "/dst/nested/report.txt")
		require.NoError(t, err)
		assert.Equal(t, int64(len(content)), n)

		got, err := afero.ReadFile(fs, "/dst/nested/report.txt")
		require.NoError(t, err)
		assert.Equal(t, content, got)
	})

	t.Run("Gzip", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "/src/report.txt", content, 0o644))

		client := new(mocks.Client)
		stored := fakeStore(client)
		svc := newService(client, fs)

		_, err := svc.Upload(context.Background(), "/src/report.txt", "assets", "docs/report.txt", objects.UploadOptions{Compress: true})
		require.NoError(t, err)
		assert.NotEqual(t, content, stored["docs/report.txt"])

		_, err = svc.Download(context.Background(), "assets", "docs/report.txt", "/dst/report.txt")
		require.NoError(t, err)

		got, err := afero.ReadFile(fs, "/dst/report.txt")
		require.NoError(t, err)
		assert.Equal(t, content, got)
	})
}

func TestUpload(t *testing.T) {
	t.Run("Detects Content Type", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "/a.json", []byte(`{"a":1}`), 0o644))

		client := new(mocks.Client)
		client.On("PutObject", mock.Anything, "assets", "a.json", mock.Anything, int64(7),
			mock.MatchedBy(func(o storage.PutOptions) bool { return o.ContentType == "application/json" })).
			Return(storage.UploadInfo{Bucket: "assets", Key: "a.json", Size: 7}, nil)

		info, err := newService(client, fs).Upload(context.Background(), "/a.json", "assets", "", objects.UploadOptions{})
		require.NoError(t, err)
		assert.Equal(t, "a.json", info.Key)
		client.AssertExpectations(t)
	})

	t.Run("Compressed Body Is Seekable", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "/a.txt", []byte("aaaaaaaaaaaaaaaa"), 0o644))

		client := new(mocks.Client)
		client.On("PutObject", mock.Anything, "assets", "a.txt",
			mock.MatchedBy(func(r io.Reader) bool { _, ok := r.(io.Seeker); return ok }),
			mock.Anything,
			mock.MatchedBy(func(o storage.PutOptions) bool { return o.ContentEncoding == "gzip" })).
			Return(storage.UploadInfo{Bucket: "assets", Key: "a.txt"}, nil)

		_, err := newService(client, fs).Upload(context.Background(), "/a.txt", "assets", "", objects.UploadOptions{Compress: true})
		require.NoError(t, err)
		client.AssertExpectations(t)
	})

	t.Run("Missing File", func(t *testing.T) {
		client := new(mocks.Client)
		_, err := newService(client, afero.NewMemMapFs()).Upload(context.Background(), "/missing.bin", "assets", "", objects.UploadOptions{})
		assert.True(t, storage.IsNotFound(err))
		client.AssertNotCalled(t, "PutObject")
	})

	t.Run("Directory", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, fs.MkdirAll("/dir", 0o755))
		_, err := newService(new(mocks.Client), fs).Upload(context.Background(), "/dir", "assets", "x", objects.UploadOptions{})
		assert.True(t, storage.IsInvalidInput(err))
	})

	t.Run("Empty Bucket", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "/a.txt", []byte("a"), 0o644))
		_, err := newService(new(mocks.Client), fs).Upload(context.Background(), "/a.txt", "", "", objects.UploadOptions{})
		assert.True(t, storage.IsInvalidInput(err))
	})

	t.Run("Storage Error Is Journaled", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "/a.txt", []byte("a"), 0o644))

		denied := storage.NewError("put", "assets", "a.txt", storage.KindPermissionDenied, errors.New("AccessDenied"))
		client := new(mocks.Client)
		client.On("PutObject", mock.Anything, "assets", "a.txt", mock.Anything, mock.Anything, mock.Anything).
			Return(storage.UploadInfo{}, denied)

		rec := &memJournal{}
		_, err := newService(client, fs, objects.WithJournal(rec)).Upload(context.Background(), "/a.txt", "assets", "", objects.UploadOptions{})
		assert.True(t, storage.IsPermissionDenied(err))
		require.Len(t, rec.entries, 1)
		assert.Equal(t, journal.StatusError, rec.entries[0].Status)
		assert.Equal(t, "upload", rec.entries[0].Operation)
	})
}

func TestDownload(t *testing.T) {
	t.Run("Not Found Leaves No File", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		client := new(mocks.Client)
		client.On("GetObject", mock.Anything, "assets", "nope").
			Return(nil, storage.NewError("get", "assets", "nope", storage.KindNotFound, errors.New("NoSuchKey")))

		_, err := newService(client, fs).Download(context.Background(), "assets", "nope", "/out/nope")
		assert.True(t, storage.IsNotFound(err))

		exists, _ := afero.Exists(fs, "/out/nope")
		assert.False(t, exists)
	})

	t.Run("Empty Path", func(t *testing.T) {
		_, err := newService(new(mocks.Client), afero.NewMemMapFs()).Download(context.Background(), "assets", "k", "")
		assert.True(t, storage.IsInvalidInput(err))
	})
}

func TestList(t *testing.T) {
	t.Run("Empty Bucket", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("ListObjects", mock.Anything, "empty", "", 1000).
			Return(storage.ObjectPage{Bucket: "empty", Keys: []string{}}, nil)

		page, err := newService(client, afero.NewMemMapFs()).List(context.Background(), "empty", "")
		require.NoError(t, err)
		assert.Empty(t, page.Keys)
		assert.False(t, page.Truncated)
	})

	t.Run("Truncated Page", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("ListObjects", mock.Anything, "big", "logs/", 1000).
			Return(storage.ObjectPage{Bucket: "big", Prefix: "logs/", Keys: []string{"logs/1"}, Truncated: true}, nil)

		page, err := newService(client, afero.NewMemMapFs()).List(context.Background(), "big", "logs/")
		require.NoError(t, err)
		assert.True(t, page.Truncated)
		assert.Equal(t, []string{"logs/1"}, page.Keys)
	})
}

func TestDelete(t *testing.T) {
	t.Run("Nonexistent Object", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("RemoveObject", mock.Anything, "assets", "ghost.txt").Return(nil)

		rec := &memJournal{}
		err := newService(client, afero.NewMemMapFs(), objects.WithJournal(rec)).Delete(context.Background(), "assets", "ghost.txt")
		assert.NoError(t, err)
		require.Len(t, rec.entries, 1)
		assert.Equal(t, journal.StatusOK, rec.entries[0].Status)
	})

	t.Run("Journal Failure Is Not Fatal", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("RemoveObject", mock.Anything, "assets", "a").Return(nil)

		rec := &memJournal{err: errors.New("db down")}
		err := newService(client, afero.NewMemMapFs(), objects.WithJournal(rec)).Delete(context.Background(), "assets", "a")
		assert.NoError(t, err)
	})
}

func TestCreateBucket(t *testing.T) {
	clock := objects.WithClock(func() time.Time { return time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC) })
	existing := []storage.BucketInfo{{Name: "assets"}}

	t.Run("Free Name", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("ListBuckets", mock.Anything).Return(existing, nil)
		client.On("MakeBucket", mock.Anything, "fresh", "eu-west-1").Return(nil)

		name, err := newService(client, afero.NewMemMapFs(), clock).CreateBucket(context.Background(), "fresh", objects.BucketOptions{})
		require.NoError(t, err)
		assert.Equal(t, "fresh", name)
	})

	t.Run("Collision With Rename", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("ListBuckets", mock.Anything).Return(existing, nil)
		client.On("MakeBucket", mock.Anything, "assets-20240305", "eu-west-1").Return(nil)

		name, err := newService(client, afero.NewMemMapFs(), clock).CreateBucket(context.Background(), "assets", objects.BucketOptions{RenameOnCollision: true})
		require.NoError(t, err)
		assert.NotEqual(t, "assets", name)
		assert.Contains(t, name, "20240305")
		client.AssertExpectations(t)
	})

	t.Run("Collision Without Rename", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("ListBuckets", mock.Anything).Return(existing, nil)

		_, err := newService(client, afero.NewMemMapFs(), clock).CreateBucket(context.Background(), "assets", objects.BucketOptions{})
		assert.True(t, storage.IsConflict(err))
		client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Dated Name Also Taken", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("ListBuckets", mock.Anything).Return(append(existing, storage.BucketInfo{Name: "assets-20240305"}), nil)

		_, err := newService(client, afero.NewMemMapFs(), clock).CreateBucket(context.Background(), "assets", objects.BucketOptions{RenameOnCollision: true})
		assert.True(t, storage.IsConflict(err))
	})

	t.Run("Dated Name Too Long", func(t *testing.T) {
		long := "a23456789012345678901234567890123456789012345678901234567"
		client := new(mocks.Client)
		client.On("ListBuckets", mock.Anything).Return([]storage.BucketInfo{{Name: long}}, nil)

		_, err := newService(client, afero.NewMemMapFs(), clock).CreateBucket(context.Background(), long, objects.BucketOptions{RenameOnCollision: true})
		assert.True(t, storage.IsInvalidInput(err))
	})

	t.Run("Default Options From Config", func(t *testing.T) {
		svc := objects.NewService(new(mocks.Client), storage.Config{RenameOnCollision: true}, zap.NewNop())
		assert.True(t, svc.DefaultBucketOptions().RenameOnCollision)
	})
}

func TestDeleteBucket(t *testing.T) {
	client := new(mocks.Client)
	client.On("RemoveBucket", mock.Anything, "full").
		Return(storage.NewError("remove_bucket", "full", "", storage.KindConflict, errors.New("BucketNotEmpty")))
	client.On("RemoveBucket", mock.Anything, "empty").Return(nil)

	svc := newService(client, afero.NewMemMapFs())
	assert.NoError(t, svc.DeleteBucket(context.Background(), "empty"))
	assert.True(t, storage.IsConflict(svc.DeleteBucket(context.Background(), "full")))
	assert.True(t, storage.IsInvalidInput(svc.DeleteBucket(context.Background(), "")))
}

func TestGetObjectMetadata(t *testing.T) {
	client := new(mocks.Client)
	client.On("StatObject", mock.Anything, "assets", "a.txt").
		Return(storage.ObjectInfo{Bucket: "assets", Key: "a.txt", Size: 3, ContentType: "text/plain"}, nil)
	client.On("StatObject", mock.Anything, "assets", "missing").
		Return(storage.ObjectInfo{}, storage.NewError("stat", "assets", "missing", storage.KindNotFound, errors.New("NoSuchKey")))

	svc := newService(client, afero.NewMemMapFs())

	info, err := svc.GetObjectMetadata(context.Background(), "assets", "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "3", info.Fields()["ContentLength"])

	_, err = svc.GetObjectMetadata(context.Background(), "assets", "missing")
	assert.True(t, storage.IsNotFound(err))
}

func TestHistory(t *testing.T) {
	_, err := newService(new(mocks.Client), afero.NewMemMapFs()).History(context.Background(), 10)
	assert.ErrorIs(t, err, objects.ErrJournalDisabled)

	rec := &memJournal{entries: []journal.Entry{{Operation: "upload"}}}
	entries, err := newService(new(mocks.Client), afero.NewMemMapFs(), objects.WithJournal(rec)).History(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
