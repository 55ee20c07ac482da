package backup

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/hyejinmo/pixelo/internal/database"
)

// mockS3Client implements s3Client for testing.
type mockS3Client struct {
	mu       sync.Mutex
	objects  map[string][]byte
	putErr   error
	putFails int // fail this many puts before succeeding
	puts     int
}

func newMockS3() *mockS3Client {
	return &mockS3Client{objects: make(map[string][]byte)}
}

func (m *mockS3Client) PutObject(_ context.Context, input *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts++
	if m.putErr != nil {
		return nil, m.putErr
	}
	if m.putFails > 0 {
		m.putFails--
		return nil, errors.New("transient failure")
	}
	data, _ := io.ReadAll(input.Body)
	m.objects[*input.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (m *mockS3Client) GetObject(_ context.Context, input *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[*input.Key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{
		Body: io.NopCloser(strings.NewReader(string(data))),
	}, nil
}

func (m *mockS3Client) ListObjectsV2(_ context.Context, _ *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	return &s3.ListObjectsV2Output{}, nil
}

func (m *mockS3Client) DeleteObject(_ context.Context, input *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, *input.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func setupBackupTest(t *testing.T) (*Manager, *mockS3Client) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "pixelo.db")
	db, err := database.Open(dbPath)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	m := NewManager(Config{
		S3:     S3Config{Bucket: "test", AccessKey: "key", SecretKey: "secret"},
		DBPath: dbPath,
	}, db, slog.Default())

	mock := newMockS3()
	m.client = mock
	return m, mock
}

func TestManagerDisabledWithoutConfig(t *testing.T) {
	m := NewManager(Config{}, nil, slog.Default())
	if m.Status().Enabled {
		t.Error("expected disabled manager without S3 config")
	}

	// Start is a no-op and Stop must not block
	m.Start(context.Background())
	m.Stop()

	if _, err := m.RunNow(context.Background()); err == nil {
		t.Error("expected error running disabled backup")
	}
}

func TestManagerRunNow(t *testing.T) {
	m, mock := setupBackupTest(t)

	key, err := m.RunNow(context.Background())
	if err != nil {
		t.Fatalf("run now: %v", err)
	}
	if !strings.HasPrefix(key, "snapshots/pixelo-") {
		t.Errorf("key = %q", key)
	}

	mock.mu.Lock()
	data, ok := mock.objects[key]
	mock.mu.Unlock()
	if !ok {
		t.Fatal("snapshot not uploaded")
	}
	if len(data) == 0 {
		t.Error("uploaded snapshot is empty")
	}

	status := m.Status()
	if status.LastBackup == nil {
		t.Error("expected last_backup to be set")
	}
	if status.LastKey != key {
		t.Errorf("last_key = %q, want %q", status.LastKey, key)
	}
	if status.Error != "" {
		t.Errorf("error = %q, want empty", status.Error)
	}
}

func TestManagerRetriesTransientUpload(t *testing.T) {
	m, mock := setupBackupTest(t)
	mock.putFails = 2

	if _, err := m.RunNow(context.Background()); err != nil {
		t.Fatalf("run now: %v", err)
	}

	mock.mu.Lock()
	puts := mock.puts
	mock.mu.Unlock()
	if puts != 3 {
		t.Errorf("puts = %d, want 3", puts)
	}
}

func TestManagerUploadGivesUp(t *testing.T) {
	m, mock := setupBackupTest(t)
	mock.putErr = errors.New("access denied")

	if _, err := m.RunNow(context.Background()); err == nil {
		t.Fatal("expected upload failure")
	}
	if m.Status().Error == "" {
		t.Error("expected error recorded in status")
	}
}

func TestManagerDownload(t *testing.T) {
	m, _ := setupBackupTest(t)

	key, err := m.RunNow(context.Background())
	if err != nil {
		t.Fatalf("run now: %v", err)
	}

	body, err := m.Download(context.Background(), key)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(data) == 0 {
		t.Error("downloaded snapshot is empty")
	}
}

func TestManagerStopSafety(t *testing.T) {
	m, _ := setupBackupTest(t)
	m.cfg.Interval = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	m.Start(ctx)
	time.Sleep(50 * time.Millisecond)
	cancel()
	m.Stop()

	// Double stop should not panic
	m.Stop()

	_ = os.Remove(m.cfg.DBPath)
}
