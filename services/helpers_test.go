package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"mediacms/config"
	"mediacms/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// --- Test helpers ---

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	return db
}

func newTestServices(t *testing.T, deps Deps) (*Services, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	if deps.Storage == nil {
		deps.Storage = newMemStorage()
	}
	return New(db, deps), db
}

func mustCategory(t *testing.T, svc *Services, in CategoryInput) *models.Category {
	t.Helper()
	c, err := svc.Taxonomy.CreateCategory(context.Background(), in)
	require.NoError(t, err)
	return c
}

func mustVideo(t *testing.T, svc *Services, title string) *models.Video {
	t.Helper()
	v, err := svc.Videos.CreateVideo(context.Background(), VideoInput{Title: title})
	require.NoError(t, err)
	return v
}

func uintPtr(v uint) *uint { return &v }

func strPtr(v string) *string { return &v }

func boolPtr(v bool) *bool { return &v }

// --- Mock implementations ---

type failingDescriber struct{}

func (failingDescriber) Describe(context.Context, string, string) (string, error) {
	return "", &DependencyError{Service: "ai", Err: errors.New("timeout")}
}

type staticDescriber struct {
	calls int
}

func (d *staticDescriber) Describe(_ context.Context, name, role string) (string, error) {
	d.calls++
	return name + "/" + role, nil
}

// memStorage 内存存储，记录保存和删除
type memStorage struct {
	mu      sync.Mutex
	files   map[string]string
	deleted []string
	saveErr error
}

func newMemStorage() *memStorage {
	return &memStorage{files: map[string]string{}}
}

func (m *memStorage) Save(_ context.Context, folder, filename, _ string, r io.Reader) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := storageKey(folder, filename)
	m.files[key] = string(data)
	return key, nil
}

func (m *memStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, key)
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *memStorage) URL(key string) string {
	return "/media/" + key
}

func uploadOf(name, contentType string, size int64) UploadFile {
	return UploadFile{
		Filename:    name,
		ContentType: contentType,
		Size:        size,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader("data")), nil
		},
	}
}
