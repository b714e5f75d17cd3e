package services

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"omnisnt_backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.ChatMessage{},
		&models.UploadedFile{},
		&models.EmailLog{},
	))

	return db
}

var errSendFailed = errors.New("send failed")

// fakeEmailProvider records outbound mail instead of delivering it.
type fakeEmailProvider struct {
	mu      sync.Mutex
	sent    []fakeEmail
	failAll bool
}

type fakeEmail struct {
	To      string
	Kind    string
	Token   string
	Subject string
}

func (f *fakeEmailProvider) Send(to, subject, htmlBody string) error {
	return f.record(fakeEmail{To: to, Kind: "plain", Subject: subject})
}

func (f *fakeEmailProvider) SendVerification(to, token string) error {
	return f.record(fakeEmail{To: to, Kind: "verification", Token: token})
}

func (f *fakeEmailProvider) SendPasswordReset(to, token string) error {
	return f.record(fakeEmail{To: to, Kind: "reset", Token: token})
}

func (f *fakeEmailProvider) record(e fakeEmail) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return errSendFailed
	}
	f.sent = append(f.sent, e)
	return nil
}

func (f *fakeEmailProvider) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}
