package maintenance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	iauth "github.com/avereen/studylog/internal/auth"
	"github.com/avereen/studylog/internal/cache"
	"github.com/avereen/studylog/internal/database/testutil"
	"github.com/avereen/studylog/internal/models"
)

func TestCleanerRunOnce(t *testing.T) {
	db := testutil.MustOpenTestDB(t)

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	jwtSvc, err := iauth.NewJWTService(iauth.JWTConfig{
		Secret:         "cleanup-secret-cleanup-secret!!!",
		Issuer:         "test-suite",
		AccessTokenTTL: time.Hour,
	})
	require.NoError(t, err)

	sessionSvc, err := iauth.NewSessionService(db, jwtSvc, iauth.SessionConfig{
		RefreshTokenTTL: time.Hour,
		RefreshLength:   16,
		Clock:           func() time.Time { return now },
	})
	require.NoError(t, err)

	account := seedAccount(t, db)

	_, expiredSession, err := sessionSvc.CreateSession(account.ID, iauth.SessionMetadata{})
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.Session{}).Where("id = ?", expiredSession.ID).
		Update("expires_at", now.Add(-2*time.Hour)).Error)

	_, activeSession, err := sessionSvc.CreateSession(account.ID, iauth.SessionMetadata{})
	require.NoError(t, err)

	_, revokedSession, err := sessionSvc.CreateSession(account.ID, iauth.SessionMetadata{})
	require.NoError(t, err)
	require.NoError(t, sessionSvc.RevokeSession(revokedSession.ID))

	store := cache.NewDatabaseStore(db)
	staleKey := "cleanup-stale-" + uuid.NewString()
	liveKey := "cleanup-live-" + uuid.NewString()
	pinnedKey := "cleanup-pinned-" + uuid.NewString()

	require.NoError(t, db.Create(&models.CacheEntry{
		Key:       staleKey,
		Value:     []byte("stale"),
		ExpiresAt: now.Add(-time.Minute),
	}).Error)
	require.NoError(t, db.Create(&models.CacheEntry{
		Key:       liveKey,
		Value:     []byte("live"),
		ExpiresAt: now.Add(time.Hour),
	}).Error)
	require.NoError(t, db.Create(&models.CacheEntry{
		Key:   pinnedKey,
		Value: []byte("pinned"),
	}).Error)

	c := NewCleaner(sessionSvc, store,
		WithNow(func() time.Time { return now }),
		WithCron(cron.New(cron.WithLogger(cron.DiscardLogger))),
	)

	require.NoError(t, c.RunOnce(context.Background()))

	assertSessionGone := func(id string) {
		var s models.Session
		err := db.First(&s, "id = ?", id).Error
		require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	}

	assertSessionGone(expiredSession.ID)
	assertSessionGone(revokedSession.ID)

	var remaining models.Session
	require.NoError(t, db.First(&remaining, "id = ?", activeSession.ID).Error)

	var staleEntry models.CacheEntry
	err = db.First(&staleEntry, "key = ?", staleKey).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	var liveEntry models.CacheEntry
	require.NoError(t, db.First(&liveEntry, "key = ?", liveKey).Error)
	var pinnedEntry models.CacheEntry
	require.NoError(t, db.First(&pinnedEntry, "key = ?", pinnedKey).Error)
}

func TestCleanerStartAndStop(t *testing.T) {
	db := testutil.MustOpenTestDB(t)

	jwtSvc, err := iauth.NewJWTService(iauth.JWTConfig{
		Secret:         "cleanup-secret-cleanup-secret!!!",
		Issuer:         "test-suite",
		AccessTokenTTL: time.Hour,
	})
	require.NoError(t, err)

	sessionSvc, err := iauth.NewSessionService(db, jwtSvc, iauth.SessionConfig{})
	require.NoError(t, err)

	c := NewCleaner(sessionSvc, cache.NewDatabaseStore(db),
		WithSessionSchedule("@every 1h"),
		WithCacheSchedule("@every 1h"),
	)

	require.NoError(t, c.Start())

	done := c.Stop()
	select {
	case <-done.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("expected scheduler to stop promptly")
	}
}

func TestCleanerWithoutDependencies(t *testing.T) {
	c := NewCleaner(nil, nil)

	require.NoError(t, c.Start())
	require.NoError(t, c.RunOnce(context.Background()))
	c.Stop()
}

func TestCleanerRejectsBadSchedule(t *testing.T) {
	db := testutil.MustOpenTestDB(t)

	jwtSvc, err := iauth.NewJWTService(iauth.JWTConfig{
		Secret:         "cleanup-secret-cleanup-secret!!!",
		Issuer:         "test-suite",
		AccessTokenTTL: time.Hour,
	})
	require.NoError(t, err)

	sessionSvc, err := iauth.NewSessionService(db, jwtSvc, iauth.SessionConfig{})
	require.NoError(t, err)

	c := NewCleaner(sessionSvc, nil, WithSessionSchedule("not-a-schedule"))
	require.Error(t, c.Start())
}

func seedAccount(t *testing.T, db *gorm.DB) *models.Account {
	t.Helper()

	account := &models.Account{Email: "cleanup-" + uuid.NewString() + "@example.com"}
	require.NoError(t, db.Create(account).Error)
	return account
}
