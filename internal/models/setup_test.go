package models_test

import (
	"os"
	"path/filepath"
	"testing"

	"warbler/backend/internal/config"
	"warbler/backend/internal/database"
	"warbler/backend/internal/logger"
	"warbler/backend/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupDB returns an empty, migrated database. TEST_DATABASE_URL points the
// tests at a postgres instance; otherwise a throwaway sqlite file is used.
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		url = "sqlite://" + filepath.Join(t.TempDir(), "warbler-test.db")
	}

	log := logger.New("warn", "text")
	db, err := database.Open(config.Config{DatabaseURL: url}, log)
	require.NoError(t, err)

	require.NoError(t, db.Migrator().DropTable(&models.Like{}, &models.Follows{}, &models.Message{}, &models.User{}))
	require.NoError(t, database.Migrate(db, log))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

var (
	user1 = map[string]string{"email": "test1@test.com", "username": "testuser1", "password": "HASHED_PASSWORD"}
	user2 = map[string]string{"email": "test2@test.com", "username": "testuser2", "password": "HASHED_PASSWORD"}
)

func signup(t *testing.T, db *gorm.DB, fields map[string]string) *models.User {
	t.Helper()
	u, err := models.Signup(db, fields["username"], fields["email"], fields["password"], "")
	require.NoError(t, err)
	return u
}

func count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
