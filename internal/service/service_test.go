package service

import (
	"testing"

	"chirper/backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// A second pooled connection would see its own empty in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Follow{}, &models.Tweet{}, &models.Like{}, &models.Retweet{},
	))

	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createTweet(t *testing.T, db *gorm.DB, author *models.User, content string) *models.Tweet {
	t.Helper()

	tweet := models.Tweet{Content: content, UserID: author.ID}
	require.NoError(t, db.Create(&tweet).Error)
	return &tweet
}

// discardImages satisfies ImageRemover for tests that don't care about blobs.
type discardImages struct{}

func (discardImages) Remove(kind, name string) error { return nil }

func rowCount(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(model).Count(&count).Error)
	return count
}
