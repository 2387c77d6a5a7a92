package repositories

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/rudro-dev/loopgram/backend/internal/models"
)

// setupTestDB opens a per-test in-memory SQLite database with the full
// relational schema migrated.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.SavedContent{},
		&models.Conversation{},
		&models.Message{},
		&models.Notification{},
	))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, userName string) *models.User {
	t.Helper()

	user := &models.User{
		Name:     "Test " + userName,
		UserName: userName,
		Email:    userName + "@example.com",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}
