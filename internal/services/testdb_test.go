package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/DivaAnanda/accenprove-sub001/internal/models"
)

// openTestDB creates a SQLite in-memory DB unique per test and applies a busy
// timeout and WAL journal mode to reduce locking during parallel tests.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsnName := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_journal_mode=WAL&_busy_timeout=5000", dsnName)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.AuditLog{},
		&models.BeritaAcara{},
		&models.Setting{},
		&models.Notification{},
		&models.NotificationProvider{},
	))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email, role, password string) *models.User {
	t.Helper()
	user := models.User{
		Email:     email,
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
		IsActive:  true,
	}
	require.NoError(t, user.SetPassword(password))
	require.NoError(t, db.Create(&user).Error)
	return &user
}
