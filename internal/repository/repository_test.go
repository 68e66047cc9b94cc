package repository_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shutterdesk/shutterdesk-api/internal/models"
)

// setupTestDB opens a per-test in-memory database so tests cannot leak rows
// into each other.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Album{},
		&models.Photo{},
		&models.Booking{},
		&models.BookingAttachment{},
		&models.ActivityLog{},
	))

	return db
}
