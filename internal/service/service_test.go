package service_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shutterdesk/shutterdesk-api/internal/models"
	"github.com/shutterdesk/shutterdesk-api/internal/service"
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

func createUser(t *testing.T, db *gorm.DB, username string, roles models.RoleSet, active bool) models.User {
	t.Helper()
	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		IsActive:     active,
		Roles:        roles,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func actorFor(user models.User) service.Actor {
	return service.ActorFromUser(user)
}

// activityCapture records audit entries in memory.
type activityCapture struct {
	entries []service.ActivityEntry
}

func (c *activityCapture) Record(_ context.Context, entry service.ActivityEntry) error {
	c.entries = append(c.entries, entry)
	return nil
}

func (c *activityCapture) actions() []string {
	actions := make([]string, 0, len(c.entries))
	for _, entry := range c.entries {
		actions = append(actions, entry.Action)
	}
	return actions
}

// eventCapture records published booking event verbs in memory.
type eventCapture struct {
	verbs []string
}

func (c *eventCapture) Publish(_ context.Context, verb string, _ models.Booking) {
	c.verbs = append(c.verbs, verb)
}
