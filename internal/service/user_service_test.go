package service_test

import (
	"context"
	"io"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shutterdesk/shutterdesk-api/internal/dto"
	"github.com/shutterdesk/shutterdesk-api/internal/models"
	"github.com/shutterdesk/shutterdesk-api/internal/repository"
	"github.com/shutterdesk/shutterdesk-api/internal/service"
)

func newUserService(t *testing.T) (service.UserService, *gorm.DB, *activityCapture) {
	t.Helper()
	db := setupTestDB(t)
	activity := &activityCapture{}
	svc := service.NewUserService(
		repository.NewUserRepository(db),
		activity,
		validator.New(validator.WithRequiredStructEnabled()),
		zerolog.New(io.Discard),
	)
	return svc, db, activity
}

func TestUserServiceManagementIsAdminOnly(t *testing.T) {
	svc, db, _ := newUserService(t)
	ctx := context.Background()

	photographer := createUser(t, db, "lena", models.RoleSet{models.RolePhotographer}, true)

	_, err := svc.List(ctx, actorFor(photographer), 1, 20, "")
	require.ErrorIs(t, err, service.ErrUserForbidden)

	_, err = svc.Create(ctx, actorFor(photographer), dto.UserCreateRequest{
		Username: "newbie", Email: "newbie@example.com", Password: "secret-pass", Role: "client",
	})
	require.ErrorIs(t, err, service.ErrUserForbidden)

	err = svc.Delete(ctx, actorFor(photographer), photographer.ID)
	require.ErrorIs(t, err, service.ErrUserForbidden)
}

func TestUserServiceCreateAudits(t *testing.T) {
	svc, db, activity := newUserService(t)
	ctx := context.Background()

	admin := createUser(t, db, "root", models.RoleSet{models.RoleAdmin}, true)

	response, err := svc.Create(ctx, actorFor(admin), dto.UserCreateRequest{
		Username: "newbie", Email: "newbie@example.com", Password: "secret-pass", Role: "photographer",
	})
	require.NoError(t, err)
	require.Equal(t, "newbie", response.Username)
	require.Equal(t, "photographer", response.PrimaryRole)
	require.True(t, response.IsActive)

	require.Equal(t, []string{models.ActionCreate}, activity.actions())
	require.Equal(t, models.EntityUser, activity.entries[0].EntityType)
}

func TestUserServiceUpdateAuditsFieldChanges(t *testing.T) {
	svc, db, activity := newUserService(t)
	ctx := context.Background()

	admin := createUser(t, db, "root", models.RoleSet{models.RoleAdmin}, true)
	subject := createUser(t, db, "marco", models.RoleSet{models.RoleClient}, true)

	username := "marco-renamed"
	response, err := svc.Update(ctx, actorFor(admin), subject.ID, dto.UserUpdateRequest{Username: &username})
	require.NoError(t, err)
	require.Equal(t, "marco-renamed", response.Username)
	require.Equal(t, []string{models.ActionUpdate}, activity.actions())
}

func TestUserServiceUpdateIgnoresWhitespaceOnlyChanges(t *testing.T) {
	svc, db, activity := newUserService(t)
	ctx := context.Background()

	admin := createUser(t, db, "root", models.RoleSet{models.RoleAdmin}, true)
	subject := createUser(t, db, "marco", models.RoleSet{models.RoleClient}, true)

	// Padding around an unchanged value is not a change and writes no audit entry.
	username := "  marco  "
	response, err := svc.Update(ctx, actorFor(admin), subject.ID, dto.UserUpdateRequest{
		Username: &username,
	})
	require.NoError(t, err)
	require.Equal(t, "marco", response.Username)
	require.Empty(t, activity.entries)
}

func TestUserServiceActiveOnlyUpdateSkipsGenericAudit(t *testing.T) {
	svc, db, activity := newUserService(t)
	ctx := context.Background()

	admin := createUser(t, db, "root", models.RoleSet{models.RoleAdmin}, true)
	subject := createUser(t, db, "marco", models.RoleSet{models.RoleClient}, true)

	inactive := false
	response, err := svc.Update(ctx, actorFor(admin), subject.ID, dto.UserUpdateRequest{IsActive: &inactive})
	require.NoError(t, err)
	require.False(t, response.IsActive)

	// The activation flag alone never produces a generic UPDATE entry.
	require.Empty(t, activity.entries)
}

func TestUserServiceSetActiveWritesSingleEntry(t *testing.T) {
	svc, db, activity := newUserService(t)
	ctx := context.Background()

	admin := createUser(t, db, "root", models.RoleSet{models.RoleAdmin}, true)
	subject := createUser(t, db, "marco", models.RoleSet{models.RoleClient}, true)

	response, err := svc.SetActive(ctx, actorFor(admin), subject.ID, false)
	require.NoError(t, err)
	require.False(t, response.IsActive)
	require.Equal(t, []string{models.ActionDisable}, activity.actions())

	response, err = svc.SetActive(ctx, actorFor(admin), subject.ID, true)
	require.NoError(t, err)
	require.True(t, response.IsActive)
	require.Equal(t, []string{models.ActionDisable, models.ActionEnable}, activity.actions())

	_, err = svc.SetActive(ctx, actorFor(admin), 9999, false)
	require.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestUserServiceProfileUpdateByNonAdminIsNotAudited(t *testing.T) {
	svc, db, activity := newUserService(t)
	ctx := context.Background()

	client := createUser(t, db, "marco", models.RoleSet{models.RoleClient}, true)

	email := "marco-new@example.com"
	response, err := svc.UpdateProfile(ctx, actorFor(client), dto.ProfileUpdateRequest{Email: &email})
	require.NoError(t, err)
	require.Equal(t, email, response.Email)
	require.Empty(t, activity.entries)
}

func TestUserServiceDeleteAudits(t *testing.T) {
	svc, db, activity := newUserService(t)
	ctx := context.Background()

	admin := createUser(t, db, "root", models.RoleSet{models.RoleAdmin}, true)
	subject := createUser(t, db, "marco", models.RoleSet{models.RoleClient}, true)

	require.NoError(t, svc.Delete(ctx, actorFor(admin), subject.ID))
	require.Equal(t, []string{models.ActionDelete}, activity.actions())

	_, err := svc.Get(ctx, actorFor(admin), subject.ID)
	require.ErrorIs(t, err, service.ErrUserNotFound)
}
