package service_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shutterdesk/shutterdesk-api/internal/dto"
	"github.com/shutterdesk/shutterdesk-api/internal/models"
	"github.com/shutterdesk/shutterdesk-api/internal/repository"
	"github.com/shutterdesk/shutterdesk-api/internal/service"
)

const testSecret = "test-secret"

func newAuthService(t *testing.T) (service.AuthService, *gorm.DB, *activityCapture) {
	t.Helper()
	db := setupTestDB(t)
	activity := &activityCapture{}
	svc := service.NewAuthService(
		repository.NewUserRepository(db),
		activity,
		validator.New(validator.WithRequiredStructEnabled()),
		testSecret,
		time.Hour,
		zerolog.New(io.Discard),
	)
	return svc, db, activity
}

func createCredentialedUser(t *testing.T, db *gorm.DB, username, password string, active bool) models.User {
	t.Helper()
	hash, err := service.HashPassword(password)
	require.NoError(t, err)
	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		IsActive:     active,
		Roles:        models.RoleSet{models.RolePhotographer},
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	svc, db, activity := newAuthService(t)
	ctx := context.Background()

	user := createCredentialedUser(t, db, "lena", "correct horse", true)

	response, err := svc.Login(ctx, dto.LoginRequest{Username: "lena", Password: "correct horse"})
	require.NoError(t, err)
	require.NotEmpty(t, response.Token)
	require.Equal(t, user.ID, response.User.ID)
	require.Contains(t, response.User.Roles, "photographer")

	token, err := jwt.Parse(response.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	require.Equal(t, "lena", claims["username"])
	require.Equal(t, float64(user.ID), claims["sub"])

	require.Equal(t, []string{models.ActionLogin}, activity.actions())
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	svc, db, activity := newAuthService(t)
	ctx := context.Background()

	createCredentialedUser(t, db, "lena", "correct horse", true)

	_, err := svc.Login(ctx, dto.LoginRequest{Username: "lena", Password: "battery staple"})
	require.ErrorIs(t, err, service.ErrInvalidCredentials)
	require.Empty(t, activity.entries)
}

func TestAuthServiceLoginUnknownUser(t *testing.T) {
	svc, _, _ := newAuthService(t)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "ghost", Password: "whatever"})
	require.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestAuthServiceLoginDisabledAccount(t *testing.T) {
	svc, db, _ := newAuthService(t)
	ctx := context.Background()

	createCredentialedUser(t, db, "lena", "correct horse", false)

	_, err := svc.Login(ctx, dto.LoginRequest{Username: "lena", Password: "correct horse"})
	require.ErrorIs(t, err, service.ErrAccountDisabled)
}

func TestAuthServiceLogoutAudits(t *testing.T) {
	svc, _, activity := newAuthService(t)

	actor := service.Actor{ID: 7, Username: "lena", Roles: models.RoleSet{models.RolePhotographer}}
	require.NoError(t, svc.Logout(context.Background(), actor))
	require.Equal(t, []string{models.ActionLogout}, activity.actions())
}
