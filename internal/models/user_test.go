package models_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shutterdesk/shutterdesk-api/internal/models"
)

func TestParseRoleSetDropsUnknownAndDuplicates(t *testing.T) {
	set := models.ParseRoleSet([]string{" Admin ", "photographer", "admin", "superuser", ""})

	require.Len(t, set, 2)
	require.True(t, set.Has(models.RoleAdmin))
	require.True(t, set.Has(models.RolePhotographer))
	require.False(t, set.Has(models.RoleClient))
}

func TestRoleSetPrimaryPrefersHighestPrivilege(t *testing.T) {
	require.Equal(t, models.RoleAdmin, models.RoleSet{models.RoleClient, models.RoleAdmin, models.RolePhotographer}.Primary())
	require.Equal(t, models.RolePhotographer, models.RoleSet{models.RoleClient, models.RolePhotographer}.Primary())
	require.Equal(t, models.RoleClient, models.RoleSet{}.Primary())
}

func TestRoleLabel(t *testing.T) {
	require.Equal(t, "Admin", models.RoleAdmin.Label())
	require.Equal(t, "Photographer", models.RolePhotographer.Label())
	require.Equal(t, "User", models.RoleClient.Label())
	require.Equal(t, "User", models.Role("").Label())
}

func TestUserDisplayNameFallsBackToEmail(t *testing.T) {
	user := models.User{Username: "lena", Email: "lena@example.com"}
	require.Equal(t, "lena", user.DisplayName())

	user.Username = "  "
	require.Equal(t, "lena@example.com", user.DisplayName())
}
