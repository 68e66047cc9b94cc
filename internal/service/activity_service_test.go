package service_test

import (
	"context"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/shutterdesk/shutterdesk-api/internal/dto"
	"github.com/shutterdesk/shutterdesk-api/internal/models"
	"github.com/shutterdesk/shutterdesk-api/internal/repository"
	"github.com/shutterdesk/shutterdesk-api/internal/service"
)

func newActivityService(t *testing.T) service.ActivityService {
	t.Helper()
	db := setupTestDB(t)
	return service.NewActivityService(repository.NewActivityLogRepository(db), zerolog.New(io.Discard))
}

func TestActivityServiceRecordSnapshotsActor(t *testing.T) {
	svc := newActivityService(t)
	ctx := context.Background()

	entityID := uint(42)
	actor := service.Actor{
		ID:       7,
		Username: "lena",
		Roles:    models.RoleSet{models.RolePhotographer, models.RoleAdmin},
	}
	err := svc.Record(ctx, service.ActivityEntry{
		Actor:       actor,
		Action:      "accept",
		EntityType:  "booking",
		EntityID:    &entityID,
		Description: "Photographer lena accepted booking 42.",
	})
	require.NoError(t, err)

	list, err := svc.List(ctx, dto.ActivityLogListRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)

	entry := list.Items[0]
	require.Equal(t, "lena", entry.Username)
	require.Equal(t, "Admin", entry.Role)
	require.Equal(t, models.ActionAccept, entry.Action)
	require.Equal(t, models.EntityBooking, entry.EntityType)
	require.NotNil(t, entry.EntityID)
	require.Equal(t, entityID, *entry.EntityID)
}

func TestActivityServiceRecordMasksSensitiveMetadata(t *testing.T) {
	svc := newActivityService(t)
	ctx := context.Background()

	err := svc.Record(ctx, service.ActivityEntry{
		Actor:      service.Actor{ID: 1, Username: "root", Roles: models.RoleSet{models.RoleAdmin}},
		Action:     models.ActionUpdate,
		EntityType: models.EntityUser,
		Metadata: map[string]interface{}{
			"new_password":  "hunter2",
			"refresh_token": "abc",
			"field":         "email",
		},
	})
	require.NoError(t, err)

	list, err := svc.List(ctx, dto.ActivityLogListRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)

	metadata := list.Items[0].Metadata
	require.Equal(t, "***", metadata["new_password"])
	require.Equal(t, "***", metadata["refresh_token"])
	require.Equal(t, "email", metadata["field"])
}

func TestActivityServiceRecordRequiresActionAndEntity(t *testing.T) {
	svc := newActivityService(t)
	ctx := context.Background()

	err := svc.Record(ctx, service.ActivityEntry{EntityType: models.EntityUser})
	require.Error(t, err)

	err = svc.Record(ctx, service.ActivityEntry{Action: models.ActionLogin})
	require.Error(t, err)
}

func TestActivityServiceListRejectsMalformedDates(t *testing.T) {
	svc := newActivityService(t)
	ctx := context.Background()

	_, err := svc.List(ctx, dto.ActivityLogListRequest{StartDate: "not-a-date"})
	require.ErrorIs(t, err, service.ErrInvalidDateFilter)

	_, err = svc.List(ctx, dto.ActivityLogListRequest{EndDate: "2026-13-99"})
	require.ErrorIs(t, err, service.ErrInvalidDateFilter)
}

func TestActivityServiceListPaginationMeta(t *testing.T) {
	svc := newActivityService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, svc.Record(ctx, service.ActivityEntry{
			Actor:      service.Actor{ID: 1, Username: "root", Roles: models.RoleSet{models.RoleAdmin}},
			Action:     models.ActionLogin,
			EntityType: models.EntityUser,
		}))
	}

	list, err := svc.List(ctx, dto.ActivityLogListRequest{Page: 2, PerPage: 2})
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	require.Equal(t, 2, list.Pagination.Page)
	require.Equal(t, int64(5), list.Pagination.TotalItems)
	require.Equal(t, 3, list.Pagination.TotalPages)
}
