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

func newPhotoService(t *testing.T) (service.PhotoService, *gorm.DB, *activityCapture, *memoryStorage) {
	t.Helper()
	db := setupTestDB(t)
	activity := &activityCapture{}
	storage := &memoryStorage{}
	svc := service.NewPhotoService(
		repository.NewPhotoRepository(db),
		repository.NewAlbumRepository(db),
		activity,
		service.NewMediaStore(storage, 10, zerolog.New(io.Discard)),
		validator.New(validator.WithRequiredStructEnabled()),
		zerolog.New(io.Discard),
	)
	return svc, db, activity, storage
}

func createAlbum(t *testing.T, db *gorm.DB, photographerID uint, title string) models.Album {
	t.Helper()
	album := models.Album{Title: title, PhotographerID: photographerID, IsPublic: true}
	require.NoError(t, db.Create(&album).Error)
	return album
}

func TestPhotoServiceCreateStoresThumbnailCopy(t *testing.T) {
	svc, db, activity, storage := newPhotoService(t)
	ctx := context.Background()

	lena := createUser(t, db, "lena", models.RoleSet{models.RolePhotographer}, true)
	album := createAlbum(t, db, lena.ID, "Harbour")

	response, err := svc.Create(ctx, actorFor(lena), dto.PhotoCreateRequest{
		AlbumID: album.ID,
		Title:   "Pier at <b>dawn</b>",
	}, multipartFile(t, "pier.png", pngPayload(64)))
	require.NoError(t, err)
	require.Equal(t, "Pier at dawn", response.Title)
	require.Equal(t, album.ID, response.AlbumID)
	require.Contains(t, response.StoragePath, "photos/")
	require.Contains(t, response.ThumbnailPath, "thumbnails/")
	require.Equal(t, storage.files[response.StoragePath], storage.files[response.ThumbnailPath])

	require.Equal(t, []string{models.ActionCreate}, activity.actions())
	require.Equal(t, models.EntityPhoto, activity.entries[0].EntityType)
}

func TestPhotoServiceCreateRequiresAlbumOwnership(t *testing.T) {
	svc, db, _, storage := newPhotoService(t)
	ctx := context.Background()

	lena := createUser(t, db, "lena", models.RoleSet{models.RolePhotographer}, true)
	nils := createUser(t, db, "nils", models.RoleSet{models.RolePhotographer}, true)
	album := createAlbum(t, db, lena.ID, "Harbour")

	_, err := svc.Create(ctx, actorFor(nils), dto.PhotoCreateRequest{AlbumID: album.ID},
		multipartFile(t, "pier.png", pngPayload(64)))
	require.ErrorIs(t, err, service.ErrAlbumForbidden)
	require.Empty(t, storage.files)
}

func TestPhotoServiceMoveRequiresDestinationOwnership(t *testing.T) {
	svc, db, _, _ := newPhotoService(t)
	ctx := context.Background()

	lena := createUser(t, db, "lena", models.RoleSet{models.RolePhotographer}, true)
	nils := createUser(t, db, "nils", models.RoleSet{models.RolePhotographer}, true)
	source := createAlbum(t, db, lena.ID, "Source")
	foreign := createAlbum(t, db, nils.ID, "Foreign")
	mine := createAlbum(t, db, lena.ID, "Mine")

	photo := models.Photo{Title: "Pier", StoragePath: "photos/a", ThumbnailPath: "thumbnails/a", AlbumID: source.ID}
	require.NoError(t, db.Create(&photo).Error)

	_, err := svc.Update(ctx, actorFor(lena), photo.ID, dto.PhotoUpdateRequest{AlbumID: &foreign.ID})
	require.ErrorIs(t, err, service.ErrAlbumForbidden)

	response, err := svc.Update(ctx, actorFor(lena), photo.ID, dto.PhotoUpdateRequest{AlbumID: &mine.ID})
	require.NoError(t, err)
	require.Equal(t, mine.ID, response.AlbumID)
}

func TestPhotoServiceDeleteRemovesStoredFiles(t *testing.T) {
	svc, db, activity, storage := newPhotoService(t)
	ctx := context.Background()

	lena := createUser(t, db, "lena", models.RoleSet{models.RolePhotographer}, true)
	album := createAlbum(t, db, lena.ID, "Harbour")
	photo := models.Photo{Title: "Pier", StoragePath: "photos/a.png", ThumbnailPath: "thumbnails/a.png", AlbumID: album.ID}
	require.NoError(t, db.Create(&photo).Error)

	require.NoError(t, svc.Delete(ctx, actorFor(lena), photo.ID))
	require.ElementsMatch(t, []string{"photos/a.png", "thumbnails/a.png"}, storage.removed)
	require.Equal(t, []string{models.ActionDelete}, activity.actions())

	err := svc.Delete(ctx, actorFor(lena), photo.ID)
	require.ErrorIs(t, err, service.ErrPhotoNotFound)
}

func TestPhotoServiceFeedReturnsOnlyPublicPhotos(t *testing.T) {
	svc, db, _, _ := newPhotoService(t)
	ctx := context.Background()

	lena := createUser(t, db, "lena", models.RoleSet{models.RolePhotographer}, true)
	album := createAlbum(t, db, lena.ID, "Harbour")
	require.NoError(t, db.Create(&models.Photo{
		Title: "Shown", StoragePath: "photos/a", ThumbnailPath: "thumbnails/a", AlbumID: album.ID, IsPublic: true,
	}).Error)
	require.NoError(t, db.Create(&models.Photo{
		Title: "Hidden", StoragePath: "photos/b", ThumbnailPath: "thumbnails/b", AlbumID: album.ID, IsPublic: false,
	}).Error)

	feed, err := svc.Feed(ctx, 10)
	require.NoError(t, err)
	require.Len(t, feed.Items, 1)
	require.Equal(t, "Shown", feed.Items[0].Title)
}
