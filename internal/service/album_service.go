package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/shutterdesk/shutterdesk-api/internal/dto"
	"github.com/shutterdesk/shutterdesk-api/internal/models"
	"github.com/shutterdesk/shutterdesk-api/internal/repository"
)

var (
	// ErrAlbumNotFound indicates the album does not exist.
	ErrAlbumNotFound = errors.New("album not found")
	// ErrAlbumForbidden indicates the actor does not own the album.
	ErrAlbumForbidden = errors.New("insufficient permissions for this album")
)

// AlbumService manages portfolio albums. Admins act on any album,
// photographers only on their own.
type AlbumService interface {
	List(ctx context.Context, actor Actor) (dto.AlbumListResponse, error)
	Get(ctx context.Context, actor Actor, id uint) (dto.AlbumDetailResponse, error)
	Create(ctx context.Context, actor Actor, payload dto.AlbumCreateRequest) (dto.AlbumResponse, error)
	Update(ctx context.Context, actor Actor, id uint, payload dto.AlbumUpdateRequest) (dto.AlbumResponse, error)
	Delete(ctx context.Context, actor Actor, id uint) error
	UploadCover(ctx context.Context, actor Actor, id uint, file *multipart.FileHeader) (dto.AlbumResponse, error)
	PublicDetail(ctx context.Context, id uint) (dto.AlbumDetailResponse, error)
}

type albumService struct {
	albums    repository.AlbumRepository
	photos    repository.PhotoRepository
	activity  ActivityRecorder
	media     *MediaStore
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewAlbumService constructs the album service.
func NewAlbumService(
	albums repository.AlbumRepository,
	photos repository.PhotoRepository,
	activity ActivityRecorder,
	media *MediaStore,
	validate *validator.Validate,
	logger zerolog.Logger,
) AlbumService {
	return &albumService{
		albums:    albums,
		photos:    photos,
		activity:  activity,
		media:     media,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "album_service").Logger(),
	}
}

func (s *albumService) List(ctx context.Context, actor Actor) (dto.AlbumListResponse, error) {
	var (
		albums []models.Album
		err    error
	)
	switch {
	case actor.IsAdmin():
		albums, err = s.albums.ListAll(ctx)
	case actor.IsPhotographer():
		albums, err = s.albums.ListByPhotographer(ctx, actor.ID)
	default:
		return dto.AlbumListResponse{}, ErrAlbumForbidden
	}
	if err != nil {
		return dto.AlbumListResponse{}, err
	}

	return dto.AlbumListResponse{Items: albumResponses(albums)}, nil
}

func (s *albumService) Get(ctx context.Context, actor Actor, id uint) (dto.AlbumDetailResponse, error) {
	album, err := s.getOwnedAlbum(ctx, actor, id)
	if err != nil {
		return dto.AlbumDetailResponse{}, err
	}

	photos, err := s.photos.ListByAlbum(ctx, album.ID)
	if err != nil {
		return dto.AlbumDetailResponse{}, err
	}

	return newAlbumDetail(album, photos), nil
}

func (s *albumService) Create(ctx context.Context, actor Actor, payload dto.AlbumCreateRequest) (dto.AlbumResponse, error) {
	if !actor.IsAdmin() && !actor.IsPhotographer() {
		return dto.AlbumResponse{}, ErrAlbumForbidden
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.AlbumResponse{}, err
	}

	// Admins may file an album under another photographer; photographers
	// always own what they create.
	photographerID := actor.ID
	if actor.IsAdmin() && payload.PhotographerID != 0 {
		photographerID = payload.PhotographerID
	}

	album := models.Album{
		Title:          s.sanitizer.Sanitize(strings.TrimSpace(payload.Title)),
		Description:    s.sanitizer.Sanitize(strings.TrimSpace(payload.Description)),
		PhotographerID: photographerID,
	}
	if payload.IsPublic != nil {
		album.IsPublic = *payload.IsPublic
	}

	if err := s.albums.Create(ctx, &album); err != nil {
		return dto.AlbumResponse{}, err
	}

	s.audit(ctx, actor, models.ActionCreate, album, fmt.Sprintf(
		"%s %s created album %q (ID %d).", actor.RoleLabel(), actor.DisplayName(), album.Title, album.ID))

	return dto.NewAlbumResponse(album), nil
}

func (s *albumService) Update(ctx context.Context, actor Actor, id uint, payload dto.AlbumUpdateRequest) (dto.AlbumResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AlbumResponse{}, err
	}

	album, err := s.getOwnedAlbum(ctx, actor, id)
	if err != nil {
		return dto.AlbumResponse{}, err
	}

	if payload.Title != nil {
		album.Title = s.sanitizer.Sanitize(strings.TrimSpace(*payload.Title))
	}
	if payload.Description != nil {
		album.Description = s.sanitizer.Sanitize(strings.TrimSpace(*payload.Description))
	}
	if payload.IsPublic != nil {
		album.IsPublic = *payload.IsPublic
	}

	if err := s.albums.Update(ctx, &album); err != nil {
		return dto.AlbumResponse{}, err
	}

	s.audit(ctx, actor, models.ActionUpdate, album, fmt.Sprintf(
		"%s %s updated album %q (ID %d).", actor.RoleLabel(), actor.DisplayName(), album.Title, album.ID))

	return dto.NewAlbumResponse(album), nil
}

// Delete removes the album and all of its photos.
func (s *albumService) Delete(ctx context.Context, actor Actor, id uint) error {
	album, err := s.getOwnedAlbum(ctx, actor, id)
	if err != nil {
		return err
	}

	photos, err := s.photos.ListByAlbum(ctx, album.ID)
	if err != nil {
		return err
	}

	if err := s.albums.DeleteWithPhotos(ctx, album.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAlbumNotFound
		}
		return err
	}

	if s.media != nil {
		s.media.Remove(ctx, album.CoverImagePath)
		for _, photo := range photos {
			s.media.Remove(ctx, photo.StoragePath)
			s.media.Remove(ctx, photo.ThumbnailPath)
		}
	}

	s.audit(ctx, actor, models.ActionDelete, album, fmt.Sprintf(
		"%s %s deleted album %q (ID %d).", actor.RoleLabel(), actor.DisplayName(), album.Title, album.ID))

	return nil
}

// UploadCover validates and stores a new cover image, replacing any previous
// one.
func (s *albumService) UploadCover(ctx context.Context, actor Actor, id uint, file *multipart.FileHeader) (dto.AlbumResponse, error) {
	album, err := s.getOwnedAlbum(ctx, actor, id)
	if err != nil {
		return dto.AlbumResponse{}, err
	}

	stored, err := s.media.StoreImage(ctx, "covers", file)
	if err != nil {
		return dto.AlbumResponse{}, err
	}

	previous := album.CoverImagePath
	album.CoverImagePath = stored
	if err := s.albums.Update(ctx, &album); err != nil {
		s.media.Remove(ctx, stored)
		return dto.AlbumResponse{}, err
	}
	s.media.Remove(ctx, previous)

	s.audit(ctx, actor, models.ActionUpdate, album, fmt.Sprintf(
		"%s %s updated the cover of album %q (ID %d).", actor.RoleLabel(), actor.DisplayName(), album.Title, album.ID))

	return dto.NewAlbumResponse(album), nil
}

// PublicDetail serves the unauthenticated album page: the album must be
// public and only its public photos are included.
func (s *albumService) PublicDetail(ctx context.Context, id uint) (dto.AlbumDetailResponse, error) {
	album, err := s.getAlbum(ctx, id)
	if err != nil {
		return dto.AlbumDetailResponse{}, err
	}
	if !album.IsPublic {
		return dto.AlbumDetailResponse{}, ErrAlbumNotFound
	}

	photos, err := s.photos.ListPublicByAlbum(ctx, album.ID)
	if err != nil {
		return dto.AlbumDetailResponse{}, err
	}

	return newAlbumDetail(album, photos), nil
}

func (s *albumService) getAlbum(ctx context.Context, id uint) (models.Album, error) {
	album, err := s.albums.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Album{}, ErrAlbumNotFound
		}
		return models.Album{}, err
	}
	return album, nil
}

// getOwnedAlbum loads an album and enforces the ownership policy: admins pass
// always, photographers only for their own albums.
func (s *albumService) getOwnedAlbum(ctx context.Context, actor Actor, id uint) (models.Album, error) {
	album, err := s.getAlbum(ctx, id)
	if err != nil {
		return models.Album{}, err
	}
	if actor.IsAdmin() {
		return album, nil
	}
	if !actor.IsPhotographer() || album.PhotographerID != actor.ID {
		return models.Album{}, ErrAlbumForbidden
	}
	return album, nil
}

func (s *albumService) audit(ctx context.Context, actor Actor, action string, album models.Album, description string) {
	if s.activity == nil {
		return
	}
	albumID := album.ID
	_ = s.activity.Record(ctx, ActivityEntry{
		Actor:       actor,
		Action:      action,
		EntityType:  models.EntityAlbum,
		EntityID:    &albumID,
		Description: description,
	})
}

func albumResponses(albums []models.Album) []dto.AlbumResponse {
	responses := make([]dto.AlbumResponse, 0, len(albums))
	for _, album := range albums {
		responses = append(responses, dto.NewAlbumResponse(album))
	}
	return responses
}

func newAlbumDetail(album models.Album, photos []models.Photo) dto.AlbumDetailResponse {
	detail := dto.AlbumDetailResponse{
		Album:  dto.NewAlbumResponse(album),
		Photos: make([]dto.PhotoResponse, 0, len(photos)),
	}
	for _, photo := range photos {
		detail.Photos = append(detail.Photos, dto.NewPhotoResponse(photo))
	}
	return detail
}
