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
	// ErrPhotoNotFound indicates the photo does not exist.
	ErrPhotoNotFound = errors.New("photo not found")
	// ErrPhotoForbidden indicates the actor does not own the photo's album.
	ErrPhotoForbidden = errors.New("insufficient permissions for this photo")
)

// PhotoService manages photos inside albums. Ownership follows the album:
// a photo belongs to whoever owns its album.
type PhotoService interface {
	List(ctx context.Context, actor Actor) (dto.PhotoListResponse, error)
	Get(ctx context.Context, actor Actor, id uint) (dto.PhotoResponse, error)
	Create(ctx context.Context, actor Actor, payload dto.PhotoCreateRequest, file *multipart.FileHeader) (dto.PhotoResponse, error)
	Update(ctx context.Context, actor Actor, id uint, payload dto.PhotoUpdateRequest) (dto.PhotoResponse, error)
	Delete(ctx context.Context, actor Actor, id uint) error
	Feed(ctx context.Context, limit int) (dto.FeedResponse, error)
}

type photoService struct {
	photos    repository.PhotoRepository
	albums    repository.AlbumRepository
	activity  ActivityRecorder
	media     *MediaStore
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewPhotoService constructs the photo service.
func NewPhotoService(
	photos repository.PhotoRepository,
	albums repository.AlbumRepository,
	activity ActivityRecorder,
	media *MediaStore,
	validate *validator.Validate,
	logger zerolog.Logger,
) PhotoService {
	return &photoService{
		photos:    photos,
		albums:    albums,
		activity:  activity,
		media:     media,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "photo_service").Logger(),
	}
}

func (s *photoService) List(ctx context.Context, actor Actor) (dto.PhotoListResponse, error) {
	var (
		photos []models.Photo
		err    error
	)
	switch {
	case actor.IsAdmin():
		photos, err = s.photos.ListAll(ctx)
	case actor.IsPhotographer():
		photos, err = s.photos.ListByPhotographer(ctx, actor.ID)
	default:
		return dto.PhotoListResponse{}, ErrPhotoForbidden
	}
	if err != nil {
		return dto.PhotoListResponse{}, err
	}

	return dto.PhotoListResponse{Items: photoResponses(photos)}, nil
}

func (s *photoService) Get(ctx context.Context, actor Actor, id uint) (dto.PhotoResponse, error) {
	photo, _, err := s.getOwnedPhoto(ctx, actor, id)
	if err != nil {
		return dto.PhotoResponse{}, err
	}
	return dto.NewPhotoResponse(photo), nil
}

// Create validates and stores the uploaded image, writes its thumbnail copy,
// and records the photo in the target album. Validation happens before any
// byte is persisted.
func (s *photoService) Create(ctx context.Context, actor Actor, payload dto.PhotoCreateRequest, file *multipart.FileHeader) (dto.PhotoResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.PhotoResponse{}, err
	}

	album, err := s.getOwnedAlbum(ctx, actor, payload.AlbumID)
	if err != nil {
		return dto.PhotoResponse{}, err
	}

	stored, thumb, err := s.media.StoreImageWithThumbnail(ctx, file)
	if err != nil {
		return dto.PhotoResponse{}, err
	}

	photo := models.Photo{
		Title:         s.sanitizer.Sanitize(strings.TrimSpace(payload.Title)),
		Caption:       s.sanitizer.Sanitize(strings.TrimSpace(payload.Caption)),
		StoragePath:   stored,
		ThumbnailPath: thumb,
		AlbumID:       album.ID,
	}
	if payload.IsPublic != nil {
		photo.IsPublic = *payload.IsPublic
	}

	if err := s.photos.Create(ctx, &photo); err != nil {
		s.media.Remove(ctx, stored)
		s.media.Remove(ctx, thumb)
		return dto.PhotoResponse{}, err
	}

	s.audit(ctx, actor, models.ActionCreate, photo, fmt.Sprintf(
		"%s %s uploaded photo %d to album %q.", actor.RoleLabel(), actor.DisplayName(), photo.ID, album.Title))

	return dto.NewPhotoResponse(photo), nil
}

func (s *photoService) Update(ctx context.Context, actor Actor, id uint, payload dto.PhotoUpdateRequest) (dto.PhotoResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.PhotoResponse{}, err
	}

	photo, _, err := s.getOwnedPhoto(ctx, actor, id)
	if err != nil {
		return dto.PhotoResponse{}, err
	}

	if payload.Title != nil {
		photo.Title = s.sanitizer.Sanitize(strings.TrimSpace(*payload.Title))
	}
	if payload.Caption != nil {
		photo.Caption = s.sanitizer.Sanitize(strings.TrimSpace(*payload.Caption))
	}
	if payload.IsPublic != nil {
		photo.IsPublic = *payload.IsPublic
	}
	if payload.AlbumID != nil && *payload.AlbumID != photo.AlbumID {
		// Moving a photo requires ownership of the destination album too.
		target, err := s.getOwnedAlbum(ctx, actor, *payload.AlbumID)
		if err != nil {
			return dto.PhotoResponse{}, err
		}
		photo.AlbumID = target.ID
	}

	if err := s.photos.Update(ctx, &photo); err != nil {
		return dto.PhotoResponse{}, err
	}

	s.audit(ctx, actor, models.ActionUpdate, photo, fmt.Sprintf(
		"%s %s updated photo %d.", actor.RoleLabel(), actor.DisplayName(), photo.ID))

	return dto.NewPhotoResponse(photo), nil
}

func (s *photoService) Delete(ctx context.Context, actor Actor, id uint) error {
	photo, _, err := s.getOwnedPhoto(ctx, actor, id)
	if err != nil {
		return err
	}

	if err := s.photos.Delete(ctx, photo.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPhotoNotFound
		}
		return err
	}

	if s.media != nil {
		s.media.Remove(ctx, photo.StoragePath)
		s.media.Remove(ctx, photo.ThumbnailPath)
	}

	s.audit(ctx, actor, models.ActionDelete, photo, fmt.Sprintf(
		"%s %s deleted photo %d.", actor.RoleLabel(), actor.DisplayName(), photo.ID))

	return nil
}

// Feed is the public home feed: the most recent public photos.
func (s *photoService) Feed(ctx context.Context, limit int) (dto.FeedResponse, error) {
	photos, err := s.photos.PublicFeed(ctx, limit)
	if err != nil {
		return dto.FeedResponse{}, err
	}
	return dto.FeedResponse{Items: photoResponses(photos)}, nil
}

func (s *photoService) getOwnedPhoto(ctx context.Context, actor Actor, id uint) (models.Photo, models.Album, error) {
	photo, err := s.photos.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Photo{}, models.Album{}, ErrPhotoNotFound
		}
		return models.Photo{}, models.Album{}, err
	}

	album, err := s.albums.GetByID(ctx, photo.AlbumID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Photo{}, models.Album{}, ErrPhotoNotFound
		}
		return models.Photo{}, models.Album{}, err
	}

	if actor.IsAdmin() {
		return photo, album, nil
	}
	if !actor.IsPhotographer() || album.PhotographerID != actor.ID {
		return models.Photo{}, models.Album{}, ErrPhotoForbidden
	}
	return photo, album, nil
}

func (s *photoService) getOwnedAlbum(ctx context.Context, actor Actor, id uint) (models.Album, error) {
	album, err := s.albums.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Album{}, ErrAlbumNotFound
		}
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

func (s *photoService) audit(ctx context.Context, actor Actor, action string, photo models.Photo, description string) {
	if s.activity == nil {
		return
	}
	photoID := photo.ID
	_ = s.activity.Record(ctx, ActivityEntry{
		Actor:       actor,
		Action:      action,
		EntityType:  models.EntityPhoto,
		EntityID:    &photoID,
		Description: description,
	})
}

func photoResponses(photos []models.Photo) []dto.PhotoResponse {
	responses := make([]dto.PhotoResponse, 0, len(photos))
	for _, photo := range photos {
		responses = append(responses, dto.NewPhotoResponse(photo))
	}
	return responses
}
