package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/shutterdesk/shutterdesk-api/internal/dto"
	"github.com/shutterdesk/shutterdesk-api/internal/repository"
)

// DirectoryService serves the public photographer directory and the public
// albums of a single photographer.
type DirectoryService interface {
	Photographers(ctx context.Context) (dto.PhotographerDirectoryResponse, error)
	PublicAlbums(ctx context.Context, photographerID uint) (dto.AlbumListResponse, error)
}

type directoryService struct {
	users  repository.UserRepository
	albums repository.AlbumRepository
	photos repository.PhotoRepository
	logger zerolog.Logger
}

// NewDirectoryService constructs the directory service.
func NewDirectoryService(users repository.UserRepository, albums repository.AlbumRepository, photos repository.PhotoRepository, logger zerolog.Logger) DirectoryService {
	return &directoryService{
		users:  users,
		albums: albums,
		photos: photos,
		logger: logger.With().Str("component", "directory_service").Logger(),
	}
}

// Photographers lists active photographers with their portfolio counts.
func (s *directoryService) Photographers(ctx context.Context) (dto.PhotographerDirectoryResponse, error) {
	photographers, err := s.users.ListPhotographers(ctx)
	if err != nil {
		return dto.PhotographerDirectoryResponse{}, err
	}

	items := make([]dto.PhotographerSummary, 0, len(photographers))
	for _, photographer := range photographers {
		albums, err := s.albums.CountByPhotographer(ctx, photographer.ID)
		if err != nil {
			return dto.PhotographerDirectoryResponse{}, err
		}
		photos, err := s.photos.CountByPhotographer(ctx, photographer.ID)
		if err != nil {
			return dto.PhotographerDirectoryResponse{}, err
		}
		items = append(items, dto.PhotographerSummary{
			ID:          photographer.ID,
			Username:    photographer.Username,
			AlbumsCount: albums,
			PhotosCount: photos,
		})
	}

	return dto.PhotographerDirectoryResponse{Items: items}, nil
}

// PublicAlbums lists a photographer's public albums. An unknown or disabled
// photographer yields an empty list rather than an error.
func (s *directoryService) PublicAlbums(ctx context.Context, photographerID uint) (dto.AlbumListResponse, error) {
	albums, err := s.albums.ListPublicByPhotographer(ctx, photographerID)
	if err != nil {
		return dto.AlbumListResponse{}, err
	}
	return dto.AlbumListResponse{Items: albumResponses(albums)}, nil
}
