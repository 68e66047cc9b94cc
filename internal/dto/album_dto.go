package dto

import (
	"time"

	"github.com/shutterdesk/shutterdesk-api/internal/models"
)

// AlbumResponse serialises an album.
type AlbumResponse struct {
	ID             uint      `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	CoverImagePath string    `json:"cover_image_path"`
	IsPublic       bool      `json:"is_public"`
	PhotographerID uint      `json:"photographer_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewAlbumResponse maps an album model to its response form.
func NewAlbumResponse(album models.Album) AlbumResponse {
	return AlbumResponse{
		ID:             album.ID,
		Title:          album.Title,
		Description:    album.Description,
		CoverImagePath: album.CoverImagePath,
		IsPublic:       album.IsPublic,
		PhotographerID: album.PhotographerID,
		CreatedAt:      album.CreatedAt,
		UpdatedAt:      album.UpdatedAt,
	}
}

// AlbumListResponse wraps an album listing.
type AlbumListResponse struct {
	Items []AlbumResponse `json:"items"`
}

// AlbumDetailResponse is an album with its photos.
type AlbumDetailResponse struct {
	Album  AlbumResponse   `json:"album"`
	Photos []PhotoResponse `json:"photos"`
}

// AlbumCreateRequest creates an album.
type AlbumCreateRequest struct {
	Title          string `json:"title" validate:"required,min=1,max=255"`
	Description    string `json:"description" validate:"omitempty,max=5000"`
	IsPublic       *bool  `json:"is_public"`
	PhotographerID uint   `json:"photographer_id"`
}

// AlbumUpdateRequest captures partial album updates.
type AlbumUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	IsPublic    *bool   `json:"is_public"`
}
