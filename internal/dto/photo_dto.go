package dto

import (
	"time"

	"github.com/shutterdesk/shutterdesk-api/internal/models"
)

// PhotoResponse serialises a photo.
type PhotoResponse struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	Caption       string    `json:"caption"`
	StoragePath   string    `json:"storage_path"`
	ThumbnailPath string    `json:"thumbnail_path"`
	IsPublic      bool      `json:"is_public"`
	AlbumID       uint      `json:"album_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewPhotoResponse maps a photo model to its response form.
func NewPhotoResponse(photo models.Photo) PhotoResponse {
	return PhotoResponse{
		ID:            photo.ID,
		Title:         photo.Title,
		Caption:       photo.Caption,
		StoragePath:   photo.StoragePath,
		ThumbnailPath: photo.ThumbnailPath,
		IsPublic:      photo.IsPublic,
		AlbumID:       photo.AlbumID,
		CreatedAt:     photo.CreatedAt,
		UpdatedAt:     photo.UpdatedAt,
	}
}

// PhotoListResponse wraps a photo listing.
type PhotoListResponse struct {
	Items []PhotoResponse `json:"items"`
}

// PhotoCreateRequest accompanies the multipart photo upload.
type PhotoCreateRequest struct {
	AlbumID  uint   `json:"album_id" form:"album_id" validate:"required"`
	Title    string `json:"title" form:"title" validate:"omitempty,max=255"`
	Caption  string `json:"caption" form:"caption" validate:"omitempty,max=5000"`
	IsPublic *bool  `json:"is_public" form:"is_public"`
}

// PhotoUpdateRequest captures partial photo updates.
type PhotoUpdateRequest struct {
	Title    *string `json:"title" validate:"omitempty,min=1,max=255"`
	Caption  *string `json:"caption" validate:"omitempty,max=5000"`
	IsPublic *bool   `json:"is_public"`
	AlbumID  *uint   `json:"album_id"`
}

// FeedResponse is the public home feed of recent public photos.
type FeedResponse struct {
	Items []PhotoResponse `json:"items"`
}
