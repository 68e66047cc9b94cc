package models

import "time"

// Album groups photos under a single photographer.
type Album struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Title          string    `gorm:"size:255;not null" json:"title"`
	Description    string    `gorm:"type:text" json:"description"`
	CoverImagePath string    `gorm:"size:512" json:"cover_image_path"`
	IsPublic       bool      `gorm:"default:true;not null" json:"is_public"`
	PhotographerID uint      `gorm:"index;not null" json:"photographer_id"`
	Photographer   *User     `gorm:"foreignKey:PhotographerID" json:"photographer,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Photo belongs to exactly one album. The thumbnail is a byte-identical copy
// of the original stored under the thumbnail directory.
type Photo struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	StoragePath   string    `gorm:"size:512;not null" json:"storage_path"`
	ThumbnailPath string    `gorm:"size:512;not null" json:"thumbnail_path"`
	Title         string    `gorm:"size:255;not null" json:"title"`
	Caption       string    `gorm:"type:text" json:"caption"`
	IsPublic      bool      `gorm:"default:true;not null" json:"is_public"`
	AlbumID       uint      `gorm:"index;not null" json:"album_id"`
	Album         *Album    `gorm:"foreignKey:AlbumID" json:"album,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
