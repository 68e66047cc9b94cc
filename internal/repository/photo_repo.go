package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/shutterdesk/shutterdesk-api/internal/models"
)

// PhotoRepository persists photos.
type PhotoRepository interface {
	Create(ctx context.Context, photo *models.Photo) error
	GetByID(ctx context.Context, id uint) (models.Photo, error)
	ListAll(ctx context.Context) ([]models.Photo, error)
	ListByAlbum(ctx context.Context, albumID uint) ([]models.Photo, error)
	ListPublicByAlbum(ctx context.Context, albumID uint) ([]models.Photo, error)
	ListByPhotographer(ctx context.Context, photographerID uint) ([]models.Photo, error)
	PublicFeed(ctx context.Context, limit int) ([]models.Photo, error)
	Update(ctx context.Context, photo *models.Photo) error
	Delete(ctx context.Context, id uint) error
	CountByPhotographer(ctx context.Context, photographerID uint) (int64, error)
	CountOwned(ctx context.Context, ids []uint, photographerID uint) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type photoRepository struct {
	db *gorm.DB
}

// NewPhotoRepository constructs the photo repository.
func NewPhotoRepository(db *gorm.DB) PhotoRepository {
	return &photoRepository{db: db}
}

func (r *photoRepository) Create(ctx context.Context, photo *models.Photo) error {
	return r.db.WithContext(ctx).Create(photo).Error
}

func (r *photoRepository) GetByID(ctx context.Context, id uint) (models.Photo, error) {
	var photo models.Photo
	err := r.db.WithContext(ctx).First(&photo, id).Error
	return photo, err
}

func (r *photoRepository) ListAll(ctx context.Context) ([]models.Photo, error) {
	var photos []models.Photo
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&photos).Error
	return photos, err
}

func (r *photoRepository) ListByAlbum(ctx context.Context, albumID uint) ([]models.Photo, error) {
	var photos []models.Photo
	err := r.db.WithContext(ctx).
		Where("album_id = ?", albumID).
		Order("created_at DESC").
		Find(&photos).Error
	return photos, err
}

func (r *photoRepository) ListPublicByAlbum(ctx context.Context, albumID uint) ([]models.Photo, error) {
	var photos []models.Photo
	err := r.db.WithContext(ctx).
		Where("album_id = ? AND is_public = ?", albumID, true).
		Order("created_at DESC").
		Find(&photos).Error
	return photos, err
}

// ListByPhotographer resolves ownership through the photo's album.
func (r *photoRepository) ListByPhotographer(ctx context.Context, photographerID uint) ([]models.Photo, error) {
	var photos []models.Photo
	err := r.db.WithContext(ctx).
		Joins("JOIN albums ON albums.id = photos.album_id").
		Where("albums.photographer_id = ?", photographerID).
		Order("photos.created_at DESC").
		Find(&photos).Error
	return photos, err
}

func (r *photoRepository) PublicFeed(ctx context.Context, limit int) ([]models.Photo, error) {
	if limit <= 0 {
		limit = 30
	}
	var photos []models.Photo
	err := r.db.WithContext(ctx).
		Where("is_public = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Find(&photos).Error
	return photos, err
}

func (r *photoRepository) Update(ctx context.Context, photo *models.Photo) error {
	return r.db.WithContext(ctx).Save(photo).Error
}

func (r *photoRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Photo{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *photoRepository) CountByPhotographer(ctx context.Context, photographerID uint) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Photo{}).
		Joins("JOIN albums ON albums.id = photos.album_id").
		Where("albums.photographer_id = ?", photographerID).
		Count(&total).Error
	return total, err
}

// CountOwned reports how many of the given photo ids live in the
// photographer's albums.
func (r *photoRepository) CountOwned(ctx context.Context, ids []uint, photographerID uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Photo{}).
		Joins("JOIN albums ON albums.id = photos.album_id").
		Where("photos.id IN ? AND albums.photographer_id = ?", ids, photographerID).
		Count(&total).Error
	return total, err
}

func (r *photoRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Photo{}).Count(&total).Error
	return total, err
}
