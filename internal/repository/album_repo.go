package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/shutterdesk/shutterdesk-api/internal/models"
)

// AlbumRepository persists albums.
type AlbumRepository interface {
	Create(ctx context.Context, album *models.Album) error
	GetByID(ctx context.Context, id uint) (models.Album, error)
	ListAll(ctx context.Context) ([]models.Album, error)
	ListByPhotographer(ctx context.Context, photographerID uint) ([]models.Album, error)
	ListPublicByPhotographer(ctx context.Context, photographerID uint) ([]models.Album, error)
	Update(ctx context.Context, album *models.Album) error
	DeleteWithPhotos(ctx context.Context, id uint) error
	CountByPhotographer(ctx context.Context, photographerID uint) (int64, error)
	CountOwned(ctx context.Context, ids []uint, photographerID uint) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type albumRepository struct {
	db *gorm.DB
}

// NewAlbumRepository constructs the album repository.
func NewAlbumRepository(db *gorm.DB) AlbumRepository {
	return &albumRepository{db: db}
}

func (r *albumRepository) Create(ctx context.Context, album *models.Album) error {
	return r.db.WithContext(ctx).Create(album).Error
}

func (r *albumRepository) GetByID(ctx context.Context, id uint) (models.Album, error) {
	var album models.Album
	err := r.db.WithContext(ctx).First(&album, id).Error
	return album, err
}

func (r *albumRepository) ListAll(ctx context.Context) ([]models.Album, error) {
	var albums []models.Album
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&albums).Error
	return albums, err
}

func (r *albumRepository) ListByPhotographer(ctx context.Context, photographerID uint) ([]models.Album, error) {
	var albums []models.Album
	err := r.db.WithContext(ctx).
		Where("photographer_id = ?", photographerID).
		Order("created_at DESC").
		Find(&albums).Error
	return albums, err
}

func (r *albumRepository) ListPublicByPhotographer(ctx context.Context, photographerID uint) ([]models.Album, error) {
	var albums []models.Album
	err := r.db.WithContext(ctx).
		Where("photographer_id = ? AND is_public = ?", photographerID, true).
		Order("created_at DESC").
		Find(&albums).Error
	return albums, err
}

func (r *albumRepository) Update(ctx context.Context, album *models.Album) error {
	return r.db.WithContext(ctx).Save(album).Error
}

// DeleteWithPhotos removes the album and its photos in one transaction so no
// orphan photo rows survive.
func (r *albumRepository) DeleteWithPhotos(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("album_id = ?", id).Delete(&models.Photo{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Album{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *albumRepository) CountByPhotographer(ctx context.Context, photographerID uint) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Album{}).
		Where("photographer_id = ?", photographerID).
		Count(&total).Error
	return total, err
}

// CountOwned reports how many of the given album ids belong to the photographer.
func (r *albumRepository) CountOwned(ctx context.Context, ids []uint, photographerID uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Album{}).
		Where("id IN ? AND photographer_id = ?", ids, photographerID).
		Count(&total).Error
	return total, err
}

func (r *albumRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Album{}).Count(&total).Error
	return total, err
}
