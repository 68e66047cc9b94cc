package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/shutterdesk/shutterdesk-api/internal/models"
)

// BookingBuckets groups a photographer's bookings by status for triage:
// upcoming work first, finished work most-recent-first.
type BookingBuckets struct {
	Requested []models.Booking
	Accepted  []models.Booking
	Completed []models.Booking
}

// BookingRepository persists bookings and their deliverable attachments.
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id uint) (models.Booking, error)
	ListAll(ctx context.Context) ([]models.Booking, error)
	ListByClient(ctx context.Context, clientID uint) ([]models.Booking, error)
	BucketsByPhotographer(ctx context.Context, photographerID uint) (BookingBuckets, error)
	// Transition applies the update only when the booking still holds the
	// expected status. Returns false when another request got there first or
	// the status had already moved on.
	Transition(ctx context.Context, id uint, from models.BookingStatus, updates map[string]interface{}) (bool, error)
	// CompleteWithAttachments replaces the booking's attachments and marks it
	// completed in a single transaction. Applies from accepted, and again from
	// completed so a repeat completion swaps the deliverable set.
	CompleteWithAttachments(ctx context.Context, id uint, attachments []models.BookingAttachment) (bool, error)
	ListAttachments(ctx context.Context, bookingID uint) ([]models.BookingAttachment, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
	CountByPhotographerStatus(ctx context.Context, photographerID uint) (map[string]int64, error)
}

type bookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository constructs the booking repository.
func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *bookingRepository) GetByID(ctx context.Context, id uint) (models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).First(&booking, id).Error
	return booking, err
}

func (r *bookingRepository) ListAll(ctx context.Context) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepository) ListByClient(ctx context.Context, clientID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepository) BucketsByPhotographer(ctx context.Context, photographerID uint) (BookingBuckets, error) {
	var buckets BookingBuckets

	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Where("photographer_id = ?", photographerID)
	}

	if err := base().Where("status = ?", models.BookingRequested).
		Order("start_at ASC").Find(&buckets.Requested).Error; err != nil {
		return BookingBuckets{}, err
	}
	if err := base().Where("status = ?", models.BookingAccepted).
		Order("start_at ASC").Find(&buckets.Accepted).Error; err != nil {
		return BookingBuckets{}, err
	}
	if err := base().Where("status = ?", models.BookingCompleted).
		Order("start_at DESC").Find(&buckets.Completed).Error; err != nil {
		return BookingBuckets{}, err
	}

	return buckets, nil
}

func (r *bookingRepository) Transition(ctx context.Context, id uint, from models.BookingStatus, updates map[string]interface{}) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *bookingRepository) CompleteWithAttachments(ctx context.Context, id uint, attachments []models.BookingAttachment) (bool, error) {
	applied := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Booking{}).
			Where("id = ? AND status IN ?", id, []models.BookingStatus{models.BookingAccepted, models.BookingCompleted}).
			Update("status", models.BookingCompleted)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}

		// Replace, not merge: a second completion discards the first selection.
		if err := tx.Where("booking_id = ?", id).Delete(&models.BookingAttachment{}).Error; err != nil {
			return err
		}
		if len(attachments) > 0 {
			if err := tx.Create(&attachments).Error; err != nil {
				return err
			}
		}

		applied = true
		return nil
	})
	return applied, err
}

func (r *bookingRepository) ListAttachments(ctx context.Context, bookingID uint) ([]models.BookingAttachment, error) {
	var attachments []models.BookingAttachment
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("id ASC").
		Find(&attachments).Error
	return attachments, err
}

func (r *bookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return r.countGrouped(r.db.WithContext(ctx).Model(&models.Booking{}))
}

func (r *bookingRepository) CountByPhotographerStatus(ctx context.Context, photographerID uint) (map[string]int64, error) {
	return r.countGrouped(r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("photographer_id = ?", photographerID))
}

func (r *bookingRepository) countGrouped(query *gorm.DB) (map[string]int64, error) {
	type row struct {
		Status string
		Total  int64
	}
	var rows []row
	if err := query.Select("status, COUNT(*) AS total").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Total
	}
	return counts, nil
}
