package dto

import (
	"time"

	"github.com/shutterdesk/shutterdesk-api/internal/models"
)

// BookingResponse serialises a booking.
type BookingResponse struct {
	ID              uint      `json:"id"`
	ClientID        uint      `json:"client_id"`
	PhotographerID  uint      `json:"photographer_id"`
	Status          string    `json:"status"`
	StartAt         time.Time `json:"start_at"`
	EndAt           time.Time `json:"end_at"`
	Location        string    `json:"location"`
	Notes           string    `json:"notes"`
	RejectionReason string    `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewBookingResponse maps a booking model to its response form.
func NewBookingResponse(booking models.Booking) BookingResponse {
	return BookingResponse{
		ID:              booking.ID,
		ClientID:        booking.ClientID,
		PhotographerID:  booking.PhotographerID,
		Status:          string(booking.Status),
		StartAt:         booking.StartAt,
		EndAt:           booking.EndAt,
		Location:        booking.Location,
		Notes:           booking.Notes,
		RejectionReason: booking.RejectionReason,
		CreatedAt:       booking.CreatedAt,
		UpdatedAt:       booking.UpdatedAt,
	}
}

// BookingAttachmentResponse serialises a deliverable attachment.
type BookingAttachmentResponse struct {
	ID        uint      `json:"id"`
	BookingID uint      `json:"booking_id"`
	AlbumID   *uint     `json:"album_id,omitempty"`
	PhotoID   *uint     `json:"photo_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewBookingAttachmentResponse maps an attachment model.
func NewBookingAttachmentResponse(att models.BookingAttachment) BookingAttachmentResponse {
	return BookingAttachmentResponse{
		ID:        att.ID,
		BookingID: att.BookingID,
		AlbumID:   att.AlbumID,
		PhotoID:   att.PhotoID,
		CreatedAt: att.CreatedAt,
	}
}

// BookingDetailResponse is a booking with its attachments.
type BookingDetailResponse struct {
	Booking     BookingResponse             `json:"booking"`
	Attachments []BookingAttachmentResponse `json:"attachments"`
}

// BookingListResponse wraps a flat booking listing.
type BookingListResponse struct {
	Items []BookingResponse `json:"items"`
}

// BookingBucketsResponse groups a photographer's bookings by status.
// Requested and accepted are soonest-first, completed most-recent-first.
type BookingBucketsResponse struct {
	Requested []BookingResponse `json:"requested"`
	Accepted  []BookingResponse `json:"accepted"`
	Completed []BookingResponse `json:"completed"`
}

// BookingCreateRequest is the client booking-request payload.
type BookingCreateRequest struct {
	StartAt  time.Time `json:"start_at" validate:"required"`
	EndAt    time.Time `json:"end_at" validate:"required"`
	Location string    `json:"location" validate:"omitempty,max=255"`
	Notes    string    `json:"notes" validate:"omitempty,max=5000"`
}

// BookingRejectRequest carries the mandatory rejection reason.
type BookingRejectRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// BookingCompleteRequest selects the deliverables attached on completion.
type BookingCompleteRequest struct {
	AlbumIDs []uint `json:"album_ids"`
	PhotoIDs []uint `json:"photo_ids"`
}
