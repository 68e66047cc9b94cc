package models

import (
	"errors"
	"strings"
	"time"
)

// BookingStatus enumerates the booking lifecycle.
// cancelled exists as a stored value but no operation produces it.
type BookingStatus string

const (
	BookingRequested BookingStatus = "requested"
	BookingAccepted  BookingStatus = "accepted"
	BookingRejected  BookingStatus = "rejected"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// Validation failures for booking payloads.
var (
	ErrBookingEndBeforeStart  = errors.New("end date/time must be after the start date/time")
	ErrBookingStartInPast     = errors.New("start date/time cannot be in the past")
	ErrRejectionReasonMissing = errors.New("rejection reason is required when a booking is rejected")
)

// Booking is a client's request for a photographer's time. Client and
// photographer references are fixed after creation.
type Booking struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	ClientID        uint          `gorm:"index;not null" json:"client_id"`
	Client          *User         `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	PhotographerID  uint          `gorm:"index;not null" json:"photographer_id"`
	Photographer    *User         `gorm:"foreignKey:PhotographerID" json:"photographer,omitempty"`
	Status          BookingStatus `gorm:"size:30;not null" json:"status"`
	StartAt         time.Time     `gorm:"not null" json:"start_at"`
	EndAt           time.Time     `gorm:"not null" json:"end_at"`
	Location        string        `gorm:"size:255" json:"location"`
	Notes           string        `gorm:"type:text" json:"notes"`
	RejectionReason string        `gorm:"type:text" json:"rejection_reason"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// Validate enforces the booking invariants at a given reference time.
func (b *Booking) Validate(now time.Time) error {
	if !b.EndAt.After(b.StartAt) {
		return ErrBookingEndBeforeStart
	}
	if b.Status == BookingRequested && b.StartAt.Before(now) {
		return ErrBookingStartInPast
	}
	if b.Status == BookingRejected && strings.TrimSpace(b.RejectionReason) == "" {
		return ErrRejectionReasonMissing
	}
	return nil
}

// BookingAttachment links a completed booking to a deliverable album or photo.
// Exactly one of AlbumID/PhotoID is set.
type BookingAttachment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BookingID uint      `gorm:"index;not null" json:"booking_id"`
	AlbumID   *uint     `gorm:"index" json:"album_id,omitempty"`
	Album     *Album    `gorm:"foreignKey:AlbumID" json:"album,omitempty"`
	PhotoID   *uint     `gorm:"index" json:"photo_id,omitempty"`
	Photo     *Photo    `gorm:"foreignKey:PhotoID" json:"photo,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
