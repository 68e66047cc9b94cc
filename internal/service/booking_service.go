package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/shutterdesk/shutterdesk-api/internal/dto"
	"github.com/shutterdesk/shutterdesk-api/internal/models"
	"github.com/shutterdesk/shutterdesk-api/internal/observability"
	"github.com/shutterdesk/shutterdesk-api/internal/repository"
)

var (
	// ErrBookingNotFound indicates the booking does not exist or is hidden
	// from the actor.
	ErrBookingNotFound = errors.New("booking not found")
	// ErrBookingForbidden indicates the actor may not act on this booking.
	ErrBookingForbidden = errors.New("insufficient permissions for this booking")
	// ErrPhotographerNotFound indicates the target photographer does not
	// exist, is disabled, or does not hold the photographer role.
	ErrPhotographerNotFound = errors.New("photographer not found")
	// ErrNoAttachmentSelected indicates a completion without deliverables.
	ErrNoAttachmentSelected = errors.New("must attach at least one album or one photo")
	// ErrAttachmentNotOwned indicates a deliverable outside the acting
	// photographer's portfolio.
	ErrAttachmentNotOwned = errors.New("attached albums and photos must belong to the photographer")
)

// BookingService drives the booking lifecycle:
// requested to accepted to completed, with requested to rejected as the only
// other exit. Cancellation is not reachable through the API.
type BookingService interface {
	Create(ctx context.Context, actor Actor, photographerID uint, payload dto.BookingCreateRequest) (dto.BookingResponse, error)
	ListForClient(ctx context.Context, actor Actor) (dto.BookingListResponse, error)
	GetDetail(ctx context.Context, actor Actor, id uint) (dto.BookingDetailResponse, error)
	Buckets(ctx context.Context, actor Actor) (dto.BookingBucketsResponse, error)
	Accept(ctx context.Context, actor Actor, id uint) (dto.BookingResponse, error)
	Reject(ctx context.Context, actor Actor, id uint, payload dto.BookingRejectRequest) (dto.BookingResponse, error)
	Complete(ctx context.Context, actor Actor, id uint, payload dto.BookingCompleteRequest) (dto.BookingDetailResponse, error)
	ListAll(ctx context.Context, actor Actor) (dto.BookingListResponse, error)
}

type bookingService struct {
	bookings  repository.BookingRepository
	albums    repository.AlbumRepository
	photos    repository.PhotoRepository
	users     repository.UserRepository
	activity  ActivityRecorder
	events    BookingEventPublisher
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewBookingService constructs the booking service.
func NewBookingService(
	bookings repository.BookingRepository,
	albums repository.AlbumRepository,
	photos repository.PhotoRepository,
	users repository.UserRepository,
	activity ActivityRecorder,
	events BookingEventPublisher,
	validate *validator.Validate,
	logger zerolog.Logger,
) BookingService {
	return &bookingService{
		bookings:  bookings,
		albums:    albums,
		photos:    photos,
		users:     users,
		activity:  activity,
		events:    events,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "booking_service").Logger(),
		tracer:    otel.Tracer("github.com/shutterdesk/shutterdesk-api/internal/service/booking"),
		now:       time.Now,
	}
}

// Create records a client's booking request against a photographer.
func (s *bookingService) Create(ctx context.Context, actor Actor, photographerID uint, payload dto.BookingCreateRequest) (dto.BookingResponse, error) {
	ctx, span := s.tracer.Start(ctx, "booking.create", trace.WithAttributes(
		attribute.Int("booking.client_id", int(actor.ID)),
		attribute.Int("booking.photographer_id", int(photographerID)),
	))
	defer span.End()

	if !actor.IsClientOnly() {
		span.SetStatus(codes.Error, "forbidden")
		return dto.BookingResponse{}, ErrBookingForbidden
	}
	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return dto.BookingResponse{}, err
	}

	photographer, err := s.users.GetByID(ctx, photographerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.BookingResponse{}, ErrPhotographerNotFound
		}
		return dto.BookingResponse{}, err
	}
	if !photographer.IsActive || !photographer.Roles.Has(models.RolePhotographer) {
		return dto.BookingResponse{}, ErrPhotographerNotFound
	}

	booking := models.Booking{
		ClientID:       actor.ID,
		PhotographerID: photographer.ID,
		Status:         models.BookingRequested,
		StartAt:        payload.StartAt,
		EndAt:          payload.EndAt,
		Location:       s.sanitizer.Sanitize(strings.TrimSpace(payload.Location)),
		Notes:          s.sanitizer.Sanitize(strings.TrimSpace(payload.Notes)),
	}
	if err := booking.Validate(s.now()); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return dto.BookingResponse{}, err
	}

	if err := s.bookings.Create(ctx, &booking); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		return dto.BookingResponse{}, err
	}

	s.afterTransition(ctx, actor, models.ActionRequest, booking, fmt.Sprintf(
		"User %s requested a booking with %s for %s.",
		actor.DisplayName(), photographer.DisplayName(), booking.StartAt.Format(time.RFC3339)))

	span.SetStatus(codes.Ok, "requested")
	return dto.NewBookingResponse(booking), nil
}

// ListForClient returns the actor's own bookings, newest request first.
func (s *bookingService) ListForClient(ctx context.Context, actor Actor) (dto.BookingListResponse, error) {
	bookings, err := s.bookings.ListByClient(ctx, actor.ID)
	if err != nil {
		return dto.BookingListResponse{}, err
	}
	return dto.BookingListResponse{Items: bookingResponses(bookings)}, nil
}

// GetDetail loads a booking with its attachments. Visible to the booking's
// client, its photographer, and admins.
func (s *bookingService) GetDetail(ctx context.Context, actor Actor, id uint) (dto.BookingDetailResponse, error) {
	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return dto.BookingDetailResponse{}, err
	}

	if !actor.IsAdmin() && booking.ClientID != actor.ID && booking.PhotographerID != actor.ID {
		return dto.BookingDetailResponse{}, ErrBookingForbidden
	}

	attachments, err := s.bookings.ListAttachments(ctx, booking.ID)
	if err != nil {
		return dto.BookingDetailResponse{}, err
	}

	return newBookingDetail(booking, attachments), nil
}

// Buckets returns the acting photographer's bookings grouped by status.
func (s *bookingService) Buckets(ctx context.Context, actor Actor) (dto.BookingBucketsResponse, error) {
	if !actor.IsPhotographer() {
		return dto.BookingBucketsResponse{}, ErrBookingForbidden
	}

	buckets, err := s.bookings.BucketsByPhotographer(ctx, actor.ID)
	if err != nil {
		return dto.BookingBucketsResponse{}, err
	}

	return dto.BookingBucketsResponse{
		Requested: bookingResponses(buckets.Requested),
		Accepted:  bookingResponses(buckets.Accepted),
		Completed: bookingResponses(buckets.Completed),
	}, nil
}

// Accept moves a requested booking to accepted and clears any stale rejection
// reason. Acting on a booking that has already left the requested state is a
// silent no-op.
func (s *bookingService) Accept(ctx context.Context, actor Actor, id uint) (dto.BookingResponse, error) {
	ctx, span := s.tracer.Start(ctx, "booking.accept", trace.WithAttributes(
		attribute.Int("booking.id", int(id)),
	))
	defer span.End()

	booking, err := s.getOwnedBooking(ctx, actor, id)
	if err != nil {
		span.SetStatus(codes.Error, "lookup failed")
		return dto.BookingResponse{}, err
	}

	applied, err := s.bookings.Transition(ctx, booking.ID, models.BookingRequested, map[string]interface{}{
		"status":           models.BookingAccepted,
		"rejection_reason": "",
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transition failed")
		return dto.BookingResponse{}, err
	}

	booking, err = s.getBooking(ctx, id)
	if err != nil {
		return dto.BookingResponse{}, err
	}

	if applied {
		s.afterTransition(ctx, actor, models.ActionAccept, booking, fmt.Sprintf(
			"Photographer %s accepted booking %d.", actor.DisplayName(), booking.ID))
	}

	span.SetStatus(codes.Ok, string(booking.Status))
	return dto.NewBookingResponse(booking), nil
}

// Reject moves a requested booking to rejected with a mandatory reason.
// Like Accept, a stale status is a silent no-op.
func (s *bookingService) Reject(ctx context.Context, actor Actor, id uint, payload dto.BookingRejectRequest) (dto.BookingResponse, error) {
	ctx, span := s.tracer.Start(ctx, "booking.reject", trace.WithAttributes(
		attribute.Int("booking.id", int(id)),
	))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.SetStatus(codes.Error, "validation failed")
		return dto.BookingResponse{}, err
	}
	reason := s.sanitizer.Sanitize(strings.TrimSpace(payload.Reason))
	if reason == "" {
		span.SetStatus(codes.Error, "validation failed")
		return dto.BookingResponse{}, models.ErrRejectionReasonMissing
	}

	booking, err := s.getOwnedBooking(ctx, actor, id)
	if err != nil {
		span.SetStatus(codes.Error, "lookup failed")
		return dto.BookingResponse{}, err
	}

	applied, err := s.bookings.Transition(ctx, booking.ID, models.BookingRequested, map[string]interface{}{
		"status":           models.BookingRejected,
		"rejection_reason": reason,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transition failed")
		return dto.BookingResponse{}, err
	}

	booking, err = s.getBooking(ctx, id)
	if err != nil {
		return dto.BookingResponse{}, err
	}

	if applied {
		s.afterTransition(ctx, actor, models.ActionReject, booking, fmt.Sprintf(
			"Photographer %s rejected booking %d.", actor.DisplayName(), booking.ID))
	}

	span.SetStatus(codes.Ok, string(booking.Status))
	return dto.NewBookingResponse(booking), nil
}

// Complete closes an accepted booking and attaches the selected deliverables.
// The selection replaces any previous one, and completing again swaps in the
// new selection while the booking stays completed. Every selected album and
// photo must belong to the acting photographer.
func (s *bookingService) Complete(ctx context.Context, actor Actor, id uint, payload dto.BookingCompleteRequest) (dto.BookingDetailResponse, error) {
	ctx, span := s.tracer.Start(ctx, "booking.complete", trace.WithAttributes(
		attribute.Int("booking.id", int(id)),
		attribute.Int("booking.album_count", len(payload.AlbumIDs)),
		attribute.Int("booking.photo_count", len(payload.PhotoIDs)),
	))
	defer span.End()

	booking, err := s.getOwnedBooking(ctx, actor, id)
	if err != nil {
		span.SetStatus(codes.Error, "lookup failed")
		return dto.BookingDetailResponse{}, err
	}

	albumIDs := dedupeIDs(payload.AlbumIDs)
	photoIDs := dedupeIDs(payload.PhotoIDs)
	if len(albumIDs)+len(photoIDs) == 0 {
		span.SetStatus(codes.Error, "no deliverables")
		return dto.BookingDetailResponse{}, ErrNoAttachmentSelected
	}

	if err := s.checkOwnership(ctx, actor.ID, albumIDs, photoIDs); err != nil {
		span.SetStatus(codes.Error, "ownership check failed")
		return dto.BookingDetailResponse{}, err
	}

	attachments := make([]models.BookingAttachment, 0, len(albumIDs)+len(photoIDs))
	for _, albumID := range albumIDs {
		aid := albumID
		attachments = append(attachments, models.BookingAttachment{BookingID: booking.ID, AlbumID: &aid})
	}
	for _, photoID := range photoIDs {
		pid := photoID
		attachments = append(attachments, models.BookingAttachment{BookingID: booking.ID, PhotoID: &pid})
	}

	applied, err := s.bookings.CompleteWithAttachments(ctx, booking.ID, attachments)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transition failed")
		return dto.BookingDetailResponse{}, err
	}

	booking, err = s.getBooking(ctx, id)
	if err != nil {
		return dto.BookingDetailResponse{}, err
	}

	if applied {
		s.afterTransition(ctx, actor, models.ActionComplete, booking, fmt.Sprintf(
			"Photographer %s completed booking %d with %d deliverables.",
			actor.DisplayName(), booking.ID, len(attachments)))
	}

	stored, err := s.bookings.ListAttachments(ctx, booking.ID)
	if err != nil {
		return dto.BookingDetailResponse{}, err
	}

	span.SetStatus(codes.Ok, string(booking.Status))
	return newBookingDetail(booking, stored), nil
}

// ListAll is the admin overview of every booking, newest first.
func (s *bookingService) ListAll(ctx context.Context, actor Actor) (dto.BookingListResponse, error) {
	if !actor.IsAdmin() {
		return dto.BookingListResponse{}, ErrBookingForbidden
	}
	bookings, err := s.bookings.ListAll(ctx)
	if err != nil {
		return dto.BookingListResponse{}, err
	}
	return dto.BookingListResponse{Items: bookingResponses(bookings)}, nil
}

func (s *bookingService) getBooking(ctx context.Context, id uint) (models.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Booking{}, ErrBookingNotFound
		}
		return models.Booking{}, err
	}
	return booking, nil
}

// getOwnedBooking loads a booking and verifies the actor is its photographer.
func (s *bookingService) getOwnedBooking(ctx context.Context, actor Actor, id uint) (models.Booking, error) {
	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return models.Booking{}, err
	}
	if !actor.IsPhotographer() || booking.PhotographerID != actor.ID {
		return models.Booking{}, ErrBookingForbidden
	}
	return booking, nil
}

func (s *bookingService) checkOwnership(ctx context.Context, photographerID uint, albumIDs, photoIDs []uint) error {
	if len(albumIDs) > 0 {
		owned, err := s.albums.CountOwned(ctx, albumIDs, photographerID)
		if err != nil {
			return err
		}
		if owned != int64(len(albumIDs)) {
			return ErrAttachmentNotOwned
		}
	}
	if len(photoIDs) > 0 {
		owned, err := s.photos.CountOwned(ctx, photoIDs, photographerID)
		if err != nil {
			return err
		}
		if owned != int64(len(photoIDs)) {
			return ErrAttachmentNotOwned
		}
	}
	return nil
}

// afterTransition records the audit entry, bumps the transition counter, and
// publishes the lifecycle event.
func (s *bookingService) afterTransition(ctx context.Context, actor Actor, action string, booking models.Booking, description string) {
	bookingID := booking.ID
	if s.activity != nil {
		_ = s.activity.Record(ctx, ActivityEntry{
			Actor:       actor,
			Action:      action,
			EntityType:  models.EntityBooking,
			EntityID:    &bookingID,
			Description: description,
		})
	}

	observability.BookingTransitions().WithLabelValues(strings.ToLower(action)).Inc()

	if s.events != nil {
		s.events.Publish(ctx, action, booking)
	}
}

func bookingResponses(bookings []models.Booking) []dto.BookingResponse {
	responses := make([]dto.BookingResponse, 0, len(bookings))
	for _, booking := range bookings {
		responses = append(responses, dto.NewBookingResponse(booking))
	}
	return responses
}

func newBookingDetail(booking models.Booking, attachments []models.BookingAttachment) dto.BookingDetailResponse {
	detail := dto.BookingDetailResponse{
		Booking:     dto.NewBookingResponse(booking),
		Attachments: make([]dto.BookingAttachmentResponse, 0, len(attachments)),
	}
	for _, att := range attachments {
		detail.Attachments = append(detail.Attachments, dto.NewBookingAttachmentResponse(att))
	}
	return detail
}

func dedupeIDs(ids []uint) []uint {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
