package handler_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/shutterdesk/shutterdesk-api/internal/dto"
	"github.com/shutterdesk/shutterdesk-api/internal/handler"
	"github.com/shutterdesk/shutterdesk-api/internal/models"
	"github.com/shutterdesk/shutterdesk-api/internal/service"
)

type mockBookingService struct {
	lastActor   service.Actor
	lastID      uint
	lastReject  dto.BookingRejectRequest
	response    dto.BookingResponse
	detail      dto.BookingDetailResponse
	buckets     dto.BookingBucketsResponse
	list        dto.BookingListResponse
	acceptErr   error
	rejectErr   error
	completeErr error
}

func (m *mockBookingService) Create(_ context.Context, actor service.Actor, photographerID uint, _ dto.BookingCreateRequest) (dto.BookingResponse, error) {
	m.lastActor = actor
	m.lastID = photographerID
	return m.response, nil
}

func (m *mockBookingService) ListForClient(_ context.Context, actor service.Actor) (dto.BookingListResponse, error) {
	m.lastActor = actor
	return m.list, nil
}

func (m *mockBookingService) GetDetail(_ context.Context, actor service.Actor, id uint) (dto.BookingDetailResponse, error) {
	m.lastActor = actor
	m.lastID = id
	return m.detail, nil
}

func (m *mockBookingService) Buckets(_ context.Context, actor service.Actor) (dto.BookingBucketsResponse, error) {
	m.lastActor = actor
	return m.buckets, nil
}

func (m *mockBookingService) Accept(_ context.Context, actor service.Actor, id uint) (dto.BookingResponse, error) {
	m.lastActor = actor
	m.lastID = id
	if m.acceptErr != nil {
		return dto.BookingResponse{}, m.acceptErr
	}
	return m.response, nil
}

func (m *mockBookingService) Reject(_ context.Context, actor service.Actor, id uint, payload dto.BookingRejectRequest) (dto.BookingResponse, error) {
	m.lastActor = actor
	m.lastID = id
	m.lastReject = payload
	if m.rejectErr != nil {
		return dto.BookingResponse{}, m.rejectErr
	}
	return m.response, nil
}

func (m *mockBookingService) Complete(_ context.Context, actor service.Actor, id uint, _ dto.BookingCompleteRequest) (dto.BookingDetailResponse, error) {
	m.lastActor = actor
	m.lastID = id
	if m.completeErr != nil {
		return dto.BookingDetailResponse{}, m.completeErr
	}
	return m.detail, nil
}

func (m *mockBookingService) ListAll(_ context.Context, actor service.Actor) (dto.BookingListResponse, error) {
	m.lastActor = actor
	return m.list, nil
}

func newPhotographerBookingApp(svc *mockBookingService) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/dashboard/photographer/bookings", authContext(7, "lena", "photographer"))
	handler.NewPhotographerBookingHandler(svc, zerolog.New(io.Discard)).Register(group)
	return app
}

func TestPhotographerBookingHandlerAccept(t *testing.T) {
	svc := &mockBookingService{response: dto.BookingResponse{ID: 12, Status: string(models.BookingAccepted)}}
	app := newPhotographerBookingApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/dashboard/photographer/bookings/12/accept", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, uint(12), svc.lastID)
	require.Equal(t, uint(7), svc.lastActor.ID)

	var body struct {
		Success bool                `json:"success"`
		Data    dto.BookingResponse `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.True(t, body.Success)
	require.Equal(t, string(models.BookingAccepted), body.Data.Status)
}

func TestPhotographerBookingHandlerAcceptForbidden(t *testing.T) {
	svc := &mockBookingService{acceptErr: service.ErrBookingForbidden}
	app := newPhotographerBookingApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/dashboard/photographer/bookings/12/accept", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestPhotographerBookingHandlerAcceptNotFound(t *testing.T) {
	svc := &mockBookingService{acceptErr: service.ErrBookingNotFound}
	app := newPhotographerBookingApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/dashboard/photographer/bookings/999/accept", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestPhotographerBookingHandlerRejectRequiresReason(t *testing.T) {
	svc := &mockBookingService{rejectErr: models.ErrRejectionReasonMissing}
	app := newPhotographerBookingApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/dashboard/photographer/bookings/12/reject",
		strings.NewReader(`{"reason":"   "}`))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestPhotographerBookingHandlerRejectPassesReason(t *testing.T) {
	svc := &mockBookingService{response: dto.BookingResponse{ID: 12, Status: string(models.BookingRejected)}}
	app := newPhotographerBookingApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/dashboard/photographer/bookings/12/reject",
		strings.NewReader(`{"reason":"fully booked"}`))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "fully booked", svc.lastReject.Reason)
}

func TestPhotographerBookingHandlerCompleteWithoutDeliverables(t *testing.T) {
	svc := &mockBookingService{completeErr: service.ErrNoAttachmentSelected}
	app := newPhotographerBookingApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/dashboard/photographer/bookings/12/complete",
		strings.NewReader(`{"album_ids":[],"photo_ids":[]}`))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestPhotographerBookingHandlerCompleteUnownedDeliverable(t *testing.T) {
	svc := &mockBookingService{completeErr: service.ErrAttachmentNotOwned}
	app := newPhotographerBookingApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/dashboard/photographer/bookings/12/complete",
		strings.NewReader(`{"album_ids":[4]}`))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestPhotographerBookingHandlerInvalidIdentifier(t *testing.T) {
	svc := &mockBookingService{}
	app := newPhotographerBookingApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/dashboard/photographer/bookings/zero/accept", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
