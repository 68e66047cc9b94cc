package handler_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/shutterdesk/shutterdesk-api/internal/dto"
	"github.com/shutterdesk/shutterdesk-api/internal/handler"
	"github.com/shutterdesk/shutterdesk-api/internal/service"
)

type mockDashboardService struct {
	adminCalls        int
	photographerCalls int
	adminErr          error
	photographerErr   error
}

func (m *mockDashboardService) Admin(_ context.Context, _ service.Actor) (dto.AdminDashboardResponse, error) {
	m.adminCalls++
	if m.adminErr != nil {
		return dto.AdminDashboardResponse{}, m.adminErr
	}
	return dto.AdminDashboardResponse{TotalUsers: 3}, nil
}

func (m *mockDashboardService) Photographer(_ context.Context, _ service.Actor) (dto.PhotographerDashboardResponse, error) {
	m.photographerCalls++
	if m.photographerErr != nil {
		return dto.PhotographerDashboardResponse{}, m.photographerErr
	}
	return dto.PhotographerDashboardResponse{AlbumsCount: 2}, nil
}

func newDashboardApp(svc *mockDashboardService, roles ...string) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/dashboard", authContext(7, "lena", roles...))
	handler.NewDashboardHandler(svc, zerolog.New(io.Discard)).Register(group)
	return app
}

func TestDashboardHandlerAdminGetsStudioOverview(t *testing.T) {
	svc := &mockDashboardService{}
	app := newDashboardApp(svc, "admin", "photographer")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, 1, svc.adminCalls)
	require.Zero(t, svc.photographerCalls)

	var body struct {
		Success bool                       `json:"success"`
		Data    dto.AdminDashboardResponse `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.True(t, body.Success)
	require.Equal(t, int64(3), body.Data.TotalUsers)
}

func TestDashboardHandlerPhotographerGetsOwnOverview(t *testing.T) {
	svc := &mockDashboardService{}
	app := newDashboardApp(svc, "photographer")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Zero(t, svc.adminCalls)
	require.Equal(t, 1, svc.photographerCalls)
}

func TestDashboardHandlerForbidden(t *testing.T) {
	svc := &mockDashboardService{photographerErr: service.ErrDashboardForbidden}
	app := newDashboardApp(svc, "client")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
