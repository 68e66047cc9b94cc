package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/shutterdesk/shutterdesk-api/internal/dto"
	"github.com/shutterdesk/shutterdesk-api/internal/models"
	"github.com/shutterdesk/shutterdesk-api/internal/repository"
)

// ErrDashboardForbidden indicates the actor has no dashboard.
var ErrDashboardForbidden = errors.New("insufficient permissions for the dashboard")

// DashboardService aggregates role-scoped overview numbers. Results are
// cached in Redis briefly since the counts are expensive and tolerant of
// slight staleness.
type DashboardService interface {
	Admin(ctx context.Context, actor Actor) (dto.AdminDashboardResponse, error)
	Photographer(ctx context.Context, actor Actor) (dto.PhotographerDashboardResponse, error)
}

type dashboardService struct {
	users    repository.UserRepository
	albums   repository.AlbumRepository
	photos   repository.PhotoRepository
	bookings repository.BookingRepository
	activity ActivityService
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
}

// NewDashboardService constructs the dashboard service. A nil Redis client
// disables caching.
func NewDashboardService(
	users repository.UserRepository,
	albums repository.AlbumRepository,
	photos repository.PhotoRepository,
	bookings repository.BookingRepository,
	activity ActivityService,
	cache *redis.Client,
	cacheTTL time.Duration,
	logger zerolog.Logger,
) DashboardService {
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Second
	}
	return &dashboardService{
		users:    users,
		albums:   albums,
		photos:   photos,
		bookings: bookings,
		activity: activity,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger.With().Str("component", "dashboard_service").Logger(),
	}
}

func (s *dashboardService) Admin(ctx context.Context, actor Actor) (dto.AdminDashboardResponse, error) {
	if !actor.IsAdmin() {
		return dto.AdminDashboardResponse{}, ErrDashboardForbidden
	}

	var cached dto.AdminDashboardResponse
	if s.cacheGet(ctx, "dashboard:admin", &cached) {
		return cached, nil
	}

	var (
		response dto.AdminDashboardResponse
		err      error
	)

	if response.TotalUsers, err = s.users.Count(ctx); err != nil {
		return dto.AdminDashboardResponse{}, err
	}
	if response.TotalAdmins, err = s.users.CountByRole(ctx, models.RoleAdmin); err != nil {
		return dto.AdminDashboardResponse{}, err
	}
	if response.TotalPhotographers, err = s.users.CountByRole(ctx, models.RolePhotographer); err != nil {
		return dto.AdminDashboardResponse{}, err
	}
	if response.TotalClients, err = s.users.CountByRole(ctx, models.RoleClient); err != nil {
		return dto.AdminDashboardResponse{}, err
	}
	if response.TotalAlbums, err = s.albums.Count(ctx); err != nil {
		return dto.AdminDashboardResponse{}, err
	}
	if response.TotalPhotos, err = s.photos.Count(ctx); err != nil {
		return dto.AdminDashboardResponse{}, err
	}
	if response.BookingsByStatus, err = s.bookings.CountByStatus(ctx); err != nil {
		return dto.AdminDashboardResponse{}, err
	}
	if response.RecentActivity, err = s.activity.Recent(ctx, 5); err != nil {
		return dto.AdminDashboardResponse{}, err
	}

	s.cacheSet(ctx, "dashboard:admin", response)
	return response, nil
}

func (s *dashboardService) Photographer(ctx context.Context, actor Actor) (dto.PhotographerDashboardResponse, error) {
	if !actor.IsPhotographer() {
		return dto.PhotographerDashboardResponse{}, ErrDashboardForbidden
	}

	key := fmt.Sprintf("dashboard:photographer:%d", actor.ID)
	var cached dto.PhotographerDashboardResponse
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	var (
		response dto.PhotographerDashboardResponse
		err      error
	)

	if response.AlbumsCount, err = s.albums.CountByPhotographer(ctx, actor.ID); err != nil {
		return dto.PhotographerDashboardResponse{}, err
	}
	if response.PhotosCount, err = s.photos.CountByPhotographer(ctx, actor.ID); err != nil {
		return dto.PhotographerDashboardResponse{}, err
	}
	if response.BookingCounts, err = s.bookings.CountByPhotographerStatus(ctx, actor.ID); err != nil {
		return dto.PhotographerDashboardResponse{}, err
	}

	s.cacheSet(ctx, key, response)
	return response, nil
}

func (s *dashboardService) cacheGet(ctx context.Context, key string, out interface{}) bool {
	if s.cache == nil {
		return false
	}
	payload, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Str("key", key).Msg("dashboard cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(payload, out); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("dashboard cache decode failed")
		return false
	}
	return true
}

func (s *dashboardService) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("dashboard cache write failed")
	}
}
