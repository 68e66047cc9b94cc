package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/shutterdesk/shutterdesk-api/internal/dto"
	"github.com/shutterdesk/shutterdesk-api/internal/models"
	"github.com/shutterdesk/shutterdesk-api/internal/repository"
)

// ErrInvalidDateFilter indicates a malformed start or end date filter.
var ErrInvalidDateFilter = errors.New("invalid date filter")

// ActivityEntry captures the details required to persist one audit record.
type ActivityEntry struct {
	Actor       Actor
	Action      string
	EntityType  string
	EntityID    *uint
	Description string
	Metadata    map[string]interface{}
}

// ActivityRecorder appends audit records. Writes are best-effort: a failed
// audit write never rolls back the business mutation it describes.
type ActivityRecorder interface {
	Record(ctx context.Context, entry ActivityEntry) error
}

// ActivityService records and queries the append-only activity log.
type ActivityService interface {
	ActivityRecorder
	List(ctx context.Context, req dto.ActivityLogListRequest) (dto.ActivityLogListResponse, error)
	Actions(ctx context.Context) (dto.ActivityActionsResponse, error)
	Recent(ctx context.Context, limit int) ([]dto.ActivityLogResponse, error)
}

type activityService struct {
	repo   repository.ActivityLogRepository
	logger zerolog.Logger
}

// NewActivityService constructs the activity log service.
func NewActivityService(repo repository.ActivityLogRepository, logger zerolog.Logger) ActivityService {
	return &activityService{
		repo:   repo,
		logger: logger.With().Str("component", "activity_service").Logger(),
	}
}

// Record denormalises the actor's username and primary-role label into the row
// so the log reflects who the actor was at the time of the action.
func (s *activityService) Record(ctx context.Context, entry ActivityEntry) error {
	if strings.TrimSpace(entry.Action) == "" {
		return fmt.Errorf("action is required")
	}
	if strings.TrimSpace(entry.EntityType) == "" {
		return fmt.Errorf("entity type is required")
	}

	model := models.ActivityLog{
		UserID:      entry.Actor.ID,
		Username:    entry.Actor.DisplayName(),
		Role:        entry.Actor.RoleLabel(),
		Action:      strings.ToUpper(strings.TrimSpace(entry.Action)),
		EntityType:  strings.ToUpper(strings.TrimSpace(entry.EntityType)),
		EntityID:    entry.EntityID,
		Description: entry.Description,
		Metadata:    sanitizeMetadata(entry.Metadata),
	}

	if err := s.repo.Create(ctx, &model); err != nil {
		s.logger.Error().Err(err).
			Str("action", model.Action).
			Str("entity_type", model.EntityType).
			Msg("failed to persist activity log")
		return err
	}

	return nil
}

func (s *activityService) List(ctx context.Context, req dto.ActivityLogListRequest) (dto.ActivityLogListResponse, error) {
	filter := repository.ActivityLogFilter{
		Action:  strings.ToUpper(strings.TrimSpace(req.Action)),
		Page:    req.Page,
		PerPage: req.PerPage,
	}
	if req.UserID > 0 {
		filter.UserID = &req.UserID
	}

	start, end, err := parseDateBounds(req.StartDate, req.EndDate)
	if err != nil {
		return dto.ActivityLogListResponse{}, err
	}
	filter.StartDate = start
	filter.EndDate = end

	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.ActivityLogListResponse{}, err
	}

	responses := make([]dto.ActivityLogResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, dto.NewActivityLogResponse(entry))
	}

	pagination := dto.PaginationMeta{
		Page:       maxInt(req.Page, 1),
		PageSize:   req.PerPage,
		TotalItems: total,
	}
	if req.PerPage > 0 {
		pagination.TotalPages = int(math.Ceil(float64(total) / float64(req.PerPage)))
	} else {
		pagination.TotalPages = 1
	}

	return dto.ActivityLogListResponse{Items: responses, Pagination: pagination}, nil
}

func (s *activityService) Actions(ctx context.Context) (dto.ActivityActionsResponse, error) {
	actions, err := s.repo.DistinctActions(ctx)
	if err != nil {
		return dto.ActivityActionsResponse{}, err
	}
	return dto.ActivityActionsResponse{Actions: actions}, nil
}

func (s *activityService) Recent(ctx context.Context, limit int) ([]dto.ActivityLogResponse, error) {
	entries, err := s.repo.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.ActivityLogResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, dto.NewActivityLogResponse(entry))
	}
	return responses, nil
}

// parseDateBounds widens start/end day strings to inclusive day bounds.
func parseDateBounds(startDate, endDate string) (*time.Time, *time.Time, error) {
	var start, end *time.Time
	if s := strings.TrimSpace(startDate); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			return nil, nil, fmt.Errorf("start date: %w", ErrInvalidDateFilter)
		}
		start = &parsed
	}
	if e := strings.TrimSpace(endDate); e != "" {
		parsed, err := time.Parse("2006-01-02", e)
		if err != nil {
			return nil, nil, fmt.Errorf("end date: %w", ErrInvalidDateFilter)
		}
		endOfDay := parsed.Add(24*time.Hour - time.Nanosecond)
		end = &endOfDay
	}
	return start, end, nil
}

func sanitizeMetadata(metadata map[string]interface{}) datatypes.JSONMap {
	if metadata == nil {
		return datatypes.JSONMap{}
	}
	sanitized := datatypes.JSONMap{}
	for key, value := range metadata {
		lower := strings.ToLower(key)
		if strings.Contains(lower, "password") || strings.Contains(lower, "token") {
			sanitized[key] = "***"
			continue
		}
		sanitized[key] = value
	}
	return sanitized
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
