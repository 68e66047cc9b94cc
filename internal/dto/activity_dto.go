package dto

import (
	"time"

	"github.com/shutterdesk/shutterdesk-api/internal/models"
)

// ActivityLogResponse serialises an audit record.
type ActivityLogResponse struct {
	ID          uint                   `json:"id"`
	UserID      uint                   `json:"user_id"`
	Username    string                 `json:"username"`
	Role        string                 `json:"role"`
	Action      string                 `json:"action"`
	EntityType  string                 `json:"entity_type"`
	EntityID    *uint                  `json:"entity_id"`
	Description string                 `json:"description"`
	Metadata    map[string]interface{} `json:"metadata"`
	CreatedAt   time.Time              `json:"created_at"`
}

// NewActivityLogResponse maps an activity log row.
func NewActivityLogResponse(entry models.ActivityLog) ActivityLogResponse {
	return ActivityLogResponse{
		ID:          entry.ID,
		UserID:      entry.UserID,
		Username:    entry.Username,
		Role:        entry.Role,
		Action:      entry.Action,
		EntityType:  entry.EntityType,
		EntityID:    entry.EntityID,
		Description: entry.Description,
		Metadata:    entry.Metadata,
		CreatedAt:   entry.CreatedAt,
	}
}

// ActivityLogListRequest defines the admin log filters.
type ActivityLogListRequest struct {
	UserID    uint
	Action    string
	StartDate string
	EndDate   string
	Page      int
	PerPage   int
}

// ActivityLogListResponse wraps a paginated log listing.
type ActivityLogListResponse struct {
	Items      []ActivityLogResponse `json:"items"`
	Pagination PaginationMeta        `json:"pagination"`
}

// ActivityActionsResponse lists the distinct action verbs present in the log.
type ActivityActionsResponse struct {
	Actions []string `json:"actions"`
}
