package models

import (
	"time"

	"gorm.io/datatypes"
)

// Audit action verbs. Booking transitions get their own verbs so the log can
// distinguish them from generic entity mutations.
const (
	ActionLogin    = "LOGIN"
	ActionLogout   = "LOGOUT"
	ActionCreate   = "CREATE"
	ActionUpdate   = "UPDATE"
	ActionDelete   = "DELETE"
	ActionEnable   = "ENABLE"
	ActionDisable  = "DISABLE"
	ActionRequest  = "REQUEST"
	ActionAccept   = "ACCEPT"
	ActionReject   = "REJECT"
	ActionComplete = "COMPLETE"
)

// Audited entity type labels.
const (
	EntityUser    = "USER"
	EntityAlbum   = "ALBUM"
	EntityPhoto   = "PHOTO"
	EntityBooking = "BOOKING"
)

// ActivityLog is an append-only audit record. Username and role are snapshots
// of the actor at the time of the action; later profile changes do not rewrite
// history. Rows are never updated or deleted.
type ActivityLog struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	UserID      uint              `gorm:"index;not null" json:"user_id"`
	Username    string            `gorm:"size:180;not null" json:"username"`
	Role        string            `gorm:"size:32;not null" json:"role"`
	Action      string            `gorm:"size:32;index;not null" json:"action"`
	EntityType  string            `gorm:"size:32;not null" json:"entity_type"`
	EntityID    *uint             `json:"entity_id"`
	Description string            `gorm:"type:text" json:"description"`
	Metadata    datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt   time.Time         `gorm:"index" json:"created_at"`
}
