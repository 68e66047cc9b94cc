package dto

import (
	"time"

	"github.com/shutterdesk/shutterdesk-api/internal/models"
)

// UserResponse serialises an account for API consumers.
type UserResponse struct {
	ID          uint      `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	Roles       []string  `json:"roles"`
	PrimaryRole string    `json:"primary_role"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewUserResponse maps a user model to its response form.
func NewUserResponse(user models.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Roles:       user.Roles.Strings(),
		PrimaryRole: string(user.Roles.Primary()),
		IsActive:    user.IsActive,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}

// UserListResponse wraps a paginated user listing.
type UserListResponse struct {
	Items      []UserResponse `json:"items"`
	Pagination PaginationMeta `json:"pagination"`
}

// UserCreateRequest is the admin user-creation payload.
type UserCreateRequest struct {
	Username string `json:"username" validate:"required,min=3,max=180"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=admin photographer client"`
}

// UserUpdateRequest captures partial updates to an account.
type UserUpdateRequest struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=180"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=8"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin photographer client"`
	IsActive *bool   `json:"is_active"`
}

// ProfileUpdateRequest is the self-service profile payload.
type ProfileUpdateRequest struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=180"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=8"`
}

// PhotographerSummary is a public directory entry.
type PhotographerSummary struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	AlbumsCount int64  `json:"albums_count"`
	PhotosCount int64  `json:"photos_count"`
}

// PhotographerDirectoryResponse lists active photographers.
type PhotographerDirectoryResponse struct {
	Items []PhotographerSummary `json:"items"`
}
