package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/shutterdesk/shutterdesk-api/internal/dto"
	"github.com/shutterdesk/shutterdesk-api/internal/models"
	"github.com/shutterdesk/shutterdesk-api/internal/repository"
)

// ErrUserNotFound indicates the referenced account does not exist.
var ErrUserNotFound = errors.New("user not found")

// ErrUserForbidden indicates the actor may not manage accounts.
var ErrUserForbidden = errors.New("insufficient permissions for user management")

// UserService covers admin account management and self-service profiles.
type UserService interface {
	List(ctx context.Context, actor Actor, page, pageSize int, search string) (dto.UserListResponse, error)
	Get(ctx context.Context, actor Actor, id uint) (dto.UserResponse, error)
	Create(ctx context.Context, actor Actor, payload dto.UserCreateRequest) (dto.UserResponse, error)
	Update(ctx context.Context, actor Actor, id uint, payload dto.UserUpdateRequest) (dto.UserResponse, error)
	Delete(ctx context.Context, actor Actor, id uint) error
	SetActive(ctx context.Context, actor Actor, id uint, active bool) (dto.UserResponse, error)
	Profile(ctx context.Context, actor Actor) (dto.UserResponse, error)
	UpdateProfile(ctx context.Context, actor Actor, payload dto.ProfileUpdateRequest) (dto.UserResponse, error)
}

type userService struct {
	repo      repository.UserRepository
	activity  ActivityRecorder
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewUserService constructs the user service.
func NewUserService(repo repository.UserRepository, activity ActivityRecorder, validate *validator.Validate, logger zerolog.Logger) UserService {
	return &userService{
		repo:      repo,
		activity:  activity,
		validator: validate,
		logger:    logger.With().Str("component", "user_service").Logger(),
	}
}

func (s *userService) List(ctx context.Context, actor Actor, page, pageSize int, search string) (dto.UserListResponse, error) {
	if !actor.IsAdmin() {
		return dto.UserListResponse{}, ErrUserForbidden
	}

	users, total, err := s.repo.List(ctx, repository.UserFilter{
		Search:   search,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return dto.UserListResponse{}, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, dto.NewUserResponse(user))
	}

	pagination := dto.PaginationMeta{
		Page:       maxInt(page, 1),
		PageSize:   pageSize,
		TotalItems: total,
	}
	if pageSize > 0 {
		pagination.TotalPages = int(math.Ceil(float64(total) / float64(pageSize)))
	} else {
		pagination.TotalPages = 1
	}

	return dto.UserListResponse{Items: responses, Pagination: pagination}, nil
}

func (s *userService) Get(ctx context.Context, actor Actor, id uint) (dto.UserResponse, error) {
	if !actor.IsAdmin() {
		return dto.UserResponse{}, ErrUserForbidden
	}
	user, err := s.getUser(ctx, id)
	if err != nil {
		return dto.UserResponse{}, err
	}
	return dto.NewUserResponse(user), nil
}

func (s *userService) Create(ctx context.Context, actor Actor, payload dto.UserCreateRequest) (dto.UserResponse, error) {
	if !actor.IsAdmin() {
		return dto.UserResponse{}, ErrUserForbidden
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	hash, err := HashPassword(payload.Password)
	if err != nil {
		return dto.UserResponse{}, err
	}

	user := models.User{
		Username:     strings.TrimSpace(payload.Username),
		Email:        strings.TrimSpace(payload.Email),
		PasswordHash: hash,
		IsActive:     true,
		Roles:        models.ParseRoleSet([]string{payload.Role}),
	}

	if err := s.repo.Create(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	s.auditUser(ctx, actor, models.ActionCreate, user, fmt.Sprintf(
		"Admin %s created user %s (ID %d).", actor.DisplayName(), user.DisplayName(), user.ID))

	return dto.NewUserResponse(user), nil
}

func (s *userService) Update(ctx context.Context, actor Actor, id uint, payload dto.UserUpdateRequest) (dto.UserResponse, error) {
	if !actor.IsAdmin() {
		return dto.UserResponse{}, ErrUserForbidden
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	user, err := s.getUser(ctx, id)
	if err != nil {
		return dto.UserResponse{}, err
	}

	changed := make([]string, 0, 4)
	if payload.Username != nil {
		if trimmed := strings.TrimSpace(*payload.Username); trimmed != user.Username {
			user.Username = trimmed
			changed = append(changed, "username")
		}
	}
	if payload.Email != nil {
		if trimmed := strings.TrimSpace(*payload.Email); trimmed != user.Email {
			user.Email = trimmed
			changed = append(changed, "email")
		}
	}
	if payload.Password != nil && *payload.Password != "" {
		hash, err := HashPassword(*payload.Password)
		if err != nil {
			return dto.UserResponse{}, err
		}
		user.PasswordHash = hash
		changed = append(changed, "password")
	}
	if payload.Role != nil {
		roles := models.ParseRoleSet([]string{*payload.Role})
		if roles.Primary() != user.Roles.Primary() || len(user.Roles) != len(roles) {
			user.Roles = roles
			changed = append(changed, "roles")
		}
	}
	if payload.IsActive != nil && *payload.IsActive != user.IsActive {
		user.IsActive = *payload.IsActive
		changed = append(changed, "is_active")
	}

	if len(changed) == 0 {
		return dto.NewUserResponse(user), nil
	}

	if err := s.repo.Update(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	// A pure activation toggle gets its own ENABLE/DISABLE entry via
	// SetActive; the generic UPDATE entry would double-log it.
	if !onlyActiveToggled(changed) {
		s.auditUser(ctx, actor, models.ActionUpdate, user, fmt.Sprintf(
			"Admin %s updated user %s (ID %d).", actor.DisplayName(), user.DisplayName(), user.ID))
	}

	return dto.NewUserResponse(user), nil
}

func (s *userService) Delete(ctx context.Context, actor Actor, id uint) error {
	if !actor.IsAdmin() {
		return ErrUserForbidden
	}

	user, err := s.getUser(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	s.auditUser(ctx, actor, models.ActionDelete, user, fmt.Sprintf(
		"Admin %s deleted user %s (ID %d).", actor.DisplayName(), user.DisplayName(), user.ID))

	return nil
}

// SetActive enables or disables an account. Disabling blocks future logins but
// keeps all data. Exactly one ENABLE/DISABLE audit entry is written.
func (s *userService) SetActive(ctx context.Context, actor Actor, id uint, active bool) (dto.UserResponse, error) {
	if !actor.IsAdmin() {
		return dto.UserResponse{}, ErrUserForbidden
	}

	if err := s.repo.SetActive(ctx, id, active); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	user, err := s.getUser(ctx, id)
	if err != nil {
		return dto.UserResponse{}, err
	}

	action := models.ActionEnable
	verb := "enabled"
	if !active {
		action = models.ActionDisable
		verb = "disabled"
	}
	s.auditUser(ctx, actor, action, user, fmt.Sprintf(
		"Admin %s %s user %s (ID %d).", actor.DisplayName(), verb, user.DisplayName(), user.ID))

	return dto.NewUserResponse(user), nil
}

func (s *userService) Profile(ctx context.Context, actor Actor) (dto.UserResponse, error) {
	user, err := s.getUser(ctx, actor.ID)
	if err != nil {
		return dto.UserResponse{}, err
	}
	return dto.NewUserResponse(user), nil
}

// UpdateProfile lets any authenticated user edit their own account. Profile
// edits by non-admins are not audited, matching the admin-only audit policy.
func (s *userService) UpdateProfile(ctx context.Context, actor Actor, payload dto.ProfileUpdateRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	user, err := s.getUser(ctx, actor.ID)
	if err != nil {
		return dto.UserResponse{}, err
	}

	if payload.Username != nil {
		user.Username = strings.TrimSpace(*payload.Username)
	}
	if payload.Email != nil {
		user.Email = strings.TrimSpace(*payload.Email)
	}
	if payload.Password != nil && *payload.Password != "" {
		hash, err := HashPassword(*payload.Password)
		if err != nil {
			return dto.UserResponse{}, err
		}
		user.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	if actor.IsAdmin() {
		s.auditUser(ctx, actor, models.ActionUpdate, user, fmt.Sprintf(
			"Admin %s updated user %s (ID %d).", actor.DisplayName(), user.DisplayName(), user.ID))
	}

	return dto.NewUserResponse(user), nil
}

func (s *userService) getUser(ctx context.Context, id uint) (models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// auditUser writes a user-entity audit entry. User mutations are only audited
// when the acting identity is an admin.
func (s *userService) auditUser(ctx context.Context, actor Actor, action string, subject models.User, description string) {
	if s.activity == nil || !actor.IsAdmin() {
		return
	}
	subjectID := subject.ID
	_ = s.activity.Record(ctx, ActivityEntry{
		Actor:       actor,
		Action:      action,
		EntityType:  models.EntityUser,
		EntityID:    &subjectID,
		Description: description,
	})
}

func onlyActiveToggled(changed []string) bool {
	for _, field := range changed {
		if field != "is_active" {
			return false
		}
	}
	return len(changed) > 0
}
