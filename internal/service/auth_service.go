package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/shutterdesk/shutterdesk-api/internal/dto"
	"github.com/shutterdesk/shutterdesk-api/internal/models"
	"github.com/shutterdesk/shutterdesk-api/internal/repository"
)

// ErrInvalidCredentials indicates an unknown username or a wrong password.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ErrAccountDisabled indicates the account exists but has been deactivated.
var ErrAccountDisabled = errors.New("account has been disabled")

// AuthService authenticates users and issues JWT bearer tokens.
type AuthService interface {
	Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error)
	Logout(ctx context.Context, actor Actor) error
}

type authService struct {
	users     repository.UserRepository
	activity  ActivityRecorder
	validator *validator.Validate
	secret    []byte
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

// NewAuthService constructs the auth service.
func NewAuthService(users repository.UserRepository, activity ActivityRecorder, validate *validator.Validate, secret string, tokenTTL time.Duration, logger zerolog.Logger) AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &authService{
		users:     users,
		activity:  activity,
		validator: validate,
		secret:    []byte(secret),
		tokenTTL:  tokenTTL,
		logger:    logger.With().Str("component", "auth_service").Logger(),
	}
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LoginResponse{}, err
	}

	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(payload.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LoginResponse{}, ErrInvalidCredentials
		}
		return dto.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)); err != nil {
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	// Disabled accounts keep their data but cannot start new sessions.
	if !user.IsActive {
		return dto.LoginResponse{}, ErrAccountDisabled
	}

	token, err := s.issueToken(user)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	actor := ActorFromUser(user)
	userID := user.ID
	if s.activity != nil {
		_ = s.activity.Record(ctx, ActivityEntry{
			Actor:       actor,
			Action:      models.ActionLogin,
			EntityType:  models.EntityUser,
			EntityID:    &userID,
			Description: fmt.Sprintf("User %s logged in.", actor.DisplayName()),
		})
	}

	return dto.LoginResponse{Token: token, User: dto.NewUserResponse(user)}, nil
}

func (s *authService) Logout(ctx context.Context, actor Actor) error {
	userID := actor.ID
	if s.activity != nil {
		_ = s.activity.Record(ctx, ActivityEntry{
			Actor:       actor,
			Action:      models.ActionLogout,
			EntityType:  models.EntityUser,
			EntityID:    &userID,
			Description: fmt.Sprintf("User %s logged out.", actor.DisplayName()),
		})
	}
	return nil
}

func (s *authService) issueToken(user models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"email":    user.Email,
		"roles":    user.Roles.Strings(),
		"iat":      now.Unix(),
		"exp":      now.Add(s.tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to sign token")
		return "", err
	}
	return signed, nil
}

// ActorFromUser builds the explicit actor context from a loaded account.
func ActorFromUser(user models.User) Actor {
	return Actor{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Roles:    user.Roles,
	}
}

// HashPassword hashes a plaintext password for storage.
func HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
