package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/svs-ops-api/internal/domain/entity"
	"github.com/sangkips/svs-ops-api/internal/domain/enum"
	"github.com/sangkips/svs-ops-api/internal/domain/repository"
	"github.com/sangkips/svs-ops-api/pkg/apperror"
	"github.com/sangkips/svs-ops-api/pkg/utils"
)

// AuthService handles authentication-related operations
type AuthService struct {
	userRepo   repository.UserRepository
	jwtManager *utils.JWTManager
	settings   Settings
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepository, jwtManager *utils.JWTManager, settings Settings) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		settings:   settings.withDefaults(),
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Username string
	Password string
}

// LoginUser is the user summary returned on login
type LoginUser struct {
	ID       uuid.UUID       `json:"id"`
	Username string          `json:"username"`
	Status   enum.UserStatus `json:"status"`
	Perms    []string        `json:"perms"`
}

// LoginOutput represents the login output
type LoginOutput struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int64     `json:"expires_in"`
	User        LoginUser `json:"user"`
}

// MeUser identifies the token holder
type MeUser struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

// MeOutput describes the holder of a valid token
type MeOutput struct {
	OK    bool     `json:"ok"`
	User  MeUser   `json:"user"`
	Perms []string `json:"perms"`
}

// Login authenticates a user and issues an access token. Unknown users,
// wrong passwords and disabled accounts fail identically.
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return nil, apperror.NewBadRequestError("username & password required")
	}

	ctx, cancel := s.settings.withTimeout(ctx)
	defer cancel()

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		utils.EqualizeTiming(input.Password)
		return nil, apperror.ErrInvalidCredentials
	}
	if !utils.CheckPasswordHash(input.Password, user.PasswordHash) || !user.IsActive() {
		return nil, apperror.ErrInvalidCredentials
	}

	user, err = s.userRepo.GetWithRoles(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrInvalidCredentials
	}

	perms := EffectivePermissions(user)
	token, err := s.jwtManager.GenerateAccessToken(user.ID, user.Username, perms)
	if err != nil {
		return nil, err
	}

	return &LoginOutput{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.jwtManager.AccessTokenTTL().Seconds()),
		User: LoginUser{
			ID:       user.ID,
			Username: user.Username,
			Status:   user.Status,
			Perms:    perms,
		},
	}, nil
}

// Me validates a bearer token and describes its holder
func (s *AuthService) Me(token string) (*MeOutput, error) {
	if strings.TrimSpace(token) == "" {
		return nil, apperror.ErrMissingToken
	}
	claims, err := s.jwtManager.ValidateAccessToken(token)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}

	perms := claims.Permissions
	if perms == nil {
		perms = []string{}
	}
	return &MeOutput{
		OK:    true,
		User:  MeUser{ID: claims.UserID, Username: claims.Username},
		Perms: perms,
	}, nil
}

// MinPasswordLength is the shortest password ChangePassword accepts.
const MinPasswordLength = 8

// ChangePasswordInput represents a password change by the account holder
type ChangePasswordInput struct {
	UserID          uuid.UUID
	CurrentPassword string
	NewPassword     string
}

// ChangePassword replaces the caller's password after checking the current one
func (s *AuthService) ChangePassword(ctx context.Context, input *ChangePasswordInput) error {
	if input.UserID == uuid.Nil {
		return apperror.ErrUnauthorized
	}

	ctx, cancel := s.settings.withTimeout(ctx)
	defer cancel()

	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.NewNotFoundError("user")
	}
	if !utils.CheckPasswordHash(input.CurrentPassword, user.PasswordHash) {
		return apperror.NewBadRequestError("Current password incorrect")
	}
	if len(input.NewPassword) < MinPasswordLength {
		return apperror.NewBadRequestError(fmt.Sprintf("New password too short (min %d chars)", MinPasswordLength))
	}

	hash, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}
	ok, err := s.userRepo.UpdateFields(ctx, user.ID, map[string]interface{}{
		"password_hash": hash,
		"updated_at":    s.settings.Now(),
	})
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NewNotFoundError("user")
	}
	return nil
}

// EffectivePermissions returns the permissions granted through the user's
// roles, or the default set when the user has none.
func EffectivePermissions(user *entity.User) []string {
	if len(user.Roles) == 0 {
		return append([]string(nil), enum.DefaultPermissions...)
	}
	return user.GetPermissions()
}
