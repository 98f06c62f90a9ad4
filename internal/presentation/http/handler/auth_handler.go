package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/svs-ops-api/internal/application/service"
	"github.com/sangkips/svs-ops-api/internal/presentation/http/dto/request"
	"github.com/sangkips/svs-ops-api/internal/presentation/http/dto/response"
	"github.com/sangkips/svs-ops-api/pkg/apperror"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles user login
// @Summary Login
// @Description Authenticate user and return an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.LoginRequest true "Login credentials"
// @Success 200 {object} service.LoginOutput
// @Failure 401 {object} response.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	output, err := h.authService.Login(c.Request.Context(), &service.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, output)
}

// Me describes the holder of the bearer token
// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} service.MeOutput
// @Failure 401 {object} response.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	output, err := h.authService.Me(BearerToken(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, output)
}

// ChangePassword replaces the caller's password
// @Summary Change password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.ChangePasswordRequest true "Current and new password"
// @Failure 400 {object} response.ErrorResponse
// @Router /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req request.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	userID := GetUserID(c)
	if userID == nil {
		response.Error(c, apperror.ErrUnauthorized)
		return
	}

	err := h.authService.ChangePassword(c.Request.Context(), &service.ChangePasswordInput{
		UserID:          *userID,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, response.OKResponse{OK: true})
}
