package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/svs-ops-api/internal/application/service"
	"github.com/sangkips/svs-ops-api/internal/presentation/http/dto/request"
	"github.com/sangkips/svs-ops-api/internal/presentation/http/dto/response"
)

// UserHandler handles user management HTTP requests
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List handles listing users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, users)
}

// Create handles creating a user
func (h *UserHandler) Create(c *gin.Context) {
	var req request.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), &service.CreateUserInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Status:   req.Status,
		Roles:    req.Roles,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, user)
}

// Update handles a partial user update
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req request.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), &service.UpdateUserInput{
		ID:       id,
		Email:    req.Email,
		Status:   req.Status,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, user)
}

// Delete handles deleting a user
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Ack(c)
}

// SetRoles handles replacing the roles of a user
func (h *UserHandler) SetRoles(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req request.SetRolesRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.SetRoles(c.Request.Context(), id, req.Roles)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, user)
}

// ListRoles handles listing roles with their permissions
func (h *UserHandler) ListRoles(c *gin.Context) {
	roles, err := h.userService.ListRoles(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, roles)
}
