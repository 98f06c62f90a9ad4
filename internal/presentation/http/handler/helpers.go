package handler

import (
	"errors"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/svs-ops-api/internal/presentation/http/dto/response"
	"github.com/sangkips/svs-ops-api/pkg/pagination"
)

// Context keys set by the auth middleware.
const (
	UserIDKey          = "user_id"
	UsernameKey        = "username"
	UserPermissionsKey = "user_permissions"
)

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get(UserIDKey)
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// GetUsername extracts the username from the Gin context
func GetUsername(c *gin.Context) string {
	return c.GetString(UsernameKey)
}

// GetUserPermissions extracts the user permissions from the Gin context
func GetUserPermissions(c *gin.Context) []string {
	permissions, exists := c.Get(UserPermissionsKey)
	if !exists {
		return nil
	}
	perms, _ := permissions.([]string)
	return perms
}

// BearerToken returns the token of an "Authorization: Bearer <token>"
// header, or "" when the header is absent or malformed.
func BearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// pathID parses the :id path parameter, writing a 400 when it is not a UUID.
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON decodes the request body, writing a 400 on failure.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// bindOptionalJSON is bindJSON for endpoints whose body may be omitted.
// An empty body, chunked or not, leaves dst untouched.
func bindOptionalJSON(c *gin.Context, dst interface{}) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	response.BadRequest(c, "invalid request body: "+err.Error())
	return false
}

// bindQuery decodes query parameters, writing a 400 on failure.
func bindQuery(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return false
	}
	return true
}

func pageParams(page, pageSize int) *pagination.PaginationParams {
	p := &pagination.PaginationParams{Page: page, PageSize: pageSize}
	p.Validate()
	return p
}
