package request

// CreateUserRequest represents a user creation request
type CreateUserRequest struct {
	Username string   `json:"username" binding:"max=64"`
	Password string   `json:"password"`
	Email    string   `json:"email" binding:"max=255"`
	Status   string   `json:"status"`
	Roles    []string `json:"roles"`
}

// UpdateUserRequest represents a partial user update
type UpdateUserRequest struct {
	Email    *string `json:"email"`
	Status   *string `json:"status"`
	Password *string `json:"password"`
}

// SetRolesRequest replaces the roles of a user
type SetRolesRequest struct {
	Roles []string `json:"roles" binding:"required"`
}
