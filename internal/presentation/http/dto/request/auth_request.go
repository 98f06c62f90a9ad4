package request

// LoginRequest represents a login request. Both fields are checked by the
// auth service so a missing one yields the standard message.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ChangePasswordRequest represents a password change by the logged-in user
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}
