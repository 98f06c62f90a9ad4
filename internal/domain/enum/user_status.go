package enum

// UserStatus controls whether an account may log in
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusDisabled UserStatus = "disabled"
)

func (s UserStatus) IsValid() bool {
	return s == UserStatusActive || s == UserStatusDisabled
}
