package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/svs-ops-api/internal/domain/entity"
	"github.com/sangkips/svs-ops-api/internal/domain/enum"
	"github.com/sangkips/svs-ops-api/internal/domain/repository"
	"github.com/sangkips/svs-ops-api/pkg/apperror"
	"github.com/sangkips/svs-ops-api/pkg/utils"
)

const duplicateUserMessage = "username or email already exists"

// UserService handles user management operations
type UserService struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
	settings Settings
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository, roleRepo repository.RoleRepository, settings Settings) *UserService {
	return &UserService{
		userRepo: userRepo,
		roleRepo: roleRepo,
		settings: settings.withDefaults(),
	}
}

// UserSummary is the public view of a user
type UserSummary struct {
	ID       uuid.UUID       `json:"id"`
	Username string          `json:"username"`
	Email    string          `json:"email"`
	Status   enum.UserStatus `json:"status"`
	Roles    []string        `json:"roles"`
}

func summarize(u *entity.User) UserSummary {
	return UserSummary{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Status:   u.Status,
		Roles:    u.RoleNames(),
	}
}

func parseStatus(s string) (enum.UserStatus, error) {
	st := enum.UserStatus(strings.ToLower(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", apperror.NewBadRequestError("status must be active|disabled")
	}
	return st, nil
}

// ListUsers returns users ordered by username
func (s *UserService) ListUsers(ctx context.Context, search string) ([]UserSummary, error) {
	ctx, cancel := s.settings.withTimeout(ctx)
	defer cancel()

	users, err := s.userRepo.List(ctx, strings.TrimSpace(search))
	if err != nil {
		return nil, err
	}
	out := make([]UserSummary, 0, len(users))
	for i := range users {
		out = append(out, summarize(&users[i]))
	}
	return out, nil
}

// CreateUserInput represents the create user input
type CreateUserInput struct {
	Username string
	Password string
	Email    string
	Status   string
	Roles    []string
}

// CreateUser creates a user. Users created without roles get the staff role.
func (s *UserService) CreateUser(ctx context.Context, input *CreateUserInput) (*UserSummary, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))
	if username == "" || input.Password == "" {
		return nil, apperror.NewBadRequestError("username & password required")
	}
	status := enum.UserStatusActive
	if input.Status != "" {
		st, err := parseStatus(input.Status)
		if err != nil {
			return nil, err
		}
		status = st
	}

	ctx, cancel := s.settings.withTimeout(ctx)
	defer cancel()

	roleNames := input.Roles
	if len(roleNames) == 0 {
		roleNames = []string{enum.RoleStaff}
	}
	roles, err := s.resolveRoles(ctx, roleNames)
	if err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Username:     username,
		Email:        utils.DeriveEmail(username, input.Email),
		PasswordHash: hash,
		Status:       status,
		Roles:        roles,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, apperror.FromDB(err, duplicateUserMessage)
	}

	out := summarize(user)
	return &out, nil
}

// UpdateUserInput represents a partial user update. Nil fields are left unchanged.
type UpdateUserInput struct {
	ID       uuid.UUID
	Email    *string
	Status   *string
	Password *string
}

// UpdateUser changes the email, status or password of a user
func (s *UserService) UpdateUser(ctx context.Context, input *UpdateUserInput) (*UserSummary, error) {
	fields := make(map[string]interface{})

	if input.Password != nil && *input.Password != "" {
		hash, err := utils.HashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		fields["password_hash"] = hash
	}
	if input.Status != nil && *input.Status != "" {
		st, err := parseStatus(*input.Status)
		if err != nil {
			return nil, err
		}
		fields["status"] = st
	}
	if input.Email != nil && strings.TrimSpace(*input.Email) != "" {
		fields["email"] = utils.DeriveEmail("", *input.Email)
	}
	if len(fields) == 0 {
		return nil, apperror.NewBadRequestError("nothing to update")
	}
	fields["updated_at"] = s.settings.Now()

	ctx, cancel := s.settings.withTimeout(ctx)
	defer cancel()

	ok, err := s.userRepo.UpdateFields(ctx, input.ID, fields)
	if err != nil {
		return nil, apperror.FromDB(err, duplicateUserMessage)
	}
	if !ok {
		return nil, apperror.ErrNotFound
	}
	return s.getSummary(ctx, input.ID)
}

// DeleteUser removes a user and its role assignments
func (s *UserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := s.settings.withTimeout(ctx)
	defer cancel()

	ok, err := s.userRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.ErrNotFound
	}
	return nil
}

// SetRoles replaces the roles of a user
func (s *UserService) SetRoles(ctx context.Context, id uuid.UUID, roleNames []string) (*UserSummary, error) {
	ctx, cancel := s.settings.withTimeout(ctx)
	defer cancel()

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrNotFound
	}

	roles, err := s.resolveRoles(ctx, roleNames)
	if err != nil {
		return nil, err
	}
	roleIDs := make([]uint, 0, len(roles))
	for _, r := range roles {
		roleIDs = append(roleIDs, r.ID)
	}
	if err := s.userRepo.ReplaceRoles(ctx, id, roleIDs); err != nil {
		return nil, err
	}
	return s.getSummary(ctx, id)
}

// ListRoles returns all roles with their permissions
func (s *UserService) ListRoles(ctx context.Context) ([]entity.Role, error) {
	ctx, cancel := s.settings.withTimeout(ctx)
	defer cancel()
	return s.roleRepo.List(ctx)
}

func (s *UserService) getSummary(ctx context.Context, id uuid.UUID) (*UserSummary, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrNotFound
	}
	out := summarize(user)
	return &out, nil
}

// resolveRoles loads the named roles, failing when any name is unknown.
func (s *UserService) resolveRoles(ctx context.Context, names []string) ([]entity.Role, error) {
	seen := make(map[string]bool, len(names))
	wanted := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		wanted = append(wanted, n)
	}
	if len(wanted) == 0 {
		return nil, nil
	}

	roles, err := s.roleRepo.GetByNames(ctx, wanted)
	if err != nil {
		return nil, err
	}
	if len(roles) != len(wanted) {
		found := make(map[string]bool, len(roles))
		for _, r := range roles {
			found[r.Name] = true
		}
		var missing []string
		for _, n := range wanted {
			if !found[n] {
				missing = append(missing, n)
			}
		}
		sort.Strings(missing)
		return nil, apperror.NewBadRequestError(fmt.Sprintf("unknown role: %s", strings.Join(missing, ", ")))
	}
	return roles, nil
}
