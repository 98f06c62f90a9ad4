package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/svs-ops-api/internal/domain/entity"
	"github.com/sangkips/svs-ops-api/internal/domain/enum"
	"github.com/sangkips/svs-ops-api/pkg/apperror"
	"github.com/sangkips/svs-ops-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture(t *testing.T) (*AuthService, *mockUserRepo, *mockRoleRepo) {
	t.Helper()
	roles := newMockRoleRepo()
	users := newMockUserRepo(roles)
	jwt := utils.NewJWTManager("test-secret", 2*time.Hour, "svs-ops-api")
	return NewAuthService(users, jwt, testSettings()), users, roles
}

func addUser(t *testing.T, users *mockUserRepo, username, password string, status enum.UserStatus, roles ...entity.Role) *entity.User {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	u := &entity.User{ID: uuid.New(), Username: username, Email: username + "@local.local", PasswordHash: hash, Status: status, Roles: roles}
	require.NoError(t, users.Create(context.Background(), u))
	return u
}

func TestLogin_Success(t *testing.T) {
	svc, users, roles := newAuthFixture(t)
	u := addUser(t, users, "alice", "s3cret", enum.UserStatusActive, roles.byName(enum.RoleViewer))

	out, err := svc.Login(context.Background(), &LoginInput{Username: " alice ", Password: "s3cret"})
	require.NoError(t, err)

	assert.Equal(t, "bearer", out.TokenType)
	assert.Equal(t, int64(7200), out.ExpiresIn)
	assert.Equal(t, u.ID, out.User.ID)
	assert.Equal(t, enum.UserStatusActive, out.User.Status)
	assert.ElementsMatch(t, enum.RolePermissions[enum.RoleViewer], out.User.Perms)

	me, err := svc.Me(out.AccessToken)
	require.NoError(t, err)
	assert.True(t, me.OK)
	assert.Equal(t, u.ID, me.User.ID)
	assert.Equal(t, "alice", me.User.Username)
	assert.Equal(t, out.User.Perms, me.Perms)
}

func TestLogin_NoRolesGetsDefaultPermissions(t *testing.T) {
	svc, users, _ := newAuthFixture(t)
	addUser(t, users, "bob", "pw", enum.UserStatusActive)

	out, err := svc.Login(context.Background(), &LoginInput{Username: "bob", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, enum.DefaultPermissions, out.User.Perms)

	out.User.Perms[0] = "mutated"
	assert.NotEqual(t, "mutated", enum.DefaultPermissions[0])
}

func TestLogin_Failures(t *testing.T) {
	svc, users, _ := newAuthFixture(t)
	addUser(t, users, "carol", "right", enum.UserStatusActive)
	addUser(t, users, "dave", "right", enum.UserStatusDisabled)

	tests := []struct {
		name     string
		username string
		password string
		want     error
	}{
		{"missing password", "carol", "", nil},
		{"missing username", "", "x", nil},
		{"unknown user", "nobody", "right", apperror.ErrInvalidCredentials},
		{"wrong password", "carol", "wrong", apperror.ErrInvalidCredentials},
		{"disabled account", "dave", "right", apperror.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), &LoginInput{Username: tt.username, Password: tt.password})
			require.Error(t, err)
			if tt.want == nil {
				assertAppError(t, err, http.StatusBadRequest, "username & password required")
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestMe_Errors(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Me("")
	assert.ErrorIs(t, err, apperror.ErrMissingToken)

	_, err = svc.Me("not-a-jwt")
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)

	other := utils.NewJWTManager("other-secret", time.Hour, "svs-ops-api")
	token, err := other.GenerateAccessToken(uuid.New(), "eve", nil)
	require.NoError(t, err)
	_, err = svc.Me(token)
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)
}

func TestMe_NilPermissionsBecomeEmpty(t *testing.T) {
	jwt := utils.NewJWTManager("test-secret", time.Hour, "svs-ops-api")
	svc := NewAuthService(newMockUserRepo(newMockRoleRepo()), jwt, testSettings())

	token, err := jwt.GenerateAccessToken(uuid.New(), "frank", nil)
	require.NoError(t, err)

	me, err := svc.Me(token)
	require.NoError(t, err)
	assert.NotNil(t, me.Perms)
	assert.Empty(t, me.Perms)
}

func TestChangePassword(t *testing.T) {
	svc, users, _ := newAuthFixture(t)
	u := addUser(t, users, "carol", "old-password", enum.UserStatusActive)
	ctx := context.Background()

	err := svc.ChangePassword(ctx, &ChangePasswordInput{UserID: u.ID, CurrentPassword: "wrong", NewPassword: "new-password"})
	assertAppError(t, err, http.StatusBadRequest, "Current password incorrect")

	err = svc.ChangePassword(ctx, &ChangePasswordInput{UserID: u.ID, CurrentPassword: "old-password", NewPassword: "short"})
	assertAppError(t, err, http.StatusBadRequest, "New password too short (min 8 chars)")

	err = svc.ChangePassword(ctx, &ChangePasswordInput{UserID: uuid.New(), CurrentPassword: "old-password", NewPassword: "new-password"})
	assertAppError(t, err, http.StatusNotFound, "user not found")

	assert.ErrorIs(t, svc.ChangePassword(ctx, &ChangePasswordInput{}), apperror.ErrUnauthorized)

	require.NoError(t, svc.ChangePassword(ctx, &ChangePasswordInput{UserID: u.ID, CurrentPassword: "old-password", NewPassword: "new-password"}))

	_, err = svc.Login(ctx, &LoginInput{Username: "carol", Password: "old-password"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
	_, err = svc.Login(ctx, &LoginInput{Username: "carol", Password: "new-password"})
	assert.NoError(t, err)
}
