package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dlsystem/blogbackend/apperr"
	"github.com/dlsystem/blogbackend/models"
	"github.com/dlsystem/blogbackend/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegister(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.register(t, "alice")
	assert.Equal(t, "alice", user.UserName)
	assert.True(t, user.Active)
	assert.Equal(t, models.RoleNormal, user.Role)
	assert.NotEqual(t, "alice-password", user.PasswordHash)

	stored, err := env.store.Users.GetByUserName(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, stored.ID)
}

func TestRegisterDuplicateIsConflict(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")

	_, err := env.auth.Register(context.Background(), RegisterInput{
		FirstName: "Other", LastName: "Alice", UserName: "alice", Role: models.RoleNormal, Password: "x",
	})
	appErr := assertKind(t, err, apperr.KindConflict)
	assert.Equal(t, http.StatusForbidden, appErr.HTTPStatus)
}

func TestRegisterDuplicateWithOtherRoleIsConflict(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")

	user, err := env.auth.Register(context.Background(), RegisterInput{
		FirstName: "Other", LastName: "Alice", UserName: "alice", Role: models.RoleAdmin, Password: "x",
	})
	assert.Nil(t, user)
	appErr := assertKind(t, err, apperr.KindConflict)
	assert.Equal(t, http.StatusForbidden, appErr.HTTPStatus)
}

func TestRegisterListsEveryMissingField(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auth.Register(context.Background(), RegisterInput{UserName: "alice"})
	appErr := assertKind(t, err, apperr.KindValidation)
	assert.Equal(t, []string{"first_name", "last_name", "user_type", "password"}, appErr.Missing)
}

func TestRegisterNonNormalRoleIsDropped(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.auth.Register(ctx, RegisterInput{
		FirstName: "Mallory", LastName: "M", UserName: "mallory", Role: models.RoleAdmin, Password: "pw",
	})
	assert.NoError(t, err)
	assert.Nil(t, user)

	ok, err := env.store.Users.Exists(ctx, "mallory")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCreateAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	admin := &models.User{ID: "admin-id", UserName: "root", Role: models.RoleAdmin, Active: true}

	in := RegisterInput{FirstName: "Op", LastName: "Erator", UserName: "ops", Role: models.RoleAdmin, Password: "pw"}

	_, err := env.auth.CreateAdmin(ctx, alice, in)
	assertKind(t, err, apperr.KindAuthorization)

	_, err = env.auth.CreateAdmin(ctx, nil, in)
	assertKind(t, err, apperr.KindAuthentication)

	bad := in
	bad.Role = "superuser"
	_, err = env.auth.CreateAdmin(ctx, admin, bad)
	assertKind(t, err, apperr.KindValidation)

	user, err := env.auth.CreateAdmin(ctx, admin, in)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
}

func TestResolveToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")

	pair, err := env.tokens.Issue(alice)
	require.NoError(t, err)

	user, err := env.auth.ResolveToken(ctx, pair.Access)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, user.ID)

	for _, raw := range []string{"", "   ", "not-a-token", pair.Refresh} {
		_, err = env.auth.ResolveToken(ctx, raw)
		appErr := assertKind(t, err, apperr.KindAuthentication)
		assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
	}
}

func TestResolveTokenExpired(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")

	past := env.tokens.WithClock(func() time.Time { return time.Now().Add(-time.Hour) })
	access, err := past.IssueAccess(alice)
	require.NoError(t, err)

	_, err = env.auth.ResolveToken(context.Background(), access)
	appErr := assertKind(t, err, apperr.KindAuthentication)
	assert.Equal(t, "token has expired", appErr.Message)
}

func TestResolveTokenRefetchesUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ghost := &models.User{ID: "ghost", UserName: "ghost", Role: models.RoleNormal}
	access, err := env.tokens.IssueAccess(ghost)
	require.NoError(t, err)
	_, err = env.auth.ResolveToken(ctx, access)
	assertKind(t, err, apperr.KindAuthentication)

	inactive := &models.User{ID: "sleepy", UserName: "sleepy", Role: models.RoleNormal, Active: false}
	require.NoError(t, env.store.Users.Create(ctx, inactive))
	access, err = env.tokens.IssueAccess(inactive)
	require.NoError(t, err)
	_, err = env.auth.ResolveToken(ctx, access)
	assertKind(t, err, apperr.KindAuthentication)
}

func TestResolvePassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "alice")

	user, err := env.auth.ResolvePassword(ctx, "alice", "alice-password")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.UserName)

	_, err = env.auth.ResolvePassword(ctx, "nobody", "x")
	assertKind(t, err, apperr.KindNotFound)

	_, err = env.auth.ResolvePassword(ctx, "alice", "wrong")
	appErr := assertKind(t, err, apperr.KindAuthentication)
	assert.Equal(t, http.StatusUnauthorized, appErr.HTTPStatus)

	_, err = env.auth.ResolvePassword(ctx, "", "")
	appErr = assertKind(t, err, apperr.KindValidation)
	assert.Equal(t, []string{"id_code", "password"}, appErr.Missing)

	hash, err := utils.BcryptHasher{Cost: bcrypt.MinCost}.Hash("pw")
	require.NoError(t, err)
	require.NoError(t, env.store.Users.Create(ctx, &models.User{ID: "sleepy", UserName: "sleepy", Role: models.RoleNormal, PasswordHash: hash}))
	_, err = env.auth.ResolvePassword(ctx, "sleepy", "pw")
	appErr = assertKind(t, err, apperr.KindAuthentication)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
}

func TestManualLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "alice")

	res, err := env.auth.ManualLogin(ctx, "alice", "alice-password", false)
	require.NoError(t, err)
	assert.Equal(t, "alice", res.User.UserName)
	assert.Nil(t, res.Tokens)

	res, err = env.auth.ManualLogin(ctx, "alice", "alice-password", true)
	require.NoError(t, err)
	require.NotNil(t, res.Tokens)

	user, err := env.auth.ResolveToken(ctx, res.Tokens.Access)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, user.ID)
}

func TestRefresh(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")

	pair, err := env.tokens.Issue(alice)
	require.NoError(t, err)

	access, err := env.auth.Refresh(ctx, pair.Refresh)
	require.NoError(t, err)
	user, err := env.auth.ResolveToken(ctx, access)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, user.ID)

	_, err = env.auth.Refresh(ctx, pair.Access)
	assertKind(t, err, apperr.KindAuthentication)

	_, err = env.auth.Refresh(ctx, "")
	assertKind(t, err, apperr.KindValidation)
}
