package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dlsystem/blogbackend/apperr"
	"github.com/dlsystem/blogbackend/models"
	"github.com/dlsystem/blogbackend/repository"
	"github.com/dlsystem/blogbackend/storage"
	"github.com/dlsystem/blogbackend/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var (
	testAccessSecret  = strings.Repeat("a", 32)
	testRefreshSecret = strings.Repeat("r", 32)
)

type testEnv struct {
	store    *repository.Store
	content  *storage.MemoryStore
	tokens   *TokenService
	auth     *AuthService
	blogs    *BlogService
	comments *CommentService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	tokens, err := NewTokenService(testAccessSecret, testRefreshSecret, 15*time.Minute, 24*time.Hour)
	require.NoError(t, err)

	store := repository.NewMemoryStore()
	content := storage.NewMemoryStore()
	return &testEnv{
		store:    store,
		content:  content,
		tokens:   tokens,
		auth:     NewAuthService(store.Users, utils.BcryptHasher{Cost: bcrypt.MinCost}, tokens),
		blogs:    NewBlogService(store, content),
		comments: NewCommentService(store),
	}
}

func (e *testEnv) register(t *testing.T, name string) *models.User {
	t.Helper()
	user, err := e.auth.Register(context.Background(), RegisterInput{
		FirstName: strings.ToUpper(name[:1]) + name[1:],
		LastName:  "Tester",
		UserName:  name,
		Role:      models.RoleNormal,
		Password:  name + "-password",
	})
	require.NoError(t, err)
	require.NotNil(t, user)
	return user
}

func (e *testEnv) blog(t *testing.T, owner *models.User) *models.BlogView {
	t.Helper()
	view, err := e.blogs.Create(context.Background(), owner, CreateBlogInput{
		Title:       "Hello",
		Description: "first post",
		Content:     "body",
		Tags:        "lovely, fun",
	})
	require.NoError(t, err)
	return view
}

func assertKind(t *testing.T, err error, kind apperr.Kind) *apperr.AppError {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperr.As(err)
	require.True(t, ok, "expected *apperr.AppError, got %T: %v", err, err)
	assert.Equal(t, kind, appErr.Kind, appErr.Error())
	return appErr
}
