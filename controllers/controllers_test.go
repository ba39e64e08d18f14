package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dlsystem/blogbackend/database"
	"github.com/dlsystem/blogbackend/models"
	"github.com/dlsystem/blogbackend/repository"
	"github.com/dlsystem/blogbackend/services"
	"github.com/dlsystem/blogbackend/storage"
	"github.com/dlsystem/blogbackend/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testServer struct {
	t       *testing.T
	router  *gin.Engine
	store   *repository.Store
	content *storage.MemoryStore
	tokens  *services.TokenService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithStore(t, repository.NewMemoryStore())
}

func newSQLiteStore(t *testing.T) *repository.Store {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "blog.db"), false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.CloseSQLite(db) })
	return repository.NewGormStore(db)
}

func newTestServerWithStore(t *testing.T, store *repository.Store) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := services.NewTokenService(strings.Repeat("a", 32), strings.Repeat("r", 32), 15*time.Minute, 24*time.Hour)
	require.NoError(t, err)

	content := storage.NewMemoryStore()
	hasher := utils.BcryptHasher{Cost: bcrypt.MinCost}
	require.NoError(t, utils.SeedAdminUser(context.Background(), store.Users, hasher, "root", "root-password"))

	router := Router(Deps{
		Auth:     services.NewAuthService(store.Users, hasher, tokens),
		Blogs:    services.NewBlogService(store, content),
		Comments: services.NewCommentService(store),
		Files:    utils.NewFileValidator(1, []string{".txt", ".md"}, []string{"text/plain; charset=utf-8"}),
		Cookie:   CookieConfig{MaxAge: 3600},
	})
	return &testServer{t: t, router: router, store: store, content: content, tokens: tokens}
}

type response struct {
	Code   int
	Body   map[string]interface{}
	Header http.Header
}

func (s *testServer) do(method, path, token string, body interface{}) response {
	s.t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return s.serve(req)
}

func (s *testServer) serve(req *http.Request) response {
	s.t.Helper()
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	out := response{Code: w.Code, Header: w.Header()}
	if w.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &out.Body), w.Body.String())
	}
	return out
}

// signup registers name and returns an access token for it.
func (s *testServer) signup(name string) string {
	s.t.Helper()
	res := s.do(http.MethodPost, "/auth/singin/", "", gin.H{
		"first_name": "F", "last_name": "L", "user_name": name, "user_type": "normal", "password": name + "-pw",
	})
	require.Equal(s.t, http.StatusCreated, res.Code, res.Body)

	res = s.do(http.MethodPost, "/auth/manual-login/", "", gin.H{"id_code": name, "password": name + "-pw", "remember": true})
	require.Equal(s.t, http.StatusOK, res.Code, res.Body)
	tokens := res.Body["tokens"].(map[string]interface{})
	return tokens["access"].(string)
}

func (s *testServer) createBlog(token string) string {
	s.t.Helper()
	res := s.do(http.MethodPost, "/doc/create-blog/", token, gin.H{
		"title": "Hello", "description": "first", "content": "body", "tags": "Lovely, fun",
	})
	require.Equal(s.t, http.StatusCreated, res.Code, res.Body)
	return res.Body["blog"].(map[string]interface{})["id"].(string)
}

func TestPing(t *testing.T) {
	s := newTestServer(t)
	res := s.do(http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "pong", res.Body["message"])
}

func TestSignin(t *testing.T) {
	s := newTestServer(t)

	res := s.do(http.MethodPost, "/auth/singin/", "", gin.H{
		"first_name": "Alice", "last_name": "A", "user_name": "alice", "user_type": "normal", "password": "pw",
	})
	require.Equal(t, http.StatusCreated, res.Code)
	user := res.Body["user"].(map[string]interface{})
	assert.Equal(t, "alice", user["user_name"])
	assert.Equal(t, "normal", user["user_type"])
	assert.Equal(t, true, user["active_mode"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "password_hash")

	res = s.do(http.MethodPost, "/auth/singin/", "", gin.H{
		"first_name": "Alice", "last_name": "B", "user_name": "alice", "user_type": "normal", "password": "pw2",
	})
	assert.Equal(t, http.StatusForbidden, res.Code)
	assert.Equal(t, "CONFLICT_ERROR", res.Body["code"])

	res = s.do(http.MethodPost, "/auth/singin/", "", gin.H{"user_name": "carol"})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.ElementsMatch(t, []interface{}{"first_name", "last_name", "user_type", "password"}, res.Body["missing"])
}

func TestSigninNonNormalRoleIsDropped(t *testing.T) {
	s := newTestServer(t)

	res := s.do(http.MethodPost, "/auth/singin/", "", gin.H{
		"first_name": "M", "last_name": "M", "user_name": "mallory", "user_type": "admin", "password": "pw",
	})
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Nil(t, res.Body["user"])

	ok, err := s.store.Users.Exists(context.Background(), "mallory")
	require.NoError(t, err)
	assert.False(t, ok)

	res = s.do(http.MethodPost, "/auth/singin/", "", gin.H{
		"first_name": "R", "last_name": "R", "user_name": "root", "user_type": "admin", "password": "pw",
	})
	assert.Equal(t, http.StatusForbidden, res.Code)
	assert.Equal(t, "CONFLICT_ERROR", res.Body["code"])
}

func TestManualLogin(t *testing.T) {
	s := newTestServer(t)
	s.signup("alice")

	res := s.do(http.MethodPost, "/auth/manual-login/", "", gin.H{"id_code": "alice", "password": "alice-pw"})
	assert.Equal(t, http.StatusOK, res.Code)
	assert.NotContains(t, res.Body, "tokens")
	assert.Equal(t, "alice", res.Body["user"].(map[string]interface{})["user_name"])

	res = s.do(http.MethodPost, "/auth/manual-login/", "", gin.H{"id_code": "alice", "password": "alice-pw", "remember": "true"})
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body, "tokens")
	assert.Contains(t, res.Header.Get("Set-Cookie"), "refreshToken=")

	res = s.do(http.MethodPost, "/auth/manual-login/", "", gin.H{"id_code": "alice", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", res.Body["code"])

	res = s.do(http.MethodPost, "/auth/manual-login/", "", gin.H{"id_code": "nobody", "password": "x"})
	assert.Equal(t, http.StatusNotFound, res.Code)

	res = s.do(http.MethodPost, "/auth/manual-login/", "", nil)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, []interface{}{"id_code", "password"}, res.Body["missing"])
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)
	token := s.signup("alice")

	res := s.do(http.MethodPost, "/auth/login/", token, nil)
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "alice", res.Body["user"].(map[string]interface{})["user_name"])

	res = s.do(http.MethodPost, "/auth/login/", "", nil)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "AUTHENTICATION_ERROR", res.Body["code"])

	res = s.do(http.MethodPost, "/auth/login/", "garbage", nil)
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	s := newTestServer(t)
	s.signup("alice")
	alice, err := s.store.Users.GetByUserName(context.Background(), "alice")
	require.NoError(t, err)

	past := s.tokens.WithClock(func() time.Time { return time.Now().Add(-time.Hour) })
	expired, err := past.IssueAccess(alice)
	require.NoError(t, err)

	res := s.do(http.MethodPost, "/doc/create-blog/", expired, gin.H{"title": "t", "description": "d", "content": "c"})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "AUTHENTICATION_ERROR", res.Body["code"])
	assert.Equal(t, "token has expired", res.Body["msg"])
}

func TestRefresh(t *testing.T) {
	s := newTestServer(t)
	s.signup("alice")

	res := s.do(http.MethodPost, "/auth/manual-login/", "", gin.H{"id_code": "alice", "password": "alice-pw", "remember": true})
	require.Equal(t, http.StatusOK, res.Code)
	tokens := res.Body["tokens"].(map[string]interface{})

	res = s.do(http.MethodPost, "/auth/refresh/", "", gin.H{"refresh": tokens["refresh"]})
	require.Equal(t, http.StatusOK, res.Code)
	access := res.Body["access"].(string)

	res = s.do(http.MethodPost, "/auth/login/", access, nil)
	assert.Equal(t, http.StatusOK, res.Code)

	res = s.do(http.MethodPost, "/auth/refresh/", "", gin.H{"refresh": tokens["access"]})
	assert.Equal(t, http.StatusBadRequest, res.Code)

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh/", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: tokens["refresh"].(string)})
	res = s.serve(req)
	assert.Equal(t, http.StatusOK, res.Code)

	res = s.do(http.MethodPost, "/auth/refresh/", "", nil)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, []interface{}{"refresh"}, res.Body["missing"])
}

func TestCreateAdmin(t *testing.T) {
	s := newTestServer(t)
	alice := s.signup("alice")

	res := s.do(http.MethodPost, "/auth/manual-login/", "", gin.H{"id_code": "root", "password": "root-password", "remember": true})
	require.Equal(t, http.StatusOK, res.Code)
	root := res.Body["tokens"].(map[string]interface{})["access"].(string)

	body := gin.H{"first_name": "O", "last_name": "P", "user_name": "ops", "user_type": "admin", "password": "pw"}

	res = s.do(http.MethodPost, "/auth/admin/users/", alice, body)
	assert.Equal(t, http.StatusForbidden, res.Code)

	res = s.do(http.MethodPost, "/auth/admin/users/", root, body)
	require.Equal(t, http.StatusCreated, res.Code)
	assert.Equal(t, "admin", res.Body["user"].(map[string]interface{})["user_type"])
}

// Scenario: alice writes a blog; bob may comment and react but not edit it.
func TestBlogLifecycle(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		testBlogLifecycle(t, newTestServer(t))
	})
	t.Run("sqlite", func(t *testing.T) {
		testBlogLifecycle(t, newTestServerWithStore(t, newSQLiteStore(t)))
	})
}

func testBlogLifecycle(t *testing.T, s *testServer) {
	alice := s.signup("alice")
	bob := s.signup("bob")
	blogID := s.createBlog(alice)

	edit := gin.H{"blog_id": blogID, "new_title": "T2", "new_description": "D2", "new_content": "C2", "new_tags": "x"}

	res := s.do(http.MethodPut, "/doc/edit-blog/", bob, edit)
	assert.Equal(t, http.StatusForbidden, res.Code)
	assert.Equal(t, "AUTHORIZATION_ERROR", res.Body["code"])

	res = s.do(http.MethodPut, "/doc/edit-blog/", alice, edit)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "T2", res.Body["blog"].(map[string]interface{})["title"])

	res = s.do(http.MethodPatch, "/doc/like-blog/", bob, gin.H{"blog_id": blogID})
	require.Equal(t, http.StatusOK, res.Code)
	res = s.do(http.MethodPatch, "/doc/like-blog/", bob, gin.H{"blog_id": blogID})
	require.Equal(t, http.StatusOK, res.Code)
	assert.EqualValues(t, 2, res.Body["blog"].(map[string]interface{})["likes"])

	res = s.do(http.MethodPatch, "/doc/dislike-blog/", alice, gin.H{"blog_id": blogID})
	require.Equal(t, http.StatusOK, res.Code)
	assert.EqualValues(t, 1, res.Body["blog"].(map[string]interface{})["dislikes"])

	res = s.do(http.MethodPatch, "/doc/like-blog/", bob, gin.H{"blog_id": " " + blogID + " "})
	require.Equal(t, http.StatusOK, res.Code)
	assert.EqualValues(t, 3, res.Body["blog"].(map[string]interface{})["likes"])

	res = s.do(http.MethodPatch, "/doc/deactive-blog/", bob, gin.H{"blog_id": blogID})
	assert.Equal(t, http.StatusForbidden, res.Code)
	res = s.do(http.MethodPatch, "/doc/deactive-blog/", alice, gin.H{"blog_id": blogID})
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, false, res.Body["blog"].(map[string]interface{})["active"])
	res = s.do(http.MethodPatch, "/doc/active-blog/", alice, gin.H{"blog_id": blogID})
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, true, res.Body["blog"].(map[string]interface{})["active"])

	res = s.do(http.MethodPost, "/doc/sub-comment/", bob, gin.H{"content": "nice", "blog_id": blogID})
	require.Equal(t, http.StatusCreated, res.Code)
	commentID := res.Body["comment"].(map[string]interface{})["id"].(string)

	res = s.do(http.MethodDelete, "/doc/remove-blog/", bob, gin.H{"blog_id": blogID})
	assert.Equal(t, http.StatusForbidden, res.Code)

	res = s.do(http.MethodDelete, "/doc/remove-blog/", alice, gin.H{"blog_id": blogID})
	require.Equal(t, http.StatusOK, res.Code)

	// the comment went with the blog
	res = s.do(http.MethodPatch, "/doc/like-comment/", bob, gin.H{"comment_id": commentID})
	assert.Equal(t, http.StatusNotFound, res.Code)
	res = s.do(http.MethodPatch, "/doc/like-blog/", bob, gin.H{"blog_id": blogID})
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestBlogValidation(t *testing.T) {
	s := newTestServer(t)
	alice := s.signup("alice")

	res := s.do(http.MethodPost, "/doc/create-blog/", alice, gin.H{"tags": "x"})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, []interface{}{"title", "description", "content"}, res.Body["missing"])

	res = s.do(http.MethodPut, "/doc/edit-blog/", alice, gin.H{"blog_id": "missing", "new_title": "t", "new_description": "d", "new_content": "c", "new_tags": "x"})
	assert.Equal(t, http.StatusNotFound, res.Code)

	res = s.do(http.MethodPatch, "/doc/like-blog/", alice, "{}")
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, []interface{}{"blog_id"}, res.Body["missing"])

	// credentials are checked before the body
	res = s.do(http.MethodPatch, "/doc/like-blog/", "", "{}")
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "AUTHENTICATION_ERROR", res.Body["code"])
}

func TestCommentEndpoints(t *testing.T) {
	s := newTestServer(t)
	alice := s.signup("alice")
	bob := s.signup("bob")
	blogID := s.createBlog(alice)

	res := s.do(http.MethodPost, "/doc/sub-comment/", bob, gin.H{"content": "hi", "blog_id": "missing"})
	assert.Equal(t, http.StatusNotFound, res.Code)

	res = s.do(http.MethodPost, "/doc/sub-comment/", bob, gin.H{})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, []interface{}{"content", "blog_id"}, res.Body["missing"])

	res = s.do(http.MethodPost, "/doc/sub-comment/", bob, gin.H{"content": "hi", "blog_id": blogID})
	require.Equal(t, http.StatusCreated, res.Code)
	comment := res.Body["comment"].(map[string]interface{})
	commentID := comment["id"].(string)
	assert.Equal(t, "bob", comment["owner"])

	res = s.do(http.MethodPatch, "/doc/edit-comment/", alice, gin.H{"commentId": commentID, "newContent": "x"})
	assert.Equal(t, http.StatusForbidden, res.Code)

	res = s.do(http.MethodPatch, "/doc/edit-comment/", bob, gin.H{"commentId": commentID, "newContent": "edited"})
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "edited", res.Body["comment"].(map[string]interface{})["content"])

	for i := 0; i < 3; i++ {
		res = s.do(http.MethodPatch, "/doc/like-comment/", alice, gin.H{"comment_id": commentID})
		require.Equal(t, http.StatusOK, res.Code)
	}
	assert.EqualValues(t, 3, res.Body["comment"].(map[string]interface{})["like"])

	res = s.do(http.MethodPatch, "/doc/dislike-comment/", alice, gin.H{"comment_id": commentID})
	require.Equal(t, http.StatusOK, res.Code)
	assert.EqualValues(t, 1, res.Body["comment"].(map[string]interface{})["dislike"])

	res = s.do(http.MethodDelete, "/doc/remove-comment/", alice, gin.H{"comentId": commentID})
	assert.Equal(t, http.StatusForbidden, res.Code)

	res = s.do(http.MethodDelete, "/doc/remove-comment/", bob, gin.H{"comentId": commentID})
	require.Equal(t, http.StatusOK, res.Code)

	res = s.do(http.MethodDelete, "/doc/remove-comment/", bob, gin.H{"comentId": commentID})
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestCreateBlogWithFile(t *testing.T) {
	s := newTestServer(t)
	alice := s.signup("alice")

	upload := func(name string, data []byte) response {
		var body bytes.Buffer
		w := multipart.NewWriter(&body)
		require.NoError(t, w.WriteField("title", "File post"))
		require.NoError(t, w.WriteField("description", "from disk"))
		part, err := w.CreateFormFile("content", name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
		require.NoError(t, w.Close())

		req := httptest.NewRequest(http.MethodPost, "/doc/create-blog/", &body)
		req.Header.Set("Content-Type", w.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+alice)
		return s.serve(req)
	}

	res := upload("post.txt", []byte("plain text body"))
	require.Equal(t, http.StatusCreated, res.Code, res.Body)
	blog := res.Body["blog"].(map[string]interface{})
	assert.Equal(t, []interface{}{models.DefaultTags}, blog["tags"])

	obj, ok := s.content.Get(blog["content"].(string))
	require.True(t, ok)
	assert.Equal(t, "plain text body", string(obj.Data))

	res = upload("post.exe", []byte("MZ"))
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, 1, s.content.Len())
}
