package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/candle/larktalk/internal/config"
	"github.com/candle/larktalk/internal/repository"
	"github.com/candle/larktalk/internal/utils"
)

func newContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func newAuthFixture() (*AuthHandler, *fakeUsers) {
	users := newFakeUsers()
	users.names[10] = "user"
	roles := &fakeRoles{byName: map[string]repository.Role{
		"user": {ID: 10, Name: "user", Description: "Standard user"},
	}}
	channels := &fakeChannels{byID: map[uint64]repository.Channel{
		1: {ID: 1, Name: "general", Description: "Default channel"},
	}}
	cfg := config.Config{BcryptCost: bcrypt.MinCost}
	return NewAuthHandler(cfg, users, roles, channels), users
}

func TestSignupCreatesUserRoleAndAccess(t *testing.T) {
	t.Parallel()

	h, users := newAuthFixture()
	c, rec := newContext(t, http.MethodPost, "/api/signup",
		`{"login":"alice","nickname":"Alice","email":"a@x.com","password":"s3cret"}`)

	require.NoError(t, h.Signup(c))
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, users.created, 1)
	u := users.created[0]
	require.Equal(t, "alice", u.Login)
	require.True(t, utils.VerifyPassword(u.PasswordHash, "s3cret"))
	require.NotEqual(t, "s3cret", u.PasswordHash)

	// exactly the "user" role, exactly one membership in channel 1
	require.Equal(t, []uint64{10}, users.roles[u.ID])
	require.Len(t, users.joins, 1)
	require.Equal(t, u.ID, users.joins[0].UserID)
	require.Equal(t, uint64(1), users.joins[0].ChannelID)
}

func TestSignupDuplicateLogin(t *testing.T) {
	t.Parallel()

	h, users := newAuthFixture()
	users.add(repository.User{Login: "alice"})

	c, rec := newContext(t, http.MethodPost, "/api/signup",
		`{"login":"alice","nickname":"Other","email":"other@x.com","password":"pw"}`)

	require.NoError(t, h.Signup(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Empty(t, users.created)
	require.Empty(t, users.joins)
}

func TestSignupDuplicateEmail(t *testing.T) {
	t.Parallel()

	h, users := newAuthFixture()
	users.add(repository.User{Login: "bob", Email: "a@x.com"})

	c, rec := newContext(t, http.MethodPost, "/api/signup",
		`{"login":"alice","nickname":"Alice","email":"a@x.com","password":"pw"}`)

	require.NoError(t, h.Signup(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Empty(t, users.created)
}

// A signup that cannot complete must write nothing at all; a user row
// without its role or membership would be unusable half-state.
func TestSignupMissingDefaultRoleWritesNothing(t *testing.T) {
	t.Parallel()

	h, users := newAuthFixture()
	h.Roles = &fakeRoles{byName: map[string]repository.Role{}}

	c, rec := newContext(t, http.MethodPost, "/api/signup",
		`{"login":"alice","nickname":"Alice","email":"a@x.com","password":"pw"}`)

	require.NoError(t, h.Signup(c))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Empty(t, users.created)
	require.Empty(t, users.roles)
	require.Empty(t, users.joins)
}

func TestSignupMissingDefaultChannelWritesNothing(t *testing.T) {
	t.Parallel()

	h, users := newAuthFixture()
	h.Channels = &fakeChannels{byID: map[uint64]repository.Channel{}}

	c, rec := newContext(t, http.MethodPost, "/api/signup",
		`{"login":"alice","nickname":"Alice","email":"a@x.com","password":"pw"}`)

	require.NoError(t, h.Signup(c))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Empty(t, users.created)
	require.Empty(t, users.roles)
	require.Empty(t, users.joins)
}

func TestLoginReturnsDeterministicToken(t *testing.T) {
	t.Parallel()

	h, users := newAuthFixture()
	hash, err := utils.HashPassword("s3cret", bcrypt.MinCost)
	require.NoError(t, err)
	users.add(repository.User{Login: "alice", Nickname: "Alice", PasswordHash: hash})

	c, rec := newContext(t, http.MethodPost, "/api/login", `{"login":"alice","password":"s3cret"}`)
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "fake-jwt-token-for-alice", resp["token"])
	require.Equal(t, "alice", resp["username"])
	require.Equal(t, "Alice", resp["nickname"])
}

func TestLoginWrongPassword(t *testing.T) {
	t.Parallel()

	h, users := newAuthFixture()
	hash, err := utils.HashPassword("s3cret", bcrypt.MinCost)
	require.NoError(t, err)
	users.add(repository.User{Login: "alice", PasswordHash: hash})

	c, rec := newContext(t, http.MethodPost, "/api/login", `{"login":"alice","password":"wrong"}`)
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Empty(t, users.created)
	require.Empty(t, users.joins)
}

func TestLoginUnknownUser(t *testing.T) {
	t.Parallel()

	h, _ := newAuthFixture()
	c, rec := newContext(t, http.MethodPost, "/api/login", `{"login":"ghost","password":"pw"}`)
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProfileFound(t *testing.T) {
	t.Parallel()

	h, users := newAuthFixture()
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	u := users.add(repository.User{Login: "alice", Nickname: "Alice", Email: "a@x.com", CreatedAt: created})
	users.roles[u.ID] = []uint64{10}

	c, rec := newContext(t, http.MethodGet, "/api/profile?login=alice", "")
	require.NoError(t, h.Profile(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp profileResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "alice", resp.Login)
	require.Equal(t, "Alice", resp.Nickname)
	require.Equal(t, "a@x.com", resp.Email)
	require.Equal(t, "2024-01-01T00:00:00", resp.CreatedAt)
	require.Equal(t, "user", resp.Roles)
}

func TestProfileNotFound(t *testing.T) {
	t.Parallel()

	h, _ := newAuthFixture()
	c, rec := newContext(t, http.MethodGet, "/api/profile?login=ghost", "")
	require.NoError(t, h.Profile(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
