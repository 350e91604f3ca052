package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/candle/larktalk/internal/config"
	"github.com/candle/larktalk/internal/repository"
	"github.com/candle/larktalk/internal/utils"
)

// defaultRoleName is attached to every new signup.
const defaultRoleName = "user"

// apiTimeLayout renders timestamps in responses the way the web client
// expects them, with a T separator and no zone suffix.
const apiTimeLayout = "2006-01-02T15:04:05"

// AuthHandler bundles dependencies for signup, login and profile lookup.
type AuthHandler struct {
	Cfg      config.Config
	Users    UserStore
	Roles    RoleStore
	Channels ChannelStore
}

func NewAuthHandler(cfg config.Config, u UserStore, r RoleStore, ch ChannelStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Roles: r, Channels: ch}
}

// ----- DTOs -----

type signupReq struct {
	Login    string `json:"login"`
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginReq struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type profileResp struct {
	Login     string `json:"login"`
	Nickname  string `json:"nickname"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
	Roles     string `json:"roles"`
}

// Signup creates a user, attaches the default role and joins the default
// channel. The existence checks are advisory; the unique constraints on
// login and email remain the final arbiter under concurrent signups.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Login = strings.TrimSpace(req.Login)
	if req.Login == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "login/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if exists, err := h.Users.ExistsByLogin(ctx, req.Login); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	} else if exists {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "login already exists"})
	}
	if exists, err := h.Users.ExistsByEmail(ctx, req.Email); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	} else if exists {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already exists"})
	}

	// The default role and channel are fixed reference data seeded by the
	// bootstrap; their absence is a server-side failure, not a client
	// error. Both are resolved before any write so a broken deployment
	// never leaves a user row without role or membership.
	role, err := h.Roles.GetByName(ctx, defaultRoleName)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "default role not found"})
	}
	channel, err := h.Channels.GetByID(ctx, repository.DefaultChannelID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "default channel not found"})
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}

	now := time.Now().UTC()
	// User, role link and membership are written in one transaction.
	_, err = h.Users.Register(ctx, repository.User{
		Login:        req.Login,
		Nickname:     req.Nickname,
		PasswordHash: hash,
		Email:        req.Email,
		CreatedAt:    now,
		LastLogin:    now,
	}, role.ID, channel.ID)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "login or email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "user registered and joined default channel"})
}

// Login verifies credentials and returns the session token together with
// the user's login and nickname. A failed login has no side effects.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByLogin(ctx, req.Login)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid login or password"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid login or password"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"token":    utils.TokenFor(u.Login),
		"username": u.Login,
		"nickname": u.Nickname,
	})
}

// Profile returns the public profile for a login, with roles resolved
// eagerly through the membership table.
func (h *AuthHandler) Profile(c echo.Context) error {
	login := c.QueryParam("login")
	if login == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "login required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "that user doesn't exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	roles, err := h.Users.RoleNames(ctx, u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	return c.JSON(http.StatusOK, profileResp{
		Login:     u.Login,
		Nickname:  u.Nickname,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.Format(apiTimeLayout),
		Roles:     strings.Join(roles, ","),
	})
}
