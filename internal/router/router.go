// Package router wires the HTTP surface onto an Echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/candle/larktalk/internal/config"
	"github.com/candle/larktalk/internal/handler"
	"github.com/candle/larktalk/internal/middleware"
)

// Register maps all application routes. Profile lookups go through the
// Redis response cache when a client is available; message posting sits
// behind the bearer-token middleware.
func Register(e *echo.Echo, a *handler.AuthHandler, m *handler.MessageHandler, rdb *redis.Client, cacheCfg config.CacheConfig) {
	e.GET("/healthz", handler.Health)

	api := e.Group("/api")
	api.POST("/signup", a.Signup)
	api.POST("/login", a.Login)
	api.GET("/profile", a.Profile, middleware.Cache(rdb, cacheCfg))
	api.POST("/messages", m.Post, middleware.BearerAuth())
}
