package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/candle/larktalk/internal/bootstrap"
	"github.com/candle/larktalk/internal/config"
	"github.com/candle/larktalk/internal/database"
	"github.com/candle/larktalk/internal/handler"
	"github.com/candle/larktalk/internal/queue"
	"github.com/candle/larktalk/internal/repository"
	"github.com/candle/larktalk/internal/router"
	"github.com/candle/larktalk/internal/service"
)

func main() {
	// .env is optional; real deployments set the variables directly.
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("zap.NewProduction: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		sugar.Fatalf("open database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := database.EnsureSchema(ctx, db); err != nil {
		sugar.Fatalf("ensure schema: %v", err)
	}

	// Seed from CSV before serving: the API must not come up against a
	// half-loaded or absent dataset.
	loader := bootstrap.New(db, sugar, os.DirFS(cfg.DataDir))
	if err := loader.Run(ctx); err != nil {
		sugar.Fatalf("bootstrap import: %v", err)
	}

	go queue.StartMessageConsumer(sugar)

	users := repository.NewUserRepo(db)
	roles := repository.NewRoleRepo(db)
	channels := repository.NewChannelRepo(db)
	messages := repository.NewMessageRepo(db)

	authH := handler.NewAuthHandler(cfg, users, roles, channels)
	msgH := handler.NewMessageHandler(users, channels, messages, sugar, service.PublishMessagePosted)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	rdb := config.NewRedisClient()
	if rdb == nil {
		sugar.Warn("redis unavailable, response cache disabled")
	}
	router.Register(e, authH, msgH, rdb, config.LoadCacheConfig())

	addr := ":" + cfg.Port
	sugar.Infof("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		sugar.Fatal(err)
	}
}
