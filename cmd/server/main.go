package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/cherio/cherio-api/internal/auth"
	"github.com/cherio/cherio-api/internal/config"
	"github.com/cherio/cherio-api/internal/database"
	"github.com/cherio/cherio-api/internal/handler"
	"github.com/cherio/cherio-api/internal/i18n"
	"github.com/cherio/cherio-api/internal/queue"
	"github.com/cherio/cherio-api/internal/repository"
	"github.com/cherio/cherio-api/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	users := repository.NewUserRepo(db)
	boards := repository.NewLeaderboardRepo(db)
	articles := repository.NewArticleRepo(db)
	accessLogs := repository.NewAccessLogRepo(db)

	tokens := auth.NewService(cfg.JWTSecret,
		time.Duration(cfg.AccessTTLMin)*time.Minute,
		time.Duration(cfg.RememberTTLDays)*24*time.Hour)

	catalog := i18n.Load("locales", "en", []string{"en", "nl"})

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, response cache disabled")
	}

	e := echo.New()
	e.Use(i18n.Middleware(catalog))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(users, tokens, cfg.BcryptCost), tokens)
	router.RegisterPublic(e,
		handler.NewUserHandler(users),
		handler.NewLeaderboardHandler(boards),
		handler.NewNewsHandler(articles),
		config.LoadCacheConfig(), rdb)
	router.RegisterEye(e, handler.NewEyeHandler(users, accessLogs))

	// Audit tail consumer; reconnects on its own and never returns.
	go func() {
		if err := queue.StartAccessConsumer(); err != nil {
			log.Printf("access consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
