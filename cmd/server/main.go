package main // Entry point package

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/novamlm/referral-platform/internal/config"
	"github.com/novamlm/referral-platform/internal/database"
	"github.com/novamlm/referral-platform/internal/handler"
	"github.com/novamlm/referral-platform/internal/queue"
	"github.com/novamlm/referral-platform/internal/repository"
	"github.com/novamlm/referral-platform/internal/router"
	"github.com/novamlm/referral-platform/internal/service"
	"github.com/novamlm/referral-platform/internal/token"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	tokens := token.New(cfg.JWTSecret, time.Duration(cfg.TokenTTLDays)*24*time.Hour)
	store := repository.NewMemberRepo(db)
	auth := service.NewAuthService(store, tokens, cfg.BcryptCost, service.RabbitPublisher{})

	// Background consumer recording referral signups; reconnects forever.
	go func() {
		if err := queue.StartRegisteredConsumer(); err != nil {
			log.Printf("registered-consumer stopped: %v", err)
		}
	}()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and response caching disabled")
	}

	e := echo.New()
	e.Use(echomw.CORS())
	router.RegisterRoutes(e, handler.NewAuthHandler(auth), tokens, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
