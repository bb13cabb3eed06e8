package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/moviebook/moviebook/internal/catalog"
	"github.com/moviebook/moviebook/internal/config"
	"github.com/moviebook/moviebook/internal/database"
	"github.com/moviebook/moviebook/internal/handler"
	"github.com/moviebook/moviebook/internal/middleware"
	"github.com/moviebook/moviebook/internal/queue"
	"github.com/moviebook/moviebook/internal/repository"
	"github.com/moviebook/moviebook/internal/router"
	"github.com/moviebook/moviebook/internal/service"
)

func main() {
	// Load .env if present; real environments set variables directly.
	if err := godotenv.Load(); err != nil {
		log.Printf(".env not loaded: %v", err)
	}
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	// Redis is optional; rate limiting, response caching and the catalog
	// fallback all degrade gracefully when it is absent.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; cache and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	sessions := repository.NewSessionRepo(db)
	bookings := repository.NewBookingRepo(db)

	authSvc := service.NewAuthService(cfg, users, sessions)
	bookingSvc := service.NewBookingService(bookings, queue.NewPublisher())
	movies := catalog.NewClient(cfg.TMDBBaseURL, cfg.TMDBAPIKey, rdb)

	// Background consumer writes booking events to logs/booking.log.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(authSvc, users), cfg.JWTSecret, authSvc)
	router.RegisterBookings(e, handler.NewBookingHandler(bookingSvc), cfg.JWTSecret, authSvc)
	router.RegisterMovies(e, handler.NewMovieHandler(movies), config.LoadCacheConfig(), rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err)
	}
}
