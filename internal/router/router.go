package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/moviebook/moviebook/internal/config"
	"github.com/moviebook/moviebook/internal/handler"
	"github.com/moviebook/moviebook/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance: the health check used by load balancers
// and the Prometheus metrics endpoint.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterAuth registers all authentication-related routes. Unauthenticated
// operations live under /v1/auth; /v1/me requires credentials and goes
// through the auth middleware so either a Bearer access token or a raw
// session token works.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, sessions middleware.SessionResolver) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Logout takes the session token from the body or the X-Session-Token
	// header; it does not require a valid access token, so a client whose
	// JWT already expired can still end its session.
	g.POST("/logout", a.Logout)
	g.POST("/refresh", a.Refresh)

	auth := e.Group("/v1", middleware.Auth(jwtSecret, sessions))
	auth.GET("/me", a.Me)
}

// RegisterBookings registers the booking endpoints under /v1/bookings.
// Every route requires authentication.
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler, jwtSecret string, sessions middleware.SessionResolver) {
	g := e.Group("/v1/bookings", middleware.Auth(jwtSecret, sessions))
	g.POST("", b.Create)
	g.GET("", b.List)
	g.POST("/:id/cancel", b.Cancel)
}

// RegisterMovies registers the public browse endpoints. Responses are
// served through the Redis response cache when a client is available,
// since every guest sees the same provider data.
func RegisterMovies(e *echo.Echo, m *handler.MovieHandler, cacheCfg config.CacheConfig, rdb *redis.Client) {
	cached := middleware.NewRedisCache(cacheCfg, rdb)
	e.GET("/v1/movies/recent", m.Recent, cached)
	e.GET("/v1/movies/:id", m.Details, cached)
	e.GET("/v1/search/movies", m.Search, cached)
}
