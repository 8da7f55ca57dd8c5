package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"cinebook/internal/config"
	"cinebook/internal/handler"
	"cinebook/internal/middleware"
	"cinebook/internal/model"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance. Guests can browse showtimes and seat maps before
// logging in, so those live here alongside the health check. Seat maps sit
// behind the Redis response cache; bursts of availability polling during
// popular on-sales should not all reach the database.
func RegisterRoutes(e *echo.Echo, b *handler.BookingHandler, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	e.GET("/v1/movies/:movieId/showtimes", b.ListShowtimes)
	e.GET("/v1/showtimes/:id/seats", b.SeatAvailability,
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
}

// RegisterBookings registers the authenticated booking endpoints under /v1.
// All routes require a valid JWT; booking creation additionally passes the
// per-user rate limiter.
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler, jwtSecret string, rdb *redis.Client) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))

	g.POST("/bookings", b.Create,
		middleware.NewRateLimiter(config.LoadRateLimitConfig(), rdb))
	g.GET("/bookings/history", b.History)
	g.DELETE("/bookings/:id", b.Cancel)
	g.POST("/bookings/:id/payment/initiate", b.InitiatePayment)
	g.POST("/bookings/:id/payment/verify", b.VerifyPayment)
}

// RegisterAdmin registers the administrative booking endpoints under
// /v1/admin. All routes require a valid JWT carrying the admin role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminBookingHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)
	g.GET("/bookings", a.List)
	g.DELETE("/bookings/:id", a.Cancel)
	g.DELETE("/bookings/:id/record", a.RemoveRecord)
}
