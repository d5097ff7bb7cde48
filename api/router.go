package api

import (
	"log/slog"
	"net/http"

	"github.com/Domenick1991/flightbooking/internal/metrics"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
)

type RouterConfig struct {
	Auth       *AuthHandler
	Flights    *FlightHandler
	Bookings   *BookingHandler
	Gate       AdminGate
	Logger     *slog.Logger
	SwaggerDir string
}

// NewRouter wires every handler. Flight routes sit behind RequireAdmin;
// token and reservation routes are open.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(cfg.Logger), metrics.Middleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	cfg.Auth.Register(router.Group("/users"))
	cfg.Flights.Register(router.Group("/flights", RequireAdmin(cfg.Gate, cfg.Logger)))
	cfg.Bookings.Register(router.Group("/bookings"))

	if cfg.SwaggerDir != "" {
		router.Static("/swagger", cfg.SwaggerDir)
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL("/swagger/flightbooking.swagger.json"),
		)))
	}

	return router
}
