package server

import (
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"car-management-api/internal/handler"
	"car-management-api/internal/middleware"
)

type Options struct {
	Secret  string
	Origins []string
	Logger  *zap.Logger
}

// Router wires middleware and routes. Each router owns its metrics
// registry so several can coexist in one process.
func Router(h *handler.Handler, opts Options) *gin.Engine {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(reg)

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(ginzap.GinzapWithConfig(opts.Logger, &ginzap.Config{
		TimeFormat: time.RFC3339,
		UTC:        true,
		Context:    middleware.LogFields,
	}))
	router.Use(ginzap.RecoveryWithZap(opts.Logger, true))
	router.Use(metrics.Handler())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     opts.Origins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/", h.Banner)
	router.GET("/health", h.Health)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// auth
	router.POST("/jwt", h.IssueToken)
	router.POST("/logout", h.Logout)

	services := router.Group("/services")
	{
		services.GET("", h.ListServices)
		services.GET("/:id", h.GetService)
	}

	bookings := router.Group("/bookings")
	{
		bookings.GET("", middleware.Session(opts.Secret), h.ListBookings)
		bookings.POST("", h.CreateBooking)
		bookings.PATCH("/:id", h.UpdateBookingStatus)
		bookings.DELETE("/:id", h.DeleteBooking)
	}

	return router
}
