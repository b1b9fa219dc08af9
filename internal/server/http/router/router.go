package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/polkiloo/leatherdesk/internal/domain/model"
	"github.com/polkiloo/leatherdesk/internal/server/http/handlers"
	"github.com/polkiloo/leatherdesk/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.BackOfficeFacade, limiter *middleware.SubmissionLimiter, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	quotes := handlers.NewRequestHandler(facade, model.KindQuote)
	samples := handlers.NewRequestHandler(facade, model.KindSample)
	trackHandler := handlers.NewTrackHandler(facade)
	notificationHandler := handlers.NewNotificationHandler(facade)
	healthHandler := handlers.NewHealthHandler(facade)

	engine.GET("/healthz", healthHandler.Check)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group("/api")
	api.POST("/quote-requests", limiter.Handler(), quotes.Submit)
	api.POST("/sample-requests", limiter.Handler(), samples.Submit)
	api.GET("/track/:kind/:number", trackHandler.Track)

	admin := api.Group("/admin")
	admin.POST("/login", authHandler.Login)

	adminAuth := admin.Group("")
	adminAuth.Use(middleware.AdminRequired(facade))
	for path, h := range map[string]*handlers.RequestHandler{"/quote-requests": quotes, "/sample-requests": samples} {
		adminAuth.GET(path, h.List)
		adminAuth.GET(path+"/:id", h.Get)
		adminAuth.PATCH(path+"/:id", h.Update)
		adminAuth.DELETE(path+"/:id", h.Delete)
	}
	adminAuth.POST("/quote-requests/:id/invoice", quotes.AttachInvoice)

	adminAuth.GET("/notifications", notificationHandler.List)
	adminAuth.POST("/notifications/read-all", notificationHandler.MarkAllRead)
	adminAuth.POST("/notifications/:id/read", notificationHandler.MarkRead)

	return engine
}
