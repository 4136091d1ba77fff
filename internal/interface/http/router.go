package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/cosmo-uplink/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestIDMiddleware(),
		requestLogger(handler.logger),
		corsMiddleware(cfg.HTTP.CORSOrigins),
		errorHandlingMiddleware(handler.logger),
	)

	router.GET("/healthz", handler.Health)

	api := router.Group("/api/v1")
	{
		api.GET("/telemetry", handler.Telemetry)
		api.GET("/specimens", handler.ListSpecimens)
		api.GET("/specimens/:id", handler.GetSpecimen)

		reports := api.Group("/reports")
		reports.GET("/stream", handler.StreamReport(newUpgrader(cfg.HTTP.CORSOrigins)))
		reports.Use(rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger))
		reports.POST("", handler.StartReport)
		reports.GET("/state", handler.ReportState)
		reports.DELETE("", handler.DismissReport)
		reports.POST("/acknowledge", handler.AcknowledgeReport)
		reports.POST("/log", handler.SaveReport)

		api.GET("/logs", handler.ListLogs)
		api.GET("/logs/:id", handler.GetLog)
		api.GET("/logs/:id/transcript", handler.GetTranscript)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
