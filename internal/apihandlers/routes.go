package apihandlers

import (
	"time"

	"hush/internal/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// NewRouter builds the gin engine serving the API under /api and
// Prometheus metrics under /metrics.
func NewRouter(h *APIHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(), metrics.GinMiddleware())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:          12 * time.Hour,
	}))

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/api")
	{
		api.GET("/", h.RootHandler)
		api.GET("/health", h.HealthHandler)

		irysGroup := api.Group("/irys")
		{
			irysGroup.GET("/network-info", h.NetworkInfoHandler)
			irysGroup.POST("/upload", h.IrysUploadHandler)
			irysGroup.GET("/balance", h.IrysBalanceHandler)
			irysGroup.GET("/address", h.IrysAddressHandler)
		}

		confessionGroup := api.Group("/confessions")
		{
			confessionGroup.POST("", h.CreateConfessionHandler)
			confessionGroup.GET("/public", h.ListPublicHandler)
			confessionGroup.GET("/:tx_id", h.GetConfessionHandler)
			confessionGroup.POST("/:tx_id/vote", h.VoteHandler)
		}

		api.GET("/trending", h.TrendingHandler)
		api.POST("/analyze", h.AnalyzeHandler)
	}
	return router
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(log.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Debug("HTTP request")
	}
}
