package restapi

import (
	"net/http"

	"aura_gateway/internal/infrastructure/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// SetupRouter builds the gin engine with middleware and every API route.
// Pass a nil metrics to serve without instrumentation.
func SetupRouter(h *Handler, m *metrics.Metrics, logger *zap.Logger) *gin.Engine {
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	router.Use(ZapLoggerMiddleware(logger))
	if m != nil {
		router.Use(MetricsMiddleware(m))
	}
	router.Use(gin.Recovery())

	router.POST("/chat", h.Chat)
	router.GET("/portfolio", h.Portfolio)
	router.GET("/strategy", h.Strategy)
	router.POST("/action", h.PrepareAction)
	router.GET("/action/:actionId", h.ActionStatus)
	router.POST("/transfer", h.PrepareTransfer)
	router.GET("/transfer", h.TransferStatus)
	router.POST("/sign-request", h.SignRequest)
	router.GET("/sign-callback", h.SignCallback)
	router.GET("/fees", h.Fees)
	router.GET("/healthz", h.Health)
	router.OPTIONS("/*path", preflight)

	if m != nil {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
	return router
}

// preflight answers OPTIONS requests that carry no Origin header, which the cors
// middleware passes through.
func preflight(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
	c.Status(http.StatusNoContent)
}
