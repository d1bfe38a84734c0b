package restapi

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupRouter wires the HTTP surface: the versioned portfolio endpoint and
// the upstream proxy endpoints, behind CORS, recovery and zap logging.
func SetupRouter(portfolioHandler *PortfolioHandler, proxyHandler *ProxyHandler, logger *zap.Logger) *gin.Engine {
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	router.Use(cors.New(corsConfig))

	router.Use(ZapLoggerMiddleware(logger))
	router.Use(gin.Recovery())

	v1 := router.Group("/api/v1")
	{
		v1.GET("/portfolio", portfolioHandler.GetPortfolioHandler)
	}

	api := router.Group("/api")
	{
		api.GET("/prices", proxyHandler.GetPricesHandler)
		api.GET("/blockscout", proxyHandler.GetBlockscoutHandler)
		api.GET("/token-list", proxyHandler.GetTokenListHandler)
	}

	router.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	return router
}
