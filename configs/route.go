package configs

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/quochao170402/ecommerce-aws/items-api/api"
	"github.com/quochao170402/ecommerce-aws/items-api/middleware"
	"go.uber.org/zap"
)

func NewRouter(app *App) *gin.Engine {
	if app.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	SetupRoutes(router, app)
	return router
}

func SetupRoutes(router *gin.Engine, app *App) {
	mapper := api.NewMapper(app.Config.App.AppEnv)

	// Middleware
	router.Use(middleware.RequestLogger(app.Logger))
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		app.Logger.Error("panic recovered", zap.Any("panic", recovered), zap.String("path", c.Request.URL.Path))
		outcome := mapper.Error(fmt.Errorf("panic: %v", recovered))
		c.AbortWithStatusJSON(outcome.StatusCode, outcome.Body)
	}))
	router.Use(middleware.Metrics(app.Metrics))
	router.Use(middleware.CORSMiddleware())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "API is running",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(app.Metrics.Registry(), promhttp.HandlerOpts{})))

	items := router.Group("/items")
	{
		handler := api.NewItemHandler(app.Items, app.Translator, mapper)
		api.RegisterItemRoutes(items, handler)
	}
}

// Run serves the router on the configured port until it fails.
func Run(router *gin.Engine, cfg *Config) error {
	port := cfg.App.AppPort
	if port == "" {
		port = "8080"
	}
	return router.Run(":" + port)
}
