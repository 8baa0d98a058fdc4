package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stemsi/rosterdocs/internal/config"
	"github.com/stemsi/rosterdocs/internal/handler"
	"github.com/stemsi/rosterdocs/internal/middleware"
	"github.com/stemsi/rosterdocs/internal/response"
)

// curriculumMaxAge is how long clients may cache curriculum lookups.
const curriculumMaxAge = 3600

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Import   *handler.ImportHandler
	Document *handler.DocumentHandler
	Remark   *handler.RemarkHandler
	Setting  *handler.SettingHandler
	WS       *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(handlers *Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()
	router.MaxMultipartMemory = cfg.MaxUploadBytes

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	router.Use(middleware.BrotliWithConfig(middleware.BrotliConfig{
		Quality: middleware.DefaultBrotliConfig.Quality,
		Skipper: middleware.SkipPathSuffix("/documents"),
	}))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")

	// ─── 1. Imports ────────────────────────────────────────────────────
	remarkLimiter := middleware.NewRateLimiter(cfg.RemarkRatePerMinute, time.Minute)
	upload := []gin.HandlerFunc{handlers.Import.Upload}
	if cfg.UploadRatePerMinute > 0 {
		uploadLimiter := middleware.NewRateLimiter(cfg.UploadRatePerMinute, time.Minute)
		upload = append([]gin.HandlerFunc{uploadLimiter.Middleware()}, upload...)
	}

	imports := api.Group("/imports")
	imports.Use(middleware.NoStore())
	{
		imports.POST("", upload...)
		imports.GET("", handlers.Import.List)
		imports.GET("/:id", handlers.Import.Get)
		imports.DELETE("/:id", handlers.Import.Delete)
		imports.PUT("/:id/current-group", handlers.Import.SelectGroup)
		imports.PUT("/:id/pages", handlers.Import.SetPages)
		imports.POST("/:id/groups/:group/students/:student/exempt", handlers.Import.ToggleExempt)

		imports.POST("/:id/remarks",
			remarkLimiter.MiddlewareBy(middleware.ByClientIPAndParam("id")),
			handlers.Remark.Generate,
		)
		imports.GET("/:id/documents", handlers.Document.Download)
	}

	// ─── 2. Curriculum (cached) ────────────────────────────────────────
	curriculum := api.Group("/curriculum")
	curriculum.Use(middleware.CacheControl(curriculumMaxAge))
	{
		curriculum.GET("/:level/:term", handlers.Document.Curriculum)
	}

	// ─── 3. Settings ───────────────────────────────────────────────────
	settings := api.Group("/settings")
	{
		settings.GET("", handlers.Setting.GetSettings)
		settings.PUT("", handlers.Setting.UpdateSettings)
	}

	// ─── 4. WebSocket ──────────────────────────────────────────────────
	ws := router.Group("/ws/v1")
	{
		ws.GET("/imports/:id/remarks", handlers.WS.RemarkStream)
	}

	return router
}
