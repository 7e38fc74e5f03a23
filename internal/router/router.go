package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/medexam/medexam-backend/internal/config"
	"github.com/medexam/medexam-backend/internal/handler"
	"github.com/medexam/medexam-backend/internal/middleware"
	"github.com/medexam/medexam-backend/internal/response"
	"github.com/medexam/medexam-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth          *handler.AuthHandler
	StudentPortal *handler.StudentPortalHandler
	Admin         *handler.AdminHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/login", handlers.Auth.Login)

		// Authenticated profile routes
		auth.POST("/logout", middleware.RequireJWT(authService), handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireJWT(authService), handlers.Auth.GetProfile)
	}

	// ─── 2. Exam Group (Student JWT + Single Device) ───────────────────
	examAPI := router.Group("/api/v1/exam")
	examAPI.Use(
		middleware.RequireStudentJWT(authService),
		middleware.CheckSingleDeviceSession(authService),
	)
	{
		examAPI.GET("/papers", handlers.StudentPortal.ListPapers)
		examAPI.POST("/papers/:paper_id/start", handlers.StudentPortal.StartSession)
		examAPI.GET("/papers/:paper_id/content", handlers.StudentPortal.GetPaperContent)
		examAPI.GET("/papers/:paper_id/state", handlers.StudentPortal.GetSessionState)
		examAPI.POST("/sessions/:session_id/submit", handlers.StudentPortal.SubmitSession)
		examAPI.GET("/records", handlers.StudentPortal.ListRecords)
		examAPI.GET("/records/:record_id", handlers.StudentPortal.GetRecordDetail)
	}

	// ─── 3. Admin Group (Admin JWT) ────────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminJWT(authService))
	{
		adminAPI.PUT("/retakes", handlers.Admin.SetRetake)
		adminAPI.DELETE("/retakes/:user_id/:paper_id", handlers.Admin.ClearRetake)
		adminAPI.GET("/papers/:paper_id/results", handlers.Admin.GetPaperResults)
	}

	return router
}
