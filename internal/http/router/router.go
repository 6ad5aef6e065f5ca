package router

import (
	"github.com/gin-gonic/gin"

	"github.com/opptima/propel-backend/internal/config"
	"github.com/opptima/propel-backend/internal/http/handlers"
	"github.com/opptima/propel-backend/internal/http/middleware"
	"github.com/opptima/propel-backend/internal/service"
)

func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	profileHandler *handlers.ProfileHandler,
	draftHandler *handlers.DraftHandler,
	proposalHandler *handlers.ProposalHandler,
	generateHandler *handlers.GenerateHandler,
	documentHandler *handlers.DocumentHandler,
	exportHandler *handlers.ExportHandler,
	dashboardHandler *handlers.DashboardHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authRateLimit := middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod)
	authGroup.Use(authRateLimit)
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/logout", authHandler.Logout)
	}

	// Лента аутентифицируется токеном в query: браузерный WebSocket
	// не умеет выставлять заголовки
	api.GET("/ws", wsHandler.Handle)

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.GET("/profile", profileHandler.Get)
		protected.PUT("/profile", profileHandler.Update)

		protected.GET("/draft", draftHandler.Get)
		protected.PUT("/draft", draftHandler.Save)
		protected.DELETE("/draft", draftHandler.Delete)

		protected.POST("/proposals/generate", generateHandler.Generate)
		protected.GET("/proposals", proposalHandler.List)
		protected.POST("/proposals", proposalHandler.Create)
		protected.GET("/proposals/:id", middleware.UUIDValidator("id"), proposalHandler.Get)
		protected.PUT("/proposals/:id", middleware.UUIDValidator("id"), proposalHandler.Update)
		protected.DELETE("/proposals/:id", middleware.UUIDValidator("id"), proposalHandler.Delete)

		protected.POST("/documents/normalize", documentHandler.Normalize)
		protected.POST("/documents/edit", documentHandler.Edit)

		protected.POST("/export/docx", exportHandler.Docx)
		protected.POST("/export/pdf", exportHandler.Pdf)

		protected.GET("/dashboard", dashboardHandler.Get)
	}

	return r
}
