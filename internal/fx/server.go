package fx

import (
	"context"
	"net/http"
	"time"

	"Grana/config"
	"Grana/internal/logger"
	"Grana/internal/middleware"
	"Grana/internal/observability"
	"Grana/internal/routes"

	"github.com/gin-gonic/gin"

	"go.uber.org/fx"
)

// ServerModule fornece a configuração do servidor HTTP
var ServerModule = fx.Module("server",
	fx.Provide(
		newRouter,
	),
	fx.Invoke(
		setupRoutes,
	),
)

func newRouter() *gin.Engine {
	return gin.Default()
}

func setupRoutes(
	lc fx.Lifecycle,
	cfg *config.Config,
	router *gin.Engine,
	handler *routes.Handler,
	jwtSvc *middleware.JwtService,
	authRateLimiter *middleware.RateLimiter,
) {
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.Metrics())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(observability.Handler()))

	public := router.Group("/api")
	public.Use(middleware.RateLimit(authRateLimiter))
	{
		public.POST("/auth/login", handler.Authenticate)
		public.POST("/auth/register", handler.Registration)
	}

	userRateLimiter := middleware.NewRateLimiter(300, time.Minute)

	private := router.Group("/api")
	private.Use(middleware.AuthMiddleware(jwtSvc))
	private.Use(middleware.RateLimitByUser(userRateLimiter))
	{
		users := private.Group("/users")
		{
			users.GET("/me", handler.GetUserProfile)
			users.PATCH("/me", handler.UpdateUserName)
			users.PATCH("/me/password", handler.UpdateUserPassword)
			users.DELETE("/me", handler.DeleteUser)
		}

		transactions := private.Group("/transactions")
		{
			transactions.POST("", handler.CreateTransaction)
			transactions.GET("", handler.GetTransactions)
			transactions.GET("/export", handler.ExportTransactions)
			transactions.POST("/import", handler.ImportTransactions)
			transactions.GET("/:id", handler.GetTransaction)
			transactions.PATCH("/:id", handler.UpdateTransaction)
			transactions.DELETE("/:id", handler.DeleteTransaction)
		}

		categories := private.Group("/categories")
		{
			categories.POST("", handler.CreateCategory)
			categories.GET("", handler.ListCategories)
			categories.GET("/:id", handler.GetCategory)
			categories.PATCH("/:id", handler.UpdateCategory)
			categories.DELETE("/:id", handler.DeleteCategory)
		}

		recurrences := private.Group("/recurrences")
		{
			recurrences.POST("", handler.CreateRecurring)
			recurrences.GET("", handler.ListRecurrings)
			recurrences.GET("/:id", handler.GetRecurring)
			recurrences.PATCH("/:id", handler.UpdateRecurring)
			recurrences.DELETE("/:id", handler.DeleteRecurring)
			recurrences.POST("/:id/pause", handler.PauseRecurring)
			recurrences.POST("/:id/resume", handler.ResumeRecurring)
			recurrences.POST("/:id/skip", handler.SkipRecurring)
			recurrences.POST("/:id/split", handler.SplitRecurring)
			recurrences.POST("/:id/generate", handler.GenerateRecurring)
			recurrences.GET("/:id/preview", handler.PreviewRecurring)
			recurrences.GET("/:id/transactions", handler.ListRecurrenceTransactions)
		}
	}

	serverAddr := ":" + cfg.Server.Port
	logger.Info().
		Str("address", serverAddr).
		Str("environment", cfg.App.Environment).
		Msg("Servidor iniciando")

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := router.Run(serverAddr); err != nil {
					logger.Fatal().Err(err).Msg("Falha ao iniciar servidor")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("Servidor parando...")
			return nil
		},
	})
}
