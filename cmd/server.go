package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/studyhub-ai/config"
	"github.com/lshigami/studyhub-ai/database"
	_ "github.com/lshigami/studyhub-ai/docs" // Swagger docs
	"github.com/lshigami/studyhub-ai/internal/cache"
	"github.com/lshigami/studyhub-ai/internal/controller"
	adminctrl "github.com/lshigami/studyhub-ai/internal/controller/admin"
	userctrl "github.com/lshigami/studyhub-ai/internal/controller/user"
	"github.com/lshigami/studyhub-ai/internal/model"
	"github.com/lshigami/studyhub-ai/internal/repository"
	"github.com/lshigami/studyhub-ai/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func runServer(cfg *config.Config) error {
	app := fx.New(
		fx.NopLogger,
		fx.Supply(cfg),

		// Core Application Components
		fx.Provide(
			database.NewDatabase, // nil when no DATABASE_HOST
			cache.NewGenerationCache,
			NewGinEngine,
		),

		// Repositories Layer
		fx.Provide(
			repository.NewQuestionRepository,
			repository.NewCustomTestRepository,
			repository.NewTestAttemptRepository,
		),

		// Services Layer
		fx.Provide(
			service.NewGeminiLLMService,
			service.NewLevelScaleService,
			service.NewBatchOrchestrator,
			service.NewGenerationService,
			service.NewGradingService,
			service.NewRecommender,
			service.NewCustomTestService,
		),

		// API Controllers Layer
		fx.Provide(
			userctrl.NewGenerationController,
			userctrl.NewGradingController,
			userctrl.NewUserTestController,
			adminctrl.NewAdminQuestionController,
		),

		fx.Invoke(AutoMigrateDB),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Error().Err(err).Msg("Failed to start application")
		return err
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")

	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return app.Stop(stopCtx)
}

func NewGinEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	// URL: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/healthz", controller.Health)

	return r
}

// RegisterRoutesAndStartServer wires every controller and ties the HTTP
// server, model client and cache to the fx lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	generationCtrl *userctrl.GenerationController,
	gradingCtrl *userctrl.GradingController,
	userTestCtrl *userctrl.UserTestController,
	adminQuestionCtrl *adminctrl.AdminQuestionController,
	llm service.GeminiLLMService,
	generationCache cache.GenerationCache,
) {
	generationCtrl.RegisterRoutes(router)
	gradingCtrl.RegisterRoutes(router)
	userTestCtrl.RegisterRoutes(router)
	adminQuestionCtrl.RegisterRoutes(router)

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("StudyHub AI server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			err := server.Shutdown(shutdownCtx)
			if cerr := llm.Close(); cerr != nil {
				log.Warn().Err(cerr).Msg("Closing Gemini client failed")
			}
			if cerr := generationCache.Close(); cerr != nil {
				log.Warn().Err(cerr).Msg("Closing generation cache failed")
			}
			return err
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.BankQuestion{},
		&model.CustomTest{},
		&model.TestAttempt{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
