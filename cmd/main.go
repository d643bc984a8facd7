package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/Kinkajou/config"
	"github.com/lshigami/Kinkajou/database"
	_ "github.com/lshigami/Kinkajou/docs" // Swagger docs - auto-generated
	adminctrl "github.com/lshigami/Kinkajou/internal/controller/admin"
	userctrl "github.com/lshigami/Kinkajou/internal/controller/user"
	"github.com/lshigami/Kinkajou/internal/logger"
	"github.com/lshigami/Kinkajou/internal/metrics"
	"github.com/lshigami/Kinkajou/internal/model"
	"github.com/lshigami/Kinkajou/internal/repository"
	"github.com/lshigami/Kinkajou/internal/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Fleet Safety Compliance API
// @version 1.0
// @description Pre-trip/in-trip/post-trip inspection scoring, critical-failure overrides and driver risk trends for fleet dispatch gating.
// @contact.name API Support
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()
	metrics.Register()

	app := fx.New(
		// Core Application Components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase, // Provides *gorm.DB
			NewGinEngine,         // Provides *gin.Engine
			service.NewRiskPolicy,
		),

		// Repositories Layer
		fx.Provide(
			repository.NewChecklistRepository,
			repository.NewTripRepository,
			repository.NewTripModuleRepository,
			repository.NewTelemetryRepository,
			repository.NewInspectionRepository,
			repository.NewCriticalFailureRepository,
		),

		// Services Layer
		fx.Provide(
			service.NewChecklistService,
			service.NewModuleScorerService,
			service.NewPhaseScorerService,
			service.NewRiskEngineService,
			service.NewOverrideService,
			service.NewTrendService,
			service.NewTripService,
		),

		// API Controllers Layer
		fx.Provide(
			adminctrl.NewChecklistController,
			userctrl.NewTripController,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// Route gin's request log through the global zerolog instance.
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
		AllowOrigins:     []string{"*"}, // Be more specific in production
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger UI: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	checklistCtrl *adminctrl.ChecklistController,
	tripCtrl *userctrl.TripController,
) {
	// Admin Routes (prefixed with /api/v1/admin)
	adminAPIGroup := router.Group("/api/v1/admin")
	{
		modulesGroup := adminAPIGroup.Group("/checklist-modules")
		modulesGroup.POST("", checklistCtrl.CreateModule)
		modulesGroup.GET("", checklistCtrl.ListModules)
		modulesGroup.GET("/:module_id", checklistCtrl.GetModule)
		modulesGroup.PUT("/:module_id", checklistCtrl.UpdateModule)

		failuresGroup := adminAPIGroup.Group("/critical-failures")
		failuresGroup.POST("", checklistCtrl.LogCriticalFailure)
		failuresGroup.GET("", checklistCtrl.ListCriticalFailures)
		failuresGroup.PUT("/:failure_id/resolve", checklistCtrl.ResolveCriticalFailure)
		failuresGroup.DELETE("/:failure_id", checklistCtrl.DeleteCriticalFailure)
	}

	// User Routes (prefixed with /api/v1)
	userAPIGroup := router.Group("/api/v1")
	{
		tripsGroup := userAPIGroup.Group("/trips")
		tripsGroup.POST("", tripCtrl.CreateTrip)
		tripsGroup.GET("/:trip_id", tripCtrl.GetTrip)
		tripsGroup.POST("/:trip_id/answers", tripCtrl.SubmitAnswers)
		tripsGroup.POST("/:trip_id/submit", tripCtrl.SubmitTrip)
		tripsGroup.POST("/:trip_id/review", tripCtrl.BeginReview)
		tripsGroup.POST("/:trip_id/decision", tripCtrl.Decide)

		tripsGroup.GET("/:trip_id/risk-score", tripCtrl.GetRiskScore)
		tripsGroup.GET("/:trip_id/module-scores", tripCtrl.GetModuleScores)
		tripsGroup.GET("/:trip_id/override-check", tripCtrl.CheckOverride)
		tripsGroup.POST("/:trip_id/recalculate", tripCtrl.Recalculate)

		userAPIGroup.GET("/drivers/:driver_id/risk-trend", tripCtrl.GetRiskTrend)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Fleet compliance API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.ChecklistModule{},
		&model.ChecklistItem{},
		&model.Trip{},
		&model.TripModule{},
		&model.ModuleAnswer{},
		&model.CriticalFailure{},
		&model.SpeedViolation{},
		&model.FatigueReading{},
		&model.TripIncident{},
		&model.RealTimeAlert{},
		&model.PostTripInspection{},
		&model.InspectionItem{},
		&model.FuelRecord{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
