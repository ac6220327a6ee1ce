package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/aniruddh-code-002/moodmart/internal/config"
	"github.com/aniruddh-code-002/moodmart/internal/database"
	"github.com/aniruddh-code-002/moodmart/internal/handlers"
	"github.com/aniruddh-code-002/moodmart/internal/messaging"
	"github.com/aniruddh-code-002/moodmart/internal/middleware"
	"github.com/aniruddh-code-002/moodmart/internal/services"
	"github.com/aniruddh-code-002/moodmart/internal/validation"
)

type App struct {
	config   *config.Config
	logger   *logrus.Logger
	db       *database.Database
	bus      *messaging.MessageBus
	services *services.Services
	handlers *handlers.Handlers
	router   *gin.Engine
}

func New(cfg *config.Config) (*App, error) {
	app := &App{
		config: cfg,
		logger: setupLogger(cfg),
	}

	db, err := database.New(cfg, app.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	app.bus = messaging.NewMessageBus(&cfg.Kafka, app.logger)
	app.services = services.New(cfg, db, app.logger)
	app.handlers = handlers.New(app.logger, app.services, app.bus)

	validator, err := validation.NewSchemaValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to load request schemas: %w", err)
	}

	app.setupRouter(validator)

	return app, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Shutting down application...")

	a.services.Stop()

	if err := a.bus.Close(); err != nil {
		a.logger.WithError(err).Warn("Error closing message bus")
	}

	if err := a.db.Close(); err != nil {
		a.logger.WithError(err).Error("Error closing database connections")
		return err
	}

	return nil
}

func setupLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}

func (a *App) setupRouter(validator *validation.SchemaValidator) {
	if a.config.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Logger(a.logger))
	router.Use(middleware.Recovery(a.logger))
	router.Use(middleware.CORS(a.config))

	validate := middleware.NewValidationMiddleware(validator)

	router.GET("/health", a.handlers.Health.Check)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	{
		products := api.Group("/products")
		{
			products.GET("", a.handlers.Product.List)
			products.GET("/:productId", a.handlers.Product.Get)
			products.GET("/:productId/similar", a.handlers.Search.Similar)
		}

		api.POST("/recommendations", validate.ValidateRecommendationRequest(), a.handlers.Recommendation.Generate)
		api.POST("/interactions", validate.ValidateInteractionRequest(), a.handlers.Interaction.Track)
		api.POST("/search", validate.ValidateSearchRequest(), a.handlers.Search.Search)
		api.POST("/sentiment", validate.ValidateSentimentRequest(), a.handlers.Sentiment.Analyze)
	}

	a.router = router
}
