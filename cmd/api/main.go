package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/mintleaf/mintleaf-backend/internal/classifier"
	"github.com/mintleaf/mintleaf-backend/internal/config"
	"github.com/mintleaf/mintleaf-backend/internal/domain"
	"github.com/mintleaf/mintleaf-backend/internal/engine"
	"github.com/mintleaf/mintleaf-backend/internal/handler"
	"github.com/mintleaf/mintleaf-backend/internal/i18n"
	"github.com/mintleaf/mintleaf-backend/internal/middleware"
	"github.com/mintleaf/mintleaf-backend/internal/repository/postgres"
	"github.com/mintleaf/mintleaf-backend/internal/service"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Connect to database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	// Verify database connection
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	// Initialize repositories
	accountRepo := postgres.NewAccountRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	ruleRepo := postgres.NewCategoryRuleRepository(pool)
	budgetRepo := postgres.NewBudgetRepository(pool)
	goalRepo := postgres.NewGoalRepository(pool)

	// Initialize the analysis engine
	resolver := engine.NewLocaleResolver(cfg.DefaultLocale)
	parser := engine.NewParser(resolver, cfg.Engine.ReviewThreshold)

	var cls engine.Classifier
	if cfg.Gemini.APIKey != "" {
		geminiClassifier, err := classifier.NewGeminiClassifier(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model, categoryRepo)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create Gemini classifier")
		}
		cls = geminiClassifier
		log.Info().Str("model", cfg.Gemini.Model).Msg("External classifier enabled")
	}

	categorizerCfg := engine.CategorizerConfig{
		ConfidenceFloor: cfg.Engine.ConfidenceFloor,
		ExternalTimeout: cfg.Engine.ClassifierTimeout,
	}
	if uncategorized, err := categoryRepo.GetByName(context.Background(), domain.UncategorizedName); err == nil {
		categorizerCfg.DefaultCategoryID = uncategorized.ID
	} else {
		log.Warn().Err(err).Msg("Uncategorized category missing; default tier leaves category unresolved")
	}
	categorizer := engine.NewCategorizer(ruleRepo, cls, categorizerCfg)

	generator := engine.NewGenerator(resolver, i18n.New(resolver), engine.InsightConfig{
		TrendThreshold:    cfg.Engine.TrendThreshold,
		TrendWarning:      cfg.Engine.TrendWarning,
		OverspendCritical: cfg.Engine.OverspendCritical,
		AnomalyMultiple:   cfg.Engine.AnomalyMultiple,
	})

	// Initialize services
	accountService := service.NewAccountService(accountRepo)
	transactionService := service.NewTransactionService(transactionRepo, accountRepo, categoryRepo, parser, categorizer)
	categoryService := service.NewCategoryService(categoryRepo, ruleRepo)
	budgetService := service.NewBudgetService(budgetRepo, categoryRepo, transactionRepo)
	goalService := service.NewGoalService(goalRepo)
	insightService := service.NewInsightService(transactionRepo, budgetRepo, goalRepo, categoryRepo, generator)

	// Initialize handlers
	accountHandler := handler.NewAccountHandler(accountService)
	transactionHandler := handler.NewTransactionHandler(transactionService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	budgetHandler := handler.NewBudgetHandler(budgetService)
	goalHandler := handler.NewGoalHandler(goalService)
	insightHandler := handler.NewInsightHandler(insightService)

	// Per-user rate limiter
	rateLimiter := middleware.NewRateLimiter()
	defer rateLimiter.Stop()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, middleware.UserIDHeader, middleware.LocaleHeader},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Register API routes
	handler.RegisterRoutes(e, rateLimiter, accountHandler, transactionHandler, categoryHandler, budgetHandler, goalHandler, insightHandler)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
