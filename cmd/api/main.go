package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"pesaprime/internal/config"
	"pesaprime/internal/currency"
	"pesaprime/internal/database"
	"pesaprime/internal/handlers"
	"pesaprime/internal/logger"
	"pesaprime/internal/middleware"
	"pesaprime/internal/pricefeed"
	"pesaprime/internal/scheduler"
	"pesaprime/internal/services"
	"pesaprime/internal/validator"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()

	// Ledger plumbing
	db := dbManager.DB()
	converter := currency.NewConverter(appConfig.BaseCurrency, nil)

	// Services
	walletService := services.NewWalletService(db, converter)
	userService := services.NewUserService(db, walletService)
	assetService := services.NewAssetService(db)
	investmentService := services.NewInvestmentService(db, walletService, converter)
	transactionService := services.NewTransactionService(db)
	bonusService := services.NewBonusService(db, walletService)

	// Price feed
	httpClient := &http.Client{Timeout: appConfig.FeedTimeout}
	fallback, err := decimal.NewFromString(appConfig.USDRateFallback)
	if err != nil {
		return fmt.Errorf("invalid USD_RATE_FALLBACK: %w", err)
	}
	rateSource := pricefeed.NewUSDRateSource(httpClient, appConfig.BaseCurrency, fallback, time.Hour)
	updater := pricefeed.NewUpdater(db, []pricefeed.Provider{
		pricefeed.NewCoinGeckoProvider(httpClient),
		pricefeed.NewExchangeRateProvider(httpClient),
		pricefeed.NewYahooProvider(httpClient),
	}, rateSource)

	// Background jobs
	jobs := scheduler.New(10 * time.Minute)
	refreshSchedule := fmt.Sprintf("@every %dh", appConfig.PriceRefreshHours)
	if err := jobs.AddJob(refreshSchedule, &scheduler.PriceRefreshJob{Updater: updater}); err != nil {
		return fmt.Errorf("failed to register price refresh job: %w", err)
	}
	closeSchedule := fmt.Sprintf("@every %s", appConfig.AutoCloseInterval)
	if err := jobs.AddJob(closeSchedule, &scheduler.AutoCloseJob{Investments: investmentService}); err != nil {
		return fmt.Errorf("failed to register auto-close job: %w", err)
	}
	jobs.Start()
	defer jobs.Stop()

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	walletHandler := handlers.NewWalletHandler(walletService, transactionService, userService)
	assetHandler := handlers.NewAssetHandler(assetService, userService, converter)
	investmentHandler := handlers.NewInvestmentHandler(investmentService, userService)
	bonusHandler := handlers.NewBonusHandler(bonusService)
	adminHandler := handlers.NewAdminHandler(investmentService, bonusService, updater)

	if appConfig.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		if err := dbManager.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	wallet := protected.Group("/wallet")
	wallet.GET("", walletHandler.Summary)
	wallet.POST("/deposit", walletHandler.Deposit)
	wallet.POST("/withdraw", walletHandler.Withdraw)
	wallet.GET("/transactions", walletHandler.Transactions)

	assets := protected.Group("/assets")
	assets.GET("", assetHandler.List)
	assets.GET("/:id", assetHandler.Get)

	investments := protected.Group("/investments")
	investments.POST("", investmentHandler.Create)
	investments.GET("", investmentHandler.List)
	investments.GET("/:id", investmentHandler.Get)
	investments.POST("/:id/close", investmentHandler.Close)

	bonuses := protected.Group("/bonuses")
	bonuses.GET("", bonusHandler.List)
	bonuses.POST("/:id/claim", bonusHandler.Claim)

	// Admin routes
	admin := protected.Group("/admin")
	admin.Use(middleware.RequireAdmin(userService))
	admin.POST("/investments/:id/close", adminHandler.CloseInvestment)
	admin.POST("/assets/refresh", adminHandler.RefreshAssets)
	admin.POST("/bonuses", adminHandler.GrantBonus)

	// Graceful shutdown on SIGINT/SIGTERM
	srv := &http.Server{
		Addr:    ":" + appConfig.Port,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting server on port %s", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		log.Infof("Received signal %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
