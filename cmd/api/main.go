package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"clario/internal/config"
	"clario/internal/database"
	"clario/internal/handlers"
	"clario/internal/indicators"
	"clario/internal/logger"
	"clario/internal/marketdata"
	"clario/internal/middleware"
	"clario/internal/services"
	"clario/internal/validator"

	_ "clario/internal/docs" // Import swagger docs
)

// @title           Clario API
// @version         1.0
// @description     Clario is a personal finance application: bank accounts, credit cards, an investment ledger priced against live market data, and a financial-health score.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Register custom validation tags
	validator.Register()

	// Create database manager and run migrations
	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// External gateways
	gatewayClient := &http.Client{Timeout: 10 * time.Second}
	marketClient := marketdata.NewYahooClientWithURLs(gatewayClient,
		appConfig.QuoteBaseURL, appConfig.ChartBaseURL, appConfig.SearchBaseURL)
	indicatorClient := indicators.NewBCBClientWithURL(gatewayClient,
		appConfig.IndicatorBaseURL, appConfig.IndicatorTTL)

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	accountService := services.NewAccountService(db)
	categoryService := services.NewCategoryService(db)
	transactionService := services.NewTransactionService(db, accountService)
	cardService := services.NewCreditCardService(db)
	investmentService := services.NewInvestmentService(db)
	valuationService := services.NewValuationService(db, marketClient, indicatorClient, appConfig.FXFallbackRate)
	healthService := services.NewHealthService(db, accountService, cardService, valuationService, appConfig.Score)
	auditService := services.NewAuditService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	accountHandler := handlers.NewAccountHandler(accountService, auditService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService)
	cardHandler := handlers.NewCreditCardHandler(cardService, auditService)
	investmentHandler := handlers.NewInvestmentHandler(investmentService, valuationService, auditService)
	dashboardHandler := handlers.NewDashboardHandler(healthService)
	marketHandler := handlers.NewMarketHandler(marketClient)

	// Initialize Gin router
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

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Account routes
	accounts := protected.Group("/accounts")
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("", accountHandler.ListAccounts)
	accounts.GET("/:id", accountHandler.GetAccount)
	accounts.PUT("/:id", accountHandler.UpdateAccount)
	accounts.DELETE("/:id", accountHandler.DeleteAccount)

	// Category routes
	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.ListCategories)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.ListTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Credit card routes
	cards := protected.Group("/cards")
	cards.POST("", cardHandler.CreateCard)
	cards.GET("", cardHandler.ListCards)
	cards.DELETE("/transactions/:id", cardHandler.DeleteCardTransaction)
	cards.GET("/:id", cardHandler.GetCard)
	cards.DELETE("/:id", cardHandler.DeleteCard)
	cards.POST("/:id/transactions", cardHandler.AddCardTransaction)
	cards.GET("/:id/transactions", cardHandler.ListCardTransactions)
	cards.GET("/:id/bill", cardHandler.GetCurrentBill)

	// Investment routes
	investments := protected.Group("/investments")
	investments.POST("", investmentHandler.AddRecord)
	investments.GET("", investmentHandler.ListRecords)
	investments.GET("/positions", investmentHandler.GetPositions)
	investments.GET("/portfolio", investmentHandler.GetPortfolio)
	investments.GET("/:id", investmentHandler.GetRecord)
	investments.DELETE("/:id", investmentHandler.DeleteRecord)

	// Dashboard routes
	dashboard := protected.Group("/dashboard")
	dashboard.GET("/summary", dashboardHandler.GetSummary)
	dashboard.GET("/health", dashboardHandler.GetHealthScore)

	// Market data routes
	protected.GET("/market/search", marketHandler.SearchTickers)

	log.Infof("Starting Clario backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
