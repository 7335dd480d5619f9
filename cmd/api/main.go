package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"cashflow/internal/config"
	"cashflow/internal/database"
	"cashflow/internal/email"
	"cashflow/internal/handlers"
	"cashflow/internal/logger"
	"cashflow/internal/middleware"
	"cashflow/internal/namecache"
	"cashflow/internal/realtime"
	"cashflow/internal/services"
	"cashflow/internal/validator"

	_ "cashflow/internal/docs" // Import swagger docs
)

// @title           Cashflow API
// @version         1.0
// @description     Cashflow is a household budgeting application: shared households, reusable budget templates, and monthly budgets with baseline variance tracking.
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

	// Register custom request validators
	validator.Register()

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Initialize services
	db := dbManager.DB()
	membershipService := services.NewMembershipService(db)
	userService := services.NewUserService(db)
	householdService := services.NewHouseholdService(db, membershipService)
	inviteService := services.NewInviteService(db, membershipService, appConfig.InviteTTL)
	templateService := services.NewTemplateService(db, membershipService)
	budgetService := services.NewBudgetService(db, membershipService)
	copyService := services.NewCopyService(db, membershipService)
	activityService := services.NewActivityService(db, membershipService)

	// Realtime hub and actor name cache
	hub := realtime.NewHub(log)
	names := namecache.New(1024, 10*time.Minute, userService.DisplayName)

	// Outbound email
	mailer := email.NewClient(appConfig.ResendAPIKey, appConfig.FromEmail)
	if !mailer.Configured() {
		log.Warn("RESEND_API_KEY not set; invite emails will not be sent")
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, inviteService)
	householdHandler := handlers.NewHouseholdHandler(householdService, activityService)
	inviteHandler := handlers.NewInviteHandler(inviteService, householdService, activityService, mailer)
	templateHandler := handlers.NewTemplateHandler(templateService, membershipService, activityService, hub, names)
	budgetHandler := handlers.NewBudgetHandler(budgetService, copyService, membershipService, activityService, hub, names)
	realtimeHandler := handlers.NewRealtimeHandler(hub, membershipService)

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
	protected.PUT("/profile", authHandler.UpdateProfile)

	// Household routes
	households := protected.Group("/households")
	households.POST("", householdHandler.CreateHousehold)
	households.GET("/active", householdHandler.GetActiveHousehold)
	households.GET("/:id/members", householdHandler.GetMembers)
	households.PUT("/:id/members/:memberID", householdHandler.UpdateMemberRole)
	households.DELETE("/:id/members/:memberID", householdHandler.RemoveMember)
	households.GET("/:id/activity", householdHandler.GetActivity)
	households.POST("/:id/invites", inviteHandler.CreateInvite)
	households.POST("/:id/invites/resend", inviteHandler.ResendInvite)

	// Invite acceptance
	invites := protected.Group("/invites")
	invites.POST("/accept", inviteHandler.AcceptInvite)
	invites.POST("/accept-pending", inviteHandler.AcceptPendingInvites)

	// Template routes
	templates := protected.Group("/templates")
	templates.POST("", templateHandler.CreateTemplate)
	templates.GET("", templateHandler.GetTemplates)
	templates.GET("/:id", templateHandler.GetTemplate)
	templates.PUT("/:id", templateHandler.RenameTemplate)
	templates.DELETE("/:id", templateHandler.DeleteTemplate)
	templates.POST("/:id/incomes", templateHandler.CreateTemplateIncome)
	templates.PUT("/:id/incomes/:itemID", templateHandler.UpdateTemplateIncome)
	templates.DELETE("/:id/incomes/:itemID", templateHandler.DeleteTemplateIncome)
	templates.POST("/:id/expenses", templateHandler.CreateTemplateExpense)
	templates.PUT("/:id/expenses/:itemID", templateHandler.UpdateTemplateExpense)
	templates.DELETE("/:id/expenses/:itemID", templateHandler.DeleteTemplateExpense)
	templates.POST("/:id/allocations", templateHandler.CreateTemplateAllocation)
	templates.PUT("/:id/allocations/:itemID", templateHandler.UpdateTemplateAllocation)
	templates.DELETE("/:id/allocations/:itemID", templateHandler.DeleteTemplateAllocation)

	// Budget routes
	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/month", budgetHandler.GetBudgetByMonth)
	budgets.POST("/copy-template", budgetHandler.CopyTemplate)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.POST("/:id/duplicate", budgetHandler.DuplicateBudget)
	budgets.POST("/:id/incomes", budgetHandler.CreateBudgetIncome)
	budgets.PUT("/:id/incomes/:itemID", budgetHandler.UpdateBudgetIncome)
	budgets.DELETE("/:id/incomes/:itemID", budgetHandler.DeleteBudgetIncome)
	budgets.POST("/:id/expenses", budgetHandler.CreateBudgetExpense)
	budgets.PUT("/:id/expenses/:itemID", budgetHandler.UpdateBudgetExpense)
	budgets.DELETE("/:id/expenses/:itemID", budgetHandler.DeleteBudgetExpense)
	budgets.POST("/:id/allocations", budgetHandler.CreateBudgetAllocation)
	budgets.PUT("/:id/allocations/:itemID", budgetHandler.UpdateBudgetAllocation)
	budgets.DELETE("/:id/allocations/:itemID", budgetHandler.DeleteBudgetAllocation)

	// Realtime change feed
	protected.GET("/ws", realtimeHandler.Subscribe)

	log.Infof("Starting Cashflow backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
