package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"cashflow/internal/email"
	"cashflow/internal/handlers"
	"cashflow/internal/logger"
	"cashflow/internal/middleware"
	"cashflow/internal/models"
	"cashflow/internal/namecache"
	"cashflow/internal/realtime"
	"cashflow/internal/services"
	"cashflow/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Hub    *realtime.Hub
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Household{},
		&models.HouseholdMember{},
		&models.InviteToken{},
		&models.BudgetTemplate{},
		&models.TemplateIncome{},
		&models.TemplateExpense{},
		&models.TemplateAllocation{},
		&models.MonthlyBudget{},
		&models.MonthlyIncome{},
		&models.MonthlyExpense{},
		&models.MonthlyAllocation{},
		&models.ActivityLog{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
	membershipService := services.NewMembershipService(db)
	userService := services.NewUserService(db)
	householdService := services.NewHouseholdService(db, membershipService)
	inviteService := services.NewInviteService(db, membershipService, 7*24*time.Hour)
	templateService := services.NewTemplateService(db, membershipService)
	budgetService := services.NewBudgetService(db, membershipService)
	copyService := services.NewCopyService(db, membershipService)
	activityService := services.NewActivityService(db, membershipService)

	hub := realtime.NewHub(logger.Get())
	names := namecache.New(64, time.Minute, userService.DisplayName)
	mailer := email.NewClient("", "noreply@test.local")

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, inviteService)
	householdHandler := handlers.NewHouseholdHandler(householdService, activityService)
	inviteHandler := handlers.NewInviteHandler(inviteService, householdService, activityService, mailer)
	templateHandler := handlers.NewTemplateHandler(templateService, membershipService, activityService, hub, names)
	budgetHandler := handlers.NewBudgetHandler(budgetService, copyService, membershipService, activityService, hub, names)
	realtimeHandler := handlers.NewRealtimeHandler(hub, membershipService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)
	protected.PUT("/profile", authHandler.UpdateProfile)

	households := protected.Group("/households")
	households.POST("", householdHandler.CreateHousehold)
	households.GET("/active", householdHandler.GetActiveHousehold)
	households.GET("/:id/members", householdHandler.GetMembers)
	households.PUT("/:id/members/:memberID", householdHandler.UpdateMemberRole)
	households.DELETE("/:id/members/:memberID", householdHandler.RemoveMember)
	households.GET("/:id/activity", householdHandler.GetActivity)
	households.POST("/:id/invites", inviteHandler.CreateInvite)
	households.POST("/:id/invites/resend", inviteHandler.ResendInvite)

	invites := protected.Group("/invites")
	invites.POST("/accept", inviteHandler.AcceptInvite)
	invites.POST("/accept-pending", inviteHandler.AcceptPendingInvites)

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

	protected.GET("/ws", realtimeHandler.Subscribe)

	return &testApp{DB: db, Hub: hub, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a new user and returns the access token, refresh token, and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (accessToken, refreshToken, userID string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"full_name":"Test User"}`, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["access_token"].(string), result["refresh_token"].(string), user["id"].(string)
}

// loginUser logs in and returns the access and refresh tokens.
func (app *testApp) loginUser(t *testing.T, email, password string) (accessToken, refreshToken string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["access_token"].(string), result["refresh_token"].(string)
}

// createHousehold creates a household for the caller and returns its ID.
func (app *testApp) createHousehold(t *testing.T, token, name, currency string) string {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q,"currency":%q}`, name, currency)
	rec := app.request("POST", "/api/v1/households", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create household failed: %d %s", rec.Code, rec.Body.String())
	}
	household := parseJSON(t, rec)["household"].(map[string]interface{})
	return household["id"].(string)
}

// createTemplate creates a template in the household and returns its ID.
func (app *testApp) createTemplate(t *testing.T, token, householdID, name string) string {
	t.Helper()
	body := fmt.Sprintf(`{"household_id":%q,"name":%q}`, householdID, name)
	rec := app.request("POST", "/api/v1/templates", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create template failed: %d %s", rec.Code, rec.Body.String())
	}
	template := parseJSON(t, rec)["template"].(map[string]interface{})
	return template["id"].(string)
}

// errorCode extracts the error code from an error response body.
func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	result := parseJSON(t, rec)
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error envelope, got: %s", rec.Body.String())
	}
	code, _ := errObj["code"].(string)
	return code
}
