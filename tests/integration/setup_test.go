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
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"pesaprime/internal/currency"
	"pesaprime/internal/handlers"
	"pesaprime/internal/logger"
	"pesaprime/internal/middleware"
	"pesaprime/internal/models"
	"pesaprime/internal/services"
	"pesaprime/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
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
		&models.Wallet{},
		&models.Asset{},
		&models.Investment{},
		&models.Transaction{},
		&models.Bonus{},
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
	converter := currency.NewConverter("KES", nil)

	// Services
	walletService := services.NewWalletService(db, converter)
	userService := services.NewUserService(db, walletService)
	assetService := services.NewAssetService(db)
	investmentService := services.NewInvestmentService(db, walletService, converter)
	transactionService := services.NewTransactionService(db)
	bonusService := services.NewBonusService(db, walletService)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	walletHandler := handlers.NewWalletHandler(walletService, transactionService, userService)
	assetHandler := handlers.NewAssetHandler(assetService, userService, converter)
	investmentHandler := handlers.NewInvestmentHandler(investmentService, userService)
	bonusHandler := handlers.NewBonusHandler(bonusService)
	adminHandler := handlers.NewAdminHandler(investmentService, bonusService, nil)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

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

	admin := protected.Group("/admin")
	admin.Use(middleware.RequireAdmin(userService))
	admin.POST("/investments/:id/close", adminHandler.CloseInvestment)
	admin.POST("/bonuses", adminHandler.GrantBonus)

	return &testApp{DB: db, Router: router}
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

// errorCode extracts the application error code from an error response body.
func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	result := parseJSON(t, rec)
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("response has no error object: %s", rec.Body.String())
	}
	code, _ := errObj["code"].(string)
	return code
}

// registerUser registers a new user and returns the access token, refresh token, and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (accessToken, refreshToken, userID string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
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

// registerAdmin registers a user and promotes it to admin directly in the database.
// Admin status is checked per request, so the original token stays valid.
func (app *testApp) registerAdmin(t *testing.T, email, password string) (accessToken string) {
	t.Helper()
	token, _, userID := app.registerUser(t, email, password)
	if err := app.DB.Model(&models.User{}).Where("id = ?", userID).Update("is_admin", true).Error; err != nil {
		t.Fatalf("failed to promote admin: %v", err)
	}
	return token
}

// seedAsset inserts a priced, active asset directly into the database.
func (app *testApp) seedAsset(t *testing.T, symbol string, price, hourlyIncome float64) *models.Asset {
	t.Helper()
	asset := &models.Asset{
		Name:          symbol + " Asset",
		Symbol:        symbol,
		Category:      models.AssetCategoryCrypto,
		CurrentPrice:  decimal.NewFromFloat(price),
		Trend:         models.TrendNeutral,
		MinInvestment: decimal.NewFromInt(350),
		HourlyIncome:  decimal.NewFromFloat(hourlyIncome),
		DurationHours: 6,
		IsActive:      true,
	}
	if err := app.DB.Create(asset).Error; err != nil {
		t.Fatalf("failed to seed asset: %v", err)
	}
	return asset
}

// deposit funds a user's wallet through the API.
func (app *testApp) deposit(t *testing.T, token string, amount float64) {
	t.Helper()
	body := fmt.Sprintf(`{"amount":%g,"payment_method":"mpesa"}`, amount)
	rec := app.request("POST", "/api/v1/wallet/deposit", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("deposit failed: %d %s", rec.Code, rec.Body.String())
	}
}

// backdateInvestment shifts an investment's start time into the past so its
// duration reads as elapsed.
func (app *testApp) backdateInvestment(t *testing.T, investmentID string, hours int) {
	t.Helper()
	start := time.Now().UTC().Add(-time.Duration(hours) * time.Hour)
	if err := app.DB.Model(&models.Investment{}).Where("id = ?", investmentID).Update("start_time", start).Error; err != nil {
		t.Fatalf("failed to backdate investment: %v", err)
	}
}
