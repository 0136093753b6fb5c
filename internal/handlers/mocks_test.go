package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pesaprime/internal/models"
	"pesaprime/internal/pagination"
	"pesaprime/internal/services"
	"pesaprime/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

// injectUserID stands in for the auth middleware in handler tests.
func injectUserID(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	}
}

// --- mock services ---

type mockUserService struct {
	registerFn    func(email, password, currencyPreference string) (*models.User, error)
	loginFn       func(email, password string) (*models.User, error)
	getUserByIDFn func(userID string) (*models.User, error)
}

func (m *mockUserService) Register(email, password, currencyPreference string) (*models.User, error) {
	if m.registerFn != nil {
		return m.registerFn(email, password, currencyPreference)
	}
	return &models.User{}, nil
}

func (m *mockUserService) Login(email, password string) (*models.User, error) {
	if m.loginFn != nil {
		return m.loginFn(email, password)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByID(userID string) (*models.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(userID)
	}
	return &models.User{CurrencyPreference: "KES"}, nil
}

type mockWalletService struct {
	summaryFn  func(userID, displayCurrency string) (*services.WalletSummary, error)
	depositFn  func(userID string, amount decimal.Decimal, currency, method string) (*models.Transaction, error)
	withdrawFn func(userID string, amount decimal.Decimal, currency, method string) (*models.Transaction, error)
}

func (m *mockWalletService) GetOrCreate(string) (*models.Wallet, error) { return &models.Wallet{}, nil }

func (m *mockWalletService) Deposit(userID string, amount decimal.Decimal, currency, method string) (*models.Transaction, error) {
	if m.depositFn != nil {
		return m.depositFn(userID, amount, currency, method)
	}
	return &models.Transaction{}, nil
}

func (m *mockWalletService) Withdraw(userID string, amount decimal.Decimal, currency, method string) (*models.Transaction, error) {
	if m.withdrawFn != nil {
		return m.withdrawFn(userID, amount, currency, method)
	}
	return &models.Transaction{}, nil
}

func (m *mockWalletService) RecomputeBalance(string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (m *mockWalletService) VerifyConsistency(string) error { return nil }

func (m *mockWalletService) Summary(userID, displayCurrency string) (*services.WalletSummary, error) {
	if m.summaryFn != nil {
		return m.summaryFn(userID, displayCurrency)
	}
	return &services.WalletSummary{Currency: displayCurrency}, nil
}

func (m *mockWalletService) Credit(*gorm.DB, string, decimal.Decimal) error { return nil }
func (m *mockWalletService) Debit(*gorm.DB, string, decimal.Decimal) error  { return nil }

type mockTransactionService struct {
	getUserTransactionsFn func(userID string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
}

func (m *mockTransactionService) GetUserTransactions(userID string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	if m.getUserTransactionsFn != nil {
		return m.getUserTransactionsFn(userID, page, filter)
	}
	resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockTransactionService) GetTransactionByID(string, string) (*models.Transaction, error) {
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) UpdateStatus(string, models.TransactionStatus) (*models.Transaction, error) {
	return &models.Transaction{}, nil
}

type mockInvestmentService struct {
	createFn func(userID, assetID string, amount decimal.Decimal, currency string, durationHours int) (*models.Investment, error)
	closeFn  func(userID, investmentID string, byAdmin bool) (*models.Investment, error)
}

func (m *mockInvestmentService) Create(userID, assetID string, amount decimal.Decimal, currency string, durationHours int) (*models.Investment, error) {
	if m.createFn != nil {
		return m.createFn(userID, assetID, amount, currency, durationHours)
	}
	return &models.Investment{}, nil
}

func (m *mockInvestmentService) GetByID(string, string) (*models.Investment, error) {
	return &models.Investment{}, nil
}

func (m *mockInvestmentService) GetUserInvestments(string, pagination.PageRequest) (*pagination.PageResponse[models.Investment], error) {
	resp := pagination.NewPageResponse([]models.Investment{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockInvestmentService) Valuation(*models.Investment, string) services.Valuation {
	return services.Valuation{}
}

func (m *mockInvestmentService) Close(userID, investmentID string, byAdmin bool) (*models.Investment, error) {
	if m.closeFn != nil {
		return m.closeFn(userID, investmentID, byAdmin)
	}
	return &models.Investment{}, nil
}

func (m *mockInvestmentService) AutoCloseDue(context.Context) (int, error) { return 0, nil }

type mockBonusService struct {
	claimFn func(userID, bonusID string) (*models.Bonus, error)
}

func (m *mockBonusService) Grant(userID, title, description string, amount decimal.Decimal, expiresAt time.Time) (*models.Bonus, error) {
	return &models.Bonus{UserID: userID, Title: title, Amount: amount, ExpiresAt: expiresAt}, nil
}

func (m *mockBonusService) GetUserBonuses(string, bool) ([]models.Bonus, error) {
	return []models.Bonus{}, nil
}

func (m *mockBonusService) Claim(userID, bonusID string) (*models.Bonus, error) {
	if m.claimFn != nil {
		return m.claimFn(userID, bonusID)
	}
	return &models.Bonus{}, nil
}
