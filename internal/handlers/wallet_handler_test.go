package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "pesaprime/internal/errors"
	"pesaprime/internal/models"
	"pesaprime/internal/pagination"
	"pesaprime/internal/services"
)

func setupWalletRouter(handler *WalletHandler) *gin.Engine {
	r := gin.New()
	r.GET("/wallet", injectUserID("user-1"), handler.Summary)
	r.POST("/wallet/deposit", injectUserID("user-1"), handler.Deposit)
	r.POST("/wallet/withdraw", injectUserID("user-1"), handler.Withdraw)
	r.GET("/wallet/transactions", injectUserID("user-1"), handler.Transactions)
	return r
}

func TestWalletHandler_Deposit(t *testing.T) {
	t.Run("returns the created transaction", func(t *testing.T) {
		wallets := &mockWalletService{
			depositFn: func(userID string, amount decimal.Decimal, currency, method string) (*models.Transaction, error) {
				if userID != "user-1" {
					t.Errorf("expected user-1, got %s", userID)
				}
				if currency != "USD" || method != "card" {
					t.Errorf("unexpected currency %s or method %s", currency, method)
				}
				return &models.Transaction{
					Type:   models.TransactionTypeDeposit,
					Amount: decimal.NewFromInt(1408),
					Status: models.TransactionStatusCompleted,
				}, nil
			},
		}
		handler := NewWalletHandler(wallets, &mockTransactionService{}, &mockUserService{})
		router := setupWalletRouter(handler)

		body := `{"amount": "10", "currency": "USD", "payment_method": "card"}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/wallet/deposit", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var resp models.Transaction
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Type != models.TransactionTypeDeposit {
			t.Errorf("expected deposit, got %s", resp.Type)
		}
	})

	t.Run("rejects a malformed body", func(t *testing.T) {
		handler := NewWalletHandler(&mockWalletService{}, &mockTransactionService{}, &mockUserService{})
		router := setupWalletRouter(handler)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/wallet/deposit", strings.NewReader(`{"amount": "10"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})

	t.Run("rejects an unknown currency", func(t *testing.T) {
		handler := NewWalletHandler(&mockWalletService{}, &mockTransactionService{}, &mockUserService{})
		router := setupWalletRouter(handler)

		body := `{"amount": "10", "currency": "XYZ", "payment_method": "card"}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/wallet/deposit", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})
}

func TestWalletHandler_Withdraw(t *testing.T) {
	t.Run("maps insufficient funds to a 400 with its code", func(t *testing.T) {
		wallets := &mockWalletService{
			withdrawFn: func(string, decimal.Decimal, string, string) (*models.Transaction, error) {
				return nil, apperrors.ErrInsufficientFunds
			},
		}
		handler := NewWalletHandler(wallets, &mockTransactionService{}, &mockUserService{})
		router := setupWalletRouter(handler)

		body := `{"amount": "5000", "payment_method": "mpesa"}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/wallet/withdraw", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), "INSUFFICIENT_FUNDS") {
			t.Errorf("expected INSUFFICIENT_FUNDS code in body: %s", w.Body.String())
		}
	})
}

func TestWalletHandler_Summary(t *testing.T) {
	wallets := &mockWalletService{
		summaryFn: func(userID, displayCurrency string) (*services.WalletSummary, error) {
			return &services.WalletSummary{
				Currency: displayCurrency,
				Balance:  decimal.NewFromInt(1000),
			}, nil
		},
	}
	handler := NewWalletHandler(wallets, &mockTransactionService{}, &mockUserService{})
	router := setupWalletRouter(handler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/wallet?currency=USD", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"currency":"USD"`) {
		t.Errorf("expected USD summary, got %s", w.Body.String())
	}
}

func TestWalletHandler_Transactions(t *testing.T) {
	t.Run("passes filters through", func(t *testing.T) {
		transactions := &mockTransactionService{
			getUserTransactionsFn: func(userID string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
				if filter.Type == nil || *filter.Type != models.TransactionTypeDeposit {
					t.Error("expected deposit type filter")
				}
				resp := pagination.NewPageResponse([]models.Transaction{}, page.Page, page.PageSize, 0)
				return &resp, nil
			},
		}
		handler := NewWalletHandler(&mockWalletService{}, transactions, &mockUserService{})
		router := setupWalletRouter(handler)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/wallet/transactions?type=deposit", nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("rejects an invalid type filter", func(t *testing.T) {
		handler := NewWalletHandler(&mockWalletService{}, &mockTransactionService{}, &mockUserService{})
		router := setupWalletRouter(handler)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/wallet/transactions?type=jackpot", nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})
}
