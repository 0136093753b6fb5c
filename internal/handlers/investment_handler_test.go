package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "pesaprime/internal/errors"
	"pesaprime/internal/models"
)

func setupInvestmentRouter(handler *InvestmentHandler) *gin.Engine {
	r := gin.New()
	r.POST("/investments", injectUserID("user-1"), handler.Create)
	r.GET("/investments", injectUserID("user-1"), handler.List)
	r.GET("/investments/:id", injectUserID("user-1"), handler.Get)
	r.POST("/investments/:id/close", injectUserID("user-1"), handler.Close)
	return r
}

func TestInvestmentHandler_Create(t *testing.T) {
	t.Run("opens a position", func(t *testing.T) {
		investments := &mockInvestmentService{
			createFn: func(userID, assetID string, amount decimal.Decimal, currency string, durationHours int) (*models.Investment, error) {
				if durationHours != 6 {
					t.Errorf("expected 6 hour duration, got %d", durationHours)
				}
				return &models.Investment{
					UserID:         userID,
					AssetID:        assetID,
					InvestedAmount: amount,
					DurationHours:  durationHours,
					Status:         models.InvestmentStatusActive,
				}, nil
			},
		}
		handler := NewInvestmentHandler(investments, &mockUserService{})
		router := setupInvestmentRouter(handler)

		body := `{"asset_id": "0190857e-0000-7000-8000-000000000001", "amount": "1000", "duration_hours": 6}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/investments", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}
		if !strings.Contains(w.Body.String(), `"status":"active"`) {
			t.Errorf("expected active position in body: %s", w.Body.String())
		}
	})

	t.Run("rejects a duration outside the allowed set", func(t *testing.T) {
		handler := NewInvestmentHandler(&mockInvestmentService{}, &mockUserService{})
		router := setupInvestmentRouter(handler)

		body := `{"asset_id": "0190857e-0000-7000-8000-000000000001", "amount": "1000", "duration_hours": 7}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/investments", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})
}

func TestInvestmentHandler_Close(t *testing.T) {
	t.Run("never closes with admin semantics", func(t *testing.T) {
		investments := &mockInvestmentService{
			closeFn: func(userID, investmentID string, byAdmin bool) (*models.Investment, error) {
				if byAdmin {
					t.Error("user route must not carry admin semantics")
				}
				return &models.Investment{Status: models.InvestmentStatusPendingClose}, nil
			},
		}
		handler := NewInvestmentHandler(investments, &mockUserService{})
		router := setupInvestmentRouter(handler)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/investments/abc/close", nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("maps already-closed to a 400", func(t *testing.T) {
		investments := &mockInvestmentService{
			closeFn: func(string, string, bool) (*models.Investment, error) {
				return nil, apperrors.ErrInvestmentClosed
			},
		}
		handler := NewInvestmentHandler(investments, &mockUserService{})
		router := setupInvestmentRouter(handler)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/investments/abc/close", nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), "INVESTMENT_CLOSED") {
			t.Errorf("expected INVESTMENT_CLOSED code in body: %s", w.Body.String())
		}
	})
}
