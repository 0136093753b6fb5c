package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestInvestmentFlow_FullLifecycle(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "invest@test.com", "password123")
	asset := app.seedAsset(t, "BTC", 100, 50)
	app.deposit(t, token, 5000)

	// Step 1: Open a position of KES 1000 for 6 hours.
	rec := app.request("POST", "/api/v1/investments",
		fmt.Sprintf(`{"asset_id":%q,"amount":1000,"duration_hours":6}`, asset.ID), token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 opening position, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	investment := result["investment"].(map[string]interface{})
	investmentID := investment["id"].(string)
	if investment["status"].(string) != "active" {
		t.Errorf("expected active position, got %v", investment["status"])
	}
	if investment["units"].(string) != "10" {
		t.Errorf("expected 10 units at entry price 100, got %v", investment["units"])
	}

	// Step 2: The wallet was debited.
	rec = app.request("GET", "/api/v1/wallet", "", token)
	summary := parseJSON(t, rec)
	if summary["balance"].(string) != "4000" {
		t.Errorf("expected balance 4000 after investing, got %v", summary["balance"])
	}
	if summary["active_investments"].(float64) != 1 {
		t.Errorf("expected 1 active investment, got %v", summary["active_investments"])
	}

	// Step 3: The position shows up with a live valuation.
	rec = app.request("GET", "/api/v1/investments/"+investmentID, "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 fetching position, got %d: %s", rec.Code, rec.Body.String())
	}
	valuation := parseJSON(t, rec)["valuation"].(map[string]interface{})
	if valuation["current_value"].(string) != "1000" {
		t.Errorf("expected current value 1000 at unchanged price, got %v", valuation["current_value"])
	}

	// Step 4: Closing before the duration elapses only parks the position.
	rec = app.request("POST", "/api/v1/investments/"+investmentID+"/close", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for early close, got %d: %s", rec.Code, rec.Body.String())
	}
	closed := parseJSON(t, rec)
	if closed["status"].(string) != "pending_close" {
		t.Errorf("expected pending_close, got %v", closed["status"])
	}
	rec = app.request("GET", "/api/v1/wallet", "", token)
	summary = parseJSON(t, rec)
	if summary["balance"].(string) != "4000" {
		t.Errorf("expected no payout on early close, balance %v", summary["balance"])
	}

	// Step 5: A second owner close is refused while review is pending.
	rec = app.request("POST", "/api/v1/investments/"+investmentID+"/close", "", token)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 re-closing a pending position, got %d", rec.Code)
	}

	// Step 6: An admin settles it, paying 50/hour over 6 hours.
	adminToken := app.registerAdmin(t, "admin@test.com", "password123")
	rec = app.request("POST", "/api/v1/admin/investments/"+investmentID+"/close", "", adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin close, got %d: %s", rec.Code, rec.Body.String())
	}
	settled := parseJSON(t, rec)
	if settled["status"].(string) != "closed" {
		t.Errorf("expected closed, got %v", settled["status"])
	}
	if settled["profit_loss"].(string) != "300" {
		t.Errorf("expected profit 300, got %v", settled["profit_loss"])
	}

	// Step 7: The payout landed in the wallet.
	rec = app.request("GET", "/api/v1/wallet", "", token)
	summary = parseJSON(t, rec)
	if summary["balance"].(string) != "4300" {
		t.Errorf("expected balance 4300 after settlement, got %v", summary["balance"])
	}
	if summary["active_investments"].(float64) != 0 {
		t.Errorf("expected no active investments, got %v", summary["active_investments"])
	}

	// Step 8: Closing again is rejected.
	rec = app.request("POST", "/api/v1/admin/investments/"+investmentID+"/close", "", adminToken)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 closing twice, got %d", rec.Code)
	}
	if code := errorCode(t, rec); code != "INVESTMENT_CLOSED" {
		t.Errorf("expected INVESTMENT_CLOSED, got %s", code)
	}
}

func TestInvestmentFlow_MaturedCloseByOwner(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "mature@test.com", "password123")
	asset := app.seedAsset(t, "ETH", 200, 45)
	app.deposit(t, token, 2000)

	rec := app.request("POST", "/api/v1/investments",
		fmt.Sprintf(`{"asset_id":%q,"amount":800,"duration_hours":4}`, asset.ID), token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("open failed: %d %s", rec.Code, rec.Body.String())
	}
	investment := parseJSON(t, rec)["investment"].(map[string]interface{})
	investmentID := investment["id"].(string)

	app.backdateInvestment(t, investmentID, 5)

	// Once the duration has elapsed the owner's close settles immediately.
	rec = app.request("POST", "/api/v1/investments/"+investmentID+"/close", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for matured close, got %d: %s", rec.Code, rec.Body.String())
	}
	closed := parseJSON(t, rec)
	if closed["status"].(string) != "closed" {
		t.Errorf("expected closed, got %v", closed["status"])
	}
	if closed["profit_loss"].(string) != "180" {
		t.Errorf("expected profit 180 (45 x 4h), got %v", closed["profit_loss"])
	}

	rec = app.request("GET", "/api/v1/wallet", "", token)
	summary := parseJSON(t, rec)
	if summary["balance"].(string) != "1380" {
		t.Errorf("expected balance 1380, got %v", summary["balance"])
	}
}

func TestInvestmentFlow_RejectsBadOpens(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "greedy@test.com", "password123")
	asset := app.seedAsset(t, "SOL", 50, 45)
	app.deposit(t, token, 400)

	// Below the asset minimum.
	rec := app.request("POST", "/api/v1/investments",
		fmt.Sprintf(`{"asset_id":%q,"amount":100,"duration_hours":6}`, asset.ID), token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 below minimum, got %d", rec.Code)
	}
	if code := errorCode(t, rec); code != "BELOW_MINIMUM" {
		t.Errorf("expected BELOW_MINIMUM, got %s", code)
	}

	// More than the wallet holds.
	rec = app.request("POST", "/api/v1/investments",
		fmt.Sprintf(`{"asset_id":%q,"amount":900,"duration_hours":6}`, asset.ID), token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 over balance, got %d", rec.Code)
	}
	if code := errorCode(t, rec); code != "INSUFFICIENT_FUNDS" {
		t.Errorf("expected INSUFFICIENT_FUNDS, got %s", code)
	}

	// A duration outside the allowed set never reaches the service.
	rec = app.request("POST", "/api/v1/investments",
		fmt.Sprintf(`{"asset_id":%q,"amount":400,"duration_hours":7}`, asset.ID), token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for duration 7, got %d", rec.Code)
	}
}

func TestInvestmentFlow_OwnershipIsolation(t *testing.T) {
	app := setupApp(t)
	ownerToken, _, _ := app.registerUser(t, "owner@test.com", "password123")
	otherToken, _, _ := app.registerUser(t, "other@test.com", "password123")
	asset := app.seedAsset(t, "ADA", 10, 45)
	app.deposit(t, ownerToken, 1000)

	rec := app.request("POST", "/api/v1/investments",
		fmt.Sprintf(`{"asset_id":%q,"amount":400,"duration_hours":3}`, asset.ID), ownerToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("open failed: %d %s", rec.Code, rec.Body.String())
	}
	investmentID := parseJSON(t, rec)["investment"].(map[string]interface{})["id"].(string)

	// Another user can neither read nor close the position.
	rec = app.request("GET", "/api/v1/investments/"+investmentID, "", otherToken)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign read, got %d", rec.Code)
	}
	rec = app.request("POST", "/api/v1/investments/"+investmentID+"/close", "", otherToken)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign close, got %d", rec.Code)
	}
}
