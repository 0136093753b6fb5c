package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "pesaprime/internal/errors"
	"pesaprime/internal/models"
	"pesaprime/internal/pagination"
	"pesaprime/internal/services"
)

// WalletHandler handles wallet and transaction log requests
type WalletHandler struct {
	walletService      services.WalletServicer
	transactionService services.TransactionServicer
	userService        services.UserServicer
}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler(walletService services.WalletServicer, transactionService services.TransactionServicer, userService services.UserServicer) *WalletHandler {
	return &WalletHandler{
		walletService:      walletService,
		transactionService: transactionService,
		userService:        userService,
	}
}

// CashMovementRequest represents a deposit or withdrawal payload
type CashMovementRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Currency      string          `json:"currency" binding:"omitempty,display_currency"`
	PaymentMethod string          `json:"payment_method" binding:"required,max=50"`
}

// TransactionListRequest represents the transaction log query parameters
type TransactionListRequest struct {
	pagination.PageRequest
	Type   string `form:"type" binding:"omitempty,transaction_type"`
	Status string `form:"status" binding:"omitempty,transaction_status"`
}

// Summary returns the wallet summary
// @Summary     Get wallet summary
// @Description Get the wallet balance, equity, and open position totals in the display currency
// @Tags        wallet
// @Produce     json
// @Param       currency query string false "Display currency override"
// @Success     200 {object} services.WalletSummary
// @Router      /wallet [get]
func (h *WalletHandler) Summary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.walletService.Summary(userID, displayCurrency(c, h.userService, userID))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Deposit credits the wallet
// @Summary     Deposit funds
// @Description Deposit funds into the wallet; the amount is converted from the given currency
// @Tags        wallet
// @Accept      json
// @Produce     json
// @Param       request body CashMovementRequest true "Deposit details"
// @Success     201 {object} models.Transaction
// @Failure     400 {object} map[string]interface{} "Invalid input"
// @Router      /wallet/deposit [post]
func (h *WalletHandler) Deposit(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CashMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	if req.Currency == "" {
		req.Currency = "KES"
	}

	transaction, err := h.walletService.Deposit(userID, req.Amount, req.Currency, req.PaymentMethod)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, transaction)
}

// Withdraw debits the wallet
// @Summary     Withdraw funds
// @Description Withdraw funds from the wallet if the balance covers the amount
// @Tags        wallet
// @Accept      json
// @Produce     json
// @Param       request body CashMovementRequest true "Withdrawal details"
// @Success     201 {object} models.Transaction
// @Failure     400 {object} map[string]interface{} "Insufficient funds or invalid input"
// @Router      /wallet/withdraw [post]
func (h *WalletHandler) Withdraw(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CashMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	if req.Currency == "" {
		req.Currency = "KES"
	}

	transaction, err := h.walletService.Withdraw(userID, req.Amount, req.Currency, req.PaymentMethod)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, transaction)
}

// Transactions lists the transaction log
// @Summary     List transactions
// @Description List the user's transactions, newest first, with optional type and status filters
// @Tags        wallet
// @Produce     json
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Param       type query string false "Transaction type filter"
// @Param       status query string false "Transaction status filter"
// @Success     200 {object} pagination.PageResponse[models.Transaction]
// @Router      /wallet/transactions [get]
func (h *WalletHandler) Transactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TransactionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter := services.TransactionFilter{}
	if req.Type != "" {
		txType := models.TransactionType(req.Type)
		filter.Type = &txType
	}
	if req.Status != "" {
		status := models.TransactionStatus(req.Status)
		filter.Status = &status
	}

	page, err := h.transactionService.GetUserTransactions(userID, req.PageRequest, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}
