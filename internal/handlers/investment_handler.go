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

// InvestmentHandler handles position lifecycle requests
type InvestmentHandler struct {
	investmentService services.InvestmentServicer
	userService       services.UserServicer
}

// NewInvestmentHandler creates a new InvestmentHandler
func NewInvestmentHandler(investmentService services.InvestmentServicer, userService services.UserServicer) *InvestmentHandler {
	return &InvestmentHandler{investmentService: investmentService, userService: userService}
}

// CreateInvestmentRequest represents the open-position payload
type CreateInvestmentRequest struct {
	AssetID       string          `json:"asset_id" binding:"required,uuid"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Currency      string          `json:"currency" binding:"omitempty,display_currency"`
	DurationHours int             `json:"duration_hours" binding:"omitempty,duration_hours"`
}

// InvestmentResponse is a position with its live valuation attached.
type InvestmentResponse struct {
	Investment *models.Investment `json:"investment"`
	Valuation  services.Valuation `json:"valuation"`
}

// Create opens a new position
// @Summary     Open an investment
// @Description Invest a wallet amount into an asset for a fixed duration
// @Tags        investments
// @Accept      json
// @Produce     json
// @Param       request body CreateInvestmentRequest true "Investment details"
// @Success     201 {object} InvestmentResponse
// @Failure     400 {object} map[string]interface{} "Invalid input or insufficient funds"
// @Router      /investments [post]
func (h *InvestmentHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	if req.Currency == "" {
		req.Currency = "KES"
	}

	investment, err := h.investmentService.Create(userID, req.AssetID, req.Amount, req.Currency, req.DurationHours)
	if err != nil {
		respondWithError(c, err)
		return
	}

	code := displayCurrency(c, h.userService, userID)
	c.JSON(http.StatusCreated, InvestmentResponse{
		Investment: investment,
		Valuation:  h.investmentService.Valuation(investment, code),
	})
}

// List returns the user's positions
// @Summary     List investments
// @Description List the user's investments with live valuations, newest first
// @Tags        investments
// @Produce     json
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Param       currency query string false "Display currency override"
// @Success     200 {object} pagination.PageResponse[InvestmentResponse]
// @Router      /investments [get]
func (h *InvestmentHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.investmentService.GetUserInvestments(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	code := displayCurrency(c, h.userService, userID)
	responses := make([]InvestmentResponse, len(result.Data))
	for i := range result.Data {
		responses[i] = InvestmentResponse{
			Investment: &result.Data[i],
			Valuation:  h.investmentService.Valuation(&result.Data[i], code),
		}
	}

	c.JSON(http.StatusOK, pagination.NewPageResponse(responses, result.Page, result.PageSize, result.TotalItems))
}

// Get returns a single position
// @Summary     Get an investment
// @Description Get one investment with its live valuation
// @Tags        investments
// @Produce     json
// @Param       id path string true "Investment ID"
// @Success     200 {object} InvestmentResponse
// @Failure     404 {object} map[string]interface{} "Investment not found"
// @Router      /investments/{id} [get]
func (h *InvestmentHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	investment, err := h.investmentService.GetByID(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	code := displayCurrency(c, h.userService, userID)
	c.JSON(http.StatusOK, InvestmentResponse{
		Investment: investment,
		Valuation:  h.investmentService.Valuation(investment, code),
	})
}

// Close closes a position
// @Summary     Close an investment
// @Description Settle a matured investment, or request early close for review
// @Tags        investments
// @Produce     json
// @Param       id path string true "Investment ID"
// @Success     200 {object} models.Investment
// @Failure     400 {object} map[string]interface{} "Investment already closed"
// @Router      /investments/{id}/close [post]
func (h *InvestmentHandler) Close(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	investment, err := h.investmentService.Close(userID, c.Param("id"), false)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, investment)
}
