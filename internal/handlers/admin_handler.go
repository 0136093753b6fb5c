package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "pesaprime/internal/errors"
	"pesaprime/internal/pricefeed"
	"pesaprime/internal/services"
)

// AdminHandler handles operator-only requests
type AdminHandler struct {
	investmentService services.InvestmentServicer
	bonusService      services.BonusServicer
	updater           *pricefeed.Updater
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(investmentService services.InvestmentServicer, bonusService services.BonusServicer, updater *pricefeed.Updater) *AdminHandler {
	return &AdminHandler{
		investmentService: investmentService,
		bonusService:      bonusService,
		updater:           updater,
	}
}

// GrantBonusRequest represents the bonus grant payload
type GrantBonusRequest struct {
	UserID      string          `json:"user_id" binding:"required,uuid"`
	Title       string          `json:"title" binding:"required,max=100"`
	Description string          `json:"description" binding:"max=255"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	ExpiresIn   string          `json:"expires_in" binding:"omitempty"`
}

// CloseInvestment force-settles any position
// @Summary     Close an investment (admin)
// @Description Settle any user's position immediately, paying the flat profit
// @Tags        admin
// @Produce     json
// @Param       id path string true "Investment ID"
// @Success     200 {object} models.Investment
// @Router      /admin/investments/{id}/close [post]
func (h *AdminHandler) CloseInvestment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	investment, err := h.investmentService.Close(userID, c.Param("id"), true)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, investment)
}

// RefreshAssets runs a synchronous price refresh
// @Summary     Refresh asset prices (admin)
// @Description Run one full price feed refresh and return the outcome
// @Tags        admin
// @Produce     json
// @Success     200 {object} pricefeed.RunResult
// @Router      /admin/assets/refresh [post]
func (h *AdminHandler) RefreshAssets(c *gin.Context) {
	result, err := h.updater.Refresh(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GrantBonus grants a bonus to a user
// @Summary     Grant a bonus (admin)
// @Description Create an unclaimed bonus for a user, expiring after the given duration
// @Tags        admin
// @Accept      json
// @Produce     json
// @Param       request body GrantBonusRequest true "Bonus details"
// @Success     201 {object} models.Bonus
// @Router      /admin/bonuses [post]
func (h *AdminHandler) GrantBonus(c *gin.Context) {
	var req GrantBonusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	expiresIn := 7 * 24 * time.Hour
	if req.ExpiresIn != "" {
		parsed, err := time.ParseDuration(req.ExpiresIn)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid expires_in duration"))
			return
		}
		expiresIn = parsed
	}

	bonus, err := h.bonusService.Grant(req.UserID, req.Title, req.Description, req.Amount, time.Now().Add(expiresIn))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, bonus)
}
