package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pesaprime/internal/services"
)

// BonusHandler handles bonus requests
type BonusHandler struct {
	bonusService services.BonusServicer
}

// NewBonusHandler creates a new BonusHandler
func NewBonusHandler(bonusService services.BonusServicer) *BonusHandler {
	return &BonusHandler{bonusService: bonusService}
}

// List returns the user's bonuses
// @Summary     List bonuses
// @Description List the user's bonuses, optionally only unclaimed ones
// @Tags        bonuses
// @Produce     json
// @Param       unclaimed query bool false "Only unclaimed bonuses"
// @Success     200 {object} map[string]interface{}
// @Router      /bonuses [get]
func (h *BonusHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	unclaimedOnly := c.Query("unclaimed") == "true"
	bonuses, err := h.bonusService.GetUserBonuses(userID, unclaimedOnly)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": bonuses})
}

// Claim claims a bonus
// @Summary     Claim a bonus
// @Description Credit an unclaimed, unexpired bonus to the wallet
// @Tags        bonuses
// @Produce     json
// @Param       id path string true "Bonus ID"
// @Success     200 {object} models.Bonus
// @Failure     409 {object} map[string]interface{} "Bonus already claimed"
// @Router      /bonuses/{id}/claim [post]
func (h *BonusHandler) Claim(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	bonus, err := h.bonusService.Claim(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, bonus)
}
