package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"pesaprime/internal/currency"
	apperrors "pesaprime/internal/errors"
	"pesaprime/internal/models"
	"pesaprime/internal/services"
)

// AssetHandler handles asset catalog requests
type AssetHandler struct {
	assetService services.AssetServicer
	userService  services.UserServicer
	converter    *currency.Converter
}

// NewAssetHandler creates a new AssetHandler
func NewAssetHandler(assetService services.AssetServicer, userService services.UserServicer, converter *currency.Converter) *AssetHandler {
	return &AssetHandler{assetService: assetService, userService: userService, converter: converter}
}

// AssetListRequest represents the asset catalog query parameters
type AssetListRequest struct {
	Category string `form:"category" binding:"omitempty,asset_category"`
	All      bool   `form:"all"`
}

// AssetResponse is an asset with its monetary fields converted to the
// display currency.
type AssetResponse struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Symbol           string          `json:"symbol"`
	Category         string          `json:"category"`
	Currency         string          `json:"currency"`
	CurrencySymbol   string          `json:"currency_symbol"`
	CurrentPrice     decimal.Decimal `json:"current_price"`
	Trend            string          `json:"trend"`
	ChangePercentage decimal.Decimal `json:"change_percentage"`
	MinInvestment    decimal.Decimal `json:"min_investment"`
	HourlyIncome     decimal.Decimal `json:"hourly_income"`
	DurationHours    int             `json:"duration_hours"`
	IsActive         bool            `json:"is_active"`
}

func (h *AssetHandler) assetResponse(asset *models.Asset, code string) AssetResponse {
	return AssetResponse{
		ID:               asset.ID,
		Name:             asset.Name,
		Symbol:           asset.Symbol,
		Category:         string(asset.Category),
		Currency:         code,
		CurrencySymbol:   currency.Symbol(code),
		CurrentPrice:     h.converter.Convert(asset.CurrentPrice, code),
		Trend:            string(asset.Trend),
		ChangePercentage: asset.ChangePercentage,
		MinInvestment:    h.converter.Convert(asset.MinInvestment, code),
		HourlyIncome:     h.converter.Convert(asset.HourlyIncome, code),
		DurationHours:    asset.DurationHours,
		IsActive:         asset.IsActive,
	}
}

// List returns the asset catalog
// @Summary     List assets
// @Description List investable assets with prices in the display currency
// @Tags        assets
// @Produce     json
// @Param       category query string false "Filter by category (crypto, forex, stock)"
// @Param       all query bool false "Include inactive assets"
// @Param       currency query string false "Display currency override"
// @Success     200 {array} AssetResponse
// @Router      /assets [get]
func (h *AssetHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AssetListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var category *models.AssetCategory
	if req.Category != "" {
		cat := models.AssetCategory(req.Category)
		category = &cat
	}

	assets, err := h.assetService.GetAssets(category, !req.All)
	if err != nil {
		respondWithError(c, err)
		return
	}

	code := displayCurrency(c, h.userService, userID)
	responses := make([]AssetResponse, len(assets))
	for i := range assets {
		responses[i] = h.assetResponse(&assets[i], code)
	}

	c.JSON(http.StatusOK, gin.H{"data": responses})
}

// Get returns a single asset
// @Summary     Get an asset
// @Description Get one asset with its price in the display currency
// @Tags        assets
// @Produce     json
// @Param       id path string true "Asset ID"
// @Param       currency query string false "Display currency override"
// @Success     200 {object} AssetResponse
// @Failure     404 {object} map[string]interface{} "Asset not found"
// @Router      /assets/{id} [get]
func (h *AssetHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	asset, err := h.assetService.GetAssetByID(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.assetResponse(asset, displayCurrency(c, h.userService, userID)))
}
