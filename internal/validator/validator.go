// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"pesaprime/internal/currency"
	"pesaprime/internal/models"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("display_currency", validateDisplayCurrency)
		_ = v.RegisterValidation("asset_category", validateAssetCategory)
		_ = v.RegisterValidation("duration_hours", validateDurationHours)
		_ = v.RegisterValidation("transaction_type", validateTransactionType)
		_ = v.RegisterValidation("transaction_status", validateTransactionStatus)
	}
}

// validateDisplayCurrency accepts any currency the converter carries a rate for.
func validateDisplayCurrency(fl validator.FieldLevel) bool {
	_, ok := currency.DefaultRates()[fl.Field().String()]
	return ok
}

func validateAssetCategory(fl validator.FieldLevel) bool {
	switch models.AssetCategory(fl.Field().String()) {
	case models.AssetCategoryCrypto, models.AssetCategoryForex, models.AssetCategoryStock:
		return true
	}
	return false
}

func validateDurationHours(fl validator.FieldLevel) bool {
	return models.IsAllowedDuration(int(fl.Field().Int()))
}

func validateTransactionType(fl validator.FieldLevel) bool {
	switch models.TransactionType(fl.Field().String()) {
	case models.TransactionTypeDeposit, models.TransactionTypeWithdrawal,
		models.TransactionTypeInvestment, models.TransactionTypeBonus,
		models.TransactionTypeProfit, models.TransactionTypeInvestmentCompletion:
		return true
	}
	return false
}

func validateTransactionStatus(fl validator.FieldLevel) bool {
	switch models.TransactionStatus(fl.Field().String()) {
	case models.TransactionStatusPending, models.TransactionStatusCompleted,
		models.TransactionStatusFailed, models.TransactionStatusCancelled:
		return true
	}
	return false
}
