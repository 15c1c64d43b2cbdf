// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("transaction_type", validateTransactionType)
		_ = v.RegisterValidation("category_type", validateCategoryType)
		_ = v.RegisterValidation("asset_class", validateAssetClass)
		_ = v.RegisterValidation("rate_indexer", validateRateIndexer)
		_ = v.RegisterValidation("closing_day", validateClosingDay)
	}
}

func validateTransactionType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "income", "expense":
		return true
	}
	return false
}

func validateCategoryType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "income", "expense":
		return true
	}
	return false
}

func validateAssetClass(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "equity", "crypto", "fixed_income":
		return true
	}
	return false
}

func validateRateIndexer(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "cdi", "selic", "ipca", "fixed":
		return true
	}
	return false
}

// Closing days above 28 would skip months; the service enforces the same
// bound.
func validateClosingDay(fl validator.FieldLevel) bool {
	day := fl.Field().Int()
	return day >= 1 && day <= 28
}
