package services

import (
	"gorm.io/gorm"

	"pesaprime/internal/currency"
)

// testDeps bundles the shared dependencies handed back by service test
// constructors, so tests can reach the raw database and converter.
type testDeps struct {
	db        *gorm.DB
	converter *currency.Converter
}
