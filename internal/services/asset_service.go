package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "pesaprime/internal/errors"
	"pesaprime/internal/models"
)

// assetService reads the asset registry. Writes happen through the price
// feed updater and the seed tooling.
type assetService struct {
	db *gorm.DB
}

// NewAssetService creates a new AssetServicer.
func NewAssetService(db *gorm.DB) AssetServicer {
	return &assetService{db: db}
}

// GetAssets lists assets, optionally narrowed to one category and to active
// rows only. Ordered by category then symbol for a stable catalog view.
func (s *assetService) GetAssets(category *models.AssetCategory, activeOnly bool) ([]models.Asset, error) {
	query := s.db.Order("category, symbol")
	if category != nil {
		query = query.Where("category = ?", *category)
	}
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var assets []models.Asset
	if err := query.Find(&assets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return assets, nil
}

// GetAssetByID retrieves a single asset.
func (s *assetService) GetAssetByID(assetID string) (*models.Asset, error) {
	var asset models.Asset
	if err := s.db.First(&asset, "id = ?", assetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAssetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &asset, nil
}
