package services

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pesaprime/internal/currency"
	apperrors "pesaprime/internal/errors"
	"pesaprime/internal/logger"
	"pesaprime/internal/models"
	"pesaprime/internal/pagination"
)

// investmentService implements the position lifecycle: open with an atomic
// wallet debit, hold with live valuation, close with a flat profit payout.
type investmentService struct {
	db        *gorm.DB
	wallets   WalletServicer
	converter *currency.Converter
}

// NewInvestmentService creates a new InvestmentServicer.
func NewInvestmentService(db *gorm.DB, wallets WalletServicer, converter *currency.Converter) InvestmentServicer {
	return &investmentService{db: db, wallets: wallets, converter: converter}
}

// Create opens a position in the given asset. The invested amount is debited
// from the wallet, the position row is created, and an investment transaction
// is appended, all in one database transaction.
func (s *investmentService) Create(userID, assetID string, displayAmount decimal.Decimal, displayCurrency string, durationHours int) (*models.Investment, error) {
	if !displayAmount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	var asset models.Asset
	if err := s.db.First(&asset, "id = ?", assetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAssetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !asset.IsActive {
		return nil, apperrors.ErrAssetInactive
	}
	if !asset.CurrentPrice.IsPositive() {
		return nil, apperrors.ErrAssetUnpriced
	}

	if durationHours == 0 {
		durationHours = asset.DurationHours
	}
	if !models.IsAllowedDuration(durationHours) {
		return nil, apperrors.ErrInvalidDuration
	}

	baseAmount := s.converter.ConvertReverse(displayAmount, displayCurrency)
	if baseAmount.LessThan(asset.MinInvestment) {
		return nil, apperrors.ErrBelowMinimum
	}

	if _, err := s.wallets.GetOrCreate(userID); err != nil {
		return nil, err
	}

	investment := &models.Investment{
		UserID:         userID,
		AssetID:        assetID,
		InvestedAmount: baseAmount,
		EntryPrice:     asset.CurrentPrice,
		Units:          baseAmount.DivRound(asset.CurrentPrice, 8),
		DurationHours:  durationHours,
		StartTime:      time.Now().UTC(),
		Status:         models.InvestmentStatusActive,
		ProfitLoss:     decimal.Zero,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if txErr := s.wallets.Debit(tx, userID, baseAmount); txErr != nil {
			return txErr
		}
		if txErr := tx.Create(investment).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}

		record := &models.Transaction{
			UserID:       userID,
			Type:         models.TransactionTypeInvestment,
			Amount:       baseAmount,
			Description:  "Investment in " + asset.Name,
			Status:       models.TransactionStatusCompleted,
			InvestmentID: &investment.ID,
			AssetID:      &asset.ID,
		}
		if txErr := tx.Create(record).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}

		if txErr := tx.Model(&models.Wallet{}).
			Where("user_id = ?", userID).
			Update("total_invested", gorm.Expr("total_invested + ?", baseAmount)).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	investment.Asset = asset
	return investment, nil
}

// GetByID returns a single investment owned by the user, with its asset loaded.
func (s *investmentService) GetByID(userID, investmentID string) (*models.Investment, error) {
	var investment models.Investment
	err := s.db.Preload("Asset").
		Where("id = ? AND user_id = ?", investmentID, userID).
		First(&investment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvestmentNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &investment, nil
}

// GetUserInvestments returns the user's investments, newest first.
func (s *investmentService) GetUserInvestments(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Investment], error) {
	query := s.db.Model(&models.Investment{}).
		Preload("Asset").
		Where("user_id = ?", userID)

	resp, err := pagination.Find[models.Investment](query, page, "created_at DESC")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return resp, nil
}

// Valuation marks the position against the asset's present price. The asset
// must be preloaded on the investment.
func (s *investmentService) Valuation(investment *models.Investment, displayCurrency string) Valuation {
	baseValue := investment.Units.Mul(investment.Asset.CurrentPrice).Round(2)
	baseUnrealized := baseValue.Sub(investment.InvestedAmount)

	return Valuation{
		InvestmentID:       investment.ID,
		Currency:           displayCurrency,
		InvestedAmount:     s.converter.Convert(investment.InvestedAmount, displayCurrency),
		CurrentValue:       s.converter.Convert(baseValue, displayCurrency),
		UnrealizedPL:       s.converter.Convert(baseUnrealized, displayCurrency),
		BaseInvestedAmount: investment.InvestedAmount,
		BaseCurrentValue:   baseValue,
		BaseUnrealizedPL:   baseUnrealized,
	}
}

// Close settles or parks a position. A position whose duration has elapsed,
// or any position closed by an admin, pays out the flat profit and moves to
// closed. A position closed early by its owner moves to pending_close and no
// money moves until an admin settles it.
func (s *investmentService) Close(userID, investmentID string, byAdmin bool) (*models.Investment, error) {
	var investment models.Investment
	query := s.db.Preload("Asset").Where("id = ?", investmentID)
	if !byAdmin {
		query = query.Where("user_id = ?", userID)
	}
	if err := query.First(&investment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvestmentNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	switch investment.Status {
	case models.InvestmentStatusActive:
	case models.InvestmentStatusPendingClose:
		if !byAdmin {
			return nil, apperrors.WithMessage(apperrors.ErrForbidden, "close request is awaiting review")
		}
	default:
		return nil, apperrors.ErrInvestmentClosed
	}

	now := time.Now().UTC()
	if !byAdmin && !investment.IsDurationComplete(now) {
		if err := s.markPendingClose(&investment); err != nil {
			return nil, err
		}
		return &investment, nil
	}

	if err := s.settle(&investment, now); err != nil {
		return nil, err
	}
	return &investment, nil
}

func (s *investmentService) markPendingClose(investment *models.Investment) error {
	result := s.db.Model(&models.Investment{}).
		Where("id = ? AND status = ?", investment.ID, models.InvestmentStatusActive).
		Update("status", models.InvestmentStatusPendingClose)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrInvestmentClosed
	}
	investment.Status = models.InvestmentStatusPendingClose
	return nil
}

// settle pays the flat profit and closes the position. The status guard in
// the UPDATE makes settlement idempotent under concurrent sweeps.
func (s *investmentService) settle(investment *models.Investment, now time.Time) error {
	profit := investment.FlatProfit(investment.Asset.HourlyIncome)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Investment{}).
			Where("id = ? AND status IN ?", investment.ID,
				[]models.InvestmentStatus{models.InvestmentStatusActive, models.InvestmentStatusPendingClose}).
			Updates(map[string]interface{}{
				"status":      models.InvestmentStatusClosed,
				"end_time":    now,
				"profit_loss": profit,
			})
		if result.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrInvestmentClosed
		}

		if profit.IsPositive() {
			if txErr := s.wallets.Credit(tx, investment.UserID, profit); txErr != nil {
				return txErr
			}
			record := &models.Transaction{
				UserID:       investment.UserID,
				Type:         models.TransactionTypeProfit,
				Amount:       profit,
				Description:  "Profit from " + investment.Asset.Name,
				Status:       models.TransactionStatusCompleted,
				InvestmentID: &investment.ID,
				AssetID:      &investment.AssetID,
			}
			if txErr := tx.Create(record).Error; txErr != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
			}
		}

		if txErr := tx.Model(&models.Wallet{}).
			Where("user_id = ? AND total_invested >= ?", investment.UserID, investment.InvestedAmount).
			Update("total_invested", gorm.Expr("total_invested - ?", investment.InvestedAmount)).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		return nil
	})
	if err != nil {
		return err
	}

	investment.Status = models.InvestmentStatusClosed
	investment.EndTime = &now
	investment.ProfitLoss = profit
	return nil
}

// AutoCloseDue sweeps active positions whose duration has elapsed and settles
// them. Per-position failures are logged and skipped so one bad row cannot
// stall the sweep. Returns the number of positions closed.
func (s *investmentService) AutoCloseDue(ctx context.Context) (int, error) {
	log := logger.Component("auto-close")

	var active []models.Investment
	err := s.db.WithContext(ctx).Preload("Asset").
		Where("status = ?", models.InvestmentStatusActive).
		Find(&active).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	now := time.Now().UTC()
	closed := 0
	for i := range active {
		if ctx.Err() != nil {
			return closed, ctx.Err()
		}
		investment := &active[i]
		// Per-position durations make interval math in SQL awkward; the
		// elapsed check happens here instead.
		if !investment.IsDurationComplete(now) {
			continue
		}
		if settleErr := s.settle(investment, now); settleErr != nil {
			if errors.Is(settleErr, apperrors.ErrInvestmentClosed) {
				continue
			}
			log.Errorw("failed to auto-close investment",
				"investment_id", investment.ID,
				"user_id", investment.UserID,
				"error", settleErr,
			)
			continue
		}
		closed++
	}

	if closed > 0 {
		log.Infow("auto-close sweep completed", "closed", closed)
	}
	return closed, nil
}
