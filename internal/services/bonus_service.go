package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "pesaprime/internal/errors"
	"pesaprime/internal/models"
)

// bonusService implements grantable wallet credits. A bonus only touches the
// wallet at claim time, and a claim happens at most once.
type bonusService struct {
	db      *gorm.DB
	wallets WalletServicer
}

// NewBonusService creates a new BonusServicer.
func NewBonusService(db *gorm.DB, wallets WalletServicer) BonusServicer {
	return &bonusService{db: db, wallets: wallets}
}

// Grant creates an unclaimed bonus for the user. No money moves until the
// user claims it.
func (s *bonusService) Grant(userID, title, description string, amount decimal.Decimal, expiresAt time.Time) (*models.Bonus, error) {
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "bonus amount must be positive")
	}
	if !expiresAt.After(time.Now()) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "expiry must be in the future")
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	bonus := &models.Bonus{
		UserID:      userID,
		Title:       title,
		Description: description,
		Amount:      amount,
		ExpiresAt:   expiresAt,
	}
	if err := s.db.Create(bonus).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return bonus, nil
}

// GetUserBonuses returns the user's bonuses, newest first.
func (s *bonusService) GetUserBonuses(userID string, unclaimedOnly bool) ([]models.Bonus, error) {
	query := s.db.Where("user_id = ?", userID).Order("created_at DESC")
	if unclaimedOnly {
		query = query.Where("is_claimed = ?", false)
	}

	var bonuses []models.Bonus
	if err := query.Find(&bonuses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return bonuses, nil
}

// Claim credits the bonus amount to the user's wallet and marks the bonus
// claimed. The claim flag flips via a conditional UPDATE, so two concurrent
// claims cannot both pay out.
func (s *bonusService) Claim(userID, bonusID string) (*models.Bonus, error) {
	var bonus models.Bonus
	err := s.db.Where("id = ? AND user_id = ?", bonusID, userID).First(&bonus).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBonusNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if bonus.IsClaimed {
		return nil, apperrors.ErrBonusAlreadyClaimed
	}
	now := time.Now().UTC()
	if now.After(bonus.ExpiresAt) {
		return nil, apperrors.ErrBonusExpired
	}

	if _, err := s.wallets.GetOrCreate(userID); err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Bonus{}).
			Where("id = ? AND is_claimed = ?", bonus.ID, false).
			Updates(map[string]interface{}{
				"is_claimed": true,
				"claimed_at": now,
			})
		if result.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrBonusAlreadyClaimed
		}

		if txErr := s.wallets.Credit(tx, userID, bonus.Amount); txErr != nil {
			return txErr
		}

		record := &models.Transaction{
			UserID:      userID,
			Type:        models.TransactionTypeBonus,
			Amount:      bonus.Amount,
			Description: "Bonus: " + bonus.Title,
			Status:      models.TransactionStatusCompleted,
		}
		if txErr := tx.Create(record).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	bonus.IsClaimed = true
	bonus.ClaimedAt = &now
	return &bonus, nil
}
