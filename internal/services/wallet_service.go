package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pesaprime/internal/currency"
	apperrors "pesaprime/internal/errors"
	"pesaprime/internal/models"
)

// minCashMovement is the smallest deposit or withdrawal, in the base currency.
var minCashMovement = decimal.NewFromInt(100)

// walletService implements the wallet ledger. The wallet's cached balance and
// the completed transaction history are kept in agreement by pairing every
// balance change with a transaction row in one database transaction.
type walletService struct {
	db        *gorm.DB
	converter *currency.Converter
}

// NewWalletService creates a new WalletServicer.
func NewWalletService(db *gorm.DB, converter *currency.Converter) WalletServicer {
	return &walletService{db: db, converter: converter}
}

// GetOrCreate returns the user's wallet, creating it with a zero balance on
// first access. Safe to call repeatedly and from concurrent requests; the
// unique index on user_id resolves creation races.
func (s *walletService) GetOrCreate(userID string) (*models.Wallet, error) {
	var wallet models.Wallet
	err := s.db.Where("user_id = ?", userID).First(&wallet).Error
	if err == nil {
		return &wallet, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	wallet = models.Wallet{
		UserID:   userID,
		Balance:  decimal.Zero,
		Currency: s.converter.Base(),
	}
	if createErr := s.db.Create(&wallet).Error; createErr != nil {
		// Lost a creation race; the other writer's row is the wallet.
		if findErr := s.db.Where("user_id = ?", userID).First(&wallet).Error; findErr != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, createErr)
		}
	}
	return &wallet, nil
}

// Deposit converts the display amount to the base currency, credits the
// wallet, and appends a completed deposit transaction.
func (s *walletService) Deposit(userID string, displayAmount decimal.Decimal, displayCurrency, paymentMethod string) (*models.Transaction, error) {
	if !displayAmount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	baseAmount := s.converter.ConvertReverse(displayAmount, displayCurrency)
	if baseAmount.LessThan(minCashMovement) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "deposit is below the minimum amount")
	}

	if _, err := s.GetOrCreate(userID); err != nil {
		return nil, err
	}

	transaction := &models.Transaction{
		UserID:        userID,
		Type:          models.TransactionTypeDeposit,
		Amount:        baseAmount,
		Description:   "Deposit via " + paymentMethod,
		Status:        models.TransactionStatusCompleted,
		PaymentMethod: paymentMethod,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if txErr := s.Credit(tx, userID, baseAmount); txErr != nil {
			return txErr
		}
		if txErr := tx.Create(transaction).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return transaction, nil
}

// Withdraw converts the display amount to the base currency, debits the
// wallet, and appends a completed withdrawal transaction. The debit is
// conditional at the storage layer, so two concurrent withdrawals can never
// both pass the balance check.
func (s *walletService) Withdraw(userID string, displayAmount decimal.Decimal, displayCurrency, paymentMethod string) (*models.Transaction, error) {
	if !displayAmount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	baseAmount := s.converter.ConvertReverse(displayAmount, displayCurrency)
	if baseAmount.LessThan(minCashMovement) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "withdrawal is below the minimum amount")
	}

	if _, err := s.GetOrCreate(userID); err != nil {
		return nil, err
	}

	transaction := &models.Transaction{
		UserID:        userID,
		Type:          models.TransactionTypeWithdrawal,
		Amount:        baseAmount,
		Description:   "Withdrawal request",
		Status:        models.TransactionStatusCompleted,
		PaymentMethod: paymentMethod,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if txErr := s.Debit(tx, userID, baseAmount); txErr != nil {
			return txErr
		}
		if txErr := tx.Create(transaction).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return transaction, nil
}

// Credit adds amount to the wallet's cached balance inside the caller's
// database transaction.
func (s *walletService) Credit(tx *gorm.DB, userID string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "credit amount must be positive")
	}

	result := tx.Model(&models.Wallet{}).
		Where("user_id = ?", userID).
		Update("balance", gorm.Expr("balance + ?", amount))
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrWalletNotFound
	}
	return nil
}

// Debit subtracts amount from the wallet's cached balance inside the caller's
// database transaction. The balance check is part of the UPDATE itself
// ("debit if balance >= amount"), which serializes concurrent debits without
// an application-level lock.
func (s *walletService) Debit(tx *gorm.DB, userID string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "debit amount must be positive")
	}

	result := tx.Model(&models.Wallet{}).
		Where("user_id = ? AND balance >= ?", userID, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&models.Wallet{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return apperrors.ErrWalletNotFound
		}
		return apperrors.ErrInsufficientFunds
	}
	return nil
}

// RecomputeBalance derives the canonical cash balance from the completed
// transaction history: credits (deposit, bonus, profit, completion) minus
// debits (withdrawal, investment).
func (s *walletService) RecomputeBalance(userID string) (decimal.Decimal, error) {
	credits, err := s.sumCompleted(userID, []models.TransactionType{
		models.TransactionTypeDeposit,
		models.TransactionTypeBonus,
		models.TransactionTypeProfit,
		models.TransactionTypeInvestmentCompletion,
	})
	if err != nil {
		return decimal.Zero, err
	}

	debits, err := s.sumCompleted(userID, []models.TransactionType{
		models.TransactionTypeWithdrawal,
		models.TransactionTypeInvestment,
	})
	if err != nil {
		return decimal.Zero, err
	}

	return credits.Sub(debits), nil
}

func (s *walletService) sumCompleted(userID string, types []models.TransactionType) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	err := s.db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ? AND status = ? AND type IN ?", userID, models.TransactionStatusCompleted, types).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return row.Total, nil
}

// VerifyConsistency compares the cached balance with the recomputed one.
// A mismatch is a ledger defect: it is reported, never repaired.
func (s *walletService) VerifyConsistency(userID string) error {
	wallet, err := s.GetOrCreate(userID)
	if err != nil {
		return err
	}
	recomputed, err := s.RecomputeBalance(userID)
	if err != nil {
		return err
	}
	if !wallet.Balance.Equal(recomputed) {
		return apperrors.WithMessage(apperrors.ErrConsistency,
			"wallet balance "+wallet.Balance.String()+" does not match transaction history "+recomputed.String())
	}
	return nil
}

// Summary returns a read-only wallet snapshot with equity (cash balance plus
// unrealized P/L of active positions), converted to the display currency.
func (s *walletService) Summary(userID, displayCurrency string) (*WalletSummary, error) {
	wallet, err := s.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}

	var investments []models.Investment
	if err := s.db.Preload("Asset").
		Where("user_id = ? AND status = ?", userID, models.InvestmentStatusActive).
		Find(&investments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	totalInvested := decimal.Zero
	currentValue := decimal.Zero
	for i := range investments {
		inv := &investments[i]
		totalInvested = totalInvested.Add(inv.InvestedAmount)
		// Live mark; a deactivated asset keeps its last persisted price.
		currentValue = currentValue.Add(inv.Units.Mul(inv.Asset.CurrentPrice))
	}
	unrealized := currentValue.Sub(totalInvested)
	equity := wallet.Balance.Add(unrealized)

	return &WalletSummary{
		Currency:          displayCurrency,
		Balance:           s.converter.Convert(wallet.Balance, displayCurrency),
		Equity:            s.converter.Convert(equity, displayCurrency),
		TotalInvested:     s.converter.Convert(totalInvested, displayCurrency),
		CurrentValue:      s.converter.Convert(currentValue, displayCurrency),
		UnrealizedPL:      s.converter.Convert(unrealized, displayCurrency),
		ActiveInvestments: len(investments),
	}, nil
}
