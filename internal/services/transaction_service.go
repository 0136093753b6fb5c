package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "pesaprime/internal/errors"
	"pesaprime/internal/models"
	"pesaprime/internal/pagination"
)

// transactionService implements the append-only transaction log. Rows are
// written by the wallet, investment, and bonus services; this service only
// reads them and transitions the status of pending rows.
type transactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db}
}

// GetUserTransactions returns the user's transactions, newest first,
// optionally narrowed by type and status.
func (s *transactionService) GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	query := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	resp, err := pagination.Find[models.Transaction](query, page, "created_at DESC")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return resp, nil
}

// GetTransactionByID returns a single transaction owned by the user.
func (s *transactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// UpdateStatus transitions a pending transaction. Completed rows are part of
// the ledger history and never change.
func (s *transactionService) UpdateStatus(transactionID string, status models.TransactionStatus) (*models.Transaction, error) {
	var transaction models.Transaction
	err := s.db.First(&transaction, "id = ?", transactionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if transaction.Status != models.TransactionStatusPending {
		return nil, apperrors.ErrTransactionImmutable
	}

	result := s.db.Model(&models.Transaction{}).
		Where("id = ? AND status = ?", transactionID, models.TransactionStatusPending).
		Update("status", status)
	if result.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.ErrTransactionImmutable
	}

	transaction.Status = status
	return &transaction, nil
}
