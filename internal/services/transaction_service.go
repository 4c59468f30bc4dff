package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"centsible/internal/budget"
	apperrors "centsible/internal/errors"
	"centsible/internal/models"
	"centsible/internal/pagination"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db}
}

// CreateTransaction records a manually entered transaction. Amount is in
// cents; date is "YYYY-MM-DD".
func (s *transactionService) CreateTransaction(accountID string, categoryID *string, name, merchant string, amount int64, date string) (*models.Transaction, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "transaction name is required")
	}
	parsedDate, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "date must be in YYYY-MM-DD format")
	}

	var account models.Account
	if err := s.db.Where("id = ?", accountID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if categoryID != nil {
		var count int64
		s.db.Model(&models.Category{}).Where("id = ?", *categoryID).Count(&count)
		if count == 0 {
			return nil, apperrors.ErrCategoryNotFound
		}
	}

	txn := &models.Transaction{
		AccountID:  accountID,
		CategoryID: categoryID,
		Name:       name,
		Merchant:   merchant,
		Amount:     amount,
		Date:       parsedDate,
	}
	if err := s.db.Create(txn).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return txn, nil
}

// GetTransactions returns a paginated, filtered transaction list, newest
// first. Hidden transactions are omitted unless the filter asks for them.
func (s *transactionService) GetTransactions(page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{})
	if filter.Month != "" {
		if !budget.ValidMonth(filter.Month) {
			return nil, apperrors.ErrInvalidMonth
		}
		start, end, err := monthWindow(filter.Month)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInvalidMonth, err)
		}
		base = base.Where("date >= ? AND date < ?", start, end)
	}
	if filter.CategoryID != nil {
		base = base.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.AccountID != nil {
		base = base.Where("account_id = ?", *filter.AccountID)
	}
	if !filter.IncludeHidden {
		base = base.Where("is_hidden = ?", false)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Preload("Category").Order("date DESC, id").Scopes(pagination.Paginate(page)).Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetTransactionByID returns a transaction by ID.
func (s *transactionService) GetTransactionByID(transactionID string) (*models.Transaction, error) {
	var txn models.Transaction
	if err := s.db.Preload("Category").Where("id = ?", transactionID).First(&txn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &txn, nil
}

// SetCategory recategorizes a transaction. A nil categoryID clears the
// category, returning the transaction to the uncategorized pool.
func (s *transactionService) SetCategory(transactionID string, categoryID *string) (*models.Transaction, error) {
	txn, err := s.GetTransactionByID(transactionID)
	if err != nil {
		return nil, err
	}

	if categoryID != nil {
		var count int64
		s.db.Model(&models.Category{}).Where("id = ?", *categoryID).Count(&count)
		if count == 0 {
			return nil, apperrors.ErrCategoryNotFound
		}
	}

	if err := s.db.Model(txn).Update("category_id", categoryID).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	txn.CategoryID = categoryID
	txn.Category = nil
	return txn, nil
}

// SetHidden toggles a transaction's hidden flag. Hidden transactions are
// dropped from all aggregations.
func (s *transactionService) SetHidden(transactionID string, hidden bool) (*models.Transaction, error) {
	txn, err := s.GetTransactionByID(transactionID)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(txn).Update("is_hidden", hidden).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	txn.IsHidden = hidden
	return txn, nil
}

// DeleteTransaction soft-deletes a transaction.
func (s *transactionService) DeleteTransaction(transactionID string) error {
	txn, err := s.GetTransactionByID(transactionID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(txn).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
