package services

import (
	"context"
	"errors"
	"math"
	"time"

	"gorm.io/gorm"

	"centsible/internal/bankfeed"
	apperrors "centsible/internal/errors"
	"centsible/internal/logger"
	"centsible/internal/models"
)

// syncWindowDays is how far back a sync pulls transactions.
const syncWindowDays = 90

// syncService pulls accounts and transactions from the bank feed into the
// local ledger.
type syncService struct {
	db   *gorm.DB
	feed *bankfeed.Client
}

// NewSyncService creates a new SyncServicer.
func NewSyncService(db *gorm.DB, feed *bankfeed.Client) SyncServicer {
	return &syncService{db: db, feed: feed}
}

// toCents converts the provider's dollar amounts to cents.
func toCents(dollars float64) int64 {
	return int64(math.Round(dollars * 100))
}

func accountType(providerType string) models.AccountType {
	switch providerType {
	case "credit":
		return models.AccountTypeCredit
	default:
		return models.AccountTypeDepository
	}
}

// LinkItem exchanges a public token from the link flow and creates local
// accounts for every account on the item. Accounts already linked are updated
// in place rather than duplicated.
func (s *syncService) LinkItem(ctx context.Context, publicToken string) ([]models.Account, error) {
	if s.feed == nil {
		return nil, apperrors.ErrBankFeedUnavailable
	}

	accessToken, itemID, err := s.feed.ExchangePublicToken(ctx, publicToken)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrBankFeedRejected, err)
	}

	remote, err := s.feed.Accounts(ctx, accessToken)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrBankFeedUnavailable, err)
	}

	linked := make([]models.Account, 0, len(remote))
	for _, r := range remote {
		var account models.Account
		err := s.db.Where("external_id = ?", r.AccountID).First(&account).Error
		switch {
		case err == nil:
			updates := map[string]interface{}{
				"balance":      toCents(r.Balance),
				"access_token": accessToken,
			}
			if err := s.db.Model(&account).Updates(updates).Error; err != nil {
				return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			account = models.Account{
				Name:        r.Name,
				Type:        accountType(r.Type),
				Mask:        r.Mask,
				Balance:     toCents(r.Balance),
				Currency:    "USD",
				IsActive:    true,
				ExternalID:  r.AccountID,
				AccessToken: accessToken,
			}
			if err := s.db.Create(&account).Error; err != nil {
				return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		default:
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		linked = append(linked, account)
	}

	logger.Get().Infow("linked bank feed item",
		"item_id", itemID,
		"accounts", len(linked),
	)
	return linked, nil
}

// SyncAccount pulls recent transactions for a linked account, deduplicating
// on the provider's transaction ID. Provider categories that match the local
// taxonomy are carried over; unknown ones leave the transaction uncategorized
// for manual review.
func (s *syncService) SyncAccount(ctx context.Context, accountID string) (*SyncResult, error) {
	if s.feed == nil {
		return nil, apperrors.ErrBankFeedUnavailable
	}

	var account models.Account
	if err := s.db.Where("id = ?", accountID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if account.AccessToken == "" || account.ExternalID == "" {
		return nil, apperrors.ErrAccountNotLinked
	}

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -syncWindowDays)
	remote, err := s.feed.Transactions(ctx, account.AccessToken, start.Format("2006-01-02"), end.Format("2006-01-02"))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrBankFeedUnavailable, err)
	}

	var existingIDs []string
	err = s.db.Model(&models.Transaction{}).
		Where("account_id = ? AND external_id <> ''", account.ID).
		Pluck("external_id", &existingIDs).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	existing := make(map[string]bool, len(existingIDs))
	for _, id := range existingIDs {
		existing[id] = true
	}

	var categoryIDs []string
	if err := s.db.Model(&models.Category{}).Pluck("id", &categoryIDs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	known := make(map[string]bool, len(categoryIDs))
	for _, id := range categoryIDs {
		known[id] = true
	}

	result := &SyncResult{AccountID: account.ID}
	for _, r := range remote {
		if existing[r.TransactionID] {
			result.Skipped++
			continue
		}

		date, err := time.Parse("2006-01-02", r.Date)
		if err != nil {
			logger.Get().Warnw("skipping transaction with malformed date",
				"external_id", r.TransactionID,
				"date", r.Date,
			)
			result.Skipped++
			continue
		}

		var categoryID *string
		if known[r.Category] {
			c := r.Category
			categoryID = &c
		}

		txn := models.Transaction{
			AccountID:  account.ID,
			CategoryID: categoryID,
			Name:       r.Name,
			Merchant:   r.Merchant,
			Amount:     toCents(r.Amount),
			Date:       date,
			Pending:    r.Pending,
			ExternalID: r.TransactionID,
		}
		if err := s.db.Create(&txn).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		result.Added++
	}

	logger.Get().Infow("synced account",
		"account_id", account.ID,
		"added", result.Added,
		"skipped", result.Skipped,
	)
	return result, nil
}
