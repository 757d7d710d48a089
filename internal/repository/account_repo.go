package repository

import (
	"context"
	"errors"
	"strings"

	"fraudguard-backend/internal/models"
	"fraudguard-backend/internal/services/ledger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, acct *models.Account) error {
	return r.db.WithContext(ctx).Create(acct).Error
}

func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	var acct models.Account
	err := r.db.WithContext(ctx).First(&acct, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrAccountNotFound
		}
		return nil, err
	}
	return &acct, nil
}

func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	var acct models.Account
	err := r.db.WithContext(ctx).
		Where("LOWER(username) = ?", strings.ToLower(username)).
		First(&acct).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrAccountNotFound
		}
		return nil, err
	}
	return &acct, nil
}

func (r *AccountRepository) Save(ctx context.Context, acct *models.Account) error {
	return r.db.WithContext(ctx).Save(acct).Error
}

// SaveBalances persists the debit and credit halves of a transfer in a single
// database transaction.
func (r *AccountRepository) SaveBalances(ctx context.Context, a, b *models.Account) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Account{}).Where("id = ?", a.ID).Update("balance", a.Balance).Error; err != nil {
			return err
		}
		return tx.Model(&models.Account{}).Where("id = ?", b.ID).Update("balance", b.Balance).Error
	})
}
