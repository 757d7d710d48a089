package repository

import (
	"context"
	"time"

	"fraudguard-backend/internal/models"

	"gorm.io/gorm"
)

type APITokenRepository struct {
	db *gorm.DB
}

func NewAPITokenRepository(db *gorm.DB) *APITokenRepository {
	return &APITokenRepository{db: db}
}

func (r *APITokenRepository) Create(ctx context.Context, token *models.APIToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *APITokenRepository) GetActiveByToken(ctx context.Context, token string) (*models.APIToken, error) {
	var t models.APIToken
	err := r.db.WithContext(ctx).
		Where("token = ? AND is_active = ?", token, true).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// TouchUsage records one use of the token.
func (r *APITokenRepository) TouchUsage(ctx context.Context, token *models.APIToken) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(token).Updates(map[string]interface{}{
		"usage_count": gorm.Expr("usage_count + 1"),
		"last_used":   now,
	}).Error
}
