package repository

import (
	"context"

	"fraudguard-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SimulationLogRepository struct {
	db *gorm.DB
}

func NewSimulationLogRepository(db *gorm.DB) *SimulationLogRepository {
	return &SimulationLogRepository{db: db}
}

func (r *SimulationLogRepository) Create(ctx context.Context, log *models.SimulationLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *SimulationLogRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]models.SimulationLog, error) {
	var logs []models.SimulationLog
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
