package repository

import (
	"context"

	"gorm.io/gorm"

	"dynotest/internal/apperr"
	"dynotest/internal/models"
)

type HistoryRepository interface {
	Create(ctx context.Context, history *models.History) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]models.History, error)
	ListAll(ctx context.Context, limit int) ([]models.History, error)
	Count(ctx context.Context) (int64, error)
}

type historyRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) Create(ctx context.Context, history *models.History) error {
	if err := r.db.WithContext(ctx).Create(history).Error; err != nil {
		return apperr.Database("insert history", err)
	}
	return nil
}

func (r *historyRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]models.History, error) {
	if limit < 1 || limit > 1000 {
		limit = 100
	}
	var histories []models.History
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&histories).
		Error
	if err != nil {
		return nil, apperr.Database("select histories by user", err)
	}
	return histories, nil
}

func (r *historyRepository) ListAll(ctx context.Context, limit int) ([]models.History, error) {
	if limit < 1 || limit > 1000 {
		limit = 100
	}
	var histories []models.History
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&histories).
		Error
	if err != nil {
		return nil, apperr.Database("select all histories", err)
	}
	return histories, nil
}

func (r *historyRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.History{}).Count(&count).Error; err != nil {
		return 0, apperr.Database("count histories", err)
	}
	return count, nil
}
