package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"dynotest/internal/apperr"
	"dynotest/internal/models"
)

type DynoRepository interface {
	Create(ctx context.Context, dyno *models.Dyno) error
	FindByID(ctx context.Context, id, userID int64) (*models.Dyno, error)
	FindByUUID(ctx context.Context, uuid string) (*models.Dyno, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]models.Dyno, error)
	ListAll(ctx context.Context, limit int) ([]models.Dyno, error)
	SetVerified(ctx context.Context, id int64, verified bool) error
	Count(ctx context.Context) (int64, error)
}

type dynoRepository struct {
	db *gorm.DB
}

func NewDynoRepository(db *gorm.DB) DynoRepository {
	return &dynoRepository{db: db}
}

func (r *dynoRepository) Create(ctx context.Context, dyno *models.Dyno) error {
	if err := r.db.WithContext(ctx).Create(dyno).Error; err != nil {
		return apperr.Database("insert dyno", err)
	}
	return nil
}

// FindByID is owner-scoped: a recording is only visible to its owner
// through this path.
func (r *dynoRepository) FindByID(ctx context.Context, id, userID int64) (*models.Dyno, error) {
	var dyno models.Dyno
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&dyno).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("dyno record not found")
	}
	if err != nil {
		return nil, apperr.Database("select dyno by id", err)
	}
	return &dyno, nil
}

func (r *dynoRepository) FindByUUID(ctx context.Context, uuid string) (*models.Dyno, error) {
	var dyno models.Dyno
	err := r.db.WithContext(ctx).Where("uuid = ?", uuid).First(&dyno).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("dyno record not found")
	}
	if err != nil {
		return nil, apperr.Database("select dyno by uuid", err)
	}
	return &dyno, nil
}

func (r *dynoRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]models.Dyno, error) {
	var dynos []models.Dyno
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&dynos).
		Error
	if err != nil {
		return nil, apperr.Database("select dynos by user", err)
	}
	return dynos, nil
}

func (r *dynoRepository) ListAll(ctx context.Context, limit int) ([]models.Dyno, error) {
	var dynos []models.Dyno
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&dynos).
		Error
	if err != nil {
		return nil, apperr.Database("select all dynos", err)
	}
	return dynos, nil
}

func (r *dynoRepository) SetVerified(ctx context.Context, id int64, verified bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.Dyno{}).
		Where("id = ?", id).
		Update("verified", verified)
	if result.Error != nil {
		return apperr.Database("update dyno verified", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("dyno record not found")
	}
	return nil
}

func (r *dynoRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Dyno{}).Count(&count).Error; err != nil {
		return 0, apperr.Database("count dynos", err)
	}
	return count, nil
}
