package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"dynotest/internal/apperr"
	"dynotest/internal/models"
)

type InfoRepository interface {
	// FindOrCreate deduplicates by content equality: an identical
	// configuration uploaded twice maps to the same row.
	FindOrCreate(ctx context.Context, info *models.Info) (int64, error)
	FindByID(ctx context.Context, id int64) (*models.Info, error)
	List(ctx context.Context, limit int) ([]models.Info, error)
}

type infoRepository struct {
	db *gorm.DB
}

func NewInfoRepository(db *gorm.DB) InfoRepository {
	return &infoRepository{db: db}
}

func (r *infoRepository) FindOrCreate(ctx context.Context, info *models.Info) (int64, error) {
	clause, args := infoMatchClause(info)

	var existing models.Info
	err := r.db.WithContext(ctx).Where(clause, args...).First(&existing).Error
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, apperr.Database("select info by content", err)
	}

	if err := r.db.WithContext(ctx).Create(info).Error; err != nil {
		return 0, apperr.Database("insert info", err)
	}
	return info.ID, nil
}

// infoMatchClause builds the content-equality predicate identifying an
// info row. Absent fields must match IS NULL; a struct condition would
// skip them and collapse distinct configurations onto one row.
func infoMatchClause(info *models.Info) (string, []interface{}) {
	preds := []string{"motor_type = ?"}
	args := []interface{}{info.MotorType}

	preds, args = appendNullable(preds, args, "name", info.Name)
	preds, args = appendNullable(preds, args, "cc", info.CC)
	preds, args = appendNullable(preds, args, "cylinder", info.Cylinder)
	preds, args = appendNullable(preds, args, "stroke", info.Stroke)
	preds, args = appendNullable(preds, args, "roller_diameter", info.RollerDiameter)
	preds, args = appendNullable(preds, args, "load_roller_diameter", info.LoadRollerDiameter)
	preds, args = appendNullable(preds, args, "encoder_gear_diameter", info.EncoderGearDiameter)
	preds, args = appendNullable(preds, args, "load_gear_diameter", info.LoadGearDiameter)
	preds, args = appendNullable(preds, args, "gear_distance", info.GearDistance)
	preds, args = appendNullable(preds, args, "load_weight", info.LoadWeight)
	preds, args = appendNullable(preds, args, "load_force", info.LoadForce)
	preds, args = appendNullable(preds, args, "roller_circumference", info.RollerCircumference)

	return strings.Join(preds, " AND "), args
}

func appendNullable[T any](preds []string, args []interface{}, column string, value *T) ([]string, []interface{}) {
	if value == nil {
		return append(preds, column+" IS NULL"), args
	}
	return append(preds, column+" = ?"), append(args, *value)
}

func (r *infoRepository) FindByID(ctx context.Context, id int64) (*models.Info, error) {
	var info models.Info
	err := r.db.WithContext(ctx).First(&info, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("info not found")
	}
	if err != nil {
		return nil, apperr.Database("select info by id", err)
	}
	return &info, nil
}

func (r *infoRepository) List(ctx context.Context, limit int) ([]models.Info, error) {
	if limit < 1 || limit > 1000 {
		limit = 100
	}
	var infos []models.Info
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&infos).
		Error
	if err != nil {
		return nil, apperr.Database("select infos", err)
	}
	return infos, nil
}
