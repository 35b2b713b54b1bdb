package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"dynotest/internal/apperr"
	"dynotest/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByNim(ctx context.Context, nim string) (*models.User, error)
	ExistsByNim(ctx context.Context, nim string) (bool, error)
	List(ctx context.Context, limit int) ([]models.User, error)
	Update(ctx context.Context, id int64, update models.UserUpdate) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return apperr.Database("insert user", err)
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, apperr.Database("select user by id", err)
	}
	return &user, nil
}

func (r *userRepository) FindByNim(ctx context.Context, nim string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("nim = ?", nim).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, apperr.Database("select user by nim", err)
	}
	return &user, nil
}

func (r *userRepository) ExistsByNim(ctx context.Context, nim string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("nim = ?", nim).
		Count(&count).
		Error
	if err != nil {
		return false, apperr.Database("count users by nim", err)
	}
	return count > 0, nil
}

func (r *userRepository) List(ctx context.Context, limit int) ([]models.User, error) {
	if limit < 1 || limit > 1000 {
		limit = 100
	}
	var users []models.User
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&users).
		Error
	if err != nil {
		return nil, apperr.Database("select users", err)
	}
	return users, nil
}

func (r *userRepository) Update(ctx context.Context, id int64, update models.UserUpdate) error {
	changes := map[string]interface{}{}
	if update.Nim != nil {
		changes["nim"] = *update.Nim
	}
	if update.Name != nil {
		changes["name"] = *update.Name
	}
	if update.Password != nil {
		changes["password"] = *update.Password
	}
	if update.Role != nil {
		changes["role"] = update.Role.String()
	}
	if update.Email != nil {
		changes["email"] = *update.Email
	}
	if update.Photo != nil {
		changes["photo"] = *update.Photo
	}
	if len(changes) == 0 {
		return nil
	}

	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(changes)
	if result.Error != nil {
		return apperr.Database("update user", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.User{}, id)
	if result.Error != nil {
		return apperr.Database("delete user", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, apperr.Database("count users", err)
	}
	return count, nil
}
