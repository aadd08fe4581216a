package repositories

import (
	"context"

	"userhub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// userDetailRepository implements UserDetailRepository interface
type userDetailRepository struct {
	db *gorm.DB
}

// NewUserDetailRepository creates a new user detail repository
func NewUserDetailRepository(db *gorm.DB) UserDetailRepository {
	return &userDetailRepository{db: db}
}

// Create creates a new user detail
func (r *userDetailRepository) Create(ctx context.Context, detail *models.UserDetail) error {
	return r.db.WithContext(ctx).Create(detail).Error
}

// GetByUserID gets a user detail by owner ID with the user loaded
func (r *userDetailRepository) GetByUserID(ctx context.Context, userID string) (*models.UserDetail, error) {
	var detail models.UserDetail
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		First(&detail).Error
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// Update updates a user detail
func (r *userDetailRepository) Update(ctx context.Context, detail *models.UserDetail) error {
	return r.db.WithContext(ctx).Save(detail).Error
}

// DeleteByUserID deletes a user detail by owner ID
func (r *userDetailRepository) DeleteByUserID(ctx context.Context, userID string) (bool, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.UserDetail{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// List lists user details with pagination, newest first, users loaded
func (r *userDetailRepository) List(ctx context.Context, offset, limit int) ([]*models.UserDetail, int64, error) {
	var details []*models.UserDetail
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.UserDetail{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&details).Error; err != nil {
		return nil, 0, err
	}

	return details, total, nil
}
