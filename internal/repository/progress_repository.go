package repository

import (
	"codementor_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// Upsert records completion once per (user, item); re-completing an item
// keeps the first row and awards no further XP.
func (r *ProgressRepository) Upsert(progress *model.UserProgress) (created bool, err error) {
	res := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "item_type"}, {Name: "item_id"}},
		DoNothing: true,
	}).Create(progress)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *ProgressRepository) FindByUser(userID uint) ([]model.UserProgress, error) {
	var rows []model.UserProgress
	err := r.DB.Where("user_id = ?", userID).Order("completed_at DESC").Find(&rows).Error
	return rows, err
}

func (r *ProgressRepository) FindByUserAndType(userID uint, itemType string) ([]model.UserProgress, error) {
	var rows []model.UserProgress
	err := r.DB.Where("user_id = ? AND item_type = ?", userID, itemType).Find(&rows).Error
	return rows, err
}

func (r *ProgressRepository) CountCompleted(userID uint, itemType string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.UserProgress{}).
		Where("user_id = ? AND item_type = ? AND completed = ?", userID, itemType, true).
		Count(&count).Error
	return count, err
}
