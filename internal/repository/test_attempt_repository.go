package repository

import (
	"codementor_backend/internal/model"

	"gorm.io/gorm"
)

type TestAttemptRepository struct {
	DB *gorm.DB
}

func NewTestAttemptRepository(db *gorm.DB) *TestAttemptRepository {
	return &TestAttemptRepository{DB: db}
}

func (r *TestAttemptRepository) Create(attempt *model.TestAttempt) error {
	return r.DB.Create(attempt).Error
}

func (r *TestAttemptRepository) FindByID(id string) (*model.TestAttempt, error) {
	var attempt model.TestAttempt
	err := r.DB.Where("id = ?", id).First(&attempt).Error
	return &attempt, err
}

func (r *TestAttemptRepository) Update(attempt *model.TestAttempt) error {
	return r.DB.Save(attempt).Error
}

func (r *TestAttemptRepository) FindByUser(userID uint, page, limit int) ([]model.TestAttempt, int64, error) {
	var attempts []model.TestAttempt
	var total int64

	q := r.DB.Model(&model.TestAttempt{}).Where("user_id = ?", userID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&attempts).Error
	return attempts, total, err
}

func (r *TestAttemptRepository) FindByUserAndTest(userID, testID uint) ([]model.TestAttempt, error) {
	var attempts []model.TestAttempt
	err := r.DB.Where("user_id = ? AND test_id = ?", userID, testID).
		Order("created_at DESC").
		Find(&attempts).Error
	return attempts, err
}

// BestScore returns the highest submitted score a user reached on a test,
// zero when no submitted attempt exists.
func (r *TestAttemptRepository) BestScore(userID, testID uint) (int, error) {
	var best int
	err := r.DB.Model(&model.TestAttempt{}).
		Where("user_id = ? AND test_id = ? AND status IN ?", userID, testID,
			[]model.AttemptStatus{model.AttemptSubmitted, model.AttemptExpired}).
		Select("COALESCE(MAX(score), 0)").
		Scan(&best).Error
	return best, err
}
