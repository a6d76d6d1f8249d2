package repository

import (
	"codementor_backend/internal/model"

	"gorm.io/gorm"
)

type ChallengeRepository struct {
	DB *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) *ChallengeRepository {
	return &ChallengeRepository{DB: db}
}

func (r *ChallengeRepository) Create(challenge *model.Challenge) error {
	return r.DB.Create(challenge).Error
}

func (r *ChallengeRepository) FindByID(id uint) (*model.Challenge, error) {
	var challenge model.Challenge
	err := r.DB.First(&challenge, id).Error
	return &challenge, err
}

func (r *ChallengeRepository) FindPublished(language, difficulty string, page, limit int) ([]model.Challenge, int64, error) {
	var challenges []model.Challenge
	var total int64

	q := r.DB.Model(&model.Challenge{}).Where("published = ?", true)
	if language != "" {
		q = q.Where("language = ?", language)
	}
	if difficulty != "" {
		q = q.Where("difficulty = ?", difficulty)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("id ASC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&challenges).Error
	return challenges, total, err
}

func (r *ChallengeRepository) Update(challenge *model.Challenge) error {
	return r.DB.Save(challenge).Error
}

func (r *ChallengeRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Challenge{}, id).Error
}
