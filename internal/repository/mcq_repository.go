package repository

import (
	"codementor_backend/internal/model"

	"gorm.io/gorm"
)

type MCQRepository struct {
	DB *gorm.DB
}

func NewMCQRepository(db *gorm.DB) *MCQRepository {
	return &MCQRepository{DB: db}
}

func (r *MCQRepository) Create(mcq *model.MCQ) error {
	return r.DB.Create(mcq).Error
}

func (r *MCQRepository) FindByID(id uint) (*model.MCQ, error) {
	var mcq model.MCQ
	err := r.DB.First(&mcq, id).Error
	return &mcq, err
}

func (r *MCQRepository) FindByLesson(lessonID uint) ([]model.MCQ, error) {
	var mcqs []model.MCQ
	err := r.DB.Where("lesson_id = ?", lessonID).Find(&mcqs).Error
	return mcqs, err
}

func (r *MCQRepository) FindRandom(language, difficulty string, count int) ([]model.MCQ, error) {
	var mcqs []model.MCQ
	q := r.DB.Model(&model.MCQ{})
	if language != "" {
		q = q.Where("language = ?", language)
	}
	if difficulty != "" {
		q = q.Where("difficulty = ?", difficulty)
	}
	err := q.Order("RAND()").Limit(count).Find(&mcqs).Error
	return mcqs, err
}

func (r *MCQRepository) Update(mcq *model.MCQ) error {
	return r.DB.Save(mcq).Error
}

func (r *MCQRepository) Delete(id uint) error {
	return r.DB.Delete(&model.MCQ{}, id).Error
}
