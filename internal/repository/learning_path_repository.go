package repository

import (
	"codementor_backend/internal/model"

	"gorm.io/gorm"
)

type LearningPathRepository struct {
	DB *gorm.DB
}

func NewLearningPathRepository(db *gorm.DB) *LearningPathRepository {
	return &LearningPathRepository{DB: db}
}

func (r *LearningPathRepository) Create(path *model.LearningPath) error {
	return r.DB.Create(path).Error
}

func (r *LearningPathRepository) FindByID(id uint) (*model.LearningPath, error) {
	var path model.LearningPath
	err := r.DB.First(&path, id).Error
	return &path, err
}

func (r *LearningPathRepository) FindPublished(language string) ([]model.LearningPath, error) {
	var paths []model.LearningPath
	q := r.DB.Where("published = ?", true)
	if language != "" {
		q = q.Where("language = ?", language)
	}
	err := q.Order("id ASC").Find(&paths).Error
	return paths, err
}

func (r *LearningPathRepository) Update(path *model.LearningPath) error {
	return r.DB.Save(path).Error
}

func (r *LearningPathRepository) Delete(id uint) error {
	return r.DB.Delete(&model.LearningPath{}, id).Error
}
