package repository

import (
	"codementor_backend/internal/model"

	"gorm.io/gorm"
)

type TestRepository struct {
	DB *gorm.DB
}

func NewTestRepository(db *gorm.DB) *TestRepository {
	return &TestRepository{DB: db}
}

func (r *TestRepository) Create(test *model.Test) error {
	return r.DB.Create(test).Error
}

// FindByID loads a test with its questions in display order.
func (r *TestRepository) FindByID(id uint) (*model.Test, error) {
	var test model.Test
	err := r.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("test_questions.`order` ASC")
	}).First(&test, id).Error
	return &test, err
}

func (r *TestRepository) FindPublished(language, difficulty string, page, limit int) ([]model.Test, int64, error) {
	var tests []model.Test
	var total int64

	q := r.DB.Model(&model.Test{}).Where("published = ?", true)
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
		Find(&tests).Error
	return tests, total, err
}

// Update replaces the test row and, when questions are supplied, its whole
// question set in one transaction.
func (r *TestRepository) Update(test *model.Test) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Questions").Save(test).Error; err != nil {
			return err
		}
		if test.Questions == nil {
			return nil
		}
		if err := tx.Where("test_id = ?", test.ID).Delete(&model.TestQuestion{}).Error; err != nil {
			return err
		}
		for i := range test.Questions {
			test.Questions[i].TestID = test.ID
			if err := tx.Create(&test.Questions[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *TestRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("test_id = ?", id).Delete(&model.TestQuestion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Test{}, id).Error
	})
}

func (r *TestRepository) SetPublished(id uint, published bool) error {
	return r.DB.Model(&model.Test{}).Where("id = ?", id).Update("published", published).Error
}
