package database

import (
	"codementor_backend/internal/config"
	"codementor_backend/internal/model"
	"encoding/json"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.Lesson{},
		&model.Challenge{},
		&model.MCQ{},
		&model.LearningPath{},
		&model.UserProgress{},
		&model.Test{},
		&model.TestQuestion{},
		&model.TestAttempt{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	seedDefaults(db)

	return db, nil
}

// seedDefaults inserts a starter test so a fresh install has something to
// take. Skipped when any test already exists.
func seedDefaults(db *gorm.DB) {
	var count int64
	db.Model(&model.Test{}).Count(&count)
	if count > 0 {
		return
	}

	test := &model.Test{
		Title:        "JavaScript Basics",
		Description:  "Fundamentals of variables, types and control flow",
		Language:     "javascript",
		Difficulty:   "beginner",
		TimeLimit:    15,
		PassingScore: 70,
		XPReward:     50,
		Published:    true,
	}
	if err := db.Create(test).Error; err != nil {
		log.Println("seed test failed:", err)
		return
	}

	questions := []model.TestQuestion{
		{
			TestID:        test.ID,
			Type:          "mcq",
			Prompt:        "Which keyword declares a block-scoped variable?",
			Options:       mustJSON([]string{"var", "let", "function", "static"}),
			CorrectAnswer: mustJSON(1),
			Points:        10,
			Explanation:   "let (and const) are block-scoped; var is function-scoped.",
			Order:         0,
		},
		{
			TestID:        test.ID,
			Type:          "code-mcq",
			Prompt:        "What does this code print?",
			Options:       mustJSON([]string{"undefined", "null", "0", "ReferenceError"}),
			CorrectAnswer: mustJSON(0),
			Code:          "var x;\nconsole.log(x);",
			Language:      "javascript",
			Points:        10,
			Explanation:   "A declared but unassigned var holds undefined.",
			Order:         1,
		},
		{
			TestID:        test.ID,
			Type:          "multi-select",
			Prompt:        "Which of these are falsy values?",
			Options:       mustJSON([]string{"0", "\"\"", "[]", "{}"}),
			CorrectAnswer: mustJSON([]int{0, 1}),
			Points:        10,
			Explanation:   "Empty arrays and objects are truthy.",
			Order:         2,
		},
	}
	for i := range questions {
		if err := db.Create(&questions[i]).Error; err != nil {
			log.Println("seed question failed:", err)
		}
	}
}

func mustJSON(v interface{}) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
