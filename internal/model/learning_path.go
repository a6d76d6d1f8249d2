package model

import "encoding/json"

// swagger:model LearningPath
type LearningPath struct {
	BaseModel
	Title       string          `gorm:"size:255;not null" json:"title"`
	Description string          `gorm:"type:text" json:"description"`
	Language    string          `gorm:"size:50;not null;index" json:"language"`
	Difficulty  string          `gorm:"size:20;default:'beginner'" json:"difficulty"`
	CourseIDs   json.RawMessage `gorm:"type:json" json:"courseIds"` // JSON: []uint, ordered
	Published   bool            `gorm:"default:false;index" json:"published"`
}

func (LearningPath) TableName() string {
	return "learning_paths"
}
