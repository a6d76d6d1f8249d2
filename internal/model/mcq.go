package model

import "encoding/json"

// MCQ is a standalone practice question outside any timed test.
// swagger:model MCQ
type MCQ struct {
	BaseModel
	Question    string          `gorm:"type:text;not null" json:"question"`
	Options     json.RawMessage `gorm:"type:json;not null" json:"options"` // JSON: []string
	Answer      int             `gorm:"not null" json:"-"`                 // index into Options
	Explanation string          `gorm:"type:text" json:"explanation"`
	Language    string          `gorm:"size:50;index" json:"language"`
	Difficulty  string          `gorm:"size:20;default:'beginner'" json:"difficulty"`
	LessonID    *uint           `gorm:"index" json:"lessonId,omitempty"`
	XPReward    int             `gorm:"default:5" json:"xpReward"`
}

func (MCQ) TableName() string {
	return "mcqs"
}
