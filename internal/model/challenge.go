package model

import "encoding/json"

// swagger:model Challenge
type Challenge struct {
	BaseModel
	Title        string          `gorm:"size:255;not null" json:"title"`
	Description  string          `gorm:"type:text" json:"description"`
	Language     string          `gorm:"size:50;not null;index" json:"language"`
	Difficulty   string          `gorm:"size:20;default:'beginner'" json:"difficulty"`
	StarterCode  string          `gorm:"type:text" json:"starterCode"`
	SolutionCode string          `gorm:"type:text" json:"-"`
	TestCases    json.RawMessage `gorm:"type:json" json:"testCases"` // JSON: []TestCase
	Hints        json.RawMessage `gorm:"type:json" json:"hints"`     // JSON: []string
	XPReward     int             `gorm:"default:25" json:"xpReward"`
	Published    bool            `gorm:"default:false;index" json:"published"`
	LessonID     *uint           `gorm:"index" json:"lessonId,omitempty"`
}

func (Challenge) TableName() string {
	return "challenges"
}

// TestCase is one input/expected-output pair a submission must satisfy.
type TestCase struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expectedOutput"`
	Hidden         bool   `json:"hidden"`
}
