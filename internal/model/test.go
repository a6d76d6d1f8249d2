package model

import "encoding/json"

// Test is a timed, scored assessment composed of choice questions.
// swagger:model Test
type Test struct {
	BaseModel
	Title        string         `gorm:"size:255;not null" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	Language     string         `gorm:"size:50;not null;index" json:"language"`
	Difficulty   string         `gorm:"size:20;default:'beginner'" json:"difficulty"`
	TimeLimit    int            `gorm:"not null" json:"timeLimit"`               // minutes
	PassingScore int            `gorm:"not null;default:70" json:"passingScore"` // percentage 0..100
	XPReward     int            `gorm:"default:50" json:"xpReward"`
	Published    bool           `gorm:"default:false;index" json:"published"`
	AuthorID     uint           `gorm:"index" json:"authorId"`
	Questions    []TestQuestion `gorm:"foreignKey:TestID" json:"questions,omitempty"`
}

func (Test) TableName() string {
	return "tests"
}

// TestQuestion is one stored question row. Options and CorrectAnswer are
// JSON so the three question kinds share a table; Type discriminates.
// swagger:model TestQuestion
type TestQuestion struct {
	UUIDBase
	TestID        uint            `gorm:"index;not null" json:"testId"`
	Type          string          `gorm:"size:20;not null" json:"type"`      // mcq, code-mcq, multi-select
	Prompt        string          `gorm:"type:text;not null" json:"question"`
	Options       json.RawMessage `gorm:"type:json;not null" json:"options"` // JSON: []string
	CorrectAnswer json.RawMessage `gorm:"type:json;not null" json:"-"`       // int for mcq/code-mcq, []int for multi-select
	Code          string          `gorm:"type:text" json:"code,omitempty"`
	Language      string          `gorm:"size:50" json:"language,omitempty"`
	Points        int             `gorm:"not null;default:1" json:"points"`
	Explanation   string          `gorm:"type:text" json:"explanation,omitempty"`
	Order         int             `gorm:"default:0" json:"order"`
}

func (TestQuestion) TableName() string {
	return "test_questions"
}
