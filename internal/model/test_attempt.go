package model

import (
	"encoding/json"
	"time"
)

type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptSubmitted  AttemptStatus = "submitted"
	AttemptExpired    AttemptStatus = "expired" // submitted by the countdown, not the user
	AttemptAbandoned  AttemptStatus = "abandoned"
)

// TestAttempt is one user's pass through one test, persisted at submission
// (or abandonment) with the full per-question breakdown.
// swagger:model TestAttempt
type TestAttempt struct {
	UUIDBase
	TestID          uint            `gorm:"index;not null" json:"testId"`
	UserID          uint            `gorm:"index;not null" json:"userId"`
	Status          AttemptStatus   `gorm:"size:20;not null;default:'in_progress'" json:"status"`
	Score           int             `gorm:"default:0" json:"score"` // percentage 0..100
	TotalPoints     int             `gorm:"default:0" json:"totalPoints"`
	EarnedPoints    int             `gorm:"default:0" json:"earnedPoints"`
	Passed          bool            `gorm:"default:false" json:"passed"`
	QuestionResults json.RawMessage `gorm:"type:json" json:"questionResults"` // JSON: []exam.QuestionResult
	StartedAt       time.Time       `json:"startedAt"`
	CompletedAt     *time.Time      `json:"completedAt,omitempty"`
}

func (TestAttempt) TableName() string {
	return "test_attempts"
}
