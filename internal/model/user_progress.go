package model

import "time"

// UserProgress records one user's completion of one lesson or challenge.
// swagger:model UserProgress
type UserProgress struct {
	BaseModel
	UserID      uint      `gorm:"index:idx_user_item,unique;not null" json:"userId"`
	ItemType    string    `gorm:"index:idx_user_item,unique;size:20;not null" json:"itemType"` // lesson, challenge, mcq
	ItemID      uint      `gorm:"index:idx_user_item,unique;not null" json:"itemId"`
	Completed   bool      `gorm:"default:false" json:"completed"`
	XPEarned    int       `gorm:"default:0" json:"xpEarned"`
	CompletedAt time.Time `json:"completedAt"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}
