package model

// swagger:model Lesson
type Lesson struct {
	BaseModel
	CourseID    uint   `gorm:"index;not null" json:"courseId"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Content     string `gorm:"type:longtext" json:"content"` // markdown body
	VideoURL    string `gorm:"size:255" json:"videoUrl"`
	Duration    int    `gorm:"default:0" json:"duration"` // estimated minutes
	Order       int    `gorm:"default:0" json:"order"`
	XPReward    int    `gorm:"default:10" json:"xpReward"`
	IsPublished bool   `gorm:"default:true" json:"isPublished"`
}

func (Lesson) TableName() string {
	return "lessons"
}
