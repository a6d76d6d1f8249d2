package model

// swagger:model Course
type Course struct {
	BaseModel
	Title       string   `gorm:"size:255;not null" json:"title"`
	Description string   `gorm:"type:text" json:"description"`
	Language    string   `gorm:"size:50;not null;index" json:"language"` // programming language the course teaches
	Difficulty  string   `gorm:"size:20;default:'beginner'" json:"difficulty"`
	ImageURL    string   `gorm:"size:255" json:"imageUrl"`
	Published   bool     `gorm:"default:false;index" json:"published"`
	AuthorID    uint     `gorm:"index" json:"authorId"`
	Order       int      `gorm:"default:0" json:"order"`
	Lessons     []Lesson `gorm:"foreignKey:CourseID" json:"lessons,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}
