package course

import "gorm.io/gorm"

// Content types
const (
	ContentVideo    = "VIDEO"
	ContentDocument = "DOCUMENT"
	ContentText     = "TEXT"
	ContentImage    = "IMAGE"
)

// CourseContent represents one piece of material inside a module
type CourseContent struct {
	gorm.Model
	CourseID        uint   `json:"course_id" gorm:"index;not null"`
	ModuleID        uint   `json:"module_id" gorm:"index;not null"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	ContentType     string `json:"content_type" gorm:"default:'TEXT'"` // VIDEO, DOCUMENT, TEXT, IMAGE
	TextContent     string `json:"text_content" gorm:"type:text"`
	MediaURL        string `json:"media_url"`
	DurationSeconds int64  `json:"duration_seconds" gorm:"default:0"`
	OrderIndex      int    `json:"order_index" gorm:"default:0"`
	IsDeleted       bool   `json:"-" gorm:"default:false"`
}
