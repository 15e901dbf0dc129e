package course

import "gorm.io/gorm"

// Lesson is a single navigable unit of a module.
type Lesson struct {
	gorm.Model
	ModuleID    uint   `json:"module_id" gorm:"index;not null"`
	Title       string `json:"title"`
	VideoURL    string `json:"video_url"`
	Duration    int    `json:"duration" gorm:"default:0"` // seconds
	ResourceURL string `json:"resource_url"`
	IsPreview   bool   `json:"is_preview" gorm:"default:false"`
	OrderIndex  int    `json:"order_index" gorm:"default:0"` // Lesson order in module
	IsDeleted   bool   `json:"-" gorm:"default:false"`
}
