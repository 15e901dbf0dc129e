package course

import "gorm.io/gorm"

// Course is the root of a course tree. Modules are ordered by OrderIndex.
type Course struct {
	gorm.Model
	InstructorID uint     `json:"instructor_id" gorm:"index;not null"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	ThumbnailURL string   `json:"thumbnail_url"`
	IsPublished  bool     `json:"is_published" gorm:"default:false"`
	IsDeleted    bool     `json:"-" gorm:"default:false"`
	Modules      []Module `json:"modules" gorm:"foreignKey:CourseID"`
}

// Normalize replaces missing module and lesson lists with empty ones so a tree never carries nil containers.
func (c *Course) Normalize() {
	if c.Modules == nil {
		c.Modules = []Module{}
	}
	for i := range c.Modules {
		if c.Modules[i].Lessons == nil {
			c.Modules[i].Lessons = []Lesson{}
		}
	}
}

// LessonCount is the number of lessons across all modules.
func (c Course) LessonCount() int {
	n := 0
	for _, m := range c.Modules {
		n += len(m.Lessons)
	}
	return n
}
