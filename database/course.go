package database

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"trainr/models/course"
)

// ErrCourseNotFound is returned for missing or deleted courses.
var ErrCourseNotFound = errors.New("course not found")

func orderedModules(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ?", false).Order("order_index asc").Order("id asc")
}

func orderedLessons(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ?", false).Order("order_index asc").Order("id asc")
}

// LoadCourseTree loads a course with its active modules and lessons in display order.
func LoadCourseTree(db *gorm.DB, courseID uint) (course.Course, error) {
	var c course.Course
	err := db.Where("id = ? AND is_deleted = ?", courseID, false).
		Preload("Modules", orderedModules).
		Preload("Modules.Lessons", orderedLessons).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return course.Course{}, ErrCourseNotFound
	}
	if err != nil {
		return course.Course{}, errors.Wrapf(err, "loading course %d", courseID)
	}
	c.Normalize()
	return c, nil
}

// LoadProgress returns the user's progress records of a course keyed by lesson id.
func LoadProgress(db *gorm.DB, userID, courseID uint) (map[uint]course.Progress, error) {
	var records []course.ProgressRecord
	if err := db.Where("user_id = ? AND course_id = ?", userID, courseID).Find(&records).Error; err != nil {
		return nil, errors.Wrapf(err, "loading progress of user %d in course %d", userID, courseID)
	}
	out := make(map[uint]course.Progress, len(records))
	for _, r := range records {
		out[r.LessonID] = r.Progress()
	}
	return out, nil
}
