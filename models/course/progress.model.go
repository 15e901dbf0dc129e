package course

import (
	"time"

	"gorm.io/gorm"
)

// ProgressRecord tracks one student's progress on one lesson.
type ProgressRecord struct {
	gorm.Model
	UserID      uint       `json:"user_id" gorm:"uniqueIndex:idx_progress_user_lesson;not null"`
	CourseID    uint       `json:"course_id" gorm:"index;not null"`
	LessonID    uint       `json:"lesson_id" gorm:"uniqueIndex:idx_progress_user_lesson;not null"`
	Completed   bool       `json:"completed" gorm:"default:false"`
	WatchTime   int        `json:"watch_time" gorm:"default:0"` // seconds
	CompletedAt *time.Time `json:"completed_at"`
}

// Progress is what a student sees of a ProgressRecord.
type Progress struct {
	Completed bool `json:"completed"`
	WatchTime int  `json:"watch_time"`
}

func (r ProgressRecord) Progress() Progress {
	return Progress{Completed: r.Completed, WatchTime: r.WatchTime}
}

// Merge folds an update into p. Completion never goes back to false and watch time never decreases.
func (p Progress) Merge(update Progress) Progress {
	out := Progress{
		Completed: p.Completed || update.Completed,
		WatchTime: p.WatchTime,
	}
	if update.WatchTime > out.WatchTime {
		out.WatchTime = update.WatchTime
	}
	return out
}
