package utils

import (
	"time"

	"github.com/jinzhu/now"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"trainr/database"
	"trainr/logger"
	"trainr/models/course"
	"trainr/outline"
)

// InitializeProgressScheduler starts the periodic enrollment progress sweep.
func InitializeProgressScheduler(spec string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		n, err := RefreshAllEnrollments(database.Database.Db)
		if err != nil {
			logger.Log.Error("enrollment sweep failed", "error", err)
			return
		}
		logger.Log.Info("enrollment sweep done", "enrollments", n)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "scheduling enrollment sweep %q", spec)
	}
	c.Start()
	logger.Log.Info("enrollment sweep scheduled", "spec", spec)
	return c, nil
}

// RefreshAllEnrollments recomputes every active enrollment. Course trees are loaded once per course.
func RefreshAllEnrollments(db *gorm.DB) (int, error) {
	var enrollments []course.Enrollment
	if err := db.Where("is_deleted = ?", false).Order("course_id asc").Find(&enrollments).Error; err != nil {
		return 0, errors.Wrap(err, "listing enrollments")
	}

	trees := map[uint][]outline.Entry{}
	refreshed := 0
	for i := range enrollments {
		e := &enrollments[i]
		seq, ok := trees[e.CourseID]
		if !ok {
			tree, err := database.LoadCourseTree(db, e.CourseID)
			if err != nil && !errors.Is(err, database.ErrCourseNotFound) {
				return refreshed, err
			}
			seq = outline.Flatten(tree)
			trees[e.CourseID] = seq
		}
		if err := refresh(db, e, seq); err != nil {
			logger.Log.Warn("enrollment refresh failed", "enrollment_id", e.ID, "error", err)
			continue
		}
		refreshed++
	}
	return refreshed, nil
}

// RefreshEnrollment recomputes one enrollment from the current course tree and the student's records.
func RefreshEnrollment(db *gorm.DB, e *course.Enrollment) error {
	tree, err := database.LoadCourseTree(db, e.CourseID)
	if err != nil {
		return err
	}
	return refresh(db, e, outline.Flatten(tree))
}

func refresh(db *gorm.DB, e *course.Enrollment, seq []outline.Entry) error {
	var records []course.ProgressRecord
	if err := db.Where("user_id = ? AND course_id = ?", e.UserID, e.CourseID).Find(&records).Error; err != nil {
		return errors.Wrapf(err, "loading progress of enrollment %d", e.ID)
	}

	done := make(map[uint]bool, len(records))
	var lastActive time.Time
	for _, r := range records {
		if r.Completed {
			done[r.LessonID] = true
		}
		if r.UpdatedAt.After(lastActive) {
			lastActive = r.UpdatedAt
		}
	}
	completed := func(id uint) bool { return done[id] }

	ApplyProgress(e, seq, completed, lastActive)
	return errors.Wrapf(db.Save(e).Error, "saving enrollment %d", e.ID)
}

// ApplyProgress sets the derived fields of e. lastActive is the time of the latest progress update,
// zero when the student never started a lesson.
func ApplyProgress(e *course.Enrollment, seq []outline.Entry, completed func(uint) bool, lastActive time.Time) {
	e.TotalLessons = len(seq)
	e.CompletedLessons = outline.CompletedCount(seq, completed)
	e.Progress = outline.ProgressPercentage(seq, completed)

	switch {
	case e.TotalLessons > 0 && e.CompletedLessons == e.TotalLessons:
		if e.Status != course.EnrollmentCompleted || e.CompletedAt == nil {
			at := time.Now()
			if !lastActive.IsZero() {
				at = lastActive
			}
			e.CompletedAt = &at
		}
		e.Status = course.EnrollmentCompleted
	case !lastActive.IsZero():
		e.Status = course.EnrollmentInProgress
		e.CompletedAt = nil
	default:
		e.Status = course.EnrollmentEnrolled
		e.CompletedAt = nil
	}

	if !lastActive.IsZero() {
		day := now.With(lastActive).BeginningOfDay()
		e.LastActiveOn = &day
	}
}
