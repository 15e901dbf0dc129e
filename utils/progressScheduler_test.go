package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"trainr/database"
	"trainr/models/course"
	"trainr/outline"
)

func seq(ids ...uint) []outline.Entry {
	out := make([]outline.Entry, len(ids))
	for i, id := range ids {
		out[i] = outline.Entry{LessonIndex: i, Lesson: course.Lesson{Model: gorm.Model{ID: id}}}
	}
	return out
}

func TestApplyProgress(t *testing.T) {
	active := time.Date(2024, 3, 9, 17, 45, 0, 0, time.UTC)

	e := &course.Enrollment{Status: course.EnrollmentEnrolled}
	ApplyProgress(e, seq(1, 2, 3), outline.IDSet(), time.Time{})
	assert.Equal(t, course.EnrollmentEnrolled, e.Status)
	assert.Equal(t, 0, e.Progress)
	assert.Equal(t, 3, e.TotalLessons)
	assert.Nil(t, e.LastActiveOn)

	ApplyProgress(e, seq(1, 2, 3), outline.IDSet(2), active)
	assert.Equal(t, course.EnrollmentInProgress, e.Status)
	assert.Equal(t, 33, e.Progress)
	require.NotNil(t, e.LastActiveOn)
	assert.Equal(t, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), *e.LastActiveOn)

	ApplyProgress(e, seq(1, 2, 3), outline.IDSet(1, 2, 3), active)
	assert.Equal(t, course.EnrollmentCompleted, e.Status)
	assert.Equal(t, 100, e.Progress)
	require.NotNil(t, e.CompletedAt)
	assert.Equal(t, active, *e.CompletedAt)

	// a lesson added later reopens the course
	ApplyProgress(e, seq(1, 2, 3, 4), outline.IDSet(1, 2, 3), active)
	assert.Equal(t, course.EnrollmentInProgress, e.Status)
	assert.Equal(t, 75, e.Progress)
	assert.Nil(t, e.CompletedAt)

	// an empty course is never completed
	empty := &course.Enrollment{}
	ApplyProgress(empty, nil, outline.IDSet(), time.Time{})
	assert.Equal(t, course.EnrollmentEnrolled, empty.Status)
	assert.Equal(t, 0, empty.Progress)
}

func TestRefreshAllEnrollments(t *testing.T) {
	db, err := database.Open("sqlite", "file:sweep_test?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	crs := course.Course{InstructorID: 1, Title: "Go", IsPublished: true}
	require.NoError(t, db.Create(&crs).Error)
	module := course.Module{CourseID: crs.ID, Title: "Basics"}
	require.NoError(t, db.Create(&module).Error)
	lessons := []course.Lesson{
		{ModuleID: module.ID, Title: "One", OrderIndex: 0},
		{ModuleID: module.ID, Title: "Two", OrderIndex: 1},
	}
	require.NoError(t, db.Create(&lessons).Error)

	done := course.Enrollment{UserID: 7, CourseID: crs.ID, Status: course.EnrollmentEnrolled}
	idle := course.Enrollment{UserID: 8, CourseID: crs.ID, Status: course.EnrollmentEnrolled}
	require.NoError(t, db.Create(&done).Error)
	require.NoError(t, db.Create(&idle).Error)
	for _, l := range lessons {
		require.NoError(t, db.Create(&course.ProgressRecord{UserID: 7, CourseID: crs.ID, LessonID: l.ID, Completed: true}).Error)
	}

	n, err := RefreshAllEnrollments(db)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, db.First(&done, done.ID).Error)
	assert.Equal(t, course.EnrollmentCompleted, done.Status)
	assert.Equal(t, 100, done.Progress)
	assert.Equal(t, 2, done.CompletedLessons)

	require.NoError(t, db.First(&idle, idle.ID).Error)
	assert.Equal(t, course.EnrollmentEnrolled, idle.Status)
	assert.Equal(t, 2, idle.TotalLessons)

	// the instructor adds a lesson: the sweep picks it up
	require.NoError(t, db.Create(&course.Lesson{ModuleID: module.ID, Title: "Three", OrderIndex: 2}).Error)
	_, err = RefreshAllEnrollments(db)
	require.NoError(t, err)
	require.NoError(t, db.First(&done, done.ID).Error)
	assert.Equal(t, course.EnrollmentInProgress, done.Status)
	assert.Equal(t, 67, done.Progress)
}

func TestInitializeProgressSchedulerRejectsBadSpec(t *testing.T) {
	_, err := InitializeProgressScheduler("every now and then")
	require.Error(t, err)

	c, err := InitializeProgressScheduler("@every 1h")
	require.NoError(t, err)
	c.Stop()
}
