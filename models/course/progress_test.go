package course

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressMerge(t *testing.T) {
	tests := []struct {
		name   string
		cur    Progress
		update Progress
		want   Progress
	}{
		{name: "first completion", cur: Progress{}, update: Progress{Completed: true, WatchTime: 30}, want: Progress{Completed: true, WatchTime: 30}},
		{name: "completion is sticky", cur: Progress{Completed: true, WatchTime: 30}, update: Progress{Completed: false, WatchTime: 40}, want: Progress{Completed: true, WatchTime: 40}},
		{name: "watch time never decreases", cur: Progress{WatchTime: 90}, update: Progress{WatchTime: 10}, want: Progress{WatchTime: 90}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cur.Merge(tt.update))
		})
	}
}

func TestCourseNormalize(t *testing.T) {
	c := Course{Modules: []Module{{Title: "A"}, {Title: "B", Lessons: []Lesson{{Title: "b1"}}}}}
	c.Normalize()

	assert.NotNil(t, c.Modules[0].Lessons)
	assert.Len(t, c.Modules[0].Lessons, 0)
	assert.Equal(t, 1, c.LessonCount())

	var empty Course
	empty.Normalize()
	assert.NotNil(t, empty.Modules)
	assert.Equal(t, 0, empty.LessonCount())
}
