// Package outline turns a course tree into a flat, index addressable lesson sequence.
//
// Every function here is pure: it reads an immutable snapshot of the course and never mutates it.
// Re-fetching a course yields a new snapshot; callers relocate their position with IndexOf.
package outline

import (
	"math"

	"trainr/models/course"
)

// Entry is one navigable lesson of a flattened course.
type Entry struct {
	ModuleIndex int           `json:"module_index"`
	LessonIndex int           `json:"lesson_index"`
	Lesson      course.Lesson `json:"lesson"`
}

// Flatten concatenates each module's lessons in module order then lesson order.
// The tree order is taken as is; nothing is re-sorted.
func Flatten(c course.Course) []Entry {
	seq := make([]Entry, 0, c.LessonCount())
	for mi, m := range c.Modules {
		for li, l := range m.Lessons {
			seq = append(seq, Entry{ModuleIndex: mi, LessonIndex: li, Lesson: l})
		}
	}
	return seq
}

// Locate returns the lesson at (moduleIndex, lessonIndex). ok is false when either index is out of range.
func Locate(c course.Course, moduleIndex, lessonIndex int) (course.Lesson, bool) {
	if moduleIndex < 0 || moduleIndex >= len(c.Modules) {
		return course.Lesson{}, false
	}
	lessons := c.Modules[moduleIndex].Lessons
	if lessonIndex < 0 || lessonIndex >= len(lessons) {
		return course.Lesson{}, false
	}
	return lessons[lessonIndex], true
}

// Next returns the position after pos, or false at the end of the sequence.
func Next(seq []Entry, pos int) (int, bool) {
	if pos < 0 || pos+1 >= len(seq) {
		return 0, false
	}
	return pos + 1, true
}

// Previous returns the position before pos, or false at the start of the sequence.
func Previous(seq []Entry, pos int) (int, bool) {
	if pos <= 0 || pos >= len(seq) {
		return 0, false
	}
	return pos - 1, true
}

// IndexOf finds the flat position of a lesson id.
func IndexOf(seq []Entry, lessonID uint) (int, bool) {
	for i, e := range seq {
		if e.Lesson.ID == lessonID {
			return i, true
		}
	}
	return 0, false
}

// ProgressPercentage is round(100 * |completed ∩ lessons| / |lessons|), and 0 for an empty sequence.
// Completed ids that are not part of seq are ignored.
func ProgressPercentage(seq []Entry, completed func(lessonID uint) bool) int {
	if len(seq) == 0 {
		return 0
	}
	done := CompletedCount(seq, completed)
	return int(math.Round(100 * float64(done) / float64(len(seq))))
}

// CompletedCount counts the lessons of seq reported as completed.
func CompletedCount(seq []Entry, completed func(lessonID uint) bool) int {
	done := 0
	for _, e := range seq {
		if completed(e.Lesson.ID) {
			done++
		}
	}
	return done
}

// IDSet adapts a plain id set to the predicate taken by ProgressPercentage.
func IDSet(ids ...uint) func(uint) bool {
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return func(id uint) bool {
		_, ok := set[id]
		return ok
	}
}

// TotalDuration sums lesson durations in seconds.
func TotalDuration(seq []Entry) int {
	total := 0
	for _, e := range seq {
		total += e.Lesson.Duration
	}
	return total
}

// RemainingDuration sums the durations of lessons not yet completed.
func RemainingDuration(seq []Entry, completed func(lessonID uint) bool) int {
	left := 0
	for _, e := range seq {
		if !completed(e.Lesson.ID) {
			left += e.Lesson.Duration
		}
	}
	return left
}
