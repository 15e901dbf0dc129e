package progress

import (
	"sort"

	"trainr/models/course"
)

// Set is an immutable snapshot of what the client knows about a student's lesson progress.
// The zero value is an empty set. Methods that change progress return a new Set.
type Set struct {
	records map[uint]course.Progress
}

// NewSet copies records into a fresh Set.
func NewSet(records map[uint]course.Progress) Set {
	s := Set{records: make(map[uint]course.Progress, len(records))}
	for id, rec := range records {
		s.records[id] = rec
	}
	return s
}

// IsComplete reports whether lessonID is known as completed. Unknown lessons are not complete.
func (s Set) IsComplete(lessonID uint) bool {
	return s.records[lessonID].Completed
}

// Get returns the record for lessonID; ok is false when the lesson was never started.
func (s Set) Get(lessonID uint) (course.Progress, bool) {
	rec, ok := s.records[lessonID]
	return rec, ok
}

// Completed lists completed lesson ids in ascending order.
func (s Set) Completed() []uint {
	ids := make([]uint, 0, len(s.records))
	for id, rec := range s.records {
		if rec.Completed {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s Set) Len() int { return len(s.records) }

// With returns a copy of s with lessonID set to rec.
func (s Set) With(lessonID uint, rec course.Progress) Set {
	out := NewSet(s.records)
	out.records[lessonID] = rec
	return out
}
