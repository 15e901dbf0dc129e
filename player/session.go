// Package player keeps one student's navigation and progress state for one course.
package player

import (
	"context"
	"strconv"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"trainr/logger"
	"trainr/models/course"
	"trainr/outline"
	"trainr/progress"
)

// Store is the read side of the Content Store plus what the Reconciler writes.
type Store interface {
	progress.Store
	GetCourse(ctx context.Context, courseID uint) (course.Course, error)
	GetProgress(ctx context.Context, courseID uint) (map[uint]course.Progress, error)
}

// Session is safe for concurrent use. Mark-complete requests for the same lesson are coalesced
// into one outstanding request; requests for different lessons run independently.
type Session struct {
	courseID uint
	store    Store
	rec      *progress.Reconciler
	inflight singleflight.Group

	mu     sync.RWMutex
	course course.Course
	seq    []outline.Entry
	pos    int
	set    progress.Set
	loaded bool
}

func NewSession(store Store, courseID uint) *Session {
	return &Session{
		courseID: courseID,
		store:    store,
		rec:      progress.NewReconciler(store),
	}
}

// Load fetches the course tree and the student's progress. Remote progress replaces whatever the
// session knew. The current lesson is kept if it still exists, otherwise the first lesson is selected.
func (s *Session) Load(ctx context.Context) error {
	var (
		tree   course.Course
		remote map[uint]course.Progress
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		tree, err = s.store.GetCourse(gctx, s.courseID)
		return err
	})
	g.Go(func() (err error) {
		remote, err = s.store.GetProgress(gctx, s.courseID)
		return err
	})
	if err := g.Wait(); err != nil {
		return errors.Wrapf(err, "loading course %d", s.courseID)
	}

	seq := outline.Flatten(tree)
	set := s.rec.MergeRemote(remote)

	s.mu.Lock()
	defer s.mu.Unlock()
	pos := 0
	if s.loaded && s.pos < len(s.seq) {
		if p, ok := outline.IndexOf(seq, s.seq[s.pos].Lesson.ID); ok {
			pos = p
		}
	}
	s.course, s.seq, s.set, s.pos, s.loaded = tree, seq, set, pos, true
	logger.Log.Debug("course session loaded", "course_id", s.courseID, "lessons", len(seq), "completed", len(set.Completed()))
	return nil
}

// Course returns the loaded snapshot.
func (s *Session) Course() course.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.course
}

// Current returns the selected lesson; ok is false for a course without lessons.
func (s *Session) Current() (outline.Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.pos < 0 || s.pos >= len(s.seq) {
		return outline.Entry{}, false
	}
	return s.seq[s.pos], true
}

// Position is the index of the current lesson in the flattened course.
func (s *Session) Position() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pos
}

// Goto selects the lesson at a flat position.
func (s *Session) Goto(pos int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pos < 0 || pos >= len(s.seq) {
		return false
	}
	s.pos = pos
	return true
}

// GotoModuleLesson selects a lesson by module and lesson index.
func (s *Session) GotoModuleLesson(moduleIndex, lessonIndex int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := outline.Locate(s.course, moduleIndex, lessonIndex)
	if !ok {
		return false
	}
	pos, ok := outline.IndexOf(s.seq, l.ID)
	if ok {
		s.pos = pos
	}
	return ok
}

func (s *Session) GotoLesson(lessonID uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	pos, ok := outline.IndexOf(s.seq, lessonID)
	if ok {
		s.pos = pos
	}
	return ok
}

// Next moves to the following lesson; false at the last one.
func (s *Session) Next() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	pos, ok := outline.Next(s.seq, s.pos)
	if ok {
		s.pos = pos
	}
	return ok
}

// Previous moves to the preceding lesson; false at the first one.
func (s *Session) Previous() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	pos, ok := outline.Previous(s.seq, s.pos)
	if ok {
		s.pos = pos
	}
	return ok
}

func (s *Session) IsComplete(lessonID uint) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.set.IsComplete(lessonID)
}

// Progress returns the completion snapshot.
func (s *Session) Progress() progress.Set {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.set
}

func (s *Session) Percentage() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return outline.ProgressPercentage(s.seq, s.set.IsComplete)
}

// Remaining is the duration in seconds of lessons not completed yet.
func (s *Session) Remaining() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return outline.RemainingDuration(s.seq, s.set.IsComplete)
}

func (s *Session) Outline() []outline.Section {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return outline.Outline(s.course, s.set.IsComplete)
}

// MarkComplete marks a lesson complete once the store acknowledges it. A failure leaves the session
// unchanged and wraps progress.ErrNetwork so the caller can offer a retry.
func (s *Session) MarkComplete(ctx context.Context, lessonID uint) error {
	_, err, shared := s.inflight.Do(key("complete", lessonID), func() (interface{}, error) {
		s.mu.RLock()
		set := s.set
		s.mu.RUnlock()

		out, err := s.rec.MarkComplete(ctx, set, lessonID)
		if err != nil {
			return nil, err
		}
		s.adopt(lessonID, out)
		return nil, nil
	})
	if shared {
		logger.Log.Debug("mark complete coalesced", "lesson_id", lessonID)
	}
	return err
}

// MarkCurrentComplete marks the selected lesson complete.
func (s *Session) MarkCurrentComplete(ctx context.Context) error {
	cur, ok := s.Current()
	if !ok {
		return errors.New("no lesson selected")
	}
	return s.MarkComplete(ctx, cur.Lesson.ID)
}

// RecordWatchTime persists how long the student watched a lesson.
func (s *Session) RecordWatchTime(ctx context.Context, lessonID uint, seconds int) error {
	_, err, _ := s.inflight.Do(key("watch", lessonID), func() (interface{}, error) {
		s.mu.RLock()
		set := s.set
		s.mu.RUnlock()

		out, err := s.rec.RecordWatchTime(ctx, set, lessonID, seconds)
		if err != nil {
			return nil, err
		}
		s.adopt(lessonID, out)
		return nil, nil
	})
	return err
}

// adopt copies the record of lessonID from out into the current set. Other lessons may have changed
// meanwhile, so the whole set is not replaced.
func (s *Session) adopt(lessonID uint, out progress.Set) {
	rec, ok := out.Get(lessonID)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, _ := s.set.Get(lessonID)
	s.set = s.set.With(lessonID, cur.Merge(rec))
}

func key(op string, lessonID uint) string {
	return op + ":" + strconv.FormatUint(uint64(lessonID), 10)
}
