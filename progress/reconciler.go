// Package progress reconciles locally known lesson completions with the Content Store.
package progress

import (
	"context"

	"github.com/pkg/errors"

	"trainr/logger"
	"trainr/models/course"
)

// ErrNetwork marks a progress update the Content Store did not acknowledge. It is always retryable.
var ErrNetwork = errors.New("progress update not acknowledged")

// Store is the only mutating Content Store call the Reconciler needs.
type Store interface {
	PutProgress(ctx context.Context, lessonID uint, p course.Progress) (course.Progress, error)
}

// Reconciler holds no progress state of its own: it takes a Set and returns a new one.
type Reconciler struct {
	store Store
}

func NewReconciler(store Store) *Reconciler {
	return &Reconciler{store: store}
}

// MergeRemote makes the freshly fetched remote records the baseline. Prior local state is dropped.
func (r *Reconciler) MergeRemote(remote map[uint]course.Progress) Set {
	return NewSet(remote)
}

// MarkComplete persists completion of lessonID. The returned Set contains the completion only once the
// store acknowledged it; on failure set is returned as is with an error wrapping ErrNetwork.
// Marking an already completed lesson is a no-op that succeeds without a request.
func (r *Reconciler) MarkComplete(ctx context.Context, set Set, lessonID uint) (Set, error) {
	if set.IsComplete(lessonID) {
		return set, nil
	}
	cur, _ := set.Get(lessonID)
	ack, err := r.store.PutProgress(ctx, lessonID, course.Progress{Completed: true, WatchTime: cur.WatchTime})
	if err != nil {
		logger.Log.Warn("mark complete failed", "lesson_id", lessonID, "error", err)
		return set, errors.Wrapf(networkError{err}, "marking lesson %d complete", lessonID)
	}
	// the server may know a longer watch time than we do
	return set.With(lessonID, cur.Merge(ack).Merge(course.Progress{Completed: true})), nil
}

// RecordWatchTime persists watch time for lessonID. A lesson known as completed stays completed and
// watch time never decreases in the returned Set.
func (r *Reconciler) RecordWatchTime(ctx context.Context, set Set, lessonID uint, seconds int) (Set, error) {
	if seconds < 0 {
		seconds = 0
	}
	cur, _ := set.Get(lessonID)
	want := cur.Merge(course.Progress{WatchTime: seconds})
	if want == cur {
		if _, started := set.Get(lessonID); started {
			return set, nil
		}
	}
	ack, err := r.store.PutProgress(ctx, lessonID, want)
	if err != nil {
		logger.Log.Warn("record watch time failed", "lesson_id", lessonID, "error", err)
		return set, errors.Wrapf(networkError{err}, "recording watch time of lesson %d", lessonID)
	}
	return set.With(lessonID, want.Merge(ack)), nil
}

// networkError keeps the transport cause reachable while matching ErrNetwork.
type networkError struct {
	cause error
}

func (e networkError) Error() string        { return ErrNetwork.Error() + ": " + e.cause.Error() }
func (e networkError) Unwrap() error        { return e.cause }
func (e networkError) Is(target error) bool { return target == ErrNetwork }
