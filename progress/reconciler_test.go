package progress

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainr/models/course"
)

type fakeStore struct {
	mu    sync.Mutex
	calls map[uint]int
	sent  map[uint]course.Progress
	fail  error
	reply func(lessonID uint, p course.Progress) course.Progress
}

func newFakeStore() *fakeStore {
	return &fakeStore{calls: map[uint]int{}, sent: map[uint]course.Progress{}}
}

func (f *fakeStore) PutProgress(_ context.Context, lessonID uint, p course.Progress) (course.Progress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[lessonID]++
	if f.fail != nil {
		return course.Progress{}, f.fail
	}
	f.sent[lessonID] = p
	if f.reply != nil {
		return f.reply(lessonID, p), nil
	}
	return p, nil
}

func TestMarkCompleteWaitsForAcknowledgement(t *testing.T) {
	store := newFakeStore()
	r := NewReconciler(store)
	set := r.MergeRemote(nil)

	out, err := r.MarkComplete(context.Background(), set, 5)
	require.NoError(t, err)
	assert.True(t, out.IsComplete(5))
	assert.False(t, set.IsComplete(5), "input snapshot is never mutated")
	assert.Equal(t, course.Progress{Completed: true}, store.sent[5])
}

func TestMarkCompleteNetworkFailureLeavesStateUnchanged(t *testing.T) {
	store := newFakeStore()
	store.fail = errors.New("connection refused")
	r := NewReconciler(store)
	set := r.MergeRemote(map[uint]course.Progress{1: {Completed: true}})

	out, err := r.MarkComplete(context.Background(), set, 42)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNetwork))
	assert.Contains(t, err.Error(), "connection refused")
	assert.False(t, out.IsComplete(42))
	assert.Equal(t, set.Completed(), out.Completed())

	// retry once the network is back
	store.fail = nil
	out, err = r.MarkComplete(context.Background(), out, 42)
	require.NoError(t, err)
	assert.True(t, out.IsComplete(42))
}

func TestMarkCompleteIsIdempotent(t *testing.T) {
	store := newFakeStore()
	r := NewReconciler(store)
	set := r.MergeRemote(nil)

	once, err := r.MarkComplete(context.Background(), set, 3)
	require.NoError(t, err)
	twice, err := r.MarkComplete(context.Background(), once, 3)
	require.NoError(t, err)

	assert.Equal(t, once.Completed(), twice.Completed())
	assert.Equal(t, 1, store.calls[3], "completed lessons are not sent again")
}

func TestMarkCompleteKeepsServerWatchTime(t *testing.T) {
	store := newFakeStore()
	store.reply = func(_ uint, p course.Progress) course.Progress {
		return course.Progress{Completed: true, WatchTime: 300}
	}
	r := NewReconciler(store)
	set := r.MergeRemote(map[uint]course.Progress{8: {WatchTime: 120}})

	out, err := r.MarkComplete(context.Background(), set, 8)
	require.NoError(t, err)
	assert.Equal(t, 120, store.sent[8].WatchTime)
	rec, ok := out.Get(8)
	require.True(t, ok)
	assert.Equal(t, course.Progress{Completed: true, WatchTime: 300}, rec)
}

func TestMergeRemoteOverridesLocalState(t *testing.T) {
	store := newFakeStore()
	r := NewReconciler(store)

	local, err := r.MarkComplete(context.Background(), r.MergeRemote(nil), 1)
	require.NoError(t, err)
	local, err = r.MarkComplete(context.Background(), local, 2)
	require.NoError(t, err)

	remote := map[uint]course.Progress{
		2: {Completed: false, WatchTime: 10},
		3: {Completed: true},
	}
	merged := r.MergeRemote(remote)

	for _, id := range []uint{1, 2, 3, 4} {
		assert.Equal(t, remote[id].Completed, merged.IsComplete(id), "lesson %d", id)
	}

	// later changes to the input map do not leak into the snapshot
	remote[4] = course.Progress{Completed: true}
	assert.False(t, merged.IsComplete(4))
}

func TestRecordWatchTime(t *testing.T) {
	store := newFakeStore()
	r := NewReconciler(store)
	set := r.MergeRemote(map[uint]course.Progress{1: {Completed: true, WatchTime: 50}})

	out, err := r.RecordWatchTime(context.Background(), set, 1, 80)
	require.NoError(t, err)
	assert.Equal(t, course.Progress{Completed: true, WatchTime: 80}, store.sent[1], "completion is never sent as false")
	assert.True(t, out.IsComplete(1))

	same, err := r.RecordWatchTime(context.Background(), out, 1, 20)
	require.NoError(t, err)
	rec, _ := same.Get(1)
	assert.Equal(t, 80, rec.WatchTime)
	assert.Equal(t, 1, store.calls[1], "nothing new to persist")

	started, err := r.RecordWatchTime(context.Background(), same, 2, 0)
	require.NoError(t, err)
	_, ok := started.Get(2)
	assert.True(t, ok, "first view creates a record")
	assert.False(t, started.IsComplete(2))

	store.fail = errors.New("timeout")
	failed, err := r.RecordWatchTime(context.Background(), started, 2, 30)
	assert.True(t, errors.Is(err, ErrNetwork))
	rec, _ = failed.Get(2)
	assert.Equal(t, 0, rec.WatchTime)
}

func TestConcurrentMarkCompleteDifferentLessons(t *testing.T) {
	store := newFakeStore()
	r := NewReconciler(store)
	base := r.MergeRemote(nil)

	var wg sync.WaitGroup
	results := make([]Set, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out, err := r.MarkComplete(context.Background(), base, uint(i+1))
			assert.NoError(t, err)
			results[i] = out
		}(i)
	}
	wg.Wait()

	for i, out := range results {
		assert.Equal(t, []uint{uint(i + 1)}, out.Completed())
	}
	assert.Equal(t, 0, base.Len())
}
