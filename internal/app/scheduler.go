package app

import (
	"sort"
	"sync"
	"time"
)

// Scheduler runs single-shot continuations.
type Scheduler interface {
	After(d time.Duration, fn func())
}

type timerTask struct {
	due time.Time
	seq uint64
	fn  func()
}

// TimerQueue is a manually advanced Scheduler. Tasks run in due order, ties in
// scheduling order, on the goroutine that advances the queue.
type TimerQueue struct {
	mu    sync.Mutex
	now   time.Time
	seq   uint64
	tasks []timerTask
}

var _ Scheduler = (*TimerQueue)(nil)

// NewTimerQueue returns a queue whose clock starts at start.
func NewTimerQueue(start time.Time) *TimerQueue {
	return &TimerQueue{now: start}
}

// After schedules fn to run once d has elapsed on the queue clock.
func (q *TimerQueue) After(d time.Duration, fn func()) {
	if d < 0 {
		d = 0
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.seq++
	task := timerTask{due: q.now.Add(d), seq: q.seq, fn: fn}
	i := sort.Search(len(q.tasks), func(i int) bool {
		return q.tasks[i].due.After(task.due)
	})
	q.tasks = append(q.tasks, timerTask{})
	copy(q.tasks[i+1:], q.tasks[i:])
	q.tasks[i] = task
}

// WallClock is a Scheduler on real time. Its tasks run one at a time on timer
// goroutines; callers touching the same Session from elsewhere go through Do.
type WallClock struct {
	mu sync.Mutex
}

var _ Scheduler = (*WallClock)(nil)

func NewWallClock() *WallClock {
	return &WallClock{}
}

// After runs fn under the clock lock once d has elapsed.
func (c *WallClock) After(d time.Duration, fn func()) {
	time.AfterFunc(d, func() { c.Do(fn) })
}

// Do runs fn under the lock that serializes scheduled tasks. fn must not call Do.
func (c *WallClock) Do(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn()
}

// Now returns the queue clock.
func (q *TimerQueue) Now() time.Time {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.now
}

// Pending returns the number of scheduled tasks.
func (q *TimerQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Advance moves the clock forward by d, running every task that falls due.
// It returns how many tasks ran.
func (q *TimerQueue) Advance(d time.Duration) int {
	return q.AdvanceTo(q.Now().Add(d))
}

// AdvanceTo moves the clock to t, running every task due at or before t,
// including tasks scheduled by the tasks it runs.
func (q *TimerQueue) AdvanceTo(t time.Time) int {
	ran := 0
	for {
		task, ok := q.popDue(t)
		if !ok {
			break
		}
		task.fn()
		ran++
	}
	q.mu.Lock()
	if t.After(q.now) {
		q.now = t
	}
	q.mu.Unlock()
	return ran
}

// RunUntilIdle runs tasks until none remain, jumping the clock to each due time.
func (q *TimerQueue) RunUntilIdle() int {
	ran := 0
	for {
		q.mu.Lock()
		if len(q.tasks) == 0 {
			q.mu.Unlock()
			return ran
		}
		due := q.tasks[0].due
		q.mu.Unlock()
		ran += q.AdvanceTo(due)
	}
}

func (q *TimerQueue) popDue(t time.Time) (timerTask, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.tasks) == 0 || q.tasks[0].due.After(t) {
		return timerTask{}, false
	}
	task := q.tasks[0]
	q.tasks = q.tasks[1:]
	if task.due.After(q.now) {
		q.now = task.due
	}
	return task, true
}
