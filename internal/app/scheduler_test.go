package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimerQueueRunsInDueOrder(t *testing.T) {
	q := NewTimerQueue(testEpoch)
	var got []string
	q.After(30*time.Millisecond, func() { got = append(got, "c") })
	q.After(10*time.Millisecond, func() { got = append(got, "a") })
	q.After(10*time.Millisecond, func() { got = append(got, "b") })
	q.After(50*time.Millisecond, func() { got = append(got, "d") })

	assert.Equal(t, 4, q.Pending())
	assert.Equal(t, 3, q.Advance(30*time.Millisecond))
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, testEpoch.Add(30*time.Millisecond), q.Now())
	assert.Equal(t, 1, q.Pending())
}

func TestTimerQueueRunsTasksScheduledWhileAdvancing(t *testing.T) {
	q := NewTimerQueue(testEpoch)
	var got []time.Time
	q.After(10*time.Millisecond, func() {
		got = append(got, q.Now())
		q.After(10*time.Millisecond, func() { got = append(got, q.Now()) })
		q.After(100*time.Millisecond, func() { got = append(got, q.Now()) })
	})

	assert.Equal(t, 2, q.Advance(50*time.Millisecond))
	assert.Equal(t, []time.Time{testEpoch.Add(10 * time.Millisecond), testEpoch.Add(20 * time.Millisecond)}, got)

	assert.Equal(t, 1, q.RunUntilIdle())
	assert.Equal(t, testEpoch.Add(110*time.Millisecond), q.Now())
	assert.Zero(t, q.Pending())
}

func TestTimerQueueNegativeDelayRunsOnNextAdvance(t *testing.T) {
	q := NewTimerQueue(testEpoch)
	ran := false
	q.After(-time.Second, func() { ran = true })
	assert.False(t, ran)
	q.Advance(0)
	assert.True(t, ran)
}

func TestWallClockRunsTasksInOrder(t *testing.T) {
	c := NewWallClock()
	done := make(chan string, 2)
	c.After(20*time.Millisecond, func() { done <- "late" })
	c.After(time.Millisecond, func() { done <- "early" })

	assert.Equal(t, "early", <-done)
	assert.Equal(t, "late", <-done)
}
