package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimerQueueOrdering(t *testing.T) {
	clock := NewSimClock()
	q := NewTimerQueue(clock)

	var order []string
	q.Schedule(2, nil, func() { order = append(order, "late") })
	q.Schedule(1, nil, func() { order = append(order, "first") })
	q.Schedule(1, nil, func() { order = append(order, "second") })

	assert.Equal(t, 0, q.Update(), "nothing is due at t=0")

	clock.Advance(1)
	assert.Equal(t, 2, q.Update())
	assert.Equal(t, []string{"first", "second"}, order)

	clock.Advance(1)
	assert.Equal(t, 1, q.Update())
	assert.Equal(t, []string{"first", "second", "late"}, order)
	assert.Equal(t, 0, q.Pending())
}

func TestTimerQueueCancellation(t *testing.T) {
	cases := []struct {
		name   string
		cancel func(q *TimerQueue, h TimerHandle, tok *CancelToken)
	}{
		{"by_handle", func(q *TimerQueue, h TimerHandle, _ *CancelToken) {
			require.True(t, q.Cancel(h))
		}},
		{"by_token", func(_ *TimerQueue, _ TimerHandle, tok *CancelToken) {
			tok.Cancel()
		}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			clock := NewSimClock()
			q := NewTimerQueue(clock)
			tok := NewCancelToken()
			fired := false
			h := q.Schedule(0.5, tok, func() { fired = true })
			c.cancel(q, h, tok)

			clock.Advance(1)
			q.Update()
			assert.False(t, fired)
			assert.False(t, q.Cancel(h), "cancelled timer cannot be cancelled again")
		})
	}
}

func TestTimerQueueRescheduleFromCallback(t *testing.T) {
	clock := NewSimClock()
	q := NewTimerQueue(clock)

	count := 0
	var tick func()
	tick = func() {
		count++
		q.Schedule(0, nil, tick)
	}
	q.Schedule(0, nil, tick)

	assert.Equal(t, 1, q.Update())
	assert.Equal(t, 1, count, "zero-delay reschedule waits for the next update")
	assert.Equal(t, 1, q.Update())
	assert.Equal(t, 2, count)
}

func TestTimerQueueNilSafety(t *testing.T) {
	var q *TimerQueue
	assert.Equal(t, TimerHandle(0), q.Schedule(1, nil, func() {}))
	assert.Equal(t, 0, q.Update())
	assert.False(t, q.Cancel(1))

	live := NewTimerQueue(NewSimClock())
	assert.Equal(t, TimerHandle(0), live.Schedule(1, nil, nil))
}
