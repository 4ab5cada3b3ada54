package component

import (
	"container/heap"

	"github.com/milk9111/reverie/common"
)

// CancelToken is shared by every delayed callback that belongs to one owner.
// Cancelling it drops all of them, pending or not yet scheduled.
type CancelToken struct {
	cancelled bool
}

func NewCancelToken() *CancelToken {
	return &CancelToken{}
}

func (t *CancelToken) Cancel() {
	if t == nil {
		return
	}
	t.cancelled = true
}

func (t *CancelToken) Cancelled() bool {
	return t != nil && t.cancelled
}

// TimerHandle identifies one scheduled callback. The zero handle is never
// issued.
type TimerHandle uint64

type timerEntry struct {
	deadline float64
	seq      uint64
	handle   TimerHandle
	token    *CancelToken
	fn       func()
	index    int
}

type timerHeap []*timerEntry

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].deadline != h[j].deadline {
		return h[i].deadline < h[j].deadline
	}
	return h[i].seq < h[j].seq
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	e := x.(*timerEntry)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

// TimerQueue runs one-shot callbacks once the clock passes their deadline.
// Callbacks with equal deadlines fire in the order they were scheduled.
type TimerQueue struct {
	clock    Clock
	entries  timerHeap
	byHandle map[TimerHandle]*timerEntry
	nextSeq  uint64
}

func NewTimerQueue(clock Clock) *TimerQueue {
	return &TimerQueue{
		clock:    clock,
		byHandle: make(map[TimerHandle]*timerEntry),
	}
}

// Schedule registers fn to run delay seconds from now. A nil or already
// cancelled token never prevents scheduling; the token is checked when the
// timer comes due.
func (q *TimerQueue) Schedule(delay float64, token *CancelToken, fn func()) TimerHandle {
	if q == nil || fn == nil {
		return 0
	}
	if delay < 0 || !common.IsFinite(delay) {
		delay = 0
	}
	q.nextSeq++
	e := &timerEntry{
		deadline: q.now() + delay,
		seq:      q.nextSeq,
		handle:   TimerHandle(q.nextSeq),
		token:    token,
		fn:       fn,
	}
	heap.Push(&q.entries, e)
	q.byHandle[e.handle] = e
	return e.handle
}

// Cancel removes a pending timer. It reports false when the timer already
// fired or was cancelled.
func (q *TimerQueue) Cancel(h TimerHandle) bool {
	if q == nil {
		return false
	}
	e, ok := q.byHandle[h]
	if !ok {
		return false
	}
	delete(q.byHandle, h)
	if e.index >= 0 {
		heap.Remove(&q.entries, e.index)
	}
	return true
}

// Pending returns the number of timers waiting to fire.
func (q *TimerQueue) Pending() int {
	if q == nil {
		return 0
	}
	return len(q.entries)
}

// Update fires every due timer and returns how many callbacks ran. Timers
// scheduled by a callback during Update wait for the next call, even when
// their delay is zero.
func (q *TimerQueue) Update() int {
	if q == nil {
		return 0
	}
	now := q.now()
	limit := q.nextSeq
	fired := 0
	for len(q.entries) > 0 {
		top := q.entries[0]
		if top.deadline > now || top.seq > limit {
			break
		}
		heap.Pop(&q.entries)
		delete(q.byHandle, top.handle)
		if top.token.Cancelled() {
			continue
		}
		top.fn()
		fired++
	}
	return fired
}

// Clear drops every pending timer.
func (q *TimerQueue) Clear() {
	if q == nil {
		return
	}
	q.entries = nil
	q.byHandle = make(map[TimerHandle]*timerEntry)
}

func (q *TimerQueue) now() float64 {
	if q.clock == nil {
		return 0
	}
	return q.clock.Now()
}
