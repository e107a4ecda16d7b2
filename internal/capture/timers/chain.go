// Package timers stores recorded timing intervals in append-only per-thread
// chains of fixed-capacity blocks.
package timers

import (
	"sync"

	"github.com/livescope/livescope/internal/constants"
)

// Interval is one recorded function call on a thread.
// Immutable once recorded.
type Interval struct {
	FunctionAddress uint64
	Start           uint64
	End             uint64
	ThreadID        int32
}

// DurationNs returns the elapsed nanoseconds of the interval.
func (iv Interval) DurationNs() uint64 {
	return iv.End - iv.Start
}

// block holds up to constants.TimerBlockCapacity intervals. The backing array
// is allocated once at full capacity, so pointers to stored intervals stay
// valid across subsequent appends.
type block struct {
	intervals []Interval
}

func newBlock() *block {
	return &block{intervals: make([]Interval, 0, constants.TimerBlockCapacity)}
}

func (b *block) full() bool {
	return len(b.intervals) == cap(b.intervals)
}

// Chain is the ordered sequence of intervals recorded on one thread.
// Intervals keep arrival order; the chain is never reordered or compacted
// during a live session.
type Chain struct {
	mu       sync.RWMutex
	threadID int32
	blocks   []*block
	count    int
}

// NewChain creates an empty chain for the given thread.
func NewChain(threadID int32) *Chain {
	return &Chain{threadID: threadID}
}

// ThreadID returns the owning thread of the chain.
func (c *Chain) ThreadID() int32 {
	return c.threadID
}

// Len returns the number of recorded intervals.
func (c *Chain) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.count
}

// Append records one interval at the end of the chain. Amortized O(1).
func (c *Chain) Append(iv Interval) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.blocks) == 0 || c.blocks[len(c.blocks)-1].full() {
		c.blocks = append(c.blocks, newBlock())
	}
	last := c.blocks[len(c.blocks)-1]
	last.intervals = append(last.intervals, iv)
	c.count++
}

// ForEach calls fn for every interval in arrival order until fn returns false.
// The pointer passed to fn stays valid for the lifetime of the session.
func (c *Chain) ForEach(fn func(iv *Interval) bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, b := range c.blocks {
		for i := range b.intervals {
			if !fn(&b.intervals[i]) {
				return
			}
		}
	}
}
