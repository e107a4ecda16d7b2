package timers

import (
	"testing"

	"github.com/livescope/livescope/internal/constants"
)

func TestChain_AppendKeepsArrivalOrder(t *testing.T) {
	c := NewChain(1)

	// Span several blocks.
	n := constants.TimerBlockCapacity*2 + 17
	for i := 0; i < n; i++ {
		c.Append(Interval{FunctionAddress: 0xa, Start: uint64(i), End: uint64(i) + 1, ThreadID: 1})
	}

	if c.Len() != n {
		t.Fatalf("Expected %d intervals, got %d", n, c.Len())
	}

	var prev uint64
	seen := 0
	c.ForEach(func(iv *Interval) bool {
		if seen > 0 && iv.Start <= prev {
			t.Fatalf("Arrival order violated at interval %d: start %d after %d", seen, iv.Start, prev)
		}
		prev = iv.Start
		seen++
		return true
	})
	if seen != n {
		t.Errorf("Expected to iterate %d intervals, got %d", n, seen)
	}
}

func TestChain_ForEachEarlyStop(t *testing.T) {
	c := NewChain(1)
	for i := 0; i < 10; i++ {
		c.Append(Interval{Start: uint64(i), End: uint64(i) + 1})
	}

	seen := 0
	c.ForEach(func(iv *Interval) bool {
		seen++
		return seen < 3
	})
	if seen != 3 {
		t.Errorf("Expected early stop after 3 intervals, got %d", seen)
	}
}

func TestIndex_AppendGroupsByThread(t *testing.T) {
	ix := NewIndex()

	ix.Append(Interval{FunctionAddress: 0xa, Start: 1, End: 2, ThreadID: 2})
	ix.Append(Interval{FunctionAddress: 0xa, Start: 3, End: 4, ThreadID: 1})
	ix.Append(Interval{FunctionAddress: 0xb, Start: 5, End: 6, ThreadID: 2})

	chains := ix.ThreadChains()
	if len(chains) != 2 {
		t.Fatalf("Expected 2 chains, got %d", len(chains))
	}
	// Deterministic thread order.
	if chains[0].ThreadID() != 1 || chains[1].ThreadID() != 2 {
		t.Errorf("Expected chains ordered by thread id, got %d, %d",
			chains[0].ThreadID(), chains[1].ThreadID())
	}
	if ix.TotalIntervals() != 3 {
		t.Errorf("Expected 3 total intervals, got %d", ix.TotalIntervals())
	}
}
