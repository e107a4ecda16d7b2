package timers

import (
	"sort"
	"sync"
)

// Index groups timer chains by thread. The ingestion path appends while the
// presentation path scans; both sides only ever hold short per-chain locks.
type Index struct {
	mu     sync.RWMutex
	chains map[int32]*Chain
}

// NewIndex creates an empty timer index.
func NewIndex() *Index {
	return &Index{chains: make(map[int32]*Chain)}
}

// Append records the interval on its thread's chain, creating the chain on
// first use.
func (ix *Index) Append(iv Interval) {
	ix.mu.Lock()
	chain, ok := ix.chains[iv.ThreadID]
	if !ok {
		chain = NewChain(iv.ThreadID)
		ix.chains[iv.ThreadID] = chain
	}
	ix.mu.Unlock()

	chain.Append(iv)
}

// ThreadChains returns every per-thread chain, ordered by thread id so scans
// are deterministic.
func (ix *Index) ThreadChains() []*Chain {
	ix.mu.RLock()
	chains := make([]*Chain, 0, len(ix.chains))
	for _, c := range ix.chains {
		chains = append(chains, c)
	}
	ix.mu.RUnlock()

	sort.Slice(chains, func(i, j int) bool {
		return chains[i].ThreadID() < chains[j].ThreadID()
	})
	return chains
}

// TotalIntervals returns the number of intervals recorded across all threads.
func (ix *Index) TotalIntervals() int {
	total := 0
	for _, c := range ix.ThreadChains() {
		total += c.Len()
	}
	return total
}

// FindMinMaxInterval scans every thread chain for intervals of the given
// function address and returns the ones with the smallest and largest
// duration. Strict comparisons keep the earliest-seen interval on ties.
// Both results are nil when no interval matches.
//
// This is deliberately a full scan with no per-address index; it only runs on
// explicit user action, never per frame.
func (ix *Index) FindMinMaxInterval(address uint64) (minIv, maxIv *Interval) {
	for _, chain := range ix.ThreadChains() {
		chain.ForEach(func(iv *Interval) bool {
			if iv.FunctionAddress != address {
				return true
			}
			elapsed := iv.DurationNs()
			if minIv == nil || elapsed < minIv.DurationNs() {
				minIv = iv
			}
			if maxIv == nil || elapsed > maxIv.DurationNs() {
				maxIv = iv
			}
			return true
		})
	}
	return minIv, maxIv
}
