// Package stats maintains per-function call statistics for a capture session.
package stats

import (
	"sync"

	"github.com/rs/zerolog"
)

// FunctionStats aggregates timing data for one function address.
// Fields only increase during a live session; a session reset replaces the
// whole store.
type FunctionStats struct {
	Count   uint64
	TotalNs uint64
	MinNs   uint64
	MaxNs   uint64
}

// AverageNs returns TotalNs/Count, recomputed on every read so repeated
// updates cannot accumulate drift. Zero when no calls were recorded.
func (s FunctionStats) AverageNs() uint64 {
	if s.Count == 0 {
		return 0
	}
	return s.TotalNs / s.Count
}

// Store is a keyed aggregation of FunctionStats, updated incrementally by the
// ingestion path and read concurrently by the presentation path.
type Store struct {
	mu      sync.RWMutex
	entries map[uint64]*FunctionStats
	logger  zerolog.Logger
}

// NewStore creates an empty statistics store.
func NewStore(logger zerolog.Logger) *Store {
	return &Store{
		entries: make(map[uint64]*FunctionStats),
		logger:  logger.With().Str("component", "stats_store").Logger(),
	}
}

// Record folds one call duration into the function's aggregate, creating the
// entry on first use. All fields of the entry update under one lock, so a
// reader sees each interval's contribution fully or not at all.
func (s *Store) Record(address uint64, durationNs uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[address]
	if !ok {
		entry = &FunctionStats{MinNs: durationNs, MaxNs: durationNs}
		s.entries[address] = entry
	}

	entry.Count++
	entry.TotalNs += durationNs
	if durationNs < entry.MinNs {
		entry.MinNs = durationNs
	}
	if durationNs > entry.MaxNs {
		entry.MaxNs = durationNs
	}
}

// GetStatsOrDefault returns a copy of the function's aggregate, or a
// zero-valued record when no interval has been recorded yet. "No data yet" is
// a legitimate state, not an error.
func (s *Store) GetStatsOrDefault(address uint64) FunctionStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if entry, ok := s.entries[address]; ok {
		return *entry
	}
	return FunctionStats{}
}

// Addresses returns a snapshot of every function address with recorded stats.
func (s *Store) Addresses() []uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	addrs := make([]uint64, 0, len(s.entries))
	for addr := range s.entries {
		addrs = append(addrs, addr)
	}
	return addrs
}

// Len returns the number of tracked functions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Reset clears all entries. The map is swapped wholesale under the lock, so
// concurrent readers observe either the old store or an empty one, never a
// partial clear.
func (s *Store) Reset() {
	s.mu.Lock()
	cleared := len(s.entries)
	s.entries = make(map[uint64]*FunctionStats)
	s.mu.Unlock()

	s.logger.Debug().Int("cleared", cleared).Msg("Statistics store reset")
}
