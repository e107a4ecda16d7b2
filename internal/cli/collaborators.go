package cli

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/livescope/livescope/internal/capture"
	"github.com/livescope/livescope/internal/capture/timers"
)

// hookSet is the shell's in-process instrumentation controller: a plain set
// of hooked function addresses.
type hookSet struct {
	mu    sync.Mutex
	addrs map[uint64]struct{}
}

func newHookSet() *hookSet {
	return &hookSet{addrs: make(map[uint64]struct{})}
}

func (h *hookSet) Select(fn capture.FunctionDescriptor) {
	h.mu.Lock()
	h.addrs[fn.Address] = struct{}{}
	h.mu.Unlock()
}

func (h *hookSet) Deselect(fn capture.FunctionDescriptor) {
	h.mu.Lock()
	delete(h.addrs, fn.Address)
	h.mu.Unlock()
}

func (h *hookSet) IsSelected(fn capture.FunctionDescriptor) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.addrs[fn.Address]
	return ok
}

// frameTrackSet mirrors hookSet for frame tracks. In the shell, session data
// and live state coincide.
type frameTrackSet struct {
	mu    sync.Mutex
	addrs map[uint64]struct{}
}

func newFrameTrackSet() *frameTrackSet {
	return &frameTrackSet{addrs: make(map[uint64]struct{})}
}

func (f *frameTrackSet) EnableFrameTrack(fn capture.FunctionDescriptor) {
	f.mu.Lock()
	f.addrs[fn.Address] = struct{}{}
	f.mu.Unlock()
}

func (f *frameTrackSet) DisableFrameTrack(fn capture.FunctionDescriptor) {
	f.mu.Lock()
	delete(f.addrs, fn.Address)
	f.mu.Unlock()
}

func (f *frameTrackSet) IsFrameTrackEnabled(fn capture.FunctionDescriptor) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.addrs[fn.Address]
	return ok
}

func (f *frameTrackSet) HasFrameTrackInSessionData(fn capture.FunctionDescriptor) bool {
	return f.IsFrameTrackEnabled(fn)
}

// sessionTimeline navigates the session's own timer chains. A real host
// backs this with its timeline visualization index instead.
type sessionTimeline struct {
	session *capture.Session
	logger  zerolog.Logger
}

// FindNextIntervalAfter returns the matching interval with the smallest
// start strictly greater than timestampNs.
func (t *sessionTimeline) FindNextIntervalAfter(address uint64, timestampNs uint64) *timers.Interval {
	var best *timers.Interval
	for _, chain := range t.session.ThreadChains() {
		chain.ForEach(func(iv *timers.Interval) bool {
			if iv.FunctionAddress == address && iv.Start > timestampNs {
				if best == nil || iv.Start < best.Start {
					best = iv
				}
			}
			return true
		})
	}
	return best
}

// FindPreviousIntervalBefore returns the matching interval with the largest
// end strictly smaller than timestampNs.
func (t *sessionTimeline) FindPreviousIntervalBefore(address uint64, timestampNs uint64) *timers.Interval {
	var best *timers.Interval
	for _, chain := range t.session.ThreadChains() {
		chain.ForEach(func(iv *timers.Interval) bool {
			if iv.FunctionAddress == address && iv.End < timestampNs {
				if best == nil || iv.End > best.End {
					best = iv
				}
			}
			return true
		})
	}
	return best
}

func (t *sessionTimeline) FocusInterval(iv *timers.Interval) {
	t.logger.Info().
		Uint64("function", iv.FunctionAddress).
		Uint64("start", iv.Start).
		Uint64("end", iv.End).
		Int32("thread", iv.ThreadID).
		Msg("Timeline focus")
}

// highlightLog receives the visible-function set after each filter pass.
type highlightLog struct {
	logger zerolog.Logger
}

func (h *highlightLog) SetVisibleFunctions(addresses map[uint64]struct{}) {
	h.logger.Debug().Int("visible_functions", len(addresses)).Msg("Highlight set updated")
}
