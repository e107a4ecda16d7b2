package liveview

import (
	"github.com/livescope/livescope/internal/capture"
	"github.com/livescope/livescope/internal/capture/timers"
)

// CaptureState exposes the recording state of the host's capture session.
type CaptureState interface {
	IsCapturing() bool
	HasSessionData() bool
}

// HookController owns instrumentation state for functions, independent of
// statistics.
type HookController interface {
	Select(fn capture.FunctionDescriptor)
	Deselect(fn capture.FunctionDescriptor)
	IsSelected(fn capture.FunctionDescriptor) bool
}

// FrameTrackController owns per-function frame-track state.
type FrameTrackController interface {
	EnableFrameTrack(fn capture.FunctionDescriptor)
	DisableFrameTrack(fn capture.FunctionDescriptor)
	IsFrameTrackEnabled(fn capture.FunctionDescriptor) bool
	HasFrameTrackInSessionData(fn capture.FunctionDescriptor) bool
}

// TimelineNavigator locates recorded intervals on the host's timeline and
// focuses the visualization on them.
type TimelineNavigator interface {
	FindNextIntervalAfter(address uint64, timestampNs uint64) *timers.Interval
	FindPreviousIntervalBefore(address uint64, timestampNs uint64) *timers.Interval
	FocusInterval(iv *timers.Interval)
}

// VisibleFunctionSink receives the set of currently visible function
// addresses after each filter recomputation, for display highlighting.
type VisibleFunctionSink interface {
	SetVisibleFunctions(addresses map[uint64]struct{})
}

// No-op collaborators stand in when the host wires nothing. Tests and the
// replay shell replace them selectively.

type nopCaptureState struct{}

func (nopCaptureState) IsCapturing() bool    { return false }
func (nopCaptureState) HasSessionData() bool { return false }

type nopHooks struct{}

func (nopHooks) Select(capture.FunctionDescriptor)          {}
func (nopHooks) Deselect(capture.FunctionDescriptor)        {}
func (nopHooks) IsSelected(capture.FunctionDescriptor) bool { return false }

type nopFrameTracks struct{}

func (nopFrameTracks) EnableFrameTrack(capture.FunctionDescriptor)                {}
func (nopFrameTracks) DisableFrameTrack(capture.FunctionDescriptor)               {}
func (nopFrameTracks) IsFrameTrackEnabled(capture.FunctionDescriptor) bool        { return false }
func (nopFrameTracks) HasFrameTrackInSessionData(capture.FunctionDescriptor) bool { return false }

type nopTimeline struct{}

func (nopTimeline) FindNextIntervalAfter(uint64, uint64) *timers.Interval      { return nil }
func (nopTimeline) FindPreviousIntervalBefore(uint64, uint64) *timers.Interval { return nil }
func (nopTimeline) FocusInterval(*timers.Interval)                             {}

type nopVisibleSink struct{}

func (nopVisibleSink) SetVisibleFunctions(map[uint64]struct{}) {}
