// Package liveview maintains the sortable, filterable table of function
// statistics shown while a capture session is running.
package liveview

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/livescope/livescope/internal/capture"
	"github.com/livescope/livescope/internal/capture/stats"
	"github.com/livescope/livescope/internal/constants"
)

// Deps wires the view to its host collaborators. Nil fields fall back to
// no-op implementations.
type Deps struct {
	State       CaptureState
	Hooks       HookController
	FrameTracks FrameTrackController
	Timeline    TimelineNavigator
	VisibleSink VisibleFunctionSink

	// RefreshInterval overrides the 300 ms default of the periodic re-sort.
	RefreshInterval time.Duration
}

// View projects the session's tracked functions into a filtered, sorted list
// of rows. The tracked arena only grows between session-data changes; the
// visible set is a permutation of arena indices, rebuilt wholesale on every
// filter or sort request.
//
// All exported methods serialize on one mutex: the presentation path never
// runs two view operations concurrently, including the refresh tick.
type View struct {
	mu      sync.Mutex
	session *capture.Session
	logger  zerolog.Logger

	state       CaptureState
	hooks       HookController
	frameTracks FrameTrackController
	timeline    TimelineNavigator
	visibleSink VisibleFunctionSink

	functions []capture.FunctionDescriptor
	visible   []int
	filter    string

	sortColumn      Column
	ascending       [numColumns]bool
	refreshInterval time.Duration
}

// NewView creates a view over the session. The initial sort column is the
// function name, ascending; every column starts at its default direction.
func NewView(session *capture.Session, deps Deps, logger zerolog.Logger) *View {
	v := &View{
		session:         session,
		logger:          logger.With().Str("component", "live_view").Logger(),
		state:           deps.State,
		hooks:           deps.Hooks,
		frameTracks:     deps.FrameTracks,
		timeline:        deps.Timeline,
		visibleSink:     deps.VisibleSink,
		sortColumn:      ColumnName,
		refreshInterval: deps.RefreshInterval,
	}
	if v.state == nil {
		v.state = nopCaptureState{}
	}
	if v.hooks == nil {
		v.hooks = nopHooks{}
	}
	if v.frameTracks == nil {
		v.frameTracks = nopFrameTracks{}
	}
	if v.timeline == nil {
		v.timeline = nopTimeline{}
	}
	if v.visibleSink == nil {
		v.visibleSink = nopVisibleSink{}
	}
	if v.refreshInterval <= 0 {
		v.refreshInterval = constants.DefaultRefreshInterval
	}
	for c := Column(0); c < numColumns; c++ {
		v.ascending[c] = columnSpecs[c].ascending
	}
	return v
}

// OnSessionDataChanged rebuilds the tracked arena from the statistics store's
// current key set, excluding instrumentation-internal functions, and resets
// the visible set to identity order. Filter and sort are not reapplied until
// explicitly requested.
func (v *View) OnSessionDataChanged() {
	v.mu.Lock()
	defer v.mu.Unlock()

	addresses := v.session.TrackedAddresses()
	sort.Slice(addresses, func(i, j int) bool { return addresses[i] < addresses[j] })

	v.functions = v.functions[:0]
	for _, addr := range addresses {
		desc, ok := v.session.Descriptor(addr)
		if !ok {
			// OnTiming guarantees a descriptor per stats entry.
			desc = capture.FunctionDescriptor{Address: addr, Name: formatAddress(addr)}
		}
		if isInstrumentationFunction(desc) {
			continue
		}
		v.functions = append(v.functions, desc)
	}

	v.visible = v.visible[:0]
	for i := range v.functions {
		v.visible = append(v.visible, i)
	}

	v.logger.Debug().
		Int("tracked", len(v.functions)).
		Msg("Session data changed, tracked functions rebuilt")
}

// isInstrumentationFunction reports whether a function belongs to the
// instrumentation runtime itself rather than the target program.
func isInstrumentationFunction(d capture.FunctionDescriptor) bool {
	return strings.HasPrefix(d.Name, constants.InstrumentationPrefix)
}

// SetFilter keeps only tracked functions whose display name contains every
// whitespace-separated token of text, case-insensitively. The visible set is
// recomputed from scratch in arena order; a following Sort (or the refresh
// tick while capturing) re-establishes the sort epoch. The resulting visible
// address set is pushed to the host for display highlighting.
func (v *View) SetFilter(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.filter = text
	v.doFilter()
	v.pushVisibleFunctions()
}

// Filter returns the current filter text.
func (v *View) Filter() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filter
}

func (v *View) doFilter() {
	tokens := strings.Fields(strings.ToLower(v.filter))

	v.visible = v.visible[:0]
	for i, fn := range v.functions {
		name := strings.ToLower(fn.Name)
		match := true
		for _, token := range tokens {
			if !strings.Contains(name, token) {
				match = false
				break
			}
		}
		if match {
			v.visible = append(v.visible, i)
		}
	}
}

func (v *View) pushVisibleFunctions() {
	addresses := make(map[uint64]struct{}, len(v.visible))
	for _, i := range v.visible {
		addresses[v.session.GetAbsoluteAddress(v.functions[i])] = struct{}{}
	}
	v.visibleSink.SetVisibleFunctions(addresses)
}

// Sort orders the visible set by the given column. Re-sorting the active
// column with toggleDirection flips its remembered direction; switching
// columns keeps each column's own stored direction (initially the column
// default).
func (v *View) Sort(column Column, toggleDirection bool) {
	if column < 0 || column >= numColumns {
		panic(fmt.Sprintf("liveview: sort column %d out of range", column))
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if column == v.sortColumn && toggleDirection {
		v.ascending[column] = !v.ascending[column]
	}
	v.sortColumn = column
	v.doSort()
}

// SortColumn returns the active sort column.
func (v *View) SortColumn() Column {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.sortColumn
}

// Ascending returns the remembered direction for a column.
func (v *View) Ascending(column Column) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.ascending[column]
}

func (v *View) doSort() {
	compare := comparators[v.sortColumn]
	ascending := v.ascending[v.sortColumn]

	sort.SliceStable(v.visible, func(i, j int) bool {
		c := compare(v, v.visible[i], v.visible[j])
		if !ascending {
			c = -c
		}
		return c < 0
	})
}

// rowStats resolves the stats record backing one arena index. Functions with
// no recorded intervals yield the zero-valued record.
func (v *View) rowStats(arenaIndex int) stats.FunctionStats {
	return v.session.GetStatsOrDefault(v.functions[arenaIndex].Address)
}

// NumRows returns the current visible row count.
func (v *View) NumRows() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.visible)
}

// RowFor returns the descriptor behind a visible row. Out-of-range indices
// are a contract violation and panic; callers check NumRows first.
func (v *View) RowFor(visibleIndex int) capture.FunctionDescriptor {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.rowDescriptor(visibleIndex)
}

func (v *View) rowDescriptor(visibleIndex int) capture.FunctionDescriptor {
	if visibleIndex < 0 || visibleIndex >= len(v.visible) {
		panic(fmt.Sprintf("liveview: row %d out of range, %d rows visible", visibleIndex, len(v.visible)))
	}
	return v.functions[v.visible[visibleIndex]]
}

// GetDisplayValue renders one cell of the view. Unlike RowFor it is called
// from renderers that race benignly with refresh, so out-of-range rows yield
// an empty string instead of panicking.
func (v *View) GetDisplayValue(visibleIndex int, column Column) string {
	v.mu.Lock()
	defer v.mu.Unlock()

	if visibleIndex < 0 || visibleIndex >= len(v.visible) {
		return ""
	}
	fn := v.functions[v.visible[visibleIndex]]
	st := v.session.GetStatsOrDefault(fn.Address)

	switch column {
	case ColumnHooked:
		return v.hookedColumnValue(fn)
	case ColumnName:
		return fn.Name
	case ColumnCount:
		return formatCount(st.Count)
	case ColumnTimeTotal:
		return prettyDuration(st.TotalNs)
	case ColumnTimeAvg:
		return prettyDuration(st.AverageNs())
	case ColumnTimeMin:
		return prettyDuration(st.MinNs)
	case ColumnTimeMax:
		return prettyDuration(st.MaxNs)
	case ColumnModule:
		return fn.ModulePath
	case ColumnAddress:
		return formatAddress(v.session.GetAbsoluteAddress(fn))
	default:
		return ""
	}
}

func (v *View) hookedColumnValue(fn capture.FunctionDescriptor) string {
	var marks []string
	if v.hooks.IsSelected(fn) {
		marks = append(marks, "H")
	}
	if v.frameTracks.IsFrameTrackEnabled(fn) {
		marks = append(marks, "F")
	}
	return strings.Join(marks, " ")
}

// RefreshOnTick reapplies the current sort while the session is recording.
// The filter is not reapplied: filtering is a user-explicit action, and new
// functions appearing mid-capture should not reshuffle the visible name set
// outside a sort epoch.
func (v *View) RefreshOnTick() {
	if !v.state.IsCapturing() {
		return
	}
	v.mu.Lock()
	v.doSort()
	v.mu.Unlock()
}

// Run drives the periodic refresh until ctx is cancelled. The tick is
// non-blocking with respect to ingestion; it only re-sorts the visible set.
func (v *View) Run(ctx context.Context) {
	ticker := time.NewTicker(v.refreshInterval)
	defer ticker.Stop()

	v.logger.Debug().
		Dur("interval", v.refreshInterval).
		Msg("Live view refresh started")

	for {
		select {
		case <-ctx.Done():
			v.logger.Debug().Msg("Live view refresh stopped")
			return
		case <-ticker.C:
			v.RefreshOnTick()
		}
	}
}

// Hook selects the row's function for instrumentation.
func (v *View) Hook(visibleIndex int) {
	v.mu.Lock()
	fn := v.rowDescriptor(visibleIndex)
	v.mu.Unlock()

	v.hooks.Select(fn)
}

// Unhook deselects the row's function. Unhooking also disables the
// function's frame track; keeping it would leave the track enabled for this
// capture but gone for the next one.
func (v *View) Unhook(visibleIndex int) {
	v.mu.Lock()
	fn := v.rowDescriptor(visibleIndex)
	v.mu.Unlock()

	v.hooks.Deselect(fn)
	v.frameTracks.DisableFrameTrack(fn)
}

// EnableFrameTrack enables the frame track for the row's function. While a
// capture is connected the function is hooked as well, so the track has data.
func (v *View) EnableFrameTrack(visibleIndex int) {
	v.mu.Lock()
	fn := v.rowDescriptor(visibleIndex)
	v.mu.Unlock()

	if v.state.IsCapturing() {
		v.hooks.Select(fn)
	}
	v.frameTracks.EnableFrameTrack(fn)
}

// DisableFrameTrack disables the frame track for the row's function.
func (v *View) DisableFrameTrack(visibleIndex int) {
	v.mu.Lock()
	fn := v.rowDescriptor(visibleIndex)
	v.mu.Unlock()

	v.frameTracks.DisableFrameTrack(fn)
}

// JumpToFirst focuses the timeline on the earliest recorded interval of the
// row's function. Returns false when nothing was recorded.
func (v *View) JumpToFirst(visibleIndex int) bool {
	addr := v.rowAddress(visibleIndex)
	iv := v.timeline.FindNextIntervalAfter(addr, 0)
	if iv == nil {
		return false
	}
	v.timeline.FocusInterval(iv)
	return true
}

// JumpToLast focuses the timeline on the latest recorded interval of the
// row's function.
func (v *View) JumpToLast(visibleIndex int) bool {
	addr := v.rowAddress(visibleIndex)
	iv := v.timeline.FindPreviousIntervalBefore(addr, math.MaxUint64)
	if iv == nil {
		return false
	}
	v.timeline.FocusInterval(iv)
	return true
}

// JumpToMin focuses the timeline on the fastest recorded interval of the
// row's function.
func (v *View) JumpToMin(visibleIndex int) bool {
	addr := v.rowAddress(visibleIndex)
	minIv, _ := v.session.FindMinMaxInterval(addr)
	if minIv == nil {
		return false
	}
	v.timeline.FocusInterval(minIv)
	return true
}

// JumpToMax focuses the timeline on the slowest recorded interval of the
// row's function.
func (v *View) JumpToMax(visibleIndex int) bool {
	addr := v.rowAddress(visibleIndex)
	_, maxIv := v.session.FindMinMaxInterval(addr)
	if maxIv == nil {
		return false
	}
	v.timeline.FocusInterval(maxIv)
	return true
}

func (v *View) rowAddress(visibleIndex int) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.session.GetAbsoluteAddress(v.rowDescriptor(visibleIndex))
}
