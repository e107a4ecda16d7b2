package liveview

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/livescope/livescope/internal/capture"
	"github.com/livescope/livescope/internal/capture/timers"
	"github.com/livescope/livescope/internal/constants"
)

type fakeHooks struct {
	selected map[uint64]bool
}

func (f *fakeHooks) Select(fn capture.FunctionDescriptor)   { f.selected[fn.Address] = true }
func (f *fakeHooks) Deselect(fn capture.FunctionDescriptor) { delete(f.selected, fn.Address) }
func (f *fakeHooks) IsSelected(fn capture.FunctionDescriptor) bool {
	return f.selected[fn.Address]
}

type fakeFrameTracks struct {
	enabled map[uint64]bool
	inData  map[uint64]bool
}

func (f *fakeFrameTracks) EnableFrameTrack(fn capture.FunctionDescriptor) {
	f.enabled[fn.Address] = true
}
func (f *fakeFrameTracks) DisableFrameTrack(fn capture.FunctionDescriptor) {
	delete(f.enabled, fn.Address)
}
func (f *fakeFrameTracks) IsFrameTrackEnabled(fn capture.FunctionDescriptor) bool {
	return f.enabled[fn.Address]
}
func (f *fakeFrameTracks) HasFrameTrackInSessionData(fn capture.FunctionDescriptor) bool {
	return f.inData[fn.Address]
}

type fakeTimeline struct {
	next, prev *timers.Interval
	nextAfter  []uint64
	prevBefore []uint64
	focused    []*timers.Interval
}

func (f *fakeTimeline) FindNextIntervalAfter(address uint64, ts uint64) *timers.Interval {
	f.nextAfter = append(f.nextAfter, ts)
	return f.next
}

func (f *fakeTimeline) FindPreviousIntervalBefore(address uint64, ts uint64) *timers.Interval {
	f.prevBefore = append(f.prevBefore, ts)
	return f.prev
}

func (f *fakeTimeline) FocusInterval(iv *timers.Interval) {
	f.focused = append(f.focused, iv)
}

type fakeSink struct {
	last  map[uint64]struct{}
	calls int
}

func (f *fakeSink) SetVisibleFunctions(addresses map[uint64]struct{}) {
	f.last = addresses
	f.calls++
}

type viewFixture struct {
	session  *capture.Session
	hooks    *fakeHooks
	tracks   *fakeFrameTracks
	timeline *fakeTimeline
	sink     *fakeSink
	view     *View
}

func newViewFixture(t *testing.T) *viewFixture {
	t.Helper()

	f := &viewFixture{
		session:  capture.NewSession(zerolog.Nop()),
		hooks:    &fakeHooks{selected: make(map[uint64]bool)},
		tracks:   &fakeFrameTracks{enabled: make(map[uint64]bool), inData: make(map[uint64]bool)},
		timeline: &fakeTimeline{},
		sink:     &fakeSink{},
	}
	f.view = NewView(f.session, Deps{
		State:       f.session,
		Hooks:       f.hooks,
		FrameTracks: f.tracks,
		Timeline:    f.timeline,
		VisibleSink: f.sink,
	}, zerolog.Nop())
	return f
}

// addFunction resolves a descriptor and records count intervals of the given
// duration.
func (f *viewFixture) addFunction(addr uint64, name, module string, count int, durationNs uint64) {
	f.session.OnAddressResolved(capture.AddressInfo{
		AbsoluteAddress: addr,
		FunctionName:    name,
		ModulePath:      module,
	})
	for i := 0; i < count; i++ {
		start := addr + uint64(i)*1000
		f.session.OnTiming(capture.TimingInterval{
			FunctionAddress: addr,
			Start:           start,
			End:             start + durationNs,
			ThreadID:        1,
		})
	}
}

func (f *viewFixture) visibleNames() []string {
	names := make([]string, 0, f.view.NumRows())
	for i := 0; i < f.view.NumRows(); i++ {
		names = append(names, f.view.RowFor(i).Name)
	}
	return names
}

func TestView_OnSessionDataChanged(t *testing.T) {
	f := newViewFixture(t)
	f.addFunction(0x300, "gamma", "game.exe", 1, 10)
	f.addFunction(0x100, "alpha", "game.exe", 1, 10)
	f.addFunction(0x200, "beta", "engine.dll", 1, 10)
	f.addFunction(0x400, constants.InstrumentationPrefix+"trampoline", "livescope.so", 5, 10)

	f.view.OnSessionDataChanged()

	// Identity order over the address-ordered arena; instrumentation-internal
	// functions are excluded even though they have stats.
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, f.visibleNames())
}

func TestView_SetFilter_ANDSemantics(t *testing.T) {
	f := newViewFixture(t)
	f.addFunction(0x100, "foo_bar", "m", 1, 10)
	f.addFunction(0x200, "FooBarBaz", "m", 1, 10)
	f.addFunction(0x300, "foo_only", "m", 1, 10)
	f.addFunction(0x400, "bar_only", "m", 1, 10)
	f.view.OnSessionDataChanged()

	f.view.SetFilter("foo bar")
	assert.Equal(t, []string{"foo_bar", "FooBarBaz"}, f.visibleNames())

	f.view.SetFilter("")
	assert.Equal(t, 4, f.view.NumRows())
}

func TestView_SetFilter_PushesVisibleFunctions(t *testing.T) {
	f := newViewFixture(t)
	f.addFunction(0x100, "foo", "m", 1, 10)
	f.addFunction(0x200, "bar", "m", 1, 10)
	f.view.OnSessionDataChanged()

	f.view.SetFilter("foo")

	require.Equal(t, 1, f.sink.calls)
	_, ok := f.sink.last[0x100]
	assert.True(t, ok, "visible set should contain foo's address")
	assert.Len(t, f.sink.last, 1)
}

func TestView_Sort_Stability(t *testing.T) {
	f := newViewFixture(t)
	// All equal counts: sorting by count must keep the pre-sort order.
	f.addFunction(0x100, "delta", "m", 2, 10)
	f.addFunction(0x200, "alpha", "m", 2, 10)
	f.addFunction(0x300, "charlie", "m", 2, 10)
	f.view.OnSessionDataChanged()

	before := f.visibleNames()
	f.view.Sort(ColumnCount, false)
	assert.Equal(t, before, f.visibleNames())

	// Two count groups: groups reorder, equal rows keep relative order.
	f.addFunction(0x400, "bravo", "m", 5, 10)
	f.view.OnSessionDataChanged()
	f.view.Sort(ColumnCount, false)
	assert.Equal(t, []string{"bravo", "delta", "alpha", "charlie"}, f.visibleNames())
}

func TestView_Sort_DirectionsAndToggle(t *testing.T) {
	f := newViewFixture(t)
	f.addFunction(0x100, "one", "m", 1, 10)
	f.addFunction(0x200, "two", "m", 2, 10)
	f.addFunction(0x300, "three", "m", 3, 10)
	f.view.OnSessionDataChanged()

	// Count defaults to descending.
	f.view.Sort(ColumnCount, false)
	assert.Equal(t, []string{"three", "two", "one"}, f.visibleNames())

	// Re-sorting the active column with toggle flips the direction.
	f.view.Sort(ColumnCount, true)
	assert.Equal(t, []string{"one", "two", "three"}, f.visibleNames())

	// Switching columns uses that column's own direction (name: ascending).
	f.view.Sort(ColumnName, false)
	assert.Equal(t, []string{"one", "three", "two"}, f.visibleNames())

	// Toggle on a newly activated column applies before sorting again.
	f.view.Sort(ColumnCount, false)
	assert.Equal(t, []string{"one", "two", "three"}, f.visibleNames(),
		"count direction flipped earlier must be remembered")
}

func TestView_Sort_AddressAndName(t *testing.T) {
	f := newViewFixture(t)
	f.addFunction(0x300, "bb", "m2", 1, 10)
	f.addFunction(0x100, "cc", "m1", 1, 10)
	f.addFunction(0x200, "aa", "m3", 1, 10)
	f.view.OnSessionDataChanged()

	f.view.Sort(ColumnName, false)
	assert.Equal(t, []string{"aa", "bb", "cc"}, f.visibleNames())

	f.view.Sort(ColumnAddress, false)
	assert.Equal(t, []string{"cc", "aa", "bb"}, f.visibleNames())

	f.view.Sort(ColumnModule, false)
	assert.Equal(t, []string{"cc", "bb", "aa"}, f.visibleNames())
}

func TestView_Sort_HookedColumn(t *testing.T) {
	f := newViewFixture(t)
	f.addFunction(0x100, "one", "m", 1, 10)
	f.addFunction(0x200, "two", "m", 1, 10)
	f.addFunction(0x300, "three", "m", 1, 10)
	f.view.OnSessionDataChanged()

	f.hooks.selected[0x200] = true

	// Hooked defaults to descending: hooked rows first.
	f.view.Sort(ColumnHooked, false)
	assert.Equal(t, []string{"two", "one", "three"}, f.visibleNames())
}

func TestView_RowFor_PanicsOutOfRange(t *testing.T) {
	f := newViewFixture(t)
	f.addFunction(0x100, "only", "m", 1, 10)
	f.view.OnSessionDataChanged()

	assert.NotPanics(t, func() { f.view.RowFor(0) })
	assert.Panics(t, func() { f.view.RowFor(1) })
	assert.Panics(t, func() { f.view.RowFor(-1) })
}

func TestView_RefreshOnTick_OnlyWhileCapturing(t *testing.T) {
	f := newViewFixture(t)
	f.addFunction(0x100, "one", "m", 1, 10)
	f.addFunction(0x200, "two", "m", 2, 10)
	f.view.OnSessionDataChanged()
	f.view.Sort(ColumnCount, false)
	assert.Equal(t, []string{"two", "one"}, f.visibleNames())

	// New stats arrive; not capturing, so the tick must not reorder.
	f.addFunction(0x100, "one", "m", 5, 10)
	f.view.RefreshOnTick()
	assert.Equal(t, []string{"two", "one"}, f.visibleNames())

	// While capturing, the tick re-applies the current sort.
	f.session.StartCapture()
	f.view.RefreshOnTick()
	assert.Equal(t, []string{"one", "two"}, f.visibleNames())
}

func TestView_RefreshOnTick_DoesNotReapplyFilter(t *testing.T) {
	f := newViewFixture(t)
	f.addFunction(0x100, "render_mesh", "m", 1, 10)
	f.view.OnSessionDataChanged()
	f.view.SetFilter("render")
	require.Equal(t, 1, f.view.NumRows())

	// A new matching function appears mid-capture. Without a new filter or
	// data-changed epoch it must not pop into the visible set.
	f.addFunction(0x200, "render_text", "m", 1, 10)
	f.session.StartCapture()
	f.view.RefreshOnTick()
	assert.Equal(t, 1, f.view.NumRows())
}

func TestView_EndToEndScenario(t *testing.T) {
	f := newViewFixture(t)

	const fAddr = uint64(0x100)
	f.session.OnAddressResolved(capture.AddressInfo{
		AbsoluteAddress: fAddr, FunctionName: "f", ModulePath: "m",
	})
	for i, d := range []uint64{10, 20, 30} {
		f.session.OnTiming(capture.TimingInterval{
			FunctionAddress: fAddr,
			Start:           uint64(i * 100),
			End:             uint64(i*100) + d,
			ThreadID:        1,
		})
	}
	f.addFunction(0x200, "g", "m", 2, 10)

	st := f.session.GetStatsOrDefault(fAddr)
	assert.Equal(t, uint64(3), st.Count)
	assert.Equal(t, uint64(60), st.TotalNs)
	assert.Equal(t, uint64(10), st.MinNs)
	assert.Equal(t, uint64(30), st.MaxNs)
	assert.Equal(t, uint64(20), st.AverageNs())

	f.view.OnSessionDataChanged()
	f.view.SetFilter("f")
	assert.Contains(t, f.visibleNames(), "f")

	f.view.SetFilter("")
	f.view.Sort(ColumnCount, false)
	assert.Equal(t, "f", f.view.RowFor(0).Name, "3 calls must sort before 2 on count descending")
}

func TestView_JumpToFirstAndLast(t *testing.T) {
	f := newViewFixture(t)
	f.addFunction(0x100, "f", "m", 1, 10)
	f.view.OnSessionDataChanged()

	iv := &timers.Interval{FunctionAddress: 0x100, Start: 1, End: 2}
	f.timeline.next = iv
	f.timeline.prev = iv

	require.True(t, f.view.JumpToFirst(0))
	require.Len(t, f.timeline.nextAfter, 1)
	assert.Equal(t, uint64(0), f.timeline.nextAfter[0], "first = next after -inf")

	require.True(t, f.view.JumpToLast(0))
	require.Len(t, f.timeline.prevBefore, 1)
	assert.Equal(t, uint64(1<<64-1), f.timeline.prevBefore[0], "last = previous before +inf")

	assert.Len(t, f.timeline.focused, 2)
}

func TestView_JumpToMinMax(t *testing.T) {
	f := newViewFixture(t)
	const addr = uint64(0x100)
	f.session.OnAddressResolved(capture.AddressInfo{AbsoluteAddress: addr, FunctionName: "f"})
	f.session.OnTiming(capture.TimingInterval{FunctionAddress: addr, Start: 10, End: 50, ThreadID: 1})
	f.session.OnTiming(capture.TimingInterval{FunctionAddress: addr, Start: 5, End: 5, ThreadID: 1})
	f.view.OnSessionDataChanged()

	require.True(t, f.view.JumpToMin(0))
	require.True(t, f.view.JumpToMax(0))
	require.Len(t, f.timeline.focused, 2)
	assert.Equal(t, uint64(0), f.timeline.focused[0].DurationNs())
	assert.Equal(t, uint64(40), f.timeline.focused[1].DurationNs())
}

func TestView_JumpWithoutData(t *testing.T) {
	f := newViewFixture(t)
	f.addFunction(0x100, "f", "m", 1, 10)
	f.view.OnSessionDataChanged()

	// Timeline finds nothing.
	assert.False(t, f.view.JumpToFirst(0))
	assert.False(t, f.view.JumpToLast(0))
	assert.Empty(t, f.timeline.focused)
}

func TestView_UnhookDisablesFrameTrack(t *testing.T) {
	f := newViewFixture(t)
	f.addFunction(0x100, "f", "m", 1, 10)
	f.view.OnSessionDataChanged()

	f.view.Hook(0)
	f.view.EnableFrameTrack(0)
	assert.True(t, f.hooks.selected[0x100])
	assert.True(t, f.tracks.enabled[0x100])

	f.view.Unhook(0)
	assert.False(t, f.hooks.selected[0x100])
	assert.False(t, f.tracks.enabled[0x100], "unhooking removes the frame track")
}

func TestView_AvailableActions(t *testing.T) {
	f := newViewFixture(t)
	f.addFunction(0x100, "f", "m", 1, 10)
	f.view.OnSessionDataChanged()

	// Not capturing: no hook toggle, jumps available (count > 0), frame
	// track availability from session data.
	actions := f.view.AvailableActions(0)
	assert.NotContains(t, actions, ActionHook)
	assert.Contains(t, actions, ActionJumpToFirst)
	assert.Contains(t, actions, ActionEnableFrameTrack)

	f.session.StartCapture()
	actions = f.view.AvailableActions(0)
	assert.Contains(t, actions, ActionHook)

	f.view.Hook(0)
	actions = f.view.AvailableActions(0)
	assert.Contains(t, actions, ActionUnhook)
	assert.NotContains(t, actions, ActionHook)
}

func TestView_GetDisplayValue(t *testing.T) {
	f := newViewFixture(t)
	f.addFunction(0xabcd, "Game::Render", "game.exe", 2, 1500)
	f.view.OnSessionDataChanged()

	assert.Equal(t, "Game::Render", f.view.GetDisplayValue(0, ColumnName))
	assert.Equal(t, "2", f.view.GetDisplayValue(0, ColumnCount))
	assert.Equal(t, "game.exe", f.view.GetDisplayValue(0, ColumnModule))
	assert.Equal(t, "0xabcd", f.view.GetDisplayValue(0, ColumnAddress))
	assert.Equal(t, "3.000 us", f.view.GetDisplayValue(0, ColumnTimeTotal))
	assert.Equal(t, "1.500 us", f.view.GetDisplayValue(0, ColumnTimeAvg))

	// Hooked column reflects hook and frame-track marks.
	assert.Equal(t, "", f.view.GetDisplayValue(0, ColumnHooked))
	f.hooks.selected[0xabcd] = true
	f.tracks.enabled[0xabcd] = true
	assert.Equal(t, "H F", f.view.GetDisplayValue(0, ColumnHooked))

	// Renderers race benignly with refresh: out of range yields "".
	assert.Equal(t, "", f.view.GetDisplayValue(5, ColumnName))
}
