package capture

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/livescope/livescope/internal/capture/stats"
	"github.com/livescope/livescope/internal/capture/timers"
)

// sessionData bundles every store belonging to one capture run. Reset swaps
// the whole bundle behind an atomic pointer, so readers observe either all of
// the old session or all of the new one, never a gradual drain.
type sessionData struct {
	id          string
	stats       *stats.Store
	timers      *timers.Index
	descriptors *descriptorTable
	symbols     *symbolTable
	threads     *threadTable

	stackMu sync.Mutex
	stacks  map[uint64]CallStack
	samples []CallStackSample
}

func newSessionData(logger zerolog.Logger) *sessionData {
	return &sessionData{
		id:          uuid.New().String(),
		stats:       stats.NewStore(logger),
		timers:      timers.NewIndex(),
		descriptors: newDescriptorTable(),
		symbols:     newSymbolTable(),
		threads:     newThreadTable(),
		stacks:      make(map[uint64]CallStack),
	}
}

// Session owns the aggregation state of one live capture and implements
// Listener for the ingestion path. The presentation path reads through the
// query methods; the two sides share nothing but short per-store locks.
type Session struct {
	logger    zerolog.Logger
	data      atomic.Pointer[sessionData]
	capturing atomic.Bool
}

var _ Listener = (*Session)(nil)

// NewSession creates a session with empty stores.
func NewSession(logger zerolog.Logger) *Session {
	s := &Session{
		logger: logger.With().Str("component", "capture_session").Logger(),
	}
	s.data.Store(newSessionData(s.logger))
	return s
}

// ID returns the identifier of the current capture run. It changes on Reset.
func (s *Session) ID() string {
	return s.data.Load().id
}

// Reset discards all captured data and starts tracking afresh. The swap is a
// single atomic transition; readers never see a partially cleared session.
func (s *Session) Reset() {
	fresh := newSessionData(s.logger)
	old := s.data.Swap(fresh)
	s.logger.Info().
		Str("old_session", old.id).
		Str("new_session", fresh.id).
		Msg("Capture session reset")
}

// StartCapture marks the session as actively recording.
func (s *Session) StartCapture() {
	s.capturing.Store(true)
}

// StopCapture marks the session as no longer recording. Captured data stays
// queryable until the next Reset.
func (s *Session) StopCapture() {
	s.capturing.Store(false)
}

// IsCapturing reports whether the session is actively recording.
func (s *Session) IsCapturing() bool {
	return s.capturing.Load()
}

// HasSessionData reports whether any function statistics exist for the
// current run.
func (s *Session) HasSessionData() bool {
	return s.data.Load().stats.Len() > 0
}

// OnTiming records a timing interval: it appends to the interval's thread
// chain and folds the duration into the function's statistics. A placeholder
// descriptor is created for addresses whose symbol has not arrived yet, so
// every stats entry always has a descriptor.
func (s *Session) OnTiming(interval TimingInterval) {
	d := s.data.Load()
	d.descriptors.ensure(interval.FunctionAddress)
	d.timers.Append(interval)
	d.stats.Record(interval.FunctionAddress, interval.DurationNs())
}

// OnSymbolBinding associates an opaque numeric key with a string.
func (s *Session) OnSymbolBinding(key uint64, text string) {
	s.data.Load().symbols.bind(key, text)
}

// OnCallStack records a resolved call stack for downstream consumers. The
// statistics model does not depend on call-stack contents.
func (s *Session) OnCallStack(stack CallStack) {
	d := s.data.Load()
	d.stackMu.Lock()
	d.stacks[stack.Hash] = stack
	d.stackMu.Unlock()
}

// OnCallStackSample records one call-stack occurrence for downstream
// consumers.
func (s *Session) OnCallStackSample(sample CallStackSample) {
	d := s.data.Load()
	d.stackMu.Lock()
	d.samples = append(d.samples, sample)
	d.stackMu.Unlock()
}

// OnThreadNamed associates a human-readable name with a thread id.
func (s *Session) OnThreadNamed(threadID int32, name string) {
	s.data.Load().threads.name(threadID, name)
}

// OnAddressResolved supplies module/function metadata for an address,
// creating or upgrading its FunctionDescriptor.
func (s *Session) OnAddressResolved(info AddressInfo) {
	s.data.Load().descriptors.put(FunctionDescriptor{
		Address:    info.AbsoluteAddress,
		Name:       info.FunctionName,
		ModulePath: info.ModulePath,
	})
}

// GetStatsOrDefault returns the function's aggregate statistics, or a
// zero-valued record when nothing was recorded for the address yet.
func (s *Session) GetStatsOrDefault(address uint64) stats.FunctionStats {
	return s.data.Load().stats.GetStatsOrDefault(address)
}

// GetAbsoluteAddress returns the absolute address a descriptor is keyed by.
func (s *Session) GetAbsoluteAddress(d FunctionDescriptor) uint64 {
	return d.Address
}

// Descriptor returns the descriptor tracked for an address.
func (s *Session) Descriptor(address uint64) (FunctionDescriptor, bool) {
	return s.data.Load().descriptors.get(address)
}

// TrackedAddresses returns a snapshot of every address with recorded stats.
func (s *Session) TrackedAddresses() []uint64 {
	return s.data.Load().stats.Addresses()
}

// ThreadName returns the recorded name for a thread id.
func (s *Session) ThreadName(threadID int32) (string, bool) {
	return s.data.Load().threads.lookup(threadID)
}

// ResolveSymbol returns the string bound to a symbol key.
func (s *Session) ResolveSymbol(key uint64) (string, bool) {
	return s.data.Load().symbols.resolve(key)
}

// ThreadChains returns the per-thread timer chains of the current run.
func (s *Session) ThreadChains() []*timers.Chain {
	return s.data.Load().timers.ThreadChains()
}

// TotalIntervals returns the number of intervals recorded in the current run.
func (s *Session) TotalIntervals() int {
	return s.data.Load().timers.TotalIntervals()
}

// FindMinMaxInterval scans the timer index for the matching intervals with
// the smallest and largest duration. Both are nil when the function was never
// recorded.
func (s *Session) FindMinMaxInterval(address uint64) (minIv, maxIv *timers.Interval) {
	return s.data.Load().timers.FindMinMaxInterval(address)
}
