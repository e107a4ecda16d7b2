// Package capture implements the ingestion side of a live profiling session:
// the event sink contract, per-function statistics, and the timer index.
package capture

import (
	"github.com/livescope/livescope/internal/capture/timers"
)

// TimingInterval is one recorded function call. See timers.Interval.
type TimingInterval = timers.Interval

// FunctionDescriptor identifies an instrumentable function. Immutable once
// captured.
type FunctionDescriptor struct {
	Address    uint64
	Name       string
	ModulePath string
}

// CallStack is a resolved stack of frame addresses, identified by hash.
type CallStack struct {
	Hash   uint64
	Frames []uint64
}

// CallStackSample ties a call stack to a thread at a point in time.
type CallStackSample struct {
	StackHash   uint64
	ThreadID    int32
	TimestampNs uint64
}

// AddressInfo carries module and function metadata for a resolved address.
type AddressInfo struct {
	AbsoluteAddress  uint64
	FunctionName     string
	ModulePath       string
	OffsetInFunction uint64
}

// Listener is the contract through which the capture backend delivers events.
// Handlers side-effect the session's stores and never fail: malformed or
// duplicate events resolve last-writer-wins. Handlers must not block on
// view-side operations.
type Listener interface {
	OnTiming(interval TimingInterval)
	OnSymbolBinding(key uint64, text string)
	OnCallStack(stack CallStack)
	OnCallStackSample(sample CallStackSample)
	OnThreadNamed(threadID int32, name string)
	OnAddressResolved(info AddressInfo)
}
