package capture

import (
	"fmt"
	"sync"
)

// descriptorTable tracks FunctionDescriptors by absolute address. Descriptors
// are created when an address is first seen and only grow in number; no
// per-function deletion happens mid-session.
type descriptorTable struct {
	mu     sync.RWMutex
	byAddr map[uint64]FunctionDescriptor
}

func newDescriptorTable() *descriptorTable {
	return &descriptorTable{byAddr: make(map[uint64]FunctionDescriptor)}
}

// ensure guarantees a descriptor exists for the address, creating a
// hex-named placeholder when the symbol has not been resolved yet.
func (t *descriptorTable) ensure(address uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.byAddr[address]; ok {
		return
	}
	t.byAddr[address] = FunctionDescriptor{
		Address: address,
		Name:    fmt.Sprintf("0x%x", address),
	}
}

// put records resolved metadata for the address, replacing any placeholder.
// Re-resolving the same address is last-writer-wins.
func (t *descriptorTable) put(d FunctionDescriptor) {
	t.mu.Lock()
	t.byAddr[d.Address] = d
	t.mu.Unlock()
}

func (t *descriptorTable) get(address uint64) (FunctionDescriptor, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	d, ok := t.byAddr[address]
	return d, ok
}
