package capture

import (
	"sync"

	"github.com/zeebo/xxh3"
)

// KeyForString derives the stable numeric key a capture backend binds for an
// interned string. Backends that already assign their own keys can ignore
// this; both sides just need to agree per session.
func KeyForString(s string) uint64 {
	return xxh3.HashString(s)
}

// symbolTable associates opaque numeric keys with strings. Rebinding an
// existing key is last-writer-wins.
type symbolTable struct {
	mu    sync.RWMutex
	byKey map[uint64]string
}

func newSymbolTable() *symbolTable {
	return &symbolTable{byKey: make(map[uint64]string)}
}

func (t *symbolTable) bind(key uint64, text string) {
	t.mu.Lock()
	t.byKey[key] = text
	t.mu.Unlock()
}

func (t *symbolTable) resolve(key uint64) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	text, ok := t.byKey[key]
	return text, ok
}

// threadTable associates thread ids with human-readable names. Renames are
// last-writer-wins.
type threadTable struct {
	mu    sync.RWMutex
	byTID map[int32]string
}

func newThreadTable() *threadTable {
	return &threadTable{byTID: make(map[int32]string)}
}

func (t *threadTable) name(tid int32, name string) {
	t.mu.Lock()
	t.byTID[tid] = name
	t.mu.Unlock()
}

func (t *threadTable) lookup(tid int32) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	name, ok := t.byTID[tid]
	return name, ok
}
