package util

import (
	"fmt"
	"sync"
)

// EnumSet assigns dense ids to strings in insertion order. Lookups are safe
// for concurrent use; once Frozen, Add panics.
type EnumSet struct {
	mu     sync.RWMutex
	Enum   map[string]int
	Index  []string
	Frozen bool
}

func (e *EnumSet) Add(value string) (int, bool) {
	if e.Frozen {
		panic("Cannot add value to frozen enum set")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	enum, exists := e.Enum[value]
	if exists {
		return enum, false
	}
	enum = len(e.Index)
	e.Enum[value] = enum
	e.Index = append(e.Index, value)
	return enum, true
}

func (e *EnumSet) IndexOf(value string) (int, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	enum, exists := e.Enum[value]
	return enum, exists
}

func (e *EnumSet) ValueOf(index int) string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if index < 0 {
		panic("Negative index requested")
	}
	if len(e.Index) <= index {
		panic(fmt.Sprintf("Unknown index requested: %v of %v", index, len(e.Index)))
	}
	return e.Index[index]
}

// Freeze stops the set from growing
func (e *EnumSet) Freeze() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Frozen = true
}

func (e *EnumSet) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.Index)
}

func NewEnumSet(capacity int) *EnumSet {
	return &EnumSet{
		Enum:  make(map[string]int, capacity),
		Index: make([]string, 0, capacity),
	}
}
