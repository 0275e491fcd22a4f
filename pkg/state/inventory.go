package state

import (
	"maps"
	"sync"

	"github.com/trackerlab/keylogic/pkg/observe"
)

// Inventory counts collected items by name.
type Inventory struct {
	mu      sync.RWMutex
	counts  map[string]int
	changed observe.Subject[string]
}

// NewInventory returns an inventory seeded with counts.
func NewInventory(counts map[string]int) *Inventory {
	inv := &Inventory{counts: make(map[string]int, len(counts))}
	for k, v := range counts {
		if v > 0 {
			inv.counts[k] = v
		}
	}
	return inv
}

// Count returns how many of item are held.
func (inv *Inventory) Count(item string) int {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return inv.counts[item]
}

// Has reports whether at least one item is held.
func (inv *Inventory) Has(item string) bool {
	return inv.Count(item) > 0
}

// Set stores n copies of item. Negative counts clamp to zero.
func (inv *Inventory) Set(item string, n int) {
	if n < 0 {
		n = 0
	}
	inv.mu.Lock()
	prev := inv.counts[item]
	if n == 0 {
		delete(inv.counts, item)
	} else {
		inv.counts[item] = n
	}
	inv.mu.Unlock()

	if prev != n {
		inv.changed.Notify(item)
	}
}

// Add adjusts the count of item by delta.
func (inv *Inventory) Add(item string, delta int) {
	inv.Set(item, inv.Count(item)+delta)
}

// Snapshot copies the current counts.
func (inv *Inventory) Snapshot() map[string]int {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return maps.Clone(inv.counts)
}

// Subscribe registers fn, called with the item name after each change.
func (inv *Inventory) Subscribe(fn func(item string)) (cancel func()) {
	return inv.changed.Subscribe(fn)
}
