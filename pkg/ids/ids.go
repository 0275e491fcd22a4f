// Package ids holds the closed identity enumerations shared by the node
// graph and the key layout engine. The enumerations are stable: values are
// never renumbered, only appended.
package ids

import (
	"errors"
	"fmt"
)

// ErrUnknown is wrapped by every failed identity lookup.
var ErrUnknown = errors.New("unknown identity")

type enumTable[T ~uint16] struct {
	kind   string
	names  []string
	byName map[string]T
}

func newEnumTable[T ~uint16](kind string, names []string) *enumTable[T] {
	t := &enumTable[T]{kind: kind, names: names, byName: make(map[string]T, len(names))}
	for i, n := range names {
		if _, dup := t.byName[n]; dup {
			panic(fmt.Sprintf("ids: duplicate %s name %q", kind, n))
		}
		t.byName[n] = T(i)
	}
	return t
}

func (t *enumTable[T]) name(v T) string {
	if int(v) >= len(t.names) {
		return fmt.Sprintf("%s(%d)", t.kind, uint16(v))
	}
	return t.names[v]
}

func (t *enumTable[T]) parse(s string) (T, error) {
	v, ok := t.byName[s]
	if !ok {
		return 0, fmt.Errorf("%s %q: %w", t.kind, s, ErrUnknown)
	}
	return v, nil
}

func (t *enumTable[T]) valid(v T) bool {
	return int(v) < len(t.names)
}
