package graph

import (
	"strings"

	"github.com/trackerlab/keylogic/pkg/ids"
)

const guardWords = (ids.NodeCount + 63) / 64

// Guard is a set of nodes, used to exclude nodes from an accessibility
// evaluation as if they were removed from the graph.
// It is a value type: With returns a copy, so a Guard can be shared freely.
type Guard [guardWords]uint64

// NewGuard returns a guard holding nodes.
func NewGuard(nodes ...ids.NodeID) Guard {
	var g Guard
	for _, n := range nodes {
		g = g.With(n)
	}
	return g
}

// With returns a copy of g that also holds n.
func (g Guard) With(n ids.NodeID) Guard {
	g[n/64] |= 1 << (n % 64)
	return g
}

// Has reports whether n is excluded.
func (g Guard) Has(n ids.NodeID) bool {
	return g[n/64]&(1<<(n%64)) != 0
}

func (g Guard) String() string {
	var names []string
	for i := 0; i < ids.NodeCount; i++ {
		if g.Has(ids.NodeID(i)) {
			names = append(names, ids.NodeID(i).String())
		}
	}
	return "{" + strings.Join(names, ", ") + "}"
}
