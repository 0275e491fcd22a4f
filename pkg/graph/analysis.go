package graph

import (
	"sort"

	"github.com/trackerlab/keylogic/pkg/ids"
)

// Downstream returns every node whose level can be affected by a change at
// id, i.e. all nodes reachable from id along connections, in BFS order.
// An id outside the enumeration panics, as for Node.
func (g *Graph) Downstream(id ids.NodeID) []ids.NodeID {
	mustBeKnown(id)
	visited := NewGuard(id)
	queue := []ids.NodeID{id}
	var out []ids.NodeID

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, c := range g.outbound[current] {
			if visited.Has(c.target) {
				continue
			}
			visited = visited.With(c.target)
			queue = append(queue, c.target)
			out = append(out, c.target)
		}
	}
	return out
}

// Upstream returns the distinct direct sources of id, sorted.
func (g *Graph) Upstream(id ids.NodeID) []ids.NodeID {
	mustBeKnown(id)
	n := g.nodes[id]
	if n == nil {
		return nil
	}
	seen := Guard{}
	var out []ids.NodeID
	for _, c := range n.inbound {
		if !seen.Has(c.source.id) {
			seen = seen.With(c.source.id)
			out = append(out, c.source.id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
