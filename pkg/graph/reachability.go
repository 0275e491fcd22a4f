package graph

import (
	"fmt"

	"github.com/trackerlab/keylogic/pkg/access"
	"github.com/trackerlab/keylogic/pkg/ids"
)

// Accessibility computes the level of id from scratch, treating every node
// in excluded as unreachable. It panics if the graph has not been wired.
func (g *Graph) Accessibility(id ids.NodeID, excluded Guard) access.Level {
	if !g.wired {
		panic(fmt.Errorf("graph: accessibility of %s: %w", id, ErrNotWired))
	}
	return g.accessibility(g.Node(id), excluded)
}

// accessibility returns the widest path level into target: the best, over
// paths from a source that avoid excluded, of the lowest level any edge on
// the path lets through. Start and nodes with an open entrance are sources
// at Normal. Each node is settled once, highest level first, so the cost is
// linear in the edges.
func (g *Graph) accessibility(target *Node, excluded Guard) access.Level {
	if excluded.Has(target.id) {
		return access.None
	}
	if target.id == ids.Start || target.entranceOpen(g.tier) {
		return access.Normal
	}

	var (
		best     [ids.NodeCount]access.Level
		frontier [access.Cleared + 1][]ids.NodeID
	)
	settled := excluded
	push := func(id ids.NodeID, l access.Level) {
		if l > best[id] {
			best[id] = l
			frontier[l] = append(frontier[l], id)
		}
	}
	for _, n := range g.nodes {
		if n != nil && !excluded.Has(n.id) && (n.id == ids.Start || n.entranceOpen(g.tier)) {
			push(n.id, access.Normal)
		}
	}

	// Edges never raise a level, so a bucket is complete once every
	// higher bucket is drained.
	for l := access.Normal; l > access.None; l-- {
		for len(frontier[l]) > 0 {
			id := frontier[l][len(frontier[l])-1]
			frontier[l] = frontier[l][:len(frontier[l])-1]
			if settled.Has(id) || best[id] != l {
				continue
			}
			if id == target.id {
				return l
			}
			settled = settled.With(id)
			for _, c := range g.outbound[id] {
				if settled.Has(c.target) || !c.req.Met() {
					continue
				}
				push(c.target, c.cap(l))
			}
		}
	}
	return access.None
}

// Reachable lists every allocated node whose cached level is at least Normal,
// in identity order.
func (g *Graph) Reachable() []ids.NodeID {
	var out []ids.NodeID
	for _, n := range g.nodes {
		if n != nil && n.level >= access.Normal {
			out = append(out, n.id)
		}
	}
	return out
}
