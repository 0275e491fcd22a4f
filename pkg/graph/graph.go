// Package graph maintains the world reachability graph: one node per
// ids.NodeID, each fed by requirement-gated connections from other nodes.
// Node levels are cached and recomputed incrementally when an input changes.
//
// The graph is built in two phases. Nodes are allocated on first reference,
// then Wire attaches every connection at once and computes initial levels.
// Propagation is synchronous and single-threaded; callers must serialise
// mutations of the inputs that feed a Graph.
package graph

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/trackerlab/keylogic/pkg/access"
	"github.com/trackerlab/keylogic/pkg/ids"
	"github.com/trackerlab/keylogic/pkg/observe"
	"github.com/trackerlab/keylogic/pkg/requirement"
	"github.com/trackerlab/keylogic/pkg/state"
)

var (
	// ErrNotWired is raised when the graph is evaluated before Wire.
	ErrNotWired = errors.New("graph evaluated before it was wired")
	// ErrAlreadyWired is returned by a second call to Wire.
	ErrAlreadyWired = errors.New("graph already wired")
)

// Edge declares one connection: target To is fed by source From while
// Requirement is met. A nil Requirement is always met. Ceiling caps the
// level the edge can pass on; the zero value means no ceiling.
type Edge struct {
	From        ids.NodeID
	To          ids.NodeID
	Requirement requirement.Requirement
	Ceiling     access.Level
}

// Graph is an arena of nodes indexed by ids.NodeID.
type Graph struct {
	logger *slog.Logger

	nodes    [ids.NodeCount]*Node
	outbound [ids.NodeCount][]*Connection
	tier     state.EntranceShuffle
	wired    bool
	wiredSig observe.Signal
	detach   func()
}

// Option configures a Graph.
type Option func(*Graph)

// WithLogger sets the logger used for level change tracing.
func WithLogger(l *slog.Logger) Option {
	return func(g *Graph) {
		g.logger = l
	}
}

// New allocates an empty graph that follows the entrance shuffle tier of mode.
func New(mode *state.Mode, opts ...Option) *Graph {
	g := &Graph{
		logger: slog.Default(),
		tier:   mode.Settings().EntranceShuffle,
	}
	for _, opt := range opts {
		opt(g)
	}

	g.detach = mode.Subscribe(func(p state.Property) {
		if p != state.PropEntranceShuffle {
			return
		}
		g.setTier(mode.Settings().EntranceShuffle)
	})
	return g
}

// Close stops g from following the entrance shuffle tier of its mode.
func (g *Graph) Close() {
	if g.detach != nil {
		g.detach()
		g.detach = nil
	}
}

// Node returns the node for id, allocating it on first reference. An id
// outside the enumeration is a configuration defect and panics.
func (g *Graph) Node(id ids.NodeID) *Node {
	mustBeKnown(id)
	if n := g.nodes[id]; n != nil {
		return n
	}

	n := &Node{id: id, g: g}
	if id == ids.Start {
		n.level = access.Normal
	}
	g.nodes[id] = n
	g.wiredSig.Subscribe(func(struct{}) { n.recompute() })
	return n
}

func mustBeKnown(id ids.NodeID) {
	if !id.Valid() {
		panic(fmt.Errorf("graph: node %d: %w", id, ids.ErrUnknown))
	}
}

// Wire attaches every edge and computes initial levels. It may be called
// once; nodes referenced only by edges are allocated here.
func (g *Graph) Wire(edges []Edge) error {
	if g.wired {
		return ErrAlreadyWired
	}
	for i, e := range edges {
		if !e.From.Valid() || !e.To.Valid() {
			return fmt.Errorf("edge %d (%d -> %d): %w", i, e.From, e.To, ids.ErrUnknown)
		}
		if e.To == ids.Start {
			return fmt.Errorf("edge %d: %s cannot have inbound connections", i, ids.Start)
		}
	}

	for _, e := range edges {
		req := e.Requirement
		if req == nil {
			req = requirement.Always
		}
		ceiling := e.Ceiling
		if ceiling == access.None {
			ceiling = access.Cleared
		}
		target := g.Node(e.To)
		c := newConnection(g.Node(e.From), e.To, req, ceiling)
		target.inbound = append(target.inbound, c)
		g.outbound[e.From] = append(g.outbound[e.From], c)
		c.Subscribe(target.recompute)
	}

	g.wired = true
	g.logger.Debug("Graph wired", "edges", len(edges))
	g.wiredSig.Notify(struct{}{})
	return nil
}

// Wired reports whether Wire has completed.
func (g *Graph) Wired() bool {
	return g.wired
}

// Level returns the cached level of id.
func (g *Graph) Level(id ids.NodeID) access.Level {
	return g.Node(id).Level()
}

// Snapshot returns the cached level of every allocated node.
func (g *Graph) Snapshot() map[ids.NodeID]access.Level {
	out := make(map[ids.NodeID]access.Level)
	for _, n := range g.nodes {
		if n != nil {
			out[n.id] = n.level
		}
	}
	return out
}

func (g *Graph) setTier(tier state.EntranceShuffle) {
	if tier == g.tier {
		return
	}
	g.tier = tier
	for _, n := range g.nodes {
		if n != nil && n.hasEntrances() {
			n.recompute()
		}
	}
}
