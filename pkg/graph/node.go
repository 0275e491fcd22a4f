package graph

import (
	"fmt"

	"github.com/trackerlab/keylogic/pkg/access"
	"github.com/trackerlab/keylogic/pkg/ids"
	"github.com/trackerlab/keylogic/pkg/state"
)

// Tier classifies an alternate entrance counter.
type Tier uint8

const (
	TierAll Tier = iota
	TierDungeon
	TierInsanity

	tierCount
)

var tierNames = [...]string{"all", "dungeon", "insanity"}

func (t Tier) String() string {
	if int(t) >= len(tierNames) {
		return fmt.Sprintf("Tier(%d)", uint8(t))
	}
	return tierNames[t]
}

// ParseTier resolves a tier name.
func ParseTier(s string) (Tier, error) {
	for i, n := range tierNames {
		if n == s {
			return Tier(i), nil
		}
	}
	return 0, fmt.Errorf("unknown entrance tier %q", s)
}

// Threshold is the lowest entrance shuffle setting at which counters of
// this tier make a node reachable.
func (t Tier) Threshold() state.EntranceShuffle {
	switch t {
	case TierDungeon:
		return state.EntranceDungeon
	case TierInsanity:
		return state.EntranceInsanity
	default:
		return state.EntranceAll
	}
}

// Node is one vertex of the graph.
type Node struct {
	id        ids.NodeID
	g         *Graph
	level     access.Level
	inbound   []*Connection
	entrances [tierCount]int
	changed   signal
}

func (n *Node) ID() ids.NodeID { return n.id }

// Level returns the cached accessibility.
func (n *Node) Level() access.Level { return n.level }

// Inbound returns the connections feeding n.
func (n *Node) Inbound() []*Connection { return n.inbound }

// Subscribe registers fn to run after the cached level changes.
func (n *Node) Subscribe(fn func()) (cancel func()) {
	return n.changed.Subscribe(func(struct{}) { fn() })
}

// Entrances returns the counter for tier.
func (n *Node) Entrances(t Tier) int { return n.entrances[t] }

// AddEntrance records one more alternate entrance of tier t leading to n.
func (n *Node) AddEntrance(t Tier) {
	n.entrances[t]++
	n.entrancesChanged(t)
}

// RemoveEntrance drops one alternate entrance of tier t. It reports false
// when the counter is already zero.
func (n *Node) RemoveEntrance(t Tier) bool {
	if n.entrances[t] == 0 {
		return false
	}
	n.entrances[t]--
	n.entrancesChanged(t)
	return true
}

func (n *Node) entrancesChanged(t Tier) {
	if n.g.tier >= t.Threshold() {
		n.recompute()
	}
}

func (n *Node) hasEntrances() bool {
	for _, c := range n.entrances {
		if c > 0 {
			return true
		}
	}
	return false
}

// entranceOpen reports whether a positive counter applies under tier.
func (n *Node) entranceOpen(tier state.EntranceShuffle) bool {
	for t, c := range n.entrances {
		if c > 0 && tier >= Tier(t).Threshold() {
			return true
		}
	}
	return false
}

func (n *Node) recompute() {
	if n.id == ids.Start || !n.g.wired {
		return
	}

	next := n.g.accessibility(n, Guard{})
	if next == n.level {
		return
	}

	prev := n.level
	n.level = next
	n.g.logger.Debug("Node accessibility changed", "node", n.id, "from", prev, "to", next)
	n.changed.Notify(struct{}{})
}
