package keylayout

import (
	"slices"

	"github.com/trackerlab/keylogic/pkg/ids"
	"github.com/trackerlab/keylogic/pkg/requirement"
)

// Node is one constraint of a layout tree: End, BigKey or SmallKey.
type Node interface {
	// CanBeTrue reports whether the local predicate holds for s and, when
	// the node has children, at least one child can be true as well.
	CanBeTrue(o Oracle, s DungeonState) bool
	Children() []Node

	sealed()
}

func anyChild(children []Node, o Oracle, s DungeonState) bool {
	if len(children) == 0 {
		return true
	}
	for _, c := range children {
		if c.CanBeTrue(o, s) {
			return true
		}
	}
	return false
}

// End is a terminal node: the configuration imposes no further constraint
// once its requirement is met.
type End struct {
	req requirement.Requirement
}

// NewEnd returns a terminal node gated by req; a nil req is always met.
func NewEnd(req requirement.Requirement) *End {
	if req == nil {
		req = requirement.Always
	}
	return &End{req: req}
}

func (e *End) CanBeTrue(o Oracle, _ DungeonState) bool {
	mustOracle(o)
	return e.req.Met()
}

func (e *End) Requirement() requirement.Requirement { return e.req }

func (*End) Children() []Node { return nil }

func (*End) sealed() {}

// BigKey constrains the locations that may hold the big key.
type BigKey struct {
	locations []ids.LocationID
	children  []Node
}

// NewBigKey returns a big key node over locations.
func NewBigKey(locations []ids.LocationID, children ...Node) *BigKey {
	return &BigKey{
		locations: slices.Clone(locations),
		children:  slices.Clone(children),
	}
}

// CanBeTrue fails when the state claims the big key while none of the
// candidate locations is accessible, or denies it while every candidate is.
func (b *BigKey) CanBeTrue(o Oracle, s DungeonState) bool {
	mustOracle(o)
	accessible, inaccessible := tally(o, s, b.locations)
	if s.BigKeyCollected && accessible == 0 {
		return false
	}
	if !s.BigKeyCollected && inaccessible == 0 {
		return false
	}
	return anyChild(b.children, o, s)
}

func (b *BigKey) Locations() []ids.LocationID { return slices.Clone(b.locations) }

func (b *BigKey) Children() []Node { return slices.Clone(b.children) }

func (*BigKey) sealed() {}

// SmallKeySpec parametrises a SmallKey node.
type SmallKeySpec struct {
	// Keys is the number of small keys required to progress past this point.
	Keys int
	// Locations are the locations reachable with fewer than Keys keys.
	Locations []ids.LocationID
	// BigKeyInList marks that one of Locations may hold the big key.
	BigKeyInList bool
	// TotalKeys is the dungeon's small key pool, including key drops when
	// they are shuffled.
	TotalKeys int
}

// SmallKey bounds the number of collected small keys.
type SmallKey struct {
	spec     SmallKeySpec
	children []Node
}

// NewSmallKey returns a small key node.
func NewSmallKey(spec SmallKeySpec, children ...Node) *SmallKey {
	spec.Locations = slices.Clone(spec.Locations)
	return &SmallKey{spec: spec, children: slices.Clone(children)}
}

// Bounds returns the inclusive range of KeysCollected consistent with s.
func (k *SmallKey) Bounds(o Oracle, s DungeonState) (minimum, maximum int) {
	_, inaccessible := tally(o, s, k.spec.Locations)
	// A slot blocked by the uncollected big key cannot also hold a small key.
	if k.spec.BigKeyInList && !s.BigKeyCollected {
		inaccessible--
	}
	minimum = max(0, k.spec.Keys-inaccessible)
	maximum = k.spec.TotalKeys - max(0, inaccessible-(len(k.spec.Locations)-k.spec.Keys))
	return minimum, maximum
}

func (k *SmallKey) CanBeTrue(o Oracle, s DungeonState) bool {
	mustOracle(o)
	minimum, maximum := k.Bounds(o, s)
	if s.KeysCollected < minimum || s.KeysCollected > maximum {
		return false
	}
	return anyChild(k.children, o, s)
}

// Spec returns a copy of the node parameters.
func (k *SmallKey) Spec() SmallKeySpec {
	spec := k.spec
	spec.Locations = slices.Clone(spec.Locations)
	return spec
}

func (k *SmallKey) Children() []Node { return slices.Clone(k.children) }

func (*SmallKey) sealed() {}
