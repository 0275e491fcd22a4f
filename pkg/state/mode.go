// Package state holds the mutable tracker inputs: game mode settings and the
// item inventory. Both publish change notifications consumed by requirements
// and the node graph.
package state

import (
	"fmt"
	"strings"
	"sync"

	"github.com/trackerlab/keylogic/pkg/observe"
)

// EntranceShuffle is the entrance randomisation tier. Tiers are ordered so a
// higher tier includes every lower one.
type EntranceShuffle uint8

const (
	EntranceNone EntranceShuffle = iota
	EntranceDungeon
	EntranceAll
	EntranceInsanity
)

var entranceNames = []string{"none", "dungeon", "all", "insanity"}

func (e EntranceShuffle) String() string { return enumName(entranceNames, int(e)) }

// ParseEntranceShuffle resolves a tier name.
func ParseEntranceShuffle(s string) (EntranceShuffle, error) {
	i, err := enumParse("entrance shuffle", entranceNames, s)
	return EntranceShuffle(i), err
}

// ItemPlacement selects how strict item placement logic is.
type ItemPlacement uint8

const (
	PlacementBasic ItemPlacement = iota
	PlacementAdvanced
)

var placementNames = []string{"basic", "advanced"}

func (p ItemPlacement) String() string { return enumName(placementNames, int(p)) }

// ParseItemPlacement resolves a placement name.
func ParseItemPlacement(s string) (ItemPlacement, error) {
	i, err := enumParse("item placement", placementNames, s)
	return ItemPlacement(i), err
}

// WorldState is the starting world configuration.
type WorldState uint8

const (
	WorldStandard WorldState = iota
	WorldOpen
	WorldInverted
)

var worldNames = []string{"standard", "open", "inverted"}

func (w WorldState) String() string { return enumName(worldNames, int(w)) }

// ParseWorldState resolves a world state name.
func ParseWorldState(s string) (WorldState, error) {
	i, err := enumParse("world state", worldNames, s)
	return WorldState(i), err
}

// Property names one field of Settings in change notifications.
type Property uint8

const (
	PropEntranceShuffle Property = iota
	PropKeyDropShuffle
	PropSequenceBreaks
	PropSmallKeyShuffle
	PropBigKeyShuffle
	PropItemPlacement
	PropWorldState
)

var propertyNames = []string{
	"entrance_shuffle",
	"key_drop_shuffle",
	"sequence_breaks",
	"small_key_shuffle",
	"big_key_shuffle",
	"item_placement",
	"world_state",
}

func (p Property) String() string { return enumName(propertyNames, int(p)) }

// Settings is an immutable snapshot of the mode.
type Settings struct {
	EntranceShuffle EntranceShuffle
	KeyDropShuffle  bool
	SequenceBreaks  bool
	SmallKeyShuffle bool
	BigKeyShuffle   bool
	ItemPlacement   ItemPlacement
	WorldState      WorldState
}

// Vars exposes the settings to requirement expressions.
func (s Settings) Vars() map[string]any {
	return map[string]any{
		"entrance_shuffle":  int64(s.EntranceShuffle),
		"key_drop_shuffle":  s.KeyDropShuffle,
		"sequence_breaks":   s.SequenceBreaks,
		"small_key_shuffle": s.SmallKeyShuffle,
		"big_key_shuffle":   s.BigKeyShuffle,
		"item_placement":    s.ItemPlacement.String(),
		"world_state":       s.WorldState.String(),
	}
}

// Mode is the live settings surface.
type Mode struct {
	mu      sync.RWMutex
	current Settings
	changed observe.Subject[Property]
}

// NewMode returns a Mode starting at s.
func NewMode(s Settings) *Mode {
	return &Mode{current: s}
}

// Settings returns a snapshot of the current values.
func (m *Mode) Settings() Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Subscribe registers fn for property changes.
func (m *Mode) Subscribe(fn func(Property)) (cancel func()) {
	return m.changed.Subscribe(fn)
}

// Apply replaces every setting, notifying once per property that changed.
func (m *Mode) Apply(next Settings) {
	m.mu.Lock()
	prev := m.current
	m.current = next
	m.mu.Unlock()

	for _, p := range diff(prev, next) {
		m.changed.Notify(p)
	}
}

func (m *Mode) update(fn func(*Settings)) {
	m.mu.Lock()
	prev := m.current
	fn(&m.current)
	next := m.current
	m.mu.Unlock()

	for _, p := range diff(prev, next) {
		m.changed.Notify(p)
	}
}

func (m *Mode) SetEntranceShuffle(v EntranceShuffle) {
	m.update(func(s *Settings) { s.EntranceShuffle = v })
}

func (m *Mode) SetKeyDropShuffle(v bool) {
	m.update(func(s *Settings) { s.KeyDropShuffle = v })
}

func (m *Mode) SetSequenceBreaks(v bool) {
	m.update(func(s *Settings) { s.SequenceBreaks = v })
}

func (m *Mode) SetSmallKeyShuffle(v bool) {
	m.update(func(s *Settings) { s.SmallKeyShuffle = v })
}

func (m *Mode) SetBigKeyShuffle(v bool) {
	m.update(func(s *Settings) { s.BigKeyShuffle = v })
}

func (m *Mode) SetItemPlacement(v ItemPlacement) {
	m.update(func(s *Settings) { s.ItemPlacement = v })
}

func (m *Mode) SetWorldState(v WorldState) {
	m.update(func(s *Settings) { s.WorldState = v })
}

func diff(a, b Settings) []Property {
	var out []Property
	if a.EntranceShuffle != b.EntranceShuffle {
		out = append(out, PropEntranceShuffle)
	}
	if a.KeyDropShuffle != b.KeyDropShuffle {
		out = append(out, PropKeyDropShuffle)
	}
	if a.SequenceBreaks != b.SequenceBreaks {
		out = append(out, PropSequenceBreaks)
	}
	if a.SmallKeyShuffle != b.SmallKeyShuffle {
		out = append(out, PropSmallKeyShuffle)
	}
	if a.BigKeyShuffle != b.BigKeyShuffle {
		out = append(out, PropBigKeyShuffle)
	}
	if a.ItemPlacement != b.ItemPlacement {
		out = append(out, PropItemPlacement)
	}
	if a.WorldState != b.WorldState {
		out = append(out, PropWorldState)
	}
	return out
}

func enumName(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return fmt.Sprintf("unknown(%d)", i)
	}
	return names[i]
}

func enumParse(kind string, names []string, s string) (int, error) {
	for i, n := range names {
		if strings.EqualFold(n, s) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q (want one of %s)", kind, s, strings.Join(names, ", "))
}
