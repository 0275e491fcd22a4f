// Package access defines the accessibility lattice shared by the node graph
// and the key layout engine.
package access

import (
	"fmt"
	"strings"
)

// Level classifies how reachable a node or location currently is.
// Levels are totally ordered; a larger value is strictly more reachable.
type Level uint8

const (
	None Level = iota
	Inspect
	Partial
	SequenceBreak
	Normal
	Cleared
)

var levelNames = [...]string{
	None:          "None",
	Inspect:       "Inspect",
	Partial:       "Partial",
	SequenceBreak: "SequenceBreak",
	Normal:        "Normal",
	Cleared:       "Cleared",
}

// Levels lists every level in ascending order.
func Levels() []Level {
	return []Level{None, Inspect, Partial, SequenceBreak, Normal, Cleared}
}

// Join combines two paths to the same target. It is the lattice max with
// identity None.
func Join(a, b Level) Level {
	if a > b {
		return a
	}
	return b
}

// JoinAll folds Join over levels. An empty input yields None.
func JoinAll(levels ...Level) Level {
	acc := None
	for _, l := range levels {
		acc = Join(acc, l)
	}
	return acc
}

// Counts reports whether a location at this level counts as accessible for
// key tallies. SequenceBreak only counts when breaks are permitted.
func (l Level) Counts(sequenceBreakAllowed bool) bool {
	switch l {
	case Normal:
		return true
	case SequenceBreak:
		return sequenceBreakAllowed
	default:
		return false
	}
}

// Valid reports whether l is one of the defined levels.
func (l Level) Valid() bool {
	return int(l) < len(levelNames)
}

func (l Level) String() string {
	if !l.Valid() {
		return fmt.Sprintf("Level(%d)", uint8(l))
	}
	return levelNames[l]
}

// ParseLevel resolves a level name, ignoring case.
func ParseLevel(s string) (Level, error) {
	for i, name := range levelNames {
		if strings.EqualFold(name, s) {
			return Level(i), nil
		}
	}
	return None, fmt.Errorf("unknown accessibility level %q", s)
}

func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("invalid accessibility level %d", uint8(l))
	}
	return []byte(l.String()), nil
}

func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
