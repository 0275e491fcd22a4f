package keylayout

import (
	"errors"
	"fmt"

	"github.com/trackerlab/keylogic/pkg/access"
	"github.com/trackerlab/keylogic/pkg/ids"
)

// ErrNilOracle is raised when a tree is evaluated without an oracle.
var ErrNilOracle = errors.New("key layout evaluated without an oracle")

// DungeonState is one hypothetical combination of collected keys.
type DungeonState struct {
	KeysCollected        int
	BigKeyCollected      bool
	SequenceBreakAllowed bool
}

func (s DungeonState) String() string {
	return fmt.Sprintf("keys=%d bigkey=%t sb=%t", s.KeysCollected, s.BigKeyCollected, s.SequenceBreakAllowed)
}

// Oracle reports per-location accessibility for one fixed DungeonState.
type Oracle interface {
	Accessibility(loc ids.LocationID) access.Level
}

// OracleFunc adapts a function to Oracle.
type OracleFunc func(loc ids.LocationID) access.Level

func (f OracleFunc) Accessibility(loc ids.LocationID) access.Level { return f(loc) }

// StaticOracle answers from a fixed table, falling back to Default.
type StaticOracle struct {
	Default access.Level
	Levels  map[ids.LocationID]access.Level
}

func (o StaticOracle) Accessibility(loc ids.LocationID) access.Level {
	if l, ok := o.Levels[loc]; ok {
		return l
	}
	return o.Default
}

func mustOracle(o Oracle) {
	if o == nil {
		panic(ErrNilOracle)
	}
}

// tally counts the locations that count as accessible for s.
func tally(o Oracle, s DungeonState, locations []ids.LocationID) (accessible, inaccessible int) {
	for _, loc := range locations {
		if o.Accessibility(loc).Counts(s.SequenceBreakAllowed) {
			accessible++
		} else {
			inaccessible++
		}
	}
	return accessible, inaccessible
}
