package keylayout

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// EnumerateStates lists every DungeonState with 0..totalKeys keys and
// either big key status, at the given sequence break setting.
func EnumerateStates(totalKeys int, sequenceBreaks bool) []DungeonState {
	if totalKeys < 0 {
		totalKeys = 0
	}
	out := make([]DungeonState, 0, 2*(totalKeys+1))
	for keys := 0; keys <= totalKeys; keys++ {
		for _, bk := range []bool{false, true} {
			out = append(out, DungeonState{
				KeysCollected:        keys,
				BigKeyCollected:      bk,
				SequenceBreakAllowed: sequenceBreaks,
			})
		}
	}
	return out
}

// Result is the outcome of one probe.
type Result struct {
	State DungeonState
	Valid bool
}

// OracleSource builds the oracle for one probed state.
type OracleSource func(ctx context.Context, s DungeonState) (Oracle, error)

// Sweep probes sel against every state concurrently, with at most limit
// probes in flight (limit <= 0 means unbounded). Results keep the order of
// states. The first error cancels the remaining probes.
func Sweep(ctx context.Context, sel *Selection, states []DungeonState, oracleFor OracleSource, limit int) ([]Result, error) {
	if sel == nil {
		return nil, fmt.Errorf("sweep: nil selection")
	}
	if oracleFor == nil {
		panic(ErrNilOracle)
	}

	results := make([]Result, len(states))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, st := range states {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			o, err := oracleFor(ctx, st)
			if err != nil {
				return fmt.Errorf("oracle for %s: %w", st, err)
			}
			results[i] = Result{State: st, Valid: sel.Valid(o, st)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// StaticSource answers every state with the same oracle.
func StaticSource(o Oracle) OracleSource {
	mustOracle(o)
	return func(context.Context, DungeonState) (Oracle, error) { return o, nil }
}
