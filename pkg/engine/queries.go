package engine

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/trackerlab/keylogic/pkg/access"
	"github.com/trackerlab/keylogic/pkg/graph"
	"github.com/trackerlab/keylogic/pkg/ids"
	"github.com/trackerlab/keylogic/pkg/keylayout"
	"github.com/trackerlab/keylogic/pkg/state"
)

// Level returns the cached accessibility of a node.
func (e *Engine) Level(id ids.NodeID) (access.Level, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.graph == nil {
		return access.None, ErrNotLoaded
	}
	return e.graph.Level(id), nil
}

// Snapshot returns the accessibility of every allocated node.
func (e *Engine) Snapshot() (map[ids.NodeID]access.Level, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.graph == nil {
		return nil, ErrNotLoaded
	}
	return e.graph.Snapshot(), nil
}

// Downstream lists the nodes whose level can change when id changes.
func (e *Engine) Downstream(id ids.NodeID) ([]ids.NodeID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.graph == nil {
		return nil, ErrNotLoaded
	}
	return e.graph.Downstream(id), nil
}

// SetItem sets an item count; dependent levels update before it returns.
func (e *Engine) SetItem(item string, n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Inventory.Set(item, n)
}

// ApplySettings replaces the mode settings.
func (e *Engine) ApplySettings(s state.Settings) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Mode.Apply(s)
}

// AddEntrance opens an alternate entrance into id.
func (e *Engine) AddEntrance(id ids.NodeID, tier graph.Tier) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.graph == nil {
		return ErrNotLoaded
	}
	e.graph.Node(id).AddEntrance(tier)
	return nil
}

// RemoveEntrance closes one alternate entrance into id. It reports false
// when no entrance of that tier was open.
func (e *Engine) RemoveEntrance(id ids.NodeID, tier graph.Tier) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.graph == nil {
		return false, ErrNotLoaded
	}
	return e.graph.Node(id).RemoveEntrance(tier), nil
}

// Catalog returns the loaded key layout catalog.
func (e *Engine) Catalog() (*keylayout.Catalog, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.catalog == nil {
		return nil, ErrNotLoaded
	}
	return e.catalog, nil
}

// Select snapshots the layouts of dungeon that apply under the current
// mode and inventory.
func (e *Engine) Select(dungeon ids.DungeonID) (*keylayout.Selection, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.catalog == nil {
		return nil, ErrNotLoaded
	}
	return e.catalog.Lookup(dungeon, e.Mode.Settings().KeyDropShuffle)
}

// Check probes one dungeon state and returns the names of the layouts it
// satisfies. The state is valid iff that list is non-empty.
func (e *Engine) Check(ctx context.Context, dungeon ids.DungeonID, o keylayout.Oracle, s keylayout.DungeonState) (matching []string, err error) {
	_, span := e.Tracer.Start(ctx, "Engine.Check")
	defer span.End()
	defer e.recoverPanic(span, &err)

	sel, err := e.Select(dungeon)
	if err != nil {
		return nil, e.fail(span, err)
	}
	matching = sel.Matching(o, s)

	attrs := attribute.NewSet(attribute.String("dungeon", dungeon.String()))
	e.evaluations.Add(ctx, 1, metric.WithAttributeSet(attrs))
	span.SetAttributes(
		attribute.String("dungeon", dungeon.String()),
		attribute.String("state", s.String()),
		attribute.Bool("valid", len(matching) > 0),
	)
	return matching, nil
}

// Sweep probes every state of dungeon against the oracle, using the
// current sequence break setting and the configured concurrency.
func (e *Engine) Sweep(ctx context.Context, dungeon ids.DungeonID, source keylayout.OracleSource) (results []keylayout.Result, err error) {
	ctx, span := e.Tracer.Start(ctx, "Engine.Sweep")
	defer span.End()
	defer e.recoverPanic(span, &err)

	sel, err := e.Select(dungeon)
	if err != nil {
		return nil, e.fail(span, err)
	}
	states := keylayout.EnumerateStates(sel.TotalKeys, e.Mode.Settings().SequenceBreaks)

	e.Logger.Debug("Sweeping key layouts",
		"dungeon", dungeon.String(),
		"states", len(states),
		"layouts", len(sel.Roots),
		"concurrency", e.config.Sweep.Concurrency,
	)
	results, err = keylayout.Sweep(ctx, sel, states, source, e.config.Sweep.Concurrency)
	if err != nil {
		return nil, e.fail(span, err)
	}

	valid := 0
	for _, r := range results {
		if r.Valid {
			valid++
		}
	}
	attrs := attribute.NewSet(attribute.String("dungeon", dungeon.String()))
	e.evaluations.Add(ctx, int64(len(results)), metric.WithAttributeSet(attrs))
	span.SetAttributes(
		attribute.String("dungeon", dungeon.String()),
		attribute.Int("states", len(results)),
		attribute.Int("valid", valid),
	)
	return results, nil
}
