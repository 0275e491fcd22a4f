package keylayout

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/trackerlab/keylogic/pkg/ids"
	"github.com/trackerlab/keylogic/pkg/requirement"
)

// ErrUnknownDungeon is raised when a tree is selected for a dungeon the
// catalog has no layouts for.
var ErrUnknownDungeon = errors.New("no key layout for dungeon")

// Layout is one top-level tree and the requirement that selects it.
type Layout struct {
	Name string
	Gate requirement.Requirement
	Root Node
}

type dungeonLayouts struct {
	dungeon Dungeon
	// byKeyDrop is indexed by the key drop shuffle flag.
	byKeyDrop [2][]Layout
}

// Catalog holds the immutable layout trees of every configured dungeon,
// resolved for both key drop modes.
type Catalog struct {
	dungeons map[ids.DungeonID]*dungeonLayouts
}

// CatalogOption configures Build.
type CatalogOption func(*catalogConfig)

type catalogConfig struct {
	logger *slog.Logger
}

// WithLogger sets the logger used while building the catalog.
func WithLogger(l *slog.Logger) CatalogOption {
	return func(c *catalogConfig) { c.logger = l }
}

func keyDropIndex(keyDropShuffle bool) int {
	if keyDropShuffle {
		return 1
	}
	return 0
}

// Build resolves a definition into a Catalog. Unknown dungeons or
// locations and malformed nodes are returned as errors.
func Build(def *Definition, compiler Compiler, opts ...CatalogOption) (*Catalog, error) {
	cfg := catalogConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if def == nil {
		return nil, errors.New("nil layout definition")
	}
	if compiler == nil {
		return nil, errors.New("nil requirement compiler")
	}

	cat := &Catalog{dungeons: make(map[ids.DungeonID]*dungeonLayouts, len(def.Dungeons))}
	for _, dd := range def.Dungeons {
		id, err := ids.ParseDungeon(dd.Dungeon)
		if err != nil {
			return nil, fmt.Errorf("layout definition: %w", err)
		}
		if _, dup := cat.dungeons[id]; dup {
			return nil, fmt.Errorf("layout definition: dungeon %s defined twice", id)
		}

		dungeon, _ := DefaultDungeon(id)
		if dd.SmallKeys != nil {
			dungeon.SmallKeys = *dd.SmallKeys
		}
		if dd.KeyDrops != nil {
			dungeon.KeyDrops = *dd.KeyDrops
		}

		b := &builder{dungeon: dungeon, compiler: compiler, reqs: make(map[string]requirement.Requirement)}
		entry := &dungeonLayouts{dungeon: dungeon}
		for i, ld := range dd.Layouts {
			name := ld.Name
			if name == "" {
				name = fmt.Sprintf("layout-%d", i)
			}
			gate, err := b.requirement(ld.Gate)
			if err != nil {
				return nil, fmt.Errorf("%s/%s gate: %w", id, name, err)
			}
			for _, keyDrop := range []bool{false, true} {
				root, err := b.node(ld.Root, fmt.Sprintf("%s/%s", id, name), keyDrop)
				if err != nil {
					return nil, err
				}
				idx := keyDropIndex(keyDrop)
				entry.byKeyDrop[idx] = append(entry.byKeyDrop[idx], Layout{Name: name, Gate: gate, Root: root})
			}
		}
		cat.dungeons[id] = entry
		cfg.logger.Debug("Key layouts built",
			slog.String("dungeon", id.String()),
			slog.Int("layouts", len(dd.Layouts)),
			slog.Int("small_keys", dungeon.SmallKeys),
			slog.Int("key_drops", dungeon.KeyDrops),
		)
	}
	cfg.logger.Info("Key layout catalog ready", slog.Int("dungeons", len(cat.dungeons)))
	return cat, nil
}

// Dungeons returns the configured dungeons in identity order.
func (c *Catalog) Dungeons() []ids.DungeonID {
	out := make([]ids.DungeonID, 0, len(c.dungeons))
	for id := range c.dungeons {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Dungeon returns the key pool used for id.
func (c *Catalog) Dungeon(id ids.DungeonID) (Dungeon, error) {
	entry, ok := c.dungeons[id]
	if !ok {
		return Dungeon{}, fmt.Errorf("%w: %s", ErrUnknownDungeon, id)
	}
	return entry.dungeon, nil
}

// Layouts returns every top-level tree of id for the key drop mode,
// regardless of gates.
func (c *Catalog) Layouts(id ids.DungeonID, keyDropShuffle bool) ([]Layout, error) {
	entry, ok := c.dungeons[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDungeon, id)
	}
	return slices.Clone(entry.byKeyDrop[keyDropIndex(keyDropShuffle)]), nil
}

// Lookup is Select returning an error for an unknown dungeon.
func (c *Catalog) Lookup(id ids.DungeonID, keyDropShuffle bool) (*Selection, error) {
	entry, ok := c.dungeons[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDungeon, id)
	}
	sel := &Selection{
		Dungeon:   id,
		TotalKeys: entry.dungeon.TotalKeys(keyDropShuffle),
	}
	for _, l := range entry.byKeyDrop[keyDropIndex(keyDropShuffle)] {
		if l.Gate.Met() {
			sel.Roots = append(sel.Roots, l)
		}
	}
	return sel, nil
}

// Select snapshots the trees of id whose gate is currently met. It panics
// on a dungeon with no layouts.
func (c *Catalog) Select(id ids.DungeonID, keyDropShuffle bool) *Selection {
	sel, err := c.Lookup(id, keyDropShuffle)
	if err != nil {
		panic(err)
	}
	return sel
}

// Selection is the set of trees that apply to a dungeon at one point in
// time. It is safe for concurrent use.
type Selection struct {
	Dungeon   ids.DungeonID
	Roots     []Layout
	TotalKeys int
}

// Valid reports whether any selected tree can be true for s.
func (s *Selection) Valid(o Oracle, st DungeonState) bool {
	mustOracle(o)
	for _, l := range s.Roots {
		if l.Root.CanBeTrue(o, st) {
			return true
		}
	}
	return false
}

// Matching returns the names of the selected trees that can be true for st.
func (s *Selection) Matching(o Oracle, st DungeonState) []string {
	mustOracle(o)
	var out []string
	for _, l := range s.Roots {
		if l.Root.CanBeTrue(o, st) {
			out = append(out, l.Name)
		}
	}
	return out
}
