package keylayout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trackerlab/keylogic/pkg/access"
	"github.com/trackerlab/keylogic/pkg/ids"
	"github.com/trackerlab/keylogic/pkg/requirement"
)

// namedFlag is a settable requirement that renders as its name.
type namedFlag struct {
	*requirement.Flag
	name string
}

func (f namedFlag) String() string { return f.name }

// flagCompiler resolves every source to a named flag, created unmet.
type flagCompiler struct {
	mu    sync.Mutex
	flags map[string]namedFlag
	calls int
}

func newFlagCompiler() *flagCompiler {
	return &flagCompiler{flags: make(map[string]namedFlag)}
}

func (c *flagCompiler) Parse(src string) (requirement.Requirement, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if src == "" {
		return requirement.Always, nil
	}
	if strings.HasPrefix(src, "bad") {
		return nil, fmt.Errorf("cannot compile %q", src)
	}
	f, ok := c.flags[src]
	if !ok {
		f = namedFlag{Flag: requirement.NewFlag(false), name: src}
		c.flags[src] = f
	}
	return f, nil
}

func (c *flagCompiler) set(src string, v bool) {
	c.mu.Lock()
	f := c.flags[src]
	c.mu.Unlock()
	f.Set(v)
}

const easternYAML = `
dungeons:
  - dungeon: EasternPalace
    layouts:
      - name: keysanity
        gate: small_keys
        root:
          kind: end
      - name: standard
        gate: vanilla_keys
        root:
          kind: big
          locations: [EPCannonballChest, EPMapChest, EPCompassChest, EPBigKeyChest]
          children:
            - kind: small
              keys: 1
              locations: [EPDarkSquarePot, EPBigChest]
              big_key_in_list: true
              children:
                - kind: end
                  requires: bow
            - kind: end
              requires: hookshot
`

func buildCatalog(t *testing.T, src string) (*Catalog, *flagCompiler) {
	t.Helper()
	def, err := ParseDefinition([]byte(src))
	require.NoError(t, err)
	c := newFlagCompiler()
	cat, err := Build(def, c)
	require.NoError(t, err)
	return cat, c
}

func TestBuildResolvesKeyDropModes(t *testing.T) {
	cat, _ := buildCatalog(t, easternYAML)

	assert.Equal(t, []ids.DungeonID{ids.EasternPalace}, cat.Dungeons())

	for _, tc := range []struct {
		keyDrop bool
		total   int
	}{{false, 0}, {true, 2}} {
		layouts, err := cat.Layouts(ids.EasternPalace, tc.keyDrop)
		require.NoError(t, err)
		require.Len(t, layouts, 2)
		assert.Equal(t, "keysanity", layouts[0].Name)
		assert.Equal(t, "standard", layouts[1].Name)

		big, ok := layouts[1].Root.(*BigKey)
		require.True(t, ok)
		small, ok := big.Children()[0].(*SmallKey)
		require.True(t, ok)
		assert.Equal(t, tc.total, small.Spec().TotalKeys)
		assert.True(t, small.Spec().BigKeyInList)
	}
}

func TestBuildSharesCompiledRequirements(t *testing.T) {
	_, c := buildCatalog(t, easternYAML)
	// Four distinct sources plus the blank root gate, once each.
	assert.Equal(t, 4, len(c.flags))
	assert.Equal(t, 5, c.calls)
}

func TestSelectFollowsGates(t *testing.T) {
	cat, c := buildCatalog(t, easternYAML)

	sel := cat.Select(ids.EasternPalace, true)
	assert.Empty(t, sel.Roots)
	assert.False(t, sel.Valid(allAt(access.Normal), DungeonState{}))

	c.set("small_keys", true)
	sel = cat.Select(ids.EasternPalace, true)
	require.Len(t, sel.Roots, 1)
	assert.Equal(t, 2, sel.TotalKeys)
	assert.True(t, sel.Valid(allAt(access.None), DungeonState{KeysCollected: 2}))

	c.set("small_keys", false)
	c.set("vanilla_keys", true)
	snapshot := cat.Select(ids.EasternPalace, true)
	c.set("vanilla_keys", false)
	require.Len(t, snapshot.Roots, 1, "a selection is a snapshot")

	o := allAt(access.None)
	assert.False(t, snapshot.Valid(o, DungeonState{}), "neither child end is met")
	c.set("hookshot", true)
	assert.True(t, snapshot.Valid(o, DungeonState{}))
	assert.Equal(t, []string{"standard"}, snapshot.Matching(o, DungeonState{}))
}

func TestSelectUnknownDungeon(t *testing.T) {
	cat, _ := buildCatalog(t, easternYAML)

	_, err := cat.Lookup(ids.GanonsTower, false)
	assert.ErrorIs(t, err, ErrUnknownDungeon)
	_, err = cat.Dungeon(ids.GanonsTower)
	assert.ErrorIs(t, err, ErrUnknownDungeon)
	_, err = cat.Layouts(ids.GanonsTower, false)
	assert.ErrorIs(t, err, ErrUnknownDungeon)

	requirePanicsWith(t, ErrUnknownDungeon, func() { cat.Select(ids.GanonsTower, false) })
}

func TestSelectionNilOracle(t *testing.T) {
	cat, c := buildCatalog(t, easternYAML)
	c.set("small_keys", true)
	sel := cat.Select(ids.EasternPalace, false)
	requirePanicsWith(t, ErrNilOracle, func() { sel.Valid(nil, DungeonState{}) })
}

func TestDungeonOverrides(t *testing.T) {
	cat, _ := buildCatalog(t, `
dungeons:
  - dungeon: TowerOfHera
    small_keys: 2
    key_drops: 1
    layouts:
      - root: {kind: small, keys: 1, locations: [ToHBasementCage, ToHMapChest]}
`)
	d, err := cat.Dungeon(ids.TowerOfHera)
	require.NoError(t, err)
	assert.Equal(t, 2, d.TotalKeys(false))
	assert.Equal(t, 3, d.TotalKeys(true))

	layouts, err := cat.Layouts(ids.TowerOfHera, true)
	require.NoError(t, err)
	require.Len(t, layouts, 1)
	assert.Equal(t, "layout-0", layouts[0].Name)
	assert.Equal(t, requirement.Requirement(requirement.Always), layouts[0].Gate)
}

func TestDefinitionErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		msg  string
	}{
		{name: "empty", yaml: "", msg: "empty"},
		{name: "unknown field", yaml: "dungeons: []\nextra: 1\n", msg: "decode"},
		{name: "no dungeons", yaml: "dungeons: []\n", msg: "invalid"},
		{name: "bad kind", yaml: "dungeons:\n  - dungeon: EasternPalace\n    layouts:\n      - root: {kind: chest}\n", msg: "invalid"},
		{name: "negative keys", yaml: "dungeons:\n  - dungeon: EasternPalace\n    layouts:\n      - root: {kind: small, keys: -1}\n", msg: "invalid"},
		{name: "no layouts", yaml: "dungeons:\n  - dungeon: EasternPalace\n", msg: "invalid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDefinition([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
	}{
		{
			name:    "unknown dungeon",
			yaml:    "dungeons:\n  - dungeon: Atlantis\n    layouts:\n      - root: {kind: end}\n",
			wantErr: ids.ErrUnknown,
		},
		{
			name:    "unknown location",
			yaml:    "dungeons:\n  - dungeon: EasternPalace\n    layouts:\n      - root: {kind: big, locations: [Nowhere]}\n",
			wantErr: ids.ErrUnknown,
		},
		{
			name:    "location of another dungeon",
			yaml:    "dungeons:\n  - dungeon: EasternPalace\n    layouts:\n      - root: {kind: big, locations: [DPBigKeyChest]}\n",
			wantErr: ids.ErrUnknown,
		},
		{
			name: "duplicate dungeon",
			yaml: "dungeons:\n  - dungeon: EasternPalace\n    layouts:\n      - root: {kind: end}\n  - dungeon: EasternPalace\n    layouts:\n      - root: {kind: end}\n",
		},
		{
			name: "duplicate location",
			yaml: "dungeons:\n  - dungeon: EasternPalace\n    layouts:\n      - root: {kind: small, keys: 1, locations: [EPMapChest, EPMapChest]}\n",
		},
		{
			name: "big key without locations",
			yaml: "dungeons:\n  - dungeon: EasternPalace\n    layouts:\n      - root: {kind: big}\n",
		},
		{
			name: "end with children",
			yaml: "dungeons:\n  - dungeon: EasternPalace\n    layouts:\n      - root: {kind: end, children: [{kind: end}]}\n",
		},
		{
			name: "small key with requirement",
			yaml: "dungeons:\n  - dungeon: EasternPalace\n    layouts:\n      - root: {kind: small, requires: bow}\n",
		},
		{
			name: "gate does not compile",
			yaml: "dungeons:\n  - dungeon: EasternPalace\n    layouts:\n      - gate: bad gate\n        root: {kind: end}\n",
		},
		{
			name: "nested requirement does not compile",
			yaml: "dungeons:\n  - dungeon: EasternPalace\n    layouts:\n      - root: {kind: big, locations: [EPBigKeyChest], children: [{kind: end, requires: bad}]}\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := ParseDefinition([]byte(tt.yaml))
			require.NoError(t, err)
			_, err = Build(def, newFlagCompiler())
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			}
		})
	}

	_, err := Build(nil, newFlagCompiler())
	assert.Error(t, err)
	_, err = Build(&Definition{}, nil)
	assert.Error(t, err)
}

func TestRenderGolden(t *testing.T) {
	cat, _ := buildCatalog(t, easternYAML)
	layouts, err := cat.Layouts(ids.EasternPalace, true)
	require.NoError(t, err)

	var sb strings.Builder
	for _, l := range layouts {
		fmt.Fprintf(&sb, "%s:\n", l.Name)
		sb.WriteString(Render(l.Root))
	}

	g := goldie.New(t)
	g.Assert(t, "eastern_palace", []byte(sb.String()))
}

func TestSweepKeepsOrder(t *testing.T) {
	cat, c := buildCatalog(t, easternYAML)
	c.set("vanilla_keys", true)
	c.set("bow", true)
	sel := cat.Select(ids.EasternPalace, true)

	states := EnumerateStates(sel.TotalKeys, false)
	require.Len(t, states, 6)

	// Only the big key chest is open: the big key may be collected, and the
	// small key bound follows from two inaccessible slots in the list.
	o := StaticOracle{Default: access.None, Levels: map[ids.LocationID]access.Level{
		ids.EPBigKeyChest: access.Normal,
	}}
	results, err := Sweep(context.Background(), sel, states, StaticSource(o), 2)
	require.NoError(t, err)
	require.Len(t, results, len(states))

	for i, r := range results {
		assert.Equal(t, states[i], r.State)
		assert.Equal(t, sel.Valid(o, r.State), r.Valid, r.State.String())
	}
}

func TestSweepSmallKeyBounds(t *testing.T) {
	cat, c := buildCatalog(t, easternYAML)
	c.set("vanilla_keys", true)
	c.set("bow", true)
	sel := cat.Select(ids.EasternPalace, true)

	o := StaticOracle{Default: access.None, Levels: map[ids.LocationID]access.Level{
		ids.EPBigKeyChest: access.Normal,
	}}
	results, err := Sweep(context.Background(), sel, EnumerateStates(sel.TotalKeys, false), StaticSource(o), 0)
	require.NoError(t, err)

	valid := map[DungeonState]bool{}
	for _, r := range results {
		valid[r.State] = r.Valid
	}
	// Without the big key one of the two slots is blocked by it, leaving
	// one inaccessible slot: 0..2 keys.
	assert.True(t, valid[DungeonState{KeysCollected: 0}])
	assert.True(t, valid[DungeonState{KeysCollected: 2}])
	// With the big key both slots are inaccessible: at most 1 key.
	assert.True(t, valid[DungeonState{KeysCollected: 1, BigKeyCollected: true}])
	assert.False(t, valid[DungeonState{KeysCollected: 2, BigKeyCollected: true}])
}

func TestSweepPropagatesOracleErrors(t *testing.T) {
	cat, c := buildCatalog(t, easternYAML)
	c.set("small_keys", true)
	sel := cat.Select(ids.EasternPalace, false)

	boom := errors.New("solver failed")
	source := func(_ context.Context, s DungeonState) (Oracle, error) {
		if s.BigKeyCollected {
			return nil, boom
		}
		return allAt(access.Normal), nil
	}
	_, err := Sweep(context.Background(), sel, EnumerateStates(3, false), source, 4)
	assert.ErrorIs(t, err, boom)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Sweep(ctx, sel, EnumerateStates(3, false), StaticSource(allAt(access.Normal)), 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEnumerateStates(t *testing.T) {
	states := EnumerateStates(1, true)
	assert.Equal(t, []DungeonState{
		{KeysCollected: 0, BigKeyCollected: false, SequenceBreakAllowed: true},
		{KeysCollected: 0, BigKeyCollected: true, SequenceBreakAllowed: true},
		{KeysCollected: 1, BigKeyCollected: false, SequenceBreakAllowed: true},
		{KeysCollected: 1, BigKeyCollected: true, SequenceBreakAllowed: true},
	}, states)
	assert.Len(t, EnumerateStates(-3, false), 2)
}

func TestParseOracle(t *testing.T) {
	o, err := ParseOracle([]byte(`
default: none
locations:
  EPBigKeyChest: Normal
  EPMapChest: sequencebreak
`))
	require.NoError(t, err)
	assert.Equal(t, access.None, o.Accessibility(ids.EPBoss))
	assert.Equal(t, access.Normal, o.Accessibility(ids.EPBigKeyChest))
	assert.Equal(t, access.SequenceBreak, o.Accessibility(ids.EPMapChest))

	empty, err := ParseOracle(nil)
	require.NoError(t, err)
	assert.Equal(t, access.None, empty.Accessibility(ids.EPBoss))

	_, err = ParseOracle([]byte("locations:\n  Nowhere: Normal\n"))
	assert.ErrorIs(t, err, ids.ErrUnknown)
	_, err = ParseOracle([]byte("default: Sideways\n"))
	assert.Error(t, err)
	_, err = ParseOracle([]byte("locations:\n  EPBoss: Sideways\n"))
	assert.Error(t, err)
}
