package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trackerlab/keylogic/pkg/access"
	"github.com/trackerlab/keylogic/pkg/ids"
	"github.com/trackerlab/keylogic/pkg/requirement"
	"github.com/trackerlab/keylogic/pkg/state"
)

const worldYAML = `
edges:
  - from: Start
    to: LinksHouse
  - from: LinksHouse
    to: LightWorld
  - from: LightWorld
    to: DeathMountainEntry
    requires: has(items.glove) || has(items.flute)
  - from: DeathMountainEntry
    to: DeathMountainWestBottom
    requires: has(items.lamp)
    ceiling: SequenceBreak
  - from: DeathMountainEntry
    to: DeathMountainWestBottom
    requires: has(items.lamp) && mode.item_placement == "advanced"
entrances:
  - node: PyramidLedge
    tier: all
    count: 2
`

func TestBuildFromDefinition(t *testing.T) {
	def, err := ParseDefinition([]byte(worldYAML))
	require.NoError(t, err)
	require.Len(t, def.Edges, 5)

	inv := state.NewInventory(nil)
	mode := state.NewMode(state.Settings{})
	env, err := requirement.NewEnv(inv, mode)
	require.NoError(t, err)

	g, err := Build(def, env, mode)
	require.NoError(t, err)

	assert.Equal(t, access.Normal, g.Level(ids.LightWorld))
	assert.Equal(t, access.None, g.Level(ids.DeathMountainEntry))
	assert.Equal(t, 2, g.Node(ids.PyramidLedge).Entrances(TierAll))
	assert.Equal(t, access.None, g.Level(ids.PyramidLedge))

	inv.Add("flute", 1)
	inv.Add("lamp", 1)
	assert.Equal(t, access.Normal, g.Level(ids.DeathMountainEntry))
	assert.Equal(t, access.SequenceBreak, g.Level(ids.DeathMountainWestBottom))

	mode.SetItemPlacement(state.PlacementAdvanced)
	assert.Equal(t, access.Normal, g.Level(ids.DeathMountainWestBottom))

	mode.SetEntranceShuffle(state.EntranceAll)
	assert.Equal(t, access.Normal, g.Level(ids.PyramidLedge))
}

func TestParseDefinitionErrors(t *testing.T) {
	cases := map[string]string{
		"empty":         ``,
		"no edges":      "edges: []\n",
		"unknown field": "edges:\n  - from: Start\n    to: LightWorld\n    weight: 3\n",
		"missing to":    "edges:\n  - from: Start\n",
		"bad tier":      "edges:\n  - {from: Start, to: LightWorld}\nentrances:\n  - {node: LightWorld, tier: sideways, count: 1}\n",
		"bad ceiling":   "edges:\n  - {from: Start, to: LightWorld, ceiling: Sometimes}\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseDefinition([]byte(src))
			assert.Error(t, err)
		})
	}
}

func TestBuildRejectsUnknownIdentities(t *testing.T) {
	inv := state.NewInventory(nil)
	mode := state.NewMode(state.Settings{})
	env, err := requirement.NewEnv(inv, mode)
	require.NoError(t, err)

	def, err := ParseDefinition([]byte("edges:\n  - {from: Start, to: Atlantis}\n"))
	require.NoError(t, err)
	_, err = Build(def, env, mode)
	assert.ErrorIs(t, err, ids.ErrUnknown)

	def, err = ParseDefinition([]byte("edges:\n  - {from: Start, to: LightWorld, requires: 'items.'}\n"))
	require.NoError(t, err)
	_, err = Build(def, env, mode)
	assert.Error(t, err)

	def, err = ParseDefinition([]byte("edges:\n  - {from: Start, to: LightWorld, ceiling: None}\n"))
	require.NoError(t, err)
	_, err = Build(def, env, mode)
	assert.ErrorContains(t, err, "ceiling None")
}
