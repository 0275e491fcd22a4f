package requirement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trackerlab/keylogic/pkg/state"
)

func TestStatic(t *testing.T) {
	assert.True(t, Always.Met())
	assert.False(t, Never.Met())
	Always.Subscribe(func() { t.Fatal("static requirement notified") })()
}

func TestFlag(t *testing.T) {
	f := NewFlag(false)
	calls := 0
	f.Subscribe(func() { calls++ })

	f.Set(false)
	f.Set(true)
	f.Set(true)
	assert.True(t, f.Met())
	assert.Equal(t, 1, calls)
}

func TestAllAny(t *testing.T) {
	a, b := NewFlag(true), NewFlag(false)
	all := All(a, b)
	anyOf := Any(a, b)

	allCalls, anyCalls := 0, 0
	all.Subscribe(func() { allCalls++ })
	anyOf.Subscribe(func() { anyCalls++ })

	assert.False(t, all.Met())
	assert.True(t, anyOf.Met())

	b.Set(true)
	assert.True(t, all.Met())
	assert.Equal(t, 1, allCalls)
	assert.Equal(t, 0, anyCalls)

	a.Set(false)
	b.Set(false)
	assert.False(t, anyOf.Met())
	assert.Equal(t, 1, anyCalls)

	assert.Equal(t, Always, All())
	assert.Equal(t, Never, Any())
	assert.Equal(t, Requirement(a), All(a))
}

func newTestEnv(t *testing.T) (*Env, *state.Inventory, *state.Mode) {
	t.Helper()
	inv := state.NewInventory(nil)
	mode := state.NewMode(state.Settings{})
	env, err := NewEnv(inv, mode)
	require.NoError(t, err)
	return env, inv, mode
}

func TestExprTracksInventory(t *testing.T) {
	env, inv, _ := newTestEnv(t)

	r, err := env.Parse("has(items.hookshot) && items.sword >= 2")
	require.NoError(t, err)
	assert.False(t, r.Met())

	calls := 0
	r.Subscribe(func() { calls++ })

	inv.Add("hookshot", 1)
	assert.False(t, r.Met())
	inv.Add("sword", 2)
	assert.True(t, r.Met())
	inv.Add("bow", 1)
	assert.Equal(t, 1, calls)
}

func TestExprTracksMode(t *testing.T) {
	env, _, mode := newTestEnv(t)

	r, err := env.Parse("mode.entrance_shuffle >= 2 || mode.small_key_shuffle")
	require.NoError(t, err)
	assert.False(t, r.Met())

	mode.SetEntranceShuffle(state.EntranceAll)
	assert.True(t, r.Met())
	mode.SetEntranceShuffle(state.EntranceDungeon)
	assert.False(t, r.Met())
	mode.SetSmallKeyShuffle(true)
	assert.True(t, r.Met())
}

func TestEnvCloseStopsRefresh(t *testing.T) {
	env, inv, mode := newTestEnv(t)

	items, err := env.Parse("has(items.lamp)")
	require.NoError(t, err)
	keys, err := env.Parse("mode.small_key_shuffle")
	require.NoError(t, err)

	env.Close()
	env.Close()
	inv.Add("lamp", 1)
	mode.SetSmallKeyShuffle(true)
	assert.False(t, items.Met())
	assert.False(t, keys.Met())
}

func TestExprCompileErrors(t *testing.T) {
	env, _, _ := newTestEnv(t)

	_, err := env.Parse("items.hookshot +")
	assert.Error(t, err)

	_, err = env.Parse("items.hookshot + 1")
	assert.ErrorContains(t, err, "must be boolean")

	r, err := env.Parse("   ")
	require.NoError(t, err)
	assert.Equal(t, Always, r)
}

func TestExprShared(t *testing.T) {
	env, _, _ := newTestEnv(t)
	a, err := env.Compile("has(items.lamp)")
	require.NoError(t, err)
	b, err := env.Compile("has(items.lamp)")
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, "has(items.lamp)", a.String())
}
