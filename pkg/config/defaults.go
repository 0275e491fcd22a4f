// Package config defines the runtime configuration and its defaults.
package config

import (
	"runtime"

	"github.com/spf13/viper"
)

// Defaults.
const (
	DefaultLogLevel    = "info"
	DefaultConfigName  = ".keylogic.yaml"
	EnvPrefix          = "KEYLOGIC"
	DefaultServiceName = "keylogic"
)

// DefaultConfig returns a configuration with the stock game mode: no
// entrance shuffle, vanilla keys, basic placement in the open world.
func DefaultConfig() Config {
	return Config{
		Mode: ModeConfig{
			EntranceShuffle: "none",
			ItemPlacement:   "basic",
			WorldState:      "open",
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
			JSON:  true,
		},
		Sweep: SweepConfig{
			Concurrency: runtime.GOMAXPROCS(0),
		},
	}
}

// SetDefaults registers DefaultConfig with v so every key is known to
// Unmarshal and AutomaticEnv.
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("mode.entrance_shuffle", d.Mode.EntranceShuffle)
	v.SetDefault("mode.key_drop_shuffle", d.Mode.KeyDropShuffle)
	v.SetDefault("mode.sequence_breaks", d.Mode.SequenceBreaks)
	v.SetDefault("mode.small_key_shuffle", d.Mode.SmallKeyShuffle)
	v.SetDefault("mode.big_key_shuffle", d.Mode.BigKeyShuffle)
	v.SetDefault("mode.item_placement", d.Mode.ItemPlacement)
	v.SetDefault("mode.world_state", d.Mode.WorldState)
	v.SetDefault("data.world", d.Data.World)
	v.SetDefault("data.layouts", d.Data.Layouts)
	v.SetDefault("data.inventory", d.Data.Inventory)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.json", d.Log.JSON)
	v.SetDefault("telemetry.endpoint", d.Telemetry.Endpoint)
	v.SetDefault("telemetry.disabled", d.Telemetry.Disabled)
	v.SetDefault("sweep.concurrency", d.Sweep.Concurrency)
}
