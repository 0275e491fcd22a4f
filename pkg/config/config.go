package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/trackerlab/keylogic/pkg/state"
)

var validate = validator.New()

// Config is the full runtime configuration.
type Config struct {
	Mode      ModeConfig      `mapstructure:"mode"`
	Data      DataConfig      `mapstructure:"data"`
	Log       LogConfig       `mapstructure:"log"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Sweep     SweepConfig     `mapstructure:"sweep"`
}

// ModeConfig is the game mode as named in config files.
type ModeConfig struct {
	EntranceShuffle string `mapstructure:"entrance_shuffle" validate:"oneof=none dungeon all insanity"`
	KeyDropShuffle  bool   `mapstructure:"key_drop_shuffle"`
	SequenceBreaks  bool   `mapstructure:"sequence_breaks"`
	SmallKeyShuffle bool   `mapstructure:"small_key_shuffle"`
	BigKeyShuffle   bool   `mapstructure:"big_key_shuffle"`
	ItemPlacement   string `mapstructure:"item_placement" validate:"oneof=basic advanced"`
	WorldState      string `mapstructure:"world_state" validate:"oneof=standard open inverted"`
}

// DataConfig names the data sources. Empty values select the embedded data.
type DataConfig struct {
	// World is the graph definition, a path or s3://bucket/key.
	World string `mapstructure:"world"`
	// Layouts is the key layout definition, a path or s3://bucket/key.
	Layouts string `mapstructure:"layouts"`
	// Inventory is an optional YAML map of item counts.
	Inventory string `mapstructure:"inventory"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

type TelemetryConfig struct {
	// Endpoint is the OTLP HTTP endpoint; OTEL_EXPORTER_OTLP_ENDPOINT is used
	// when empty.
	Endpoint string `mapstructure:"endpoint" validate:"omitempty,url"`
	Disabled bool   `mapstructure:"disabled"`
}

type SweepConfig struct {
	// Concurrency bounds parallel probes; zero means unbounded.
	Concurrency int `mapstructure:"concurrency" validate:"min=0"`
}

// New returns a viper instance wired for keylogic: defaults, KEYLOGIC_*
// environment variables and YAML config files.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigType("yaml")
	return v
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Mode.EntranceShuffle = strings.ToLower(cfg.Mode.EntranceShuffle)
	cfg.Mode.ItemPlacement = strings.ToLower(cfg.Mode.ItemPlacement)
	cfg.Mode.WorldState = strings.ToLower(cfg.Mode.WorldState)
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)

	if err := validate.Struct(&cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Settings converts the mode into state.Settings.
func (m ModeConfig) Settings() (state.Settings, error) {
	es, err := state.ParseEntranceShuffle(m.EntranceShuffle)
	if err != nil {
		return state.Settings{}, err
	}
	ip, err := state.ParseItemPlacement(m.ItemPlacement)
	if err != nil {
		return state.Settings{}, err
	}
	ws, err := state.ParseWorldState(m.WorldState)
	if err != nil {
		return state.Settings{}, err
	}
	return state.Settings{
		EntranceShuffle: es,
		KeyDropShuffle:  m.KeyDropShuffle,
		SequenceBreaks:  m.SequenceBreaks,
		SmallKeyShuffle: m.SmallKeyShuffle,
		BigKeyShuffle:   m.BigKeyShuffle,
		ItemPlacement:   ip,
		WorldState:      ws,
	}, nil
}

// SlogLevel maps Level onto slog.
func (l LogConfig) SlogLevel() slog.Level {
	switch l.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
