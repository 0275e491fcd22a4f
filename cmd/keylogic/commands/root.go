package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/trackerlab/keylogic/pkg/config"
	"github.com/trackerlab/keylogic/pkg/engine"
	"github.com/trackerlab/keylogic/pkg/ids"
	"github.com/trackerlab/keylogic/pkg/telemetry"
	"github.com/trackerlab/keylogic/pkg/version"
)

// app is the state shared by the commands of one invocation.
type app struct {
	v        *viper.Viper
	cfgFile  string
	items    map[string]int
	engine   *engine.Engine
	shutdown telemetry.Shutdown
}

// flag name -> config key
var boundFlags = map[string]string{
	"entrance-shuffle":  "mode.entrance_shuffle",
	"key-drop-shuffle":  "mode.key_drop_shuffle",
	"sequence-breaks":   "mode.sequence_breaks",
	"small-key-shuffle": "mode.small_key_shuffle",
	"big-key-shuffle":   "mode.big_key_shuffle",
	"item-placement":    "mode.item_placement",
	"world-state":       "mode.world_state",
	"world":             "data.world",
	"layouts":           "data.layouts",
	"inventory":         "data.inventory",
	"log-level":         "log.level",
	"log-json":          "log.json",
	"otel-endpoint":     "telemetry.endpoint",
	"no-telemetry":      "telemetry.disabled",
	"concurrency":       "sweep.concurrency",
}

// NewRootCmd builds the keylogic command tree.
func NewRootCmd() *cobra.Command {
	a := &app{v: config.New()}
	d := config.DefaultConfig()

	root := &cobra.Command{
		Use:   "keylogic",
		Short: "Tracker logic for reachability and dungeon key layouts",
		Long: `keylogic - Randomizer Tracker Logic

Reachability over the world graph and key layout validation per dungeon.`,
		Version:       version.Current,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" || cmd.Name() == "help" {
				return nil
			}
			return a.start(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.stop(cmd.Context())
		},
	}

	root.CompletionOptions.DisableDefaultCmd = true

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "Config file (default $HOME/"+config.DefaultConfigName+")")
	pf.String("entrance-shuffle", d.Mode.EntranceShuffle, "Entrance shuffle: none, dungeon, all, insanity")
	pf.Bool("key-drop-shuffle", false, "Shuffle enemy and pot key drops")
	pf.Bool("sequence-breaks", false, "Count sequence breaks as accessible")
	pf.Bool("small-key-shuffle", false, "Small keys are shuffled outside their dungeon")
	pf.Bool("big-key-shuffle", false, "Big keys are shuffled outside their dungeon")
	pf.String("item-placement", d.Mode.ItemPlacement, "Item placement: basic, advanced")
	pf.String("world-state", d.Mode.WorldState, "World state: standard, open, inverted")
	pf.String("world", "", "World graph definition (path or s3://bucket/key)")
	pf.String("layouts", "", "Key layout definition (path or s3://bucket/key)")
	pf.String("inventory", "", "Inventory YAML file (path or s3://bucket/key)")
	pf.StringToIntVar(&a.items, "item", nil, "Item counts, e.g. --item glove=2,lamp=1")
	pf.String("log-level", d.Log.Level, "Log level: debug, info, warn, error")
	pf.Bool("log-json", d.Log.JSON, "Log as JSON")
	pf.String("otel-endpoint", "", "OTLP HTTP endpoint for traces")
	pf.Bool("no-telemetry", false, "Disable tracing")
	pf.Int("concurrency", d.Sweep.Concurrency, "Parallel probes during sweeps (0 = unbounded)")

	for name, key := range boundFlags {
		if err := a.v.BindPFlag(key, pf.Lookup(name)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", name, err))
		}
	}

	root.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		renderHelp(cmd.OutOrStdout(), cmd)
	})

	root.AddCommand(
		newNodesCmd(a),
		newLayoutCmd(a),
		newCheckCmd(a),
		newSweepCmd(a),
		newVersionCmd(),
	)
	return root
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func (a *app) readConfig() error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config %s: %w", a.cfgFile, err)
		}
		return nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	path := filepath.Join(home, config.DefaultConfigName)
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	a.v.SetConfigFile(path)
	return a.v.ReadInConfig()
}

func (a *app) start(cmd *cobra.Command) error {
	if err := a.readConfig(); err != nil {
		return err
	}
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	logger := engine.NewLogger(cfg.Log, cmd.ErrOrStderr())
	if !cfg.Telemetry.Disabled {
		shutdown, err := telemetry.Init(ctx, telemetry.Options{
			ServiceName:    version.AppName,
			ServiceVersion: version.Current,
			Endpoint:       cfg.Telemetry.Endpoint,
		})
		if err != nil {
			logger.Warn("Telemetry failed", "error", err)
		} else {
			a.shutdown = shutdown
		}
	}

	e, err := engine.New(engine.WithConfig(cfg), engine.WithLogger(logger))
	if err != nil {
		return err
	}
	if err := e.Load(ctx); err != nil {
		return err
	}
	for item, n := range a.items {
		e.SetItem(item, n)
	}
	a.engine = e
	return nil
}

func (a *app) stop(ctx context.Context) error {
	if a.shutdown == nil {
		return nil
	}
	return a.shutdown(ctx)
}

func parseDungeon(name string) (ids.DungeonID, error) {
	d, err := ids.ParseDungeon(name)
	if err != nil {
		names := make([]string, 0, ids.DungeonCount)
		for _, id := range ids.Dungeons() {
			names = append(names, id.String())
		}
		return 0, fmt.Errorf("%w (known: %s)", err, strings.Join(names, ", "))
	}
	return d, nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

var errInvalid = errors.New("dungeon state is not consistent with any key layout")

func renderHelp(w io.Writer, cmd *cobra.Command) {
	st := newStyles(w)

	fmt.Fprintln(w, st.title.Render(version.String()))
	fmt.Fprintln(w, "Randomizer tracker logic: reachability and key layouts.")
	fmt.Fprintln(w)

	fmt.Fprintln(w, st.title.Render("USAGE"))
	fmt.Fprintf(w, "  %s\n\n", cmd.UseLine())

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintln(w, st.title.Render("COMMANDS"))
		for _, c := range cmd.Commands() {
			if c.IsAvailableCommand() {
				fmt.Fprintf(w, "  %-12s %s\n", c.Name(), c.Short)
			}
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, st.title.Render("FLAGS"))
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		line := fmt.Sprintf("  --%-18s %s", f.Name, f.Usage)
		if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "0" && f.DefValue != "[]" {
			line += fmt.Sprintf(" (default %s)", f.DefValue)
		}
		fmt.Fprintln(w, st.muted.Render(line))
	})
	fmt.Fprintln(w)
}
