// Package engine ties the tracker core together: it loads the world graph
// and key layouts, owns the live inventory and mode, and answers
// reachability and key layout queries.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/yaml.v3"

	"github.com/trackerlab/keylogic/pkg/config"
	"github.com/trackerlab/keylogic/pkg/data"
	"github.com/trackerlab/keylogic/pkg/graph"
	"github.com/trackerlab/keylogic/pkg/keylayout"
	"github.com/trackerlab/keylogic/pkg/requirement"
	"github.com/trackerlab/keylogic/pkg/state"
	"github.com/trackerlab/keylogic/pkg/storage"
	"github.com/trackerlab/keylogic/pkg/telemetry"
)

// ErrNotLoaded is returned by queries issued before Load succeeded.
var ErrNotLoaded = errors.New("engine data not loaded")

// Engine is the runtime core.
type Engine struct {
	Logger *slog.Logger
	Tracer trace.Tracer

	Inventory *state.Inventory
	Mode      *state.Mode

	config      config.Config
	store       storage.BlobStore
	embedded    storage.BlobStore
	evaluations metric.Int64Counter

	// mu serialises graph access; propagation is single-threaded.
	mu      sync.Mutex
	env     *requirement.Env
	graph   *graph.Graph
	catalog *keylayout.Catalog
}

// Option defines a functional configuration override.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.Logger = l
	}
}

// WithConfig sets the configuration. The logger follows cfg.Log unless
// WithLogger is also given.
func WithConfig(cfg config.Config) Option {
	return func(e *Engine) {
		e.config = cfg
	}
}

// WithStore reads data.world, data.layouts and data.inventory as keys of s
// instead of resolving them as paths or s3:// URIs.
func WithStore(s storage.BlobStore) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithTracer sets the tracer used for engine spans.
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) {
		e.Tracer = t
	}
}

// NewLogger builds the process logger described by cfg.
func NewLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.JSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// New initializes the Engine. Data is not read until Load.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		Tracer:   telemetry.Tracer(),
		config:   config.DefaultConfig(),
		embedded: storage.NewFSStore(data.FS),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.Logger == nil {
		e.Logger = NewLogger(e.config.Log, os.Stderr)
	}

	settings, err := e.config.Mode.Settings()
	if err != nil {
		return nil, fmt.Errorf("invalid mode: %w", err)
	}
	e.Mode = state.NewMode(settings)
	e.Inventory = state.NewInventory(nil)

	counter, err := telemetry.Meter().Int64Counter("keylogic.layout.evaluations",
		metric.WithDescription("Dungeon states probed against key layouts"),
	)
	if err != nil {
		e.Logger.Warn("Evaluation counter unavailable", "error", err)
		counter = noop.Int64Counter{}
	}
	e.evaluations = counter
	return e, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() config.Config { return e.config }

// Load reads, parses and builds the world graph and key layout catalog.
func (e *Engine) Load(ctx context.Context) (err error) {
	ctx, span := e.Tracer.Start(ctx, "Engine.Load")
	defer span.End()
	defer e.recoverPanic(span, &err)

	worldSrc, err := e.read(ctx, e.config.Data.World, data.WorldFile)
	if err != nil {
		return e.fail(span, fmt.Errorf("world: %w", err))
	}
	layoutSrc, err := e.read(ctx, e.config.Data.Layouts, data.LayoutsFile)
	if err != nil {
		return e.fail(span, fmt.Errorf("layouts: %w", err))
	}
	var counts map[string]int
	if e.config.Data.Inventory != "" {
		raw, err := e.read(ctx, e.config.Data.Inventory, "")
		if err != nil {
			return e.fail(span, fmt.Errorf("inventory: %w", err))
		}
		if err := yaml.Unmarshal(raw, &counts); err != nil {
			return e.fail(span, fmt.Errorf("inventory: %w", err))
		}
	}

	worldDef, err := graph.ParseDefinition(worldSrc)
	if err != nil {
		return e.fail(span, err)
	}
	layoutDef, err := keylayout.ParseDefinition(layoutSrc)
	if err != nil {
		return e.fail(span, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for item, n := range counts {
		e.Inventory.Set(item, n)
	}
	env, err := requirement.NewEnv(e.Inventory, e.Mode, requirement.WithLogger(e.Logger))
	if err != nil {
		return e.fail(span, err)
	}
	g, err := graph.Build(worldDef, env, e.Mode, graph.WithLogger(e.Logger))
	if err != nil {
		env.Close()
		return e.fail(span, err)
	}
	cat, err := keylayout.Build(layoutDef, env, keylayout.WithLogger(e.Logger))
	if err != nil {
		g.Close()
		env.Close()
		return e.fail(span, err)
	}
	if e.graph != nil {
		e.graph.Close()
		e.env.Close()
	}
	e.env, e.graph, e.catalog = env, g, cat

	span.SetAttributes(
		attribute.Int("graph.edges", len(worldDef.Edges)),
		attribute.Int("layout.dungeons", len(layoutDef.Dungeons)),
	)
	e.Logger.Info("Engine data loaded",
		"edges", len(worldDef.Edges),
		"dungeons", len(layoutDef.Dungeons),
		"items", len(counts),
	)
	return nil
}

// read resolves a configured data source. An empty uri selects the
// embedded file named fallback.
func (e *Engine) read(ctx context.Context, uri, fallback string) ([]byte, error) {
	switch {
	case uri == "":
		return e.embedded.Get(ctx, fallback)
	case e.store != nil:
		return e.store.Get(ctx, uri)
	default:
		return storage.Fetch(ctx, uri)
	}
}

func (e *Engine) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	e.Logger.Error("Engine operation failed", "error", err)
	return err
}

// recoverPanic turns configuration defects raised as panics into errors.
func (e *Engine) recoverPanic(span trace.Span, errp *error) {
	r := recover()
	if r == nil {
		return
	}
	err, ok := r.(error)
	if !ok {
		err = fmt.Errorf("panic: %v", r)
	}
	span.RecordError(err, trace.WithStackTrace(true))
	span.SetStatus(codes.Error, "configuration defect")
	e.Logger.Error("Configuration defect", "error", err, "stack", string(debug.Stack()))
	*errp = err
}
