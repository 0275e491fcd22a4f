package requirement

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/cel-go/cel"

	"github.com/trackerlab/keylogic/pkg/observe"
	"github.com/trackerlab/keylogic/pkg/state"
)

// Env compiles requirement expressions written in CEL. Expressions see two
// variables:
//
//	items  map(string, int)  counts of held items; absent keys are not held
//	mode   map(string, dyn)  the current state.Settings (see Settings.Vars)
//
// Looking up an absent item is an evaluation error, which leaves the
// requirement unmet; use has(items.name) to test for presence.
type Env struct {
	env    *cel.Env
	inv    *state.Inventory
	mode   *state.Mode
	logger *slog.Logger

	mu     sync.Mutex
	cache  map[string]*Expr
	exprs  []*Expr
	cancel []func()
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithLogger sets the logger used to report evaluation failures.
func WithLogger(l *slog.Logger) EnvOption {
	return func(e *Env) {
		e.logger = l
	}
}

// NewEnv creates an expression environment bound to inv and mode. Compiled
// expressions are refreshed whenever either source changes.
func NewEnv(inv *state.Inventory, mode *state.Mode, opts ...EnvOption) (*Env, error) {
	env, err := cel.NewEnv(
		cel.Variable("items", cel.MapType(cel.StringType, cel.IntType)),
		cel.Variable("mode", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL env: %w", err)
	}

	e := &Env{
		env:    env,
		inv:    inv,
		mode:   mode,
		logger: slog.Default(),
		cache:  make(map[string]*Expr),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.cancel = []func(){
		inv.Subscribe(func(string) { e.refreshAll() }),
		mode.Subscribe(func(state.Property) { e.refreshAll() }),
	}
	return e, nil
}

// Close detaches e from its inventory and mode. Expressions compiled by e
// keep their last value and stop refreshing.
func (e *Env) Close() {
	for _, cancel := range e.cancel {
		cancel()
	}
	e.cancel = nil
}

// Parse compiles src into a Requirement. Blank source is Always. Identical
// sources share one compiled expression.
func (e *Env) Parse(src string) (Requirement, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return Always, nil
	}
	return e.Compile(src)
}

// Compile compiles src, which must produce a bool.
func (e *Env) Compile(src string) (*Expr, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if x, ok := e.cache[src]; ok {
		return x, nil
	}

	ast, issues := e.env.Compile(src)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("requirement %q compilation error: %w", src, issues.Err())
	}
	if out := ast.OutputType(); !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("requirement %q must be boolean, got %s", src, out)
	}
	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("requirement %q program creation error: %w", src, err)
	}

	x := &Expr{src: src, prg: prg, owner: e}
	x.met.Store(x.eval(e.vars()))
	e.cache[src] = x
	e.exprs = append(e.exprs, x)
	return x, nil
}

func (e *Env) vars() map[string]any {
	counts := e.inv.Snapshot()
	items := make(map[string]int64, len(counts))
	for k, v := range counts {
		items[k] = int64(v)
	}
	return map[string]any{
		"items": items,
		"mode":  e.mode.Settings().Vars(),
	}
}

func (e *Env) refreshAll() {
	e.mu.Lock()
	exprs := make([]*Expr, len(e.exprs))
	copy(exprs, e.exprs)
	e.mu.Unlock()

	vars := e.vars()
	for _, x := range exprs {
		x.refresh(vars)
	}
}

// Expr is a compiled requirement expression.
type Expr struct {
	src     string
	prg     cel.Program
	owner   *Env
	met     atomic.Bool
	changed observe.Signal
}

func (x *Expr) Met() bool { return x.met.Load() }

func (x *Expr) Subscribe(fn func()) func() {
	return x.changed.Subscribe(func(struct{}) { fn() })
}

func (x *Expr) String() string { return x.src }

func (x *Expr) eval(vars map[string]any) bool {
	out, _, err := x.prg.Eval(vars)
	if err != nil {
		x.owner.logger.Debug("Requirement evaluated to error", "expr", x.src, "error", err)
		return false
	}
	met, ok := out.Value().(bool)
	return ok && met
}

func (x *Expr) refresh(vars map[string]any) {
	next := x.eval(vars)
	if x.met.Swap(next) != next {
		x.changed.Notify(struct{}{})
	}
}
