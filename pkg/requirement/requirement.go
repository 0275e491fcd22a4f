// Package requirement implements the boolean predicates that gate graph
// connections and key layout trees.
package requirement

import (
	"sync/atomic"

	"github.com/trackerlab/keylogic/pkg/observe"
)

// Requirement is a predicate over tracker state with change notification.
// Met must be safe to call from multiple goroutines.
type Requirement interface {
	Met() bool
	// Subscribe registers fn to run after Met changes value.
	Subscribe(fn func()) (cancel func())
}

type static bool

func (s static) Met() bool { return bool(s) }

func (static) Subscribe(func()) func() { return func() {} }

var (
	// Always is met unconditionally.
	Always Requirement = static(true)
	// Never is never met.
	Never Requirement = static(false)
)

// Flag is a requirement toggled directly by the caller.
type Flag struct {
	met     atomic.Bool
	changed observe.Signal
}

// NewFlag returns a Flag with the given initial value.
func NewFlag(met bool) *Flag {
	f := &Flag{}
	f.met.Store(met)
	return f
}

func (f *Flag) Met() bool { return f.met.Load() }

// Set stores v and notifies subscribers if the value changed.
func (f *Flag) Set(v bool) {
	if f.met.Swap(v) != v {
		f.changed.Notify(struct{}{})
	}
}

func (f *Flag) Subscribe(fn func()) func() {
	return f.changed.Subscribe(func(struct{}) { fn() })
}

// composite caches the fold of its children and refreshes on child change.
type composite struct {
	children []Requirement
	fold     func([]Requirement) bool
	met      atomic.Bool
	changed  observe.Signal
}

func newComposite(children []Requirement, fold func([]Requirement) bool) *composite {
	c := &composite{children: children, fold: fold}
	c.met.Store(fold(children))
	for _, child := range children {
		child.Subscribe(c.refresh)
	}
	return c
}

func (c *composite) refresh() {
	next := c.fold(c.children)
	if c.met.Swap(next) != next {
		c.changed.Notify(struct{}{})
	}
}

func (c *composite) Met() bool { return c.met.Load() }

func (c *composite) Subscribe(fn func()) func() {
	return c.changed.Subscribe(func(struct{}) { fn() })
}

// All is met when every child is met. All() is Always.
func All(children ...Requirement) Requirement {
	switch len(children) {
	case 0:
		return Always
	case 1:
		return children[0]
	}
	return newComposite(children, func(rs []Requirement) bool {
		for _, r := range rs {
			if !r.Met() {
				return false
			}
		}
		return true
	})
}

// Any is met when at least one child is met. Any() is Never.
func Any(children ...Requirement) Requirement {
	switch len(children) {
	case 0:
		return Never
	case 1:
		return children[0]
	}
	return newComposite(children, func(rs []Requirement) bool {
		for _, r := range rs {
			if r.Met() {
				return true
			}
		}
		return false
	})
}
