package graph

import (
	"github.com/trackerlab/keylogic/pkg/access"
	"github.com/trackerlab/keylogic/pkg/ids"
	"github.com/trackerlab/keylogic/pkg/observe"
	"github.com/trackerlab/keylogic/pkg/requirement"
)

type signal = observe.Signal

// Connection carries accessibility from a source node into a target node.
// While its requirement is met it passes the source level through, capped
// at its ceiling; otherwise it contributes None.
type Connection struct {
	source  *Node
	target  ids.NodeID
	req     requirement.Requirement
	ceiling access.Level
	level   access.Level
	changed signal
}

func newConnection(source *Node, target ids.NodeID, req requirement.Requirement, ceiling access.Level) *Connection {
	c := &Connection{source: source, target: target, req: req, ceiling: ceiling}
	c.level = c.current()
	source.Subscribe(c.refresh)
	req.Subscribe(c.refresh)
	return c
}

func (c *Connection) Source() ids.NodeID { return c.source.id }

func (c *Connection) Target() ids.NodeID { return c.target }

func (c *Connection) Requirement() requirement.Requirement { return c.req }

// Ceiling is the highest level c can contribute.
func (c *Connection) Ceiling() access.Level { return c.ceiling }

func (c *Connection) cap(l access.Level) access.Level {
	if l > c.ceiling {
		return c.ceiling
	}
	return l
}

// Level returns the cached contribution, derived from the source's cached level.
func (c *Connection) Level() access.Level { return c.level }

// Accessibility evaluates the contribution of c without reading caches,
// skipping any node held by excluded.
func (c *Connection) Accessibility(excluded Guard) access.Level {
	if !c.req.Met() {
		return access.None
	}
	return c.cap(c.source.g.accessibility(c.source, excluded))
}

// Subscribe registers fn to run after the cached contribution changes.
func (c *Connection) Subscribe(fn func()) (cancel func()) {
	return c.changed.Subscribe(func(struct{}) { fn() })
}

func (c *Connection) current() access.Level {
	if !c.req.Met() {
		return access.None
	}
	return c.cap(c.source.level)
}

func (c *Connection) refresh() {
	next := c.current()
	if next == c.level {
		return
	}
	c.level = next
	c.changed.Notify(struct{}{})
}
