package ast

import (
	"fmt"

	"fortio.org/safecast"
)

// NodeID identifies an AST node for the lifetime of one compilation attempt.
// Passes attach their results to IDs instead of mutating the tree.
type NodeID uint32

const NoNodeID NodeID = 0

func (id NodeID) IsValid() bool { return id != NoNodeID }

// IDCounter allocates NodeIDs. It is owned by the caller and threaded
// explicitly: the parser draws IDs from it and the pass manager receives it
// afterwards, so independent compilations never share allocation state.
type IDCounter struct {
	last NodeID
}

// NewIDCounter returns a counter whose next ID is start+1.
func NewIDCounter(start NodeID) *IDCounter {
	return &IDCounter{last: start}
}

// Next allocates a fresh ID.
func (c *IDCounter) Next() NodeID {
	if c.last == ^NodeID(0) {
		panic("ast: node id space exhausted")
	}
	c.last++
	return c.last
}

// Count reports how many IDs have been handed out (the highest ID so far).
func (c *IDCounter) Count() NodeID { return c.last }

// Observe makes sure future IDs are greater than id. Decoders call it for
// every node they read so that later passes can keep allocating.
func (c *IDCounter) Observe(id NodeID) {
	if id > c.last {
		c.last = id
	}
}

// Reserve allocates n consecutive IDs and returns the first.
func (c *IDCounter) Reserve(n int) NodeID {
	count, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("reserve ids: %w", err))
	}
	first := c.last + 1
	c.last += NodeID(count)
	return first
}

// Qualifier names one compilation unit.
type Qualifier struct {
	Package string `msgpack:"p"`
	Module  string `msgpack:"m"`
}

func (q Qualifier) String() string {
	return q.Package + "::" + q.Module
}

// Less orders qualifiers by package, then module.
func (q Qualifier) Less(other Qualifier) bool {
	if q.Package != other.Package {
		return q.Package < other.Package
	}
	return q.Module < other.Module
}
