// SPDX-License-Identifier: MPL-2.0

// Package counter tallies the units and items reachable in a workspace.
package counter

import (
	"github.com/codeatlas/atlasscan/internal/host"
	"github.com/codeatlas/atlasscan/internal/traverse"
)

// Counter is a traverse.Visitor counting every visited unit and item.
type Counter struct {
	traverse.Hooks

	units int
	items int
}

// New creates a zeroed Counter.
func New() *Counter { return &Counter{} }

// Traverse walks ws once, counting into c.
func (c *Counter) Traverse(ws host.Workspace) {
	traverse.Walk(ws, c)
}

func (c *Counter) BeforeUnit(host.Unit) bool {
	c.units++
	return true
}

func (c *Counter) BeforeItem(host.Item) bool {
	c.items++
	return true
}

// TotalUnits returns the number of visited units, nested units included.
func (c *Counter) TotalUnits() int { return c.units }

// TotalItems returns the number of visited items at every depth.
func (c *Counter) TotalItems() int { return c.items }
