// SPDX-License-Identifier: MPL-2.0

package collect

import "github.com/codeatlas/atlasscan/internal/host"

// RestrictToSelectedUnits limits the traversal to the units currently selected
// in src and their containing units. A failed selection query is logged and
// leaves the selection empty, which prunes every unit.
func (c *Collector) RestrictToSelectedUnits(src host.SelectionSource) {
	c.onlySelected = true
	clear(c.selectedIDs)
	clear(c.selectedNames)

	if src == nil {
		return
	}
	units, err := src.CurrentSelection()
	if err != nil {
		c.logger.Warn("reading host selection failed", "error", err)
		return
	}
	for _, u := range units {
		if u == nil {
			continue
		}
		c.selectedNames[u.Name()] = struct{}{}
		c.selectWithAncestors(u)
	}
}

// selectWithAncestors marks u and every unit containing it. The walk follows
// ParentItem().ContainingUnit() up to the workspace root and stops at the
// first unit seen twice.
func (c *Collector) selectWithAncestors(u host.Unit) {
	visited := make(map[string]struct{})
	for cur := u; cur != nil; {
		id := cur.UniqueName()
		if _, seen := visited[id]; seen {
			return
		}
		visited[id] = struct{}{}
		c.selectedIDs[id] = struct{}{}

		parent := cur.ParentItem()
		if parent == nil {
			return
		}
		cur = parent.ContainingUnit()
	}
}

// IsSelected reports whether the unit with the given unique name is part of
// the selection. It is always true when no restriction is active.
func (c *Collector) IsSelected(uniqueName string) bool {
	if !c.onlySelected {
		return true
	}
	_, ok := c.selectedIDs[uniqueName]
	return ok
}
