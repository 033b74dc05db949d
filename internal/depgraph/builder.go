// SPDX-License-Identifier: MPL-2.0

// Package depgraph builds the project dependency graph of a workspace.
//
// A Builder registers every unit it visits and, once the walk is complete,
// wires the dependency edges the host reports between registered units. Edges
// are always stored in both directions: if A lists B in Lower then B lists A
// in Higher.
package depgraph

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/codeatlas/atlasscan/internal/host"
	"github.com/codeatlas/atlasscan/internal/traverse"
)

type (
	// DependencyInfo describes one unit of the graph.
	DependencyInfo struct {
		Name       string   `json:"name"`
		UniqueName string   `json:"unique_name"`
		FullPath   string   `json:"full_path"`
		ItemCount  int      `json:"item_count"`
		Lower      []string `json:"lower"`
		Higher     []string `json:"higher"`
	}

	// Option configures a Builder.
	Option func(*Builder)

	// Builder is a traverse.Visitor that accumulates DependencyInfo records
	// keyed by unit full path.
	Builder struct {
		traverse.Hooks

		logger *slog.Logger
		units  map[string]*node
	}

	node struct {
		name       string
		uniqueName string
		fullPath   string
		itemCount  int
		lower      map[string]struct{}
		higher     map[string]struct{}
	}
)

// WithLogger sets the logger used for diagnostics. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBuilder creates an empty Builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		logger: slog.Default(),
		units:  make(map[string]*node),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Traverse walks ws once and wires its dependencies.
func (b *Builder) Traverse(ws host.Workspace) {
	traverse.Walk(ws, b)
}

// BeforeUnit registers the unit identity.
func (b *Builder) BeforeUnit(u host.Unit) bool {
	path := u.FullPath()
	if _, ok := b.units[path]; !ok {
		b.units[path] = &node{
			name:       u.Name(),
			uniqueName: u.UniqueName(),
			fullPath:   path,
			lower:      make(map[string]struct{}),
			higher:     make(map[string]struct{}),
		}
	}
	return true
}

// BeforeItem counts the item against its containing unit when that unit is
// registered.
func (b *Builder) BeforeItem(it host.Item) bool {
	owner := it.ContainingUnit()
	if owner == nil {
		return true
	}
	path := owner.FullPath()
	if path == "" {
		return true
	}
	if n, ok := b.units[path]; ok {
		n.itemCount++
	}
	return true
}

// AfterWorkspace wires the host dependency records.
func (b *Builder) AfterWorkspace(ws host.Workspace) {
	deps, err := ws.Dependencies()
	if err != nil {
		b.logger.Warn("reading build dependencies failed", "workspace", ws.FilePath(), "error", err)
		return
	}
	b.wireEdges(deps)
}

// wireEdges adds an edge for every record whose target and required unit are
// both registered. Anything else is skipped.
func (b *Builder) wireEdges(deps []host.Dependency) {
	for _, dep := range deps {
		if dep.Target == nil || len(dep.Required) == 0 {
			continue
		}
		target, ok := b.units[dep.Target.FullPath()]
		if !ok {
			b.logger.Debug("dependency target not traversed", "unit", dep.Target.Name())
			continue
		}
		for _, req := range dep.Required {
			if req == nil {
				continue
			}
			src, ok := b.units[req.FullPath()]
			if !ok {
				b.logger.Debug("required unit not traversed", "unit", req.Name(), "target", target.name)
				continue
			}
			src.higher[target.fullPath] = struct{}{}
			target.lower[src.fullPath] = struct{}{}
		}
	}
}

// Unit returns the record registered under path.
func (b *Builder) Unit(path string) (DependencyInfo, bool) {
	n, ok := b.units[path]
	if !ok {
		return DependencyInfo{}, false
	}
	return n.export(), true
}

// AllUnits returns the sorted paths of every registered unit.
func (b *Builder) AllUnits() []string {
	return slices.Sorted(maps.Keys(b.units))
}

func (n *node) export() DependencyInfo {
	return DependencyInfo{
		Name:       n.name,
		UniqueName: n.uniqueName,
		FullPath:   n.fullPath,
		ItemCount:  n.itemCount,
		Lower:      sortedKeys(n.lower),
		Higher:     sortedKeys(n.higher),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return []string{}
	}
	return slices.Sorted(maps.Keys(set))
}
