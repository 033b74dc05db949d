// SPDX-License-Identifier: MPL-2.0

package depgraph

import (
	"slices"

	"github.com/codeatlas/atlasscan/internal/dag"
)

// Graph is an immutable snapshot of a Builder.
type Graph struct {
	units map[string]DependencyInfo
	paths []string
}

// Graph snapshots the records gathered so far.
func (b *Builder) Graph() *Graph {
	g := &Graph{
		units: make(map[string]DependencyInfo, len(b.units)),
		paths: b.AllUnits(),
	}
	for path, n := range b.units {
		g.units[path] = n.export()
	}
	return g
}

// Paths returns the sorted unit paths.
func (g *Graph) Paths() []string {
	out := make([]string, len(g.paths))
	copy(out, g.paths)
	return out
}

// Unit returns a copy of the record for path.
func (g *Graph) Unit(path string) (DependencyInfo, bool) {
	info, ok := g.units[path]
	if !ok {
		return DependencyInfo{}, false
	}
	return info.clone(), true
}

// Units returns a copy of every record ordered by path.
func (g *Graph) Units() []DependencyInfo {
	out := make([]DependencyInfo, 0, len(g.paths))
	for _, p := range g.paths {
		out = append(out, g.units[p].clone())
	}
	return out
}

// BuildOrder returns the unit paths ordered so every unit follows the units it
// depends on. A cycle is reported as a *dag.CycleError.
func (g *Graph) BuildOrder() ([]string, error) {
	return g.dag().TopologicalSort()
}

// BuildWaves groups the unit paths into waves that can be built in parallel.
func (g *Graph) BuildWaves() ([][]string, error) {
	return g.dag().Layers()
}

func (g *Graph) dag() *dag.Graph {
	d := dag.New()
	for _, p := range g.paths {
		d.AddNode(p)
	}
	for _, p := range g.paths {
		for _, lower := range g.units[p].Lower {
			d.AddEdge(lower, p)
		}
	}
	return d
}

func (d DependencyInfo) clone() DependencyInfo {
	d.Lower = slices.Clone(d.Lower)
	d.Higher = slices.Clone(d.Higher)
	return d
}
