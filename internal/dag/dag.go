// SPDX-License-Identifier: MPL-2.0

// Package dag orders the units of a dependency graph for building. Nodes are
// unit paths and an edge from A to B means A must be built before B.
package dag

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCycle is the sentinel error wrapped by CycleError.
var ErrCycle = errors.New("dependency cycle")

type (
	// CycleError reports the nodes left unordered because they sit on or behind
	// a cycle. It wraps ErrCycle for errors.Is() compatibility.
	CycleError struct {
		Cycle []string
	}

	// Graph is a directed graph keyed by string node names. Node and edge
	// insertion order is kept so orderings are deterministic.
	Graph struct {
		successors map[string][]string
		edges      map[[2]string]struct{}
		nodes      []string
		nodeSet    map[string]struct{}
	}
)

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected among: %s", strings.Join(e.Cycle, ", "))
}

// Unwrap returns ErrCycle for errors.Is() compatibility.
func (e *CycleError) Unwrap() error { return ErrCycle }

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		successors: make(map[string][]string),
		edges:      make(map[[2]string]struct{}),
		nodeSet:    make(map[string]struct{}),
	}
}

// AddNode adds a node. Adding an existing node is a no-op.
func (g *Graph) AddNode(name string) {
	if _, ok := g.nodeSet[name]; ok {
		return
	}
	g.nodeSet[name] = struct{}{}
	g.nodes = append(g.nodes, name)
}

// AddEdge records that from must be built before to. Missing nodes are added
// and repeated edges are ignored.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	key := [2]string{from, to}
	if _, ok := g.edges[key]; ok {
		return
	}
	g.edges[key] = struct{}{}
	g.successors[from] = append(g.successors[from], to)
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// TopologicalSort returns a build order using Kahn's algorithm, or a
// *CycleError. Nodes that become ready at the same time keep their insertion
// order.
func (g *Graph) TopologicalSort() ([]string, error) {
	layers, err := g.Layers()
	if err != nil {
		return nil, err
	}
	var order []string
	for _, layer := range layers {
		order = append(order, layer...)
	}
	return order, nil
}

// Layers groups the nodes into build waves. Every node of a wave only depends
// on nodes of earlier waves, so the members of one wave can be built in
// parallel.
func (g *Graph) Layers() ([][]string, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	inDegree := make(map[string]int, len(g.nodes))
	for _, succ := range g.successors {
		for _, to := range succ {
			inDegree[to]++
		}
	}

	var current []string
	for _, node := range g.nodes {
		if inDegree[node] == 0 {
			current = append(current, node)
		}
	}

	var (
		layers  [][]string
		ordered int
	)
	for len(current) > 0 {
		layers = append(layers, current)
		ordered += len(current)

		var next []string
		for _, node := range current {
			for _, to := range g.successors[node] {
				inDegree[to]--
				if inDegree[to] == 0 {
					next = append(next, to)
				}
			}
		}
		current = next
	}

	if ordered != len(g.nodes) {
		var stuck []string
		for _, node := range g.nodes {
			if inDegree[node] > 0 {
				stuck = append(stuck, node)
			}
		}
		return nil, &CycleError{Cycle: stuck}
	}
	return layers, nil
}
