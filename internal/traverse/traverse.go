// SPDX-License-Identifier: MPL-2.0

// Package traverse walks a host workspace depth-first in pre-order and calls a
// Visitor before and after every workspace, unit and item.
//
// A Before hook returning false prunes the node: none of its children are
// visited and the matching After hook is not called. Pruning never stops the
// rest of the walk.
package traverse

import (
	"reflect"

	"github.com/codeatlas/atlasscan/internal/host"
)

type (
	// Visitor receives the six traversal hooks. Embed Hooks to inherit the
	// defaults and override only what is needed.
	Visitor interface {
		BeforeWorkspace(ws host.Workspace) bool
		AfterWorkspace(ws host.Workspace)
		BeforeUnit(u host.Unit) bool
		AfterUnit(u host.Unit)
		BeforeItem(it host.Item) bool
		AfterItem(it host.Item)
	}

	// Hooks implements Visitor with "continue" Before hooks and empty After
	// hooks.
	Hooks struct{}

	// Funcs adapts optional callbacks to a Visitor. A nil field behaves like
	// the corresponding Hooks method.
	Funcs struct {
		OnBeforeWorkspace func(host.Workspace) bool
		OnAfterWorkspace  func(host.Workspace)
		OnBeforeUnit      func(host.Unit) bool
		OnAfterUnit       func(host.Unit)
		OnBeforeItem      func(host.Item) bool
		OnAfterItem       func(host.Item)
	}

	walker struct {
		v       Visitor
		visited map[any]struct{}
	}
)

func (Hooks) BeforeWorkspace(host.Workspace) bool { return true }
func (Hooks) AfterWorkspace(host.Workspace) {}
func (Hooks) BeforeUnit(host.Unit) bool { return true }
func (Hooks) AfterUnit(host.Unit) {}
func (Hooks) BeforeItem(host.Item) bool { return true }
func (Hooks) AfterItem(host.Item) {}

func (f Funcs) BeforeWorkspace(ws host.Workspace) bool {
	if f.OnBeforeWorkspace == nil {
		return true
	}
	return f.OnBeforeWorkspace(ws)
}

func (f Funcs) AfterWorkspace(ws host.Workspace) {
	if f.OnAfterWorkspace != nil {
		f.OnAfterWorkspace(ws)
	}
}

func (f Funcs) BeforeUnit(u host.Unit) bool {
	if f.OnBeforeUnit == nil {
		return true
	}
	return f.OnBeforeUnit(u)
}

func (f Funcs) AfterUnit(u host.Unit) {
	if f.OnAfterUnit != nil {
		f.OnAfterUnit(u)
	}
}

func (f Funcs) BeforeItem(it host.Item) bool {
	if f.OnBeforeItem == nil {
		return true
	}
	return f.OnBeforeItem(it)
}

func (f Funcs) AfterItem(it host.Item) {
	if f.OnAfterItem != nil {
		f.OnAfterItem(it)
	}
}

// Walk visits ws and everything reachable from it exactly once. For an item,
// its sub-unit is visited before its child items. A nil workspace, unit or
// item is a no-op.
func Walk(ws host.Workspace, v Visitor) {
	if ws == nil || v == nil {
		return
	}
	w := &walker{v: v, visited: make(map[any]struct{})}
	w.workspace(ws)
}

func (w *walker) workspace(ws host.Workspace) {
	if !w.v.BeforeWorkspace(ws) {
		return
	}
	for _, u := range ws.Units() {
		w.unit(u)
	}
	w.v.AfterWorkspace(ws)
}

func (w *walker) unit(u host.Unit) {
	if u == nil || !w.firstVisit(u) {
		return
	}
	if !w.v.BeforeUnit(u) {
		return
	}
	for _, it := range u.Items() {
		w.item(it)
	}
	w.v.AfterUnit(u)
}

func (w *walker) item(it host.Item) {
	if it == nil || !w.firstVisit(it) {
		return
	}
	if !w.v.BeforeItem(it) {
		return
	}
	if sub := it.SubUnit(); sub != nil {
		w.unit(sub)
	}
	for _, child := range it.Items() {
		w.item(child)
	}
	w.v.AfterItem(it)
}

// firstVisit records node and reports whether it had not been seen yet.
// Comparable nodes are tracked by equality, which is identity for pointers.
// Nodes that cannot be map keys are always new.
func (w *walker) firstVisit(node any) bool {
	if !reflect.ValueOf(node).Comparable() {
		return true
	}
	if _, seen := w.visited[node]; seen {
		return false
	}
	w.visited[node] = struct{}{}
	return true
}
