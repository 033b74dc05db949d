// SPDX-License-Identifier: MPL-2.0

// Package hosttest provides an in-memory host model for tests of the traversal
// engine and collectors.
//
// Trees are built with the Add* helpers, which wire parent and containing-unit
// back-references automatically. Exported fields allow injecting host failures.
package hosttest

import (
	"path/filepath"

	"github.com/codeatlas/atlasscan/internal/host"
)

type (
	// Workspace is an in-memory host.Workspace that also acts as a
	// host.SelectionSource.
	Workspace struct {
		Path         string
		UnitList     []*Unit
		Docs         []string
		DocsErr      error
		Deps         []host.Dependency
		DepsErr      error
		Selection    []*Unit
		SelectionErr error
	}

	// Unit is an in-memory host.Unit.
	Unit struct {
		DisplayName string
		ID          string
		Path        string
		Lang        string
		LangErr     error
		Settings    *host.CompilerSettings
		SettingsErr error
		ItemList    []*Item
		Parent      *Item
	}

	// Item is an in-memory host.Item.
	Item struct {
		DisplayName string
		ItemKind    host.ItemKind
		Files       []string
		Children    []*Item
		Sub         *Unit
		Owner       *Unit
	}
)

// NewWorkspace creates an empty workspace stored at path.
func NewWorkspace(path string) *Workspace {
	return &Workspace{Path: path}
}

// AddUnit appends a top-level unit. The unique name defaults to the base name
// of path.
func (w *Workspace) AddUnit(name, path string) *Unit {
	u := newUnit(name, path)
	w.UnitList = append(w.UnitList, u)
	return u
}

// AddDependency declares that target requires each of required.
func (w *Workspace) AddDependency(target host.Unit, required ...host.Unit) {
	w.Deps = append(w.Deps, host.Dependency{Target: target, Required: required})
}

// Select marks units as the current host selection.
func (w *Workspace) Select(units ...*Unit) {
	w.Selection = append(w.Selection, units...)
}

func (w *Workspace) FilePath() string { return w.Path }

func (w *Workspace) Units() []host.Unit {
	out := make([]host.Unit, 0, len(w.UnitList))
	for _, u := range w.UnitList {
		out = append(out, unitOrNil(u))
	}
	return out
}

func (w *Workspace) OpenDocuments() ([]string, error) {
	if w.DocsErr != nil {
		return nil, w.DocsErr
	}
	return w.Docs, nil
}

func (w *Workspace) Dependencies() ([]host.Dependency, error) {
	if w.DepsErr != nil {
		return nil, w.DepsErr
	}
	return w.Deps, nil
}

// CurrentSelection implements host.SelectionSource.
func (w *Workspace) CurrentSelection() ([]host.Unit, error) {
	if w.SelectionErr != nil {
		return nil, w.SelectionErr
	}
	out := make([]host.Unit, 0, len(w.Selection))
	for _, u := range w.Selection {
		out = append(out, unitOrNil(u))
	}
	return out, nil
}

func newUnit(name, path string) *Unit {
	return &Unit{DisplayName: name, ID: filepath.Base(path), Path: path}
}

// AddFile appends a physical file item owning the given file paths.
func (u *Unit) AddFile(name string, files ...string) *Item {
	it := &Item{DisplayName: name, ItemKind: host.KindFile, Files: files, Owner: u}
	u.ItemList = append(u.ItemList, it)
	return it
}

// AddFolder appends a physical folder item.
func (u *Unit) AddFolder(name string) *Item {
	it := &Item{DisplayName: name, ItemKind: host.KindFolder, Owner: u}
	u.ItemList = append(u.ItemList, it)
	return it
}

// AddSubUnit appends an item that stands for a nested unit and returns the
// nested unit.
func (u *Unit) AddSubUnit(name, path string) *Unit {
	it := &Item{DisplayName: name, ItemKind: host.KindOther, Owner: u}
	u.ItemList = append(u.ItemList, it)
	return it.attach(name, path)
}

func (u *Unit) Name() string { return u.DisplayName }
func (u *Unit) UniqueName() string { return u.ID }
func (u *Unit) FullPath() string { return u.Path }

func (u *Unit) Items() []host.Item {
	return itemsOf(u.ItemList)
}

func (u *Unit) Language() (string, error) {
	if u.LangErr != nil {
		return "", u.LangErr
	}
	return u.Lang, nil
}

func (u *Unit) CompilerSettings() (*host.CompilerSettings, error) {
	if u.SettingsErr != nil {
		return nil, u.SettingsErr
	}
	return u.Settings, nil
}

func (u *Unit) ParentItem() host.Item {
	if u.Parent == nil {
		return nil
	}
	return u.Parent
}

// AddFile appends a physical file child.
func (i *Item) AddFile(name string, files ...string) *Item {
	child := &Item{DisplayName: name, ItemKind: host.KindFile, Files: files, Owner: i.Owner}
	i.Children = append(i.Children, child)
	return child
}

// AddFolder appends a physical folder child.
func (i *Item) AddFolder(name string) *Item {
	child := &Item{DisplayName: name, ItemKind: host.KindFolder, Owner: i.Owner}
	i.Children = append(i.Children, child)
	return child
}

// AddSubUnit appends a child item standing for a nested unit and returns the
// nested unit.
func (i *Item) AddSubUnit(name, path string) *Unit {
	child := &Item{DisplayName: name, ItemKind: host.KindOther, Owner: i.Owner}
	i.Children = append(i.Children, child)
	return child.attach(name, path)
}

func (i *Item) attach(name, path string) *Unit {
	sub := newUnit(name, path)
	sub.Parent = i
	i.Sub = sub
	return sub
}

func (i *Item) Name() string { return i.DisplayName }
func (i *Item) Kind() host.ItemKind { return i.ItemKind }
func (i *Item) FilePaths() []string { return i.Files }
func (i *Item) Items() []host.Item { return itemsOf(i.Children) }
func (i *Item) SubUnit() host.Unit { return unitOrNil(i.Sub) }
func (i *Item) ContainingUnit() host.Unit { return unitOrNil(i.Owner) }

func itemsOf(items []*Item) []host.Item {
	out := make([]host.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			out = append(out, nil)
			continue
		}
		out = append(out, it)
	}
	return out
}

// unitOrNil keeps a nil *Unit from becoming a non-nil interface value.
func unitOrNil(u *Unit) host.Unit {
	if u == nil {
		return nil
	}
	return u
}
