// SPDX-License-Identifier: MPL-2.0

package manifest

import "github.com/codeatlas/atlasscan/internal/host"

// Compile-time checks that the manifest model satisfies the host contract.
var (
	_ host.Workspace       = (*Workspace)(nil)
	_ host.SelectionSource = (*Workspace)(nil)
	_ host.Unit            = (*Unit)(nil)
	_ host.Item            = (*Item)(nil)
)

type (
	// Workspace is a host.Workspace loaded from a manifest file. It is
	// immutable once loaded.
	Workspace struct {
		manifestPath string
		path         string
		units        []*Unit
		docs         []string
		deps         []host.Dependency
		selection    []*Unit
	}

	// Unit is one unit of a manifest workspace.
	Unit struct {
		name      string
		id        string
		path      string
		language  string
		settings  *host.CompilerSettings
		items     []*Item
		parent    *Item
		dependsOn []string
		detached  bool
	}

	// Item is one item of a manifest workspace.
	Item struct {
		name  string
		kind  host.ItemKind
		files []string
		items []*Item
		sub   *Unit
		owner *Unit
	}
)

// ManifestPath returns the absolute '/'-separated path of the manifest file.
func (w *Workspace) ManifestPath() string { return w.manifestPath }

func (w *Workspace) FilePath() string { return w.path }

func (w *Workspace) Units() []host.Unit {
	out := make([]host.Unit, len(w.units))
	for i, u := range w.units {
		out[i] = u
	}
	return out
}

func (w *Workspace) OpenDocuments() ([]string, error) {
	return append([]string(nil), w.docs...), nil
}

func (w *Workspace) Dependencies() ([]host.Dependency, error) {
	return append([]host.Dependency(nil), w.deps...), nil
}

// CurrentSelection returns the units named by the manifest selection.
func (w *Workspace) CurrentSelection() ([]host.Unit, error) {
	out := make([]host.Unit, len(w.selection))
	for i, u := range w.selection {
		out[i] = u
	}
	return out, nil
}

func (u *Unit) Name() string { return u.name }
func (u *Unit) UniqueName() string { return u.id }
func (u *Unit) FullPath() string { return u.path }

// Detached reports whether the unit only exists as an unresolved dependency
// reference and is not part of the tree.
func (u *Unit) Detached() bool { return u.detached }

func (u *Unit) Items() []host.Item { return hostItems(u.items) }

func (u *Unit) Language() (string, error) { return u.language, nil }

func (u *Unit) CompilerSettings() (*host.CompilerSettings, error) {
	if u.settings == nil {
		return nil, nil
	}
	s := *u.settings
	return &s, nil
}

func (u *Unit) ParentItem() host.Item {
	if u.parent == nil {
		return nil
	}
	return u.parent
}

func (i *Item) Name() string { return i.name }
func (i *Item) Kind() host.ItemKind { return i.kind }
func (i *Item) FilePaths() []string { return append([]string(nil), i.files...) }
func (i *Item) Items() []host.Item { return hostItems(i.items) }

func (i *Item) SubUnit() host.Unit {
	if i.sub == nil {
		return nil
	}
	return i.sub
}

func (i *Item) ContainingUnit() host.Unit {
	if i.owner == nil {
		return nil
	}
	return i.owner
}

func hostItems(items []*Item) []host.Item {
	out := make([]host.Item, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out
}
