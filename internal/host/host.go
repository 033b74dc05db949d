// SPDX-License-Identifier: MPL-2.0

// Package host defines the read-only view of a workspace object model that the
// traversal engine and its collectors consume.
//
// A workspace contains units (projects); a unit contains items (files, folders,
// virtual entries); an item may contain further items and may stand for a
// nested unit. Implementations adapt a concrete host (an IDE automation model,
// a manifest file, a test fake) to these interfaces. None of the consumers ever
// mutate the host.
package host

const (
	// KindOther is any item that is neither a physical file nor a physical folder.
	KindOther ItemKind = iota
	// KindFile is a physical file on disk.
	KindFile
	// KindFolder is a physical folder on disk.
	KindFolder
)

type (
	// ItemKind classifies an item.
	ItemKind int

	// Workspace is the root of the hierarchy (a solution).
	Workspace interface {
		// FilePath is the path of the workspace file. Empty for an unsaved workspace.
		FilePath() string
		// Units returns the top-level units in host order.
		Units() []Unit
		// OpenDocuments returns the full paths of documents currently open in the host.
		OpenDocuments() ([]string, error)
		// Dependencies returns the workspace-global build dependency declarations.
		Dependencies() ([]Dependency, error)
	}

	// Unit is a compile unit (a project).
	Unit interface {
		// Name is the display name.
		Name() string
		// UniqueName is a stable identifier, unique within the workspace.
		UniqueName() string
		// FullPath is the absolute path of the unit file.
		FullPath() string
		// Items returns the unit's direct children in host order.
		Items() []Item
		// Language returns the raw code-model language identifier of the unit.
		// An empty string means the host exposes no code model.
		Language() (string, error)
		// CompilerSettings returns the active build-configuration store, or nil
		// when the unit has none.
		CompilerSettings() (*CompilerSettings, error)
		// ParentItem returns the item this unit is nested under, or nil for a
		// top-level unit.
		ParentItem() Item
	}

	// Item is a node below a unit.
	Item interface {
		// Name is the display name.
		Name() string
		// Kind classifies the item.
		Kind() ItemKind
		// FilePaths returns the file paths associated with the item.
		FilePaths() []string
		// Items returns the item's children in host order.
		Items() []Item
		// SubUnit returns the nested unit this item represents, or nil.
		SubUnit() Unit
		// ContainingUnit returns the unit that owns this item, or nil.
		ContainingUnit() Unit
	}

	// CompilerSettings holds the evaluated build properties of a unit's active
	// configuration. List-valued properties are raw ';'-delimited strings.
	CompilerSettings struct {
		// IncludePath is the unit-level include directory list.
		IncludePath string
		// AdditionalIncludeDirectories is the compiler-specific include directory list.
		AdditionalIncludeDirectories string
		// PreprocessorDefinitions is the macro definition list.
		PreprocessorDefinitions string
	}

	// Dependency declares that Target requires every unit in Required to be
	// built first.
	Dependency struct {
		Target   Unit
		Required []Unit
	}

	// SelectionSource reports the units currently selected in the host.
	SelectionSource interface {
		CurrentSelection() ([]Unit, error)
	}
)

// String returns the lowercase kind name.
func (k ItemKind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindFolder:
		return "folder"
	default:
		return "other"
	}
}

// ParseItemKind maps a kind name to an ItemKind. Unknown names map to KindOther.
func ParseItemKind(s string) ItemKind {
	switch s {
	case "file":
		return KindFile
	case "folder":
		return KindFolder
	default:
		return KindOther
	}
}
