// SPDX-License-Identifier: MPL-2.0

package collect

import (
	"maps"
	"slices"

	"github.com/codeatlas/atlasscan/pkg/fspath"
)

type (
	// UnitInfo is the build configuration extracted from one unit.
	UnitInfo struct {
		IncludePaths []string `json:"include_paths"`
		Defines      []string `json:"defines"`
		Language     Language `json:"language"`
	}

	// Result is an immutable snapshot of everything a Collector gathered.
	Result struct {
		WorkspacePath   string              `json:"workspace_path"`
		WorkspaceFolder string              `json:"workspace_folder"`
		WorkspaceName   string              `json:"workspace_name"`
		Files           []string            `json:"files"`
		Directories     []string            `json:"directories"`
		IncludePaths    []string            `json:"include_paths"`
		Defines         []string            `json:"defines"`
		LanguageCount   map[Language]int    `json:"language_count"`
		MainLanguage    Language            `json:"main_language"`
		SelectedUnits   []string            `json:"selected_units,omitempty"`
		Units           map[string]UnitInfo `json:"units"`
	}
)

// AllIncludePaths returns the sorted union of every unit's include paths.
func (c *Collector) AllIncludePaths() []string {
	all := make(map[string]struct{})
	for _, info := range c.units {
		maps.Copy(all, info.includePaths)
	}
	return sortedKeys(all)
}

// AllDefines returns the sorted union of every unit's macro definitions and
// the custom macros.
func (c *Collector) AllDefines() []string {
	all := maps.Clone(c.customMacros)
	for _, info := range c.units {
		maps.Copy(all, info.defines)
	}
	return sortedKeys(all)
}

// LanguageCount tallies the visited units by language tag. Units with an
// undetermined language are counted under LanguageUnknown.
func (c *Collector) LanguageCount() map[Language]int {
	counts := make(map[Language]int)
	for _, info := range c.units {
		counts[info.language]++
	}
	return counts
}

// MainLanguage returns the tag with the largest unit count. Ties go to the
// lexicographically smallest tag. It returns LanguageUnknown when no unit was
// visited.
func (c *Collector) MainLanguage() Language {
	counts := c.LanguageCount()
	var (
		main Language
		best int
	)
	for _, lang := range slices.Sorted(maps.Keys(counts)) {
		if counts[lang] > best {
			main, best = lang, counts[lang]
		}
	}
	return main
}

// DirectoryList returns the sorted directories holding at least one collected file.
func (c *Collector) DirectoryList() []string {
	return sortedKeys(c.directories)
}

// FileList returns the sorted collected files.
func (c *Collector) FileList() []string {
	return sortedKeys(c.files)
}

// SelectedUnitNames returns the sorted display names of the directly selected units.
func (c *Collector) SelectedUnitNames() []string {
	return sortedKeys(c.selectedNames)
}

// WorkspacePath returns the '/'-separated workspace file path.
func (c *Collector) WorkspacePath() string {
	return c.workspacePath
}

// WorkspaceFolder returns the directory containing the workspace file.
func (c *Collector) WorkspaceFolder() string {
	return fspath.Dir(c.workspacePath)
}

// WorkspaceName returns the workspace file name without its extension.
func (c *Collector) WorkspaceName() string {
	return c.workspaceName
}

// UnitInfo returns the configuration extracted from the unit with the given
// unique name.
func (c *Collector) UnitInfo(uniqueName string) (UnitInfo, bool) {
	info, ok := c.units[uniqueName]
	if !ok {
		return UnitInfo{}, false
	}
	return info.export(), true
}

// Result snapshots the collector state. The returned value shares nothing
// with c.
func (c *Collector) Result() Result {
	units := make(map[string]UnitInfo, len(c.units))
	for id, info := range c.units {
		units[id] = info.export()
	}
	return Result{
		WorkspacePath:   c.WorkspacePath(),
		WorkspaceFolder: c.WorkspaceFolder(),
		WorkspaceName:   c.WorkspaceName(),
		Files:           c.FileList(),
		Directories:     c.DirectoryList(),
		IncludePaths:    c.AllIncludePaths(),
		Defines:         c.AllDefines(),
		LanguageCount:   c.LanguageCount(),
		MainLanguage:    c.MainLanguage(),
		SelectedUnits:   c.SelectedUnitNames(),
		Units:           units,
	}
}

func (u *unitInfo) export() UnitInfo {
	return UnitInfo{
		IncludePaths: sortedKeys(u.includePaths),
		Defines:      sortedKeys(u.defines),
		Language:     u.language,
	}
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return []string{}
	}
	return slices.Sorted(maps.Keys(set))
}
