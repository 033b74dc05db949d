// SPDX-License-Identifier: MPL-2.0

package collect

import "strings"

// defaultExtensions lists the file extensions collected out of the box.
var defaultExtensions = []string{
	".c", ".cc", ".cxx", ".cpp", ".c++", ".inl", ".h", ".hh", ".hxx", ".hpp", ".h++", ".inc",
	".java", ".ii", ".ixx", ".ipp", ".i++", ".idl", ".ddl", ".odl",
	".cs",
	".d", ".php", ".php4", ".php5", ".phtml", ".m", ".markdown", ".md", ".mm", ".dox",
	".py",
	".f90", ".f", ".for",
	".tcl",
	".vhd", ".vhdl", ".ucf", ".qsf",
	".as", ".js",
}

// DefaultExtensions returns a copy of the built-in extension allow-list.
func DefaultExtensions() []string {
	out := make([]string, len(defaultExtensions))
	copy(out, defaultExtensions)
	return out
}

// normalizeExtension lowercases ext and enforces a leading dot. It returns ""
// for a blank extension.
func normalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" || ext == "." {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
