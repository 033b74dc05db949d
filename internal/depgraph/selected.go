// SPDX-License-Identifier: MPL-2.0

package depgraph

import "github.com/codeatlas/atlasscan/internal/host"

// SelectedUnitPaths returns the full paths of the units currently selected in
// src, in selection order. Any failure yields an empty result.
func SelectedUnitPaths(src host.SelectionSource) []string {
	out := []string{}
	if src == nil {
		return out
	}
	units, err := src.CurrentSelection()
	if err != nil {
		return out
	}
	for _, u := range units {
		if u == nil {
			continue
		}
		if p := u.FullPath(); p != "" {
			out = append(out, p)
		}
	}
	return out
}
