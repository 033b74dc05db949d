// SPDX-License-Identifier: MPL-2.0

package report

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/codeatlas/atlasscan/internal/collect"
	"github.com/codeatlas/atlasscan/internal/depgraph"

	"github.com/charmbracelet/glamour"
)

type (
	// Options configures a Renderer.
	Options struct {
		// Format is the output encoding. The zero value is FormatText.
		Format Format
		// GlamourTheme renders Markdown output for a terminal ("auto", "dark",
		// "light", "notty", ...). Empty emits the Markdown source.
		GlamourTheme string
		// Width wraps rendered Markdown; 0 keeps glamour's default.
		Width int
	}

	// Renderer writes reports in one format.
	Renderer struct {
		opts Options
	}

	// Dependencies is the input of a dependency report.
	Dependencies struct {
		Units      []depgraph.DependencyInfo `json:"units"`
		BuildOrder []string                  `json:"build_order,omitempty"`
		Waves      [][]string                `json:"waves,omitempty"`
		// Cycle lists the units left unordered when the graph is cyclic.
		Cycle []string `json:"cycle,omitempty"`
	}

	// Counts is the input of a count report.
	Counts struct {
		Units int `json:"units"`
		Items int `json:"items"`
	}

	// section is a titled list shared by the text and Markdown encoders.
	section struct {
		title string
		lines []string
	}
)

// New creates a Renderer.
func New(opts Options) *Renderer {
	if opts.Format == "" {
		opts.Format = FormatText
	}
	return &Renderer{opts: opts}
}

// Format returns the output encoding.
func (r *Renderer) Format() Format {
	return r.opts.Format
}

// Collection writes a collection result.
func (r *Renderer) Collection(w io.Writer, res collect.Result) error {
	if r.opts.Format == FormatJSON {
		return writeJSON(w, res)
	}

	title := "Workspace " + res.WorkspaceName
	summary := []string{
		"path: " + res.WorkspacePath,
		"folder: " + res.WorkspaceFolder,
		fmt.Sprintf("main language: %s", displayLanguage(res.MainLanguage)),
	}
	if len(res.SelectedUnits) > 0 {
		summary = append(summary, "selected: "+strings.Join(res.SelectedUnits, ", "))
	}

	langs := make([]string, 0, len(res.LanguageCount))
	for _, lang := range slices.Sorted(maps.Keys(res.LanguageCount)) {
		langs = append(langs, fmt.Sprintf("%s: %d", displayLanguage(lang), res.LanguageCount[lang]))
	}

	return r.write(w, title, []section{
		{title: "Summary", lines: summary},
		{title: "Languages", lines: langs},
		{title: fmt.Sprintf("Include paths (%d)", len(res.IncludePaths)), lines: res.IncludePaths},
		{title: fmt.Sprintf("Defines (%d)", len(res.Defines)), lines: res.Defines},
		{title: fmt.Sprintf("Directories (%d)", len(res.Directories)), lines: res.Directories},
		{title: fmt.Sprintf("Files (%d)", len(res.Files)), lines: res.Files},
	})
}

// Dependencies writes a dependency report.
func (r *Renderer) Dependencies(w io.Writer, deps Dependencies) error {
	if r.opts.Format == FormatJSON {
		return writeJSON(w, deps)
	}

	sections := make([]section, 0, len(deps.Units)+2)
	for _, u := range deps.Units {
		sections = append(sections, section{
			title: u.Name,
			lines: []string{
				"path: " + u.FullPath,
				"id: " + u.UniqueName,
				fmt.Sprintf("items: %d", u.ItemCount),
				"depends on: " + joinOrNone(u.Lower),
				"required by: " + joinOrNone(u.Higher),
			},
		})
	}
	if len(deps.Cycle) > 0 {
		sections = append(sections, section{title: "Dependency cycle", lines: deps.Cycle})
	} else {
		sections = append(sections, section{title: "Build order", lines: numbered(deps.BuildOrder)})
		waves := make([]string, 0, len(deps.Waves))
		for i, wave := range deps.Waves {
			waves = append(waves, fmt.Sprintf("wave %d: %s", i+1, strings.Join(wave, ", ")))
		}
		sections = append(sections, section{title: "Build waves", lines: waves})
	}
	return r.write(w, fmt.Sprintf("Dependencies (%d units)", len(deps.Units)), sections)
}

// Counts writes unit and item totals.
func (r *Renderer) Counts(w io.Writer, c Counts) error {
	if r.opts.Format == FormatJSON {
		return writeJSON(w, c)
	}
	return r.write(w, "Totals", []section{{
		title: "Counts",
		lines: []string{fmt.Sprintf("units: %d", c.Units), fmt.Sprintf("items: %d", c.Items)},
	}})
}

// Paths writes a plain list, one path per line in text mode.
func (r *Renderer) Paths(w io.Writer, title string, paths []string) error {
	switch r.opts.Format {
	case FormatJSON:
		if paths == nil {
			paths = []string{}
		}
		return writeJSON(w, paths)
	case FormatMarkdown:
		return r.write(w, title, []section{{title: title, lines: paths}})
	default:
		for _, p := range paths {
			if _, err := fmt.Fprintln(w, p); err != nil {
				return err
			}
		}
		return nil
	}
}

func (r *Renderer) write(w io.Writer, title string, sections []section) error {
	var out string
	if r.opts.Format == FormatMarkdown {
		md := markdown(title, sections)
		if r.opts.GlamourTheme == "" {
			out = md
		} else {
			rendered, err := r.renderMarkdown(md)
			if err != nil {
				return fmt.Errorf("rendering markdown: %w", err)
			}
			out = rendered
		}
	} else {
		out = text(title, sections)
	}
	_, err := io.WriteString(w, out)
	return err
}

func (r *Renderer) renderMarkdown(md string) (string, error) {
	var rendererOpts []glamour.TermRendererOption
	if r.opts.GlamourTheme == "auto" {
		rendererOpts = append(rendererOpts, glamour.WithAutoStyle())
	} else {
		rendererOpts = append(rendererOpts, glamour.WithStandardStyle(r.opts.GlamourTheme))
	}
	if r.opts.Width > 0 {
		rendererOpts = append(rendererOpts, glamour.WithWordWrap(r.opts.Width))
	}

	renderer, err := glamour.NewTermRenderer(rendererOpts...)
	if err != nil {
		return "", err
	}
	return renderer.Render(md)
}

func text(title string, sections []section) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n")
	for _, s := range sections {
		sb.WriteString("\n")
		sb.WriteString(labelStyle.Render(s.title))
		sb.WriteString("\n")
		if len(s.lines) == 0 {
			sb.WriteString(mutedStyle.Render("  (none)"))
			sb.WriteString("\n")
			continue
		}
		style := valueStyle
		if s.title == "Dependency cycle" {
			style = errorStyle
		}
		for _, line := range s.lines {
			sb.WriteString("  ")
			sb.WriteString(style.Render(line))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func markdown(title string, sections []section) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n", title)
	for _, s := range sections {
		fmt.Fprintf(&sb, "\n## %s\n\n", s.title)
		if len(s.lines) == 0 {
			sb.WriteString("_none_\n")
			continue
		}
		for _, line := range s.lines {
			fmt.Fprintf(&sb, "- `%s`\n", line)
		}
	}
	return sb.String()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func displayLanguage(l collect.Language) string {
	if l == collect.LanguageUnknown {
		return "unknown"
	}
	return string(l)
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

func numbered(items []string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = fmt.Sprintf("%d. %s", i+1, item)
	}
	return out
}
