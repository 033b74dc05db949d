// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"

	"golang.org/x/exp/maps"
)

const (
	ManifestNotFoundId Id = iota + 1
	ManifestParseErrorId
	UnsupportedManifestFormatId
	ConfigLoadFailedId
	InvalidIncludeScopeId
	DependencyCycleId
)

type (
	// Id identifies a catalog entry.
	Id int

	// MarkdownMsg is the Markdown body of a catalog entry.
	MarkdownMsg string

	// HttpLink is a documentation URL.
	HttpLink string

	// Issue is a help page shown next to an error.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
	}
)

var (
	render = glamour.Render

	manifestNotFoundIssue = &Issue{
		id: ManifestNotFoundId,
		mdMsg: `
# Workspace manifest not found!

atlasscan reads the workspace layout from a manifest file.

## Things you can try:
- Pass the manifest path explicitly:
~~~
$ atlasscan collect ./workspace.cue
~~~
- Create a minimal manifest:
~~~cue
units: [
  {name: "app", path: "app/app.vcxproj", language: "cpp"},
]
~~~`,
	}

	manifestParseErrorIssue = &Issue{
		id: ManifestParseErrorId,
		mdMsg: `
# The workspace manifest is invalid

The manifest does not match the workspace schema. The error above names the
offending field, for example ` + "`units[0].items[2].kind`" + `.

## Common mistakes:
- ` + "`kind`" + ` must be one of ` + "`file`, `folder` or `other`" + `
- every unit needs a ` + "`name`" + ` and a non-empty ` + "`path`" + `
- unit ` + "`id`" + ` values must be unique`,
	}

	unsupportedManifestFormatIssue = &Issue{
		id: UnsupportedManifestFormatId,
		mdMsg: `
# Unsupported manifest format

Manifests may be written in CUE (` + "`.cue`" + `), TOML (` + "`.toml`" + `),
YAML (` + "`.yaml`, `.yml`" + `) or JSON (` + "`.json`" + `). The format is chosen from the
file extension.`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load the configuration

## Things you can try:
- Show the effective configuration:
~~~
$ atlasscan config show
~~~
- Write a fresh default file:
~~~
$ atlasscan config init --force
~~~`,
	}

	invalidIncludeScopeIssue = &Issue{
		id: InvalidIncludeScopeId,
		mdMsg: `
# Unknown include scope

Valid scopes are:
- ` + "`project-folders`" + ` collects the files listed by every unit
- ` + "`open-folders`" + ` collects the documents open in the host
- ` + "`none`" + ` collects no files`,
	}

	dependencyCycleIssue = &Issue{
		id: DependencyCycleId,
		mdMsg: `
# Dependency cycle detected

The listed units depend on each other, so no build order exists. Remove one
of the ` + "`depends_on`" + ` entries along the cycle.`,
	}

	issues = map[Id]*Issue{
		manifestNotFoundIssue.Id():          manifestNotFoundIssue,
		manifestParseErrorIssue.Id():        manifestParseErrorIssue,
		unsupportedManifestFormatIssue.Id(): unsupportedManifestFormatIssue,
		configLoadFailedIssue.Id():          configLoadFailedIssue,
		invalidIncludeScopeIssue.Id():       invalidIncludeScopeIssue,
		dependencyCycleIssue.Id():           dependencyCycleIssue,
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

// Render renders the entry with the named glamour style ("dark", "light",
// "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	md := string(i.mdMsg)
	if len(i.docLinks) > 0 {
		var sb strings.Builder
		sb.WriteString(md)
		sb.WriteString("\n\n## See also:\n")
		for _, link := range i.docLinks {
			sb.WriteString("- [" + string(link) + "](" + string(link) + ")\n")
		}
		md = sb.String()
	}
	return render(md, stylePath)
}

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	out := maps.Values(issues)
	slices.SortFunc(out, func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
	return out
}

// Get returns the catalog entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
