// SPDX-License-Identifier: MPL-2.0

// Package collect gathers the files, directories, include paths, macro
// definitions and languages of a workspace during a single traversal.
//
// A Collector is configured, traversed once, and then read:
//
//	c := collect.New(collect.WithMacros("NDEBUG"))
//	c.RestrictToSelectedUnits(ws)
//	c.Traverse(ws)
//	includes := c.AllIncludePaths()
//
// Collectors are not reset between traversals and must not be shared between
// goroutines.
package collect

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/codeatlas/atlasscan/internal/host"
	"github.com/codeatlas/atlasscan/internal/traverse"
	"github.com/codeatlas/atlasscan/pkg/fspath"

	lru "github.com/hashicorp/golang-lru/v2"
)

// defaultDirCacheSize bounds the directory existence memo.
const defaultDirCacheSize = 1024

type (
	// Option configures a Collector.
	Option func(*Collector)

	// Collector is a traverse.Visitor that accumulates workspace metadata.
	Collector struct {
		traverse.Hooks

		logger *slog.Logger
		scope  IncludeScope

		extensions   []string
		extensionSet map[string]struct{}
		customMacros map[string]struct{}

		onlySelected  bool
		selectedIDs   map[string]struct{}
		selectedNames map[string]struct{}

		workspacePath string
		workspaceName string
		files         map[string]struct{}
		directories   map[string]struct{}
		units         map[string]*unitInfo

		dirCacheSize int
		dirCache     *lru.Cache[string, bool]
	}

	unitInfo struct {
		includePaths map[string]struct{}
		defines      map[string]struct{}
		language     Language
	}
)

// WithLogger sets the logger used for diagnostics. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Collector) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithIncludeScope sets where files are collected from.
func WithIncludeScope(s IncludeScope) Option {
	return func(c *Collector) { c.scope = s }
}

// WithExtensions appends extensions to the allow-list.
func WithExtensions(exts ...string) Option {
	return func(c *Collector) { c.SetCustomExtensions(exts...) }
}

// WithMacros sets the custom macros merged into AllDefines.
func WithMacros(macros ...string) Option {
	return func(c *Collector) { c.SetCustomMacros(macros...) }
}

// WithDirCacheSize bounds the number of memoized directory existence checks.
// Non-positive sizes keep the default.
func WithDirCacheSize(n int) Option {
	return func(c *Collector) {
		if n > 0 {
			c.dirCacheSize = n
		}
	}
}

// New creates a Collector with the default extension allow-list and the
// project-folders scope.
func New(opts ...Option) *Collector {
	c := &Collector{
		logger:        slog.Default(),
		scope:         ScopeProjectFolders,
		extensionSet:  make(map[string]struct{}),
		customMacros:  make(map[string]struct{}),
		selectedIDs:   make(map[string]struct{}),
		selectedNames: make(map[string]struct{}),
		files:         make(map[string]struct{}),
		directories:   make(map[string]struct{}),
		units:         make(map[string]*unitInfo),
		dirCacheSize:  defaultDirCacheSize,
	}
	c.SetCustomExtensions(defaultExtensions...)
	for _, opt := range opts {
		opt(c)
	}
	cache, err := lru.New[string, bool](c.dirCacheSize)
	if err != nil {
		// WithDirCacheSize only accepts positive sizes.
		panic(fmt.Sprintf("collect: directory cache: %v", err))
	}
	c.dirCache = cache
	return c
}

// Traverse walks ws once, accumulating into c.
func (c *Collector) Traverse(ws host.Workspace) {
	traverse.Walk(ws, c)
}

// SetIncludeScope sets where files are collected from.
func (c *Collector) SetIncludeScope(s IncludeScope) {
	c.scope = s
}

// IncludeScope returns the configured scope.
func (c *Collector) IncludeScope() IncludeScope {
	return c.scope
}

// SetCustomExtensions appends extensions to the allow-list. Each extension is
// lowercased and gets a leading dot if it lacks one.
func (c *Collector) SetCustomExtensions(exts ...string) {
	for _, ext := range exts {
		ext = normalizeExtension(ext)
		if ext == "" {
			continue
		}
		if _, ok := c.extensionSet[ext]; ok {
			continue
		}
		c.extensionSet[ext] = struct{}{}
		c.extensions = append(c.extensions, ext)
	}
}

// Extensions returns the allow-list in insertion order.
func (c *Collector) Extensions() []string {
	out := make([]string, len(c.extensions))
	copy(out, c.extensions)
	return out
}

// SetCustomMacros replaces the custom macro set. Macros are trimmed and
// otherwise kept verbatim.
func (c *Collector) SetCustomMacros(macros ...string) {
	clear(c.customMacros)
	for _, m := range macros {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		c.customMacros[m] = struct{}{}
	}
}

// BeforeWorkspace records the workspace identity and, in the open-folders
// scope, collects the open documents.
func (c *Collector) BeforeWorkspace(ws host.Workspace) bool {
	c.workspacePath = fspath.Normalize(ws.FilePath())
	if c.workspacePath != "" {
		c.workspaceName = fspath.BaseNoExt(c.workspacePath)
	}

	if c.scope == ScopeOpenFolders {
		docs, err := ws.OpenDocuments()
		if err != nil {
			c.logger.Warn("listing open documents failed", "workspace", c.workspacePath, "error", err)
			return true
		}
		for _, doc := range docs {
			c.addFile(doc)
		}
	}
	return true
}

// BeforeUnit prunes unselected units and extracts build configuration from
// the rest.
func (c *Collector) BeforeUnit(u host.Unit) bool {
	id := u.UniqueName()
	if !c.IsSelected(id) {
		c.logger.Debug("skipping unselected unit", "unit", u.Name())
		return false
	}

	c.logger.Debug("traversing unit", "unit", u.Name())
	info := c.unitInfo(id)
	extracted, err := c.extractSettings(u)
	if err != nil {
		c.logger.Debug("unit configuration unavailable", "unit", u.Name(), "error", err)
		return true
	}
	*info = extracted
	return true
}

// BeforeItem collects the files of physical file items in the project-folders
// scope.
func (c *Collector) BeforeItem(it host.Item) bool {
	if it.Kind() == host.KindFile && c.scope == ScopeProjectFolders {
		for _, f := range it.FilePaths() {
			c.addFile(f)
		}
	}
	return true
}

func (c *Collector) unitInfo(id string) *unitInfo {
	info, ok := c.units[id]
	if !ok {
		info = newUnitInfo()
		c.units[id] = info
	}
	return info
}

func newUnitInfo() *unitInfo {
	return &unitInfo{
		includePaths: make(map[string]struct{}),
		defines:      make(map[string]struct{}),
	}
}

// addFile records f. Its directory is recorded only when the extension is
// allowed.
func (c *Collector) addFile(f string) {
	f = fspath.Normalize(f)
	if f == "" {
		return
	}
	c.files[f] = struct{}{}
	if _, ok := c.extensionSet[fspath.Ext(f)]; ok {
		c.directories[fspath.Dir(f)] = struct{}{}
	}
}

// dirExists memoizes fspath.DirExists for the lifetime of the collector.
func (c *Collector) dirExists(p string) bool {
	if ok, hit := c.dirCache.Get(p); hit {
		return ok
	}
	ok := fspath.DirExists(p)
	c.dirCache.Add(p, ok)
	return ok
}
