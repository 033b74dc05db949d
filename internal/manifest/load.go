// SPDX-License-Identifier: MPL-2.0

// Package manifest loads a workspace manifest file and exposes it through the
// host interfaces, so scans can run without an IDE.
//
// A manifest lists units with their build settings, items and dependencies.
// It may be written in CUE, TOML, YAML or JSON; every format is validated
// against the same embedded CUE schema. Relative paths are resolved against
// the directory holding the manifest.
package manifest

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/codeatlas/atlasscan/internal/host"
	"github.com/codeatlas/atlasscan/pkg/cueutil"
	"github.com/codeatlas/atlasscan/pkg/fspath"

	"github.com/google/uuid"
)

// ErrInvalidManifest is the sentinel error wrapped by InvalidManifestError.
var ErrInvalidManifest = errors.New("invalid workspace manifest")

type (
	// InvalidManifestError is returned when a manifest cannot be decoded or
	// describes an inconsistent workspace. It wraps ErrInvalidManifest and the
	// underlying cause.
	InvalidManifestError struct {
		Path string
		Err  error
	}

	// Option configures loading.
	Option func(*loadOptions)

	loadOptions struct {
		logger       *slog.Logger
		maxFileSize  int64
		selection    []string
		hasSelection bool
	}

	builder struct {
		opts    loadOptions
		baseDir string
		ws      *Workspace

		all      []*Unit
		byID     map[string]*Unit
		byPath   map[string]*Unit
		byName   map[string]*Unit
		detached map[string]*Unit
	}
)

// Error implements the error interface for InvalidManifestError.
func (e *InvalidManifestError) Error() string {
	return fmt.Sprintf("invalid workspace manifest %s: %v", e.Path, e.Err)
}

// Unwrap returns ErrInvalidManifest and the underlying cause.
func (e *InvalidManifestError) Unwrap() []error { return []error{ErrInvalidManifest, e.Err} }

// WithLogger sets the logger used for load diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *loadOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMaxFileSize bounds the accepted manifest size in bytes.
func WithMaxFileSize(n int64) Option {
	return func(o *loadOptions) {
		if n > 0 {
			o.maxFileSize = n
		}
	}
}

// WithSelection replaces the selection declared in the manifest. Each ref is
// resolved like a depends_on entry.
func WithSelection(refs ...string) Option {
	return func(o *loadOptions) {
		o.selection = refs
		o.hasSelection = true
	}
}

// Load reads the manifest at path, picking the decoder from its extension.
func Load(path string, opts ...Option) (*Workspace, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workspace manifest at %s: %w", path, err)
	}
	return Parse(data, format, path, opts...)
}

// Parse decodes manifest content. manifestPath locates the manifest and is
// the base for relative paths; it need not exist.
func Parse(data []byte, format Format, manifestPath string, opts ...Option) (*Workspace, error) {
	o := loadOptions{logger: slog.Default(), maxFileSize: cueutil.DefaultMaxFileSize}
	for _, opt := range opts {
		opt(&o)
	}

	absManifest, err := filepath.Abs(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("resolving manifest path %s: %w", manifestPath, err)
	}
	absManifest = filepath.ToSlash(absManifest)

	doc, err := decode(data, format, manifestPath, o.maxFileSize)
	if err != nil {
		return nil, &InvalidManifestError{Path: manifestPath, Err: err}
	}

	b := &builder{
		opts:     o,
		baseDir:  fspath.Dir(absManifest),
		ws:       &Workspace{manifestPath: absManifest},
		byID:     make(map[string]*Unit),
		byPath:   make(map[string]*Unit),
		byName:   make(map[string]*Unit),
		detached: make(map[string]*Unit),
	}
	if err := b.build(doc); err != nil {
		return nil, &InvalidManifestError{Path: manifestPath, Err: err}
	}
	return b.ws, nil
}

func (b *builder) build(doc *document) error {
	b.ws.path = b.ws.manifestPath
	if doc.Path != "" {
		p, err := b.resolve(doc.Path)
		if err != nil {
			return fmt.Errorf("path: %w", err)
		}
		b.ws.path = p
	}

	for _, d := range doc.OpenDocuments {
		p, err := b.resolve(d)
		if err != nil {
			return fmt.Errorf("open_documents: %w", err)
		}
		b.ws.docs = append(b.ws.docs, p)
	}

	for i := range doc.Units {
		u, err := b.unit(&doc.Units[i], nil)
		if err != nil {
			return fmt.Errorf("units[%d]: %w", i, err)
		}
		b.ws.units = append(b.ws.units, u)
	}

	for _, u := range b.all {
		if len(u.dependsOn) == 0 {
			continue
		}
		dep := host.Dependency{Target: u}
		for _, ref := range u.dependsOn {
			dep.Required = append(dep.Required, b.requiredUnit(ref))
		}
		b.ws.deps = append(b.ws.deps, dep)
	}

	refs := doc.Selection
	if b.opts.hasSelection {
		refs = b.opts.selection
	}
	for _, ref := range refs {
		u, ok := b.lookup(ref)
		if !ok {
			b.opts.logger.Warn("selection references an unknown unit", "ref", ref)
			continue
		}
		b.ws.selection = append(b.ws.selection, u)
	}
	return nil
}

// unit builds a tree unit and registers it for reference lookup.
func (b *builder) unit(doc *unitDoc, parent *Item) (*Unit, error) {
	path, err := b.resolve(doc.Path)
	if err != nil {
		return nil, fmt.Errorf("path: %w", err)
	}

	u := &Unit{
		name:      doc.Name,
		id:        doc.ID,
		path:      path,
		language:  doc.Language,
		parent:    parent,
		dependsOn: doc.DependsOn,
	}
	if u.id == "" {
		u.id = unitID(path)
	}
	if prev, ok := b.byID[u.id]; ok {
		return nil, fmt.Errorf("duplicate unit id %q (also used by %s)", u.id, prev.name)
	}
	if doc.HasSettings || doc.IncludePath != nil || doc.AdditionalIncludeDirectories != nil || doc.PreprocessorDefinitions != nil {
		u.settings = &host.CompilerSettings{
			IncludePath:                  deref(doc.IncludePath),
			AdditionalIncludeDirectories: deref(doc.AdditionalIncludeDirectories),
			PreprocessorDefinitions:      deref(doc.PreprocessorDefinitions),
		}
	}

	b.register(u)

	for i := range doc.Items {
		it, err := b.item(&doc.Items[i], u)
		if err != nil {
			return nil, fmt.Errorf("items[%d]: %w", i, err)
		}
		u.items = append(u.items, it)
	}
	return u, nil
}

func (b *builder) item(doc *itemDoc, owner *Unit) (*Item, error) {
	it := &Item{name: doc.Name, owner: owner}
	for _, f := range doc.Files {
		p, err := b.resolve(f)
		if err != nil {
			return nil, fmt.Errorf("files: %w", err)
		}
		it.files = append(it.files, p)
	}

	switch {
	case doc.Kind != "":
		it.kind = host.ParseItemKind(doc.Kind)
	case len(it.files) > 0 && doc.Unit == nil:
		it.kind = host.KindFile
	default:
		it.kind = host.KindOther
	}

	if doc.Unit != nil {
		sub, err := b.unit(doc.Unit, it)
		if err != nil {
			return nil, fmt.Errorf("unit: %w", err)
		}
		it.sub = sub
	}

	for i := range doc.Items {
		child, err := b.item(&doc.Items[i], owner)
		if err != nil {
			return nil, fmt.Errorf("items[%d]: %w", i, err)
		}
		it.items = append(it.items, child)
	}
	return it, nil
}

func (b *builder) register(u *Unit) {
	b.all = append(b.all, u)
	b.byID[u.id] = u
	if _, ok := b.byPath[u.path]; !ok {
		b.byPath[u.path] = u
	}
	if _, ok := b.byName[u.name]; !ok {
		b.byName[u.name] = u
	}
}

// lookup resolves a unit reference by id, then by path, then by name.
func (b *builder) lookup(ref string) (*Unit, bool) {
	if u, ok := b.byID[ref]; ok {
		return u, true
	}
	if p, err := b.resolve(ref); err == nil {
		if u, ok := b.byPath[p]; ok {
			return u, true
		}
	}
	u, ok := b.byName[ref]
	return u, ok
}

// requiredUnit resolves a depends_on entry. Unknown references become
// detached units that are outside the tree.
func (b *builder) requiredUnit(ref string) *Unit {
	if u, ok := b.lookup(ref); ok {
		return u
	}
	if u, ok := b.detached[ref]; ok {
		return u
	}
	path, err := b.resolve(ref)
	if err != nil {
		path = ref
	}
	b.opts.logger.Debug("dependency references a unit outside the workspace", "ref", ref)
	u := &Unit{name: ref, id: unitID(path), path: path, detached: true}
	b.detached[ref] = u
	return u
}

func (b *builder) resolve(p string) (string, error) {
	return fspath.Resolve(p, b.baseDir)
}

// unitID derives a stable identifier from a unit path.
func unitID(path string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+path)).String()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
