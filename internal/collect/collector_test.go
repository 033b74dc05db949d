// SPDX-License-Identifier: MPL-2.0

package collect

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"slices"
	"testing"

	"github.com/codeatlas/atlasscan/internal/host"
	"github.com/codeatlas/atlasscan/internal/host/hosttest"
	"github.com/codeatlas/atlasscan/internal/testutil"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestCollector(opts ...Option) *Collector {
	return New(append([]Option{WithLogger(quietLogger())}, opts...)...)
}

func TestCollector_EndToEnd(t *testing.T) {
	t.Parallel()

	root := filepath.ToSlash(t.TempDir())
	testutil.MustMkdirAll(t, filepath.FromSlash(root+"/a/inc"), 0o755)

	ws := hosttest.NewWorkspace(root + "/demo.sln")
	a := ws.AddUnit("A", root+"/a/a.vcxproj")
	a.Lang = "cpp"
	a.Settings = &host.CompilerSettings{
		IncludePath:             "./inc;./missing",
		PreprocessorDefinitions: "X=1",
	}
	b := ws.AddUnit("B", root+"/b/b.csproj")
	b.Lang = "csharp"

	c := newTestCollector()
	c.Traverse(ws)

	wantIncludes := []string{root + "/a/inc"}
	if got := c.AllIncludePaths(); !slices.Equal(got, wantIncludes) {
		t.Errorf("AllIncludePaths() = %v, want %v", got, wantIncludes)
	}
	if got := c.AllDefines(); !slices.Contains(got, "X=1") {
		t.Errorf("AllDefines() = %v, want to contain X=1", got)
	}
	counts := c.LanguageCount()
	if len(counts) != 2 || counts[LanguageCpp] != 1 || counts[LanguageCSharp] != 1 {
		t.Errorf("LanguageCount() = %v, want map[cpp:1 csharp:1]", counts)
	}
	if got := c.WorkspaceName(); got != "demo" {
		t.Errorf("WorkspaceName() = %q, want %q", got, "demo")
	}
	if got := c.WorkspaceFolder(); got != root {
		t.Errorf("WorkspaceFolder() = %q, want %q", got, root)
	}
}

func TestCollector_RelativeIncludeResolvesAgainstUnitDir(t *testing.T) {
	t.Parallel()

	root := filepath.ToSlash(t.TempDir())
	testutil.MustMkdirAll(t, filepath.FromSlash(root+"/proj/inc"), 0o755)

	ws := hosttest.NewWorkspace(root + "/w.sln")
	u := ws.AddUnit("a", root+"/proj/a/a.vcxproj")
	u.Settings = &host.CompilerSettings{AdditionalIncludeDirectories: " ../inc ; ; "}

	c := newTestCollector()
	c.Traverse(ws)

	info, ok := c.UnitInfo(u.ID)
	if !ok {
		t.Fatalf("UnitInfo(%q) not found", u.ID)
	}
	want := []string{root + "/proj/inc"}
	if !slices.Equal(info.IncludePaths, want) {
		t.Errorf("IncludePaths = %v, want %v", info.IncludePaths, want)
	}
}

func TestCollector_IncludePathsDeduplicated(t *testing.T) {
	t.Parallel()

	root := filepath.ToSlash(t.TempDir())
	testutil.MustMkdirAll(t, filepath.FromSlash(root+"/shared"), 0o755)

	ws := hosttest.NewWorkspace(root + "/w.sln")
	for _, name := range []string{"a", "b"} {
		u := ws.AddUnit(name, root+"/"+name+"/"+name+".vcxproj")
		u.Settings = &host.CompilerSettings{
			IncludePath:                  root + "/shared;../shared",
			AdditionalIncludeDirectories: root + "/shared/",
		}
	}

	c := newTestCollector()
	c.Traverse(ws)

	want := []string{root + "/shared"}
	if got := c.AllIncludePaths(); !slices.Equal(got, want) {
		t.Errorf("AllIncludePaths() = %v, want %v", got, want)
	}
}

func TestCollector_MissingIncludeDirsDropped(t *testing.T) {
	t.Parallel()

	root := filepath.ToSlash(t.TempDir())
	ws := hosttest.NewWorkspace(root + "/w.sln")
	u := ws.AddUnit("a", root+"/a/a.vcxproj")
	u.Settings = &host.CompilerSettings{IncludePath: "does-not-exist;" + root + "/nope"}

	c := newTestCollector()
	c.Traverse(ws)

	info, _ := c.UnitInfo(u.ID)
	if len(info.IncludePaths) != 0 {
		t.Errorf("unit IncludePaths = %v, want empty", info.IncludePaths)
	}
	if got := c.AllIncludePaths(); len(got) != 0 {
		t.Errorf("AllIncludePaths() = %v, want empty", got)
	}
}

func TestCollector_DefinesVerbatim(t *testing.T) {
	t.Parallel()

	ws := hosttest.NewWorkspace("/w/w.sln")
	u := ws.AddUnit("a", "/w/a/a.vcxproj")
	u.Settings = &host.CompilerSettings{PreprocessorDefinitions: `WIN32; _DEBUG ;VERSION="1.0";;WIN32`}

	c := newTestCollector()
	c.Traverse(ws)

	want := []string{`VERSION="1.0"`, "WIN32", "_DEBUG"}
	if got := c.AllDefines(); !slices.Equal(got, want) {
		t.Errorf("AllDefines() = %v, want %v", got, want)
	}
}

func TestCollector_CustomMacrosWithoutUnitMacros(t *testing.T) {
	t.Parallel()

	ws := hosttest.NewWorkspace("/w/w.sln")
	ws.AddUnit("a", "/w/a/a.vcxproj")

	c := newTestCollector(WithMacros("FOO", " BAR=2 ", ""))
	c.Traverse(ws)

	want := []string{"BAR=2", "FOO"}
	if got := c.AllDefines(); !slices.Equal(got, want) {
		t.Errorf("AllDefines() = %v, want %v", got, want)
	}

	c.SetCustomMacros("ONLY")
	if got := c.AllDefines(); !slices.Equal(got, []string{"ONLY"}) {
		t.Errorf("AllDefines() after SetCustomMacros = %v, want [ONLY]", got)
	}
}

func TestCollector_ExtensionMatchIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	ws := hosttest.NewWorkspace("/w/w.sln")
	u := ws.AddUnit("a", "/w/a/a.vcxproj")
	u.AddFile("Foo.CPP", "/w/a/src/Foo.CPP")
	u.AddFile("notes.txt", "/w/a/docs/notes.txt")
	folder := u.AddFolder("include")
	folder.AddFile("bar.h", `\w\a\include\bar.h`)

	c := newTestCollector()
	c.Traverse(ws)

	wantFiles := []string{"/w/a/docs/notes.txt", "/w/a/include/bar.h", "/w/a/src/Foo.CPP"}
	if got := c.FileList(); !slices.Equal(got, wantFiles) {
		t.Errorf("FileList() = %v, want %v", got, wantFiles)
	}
	wantDirs := []string{"/w/a/include", "/w/a/src"}
	if got := c.DirectoryList(); !slices.Equal(got, wantDirs) {
		t.Errorf("DirectoryList() = %v, want %v", got, wantDirs)
	}
}

func TestCollector_CustomExtensions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ext  string
	}{
		{"with dot", ".txt"},
		{"without dot", "txt"},
		{"upper case", "TXT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ws := hosttest.NewWorkspace("/w/w.sln")
			ws.AddUnit("a", "/w/a/a.vcxproj").AddFile("notes", "/w/a/notes.txt")

			c := newTestCollector(WithExtensions(tt.ext))
			c.Traverse(ws)

			if got := c.DirectoryList(); !slices.Equal(got, []string{"/w/a"}) {
				t.Errorf("DirectoryList() = %v, want [/w/a]", got)
			}
			if n := len(c.Extensions()); n != len(defaultExtensions)+1 {
				t.Errorf("len(Extensions()) = %d, want %d", n, len(defaultExtensions)+1)
			}
		})
	}
}

func TestCollector_FilesOutsideAllowListKeepNoDirectory(t *testing.T) {
	t.Parallel()

	ws := hosttest.NewWorkspace("/w/w.sln")
	ws.Docs = []string{"/w/open/readme.txt"}
	u := ws.AddUnit("a", "/w/a/a.vcxproj")
	u.AddFile("main.cpp", "/w/a/main.cpp")
	u.AddFile("notes.txt", "/w/b/notes.txt")

	c := newTestCollector()
	c.Traverse(ws)
	if got := c.FileList(); !slices.Equal(got, []string{"/w/a/main.cpp", "/w/b/notes.txt"}) {
		t.Errorf("FileList() = %v", got)
	}
	if got := c.DirectoryList(); !slices.Equal(got, []string{"/w/a"}) {
		t.Errorf("DirectoryList() = %v, want [/w/a]", got)
	}

	open := newTestCollector(WithIncludeScope(ScopeOpenFolders))
	open.Traverse(ws)
	if got := open.FileList(); !slices.Equal(got, []string{"/w/open/readme.txt"}) {
		t.Errorf("open-folders FileList() = %v", got)
	}
	if got := open.DirectoryList(); len(got) != 0 {
		t.Errorf("open-folders DirectoryList() = %v, want empty", got)
	}
}

func TestCollector_SetCustomExtensionsIgnoresDuplicates(t *testing.T) {
	t.Parallel()

	c := New()
	c.SetCustomExtensions(".CPP", "h", "", ".")
	if got := c.Extensions(); !slices.Equal(got, defaultExtensions) {
		t.Errorf("Extensions() = %v, want defaults", got)
	}
}

func TestCollector_IncludeScopes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		scope IncludeScope
		want  []string
	}{
		{"project folders", ScopeProjectFolders, []string{"/w/a/a.cpp"}},
		{"open folders", ScopeOpenFolders, []string{"/w/open/o.h", "/w/open/readme.txt"}},
		{"none", ScopeNone, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ws := hosttest.NewWorkspace("/w/w.sln")
			ws.Docs = []string{"/w/open/o.h", "/w/open/readme.txt"}
			ws.AddUnit("a", "/w/a/a.vcxproj").AddFile("a.cpp", "/w/a/a.cpp")

			c := newTestCollector()
			c.SetIncludeScope(tt.scope)
			c.Traverse(ws)

			if got := c.FileList(); !slices.Equal(got, tt.want) {
				t.Errorf("FileList() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCollector_OpenDocumentsFailureIsEmpty(t *testing.T) {
	t.Parallel()

	ws := hosttest.NewWorkspace("/w/w.sln")
	ws.DocsErr = errors.New("host gone")
	ws.AddUnit("a", "/w/a/a.vcxproj").Lang = "cpp"

	c := newTestCollector(WithIncludeScope(ScopeOpenFolders))
	c.Traverse(ws)

	if got := c.FileList(); len(got) != 0 {
		t.Errorf("FileList() = %v, want empty", got)
	}
	if got := c.LanguageCount()[LanguageCpp]; got != 1 {
		t.Errorf("LanguageCount()[cpp] = %d, want 1", got)
	}
}

func TestCollector_UnitFailureIsIsolated(t *testing.T) {
	t.Parallel()

	root := filepath.ToSlash(t.TempDir())
	testutil.MustMkdirAll(t, filepath.FromSlash(root+"/good/inc"), 0o755)

	ws := hosttest.NewWorkspace(root + "/w.sln")
	bad := ws.AddUnit("bad", root+"/bad/bad.vcxproj")
	bad.Lang = "cpp"
	bad.SettingsErr = errors.New("configuration unavailable")
	bad.AddFile("bad.cpp", root+"/bad/bad.cpp")
	good := ws.AddUnit("good", root+"/good/good.vcxproj")
	good.Lang = "cpp"
	good.Settings = &host.CompilerSettings{IncludePath: "inc", PreprocessorDefinitions: "GOOD"}

	c := newTestCollector()
	c.Traverse(ws)

	info, ok := c.UnitInfo(bad.ID)
	if !ok {
		t.Fatalf("failed unit not recorded")
	}
	if info.Language != LanguageUnknown || len(info.IncludePaths) != 0 || len(info.Defines) != 0 {
		t.Errorf("failed unit info = %+v, want empty", info)
	}
	if !slices.Contains(c.FileList(), root+"/bad/bad.cpp") {
		t.Errorf("files of failed unit not collected: %v", c.FileList())
	}
	if got := c.AllIncludePaths(); !slices.Equal(got, []string{root + "/good/inc"}) {
		t.Errorf("AllIncludePaths() = %v", got)
	}
	if got := c.AllDefines(); !slices.Equal(got, []string{"GOOD"}) {
		t.Errorf("AllDefines() = %v, want [GOOD]", got)
	}
}

func TestCollector_LanguageFailureDiscardsSettings(t *testing.T) {
	t.Parallel()

	ws := hosttest.NewWorkspace("/w/w.sln")
	u := ws.AddUnit("a", "/w/a/a.vcxproj")
	u.LangErr = errors.New("no code model")
	u.Settings = &host.CompilerSettings{PreprocessorDefinitions: "X"}

	c := newTestCollector()
	c.Traverse(ws)

	if got := c.AllDefines(); len(got) != 0 {
		t.Errorf("AllDefines() = %v, want empty", got)
	}
	if got := c.LanguageCount()[LanguageUnknown]; got != 1 {
		t.Errorf("LanguageCount()[\"\"] = %d, want 1", got)
	}
}

func TestCollector_MainLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		langs []string
		want  Language
	}{
		{"empty traversal", nil, LanguageUnknown},
		{"single", []string{"cpp"}, LanguageCpp},
		{"majority", []string{"csharp", "cpp", "csharp"}, LanguageCSharp},
		{"tie is lexicographic", []string{"csharp", "cpp"}, LanguageCpp},
		{"unknown counts", []string{"", "", "cpp"}, LanguageUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ws := hosttest.NewWorkspace("/w/w.sln")
			for i, lang := range tt.langs {
				u := ws.AddUnit("u", "/w/u.proj")
				u.ID = string(rune('a' + i))
				u.Lang = lang
			}

			c := newTestCollector()
			c.Traverse(ws)

			if got := c.MainLanguage(); got != tt.want {
				t.Errorf("MainLanguage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCollector_SelectionMarksAncestors(t *testing.T) {
	t.Parallel()

	ws := hosttest.NewWorkspace("/w/w.sln")
	top := ws.AddUnit("top", "/w/top/top.proj")
	mid := top.AddSubUnit("mid", "/w/mid/mid.proj")
	leaf := mid.AddFolder("nested").AddSubUnit("leaf", "/w/leaf/leaf.vcxproj")
	other := ws.AddUnit("other", "/w/other/other.proj")
	ws.Select(leaf)

	c := newTestCollector()
	c.RestrictToSelectedUnits(ws)

	for _, u := range []*hosttest.Unit{top, mid, leaf} {
		if !c.IsSelected(u.ID) {
			t.Errorf("IsSelected(%q) = false, want true", u.ID)
		}
	}
	if c.IsSelected(other.ID) {
		t.Errorf("IsSelected(%q) = true, want false", other.ID)
	}
	if got := c.SelectedUnitNames(); !slices.Equal(got, []string{"leaf"}) {
		t.Errorf("SelectedUnitNames() = %v, want [leaf]", got)
	}
}

func TestCollector_SelectionAncestorCycleTerminates(t *testing.T) {
	t.Parallel()

	ws := hosttest.NewWorkspace("/w/w.sln")
	a := ws.AddUnit("a", "/w/a/a.proj")
	b := a.AddSubUnit("b", "/w/b/b.proj")
	// Point a back at b to form a parent cycle.
	a.Parent = &hosttest.Item{DisplayName: "loop", Owner: b}
	ws.Select(b)

	c := newTestCollector()
	c.RestrictToSelectedUnits(ws)

	if !c.IsSelected(a.ID) || !c.IsSelected(b.ID) {
		t.Errorf("cycle members not selected: a=%v b=%v", c.IsSelected(a.ID), c.IsSelected(b.ID))
	}
}

func TestCollector_PrunedUnitsContributeNothing(t *testing.T) {
	t.Parallel()

	root := filepath.ToSlash(t.TempDir())
	testutil.MustMkdirAll(t, filepath.FromSlash(root+"/skip/inc"), 0o755)

	ws := hosttest.NewWorkspace(root + "/w.sln")
	keep := ws.AddUnit("keep", root+"/keep/keep.vcxproj")
	keep.Lang = "cpp"
	keep.AddFile("k.cpp", root+"/keep/k.cpp")
	skip := ws.AddUnit("skip", root+"/skip/skip.csproj")
	skip.Lang = "csharp"
	skip.Settings = &host.CompilerSettings{IncludePath: "inc", PreprocessorDefinitions: "SKIP"}
	skip.AddFile("s.cs", root+"/skip/s.cs")
	nested := skip.AddSubUnit("nested", root+"/nested/nested.vcxproj")
	nested.AddFile("n.cpp", root+"/nested/n.cpp")
	ws.Select(keep)

	c := newTestCollector()
	c.RestrictToSelectedUnits(ws)
	c.Traverse(ws)

	if got := c.FileList(); !slices.Equal(got, []string{root + "/keep/k.cpp"}) {
		t.Errorf("FileList() = %v", got)
	}
	if got := c.AllIncludePaths(); len(got) != 0 {
		t.Errorf("AllIncludePaths() = %v, want empty", got)
	}
	if got := c.AllDefines(); len(got) != 0 {
		t.Errorf("AllDefines() = %v, want empty", got)
	}
	if got := c.LanguageCount(); len(got) != 1 || got[LanguageCpp] != 1 {
		t.Errorf("LanguageCount() = %v, want map[cpp:1]", got)
	}
	if _, ok := c.UnitInfo(nested.ID); ok {
		t.Errorf("nested unit of pruned unit was recorded")
	}
}

func TestCollector_SelectionFailurePrunesAll(t *testing.T) {
	t.Parallel()

	ws := hosttest.NewWorkspace("/w/w.sln")
	ws.AddUnit("a", "/w/a/a.vcxproj").AddFile("a.cpp", "/w/a/a.cpp")
	ws.SelectionErr = errors.New("no selection")

	c := newTestCollector()
	c.RestrictToSelectedUnits(ws)
	c.Traverse(ws)

	if got := c.FileList(); len(got) != 0 {
		t.Errorf("FileList() = %v, want empty", got)
	}
	if got := c.LanguageCount(); len(got) != 0 {
		t.Errorf("LanguageCount() = %v, want empty", got)
	}
}

func TestCollector_ResultIsSnapshot(t *testing.T) {
	t.Parallel()

	ws := hosttest.NewWorkspace("/w/w.sln")
	u := ws.AddUnit("a", "/w/a/a.vcxproj")
	u.Lang = "cpp"
	u.Settings = &host.CompilerSettings{PreprocessorDefinitions: "A"}
	u.AddFile("a.cpp", "/w/a/a.cpp")

	c := newTestCollector()
	c.Traverse(ws)
	res := c.Result()

	res.Files[0] = "mutated"
	res.Units[u.ID].Defines[0] = "mutated"

	if got := c.FileList(); !slices.Equal(got, []string{"/w/a/a.cpp"}) {
		t.Errorf("FileList() after mutating Result = %v", got)
	}
	info, _ := c.UnitInfo(u.ID)
	if !slices.Equal(info.Defines, []string{"A"}) {
		t.Errorf("unit Defines after mutating Result = %v", info.Defines)
	}
	if res.MainLanguage != LanguageCpp {
		t.Errorf("Result().MainLanguage = %q, want cpp", res.MainLanguage)
	}
}

func TestCollector_DirCacheMemoizes(t *testing.T) {
	t.Parallel()

	root := filepath.ToSlash(t.TempDir())
	dir := root + "/later"

	c := newTestCollector(WithDirCacheSize(4))
	if c.dirExists(dir) {
		t.Fatalf("dirExists(%q) = true before creation", dir)
	}
	testutil.MustMkdirAll(t, filepath.FromSlash(dir), 0o755)
	if c.dirExists(dir) {
		t.Errorf("dirExists(%q) = true, want memoized false", dir)
	}
	if !New(WithLogger(quietLogger())).dirExists(dir) {
		t.Errorf("fresh collector dirExists(%q) = false, want true", dir)
	}
}

func TestCollector_NonPositiveDirCacheSizeKeepsDefault(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, -1} {
		c := newTestCollector(WithDirCacheSize(n))
		if c.dirCacheSize != defaultDirCacheSize {
			t.Errorf("WithDirCacheSize(%d): dirCacheSize = %d, want %d", n, c.dirCacheSize, defaultDirCacheSize)
		}
		if c.dirCache == nil {
			t.Fatalf("WithDirCacheSize(%d): dirCache is nil", n)
		}
		root := filepath.ToSlash(t.TempDir())
		if !c.dirExists(root) {
			t.Errorf("WithDirCacheSize(%d): dirExists(%q) = false, want true", n, root)
		}
	}
}

func TestCollector_DriveLetterIncludesOnUnix(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("drive paths are real on Windows")
	}

	ws := hosttest.NewWorkspace("/w/w.sln")
	u := ws.AddUnit("a", "/w/a/a.vcxproj")
	u.Settings = &host.CompilerSettings{IncludePath: `C:\sdk\include`}

	c := newTestCollector()
	c.Traverse(ws)

	if got := c.AllIncludePaths(); len(got) != 0 {
		t.Errorf("AllIncludePaths() = %v, want empty for a non-existent drive path", got)
	}
}
