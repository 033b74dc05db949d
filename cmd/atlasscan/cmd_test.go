// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/codeatlas/atlasscan/internal/collect"
	"github.com/codeatlas/atlasscan/internal/config"
	"github.com/codeatlas/atlasscan/internal/testutil"
)

const testManifest = `
selection: ["plugin"]
units: [
	{
		name: "app"
		path: "app/app.vcxproj"
		language: "cpp"
		include_path: "inc;missing"
		preprocessor_definitions: "X=1"
		depends_on: ["lib"]
		items: [
			{name: "main.cpp", files: ["app/main.cpp"]},
			{name: "README.txt", files: ["app/README.txt"]},
			{name: "plugins", unit: {
				name: "plugin"
				path: "plugin/plugin.vcxproj"
				language: "cpp"
				items: [{name: "p.cpp", files: ["plugin/p.cpp"]}]
			}},
		]
	},
	{name: "lib", path: "lib/lib.csproj", language: "csharp"},
]
`

type stubConfig struct {
	cfg *config.Config
	err error
}

func (s stubConfig) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.cfg != nil {
		return s.cfg, nil
	}
	return config.DefaultConfig(), nil
}

// writeWorkspace creates the manifest and the include directory it references.
func writeWorkspace(t *testing.T, manifest string) (dir, path string) {
	t.Helper()
	dir = t.TempDir()
	testutil.MustMkdirAll(t, filepath.Join(dir, "app", "inc"), 0o755)
	path = filepath.Join(dir, "workspace.cue")
	testutil.MustWriteFile(t, path, manifest)
	return dir, path
}

func runCLI(t *testing.T, provider ConfigProvider, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := NewApp(Dependencies{Config: provider, Stdout: &out, Stderr: &errOut})
	root := NewRootCommand(app)
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	err = root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestCollect_JSON(t *testing.T) {
	t.Parallel()

	dir, manifest := writeWorkspace(t, testManifest)
	out, _, err := runCLI(t, stubConfig{}, "collect", manifest, "--format", "json", "--macro", "CUSTOM=2")
	if err != nil {
		t.Fatalf("collect error = %v", err)
	}

	var res collect.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	base := filepath.ToSlash(dir)
	if !slices.Equal(res.IncludePaths, []string{base + "/app/inc"}) {
		t.Errorf("IncludePaths = %v", res.IncludePaths)
	}
	for _, def := range []string{"X=1", "CUSTOM=2"} {
		if !slices.Contains(res.Defines, def) {
			t.Errorf("Defines = %v, missing %s", res.Defines, def)
		}
	}
	if !slices.Equal(res.Files, []string{base + "/app/README.txt", base + "/app/main.cpp", base + "/plugin/p.cpp"}) {
		t.Errorf("Files = %v", res.Files)
	}
	if !slices.Equal(res.Directories, []string{base + "/app", base + "/plugin"}) {
		t.Errorf("Directories = %v", res.Directories)
	}
	if res.LanguageCount[collect.LanguageCpp] != 2 || res.LanguageCount[collect.LanguageCSharp] != 1 {
		t.Errorf("LanguageCount = %v", res.LanguageCount)
	}
	if res.MainLanguage != collect.LanguageCpp {
		t.Errorf("MainLanguage = %q", res.MainLanguage)
	}
}

func TestCollect_SelectedIncludesAncestors(t *testing.T) {
	t.Parallel()

	_, manifest := writeWorkspace(t, testManifest)
	out, _, err := runCLI(t, stubConfig{}, "collect", manifest, "--selected", "--format", "json")
	if err != nil {
		t.Fatalf("collect error = %v", err)
	}
	var res collect.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatal(err)
	}
	if len(res.Units) != 2 {
		t.Errorf("Units = %v, want plugin and its containing unit app", res.Units)
	}
	if !slices.Equal(res.SelectedUnits, []string{"plugin"}) {
		t.Errorf("SelectedUnits = %v", res.SelectedUnits)
	}
}

func TestCollect_SelectOverride(t *testing.T) {
	t.Parallel()

	_, manifest := writeWorkspace(t, testManifest)
	out, _, err := runCLI(t, stubConfig{}, "collect", manifest, "--select", "lib", "--format", "json")
	if err != nil {
		t.Fatalf("collect error = %v", err)
	}
	var res collect.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatal(err)
	}
	if len(res.Units) != 1 || res.LanguageCount[collect.LanguageCSharp] != 1 {
		t.Errorf("Units = %v", res.Units)
	}
}

func TestCollect_ScopeNone(t *testing.T) {
	t.Parallel()

	_, manifest := writeWorkspace(t, testManifest)
	out, _, err := runCLI(t, stubConfig{}, "collect", manifest, "--scope", "none", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	var res collect.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatal(err)
	}
	if len(res.Files) != 0 {
		t.Errorf("Files = %v, want none", res.Files)
	}
}

func TestCollect_ScopeFromConfig(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.IncludeScope = "none"
	_, manifest := writeWorkspace(t, testManifest)
	out, _, err := runCLI(t, stubConfig{cfg: cfg}, "collect", manifest, "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"files": []`) {
		t.Errorf("config scope not applied:\n%s", out)
	}
}

func TestCollect_TextAndMarkdown(t *testing.T) {
	t.Parallel()

	_, manifest := writeWorkspace(t, testManifest)
	out, _, err := runCLI(t, stubConfig{}, "collect", manifest)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Workspace workspace") || !strings.Contains(out, "X=1") {
		t.Errorf("text output:\n%s", out)
	}

	out, _, err = runCLI(t, stubConfig{}, "collect", manifest, "--format", "md")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "# Workspace workspace") {
		t.Errorf("markdown output:\n%s", out)
	}
}

func TestCollect_Errors(t *testing.T) {
	t.Parallel()

	dir, manifest := writeWorkspace(t, testManifest)
	bad := filepath.Join(dir, "bad.cue")
	testutil.MustWriteFile(t, bad, `units: [{name: "x"}]`)

	tests := []struct {
		name    string
		args    []string
		wantErr string
		wantDoc string
	}{
		{"missing manifest", []string{"collect", filepath.Join(dir, "absent.cue")}, "absent.cue", "manifest not found"},
		{"unsupported format", []string{"collect", filepath.Join(dir, "w.ini")}, "w.ini", "Unsupported manifest format"},
		{"schema violation", []string{"collect", bad}, "invalid workspace manifest", "manifest is invalid"},
		{"bad scope", []string{"collect", manifest, "--scope", "everything"}, "--scope", "Unknown include scope"},
		{"bad format", []string{"collect", manifest, "--format", "xml"}, "unknown report format", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, stderr, err := runCLI(t, stubConfig{}, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want it to contain %q", err, tt.wantErr)
			}
			if tt.wantDoc != "" && !strings.Contains(stderr, tt.wantDoc) {
				t.Errorf("stderr missing catalog entry %q:\n%s", tt.wantDoc, stderr)
			}
		})
	}
}

func TestDeps_TextAndJSON(t *testing.T) {
	t.Parallel()

	dir, manifest := writeWorkspace(t, testManifest)
	base := filepath.ToSlash(dir)

	out, _, err := runCLI(t, stubConfig{}, "deps", manifest)
	if err != nil {
		t.Fatalf("deps error = %v", err)
	}
	if !strings.Contains(out, "depends on: "+base+"/lib/lib.csproj") {
		t.Errorf("text output:\n%s", out)
	}

	out, _, err = runCLI(t, stubConfig{}, "deps", manifest, "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	var got struct {
		BuildOrder []string `json:"build_order"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatal(err)
	}
	lib := slices.Index(got.BuildOrder, base+"/lib/lib.csproj")
	app := slices.Index(got.BuildOrder, base+"/app/app.vcxproj")
	if lib < 0 || app < 0 || lib > app {
		t.Errorf("BuildOrder = %v, lib must precede app", got.BuildOrder)
	}
}

func TestDeps_SelectedOnly(t *testing.T) {
	t.Parallel()

	dir, manifest := writeWorkspace(t, testManifest)
	out, _, err := runCLI(t, stubConfig{}, "deps", manifest, "--selected-only")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != filepath.ToSlash(dir)+"/plugin/plugin.vcxproj" {
		t.Errorf("output = %q", out)
	}
}

func TestDeps_CycleExitCode(t *testing.T) {
	t.Parallel()

	_, manifest := writeWorkspace(t, `
units: [
	{name: "a", path: "a.vcxproj", depends_on: ["b"]},
	{name: "b", path: "b.vcxproj", depends_on: ["a"]},
]
`)
	out, stderr, err := runCLI(t, stubConfig{}, "deps", manifest)
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != ExitDependencyCycle {
		t.Fatalf("error = %v, want ExitError with code %d", err, ExitDependencyCycle)
	}
	if !strings.Contains(out, "Dependency cycle") {
		t.Errorf("stdout:\n%s", out)
	}
	if !strings.Contains(stderr, "Dependency cycle detected") {
		t.Errorf("stderr missing catalog entry:\n%s", stderr)
	}
}

func TestCount(t *testing.T) {
	t.Parallel()

	_, manifest := writeWorkspace(t, testManifest)
	out, _, err := runCLI(t, stubConfig{}, "count", manifest, "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	var got struct{ Units, Items int }
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatal(err)
	}
	if got.Units != 3 || got.Items != 4 {
		t.Errorf("counts = %+v, want 3 units and 4 items", got)
	}
}

func TestConfigLoadFailure_FallsBackToDefaults(t *testing.T) {
	t.Parallel()

	_, manifest := writeWorkspace(t, testManifest)
	_, stderr, err := runCLI(t, stubConfig{err: errors.New("broken config")}, "count", manifest)
	if err != nil {
		t.Fatalf("count should still run, got %v", err)
	}
	if !strings.Contains(stderr, "Warning") || !strings.Contains(stderr, "broken config") {
		t.Errorf("stderr:\n%s", stderr)
	}
}

func TestConfigDump(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Macros = []string{"FROM_CONFIG"}
	out, _, err := runCLI(t, stubConfig{cfg: cfg}, "config", "dump")
	if err != nil {
		t.Fatal(err)
	}
	if out != config.GenerateCUE(cfg) {
		t.Errorf("dump output:\n%s", out)
	}
}

func TestConfigShow(t *testing.T) {
	t.Parallel()

	out, _, err := runCLI(t, stubConfig{}, "config", "show", "--config", filepath.Join(t.TempDir(), "c.cue"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Current Configuration", "include_scope", "project-folders", "debounce"} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigInitAndPath(t *testing.T) {
	dir := t.TempDir()
	config.SetConfigDirOverride(dir)
	t.Cleanup(config.Reset)

	out, _, err := runCLI(t, stubConfig{}, "config", "init")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, config.DefaultConfigPath(dir)) {
		t.Errorf("init output:\n%s", out)
	}

	out, _, err = runCLI(t, stubConfig{}, "config", "init")
	if err != nil || !strings.Contains(out, "already exists") {
		t.Errorf("second init: out=%q err=%v", out, err)
	}

	out, _, err = runCLI(t, stubConfig{}, "config", "path")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Active file: "+config.DefaultConfigPath(dir)) {
		t.Errorf("path output:\n%s", out)
	}
}

func TestGetVersionString(t *testing.T) {
	origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
	t.Cleanup(func() {
		Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
	})

	Version, Commit, BuildDate = "v1.2.3", "abc1234", "2026-01-02"
	if got := getVersionString(); got != "v1.2.3 (commit: abc1234, built: 2026-01-02)" {
		t.Errorf("getVersionString() = %q", got)
	}
	Version = "dev"
	if got := getVersionString(); got != "dev (built from source)" {
		t.Errorf("getVersionString() = %q", got)
	}
}
