// SPDX-License-Identifier: MPL-2.0

package collect

import (
	"fmt"

	"github.com/codeatlas/atlasscan/internal/host"
	"github.com/codeatlas/atlasscan/pkg/fspath"
)

// extractSettings reads the language and compiler settings of u. Any host
// failure discards the whole extraction so a unit never ends up with a partial
// configuration.
func (c *Collector) extractSettings(u host.Unit) (unitInfo, error) {
	info := *newUnitInfo()

	raw, err := u.Language()
	if err != nil {
		return unitInfo{}, fmt.Errorf("reading language: %w", err)
	}
	info.language = ClassifyLanguage(raw)

	settings, err := u.CompilerSettings()
	if err != nil {
		return unitInfo{}, fmt.Errorf("reading compiler settings: %w", err)
	}
	if settings == nil {
		return info, nil
	}

	unitDir := fspath.Dir(u.FullPath())
	for _, p := range c.resolveIncludePaths(settings.IncludePath+";"+settings.AdditionalIncludeDirectories, unitDir) {
		info.includePaths[p] = struct{}{}
	}
	for _, d := range fspath.SplitList(settings.PreprocessorDefinitions) {
		info.defines[d] = struct{}{}
	}
	return info, nil
}

// resolveIncludePaths turns a ';'-delimited include list into absolute,
// '/'-separated directories. Relative entries are resolved against unitDir.
// Entries that do not name an existing directory are dropped.
func (c *Collector) resolveIncludePaths(list, unitDir string) []string {
	var out []string
	for _, entry := range fspath.SplitList(list) {
		abs, err := fspath.Resolve(entry, unitDir)
		if err != nil {
			continue
		}
		if !c.dirExists(abs) {
			continue
		}
		c.logger.Debug("include path", "path", abs)
		out = append(out, abs)
	}
	return out
}
