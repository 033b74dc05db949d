// SPDX-License-Identifier: MPL-2.0

package collect

import "strings"

const (
	// LanguageUnknown is the tag of a unit whose language is not recognized.
	LanguageUnknown Language = ""
	// LanguageCpp tags C and C++ units.
	LanguageCpp Language = "cpp"
	// LanguageCSharp tags C# units.
	LanguageCSharp Language = "csharp"

	// Code model identifiers reported by Visual Studio automation.
	codeModelVC     = "{b5e9bd32-6d3e-4b5d-925e-8a43b79820b4}"
	codeModelCSharp = "{b5e9bd34-6d3e-4b5d-925e-8a43b79820b4}"
)

// Language is a unit language tag.
type Language string

// ClassifyLanguage maps a host code-model language identifier to a tag.
// Both the Visual Studio code model GUIDs and plain names are recognized.
func ClassifyLanguage(raw string) Language {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case codeModelVC, "vc", "c", "cpp", "c++":
		return LanguageCpp
	case codeModelCSharp, "csharp", "c#", "cs":
		return LanguageCSharp
	default:
		return LanguageUnknown
	}
}
