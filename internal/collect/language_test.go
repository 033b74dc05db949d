// SPDX-License-Identifier: MPL-2.0

package collect

import "testing"

func TestClassifyLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want Language
	}{
		{"{B5E9BD32-6D3E-4B5D-925E-8A43B79820B4}", LanguageCpp},
		{"{b5e9bd34-6d3e-4b5d-925e-8a43b79820b4}", LanguageCSharp},
		{"C++", LanguageCpp},
		{" cpp ", LanguageCpp},
		{"c", LanguageCpp},
		{"C#", LanguageCSharp},
		{"csharp", LanguageCSharp},
		{"vb", LanguageUnknown},
		{"", LanguageUnknown},
	}

	for _, tt := range tests {
		if got := ClassifyLanguage(tt.raw); got != tt.want {
			t.Errorf("ClassifyLanguage(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizeExtension(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"cpp":  ".cpp",
		".CPP": ".cpp",
		" .h ": ".h",
		"":     "",
		".":    "",
		"c++":  ".c++",
	}
	for in, want := range tests {
		if got := normalizeExtension(in); got != want {
			t.Errorf("normalizeExtension(%q) = %q, want %q", in, got, want)
		}
	}
}
