// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/codeatlas/atlasscan/pkg/cueutil"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

//go:embed workspace_schema.cue
var workspaceSchema []byte

type (
	document struct {
		Path          string    `json:"path,omitempty"`
		OpenDocuments []string  `json:"open_documents,omitempty"`
		Selection     []string  `json:"selection,omitempty"`
		Units         []unitDoc `json:"units"`
	}

	unitDoc struct {
		Name     string `json:"name"`
		ID       string `json:"id,omitempty"`
		Path     string `json:"path"`
		Language string `json:"language,omitempty"`

		IncludePath                  *string `json:"include_path,omitempty"`
		AdditionalIncludeDirectories *string `json:"additional_include_directories,omitempty"`
		PreprocessorDefinitions      *string `json:"preprocessor_definitions,omitempty"`
		HasSettings                  bool    `json:"has_settings,omitempty"`

		DependsOn []string  `json:"depends_on,omitempty"`
		Items     []itemDoc `json:"items,omitempty"`
	}

	itemDoc struct {
		Name  string    `json:"name"`
		Kind  string    `json:"kind,omitempty"`
		Files []string  `json:"files,omitempty"`
		Items []itemDoc `json:"items,omitempty"`
		Unit  *unitDoc  `json:"unit,omitempty"`
	}
)

// decode validates data against the workspace schema and decodes it. CUE
// documents are unified directly; the other formats are decoded into generic
// values first.
func decode(data []byte, format Format, filename string, maxSize int64) (*document, error) {
	opts := []cueutil.Option{
		cueutil.WithFilename(filename),
		cueutil.WithMaxFileSize(maxSize),
	}

	if format == FormatCUE {
		res, err := cueutil.ParseAndDecode[document](workspaceSchema, data, "#Workspace", opts...)
		if err != nil {
			return nil, err
		}
		return res.Value, nil
	}

	if err := cueutil.CheckFileSize(data, maxSize, filename); err != nil {
		return nil, err
	}

	var generic map[string]any
	var err error
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &generic)
	case FormatYAML:
		err = yaml.Unmarshal(data, &generic)
	case FormatJSON:
		err = json.Unmarshal(data, &generic)
	default:
		return nil, &UnsupportedFormatError{Path: filename, Ext: string(format)}
	}
	if err != nil {
		return nil, fmt.Errorf("%s: decoding %s: %w", filename, format, err)
	}
	if generic == nil {
		generic = map[string]any{}
	}

	res, err := cueutil.DecodeValue[document](workspaceSchema, generic, "#Workspace", opts...)
	if err != nil {
		return nil, err
	}
	return res.Value, nil
}
