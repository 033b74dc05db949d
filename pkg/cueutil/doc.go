// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates documents against embedded CUE schemas and decodes
// them into Go structs.
//
// Native CUE documents go through ParseAndDecode. Documents read from other
// formats (TOML, YAML, JSON) are first decoded into generic Go values and then
// checked with DecodeValue, so every format shares one schema:
//
//	//go:embed workspace_schema.cue
//	var schema []byte
//
//	res, err := cueutil.ParseAndDecode[document](schema, data, "#Workspace",
//	    cueutil.WithFilename("workspace.cue"))
//	if err != nil {
//	    return nil, err // error text carries the offending field path
//	}
//	return res.Value, nil
package cueutil
