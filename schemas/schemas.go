// Package schemas embeds the JSON Schemas for callqa's YAML inputs.
package schemas

import _ "embed"

// RubricSchemaJSON is the JSON Schema for rubric YAML files.
//
//go:embed rubric.schema.json
var RubricSchemaJSON string
