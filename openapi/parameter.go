// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package openapi

import (
	"github.com/z5labs/typedroutes/schema"
)

// ParameterInfo is documentation metadata carried by a path converter.
// Built-in converters carry one with their schema fragment; additional
// ones can be attached when a parameter is declared.
type ParameterInfo struct {
	Description string
	Schema      map[string]any
	Style       ParameterStyle
	Explode     *bool
}

// PathParameter builds the Parameter object for one named path group.
//
// The parameter starts from a plain string schema. Converter metadata
// is applied in order: [schema.Extra] values update the schema while
// [ParameterInfo] values collect schema alternatives and fill the
// description, style and explode fields when still unset. A single
// alternative updates the schema in place; several replace it with a
// oneOf. When the resulting schema is still a string schema, the
// sub-pattern the group matched is recorded as its pattern constraint.
func PathParameter(name, pattern string, metadata []any) Parameter {
	param := Parameter{
		Name:     name,
		In:       "path",
		Required: true,
		Schema:   map[string]any{"type": "string"},
	}

	var alternatives []map[string]any
	for _, item := range metadata {
		switch item := item.(type) {
		case schema.Extra:
			for k, v := range item {
				param.Schema[k] = v
			}
		case ParameterInfo:
			if len(item.Schema) > 0 {
				alternatives = append(alternatives, copySchema(item.Schema))
			}
			if param.Description == "" {
				param.Description = item.Description
			}
			if param.Style == "" {
				param.Style = item.Style
			}
			if param.Explode == nil {
				param.Explode = item.Explode
			}
		}
	}

	switch len(alternatives) {
	case 0:
	case 1:
		for k, v := range alternatives[0] {
			param.Schema[k] = v
		}
	default:
		oneOf := make([]any, len(alternatives))
		for i, alt := range alternatives {
			oneOf[i] = alt
		}
		param.Schema = map[string]any{"oneOf": oneOf}
	}

	if t, ok := param.Schema["type"].(string); ok && t == "string" {
		if _, ok := param.Schema["pattern"]; !ok {
			param.Schema["pattern"] = pattern
		}
	}
	return param
}

func copySchema(s map[string]any) map[string]any {
	clone := make(map[string]any, len(s))
	for k, v := range s {
		clone[k] = v
	}
	return clone
}
