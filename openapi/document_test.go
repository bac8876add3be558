// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package openapi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/z5labs/sdk-go/ptr"
	"gopkg.in/yaml.v3"
)

func TestDocument_MarshalJSON(t *testing.T) {
	t.Run("will serialize every top level key", func(t *testing.T) {
		t.Run("if the document is empty", func(t *testing.T) {
			doc := NewDocument(Info{})

			b, err := json.Marshal(doc)
			if !assert.Nil(t, err) {
				return
			}

			assert.JSONEq(t, `{
				"openapi": "3.1.0",
				"info": {},
				"jsonSchemaDialect": "https://spec.openapis.org/oas/3.1/dialect/base",
				"servers": [],
				"paths": {},
				"components": {},
				"tags": []
			}`, string(b))
		})
	})
}

func TestPathItem(t *testing.T) {
	t.Run("will omit unset fields", func(t *testing.T) {
		t.Run("if only one method is documented", func(t *testing.T) {
			item := &PathItem{}
			item.SetOperation("GET", &Operation{Summary: "ping"})

			b, err := json.Marshal(item)
			if !assert.Nil(t, err) {
				return
			}
			assert.JSONEq(t, `{"get": {"summary": "ping"}}`, string(b))
		})
	})

	t.Run("will report itself empty", func(t *testing.T) {
		t.Run("if no method is set", func(t *testing.T) {
			item := &PathItem{
				Parameters: []Parameter{{Name: "id", In: "path"}},
			}

			assert.True(t, item.Empty())

			item.SetOperation("post", &Operation{})
			assert.False(t, item.Empty())
		})
	})
}

func TestOperation_MarshalJSON(t *testing.T) {
	t.Run("will omit unset fields", func(t *testing.T) {
		t.Run("if the operation has no metadata", func(t *testing.T) {
			b, err := json.Marshal(&Operation{})
			if !assert.Nil(t, err) {
				return
			}
			assert.JSONEq(t, `{}`, string(b))
		})
	})

	t.Run("will keep an explicit false", func(t *testing.T) {
		t.Run("if deprecated was set to false", func(t *testing.T) {
			b, err := json.Marshal(&Operation{Deprecated: ptr.Ref(false)})
			if !assert.Nil(t, err) {
				return
			}
			assert.JSONEq(t, `{"deprecated": false}`, string(b))
		})
	})
}

func TestParameter_MarshalJSON(t *testing.T) {
	t.Run("will always serialize required and deprecated", func(t *testing.T) {
		t.Run("if both are false", func(t *testing.T) {
			b, err := json.Marshal(Parameter{Name: "id", In: "path"})
			if !assert.Nil(t, err) {
				return
			}
			assert.JSONEq(t, `{
				"name": "id",
				"in": "path",
				"required": false,
				"deprecated": false
			}`, string(b))
		})
	})
}

func TestDocument_MarshalYAML(t *testing.T) {
	t.Run("will keep camelCased field names", func(t *testing.T) {
		t.Run("if an operation id is set", func(t *testing.T) {
			doc := NewDocument(Info{Title: "widgets", Version: "1.0.0"})
			doc.Paths["/widgets"] = &PathItem{
				Get: &Operation{OperationID: "listWidgets"},
			}

			b, err := yaml.Marshal(doc)
			if !assert.Nil(t, err) {
				return
			}

			out := string(b)
			assert.Contains(t, out, "jsonSchemaDialect:")
			assert.Contains(t, out, "operationId: listWidgets")
		})
	})
}
