// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package openapi models the subset of OpenAPI 3.1 needed to document
// routes and translates regex path patterns into path templates.
package openapi

import "strings"

const (
	// Version is the OpenAPI specification version of documents
	// produced by this package.
	Version = "3.1.0"

	// JSONSchemaDialect identifies the default dialect for schemas
	// embedded in a [Document].
	JSONSchemaDialect = "https://spec.openapis.org/oas/3.1/dialect/base"
)

// Document is the top level OpenAPI Object.
//
// https://spec.openapis.org/oas/latest.html#openapi-object
type Document struct {
	OpenAPI           string                    `json:"openapi" yaml:"openapi"`
	Info              Info                      `json:"info" yaml:"info"`
	JSONSchemaDialect string                    `json:"jsonSchemaDialect" yaml:"jsonSchemaDialect"`
	Servers           []Server                  `json:"servers" yaml:"servers"`
	Paths             map[string]*PathItem      `json:"paths" yaml:"paths"`
	Components        map[string]map[string]any `json:"components" yaml:"components"`
	Tags              []Tag                     `json:"tags" yaml:"tags"`
}

// NewDocument returns an empty document. Every collection is non-nil so
// the document always serializes with the top level keys present.
func NewDocument(info Info) *Document {
	return &Document{
		OpenAPI:           Version,
		Info:              info,
		JSONSchemaDialect: JSONSchemaDialect,
		Servers:           []Server{},
		Paths:             map[string]*PathItem{},
		Components:        map[string]map[string]any{},
		Tags:              []Tag{},
	}
}

// Info describes the API being documented.
//
// https://spec.openapis.org/oas/latest.html#info-object
type Info struct {
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Version     string `json:"version,omitempty" yaml:"version,omitempty"`
}

// Server describes a host serving the API.
//
// https://spec.openapis.org/oas/latest.html#server-object
type Server struct {
	URL         string `json:"url" yaml:"url"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Tag adds metadata to a tag name used by operations.
//
// https://spec.openapis.org/oas/latest.html#tag-object
type Tag struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// PathItem describes the operations available on a single path.
//
// https://spec.openapis.org/oas/latest.html#path-item-object
type PathItem struct {
	Summary     string      `json:"summary,omitempty" yaml:"summary,omitempty"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Parameters  []Parameter `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Get         *Operation  `json:"get,omitempty" yaml:"get,omitempty"`
	Head        *Operation  `json:"head,omitempty" yaml:"head,omitempty"`
	Post        *Operation  `json:"post,omitempty" yaml:"post,omitempty"`
	Delete      *Operation  `json:"delete,omitempty" yaml:"delete,omitempty"`
	Patch       *Operation  `json:"patch,omitempty" yaml:"patch,omitempty"`
	Put         *Operation  `json:"put,omitempty" yaml:"put,omitempty"`
	Options     *Operation  `json:"options,omitempty" yaml:"options,omitempty"`
}

// Empty reports whether no operation is set on any method.
func (p *PathItem) Empty() bool {
	return p.Get == nil &&
		p.Head == nil &&
		p.Post == nil &&
		p.Delete == nil &&
		p.Patch == nil &&
		p.Put == nil &&
		p.Options == nil
}

// SetOperation sets the operation for the given HTTP method. Unknown
// methods are ignored.
func (p *PathItem) SetOperation(method string, op *Operation) {
	switch strings.ToUpper(method) {
	case "GET":
		p.Get = op
	case "HEAD":
		p.Head = op
	case "POST":
		p.Post = op
	case "DELETE":
		p.Delete = op
	case "PATCH":
		p.Patch = op
	case "PUT":
		p.Put = op
	case "OPTIONS":
		p.Options = op
	}
}

// Operation describes a single API operation on a path.
//
// https://spec.openapis.org/oas/latest.html#operation-object
type Operation struct {
	Summary     string              `json:"summary,omitempty" yaml:"summary,omitempty"`
	Description string              `json:"description,omitempty" yaml:"description,omitempty"`
	OperationID string              `json:"operationId,omitempty" yaml:"operationId,omitempty"`
	Deprecated  *bool               `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
	Tags        []string            `json:"tags,omitempty" yaml:"tags,omitempty"`
	Responses   map[string]Response `json:"responses,omitempty" yaml:"responses,omitempty"`
}

// Response describes a single response from an operation.
//
// https://spec.openapis.org/oas/latest.html#response-object
type Response struct {
	Description string               `json:"description" yaml:"description"`
	Headers     map[string]any       `json:"headers,omitempty" yaml:"headers,omitempty"`
	Content     map[string]MediaType `json:"content,omitempty" yaml:"content,omitempty"`
	Links       map[string]any       `json:"links,omitempty" yaml:"links,omitempty"`
}

// MediaType describes the schema of one media type of a response.
//
// https://spec.openapis.org/oas/latest.html#media-type-object
type MediaType struct {
	Schema map[string]any `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// Parameter describes a single operation parameter.
//
// https://spec.openapis.org/oas/latest.html#parameter-object
type Parameter struct {
	Name        string         `json:"name" yaml:"name"`
	In          string         `json:"in" yaml:"in"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool           `json:"required" yaml:"required"`
	Deprecated  bool           `json:"deprecated" yaml:"deprecated"`
	Schema      map[string]any `json:"schema,omitempty" yaml:"schema,omitempty"`
	Style       ParameterStyle `json:"style,omitempty" yaml:"style,omitempty"`
	Explode     *bool          `json:"explode,omitempty" yaml:"explode,omitempty"`
}

// ParameterStyle is a parameter encoding style.
//
// https://spec.openapis.org/oas/latest.html#style-values
type ParameterStyle string

const (
	StyleMatrix         ParameterStyle = "matrix"
	StyleLabel          ParameterStyle = "label"
	StyleForm           ParameterStyle = "form"
	StyleSimple         ParameterStyle = "simple"
	StyleSpaceDelimited ParameterStyle = "spaceDelimited"
	StylePipeDelimited  ParameterStyle = "pipeDelimited"
	StyleDeepObject     ParameterStyle = "deepObject"
)
