// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package web

import (
	"github.com/z5labs/typedroutes"
	"github.com/z5labs/typedroutes/openapi"
	"github.com/z5labs/typedroutes/schema"

	"github.com/z5labs/sdk-go/ptr"
)

// paramDecl is one declared path parameter of an endpoint.
type paramDecl struct {
	name  string
	typ   schema.Type
	infos []openapi.ParameterInfo
}

// operationAnnotation carries documentation values attached to an
// endpoint. Annotations are applied in declaration order: summary,
// description and operationId fill only when still unset, so values
// derived from [Doc] win over later annotations, and tags accumulate.
type operationAnnotation struct {
	summary     string
	description string
	operationID string
	deprecated  *bool
	tags        []string
}

// EndpointOptions are configurable parameters of a route endpoint.
type EndpointOptions struct {
	params      []paramDecl
	returns     schema.Type
	doc         string
	annotations []operationAnnotation
	omit        bool
	errHandler  ErrorHandler
}

// EndpointOption sets a value on [EndpointOptions].
type EndpointOption interface {
	ApplyEndpointOption(*EndpointOptions)
}

type endpointOptionFunc func(*EndpointOptions)

func (f endpointOptionFunc) ApplyEndpointOption(eo *EndpointOptions) {
	f(eo)
}

// PathParam declares the type of one named capture group of the route
// pattern. The matched path value is parsed with the converter resolved
// for t and handed to the [Handler] via [ParamsFromContext]. Groups
// left undeclared are passed through as plain strings.
//
// Additional [openapi.ParameterInfo] values extend the generated
// parameter documentation:
//
//	web.PathParam("id", schema.Union(schema.Int(), schema.UUID()),
//		openapi.ParameterInfo{Description: "legacy serial or external id"},
//	)
//
// Every method of a route sharing a group name must declare the same
// type for it; see [PathTypeMismatchError].
func PathParam(name string, t schema.Type, infos ...openapi.ParameterInfo) EndpointOption {
	return endpointOptionFunc(func(eo *EndpointOptions) {
		eo.params = append(eo.params, paramDecl{
			name:  name,
			typ:   t,
			infos: infos,
		})
	})
}

// Returns declares the endpoint's response type. The generated
// operation documents it as the schema of the "default" response with
// an application/json media type.
func Returns(t schema.Type) EndpointOption {
	return endpointOptionFunc(func(eo *EndpointOptions) {
		eo.returns = t
	})
}

// Doc attaches documentation text to the endpoint. The first line
// becomes the operation summary and, when separated by a blank line,
// the remainder becomes the operation description:
//
//	web.Doc(`Fetch a single project.
//
//	Projects are addressed by their numeric identifier. Identifiers
//	of deleted projects are never reused.`)
func Doc(doc string) EndpointOption {
	return endpointOptionFunc(func(eo *EndpointOptions) {
		eo.doc = doc
	})
}

// Summary sets the operation summary unless one was already derived
// from [Doc].
func Summary(summary string) EndpointOption {
	return endpointOptionFunc(func(eo *EndpointOptions) {
		eo.annotations = append(eo.annotations, operationAnnotation{summary: summary})
	})
}

// Description sets the operation description unless one was already
// derived from [Doc].
func Description(description string) EndpointOption {
	return endpointOptionFunc(func(eo *EndpointOptions) {
		eo.annotations = append(eo.annotations, operationAnnotation{description: description})
	})
}

// OperationID sets the operationId documented for the endpoint.
func OperationID(id string) EndpointOption {
	return endpointOptionFunc(func(eo *EndpointOptions) {
		eo.annotations = append(eo.annotations, operationAnnotation{operationID: id})
	})
}

// Deprecated marks the operation as deprecated in the documentation.
// Requests are still served.
func Deprecated() EndpointOption {
	return endpointOptionFunc(func(eo *EndpointOptions) {
		eo.annotations = append(eo.annotations, operationAnnotation{deprecated: ptr.Ref(true)})
	})
}

// Tags adds documentation tags to the operation. Tags from multiple
// options accumulate.
func Tags(tags ...string) EndpointOption {
	return endpointOptionFunc(func(eo *EndpointOptions) {
		eo.annotations = append(eo.annotations, operationAnnotation{tags: tags})
	})
}

// Omit excludes the endpoint from the generated document. The endpoint
// still serves requests. A route whose every endpoint is omitted is
// excluded from the document entirely.
func Omit() EndpointOption {
	return endpointOptionFunc(func(eo *EndpointOptions) {
		eo.omit = true
	})
}

// OnError configures a custom [ErrorHandler] for the endpoint. If not
// specified, a default error handler logs the error and responds with
// the status code chosen by the [HttpResponseWriter] protocol.
func OnError(eh ErrorHandler) EndpointOption {
	return endpointOptionFunc(func(eo *EndpointOptions) {
		eo.errHandler = eh
	})
}

// endpoint pairs one HTTP method with its handler and options.
type endpoint struct {
	method  string
	handler Handler
	opts    *EndpointOptions
}

func newEndpoint(method string, h Handler, opts ...EndpointOption) endpoint {
	eo := &EndpointOptions{
		errHandler: defaultErrorHandler(typedroutes.LogHandler("web")),
	}
	for _, opt := range opts {
		opt.ApplyEndpointOption(eo)
	}
	return endpoint{
		method:  method,
		handler: h,
		opts:    eo,
	}
}
