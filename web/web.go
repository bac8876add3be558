// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package web binds HTTP method handlers to regex URL patterns and
// serves the OpenAPI 3.1 document describing them.
//
// Routes are declared with [NewRoute], pairing one handler per HTTP
// method with the typed path parameters the pattern captures:
//
//	route, err := web.NewRoute(
//		`/projects/(?P<id>[1-9]\d*)`,
//		web.Get(
//			web.HandlerFunc(getProject),
//			web.PathParam("id", schema.Int()),
//			web.Returns(schema.Struct[Project]()),
//			web.Doc("Fetch a single project."),
//		),
//	)
//
// [NewApi] mounts routes onto a request multiplexer which also serves
// the generated document at /openapi.json and /openapi.yaml along
// with health probes, and [Run] boots the whole application from
// config.
package web

import (
	"context"
	"net/http"
)

// Handler implements the core logic of one HTTP operation. Typed path
// parameter values are read with [ParamsFromContext] and the raw
// request, when needed, with [RequestFromContext].
type Handler interface {
	Handle(context.Context) (any, error)
}

// HandlerFunc is an adapter to allow the use of ordinary functions
// as [Handler]s.
type HandlerFunc func(context.Context) (any, error)

// Handle implements the [Handler] interface.
func (f HandlerFunc) Handle(ctx context.Context) (any, error) {
	return f(ctx)
}

// Params holds the converted path parameter values for one request,
// keyed by capture group name.
type Params map[string]any

type paramsContextKey struct{}

// NewParamsContext returns a new [context.Context] that carries params.
func NewParamsContext(ctx context.Context, params Params) context.Context {
	return context.WithValue(ctx, paramsContextKey{}, params)
}

// ParamsFromContext returns the path parameter values stored in ctx,
// if any.
func ParamsFromContext(ctx context.Context) (Params, bool) {
	params, ok := ctx.Value(paramsContextKey{}).(Params)
	return params, ok
}

type requestContextKey struct{}

// NewRequestContext returns a new [context.Context] that carries r.
func NewRequestContext(ctx context.Context, r *http.Request) context.Context {
	return context.WithValue(ctx, requestContextKey{}, r)
}

// RequestFromContext returns the [http.Request] stored in ctx, if any.
func RequestFromContext(ctx context.Context) (*http.Request, bool) {
	r, ok := ctx.Value(requestContextKey{}).(*http.Request)
	return r, ok
}
