// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package web

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/z5labs/typedroutes/coerce"
	"github.com/z5labs/typedroutes/schema"
)

// NoMethodsError is returned when a route is constructed without any
// HTTP method handlers.
type NoMethodsError struct {
	Pattern string
}

func (e NoMethodsError) Error() string {
	return fmt.Sprintf("web: route %q defines no HTTP methods", e.Pattern)
}

// NilHandlerError is returned when a route method is registered with a
// nil [Handler].
type NilHandlerError struct {
	Pattern string
	Method  string
}

func (e NilHandlerError) Error() string {
	return fmt.Sprintf("web: %s %q requires a non-nil handler", e.Method, e.Pattern)
}

// DuplicateMethodError is returned when the same HTTP method is
// registered more than once on a route.
type DuplicateMethodError struct {
	Pattern string
	Method  string
}

func (e DuplicateMethodError) Error() string {
	return fmt.Sprintf("web: %s is registered more than once for %q", e.Method, e.Pattern)
}

// InvalidPatternError is returned when the route pattern does not
// compile as a regular expression.
type InvalidPatternError struct {
	Pattern string
	Cause   error
}

func (e InvalidPatternError) Error() string {
	return fmt.Sprintf("web: failed to compile pattern %q: %v", e.Pattern, e.Cause)
}

// Unwrap returns the underlying regexp compilation error.
func (e InvalidPatternError) Unwrap() error {
	return e.Cause
}

// UnknownParameterError is returned when [PathParam] declares a name
// which is not a named capture group of the route pattern.
type UnknownParameterError struct {
	Pattern string
	Name    string
}

func (e UnknownParameterError) Error() string {
	return fmt.Sprintf("web: %q is not a named group of pattern %q", e.Name, e.Pattern)
}

// PathTypeMismatchError is returned when two methods of a route declare
// different types for the same path parameter. The converted value is
// shared across methods, so its type must be consistent.
type PathTypeMismatchError struct {
	Pattern string
	Name    string
}

func (e PathTypeMismatchError) Error() string {
	return fmt.Sprintf("web: conflicting types declared for path parameter %q of pattern %q", e.Name, e.Pattern)
}

// RouteOptions are configurable parameters of a [Route].
type RouteOptions struct {
	endpoints  []endpoint
	converters *coerce.Set
}

// RouteOption sets a value on [RouteOptions].
type RouteOption interface {
	ApplyRouteOption(*RouteOptions)
}

type routeOptionFunc func(*RouteOptions)

func (f routeOptionFunc) ApplyRouteOption(ro *RouteOptions) {
	f(ro)
}

func handleMethod(method string, h Handler, opts ...EndpointOption) RouteOption {
	return routeOptionFunc(func(ro *RouteOptions) {
		ro.endpoints = append(ro.endpoints, newEndpoint(method, h, opts...))
	})
}

// Get registers h to handle GET requests.
func Get(h Handler, opts ...EndpointOption) RouteOption {
	return handleMethod(http.MethodGet, h, opts...)
}

// Head registers h to handle HEAD requests.
func Head(h Handler, opts ...EndpointOption) RouteOption {
	return handleMethod(http.MethodHead, h, opts...)
}

// Post registers h to handle POST requests.
func Post(h Handler, opts ...EndpointOption) RouteOption {
	return handleMethod(http.MethodPost, h, opts...)
}

// Delete registers h to handle DELETE requests.
func Delete(h Handler, opts ...EndpointOption) RouteOption {
	return handleMethod(http.MethodDelete, h, opts...)
}

// Patch registers h to handle PATCH requests.
func Patch(h Handler, opts ...EndpointOption) RouteOption {
	return handleMethod(http.MethodPatch, h, opts...)
}

// Put registers h to handle PUT requests.
func Put(h Handler, opts ...EndpointOption) RouteOption {
	return handleMethod(http.MethodPut, h, opts...)
}

// Options registers h to handle OPTIONS requests.
func Options(h Handler, opts ...EndpointOption) RouteOption {
	return handleMethod(http.MethodOptions, h, opts...)
}

var defaultConverters = coerce.NewSet()

// Converters configures the [coerce.Set] used to resolve the declared
// path parameter types. All routes share a default set with the builtin
// converters.
func Converters(s *coerce.Set) RouteOption {
	return routeOptionFunc(func(ro *RouteOptions) {
		ro.converters = s
	})
}

// Route binds one handler per HTTP method to a single regex URL
// pattern. Construct one with [NewRoute] or [MustRoute] and mount it
// with [NewApi].
type Route struct {
	pattern   string
	regex     *regexp.Regexp
	endpoints []endpoint
	pathTypes map[string]coerce.Converter
}

// NewRoute validates and builds a route for pattern.
//
// The pattern is compiled anchored at both ends, with a trailing "$"
// tolerated. Every name declared with [PathParam] must be a named
// capture group of the pattern and resolve to a converter; named
// groups left undeclared are passed through as plain strings. Methods
// sharing a group name must declare the same type for it since the
// converted value is shared, otherwise a [PathTypeMismatchError] is
// returned.
func NewRoute(pattern string, opts ...RouteOption) (*Route, error) {
	ro := &RouteOptions{
		converters: defaultConverters,
	}
	for _, opt := range opts {
		opt.ApplyRouteOption(ro)
	}

	if len(ro.endpoints) == 0 {
		return nil, NoMethodsError{Pattern: pattern}
	}

	seen := make(map[string]struct{}, len(ro.endpoints))
	for _, e := range ro.endpoints {
		if e.handler == nil {
			return nil, NilHandlerError{Pattern: pattern, Method: e.method}
		}
		if _, ok := seen[e.method]; ok {
			return nil, DuplicateMethodError{Pattern: pattern, Method: e.method}
		}
		seen[e.method] = struct{}{}
	}

	regex, err := regexp.Compile("^" + strings.TrimSuffix(pattern, "$") + "$")
	if err != nil {
		return nil, InvalidPatternError{Pattern: pattern, Cause: err}
	}

	names := make(map[string]struct{})
	for _, name := range regex.SubexpNames() {
		if name != "" {
			names[name] = struct{}{}
		}
	}

	pathTypes := make(map[string]coerce.Converter)
	for _, e := range ro.endpoints {
		for _, p := range e.opts.params {
			if _, ok := names[p.name]; !ok {
				return nil, UnknownParameterError{Pattern: pattern, Name: p.name}
			}

			c, err := ro.converters.Resolve(p.typ)
			if err != nil {
				return nil, err
			}
			md := make([]any, len(p.infos))
			for i, info := range p.infos {
				md[i] = info
			}
			c = c.WithMetadata(md...)

			existing, ok := pathTypes[p.name]
			if !ok {
				pathTypes[p.name] = c
				continue
			}
			if !existing.Equal(c) {
				return nil, PathTypeMismatchError{Pattern: pattern, Name: p.name}
			}
		}
	}

	for name := range names {
		if _, ok := pathTypes[name]; ok {
			continue
		}
		c, err := ro.converters.Resolve(schema.String())
		if err != nil {
			return nil, err
		}
		pathTypes[name] = c
	}

	return &Route{
		pattern:   pattern,
		regex:     regex,
		endpoints: ro.endpoints,
		pathTypes: pathTypes,
	}, nil
}

// MustRoute is a [NewRoute] which panics instead of returning an error.
func MustRoute(pattern string, opts ...RouteOption) *Route {
	route, err := NewRoute(pattern, opts...)
	if err != nil {
		panic(err)
	}
	return route
}

// Pattern returns the regex pattern the route was declared with.
func (r *Route) Pattern() string {
	return r.pattern
}

// Methods returns the HTTP methods the route handles, in registration
// order.
func (r *Route) Methods() []string {
	methods := make([]string, len(r.endpoints))
	for i, e := range r.endpoints {
		methods[i] = e.method
	}
	return methods
}
