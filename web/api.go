// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/z5labs/typedroutes"
	"github.com/z5labs/typedroutes/health"
	"github.com/z5labs/typedroutes/openapi"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"gopkg.in/yaml.v3"
)

// ApiOptions holds configuration values used when constructing an [Api].
type ApiOptions struct {
	routes    []*Route
	readiness health.Monitor
	liveness  health.Monitor
}

// ApiOption sets a value on [ApiOptions].
type ApiOption interface {
	ApplyApiOption(*ApiOptions)
}

type apiOptionFunc func(*ApiOptions)

func (f apiOptionFunc) ApplyApiOption(ao *ApiOptions) {
	f(ao)
}

// Routes registers routes with the [Api].
func Routes(routes ...*Route) ApiOption {
	return apiOptionFunc(func(ao *ApiOptions) {
		ao.routes = append(ao.routes, routes...)
	})
}

// Readiness will register the given [health.Monitor] to be used
// for reporting when the application is ready to start accepting traffic.
//
// An example usage of this is to tie the [health.Monitor] to any backend client
// circuit breakers. When one of the circuit breakers moves to an OPEN state your
// application can quickly notify upstream component(s) (e.g. load balancer) that
// no requests should be sent to it since they'll just fail anyways due to the circuit
// being OPEN.
//
// See [Liveness, Readiness, and Startup Probes](https://kubernetes.io/docs/concepts/configuration/liveness-readiness-startup-probes/)
// for more details.
func Readiness(m health.Monitor) ApiOption {
	return apiOptionFunc(func(ao *ApiOptions) {
		ao.readiness = m
	})
}

// Liveness will register the given [health.Monitor] to be used
// for reporting when the entire application needs to be restarted.
//
// See [Liveness, Readiness, and Startup Probes](https://kubernetes.io/docs/concepts/configuration/liveness-readiness-startup-probes/)
// for more details.
func Liveness(m health.Monitor) ApiOption {
	return apiOptionFunc(func(ao *ApiOptions) {
		ao.liveness = m
	})
}

// fallbackRoute serves routes whose regex pattern can not be expressed
// as a request multiplexer pattern. Requests falling through the mux
// are matched against each fallback route in registration order.
type fallbackRoute struct {
	regex      *regexp.Regexp
	methods    []string
	operations map[string]http.Handler
}

// Api is a [http.Handler] which routes requests to the handlers of its
// registered routes and documents them.
//
// Every Api provides a set of standard endpoints:
//   - OpenAPI document as JSON at "/openapi.json" and YAML at "/openapi.yaml"
//   - Liveness endpoint at "/health/liveness"
//   - Readiness endpoint at "/health/readiness"
type Api struct {
	router   *chi.Mux
	fallback []fallbackRoute

	doc    *openapi.Document
	docErr error
}

// NewApi initializes an [Api].
//
// The title and version name the API in the OpenAPI document. Routes
// whose patterns only use named groups are mounted directly on the
// request multiplexer; anything beyond that, e.g. back-references or
// regex constructs between groups, is matched by walking the route
// regexes in registration order. The document is assembled here once;
// if any route fails to be described the error is logged and the
// document endpoints respond with a 500 until the route is fixed.
func NewApi(title, version string, opts ...ApiOption) *Api {
	var defaultHealth health.Binary
	defaultHealth.MarkHealthy()

	ao := &ApiOptions{
		readiness: &defaultHealth,
		liveness:  &defaultHealth,
	}
	for _, opt := range opts {
		opt.ApplyApiOption(ao)
	}

	api := &Api{
		router: chi.NewMux(),
	}
	for _, route := range ao.routes {
		api.mount(route)
	}

	api.doc, api.docErr = buildDocument(openapi.Info{Title: title, Version: version}, ao.routes)
	if api.docErr != nil {
		typedroutes.Logger("web").Error(
			"failed to describe routes",
			slog.String("error", api.docErr.Error()),
		)
	}

	api.router.Get("/openapi.json", api.serveJSONDocument)
	api.router.Get("/openapi.yaml", api.serveYAMLDocument)
	api.router.Get("/health/readiness", healthHandler(ao.readiness))
	api.router.Get("/health/liveness", healthHandler(ao.liveness))

	api.router.NotFound(api.serveFallback)

	return api
}

// mount registers the route's operations with the request multiplexer
// and appends it to the fallback list. The fallback also covers routes
// the mux can serve, so patterns matching more paths than their mux
// rendition, e.g. an optional trailing slash, still work.
func (api *Api) mount(route *Route) {
	path := openapi.TranslatePathPattern(route.pattern)
	muxPattern, mountable := muxPattern(path)

	operations := make(map[string]http.Handler, len(route.endpoints))
	for _, e := range route.endpoints {
		var op http.Handler = &operation{
			tracer:     otel.Tracer("github.com/z5labs/typedroutes/web"),
			errHandler: e.opts.errHandler,
			regex:      route.regex,
			converters: route.pathTypes,
			handler:    e.handler,
		}
		op = otelhttp.WithRouteTag(path.Template, op)

		operations[e.method] = op
		if mountable {
			api.router.Method(e.method, muxPattern, op)
		}
	}

	api.fallback = append(api.fallback, fallbackRoute{
		regex:      route.regex,
		methods:    route.Methods(),
		operations: operations,
	})
}

// templatePlaceholder matches one {name} placeholder of a translated
// path template.
var templatePlaceholder = regexp.MustCompile(`\{([^{}]+)\}`)

// muxPattern renders a translated path as a chi routing pattern,
// inlining each group's sub-pattern as {name:pattern}. It reports
// false when the path is beyond chi's pattern syntax: regex constructs
// between placeholders, sub-patterns spanning path segments, or a
// group used more than once.
func muxPattern(path openapi.Path) (string, bool) {
	const metachars = `\^$.|?*+()[]{}`

	if !strings.HasPrefix(path.Template, "/") {
		return "", false
	}

	var sb strings.Builder
	used := make(map[string]struct{}, len(path.Names))

	last := 0
	for _, m := range templatePlaceholder.FindAllStringSubmatchIndex(path.Template, -1) {
		literal := path.Template[last:m[0]]
		if strings.ContainsAny(literal, metachars) {
			return "", false
		}
		sb.WriteString(literal)

		name := path.Template[m[2]:m[3]]
		if _, ok := used[name]; ok {
			return "", false
		}
		used[name] = struct{}{}

		sub := path.Patterns[name]
		if sub == "" || strings.ContainsAny(sub, "/{}") {
			return "", false
		}
		sb.WriteString("{" + name + ":" + sub + "}")

		last = m[1]
	}

	literal := path.Template[last:]
	if strings.ContainsAny(literal, metachars) {
		return "", false
	}
	sb.WriteString(literal)

	return sb.String(), true
}

// serveFallback handles requests which did not match any mux pattern by
// walking the route regexes in registration order.
func (api *Api) serveFallback(w http.ResponseWriter, r *http.Request) {
	for _, route := range api.fallback {
		if !route.regex.MatchString(r.URL.Path) {
			continue
		}

		op, ok := route.operations[r.Method]
		if !ok {
			w.Header().Set("Allow", strings.Join(route.methods, ", "))
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		op.ServeHTTP(w, r)
		return
	}
	http.NotFound(w, r)
}

func (api *Api) serveJSONDocument(w http.ResponseWriter, r *http.Request) {
	if api.doc == nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	err := enc.Encode(api.doc)
	if err == nil {
		return
	}
	typedroutes.Logger("web").ErrorContext(
		r.Context(),
		"failed to encode openapi document to json",
		slog.String("error", err.Error()),
	)
}

func (api *Api) serveYAMLDocument(w http.ResponseWriter, r *http.Request) {
	if api.doc == nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	b, err := yaml.Marshal(api.doc)
	if err != nil {
		typedroutes.Logger("web").ErrorContext(
			r.Context(),
			"failed to encode openapi document to yaml",
			slog.String("error", err.Error()),
		)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/yaml")
	w.Write(b)
}

func healthHandler(m health.Monitor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		healthy, err := m.Healthy(r.Context())
		if !healthy || err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

// Document returns the assembled OpenAPI document, or the error which
// prevented assembling it.
func (api *Api) Document() (*openapi.Document, error) {
	if api.docErr != nil {
		return nil, api.docErr
	}
	return api.doc, nil
}

// ServeHTTP implements the [http.Handler] interface.
func (api *Api) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	api.router.ServeHTTP(w, r)
}
