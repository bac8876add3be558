// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"github.com/z5labs/typedroutes/coerce"
	"github.com/z5labs/typedroutes/encode"

	"github.com/z5labs/sdk-go/try"
	"go.opentelemetry.io/otel/trace"
)

// NotFoundError represents a 404 Not Found error. It is returned when
// a request reaches an operation whose route pattern does not match
// the request path, and implements [HttpResponseWriter].
type NotFoundError struct {
	Path string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("no route matches %q", e.Path)
}

// WriteHttpResponse implements the [HttpResponseWriter] interface.
func (e NotFoundError) WriteHttpResponse(ctx context.Context, rw http.ResponseWriter) {
	rw.WriteHeader(http.StatusNotFound)
}

// operation serves one HTTP method of one route. The route regex and
// converter map are shared across the route's operations.
type operation struct {
	tracer     trace.Tracer
	errHandler ErrorHandler
	regex      *regexp.Regexp
	converters map[string]coerce.Converter
	handler    Handler
}

func (o *operation) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var err error
	defer func() {
		if err == nil {
			return
		}

		o.errHandler.OnError(ctx, w, err)
	}()
	defer try.Recover(&err)

	params, err := o.parseParams(ctx, r)
	if err != nil {
		return
	}

	ctx = NewParamsContext(ctx, params)
	ctx = NewRequestContext(ctx, r)

	resp, err := o.handler.Handle(ctx)
	if err != nil {
		return
	}

	err = o.writeResponse(ctx, w, resp)
}

// parseParams extracts the named groups of the route pattern from the
// request path and converts each one. Parse failures map to a 400 via
// [BadRequestError]; any other converter error passes through.
func (o *operation) parseParams(ctx context.Context, r *http.Request) (Params, error) {
	_, span := o.tracer.Start(ctx, "operation.parseParams")
	defer span.End()

	match := o.regex.FindStringSubmatch(r.URL.Path)
	if match == nil {
		return nil, NotFoundError{Path: r.URL.Path}
	}

	params := make(Params)
	for i, name := range o.regex.SubexpNames() {
		if i == 0 || name == "" {
			continue
		}

		c, ok := o.converters[name]
		if !ok {
			params[name] = match[i]
			continue
		}

		v, err := c.Parse(match[i])
		if err != nil {
			var perr coerce.ParseError
			if errors.As(err, &perr) {
				return nil, BadRequestError{Cause: err}
			}
			return nil, err
		}
		params[name] = v
	}
	return params, nil
}

// writeResponse serializes the handler's return value as JSON. A nil
// value responds 204 No Content with an empty body.
func (o *operation) writeResponse(ctx context.Context, w http.ResponseWriter, resp any) error {
	_, span := o.tracer.Start(ctx, "operation.writeResponse")
	defer span.End()

	if resp == nil {
		w.WriteHeader(http.StatusNoContent)
		return nil
	}

	b, err := encode.Marshal(resp)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(b)
	return err
}
