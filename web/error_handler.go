// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package web

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
)

// HttpResponseWriter is an interface for errors that can write their own
// HTTP responses. When an error implementing this interface is returned
// from a [Handler], its WriteHttpResponse method is called to generate
// the HTTP response instead of the default 500.
type HttpResponseWriter interface {
	WriteHttpResponse(context.Context, http.ResponseWriter)
}

// ErrorHandler handles errors that occur during request processing.
type ErrorHandler interface {
	OnError(context.Context, http.ResponseWriter, error)
}

// ErrorHandlerFunc is a func type of the [ErrorHandler] interface.
type ErrorHandlerFunc func(context.Context, http.ResponseWriter, error)

// OnError implements the [ErrorHandler] interface.
func (f ErrorHandlerFunc) OnError(ctx context.Context, w http.ResponseWriter, err error) {
	f(ctx, w, err)
}

func defaultErrorHandler(h slog.Handler) ErrorHandlerFunc {
	log := slog.New(h)

	return func(ctx context.Context, w http.ResponseWriter, err error) {
		log.ErrorContext(ctx, "sending error response", slog.Any("error", err))

		hrw, ok := err.(HttpResponseWriter)
		if ok {
			hrw.WriteHttpResponse(ctx, w)
			return
		}

		w.WriteHeader(http.StatusInternalServerError)
	}
}

// BadRequestError represents a 400 Bad Request error. It wraps an
// underlying cause, typically a [coerce.ParseError] from a path value,
// and implements [HttpResponseWriter] to return a 400 status code.
type BadRequestError struct {
	Cause error
}

func (e BadRequestError) Error() string {
	return fmt.Sprintf("bad request error: %v", e.Cause)
}

// Unwrap returns the underlying cause of the bad request.
func (e BadRequestError) Unwrap() error {
	return e.Cause
}

// WriteHttpResponse implements the [HttpResponseWriter] interface.
func (e BadRequestError) WriteHttpResponse(ctx context.Context, rw http.ResponseWriter) {
	rw.WriteHeader(http.StatusBadRequest)
}
