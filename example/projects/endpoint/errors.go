// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package endpoint defines the HTTP routes of the project service.
package endpoint

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// ProjectNotFoundError is returned by handlers when no project matches
// the requested identifier. It writes a JSON 404 response.
type ProjectNotFoundError struct {
	ID any
}

func (e ProjectNotFoundError) Error() string {
	return fmt.Sprintf("no project with id %v", e.ID)
}

// WriteHttpResponse lets the error render its own response instead of
// the default 500.
func (e ProjectNotFoundError) WriteHttpResponse(ctx context.Context, w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)

	enc := json.NewEncoder(w)
	enc.Encode(map[string]any{
		"error": e.Error(),
	})
}
