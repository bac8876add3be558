// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/z5labs/typedroutes/example/projects/project"
	"github.com/z5labs/typedroutes/web"

	"github.com/stretchr/testify/assert"
)

func TestSetArchived(t *testing.T) {
	t.Run("will archive the project", func(t *testing.T) {
		t.Run("if the state is spelled on", func(t *testing.T) {
			store := project.NewStore()
			p := store.Add(context.Background(), "atlas")

			api := web.NewApi("test", "v0.0.0", web.Routes(SetArchived(store)))

			srv := httptest.NewServer(api)
			defer srv.Close()

			req, err := http.NewRequest(http.MethodPut, srv.URL+"/projects/1/archived/on", nil)
			if !assert.Nil(t, err) {
				return
			}

			resp, err := http.DefaultClient.Do(req)
			if !assert.Nil(t, err) {
				return
			}
			resp.Body.Close()

			if !assert.Equal(t, http.StatusNoContent, resp.StatusCode) {
				return
			}

			got, exists := store.GetByID(context.Background(), p.ID)
			if !assert.True(t, exists) {
				return
			}
			if !assert.True(t, got.Archived) {
				return
			}
		})
	})

	t.Run("will return HTTP 400", func(t *testing.T) {
		t.Run("if the state is not a recognized boolean", func(t *testing.T) {
			store := project.NewStore()
			store.Add(context.Background(), "atlas")

			api := web.NewApi("test", "v0.0.0", web.Routes(SetArchived(store)))

			srv := httptest.NewServer(api)
			defer srv.Close()

			req, err := http.NewRequest(http.MethodPut, srv.URL+"/projects/1/archived/banana", nil)
			if !assert.Nil(t, err) {
				return
			}

			resp, err := http.DefaultClient.Do(req)
			if !assert.Nil(t, err) {
				return
			}
			resp.Body.Close()

			if !assert.Equal(t, http.StatusBadRequest, resp.StatusCode) {
				return
			}
		})
	})
}
