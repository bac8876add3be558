// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"context"
	"log/slog"

	"github.com/z5labs/typedroutes"
	"github.com/z5labs/typedroutes/example/projects/project"
	"github.com/z5labs/typedroutes/schema"
	"github.com/z5labs/typedroutes/web"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// ProjectByID serves a single project addressed either by its numeric
// id or by its key.
func ProjectByID(store *project.Store) *web.Route {
	get := &getProjectHandler{
		tracer: otel.Tracer("endpoint"),
		store:  store,
	}
	del := &deleteProjectHandler{
		tracer: otel.Tracer("endpoint"),
		log:    typedroutes.Logger("endpoint"),
		store:  store,
	}

	id := schema.Union(schema.Int(), schema.UUID())

	return web.MustRoute(
		`/projects/(?P<id>[^/]+)`,
		web.Get(
			get,
			web.PathParam("id", id),
			web.Doc(`Fetch a single project.

Projects are addressed by their numeric id or by their key.`),
			web.Tags("projects"),
			web.Returns(schema.Struct[project.Project]()),
		),
		web.Delete(
			del,
			web.PathParam("id", id),
			web.Doc(`Delete a project.`),
			web.Tags("projects"),
		),
	)
}

// lookup resolves a union typed id path value to a stored project.
func lookup(ctx context.Context, store *project.Store, id any) (*project.Project, bool) {
	switch id := id.(type) {
	case int64:
		return store.GetByID(ctx, id)
	case uuid.UUID:
		return store.GetByKey(ctx, id)
	default:
		return nil, false
	}
}

type getProjectHandler struct {
	tracer trace.Tracer
	store  *project.Store
}

func (h *getProjectHandler) Handle(ctx context.Context) (any, error) {
	ctx, span := h.tracer.Start(ctx, "getProjectHandler.Handle")
	defer span.End()

	params, _ := web.ParamsFromContext(ctx)

	p, exists := lookup(ctx, h.store, params["id"])
	if !exists {
		return nil, ProjectNotFoundError{ID: params["id"]}
	}
	return p, nil
}

type deleteProjectHandler struct {
	tracer trace.Tracer
	log    *slog.Logger
	store  *project.Store
}

func (h *deleteProjectHandler) Handle(ctx context.Context) (any, error) {
	ctx, span := h.tracer.Start(ctx, "deleteProjectHandler.Handle")
	defer span.End()

	params, _ := web.ParamsFromContext(ctx)

	p, exists := lookup(ctx, h.store, params["id"])
	if !exists {
		return nil, ProjectNotFoundError{ID: params["id"]}
	}

	h.store.Delete(ctx, p.ID)
	h.log.InfoContext(ctx, "deleted project", slog.Int64("id", p.ID))
	return nil, nil
}
