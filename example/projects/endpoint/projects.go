// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/z5labs/typedroutes"
	"github.com/z5labs/typedroutes/example/projects/project"
	"github.com/z5labs/typedroutes/schema"
	"github.com/z5labs/typedroutes/web"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Projects serves the project collection: listing and creation.
func Projects(store *project.Store) *web.Route {
	list := &listProjectsHandler{
		tracer: otel.Tracer("endpoint"),
		store:  store,
	}
	create := &createProjectHandler{
		tracer: otel.Tracer("endpoint"),
		log:    typedroutes.Logger("endpoint"),
		store:  store,
	}

	return web.MustRoute(
		`/projects/?`,
		web.Get(
			list,
			web.Doc(`List every project.

Archived projects are included.`),
			web.Tags("projects"),
			web.Returns(schema.ArrayOf(schema.Struct[project.Project]())),
		),
		web.Post(
			create,
			web.Doc(`Create a project.`),
			web.Tags("projects"),
			web.OperationID("createProject"),
			web.Returns(schema.Struct[project.Project]()),
		),
	)
}

type listProjectsHandler struct {
	tracer trace.Tracer
	store  *project.Store
}

func (h *listProjectsHandler) Handle(ctx context.Context) (any, error) {
	ctx, span := h.tracer.Start(ctx, "listProjectsHandler.Handle")
	defer span.End()

	return h.store.List(ctx), nil
}

type createProjectHandler struct {
	tracer trace.Tracer
	log    *slog.Logger
	store  *project.Store
}

type createProjectRequest struct {
	Name string `json:"name"`
}

func (h *createProjectHandler) Handle(ctx context.Context) (any, error) {
	ctx, span := h.tracer.Start(ctx, "createProjectHandler.Handle")
	defer span.End()

	r, _ := web.RequestFromContext(ctx)

	var req createProjectRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		return nil, web.BadRequestError{Cause: err}
	}

	p := h.store.Add(ctx, req.Name)
	h.log.InfoContext(ctx, "created project", slog.Int64("id", p.ID))
	return p, nil
}
