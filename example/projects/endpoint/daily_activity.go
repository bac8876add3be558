// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"context"

	"github.com/z5labs/typedroutes"
	"github.com/z5labs/typedroutes/example/projects/project"
	"github.com/z5labs/typedroutes/schema"
	"github.com/z5labs/typedroutes/web"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// DailyActivity serves a project's activity for one calendar day. The
// pattern uses regex constructs beyond the mux syntax, so requests are
// matched by the pattern itself.
func DailyActivity(store *project.Store) *web.Route {
	h := &dailyActivityHandler{
		tracer: otel.Tracer("endpoint"),
		store:  store,
	}

	return web.MustRoute(
		`/projects/(?P<id>[1-9]\d*)/activity/(?P<day>\d{4}-\d{2}-\d{2})`,
		web.Get(
			h,
			web.PathParam("id", schema.Int()),
			web.PathParam("day", schema.Date()),
			web.Doc(`Report a project's activity on one day.

Days are RFC 3339 full-dates, e.g. 2025-08-04.`),
			web.Tags("projects", "activity"),
			web.Returns(schema.Struct[project.Activity]()),
		),
	)
}

type dailyActivityHandler struct {
	tracer trace.Tracer
	store  *project.Store
}

func (h *dailyActivityHandler) Handle(ctx context.Context) (any, error) {
	ctx, span := h.tracer.Start(ctx, "dailyActivityHandler.Handle")
	defer span.End()

	params, _ := web.ParamsFromContext(ctx)
	id := params["id"].(int64)
	day := params["day"].(typedroutes.Date)

	activity, exists := h.store.ActivityOn(ctx, id, day)
	if !exists {
		return nil, ProjectNotFoundError{ID: id}
	}
	return activity, nil
}
