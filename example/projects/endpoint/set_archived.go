// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"context"
	"log/slog"

	"github.com/z5labs/typedroutes"
	"github.com/z5labs/typedroutes/coerce"
	"github.com/z5labs/typedroutes/example/projects/project"
	"github.com/z5labs/typedroutes/schema"
	"github.com/z5labs/typedroutes/web"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// SetArchived toggles a project's archived flag. The state path value
// parses as a boolean with "on" and "off" accepted alongside the
// numeric forms.
func SetArchived(store *project.Store) *web.Route {
	h := &setArchivedHandler{
		tracer: otel.Tracer("endpoint"),
		log:    typedroutes.Logger("endpoint"),
		store:  store,
	}

	converters := coerce.NewSet(
		coerce.WithBoolStrings(
			[]string{"on", "true"},
			[]string{"off", "false"},
		),
	)

	return web.MustRoute(
		`/projects/(?P<id>[1-9]\d*)/archived/(?P<state>[a-z]+)`,
		web.Converters(converters),
		web.Put(
			h,
			web.PathParam("id", schema.Int()),
			web.PathParam("state", schema.Bool()),
			web.Doc(`Archive or unarchive a project.`),
			web.Tags("projects"),
		),
	)
}

type setArchivedHandler struct {
	tracer trace.Tracer
	log    *slog.Logger
	store  *project.Store
}

func (h *setArchivedHandler) Handle(ctx context.Context) (any, error) {
	ctx, span := h.tracer.Start(ctx, "setArchivedHandler.Handle")
	defer span.End()

	params, _ := web.ParamsFromContext(ctx)
	id := params["id"].(int64)
	state := params["state"].(bool)

	if !h.store.SetArchived(ctx, id, state) {
		return nil, ProjectNotFoundError{ID: id}
	}

	h.log.InfoContext(ctx, "set archived",
		slog.Int64("id", id),
		slog.Bool("archived", state),
	)
	return nil, nil
}
