// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package app

import (
	"context"

	"github.com/z5labs/typedroutes/example/projects/endpoint"
	"github.com/z5labs/typedroutes/example/projects/project"
	"github.com/z5labs/typedroutes/health"
	"github.com/z5labs/typedroutes/web"
)

type Config struct {
	web.Config `config:",squash"`
}

func Init(ctx context.Context, cfg Config) (*web.Api, error) {
	store := project.NewStore()

	var readiness health.Binary
	readiness.MarkHealthy()

	api := web.NewApi(
		cfg.OpenApi.Title,
		cfg.OpenApi.Version,
		web.Routes(
			endpoint.Projects(store),
			endpoint.ProjectByID(store),
			endpoint.DailyActivity(store),
			endpoint.SetArchived(store),
		),
		web.Readiness(&readiness),
	)

	return api, nil
}
