// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package web

import (
	"log/slog"
	"strings"

	"github.com/z5labs/typedroutes"
	"github.com/z5labs/typedroutes/openapi"
	"github.com/z5labs/typedroutes/schema"

	"github.com/samber/lo"
	"github.com/sourcegraph/conc/iter"
)

// buildDocument describes every route and assembles the OpenAPI
// document. Routes are described concurrently; path items whose every
// operation is omitted are excluded.
func buildDocument(info openapi.Info, routes []*Route) (*openapi.Document, error) {
	type pathItem struct {
		template string
		item     *openapi.PathItem
	}

	items, err := iter.MapErr(routes, func(route **Route) (pathItem, error) {
		path := openapi.TranslatePathPattern((*route).pattern)
		item, err := describeRoute(*route, path)
		if err != nil {
			return pathItem{}, err
		}
		return pathItem{template: path.Template, item: item}, nil
	})
	if err != nil {
		return nil, err
	}

	doc := openapi.NewDocument(info)
	for _, pi := range items {
		if pi.item.Empty() {
			continue
		}
		doc.Paths[pi.template] = pi.item
	}
	return doc, nil
}

// describeRoute builds the path item for one route: a parameter per
// named group in pattern-discovery order plus an operation per
// non-omitted method.
func describeRoute(route *Route, path openapi.Path) (*openapi.PathItem, error) {
	item := &openapi.PathItem{
		Parameters: lo.Map(path.Names, func(name string, _ int) openapi.Parameter {
			c := route.pathTypes[name]
			return openapi.PathParameter(name, path.Patterns[name], c.Metadata())
		}),
	}

	for _, e := range route.endpoints {
		if e.opts.omit {
			continue
		}

		op, err := describeOperation(e.opts)
		if err != nil {
			typedroutes.Logger("web").Error(
				"failed to describe operation",
				slog.String("method", e.method),
				slog.String("pattern", route.pattern),
				slog.String("error", err.Error()),
			)
			return nil, err
		}
		item.SetOperation(e.method, op)
	}
	return item, nil
}

// describeOperation builds the operation object for one endpoint. Doc
// text seeds the summary and description, the declared return type
// becomes the schema of the "default" response, and annotations are
// applied in order with fill-unset semantics.
func describeOperation(eo *EndpointOptions) (*openapi.Operation, error) {
	op := &openapi.Operation{}
	if eo.doc != "" {
		op.Summary, op.Description = splitDoc(eo.doc)
	}

	if !eo.returns.IsZero() {
		desc, err := schema.Describe(eo.returns)
		if err != nil {
			return nil, err
		}
		op.Responses = map[string]openapi.Response{
			"default": {
				Description: "default",
				Content: map[string]openapi.MediaType{
					"application/json": {Schema: desc},
				},
			},
		}
	}

	for _, anno := range eo.annotations {
		op.Summary = applyDefault(op.Summary, anno.summary)
		op.Description = applyDefault(op.Description, anno.description)
		op.OperationID = applyDefault(op.OperationID, anno.operationID)
		if op.Deprecated == nil {
			op.Deprecated = anno.deprecated
		}
		op.Tags = append(op.Tags, anno.tags...)
	}
	return op, nil
}

func applyDefault(current, def string) string {
	if current != "" {
		return current
	}
	return def
}

// splitDoc splits documentation text into a summary and description.
// The first line is the summary; when it is followed by a blank line
// the remaining lines become the description with internal blanks and
// relative indentation preserved.
func splitDoc(doc string) (summary, description string) {
	lines := cleanDoc(doc)
	if len(lines) == 0 {
		return "", ""
	}

	summary = lines[0]
	if len(lines) > 1 && strings.TrimSpace(lines[1]) == "" {
		description = strings.Join(lines[2:], "\n")
	}
	return summary, description
}

// cleanDoc normalizes doc text the way Go source formatting tends to
// leave it: the common leading whitespace of every line beyond the
// first is removed, trailing whitespace is trimmed per line, and
// leading and trailing blank lines are dropped.
func cleanDoc(doc string) []string {
	lines := strings.Split(doc, "\n")

	margin := -1
	for _, line := range lines[1:] {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" {
			continue
		}
		indent := len(line) - len(trimmed)
		if margin < 0 || indent < margin {
			margin = indent
		}
	}

	cleaned := make([]string, 0, len(lines))
	cleaned = append(cleaned, strings.TrimSpace(lines[0]))
	for _, line := range lines[1:] {
		if margin > 0 && len(line) >= margin {
			line = line[margin:]
		}
		cleaned = append(cleaned, strings.TrimRight(line, " \t"))
	}

	for len(cleaned) > 0 && cleaned[0] == "" {
		cleaned = cleaned[1:]
	}
	for len(cleaned) > 0 && cleaned[len(cleaned)-1] == "" {
		cleaned = cleaned[:len(cleaned)-1]
	}
	return cleaned
}
