// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package otelinit

import (
	"context"
	"slices"
	"strings"

	"go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// severityFilter wraps a [sdklog.Processor] and drops records below a
// minimum severity configured per logger name. Logger names match
// exactly or by longest prefix; names with no configuration pass
// everything through.
type severityFilter struct {
	inner    sdklog.Processor
	levels   map[string]log.Severity
	prefixes []string
}

func newSeverityFilter(inner sdklog.Processor, levels map[string]string) *severityFilter {
	severities := make(map[string]log.Severity, len(levels))
	prefixes := make([]string, 0, len(levels))
	for name, level := range levels {
		severities[name] = parseSeverity(level)
		prefixes = append(prefixes, name)
	}

	// longest prefix first so the most specific config wins
	slices.SortFunc(prefixes, func(a, b string) int {
		return len(b) - len(a)
	})

	return &severityFilter{
		inner:    inner,
		levels:   severities,
		prefixes: prefixes,
	}
}

// parseSeverity maps a config level string to a [log.Severity].
// Unknown values fall back to debug so misconfiguration never hides
// records.
func parseSeverity(level string) log.Severity {
	switch strings.ToLower(level) {
	case "debug":
		return log.SeverityDebug
	case "info":
		return log.SeverityInfo
	case "warn", "warning":
		return log.SeverityWarn
	case "error":
		return log.SeverityError
	default:
		return log.SeverityDebug
	}
}

// OnEmit implements the [sdklog.Processor] interface.
func (p *severityFilter) OnEmit(ctx context.Context, record *sdklog.Record) error {
	if !p.shouldEmit(record) {
		return nil
	}
	return p.inner.OnEmit(ctx, record)
}

func (p *severityFilter) shouldEmit(record *sdklog.Record) bool {
	min, ok := p.minimumFor(record.InstrumentationScope().Name)
	if !ok {
		return true
	}
	return record.Severity() >= min
}

func (p *severityFilter) minimumFor(loggerName string) (log.Severity, bool) {
	if severity, ok := p.levels[loggerName]; ok {
		return severity, true
	}
	for _, prefix := range p.prefixes {
		if strings.HasPrefix(loggerName, prefix) {
			return p.levels[prefix], true
		}
	}
	return 0, false
}

// Shutdown implements the [sdklog.Processor] interface.
func (p *severityFilter) Shutdown(ctx context.Context) error {
	return p.inner.Shutdown(ctx)
}

// ForceFlush implements the [sdklog.Processor] interface.
func (p *severityFilter) ForceFlush(ctx context.Context) error {
	return p.inner.ForceFlush(ctx)
}
