// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package otelinit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/sdk/instrumentation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/log/logtest"
)

type captureProcessor struct {
	emitted []*sdklog.Record
}

func (p *captureProcessor) OnEmit(ctx context.Context, record *sdklog.Record) error {
	p.emitted = append(p.emitted, record)
	return nil
}

func (p *captureProcessor) Shutdown(ctx context.Context) error {
	return nil
}

func (p *captureProcessor) ForceFlush(ctx context.Context) error {
	return nil
}

func newFilterRecord(severity log.Severity, loggerName string) *sdklog.Record {
	factory := logtest.RecordFactory{
		Severity:             severity,
		InstrumentationScope: &instrumentation.Scope{Name: loggerName},
	}
	record := factory.NewRecord()
	return &record
}

func TestParseSeverity(t *testing.T) {
	testCases := []struct {
		Name     string
		Level    string
		Expected log.Severity
	}{
		{Name: "debug", Level: "debug", Expected: log.SeverityDebug},
		{Name: "info", Level: "info", Expected: log.SeverityInfo},
		{Name: "warn", Level: "warn", Expected: log.SeverityWarn},
		{Name: "warning", Level: "warning", Expected: log.SeverityWarn},
		{Name: "error", Level: "error", Expected: log.SeverityError},
		{Name: "mixed case", Level: "WaRn", Expected: log.SeverityWarn},
		{Name: "unknown falls back to debug", Level: "loud", Expected: log.SeverityDebug},
	}

	for _, testCase := range testCases {
		t.Run(testCase.Name, func(t *testing.T) {
			assert.Equal(t, testCase.Expected, parseSeverity(testCase.Level))
		})
	}
}

func TestSeverityFilter_OnEmit(t *testing.T) {
	t.Run("will emit the record", func(t *testing.T) {
		t.Run("if no level is configured for the logger", func(t *testing.T) {
			inner := &captureProcessor{}
			p := newSeverityFilter(inner, map[string]string{
				"example.com/other": "error",
			})

			err := p.OnEmit(context.Background(), newFilterRecord(log.SeverityDebug, "example.com/app"))
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Len(t, inner.emitted, 1) {
				return
			}
		})

		t.Run("if the record meets the minimum severity", func(t *testing.T) {
			inner := &captureProcessor{}
			p := newSeverityFilter(inner, map[string]string{
				"example.com/app": "warn",
			})

			err := p.OnEmit(context.Background(), newFilterRecord(log.SeverityError, "example.com/app"))
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Len(t, inner.emitted, 1) {
				return
			}
		})
	})

	t.Run("will drop the record", func(t *testing.T) {
		t.Run("if the record is below the minimum severity", func(t *testing.T) {
			inner := &captureProcessor{}
			p := newSeverityFilter(inner, map[string]string{
				"example.com/app": "warn",
			})

			err := p.OnEmit(context.Background(), newFilterRecord(log.SeverityInfo, "example.com/app"))
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Empty(t, inner.emitted) {
				return
			}
		})

		t.Run("if a prefix of the logger name is configured", func(t *testing.T) {
			inner := &captureProcessor{}
			p := newSeverityFilter(inner, map[string]string{
				"example.com/app": "error",
			})

			err := p.OnEmit(context.Background(), newFilterRecord(log.SeverityWarn, "example.com/app/web"))
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Empty(t, inner.emitted) {
				return
			}
		})
	})

	t.Run("will prefer the most specific prefix", func(t *testing.T) {
		t.Run("if several prefixes match", func(t *testing.T) {
			inner := &captureProcessor{}
			p := newSeverityFilter(inner, map[string]string{
				"example.com/app":     "error",
				"example.com/app/web": "debug",
			})

			err := p.OnEmit(context.Background(), newFilterRecord(log.SeverityDebug, "example.com/app/web"))
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Len(t, inner.emitted, 1) {
				return
			}
		})
	})
}
