// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package config defines the configuration tree shared by all typedroutes applications.
package config

import (
	"time"
)

// Resource identifies the service which telemetry is reported for.
type Resource struct {
	ServiceName    string `config:"service_name"`
	ServiceVersion string `config:"service_version"`
}

// OTLPConnType
type OTLPConnType string

const (
	OTLPHTTP OTLPConnType = "http"
	OTLPGRPC OTLPConnType = "grpc"
)

// OTLP
type OTLP struct {
	Type   OTLPConnType `config:"type"`
	Target string       `config:"target"`
}

// ExporterType selects how telemetry leaves the process. An empty or
// unrecognized value falls back to a signal specific default.
type ExporterType string

const (
	OTLPExporterType ExporterType = "otlp"
)

// Exporter
type Exporter struct {
	Type ExporterType `config:"type"`
	OTLP OTLP         `config:"otlp"`
}

// Batch
type Batch struct {
	ExportInterval time.Duration `config:"export_interval"`
	MaxSize        int           `config:"max_size"`
}

// SpanProcessorType
type SpanProcessorType string

const (
	BatchSpanProcessorType SpanProcessorType = "batch"
)

// SpanProcessor
type SpanProcessor struct {
	Type  SpanProcessorType `config:"type"`
	Batch Batch             `config:"batch"`
}

// SpanSampling
type SpanSampling struct {
	Ratio float64 `config:"ratio"`
}

// Trace
type Trace struct {
	Sampling  SpanSampling  `config:"sampling"`
	Processor SpanProcessor `config:"processor"`
	Exporter  Exporter      `config:"exporter"`
}

// MetricReaderType
type MetricReaderType string

const (
	PeriodicReaderType MetricReaderType = "periodic"
)

// PeriodicReader
type PeriodicReader struct {
	ExportInterval time.Duration `config:"export_interval"`
}

// MetricReader
type MetricReader struct {
	Type     MetricReaderType `config:"type"`
	Periodic PeriodicReader   `config:"periodic"`
}

// Metric
type Metric struct {
	Reader   MetricReader `config:"reader"`
	Exporter Exporter     `config:"exporter"`
}

// LogProcessorType
type LogProcessorType string

const (
	SimpleLogProcessorType LogProcessorType = "simple"
	BatchLogProcessorType  LogProcessorType = "batch"
)

// LogProcessor
type LogProcessor struct {
	Type  LogProcessorType `config:"type"`
	Batch Batch            `config:"batch"`
}

// Log
type Log struct {
	Processor LogProcessor `config:"processor"`
	Exporter  Exporter     `config:"exporter"`

	// Levels sets a minimum severity per logger name, e.g.
	// "github.com/z5labs/typedroutes/web": "warn". Names match exactly
	// or by longest prefix; unconfigured loggers emit everything.
	Levels map[string]string `config:"levels"`
}

// OTel carries the full telemetry configuration for a typedroutes application.
type OTel struct {
	Resource Resource `config:"resource"`
	Trace    Trace    `config:"trace"`
	Metric   Metric   `config:"metric"`
	Log      Log      `config:"log"`
}
