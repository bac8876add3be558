// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package otelinit wires the OTel SDK global providers up from config.
package otelinit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/z5labs/typedroutes/concurrent"
	"github.com/z5labs/typedroutes/config"

	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/sdk"
	"go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Initialize registers global trace, metric and log providers built
// from cfg. OTLP exporters reaching the same gRPC target share one
// client connection.
func Initialize(ctx context.Context, cfg config.OTel) error {
	r, err := detectResource(ctx, cfg.Resource)
	if err != nil {
		return err
	}

	conns := concurrent.NewCache[string, *grpc.ClientConn]()

	err = initTracing(ctx, cfg.Trace, r, conns)
	if err != nil {
		return err
	}
	err = initMetrics(ctx, cfg.Metric, r, conns)
	if err != nil {
		return err
	}
	return initLogging(ctx, cfg.Log, r, conns)
}

func getOrNewClientConn(cfg config.OTLP, conns *concurrent.Cache[string, *grpc.ClientConn]) (*grpc.ClientConn, error) {
	return conns.GetOr(cfg.Target, func() (*grpc.ClientConn, error) {
		return grpc.NewClient(
			cfg.Target,
			// TODO: support secure transport credentials
			grpc.WithTransportCredentials(insecure.NewCredentials()),
		)
	})
}

func detectResource(ctx context.Context, cfg config.Resource) (*resource.Resource, error) {
	return resource.Detect(
		ctx,
		telemetrySDK{},
		resource.StringDetector(semconv.SchemaURL, semconv.HostNameKey, os.Hostname),
		serviceName(cfg.ServiceName),
		resource.StringDetector(semconv.SchemaURL, semconv.ServiceVersionKey, func() (string, error) {
			return cfg.ServiceVersion, nil
		}),
	)
}

type telemetrySDK struct{}

func (telemetrySDK) Detect(context.Context) (*resource.Resource, error) {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.TelemetrySDKName("opentelemetry"),
		semconv.TelemetrySDKLanguageGo,
		semconv.TelemetrySDKVersion(sdk.Version()),
	), nil
}

func serviceName(name string) resource.Detector {
	return resource.StringDetector(semconv.SchemaURL, semconv.ServiceNameKey, func() (string, error) {
		if len(name) > 0 {
			return name, nil
		}
		executable, err := os.Executable()
		if err != nil {
			return "unknown_service:go", nil
		}
		return "unknown_service:" + filepath.Base(executable), nil
	})
}

// UnknownOTLPConnTypeError is returned when an OTLP exporter is
// configured with an unsupported transport.
type UnknownOTLPConnTypeError struct {
	Type config.OTLPConnType
}

func (e UnknownOTLPConnTypeError) Error() string {
	return fmt.Sprintf("unknown otlp conn type: %q", e.Type)
}

func initTracing(ctx context.Context, cfg config.Trace, r *resource.Resource, conns *concurrent.Cache[string, *grpc.ClientConn]) error {
	exp, err := initSpanExporter(ctx, cfg.Exporter, conns)
	if err != nil {
		return err
	}

	sp, err := initSpanProcessor(cfg.Processor, exp)
	if err != nil {
		return err
	}

	tp := trace.NewTracerProvider(
		trace.WithSpanProcessor(sp),
		trace.WithSampler(trace.TraceIDRatioBased(cfg.Sampling.Ratio)),
		trace.WithResource(r),
	)
	otel.SetTracerProvider(tp)
	return nil
}

func initSpanExporter(ctx context.Context, cfg config.Exporter, conns *concurrent.Cache[string, *grpc.ClientConn]) (trace.SpanExporter, error) {
	if cfg.Type != config.OTLPExporterType {
		return noopSpanExporter{}, nil
	}

	switch cfg.OTLP.Type {
	case config.OTLPGRPC:
		cc, err := getOrNewClientConn(cfg.OTLP, conns)
		if err != nil {
			return nil, err
		}
		return otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(cc))
	case config.OTLPHTTP:
		return otlptracehttp.New(ctx, otlptracehttp.WithEndpoint(cfg.OTLP.Target))
	default:
		return nil, UnknownOTLPConnTypeError{Type: cfg.OTLP.Type}
	}
}

// UnknownSpanProcessorTypeError is returned when the span processor
// config names an unsupported processor.
type UnknownSpanProcessorTypeError struct {
	Type config.SpanProcessorType
}

func (e UnknownSpanProcessorTypeError) Error() string {
	return fmt.Sprintf("unknown span processor type: %q", e.Type)
}

func initSpanProcessor(cfg config.SpanProcessor, exp trace.SpanExporter) (trace.SpanProcessor, error) {
	switch cfg.Type {
	case config.BatchSpanProcessorType:
		bsp := trace.NewBatchSpanProcessor(
			exp,
			trace.WithBatchTimeout(cfg.Batch.ExportInterval),
			trace.WithMaxExportBatchSize(cfg.Batch.MaxSize),
		)
		return bsp, nil
	default:
		return nil, UnknownSpanProcessorTypeError{Type: cfg.Type}
	}
}

func initMetrics(ctx context.Context, cfg config.Metric, r *resource.Resource, conns *concurrent.Cache[string, *grpc.ClientConn]) error {
	exp, err := initMetricExporter(ctx, cfg.Exporter, conns)
	if err != nil {
		return err
	}

	reader, err := initMetricReader(cfg.Reader, exp)
	if err != nil {
		return err
	}

	mp := metric.NewMeterProvider(
		metric.WithReader(reader),
		metric.WithResource(r),
	)
	otel.SetMeterProvider(mp)

	return runtime.Start(
		runtime.WithMinimumReadMemStatsInterval(time.Second),
	)
}

func initMetricExporter(ctx context.Context, cfg config.Exporter, conns *concurrent.Cache[string, *grpc.ClientConn]) (metric.Exporter, error) {
	if cfg.Type != config.OTLPExporterType {
		return noopMetricExporter{}, nil
	}

	switch cfg.OTLP.Type {
	case config.OTLPGRPC:
		cc, err := getOrNewClientConn(cfg.OTLP, conns)
		if err != nil {
			return nil, err
		}
		return otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithGRPCConn(cc))
	case config.OTLPHTTP:
		return otlpmetrichttp.New(ctx, otlpmetrichttp.WithEndpoint(cfg.OTLP.Target))
	default:
		return nil, UnknownOTLPConnTypeError{Type: cfg.OTLP.Type}
	}
}

// UnknownMetricReaderTypeError is returned when the metric reader
// config names an unsupported reader.
type UnknownMetricReaderTypeError struct {
	Type config.MetricReaderType
}

func (e UnknownMetricReaderTypeError) Error() string {
	return fmt.Sprintf("unknown metric reader type: %q", e.Type)
}

func initMetricReader(cfg config.MetricReader, exp metric.Exporter) (metric.Reader, error) {
	switch cfg.Type {
	case config.PeriodicReaderType:
		r := metric.NewPeriodicReader(
			exp,
			metric.WithInterval(cfg.Periodic.ExportInterval),
			metric.WithProducer(runtime.NewProducer()),
		)
		return r, nil
	default:
		return nil, UnknownMetricReaderTypeError{Type: cfg.Type}
	}
}

func initLogging(ctx context.Context, cfg config.Log, r *resource.Resource, conns *concurrent.Cache[string, *grpc.ClientConn]) error {
	exp, err := initLogExporter(ctx, cfg.Exporter, conns)
	if err != nil {
		return err
	}

	lp, err := initLogProcessor(cfg.Processor, exp)
	if err != nil {
		return err
	}
	if len(cfg.Levels) > 0 {
		lp = newSeverityFilter(lp, cfg.Levels)
	}

	provider := log.NewLoggerProvider(
		log.WithProcessor(lp),
		log.WithResource(r),
	)
	global.SetLoggerProvider(provider)
	return nil
}

func initLogExporter(ctx context.Context, cfg config.Exporter, conns *concurrent.Cache[string, *grpc.ClientConn]) (log.Exporter, error) {
	if cfg.Type != config.OTLPExporterType {
		// logs always go somewhere, default to stdout
		return newSlogExporter(), nil
	}

	switch cfg.OTLP.Type {
	case config.OTLPGRPC:
		cc, err := getOrNewClientConn(cfg.OTLP, conns)
		if err != nil {
			return nil, err
		}
		return otlploggrpc.New(ctx, otlploggrpc.WithGRPCConn(cc))
	case config.OTLPHTTP:
		return otlploghttp.New(ctx, otlploghttp.WithEndpoint(cfg.OTLP.Target))
	default:
		return nil, UnknownOTLPConnTypeError{Type: cfg.OTLP.Type}
	}
}

// UnknownLogProcessorTypeError is returned when the log processor
// config names an unsupported processor.
type UnknownLogProcessorTypeError struct {
	Type config.LogProcessorType
}

func (e UnknownLogProcessorTypeError) Error() string {
	return fmt.Sprintf("unknown log processor type: %q", e.Type)
}

func initLogProcessor(cfg config.LogProcessor, exp log.Exporter) (log.Processor, error) {
	switch cfg.Type {
	case config.SimpleLogProcessorType:
		return log.NewSimpleProcessor(exp), nil
	case config.BatchLogProcessorType:
		lp := log.NewBatchProcessor(
			exp,
			log.WithExportInterval(cfg.Batch.ExportInterval),
			log.WithExportMaxBatchSize(cfg.Batch.MaxSize),
		)
		return lp, nil
	default:
		return nil, UnknownLogProcessorTypeError{Type: cfg.Type}
	}
}
