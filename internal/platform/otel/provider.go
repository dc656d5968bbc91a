// Package otel wires OpenTelemetry tracing for story builder processes.
package otel

import (
	"context"
	"os"
	"runtime/debug"
	"sort"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const (
	// EnvEndpoint names the OTLP/HTTP collector URL.
	EnvEndpoint = "STORYBUILDER_OTEL_ENDPOINT"
	// EnvEnabled can be set to "false" to force tracing off.
	EnvEnabled = "STORYBUILDER_OTEL_ENABLED"

	// Namespace groups every story builder process in trace backends.
	Namespace = "storybuilder"
	// AttributePrefix scopes process settings recorded on the resource.
	AttributePrefix = "storybuilder."
)

// ServiceInfo describes the process that emits spans.
type ServiceInfo struct {
	Name string
	// Version defaults to the main module version from the build info.
	Version string
	// Settings are recorded as storybuilder.<key> resource attributes.
	Settings map[string]string
}

// ResourceAttributes returns the resource attributes for info.
func ResourceAttributes(info ServiceInfo) []attribute.KeyValue {
	version := strings.TrimSpace(info.Version)
	if version == "" {
		version = buildVersion()
	}
	attrs := []attribute.KeyValue{
		semconv.ServiceName(info.Name),
		semconv.ServiceNamespace(Namespace),
		semconv.ServiceVersion(version),
	}

	keys := make([]string, 0, len(info.Settings))
	for key := range info.Settings {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		attrs = append(attrs, attribute.String(AttributePrefix+key, info.Settings[key]))
	}
	return attrs
}

func buildVersion() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok || bi.Main.Version == "" {
		return "devel"
	}
	return bi.Main.Version
}

// Setup initialises OpenTelemetry tracing for the given service.
//
// Tracing is opt-in: when STORYBUILDER_OTEL_ENDPOINT is empty or
// STORYBUILDER_OTEL_ENABLED is "false", Setup returns a no-op shutdown
// function and the global provider stays the default no-op one. Spans
// started by icon jobs are then dropped.
//
// The returned shutdown function flushes pending spans and should be deferred
// by the caller.
func Setup(ctx context.Context, info ServiceInfo) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }

	if strings.EqualFold(strings.TrimSpace(os.Getenv(EnvEnabled)), "false") {
		return noop, nil
	}

	endpoint := strings.TrimSpace(os.Getenv(EnvEndpoint))
	if endpoint == "" {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(endpoint),
	)
	if err != nil {
		return noop, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(ResourceAttributes(info)...),
	)
	if err != nil {
		return noop, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}
