// Package transform converts OpenTelemetry SDK telemetry into OTLP wire
// messages. It is the default codec wired into the exporters; every
// conversion is total for well-formed input, unsupported shapes are dropped
// rather than reported.
package transform

import (
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/instrumentation"
	"go.opentelemetry.io/otel/sdk/resource"
	commonpb "go.opentelemetry.io/proto/otlp/common/v1"
	resourcepb "go.opentelemetry.io/proto/otlp/resource/v1"
)

// KeyValues converts attribute pairs into their wire form.
func KeyValues(attrs []attribute.KeyValue) []*commonpb.KeyValue {
	if len(attrs) == 0 {
		return nil
	}

	out := make([]*commonpb.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		out = append(out, &commonpb.KeyValue{
			Key:   string(attr.Key),
			Value: anyValue(attr.Value),
		})
	}

	return out
}

//nolint:exhaustive // attribute.INVALID falls through to the Emit form.
func anyValue(value attribute.Value) *commonpb.AnyValue {
	switch value.Type() {
	case attribute.BOOL:
		return &commonpb.AnyValue{Value: &commonpb.AnyValue_BoolValue{BoolValue: value.AsBool()}}
	case attribute.INT64:
		return &commonpb.AnyValue{Value: &commonpb.AnyValue_IntValue{IntValue: value.AsInt64()}}
	case attribute.FLOAT64:
		return &commonpb.AnyValue{Value: &commonpb.AnyValue_DoubleValue{DoubleValue: value.AsFloat64()}}
	case attribute.STRING:
		return &commonpb.AnyValue{Value: &commonpb.AnyValue_StringValue{StringValue: value.AsString()}}
	case attribute.BOOLSLICE:
		values := value.AsBoolSlice()

		items := make([]*commonpb.AnyValue, 0, len(values))
		for _, item := range values {
			items = append(items, &commonpb.AnyValue{Value: &commonpb.AnyValue_BoolValue{BoolValue: item}})
		}

		return arrayValue(items)
	case attribute.INT64SLICE:
		values := value.AsInt64Slice()

		items := make([]*commonpb.AnyValue, 0, len(values))
		for _, item := range values {
			items = append(items, &commonpb.AnyValue{Value: &commonpb.AnyValue_IntValue{IntValue: item}})
		}

		return arrayValue(items)
	case attribute.FLOAT64SLICE:
		values := value.AsFloat64Slice()

		items := make([]*commonpb.AnyValue, 0, len(values))
		for _, item := range values {
			items = append(items, &commonpb.AnyValue{Value: &commonpb.AnyValue_DoubleValue{DoubleValue: item}})
		}

		return arrayValue(items)
	case attribute.STRINGSLICE:
		values := value.AsStringSlice()

		items := make([]*commonpb.AnyValue, 0, len(values))
		for _, item := range values {
			items = append(items, &commonpb.AnyValue{Value: &commonpb.AnyValue_StringValue{StringValue: item}})
		}

		return arrayValue(items)
	default:
		return &commonpb.AnyValue{Value: &commonpb.AnyValue_StringValue{StringValue: value.Emit()}}
	}
}

func arrayValue(items []*commonpb.AnyValue) *commonpb.AnyValue {
	return &commonpb.AnyValue{
		Value: &commonpb.AnyValue_ArrayValue{
			ArrayValue: &commonpb.ArrayValue{Values: items},
		},
	}
}

// Resource converts an SDK resource into its wire form.
func Resource(res *resource.Resource) *resourcepb.Resource {
	if res == nil {
		return nil
	}

	return &resourcepb.Resource{Attributes: KeyValues(res.Attributes())}
}

// Scope converts an instrumentation scope into its wire form.
func Scope(scope instrumentation.Scope) *commonpb.InstrumentationScope {
	return &commonpb.InstrumentationScope{
		Name:       scope.Name,
		Version:    scope.Version,
		Attributes: KeyValues(scope.Attributes.ToSlice()),
	}
}

func timeUnixNano(t time.Time) uint64 {
	if t.IsZero() {
		return 0
	}

	return uint64(max(t.UnixNano(), 0))
}
