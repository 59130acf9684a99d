package transform_test

import (
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/instrumentation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	tpb "go.opentelemetry.io/proto/otlp/trace/v1"

	"github.com/hyp3rd/otelship/pkg/transform"
)

func TestSpansGroupedByResourceAndScope(t *testing.T) {
	t.Parallel()

	res := resource.NewSchemaless(attribute.String("service.name", "shipper"))

	spans := []sdktrace.ReadOnlySpan{
		spanStub(t, "span-a", "scope-one", res).Snapshot(),
		spanStub(t, "span-b", "scope-one", res).Snapshot(),
		spanStub(t, "span-c", "scope-two", res).Snapshot(),
	}

	out := transform.Traces{}.Spans(spans)

	if len(out) != 1 {
		t.Fatalf("expected one resource group, got %d", len(out))
	}

	scopes := out[0].GetScopeSpans()
	if len(scopes) != 2 {
		t.Fatalf("expected two scope groups, got %d", len(scopes))
	}

	if len(scopes[0].GetSpans()) != 2 || len(scopes[1].GetSpans()) != 1 {
		t.Fatalf("unexpected span distribution: %d / %d",
			len(scopes[0].GetSpans()), len(scopes[1].GetSpans()))
	}
}

func TestSpanFieldsConverted(t *testing.T) {
	t.Parallel()

	res := resource.NewSchemaless()
	stub := spanStub(t, "op", "scope", res)
	stub.SpanKind = trace.SpanKindClient
	stub.Status = sdktrace.Status{Code: codes.Error, Description: "deadline exceeded"}
	stub.Events = []sdktrace.Event{
		{Name: "retrying", Time: stub.StartTime, Attributes: []attribute.KeyValue{attribute.Int("attempt", 2)}},
	}

	out := transform.Traces{}.Spans([]sdktrace.ReadOnlySpan{stub.Snapshot()})

	span := out[0].GetScopeSpans()[0].GetSpans()[0]
	if span.GetName() != "op" {
		t.Fatalf("unexpected name %q", span.GetName())
	}

	if span.GetKind() != tpb.Span_SPAN_KIND_CLIENT {
		t.Fatalf("unexpected kind %v", span.GetKind())
	}

	if span.GetStatus().GetCode() != tpb.Status_STATUS_CODE_ERROR {
		t.Fatalf("unexpected status %v", span.GetStatus())
	}

	if span.GetStatus().GetMessage() != "deadline exceeded" {
		t.Fatalf("unexpected status message %q", span.GetStatus().GetMessage())
	}

	if len(span.GetEvents()) != 1 || span.GetEvents()[0].GetName() != "retrying" {
		t.Fatalf("unexpected events %v", span.GetEvents())
	}

	if len(span.GetTraceId()) != 16 || len(span.GetSpanId()) != 8 {
		t.Fatalf("unexpected id lengths: %d / %d", len(span.GetTraceId()), len(span.GetSpanId()))
	}
}

func TestSpansEmptyInput(t *testing.T) {
	t.Parallel()

	if out := (transform.Traces{}).Spans(nil); out != nil {
		t.Fatalf("expected nil output for empty batch, got %v", out)
	}
}

func spanStub(t *testing.T, name, scope string, res *resource.Resource) tracetest.SpanStub {
	t.Helper()

	now := time.Now()

	return tracetest.SpanStub{
		Name: name,
		SpanContext: trace.NewSpanContext(trace.SpanContextConfig{
			TraceID: trace.TraceID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10},
			SpanID:  trace.SpanID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08},
		}),
		SpanKind:             trace.SpanKindInternal,
		StartTime:            now.Add(-time.Second),
		EndTime:              now,
		Resource:             res,
		InstrumentationScope: instrumentation.Scope{Name: scope, Version: "0.1.0"},
	}
}
