package transform

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	tpb "go.opentelemetry.io/proto/otlp/trace/v1"
)

// Traces is the default wire codec for span batches.
type Traces struct{}

// Spans groups read-only spans by resource and scope and converts them into
// wire messages, preserving first-seen order.
func (Traces) Spans(spans []sdktrace.ReadOnlySpan) []*tpb.ResourceSpans {
	if len(spans) == 0 {
		return nil
	}

	type scopeKey struct {
		name    string
		version string
	}

	type resourceBucket struct {
		rs     *tpb.ResourceSpans
		scopes map[scopeKey]*tpb.ScopeSpans
	}

	buckets := map[attribute.Distinct]*resourceBucket{}

	var order []*tpb.ResourceSpans

	for _, roSpan := range spans {
		if roSpan == nil {
			continue
		}

		res := roSpan.Resource()

		bucket, ok := buckets[res.Equivalent()]
		if !ok {
			bucket = &resourceBucket{
				rs: &tpb.ResourceSpans{
					Resource:  Resource(res),
					SchemaUrl: res.SchemaURL(),
				},
				scopes: map[scopeKey]*tpb.ScopeSpans{},
			}
			buckets[res.Equivalent()] = bucket
			order = append(order, bucket.rs)
		}

		scope := roSpan.InstrumentationScope()
		key := scopeKey{name: scope.Name, version: scope.Version}

		scopeSpans, ok := bucket.scopes[key]
		if !ok {
			scopeSpans = &tpb.ScopeSpans{
				Scope:     Scope(scope),
				SchemaUrl: scope.SchemaURL,
			}
			bucket.scopes[key] = scopeSpans
			bucket.rs.ScopeSpans = append(bucket.rs.ScopeSpans, scopeSpans)
		}

		scopeSpans.Spans = append(scopeSpans.Spans, span(roSpan))
	}

	return order
}

func span(roSpan sdktrace.ReadOnlySpan) *tpb.Span {
	spanCtx := roSpan.SpanContext()
	traceID := spanCtx.TraceID()
	spanID := spanCtx.SpanID()

	out := &tpb.Span{
		TraceId:                traceID[:],
		SpanId:                 spanID[:],
		TraceState:             spanCtx.TraceState().String(),
		Name:                   roSpan.Name(),
		Kind:                   spanKind(roSpan.SpanKind()),
		StartTimeUnixNano:      timeUnixNano(roSpan.StartTime()),
		EndTimeUnixNano:        timeUnixNano(roSpan.EndTime()),
		Attributes:             KeyValues(roSpan.Attributes()),
		DroppedAttributesCount: clampCount(roSpan.DroppedAttributes()),
		Events:                 events(roSpan.Events()),
		DroppedEventsCount:     clampCount(roSpan.DroppedEvents()),
		Links:                  links(roSpan.Links()),
		DroppedLinksCount:      clampCount(roSpan.DroppedLinks()),
		Status:                 status(roSpan.Status()),
	}

	if parent := roSpan.Parent(); parent.HasSpanID() {
		parentID := parent.SpanID()
		out.ParentSpanId = parentID[:]
	}

	return out
}

func events(in []sdktrace.Event) []*tpb.Span_Event {
	if len(in) == 0 {
		return nil
	}

	out := make([]*tpb.Span_Event, 0, len(in))
	for _, event := range in {
		out = append(out, &tpb.Span_Event{
			TimeUnixNano:           timeUnixNano(event.Time),
			Name:                   event.Name,
			Attributes:             KeyValues(event.Attributes),
			DroppedAttributesCount: clampCount(event.DroppedAttributeCount),
		})
	}

	return out
}

func links(in []sdktrace.Link) []*tpb.Span_Link {
	if len(in) == 0 {
		return nil
	}

	out := make([]*tpb.Span_Link, 0, len(in))

	for _, link := range in {
		traceID := link.SpanContext.TraceID()
		spanID := link.SpanContext.SpanID()

		out = append(out, &tpb.Span_Link{
			TraceId:                traceID[:],
			SpanId:                 spanID[:],
			TraceState:             link.SpanContext.TraceState().String(),
			Attributes:             KeyValues(link.Attributes),
			DroppedAttributesCount: clampCount(link.DroppedAttributeCount),
		})
	}

	return out
}

func status(s sdktrace.Status) *tpb.Status {
	out := &tpb.Status{Message: s.Description}

	switch s.Code {
	case codes.Ok:
		out.Code = tpb.Status_STATUS_CODE_OK
	case codes.Error:
		out.Code = tpb.Status_STATUS_CODE_ERROR
	default:
		out.Code = tpb.Status_STATUS_CODE_UNSET
	}

	return out
}

//nolint:exhaustive // unspecified kinds map to INTERNAL per protocol.
func spanKind(kind trace.SpanKind) tpb.Span_SpanKind {
	switch kind {
	case trace.SpanKindServer:
		return tpb.Span_SPAN_KIND_SERVER
	case trace.SpanKindClient:
		return tpb.Span_SPAN_KIND_CLIENT
	case trace.SpanKindProducer:
		return tpb.Span_SPAN_KIND_PRODUCER
	case trace.SpanKindConsumer:
		return tpb.Span_SPAN_KIND_CONSUMER
	default:
		return tpb.Span_SPAN_KIND_INTERNAL
	}
}

func clampCount(n int) uint32 {
	if n < 0 {
		return 0
	}

	return uint32(n)
}
