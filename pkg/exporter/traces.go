package exporter

import (
	"context"

	"github.com/hyp3rd/ewrap"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	coltracepb "go.opentelemetry.io/proto/otlp/collector/trace/v1"
	tpb "go.opentelemetry.io/proto/otlp/trace/v1"
	"google.golang.org/grpc"

	"github.com/hyp3rd/otelship/internal/constants"
	"github.com/hyp3rd/otelship/pkg/config"
	"github.com/hyp3rd/otelship/pkg/connection"
	"github.com/hyp3rd/otelship/pkg/diagnostics"
	"github.com/hyp3rd/otelship/pkg/logging"
	"github.com/hyp3rd/otelship/pkg/transform"
)

// TracesClient is the generated collector stub surface consumed per export.
type TracesClient interface {
	Export(ctx context.Context, req *coltracepb.ExportTraceServiceRequest, opts ...grpc.CallOption) (*coltracepb.ExportTraceServiceResponse, error)
}

// TracesCodec converts finished spans into their wire messages.
type TracesCodec interface {
	Spans(spans []sdktrace.ReadOnlySpan) []*tpb.ResourceSpans
}

// TracesExporter implements sdktrace.SpanExporter over a collector channel.
type TracesExporter struct {
	cfg    config.Config
	conn   *connection.Connection
	client TracesClient
	codec  TracesCodec
	logger logging.Adapter
}

var _ sdktrace.SpanExporter = (*TracesExporter)(nil)

// NewTraces resolves the traces-signal configuration (programmatic
// overrides layered over OTEL_EXPORTER_OTLP_TRACES_* and
// OTEL_EXPORTER_OTLP_* variables) and opens the collector channel. The
// channel connects in the background; dial failures surface on first
// export, not here.
func NewTraces(opts ...Option) (*TracesExporter, error) {
	settings := defaultOptions()
	for _, opt := range opts {
		opt(&settings)
	}

	cfg, err := resolveConfig(config.SignalTraces, settings)
	if err != nil {
		return nil, err
	}

	conn, err := connection.New(cfg, connection.WithLogger(settings.logger))
	if err != nil {
		return nil, ewrap.Wrap(err, "open collector connection")
	}

	codec := settings.tracesCodec
	if codec == nil {
		codec = transform.Traces{}
	}

	return &TracesExporter{
		cfg:    cfg,
		conn:   conn,
		client: coltracepb.NewTraceServiceClient(conn.Channel()),
		codec:  codec,
		logger: settings.logger,
	}, nil
}

// ExportSpans converts one span batch and forwards it. The shut-down guard
// is a fast path only; transport failures pass through verbatim.
func (e *TracesExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	if e.conn.ShuttingDown() {
		return ErrAlreadyShutdown
	}

	converted := e.codec.Spans(spans)
	if len(converted) == 0 {
		return nil
	}

	request := &coltracepb.ExportTraceServiceRequest{ResourceSpans: converted}

	response, err := e.client.Export(e.conn.Context(ctx), request)
	if err != nil {
		return err
	}

	if partial := response.GetPartialSuccess(); partial.GetRejectedSpans() > 0 || partial.GetErrorMessage() != "" {
		e.logger.Info(ctx, "collector accepted span batch partially",
			attribute.Int64("rejected_spans", partial.GetRejectedSpans()),
			attribute.String("message", partial.GetErrorMessage()),
		)
	}

	return nil
}

// ForceFlush succeeds unconditionally: every batch is delivered during
// ExportSpans, so there is nothing buffered to flush.
func (*TracesExporter) ForceFlush(context.Context) error {
	return nil
}

// Snapshot reports the channel status for the diagnostics endpoint.
func (e *TracesExporter) Snapshot() diagnostics.Snapshot {
	return snapshot(e.cfg, e.conn)
}

// Shutdown closes the collector connection gracefully, waiting at most the
// fixed bound. Exceeding the bound is not an error.
func (e *TracesExporter) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, constants.ShutdownBound)
	defer cancel()

	return e.conn.Shutdown(ctx)
}
