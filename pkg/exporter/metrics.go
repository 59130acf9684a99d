// Package exporter ships telemetry batches to an OTLP collector over gRPC.
// Each batch is delivered immediately during the export call; batching,
// retries, and backpressure belong to the SDK and transport layers.
package exporter

import (
	"context"

	"github.com/hyp3rd/ewrap"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	colmetricpb "go.opentelemetry.io/proto/otlp/collector/metrics/v1"
	mpb "go.opentelemetry.io/proto/otlp/metrics/v1"
	"google.golang.org/grpc"

	"github.com/hyp3rd/otelship/internal/constants"
	"github.com/hyp3rd/otelship/pkg/config"
	"github.com/hyp3rd/otelship/pkg/connection"
	"github.com/hyp3rd/otelship/pkg/diagnostics"
	"github.com/hyp3rd/otelship/pkg/logging"
	"github.com/hyp3rd/otelship/pkg/transform"
)

// MetricsClient is the generated collector stub surface consumed per export.
type MetricsClient interface {
	Export(ctx context.Context, req *colmetricpb.ExportMetricsServiceRequest, opts ...grpc.CallOption) (*colmetricpb.ExportMetricsServiceResponse, error)
}

// MetricsCodec converts collected metrics into their wire message.
type MetricsCodec interface {
	ResourceMetrics(rm *metricdata.ResourceMetrics) *mpb.ResourceMetrics
}

// MetricsExporter implements sdkmetric.Exporter over a collector channel.
type MetricsExporter struct {
	cfg    config.Config
	conn   *connection.Connection
	client MetricsClient
	codec  MetricsCodec
	logger logging.Adapter
}

var _ sdkmetric.Exporter = (*MetricsExporter)(nil)

// NewMetrics resolves the metrics-signal configuration (programmatic
// overrides layered over OTEL_EXPORTER_OTLP_METRICS_* and
// OTEL_EXPORTER_OTLP_* variables) and opens the collector channel. The
// channel connects in the background; dial failures surface on first
// export, not here.
func NewMetrics(opts ...Option) (*MetricsExporter, error) {
	settings := defaultOptions()
	for _, opt := range opts {
		opt(&settings)
	}

	cfg, err := resolveConfig(config.SignalMetrics, settings)
	if err != nil {
		return nil, err
	}

	conn, err := connection.New(cfg, connection.WithLogger(settings.logger))
	if err != nil {
		return nil, ewrap.Wrap(err, "open collector connection")
	}

	codec := settings.metricsCodec
	if codec == nil {
		codec = transform.Metrics{}
	}

	return &MetricsExporter{
		cfg:    cfg,
		conn:   conn,
		client: colmetricpb.NewMetricsServiceClient(conn.Channel()),
		codec:  codec,
		logger: settings.logger,
	}, nil
}

func resolveConfig(signal config.Signal, settings options) (config.Config, error) {
	configOpts := settings.configOpts

	if settings.configFile != "" {
		fileOpts, err := config.FromFile(settings.configFile)
		if err != nil {
			return config.Config{}, ewrap.Wrap(err, "load options file")
		}

		configOpts = append(fileOpts, configOpts...)
	}

	cfg, err := config.New(signal, configOpts...)
	if err != nil {
		return config.Config{}, ewrap.Wrap(err, "resolve configuration")
	}

	return cfg, nil
}

// Export converts one collected batch and forwards it. The shut-down guard
// is a fast path only: a concurrent Shutdown may still fail the transport
// call, and that failure is passed through verbatim.
func (e *MetricsExporter) Export(ctx context.Context, rm *metricdata.ResourceMetrics) error {
	if e.conn.ShuttingDown() {
		return ErrAlreadyShutdown
	}

	request := &colmetricpb.ExportMetricsServiceRequest{
		ResourceMetrics: []*mpb.ResourceMetrics{e.codec.ResourceMetrics(rm)},
	}

	response, err := e.client.Export(e.conn.Context(ctx), request)
	if err != nil {
		return err
	}

	if partial := response.GetPartialSuccess(); partial.GetRejectedDataPoints() > 0 || partial.GetErrorMessage() != "" {
		e.logger.Info(ctx, "collector accepted metrics batch partially",
			attribute.Int64("rejected_data_points", partial.GetRejectedDataPoints()),
			attribute.String("message", partial.GetErrorMessage()),
		)
	}

	return nil
}

// ForceFlush succeeds unconditionally: every batch is delivered during
// Export, so there is nothing buffered to flush.
func (*MetricsExporter) ForceFlush(context.Context) error {
	return nil
}

// Shutdown closes the collector connection gracefully, waiting at most the
// fixed bound. Exceeding the bound is not an error.
func (e *MetricsExporter) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, constants.ShutdownBound)
	defer cancel()

	return e.conn.Shutdown(ctx)
}

// Snapshot reports the channel status for the diagnostics endpoint.
func (e *MetricsExporter) Snapshot() diagnostics.Snapshot {
	return snapshot(e.cfg, e.conn)
}

// Temporality implements sdkmetric.Exporter.
func (*MetricsExporter) Temporality(sdkmetric.InstrumentKind) metricdata.Temporality {
	return metricdata.CumulativeTemporality
}

// Aggregation implements sdkmetric.Exporter.
func (*MetricsExporter) Aggregation(kind sdkmetric.InstrumentKind) sdkmetric.Aggregation {
	return sdkmetric.DefaultAggregationSelector(kind)
}
