// Package connection manages the lifecycle of the gRPC channel carrying
// telemetry to the collector: secure or insecure establishment, outgoing
// metadata, and bounded graceful shutdown.
package connection

import (
	"context"

	"github.com/hyp3rd/ewrap"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/metadata"

	"github.com/hyp3rd/otelship/internal/constants"
	"github.com/hyp3rd/otelship/pkg/config"
	"github.com/hyp3rd/otelship/pkg/logging"
)

const userAgentHeader = "user-agent"

// Connection wraps a live gRPC channel together with its lifecycle state.
// The owning exporter is the only writer of lifecycle transitions.
type Connection struct {
	channel *grpc.ClientConn
	md      metadata.MD
	state   stateMachine
	logger  logging.Adapter
}

// Option mutates connection settings.
type Option func(*options)

type options struct {
	logger logging.Adapter
}

func defaultOptions() options {
	return options{logger: logging.NewNoopAdapter()}
}

// WithLogger sets the adapter used for lifecycle and TLS fallback events.
func WithLogger(adapter logging.Adapter) Option {
	return func(opt *options) {
		if adapter != nil {
			opt.logger = adapter
		}
	}
}

// New opens a channel to the configured endpoint. Establishment is
// asynchronous: New never blocks on the network, and dial failures surface
// on first use as transport errors.
func New(cfg config.Config, opts ...Option) (*Connection, error) {
	settings := defaultOptions()
	for _, opt := range opts {
		opt(&settings)
	}

	creds := transportCredentials(cfg, settings.logger)

	channel, err := grpc.NewClient(cfg.Endpoint.Target(),
		grpc.WithTransportCredentials(creds),
		grpc.WithUserAgent(constants.UserAgent),
	)
	if err != nil {
		return nil, ewrap.Wrapf(err, "create channel to %s", cfg.Endpoint.Target())
	}

	channel.Connect()

	settings.logger.Debug(context.Background(), "collector channel opened",
		attribute.String("target", cfg.Endpoint.Target()),
		attribute.Bool("secure", cfg.Endpoint.Secure),
	)

	return &Connection{
		channel: channel,
		md:      outgoingMetadata(cfg.Headers),
		logger:  settings.logger,
	}, nil
}

// outgoingMetadata converts configured headers into gRPC metadata, replacing
// any caller-supplied user-agent with the library identifier.
func outgoingMetadata(headers config.Headers) metadata.MD {
	md := metadata.New(nil)
	for _, header := range headers.All() {
		md.Set(header.Name, header.Value)
	}

	md.Set(userAgentHeader, constants.UserAgent)

	return md
}

// Channel exposes the underlying gRPC channel for stub construction.
func (c *Connection) Channel() grpc.ClientConnInterface {
	return c.channel
}

// Context returns ctx with the connection's outgoing metadata attached.
func (c *Connection) Context(ctx context.Context) context.Context {
	return metadata.NewOutgoingContext(ctx, c.md)
}

// Metadata returns a copy of the outgoing metadata.
func (c *Connection) Metadata() metadata.MD {
	return c.md.Copy()
}

// State reports the lifecycle position, observing the ready transition
// lazily from the transport.
func (c *Connection) State() State {
	if current := c.state.current(); current >= StateShuttingDown {
		return current
	}

	if c.channel.GetState() == connectivity.Ready {
		c.state.advance(StateReady)
	}

	return c.state.current()
}

// ShuttingDown reports whether shutdown has been initiated. Callers use it
// as a fast-path guard; a concurrent shutdown may still fail an in-flight
// call at the transport.
func (c *Connection) ShuttingDown() bool {
	return c.state.current() >= StateShuttingDown
}

// Shutdown closes the channel, waiting up to the context deadline for the
// transport to reach its terminal state. The wait is best effort: a
// deadline overrun is not an error and the transport reclaims resources on
// its own.
func (c *Connection) Shutdown(ctx context.Context) error {
	if !c.state.advance(StateShuttingDown) {
		return nil
	}

	err := c.channel.Close()
	if err != nil {
		c.logger.Error(ctx, err, "close collector channel")
	}

	c.awaitTermination(ctx)
	c.state.advance(StateShutDown)

	return nil
}

func (c *Connection) awaitTermination(ctx context.Context) {
	for {
		current := c.channel.GetState()
		if current == connectivity.Shutdown {
			return
		}

		if !c.channel.WaitForStateChange(ctx, current) {
			c.logger.Debug(ctx, "graceful close deadline exceeded",
				attribute.Stringer("transport_state", current))

			return
		}
	}
}
