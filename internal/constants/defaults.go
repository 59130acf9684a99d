// Package constants provides common constants used across the otelship project.
package constants

import "time"

// Version is the library release version.
const Version = "0.1.0"

const (
	// DefaultHost is the collector host assumed when no endpoint is configured.
	DefaultHost = "localhost"
	// DefaultPort is the standard OTLP/gRPC collector port.
	DefaultPort = 4317
	// ShutdownBound caps how long a graceful connection close may take.
	ShutdownBound = 500 * time.Millisecond
	// UserAgent identifies this library on every outgoing request. It always
	// replaces a caller-supplied user-agent header.
	UserAgent = "otelship/" + Version
)
