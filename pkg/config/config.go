// Package config resolves the effective exporter configuration by merging
// programmatic overrides, signal-specific environment variables, shared
// environment variables, and defaults.
package config

import (
	"github.com/hyp3rd/otelship/internal/constants"
	"github.com/hyp3rd/otelship/pkg/envconfig"
)

// Signal is a telemetry category with its own environment-variable namespace.
type Signal string

// Supported signals.
const (
	SignalMetrics Signal = "METRICS"
	SignalTraces  Signal = "TRACES"
)

const envPrefix = "OTEL_EXPORTER_OTLP_"

// keysFor returns the lookup keys for a suffix in priority order:
// signal-specific first, shared second.
func keysFor(signal Signal, suffix string) []string {
	return []string{
		envPrefix + string(signal) + "_" + suffix,
		envPrefix + suffix,
	}
}

// Config is the effective exporter configuration. It is built once at
// exporter-creation time and never mutated afterward.
type Config struct {
	Signal   Signal
	Endpoint Endpoint
	Headers  Headers

	// Certificate material is raw PEM bytes; absent fields leave the
	// corresponding TLS feature inactive. ClientCertificate and ClientKey
	// only activate mutual TLS together.
	ServerCertificate []byte
	ClientCertificate []byte
	ClientKey         []byte
}

// New resolves a Config for the given signal. An endpoint that resolves but
// does not parse is the only condition that fails construction; certificate
// files that cannot be read degrade to "not configured" with a log entry.
func New(signal Signal, opts ...Option) (Config, error) {
	settings := defaultOptions()
	for _, opt := range opts {
		opt(&settings)
	}

	env := settings.environ
	logger := settings.logger

	insecure := envconfig.Resolve(env, settings.insecure, false, envconfig.Bool,
		keysFor(signal, "INSECURE")...)

	endpoint, err := resolveEndpoint(env, settings.endpoint, signal, insecure)
	if err != nil {
		return Config{}, err
	}

	headers := envconfig.Resolve(env, settings.headers, Headers{}, ParseHeaders,
		keysFor(signal, "HEADERS")...)

	return Config{
		Signal:   signal,
		Endpoint: endpoint,
		Headers:  headers,
		ServerCertificate: resolveCertificate(env, settings.serverCert, logger,
			keysFor(signal, "CERTIFICATE")...),
		ClientCertificate: resolveCertificate(env, settings.clientCert, logger,
			keysFor(signal, "CLIENT_CERTIFICATE")...),
		ClientKey: resolveCertificate(env, settings.clientKey, logger,
			keysFor(signal, "CLIENT_KEY")...),
	}, nil
}

func resolveEndpoint(env envconfig.Environ, override *string, signal Signal, insecure bool) (Endpoint, error) {
	raw := envconfig.Resolve(env, override, "", envconfig.String,
		keysFor(signal, "ENDPOINT")...)
	if raw == "" {
		return Endpoint{
			Host:   constants.DefaultHost,
			Port:   constants.DefaultPort,
			Secure: !insecure,
		}, nil
	}

	return ParseEndpoint(raw, insecure)
}
