package config

import (
	"sort"

	"github.com/hyp3rd/otelship/pkg/envconfig"
	"github.com/hyp3rd/otelship/pkg/logging"
)

// Option mutates resolution settings. Programmatic overrides supplied this
// way take precedence over every environment variable.
type Option func(*options)

type options struct {
	environ    envconfig.Environ
	logger     logging.Adapter
	endpoint   *string
	insecure   *bool
	headers    *Headers
	serverCert []byte
	clientCert []byte
	clientKey  []byte
}

func defaultOptions() options {
	return options{
		environ: envconfig.OS,
		logger:  logging.NewNoopAdapter(),
	}
}

// WithEndpoint supplies the collector endpoint, either a URL or host:port.
func WithEndpoint(endpoint string) Option {
	return func(opt *options) {
		opt.endpoint = &endpoint
	}
}

// WithInsecure disables transport security unless the endpoint carries a
// secure scheme, which always wins.
func WithInsecure() Option {
	return withInsecureFlag(true)
}

func withInsecureFlag(insecure bool) Option {
	return func(opt *options) {
		opt.insecure = &insecure
	}
}

// WithHeaders supplies request metadata sent with every export. Pairs are
// applied in sorted key order so the resulting Headers are deterministic.
func WithHeaders(pairs map[string]string) Option {
	return func(opt *options) {
		names := make([]string, 0, len(pairs))
		for name := range pairs {
			names = append(names, name)
		}

		sort.Strings(names)

		var headers Headers
		for _, name := range names {
			headers.Set(name, pairs[name])
		}

		opt.headers = &headers
	}
}

// WithServerCertificate supplies the PEM server-trust certificate directly,
// bypassing file loading.
func WithServerCertificate(pem []byte) Option {
	return func(opt *options) {
		opt.serverCert = pem
	}
}

// WithClientCertificates supplies the PEM client certificate and key for
// mutual TLS. Both must be present for mutual TLS to activate.
func WithClientCertificates(certPEM, keyPEM []byte) Option {
	return func(opt *options) {
		opt.clientCert = certPEM
		opt.clientKey = keyPEM
	}
}

// WithEnviron replaces the environment provider, primarily for tests.
func WithEnviron(env envconfig.Environ) Option {
	return func(opt *options) {
		opt.environ = env
	}
}

// WithLogger sets the adapter used to report degraded resolution steps.
func WithLogger(adapter logging.Adapter) Option {
	return func(opt *options) {
		if adapter != nil {
			opt.logger = adapter
		}
	}
}
