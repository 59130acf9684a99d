package exporter

import (
	"github.com/hyp3rd/otelship/pkg/config"
	"github.com/hyp3rd/otelship/pkg/envconfig"
	"github.com/hyp3rd/otelship/pkg/logging"
)

// Option mutates exporter construction settings.
type Option func(*options)

type options struct {
	configOpts   []config.Option
	configFile   string
	logger       logging.Adapter
	metricsCodec MetricsCodec
	tracesCodec  TracesCodec
}

func defaultOptions() options {
	return options{logger: logging.NewNoopAdapter()}
}

// WithEndpoint supplies the collector endpoint, URL or host:port.
func WithEndpoint(endpoint string) Option {
	return func(opt *options) {
		opt.configOpts = append(opt.configOpts, config.WithEndpoint(endpoint))
	}
}

// WithInsecure disables transport security unless the endpoint scheme says
// otherwise.
func WithInsecure() Option {
	return func(opt *options) {
		opt.configOpts = append(opt.configOpts, config.WithInsecure())
	}
}

// WithHeaders supplies request metadata attached to every export call.
func WithHeaders(pairs map[string]string) Option {
	return func(opt *options) {
		opt.configOpts = append(opt.configOpts, config.WithHeaders(pairs))
	}
}

// WithServerCertificate supplies PEM server-trust bytes directly.
func WithServerCertificate(pem []byte) Option {
	return func(opt *options) {
		opt.configOpts = append(opt.configOpts, config.WithServerCertificate(pem))
	}
}

// WithClientCertificates supplies the PEM client pair for mutual TLS.
func WithClientCertificates(certPEM, keyPEM []byte) Option {
	return func(opt *options) {
		opt.configOpts = append(opt.configOpts, config.WithClientCertificates(certPEM, keyPEM))
	}
}

// WithConfigFile layers overrides loaded from a YAML options file. The file
// is read at construction time; options supplied in code still win. Load
// errors surface from the exporter constructor.
func WithConfigFile(path string) Option {
	return func(opt *options) {
		opt.configFile = path
	}
}

// WithEnviron replaces the environment provider, primarily for tests.
func WithEnviron(env envconfig.Environ) Option {
	return func(opt *options) {
		opt.configOpts = append(opt.configOpts, config.WithEnviron(env))
	}
}

// WithLogger sets the adapter used for degraded-path reporting.
func WithLogger(adapter logging.Adapter) Option {
	return func(opt *options) {
		if adapter == nil {
			return
		}

		opt.logger = adapter
		opt.configOpts = append(opt.configOpts, config.WithLogger(adapter))
	}
}

// WithMetricsCodec replaces the default metrics wire codec.
func WithMetricsCodec(codec MetricsCodec) Option {
	return func(opt *options) {
		opt.metricsCodec = codec
	}
}

// WithTracesCodec replaces the default traces wire codec.
func WithTracesCodec(codec TracesCodec) Option {
	return func(opt *options) {
		opt.tracesCodec = codec
	}
}
