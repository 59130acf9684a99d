package connection

import (
	"context"
	"crypto/tls"
	"crypto/x509"

	"github.com/hyp3rd/ewrap"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/hyp3rd/otelship/pkg/config"
	"github.com/hyp3rd/otelship/pkg/logging"
)

// ErrMalformedServerCertificate reports server-trust PEM bytes that did not
// parse. It is logged, never returned: the channel falls back to platform
// trust roots.
var ErrMalformedServerCertificate = ewrap.New("malformed server certificate")

// transportCredentials builds channel credentials from the configuration.
// Certificate material is applied best effort: malformed server-trust bytes
// fall back to the platform roots, and mutual TLS activates only when both
// the client certificate and key parse together.
func transportCredentials(cfg config.Config, logger logging.Adapter) credentials.TransportCredentials {
	if !cfg.Endpoint.Secure {
		return insecure.NewCredentials()
	}

	return credentials.NewTLS(clientTLSConfig(cfg, logger))
}

// clientTLSConfig starts from platform trust roots and layers the
// server-certificate override and the client certificate pair on top.
func clientTLSConfig(cfg config.Config, logger logging.Adapter) *tls.Config {
	tlsCfg := &tls.Config{MinVersion: tls.VersionTLS12}

	if len(cfg.ServerCertificate) > 0 {
		pool := x509.NewCertPool()
		if pool.AppendCertsFromPEM(cfg.ServerCertificate) {
			tlsCfg.RootCAs = pool
		} else {
			logger.Error(context.Background(), ErrMalformedServerCertificate,
				"falling back to platform trust roots")
		}
	}

	if len(cfg.ClientCertificate) > 0 && len(cfg.ClientKey) > 0 {
		cert, err := tls.X509KeyPair(cfg.ClientCertificate, cfg.ClientKey)
		if err != nil {
			logger.Error(context.Background(), err, "skipping mutual tls")
		} else {
			tlsCfg.Certificates = []tls.Certificate{cert}
		}
	}

	return tlsCfg
}
