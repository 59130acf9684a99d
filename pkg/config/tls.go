package config

import (
	"context"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel/attribute"

	"github.com/hyp3rd/otelship/pkg/envconfig"
	"github.com/hyp3rd/otelship/pkg/logging"
)

// resolveCertificate returns PEM bytes for one TLS artifact. A programmatic
// override bypasses file loading entirely; otherwise the keys resolve a file
// path whose content is read. An unreadable file resolves to absent — the
// configuration build must never fail over an optional certificate. The
// trade-off is that a typo'd path is indistinguishable from "not
// configured", hence the log entry.
func resolveCertificate(env envconfig.Environ, override []byte, logger logging.Adapter, keys ...string) []byte {
	if override != nil {
		return override
	}

	path := envconfig.Resolve(env, nil, "", envconfig.String, keys...)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		logger.Error(context.Background(), err, "certificate file unreadable, continuing without it",
			attribute.String("path", path))

		return nil
	}

	return data
}
