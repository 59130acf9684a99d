package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hyp3rd/otelship/pkg/config"
	"github.com/hyp3rd/otelship/pkg/envconfig"
)

func TestNewDefaultsWhenNothingResolves(t *testing.T) {
	t.Parallel()

	cfg, err := config.New(config.SignalMetrics, config.WithEnviron(envconfig.Map(nil)))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if cfg.Endpoint.Host != "localhost" || cfg.Endpoint.Port != 4317 {
		t.Fatalf("unexpected default endpoint: %+v", cfg.Endpoint)
	}

	if !cfg.Endpoint.Secure {
		t.Fatal("expected the default endpoint to be secure")
	}

	if cfg.Headers.Len() != 0 {
		t.Fatalf("expected empty default headers, got %d", cfg.Headers.Len())
	}
}

func TestNewSignalSpecificEndpointWins(t *testing.T) {
	t.Parallel()

	env := envconfig.Map(map[string]string{
		"OTEL_EXPORTER_OTLP_TRACES_ENDPOINT": "traces-collector:4317",
		"OTEL_EXPORTER_OTLP_ENDPOINT":        "shared-collector:4317",
	})

	cfg, err := config.New(config.SignalTraces, config.WithEnviron(env))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if cfg.Endpoint.Host != "traces-collector" {
		t.Fatalf("expected signal-specific endpoint, got %q", cfg.Endpoint.Host)
	}
}

func TestNewProgrammaticEndpointShadowsEnvironment(t *testing.T) {
	t.Parallel()

	env := envconfig.Map(map[string]string{
		"OTEL_EXPORTER_OTLP_METRICS_ENDPOINT": "env-collector:4317",
	})

	cfg, err := config.New(config.SignalMetrics,
		config.WithEnviron(env),
		config.WithEndpoint("override-collector:4318"),
	)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if cfg.Endpoint.Host != "override-collector" || cfg.Endpoint.Port != 4318 {
		t.Fatalf("expected programmatic endpoint, got %+v", cfg.Endpoint)
	}
}

func TestNewInsecureEnvironmentHint(t *testing.T) {
	t.Parallel()

	env := envconfig.Map(map[string]string{
		"OTEL_EXPORTER_OTLP_INSECURE": "true",
	})

	cfg, err := config.New(config.SignalMetrics, config.WithEnviron(env))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if cfg.Endpoint.Secure {
		t.Fatal("expected insecure default endpoint under INSECURE=true")
	}
}

func TestNewMalformedHeadersFallThrough(t *testing.T) {
	t.Parallel()

	env := envconfig.Map(map[string]string{
		"OTEL_EXPORTER_OTLP_METRICS_HEADERS": "not-a-pair",
		"OTEL_EXPORTER_OTLP_HEADERS":         "tenant=acme",
	})

	cfg, err := config.New(config.SignalMetrics, config.WithEnviron(env))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	value, ok := cfg.Headers.Get("tenant")
	if !ok || value != "acme" {
		t.Fatalf("expected shared headers after malformed signal value, got %+v", cfg.Headers.All())
	}
}

func TestNewMalformedEndpointFailsConstruction(t *testing.T) {
	t.Parallel()

	env := envconfig.Map(map[string]string{
		"OTEL_EXPORTER_OTLP_ENDPOINT": "collector",
	})

	_, err := config.New(config.SignalMetrics, config.WithEnviron(env))
	if !errors.Is(err, config.ErrEndpointMissingPort) {
		t.Fatalf("expected missing-port error, got %v", err)
	}
}

func TestNewCertificateFromFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "ca.pem")
	content := []byte("-----BEGIN CERTIFICATE-----\nfake\n-----END CERTIFICATE-----\n")

	err := os.WriteFile(path, content, 0o600)
	if err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	env := envconfig.Map(map[string]string{
		"OTEL_EXPORTER_OTLP_CERTIFICATE": path,
	})

	cfg, err := config.New(config.SignalTraces, config.WithEnviron(env))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if string(cfg.ServerCertificate) != string(content) {
		t.Fatal("expected certificate bytes loaded from file")
	}
}

func TestNewUnreadableCertificateDegradesSilently(t *testing.T) {
	t.Parallel()

	env := envconfig.Map(map[string]string{
		"OTEL_EXPORTER_OTLP_CERTIFICATE": "/nonexistent/ca.pem",
	})

	cfg, err := config.New(config.SignalMetrics, config.WithEnviron(env))
	if err != nil {
		t.Fatalf("expected construction to succeed despite unreadable file, got %v", err)
	}

	if cfg.ServerCertificate != nil {
		t.Fatal("expected absent certificate after failed read")
	}
}

func TestNewProgrammaticCertificateBypassesFiles(t *testing.T) {
	t.Parallel()

	env := envconfig.Map(map[string]string{
		"OTEL_EXPORTER_OTLP_CERTIFICATE": "/nonexistent/ca.pem",
	})

	pem := []byte("raw-pem")

	cfg, err := config.New(config.SignalMetrics,
		config.WithEnviron(env),
		config.WithServerCertificate(pem),
	)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if string(cfg.ServerCertificate) != "raw-pem" {
		t.Fatal("expected programmatic certificate to win")
	}
}

func TestFromFileProducesOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "otelship.yaml")
	content := []byte(`
endpoint: file-collector:4318
insecure: true
headers:
  tenant: acme
`)

	err := os.WriteFile(path, content, 0o600)
	if err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	opts, err := config.FromFile(path)
	if err != nil {
		t.Fatalf("FromFile returned error: %v", err)
	}

	opts = append(opts, config.WithEnviron(envconfig.Map(map[string]string{
		"OTEL_EXPORTER_OTLP_ENDPOINT": "env-collector:4317",
	})))

	cfg, err := config.New(config.SignalMetrics, opts...)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if cfg.Endpoint.Host != "file-collector" {
		t.Fatalf("expected file endpoint to shadow environment, got %q", cfg.Endpoint.Host)
	}

	if cfg.Endpoint.Secure {
		t.Fatal("expected insecure endpoint from file")
	}

	value, ok := cfg.Headers.Get("tenant")
	if !ok || value != "acme" {
		t.Fatalf("expected headers from file, got %+v", cfg.Headers.All())
	}
}

func TestFromFileMissing(t *testing.T) {
	t.Parallel()

	_, err := config.FromFile("/nonexistent/otelship.yaml")
	if err == nil {
		t.Fatal("expected error for missing options file")
	}
}
