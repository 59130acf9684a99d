package config_test

import (
	"testing"

	"github.com/hyp3rd/otelship/pkg/config"
)

func TestHeadersSetReplacesCaseInsensitively(t *testing.T) {
	t.Parallel()

	var headers config.Headers

	headers.Set("Authorization", "Bearer one")
	headers.Set("authorization", "Bearer two")

	if headers.Len() != 1 {
		t.Fatalf("expected replace semantics, got %d pairs", headers.Len())
	}

	value, ok := headers.Get("AUTHORIZATION")
	if !ok || value != "Bearer two" {
		t.Fatalf("unexpected value %q (present=%v)", value, ok)
	}
}

func TestParseHeaders(t *testing.T) {
	t.Parallel()

	headers, ok := config.ParseHeaders("tenant=acme, authorization=Bearer abc;x-trace=on")
	if !ok {
		t.Fatal("expected parse to succeed")
	}

	if headers.Len() != 3 {
		t.Fatalf("expected 3 pairs, got %d", headers.Len())
	}

	pairs := headers.All()
	if pairs[0].Name != "tenant" || pairs[0].Value != "acme" {
		t.Fatalf("expected insertion order preserved, got %+v", pairs)
	}
}

func TestParseHeadersMalformedPairFails(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"tenant", "tenant=acme,broken", "=value", ""} {
		if _, ok := config.ParseHeaders(raw); ok {
			t.Fatalf("ParseHeaders(%q): expected failure", raw)
		}
	}
}
