// Package envconfig resolves configuration values from layered candidate
// sources: a programmatic override, signal-specific and shared environment
// variables, and a default.
package envconfig

import (
	"os"
	"strconv"
	"strings"
)

// Environ looks up a single environment variable. Injecting it keeps the
// resolution logic deterministic under test.
type Environ func(key string) (string, bool)

// OS reads from the process environment.
func OS(key string) (string, bool) {
	return os.LookupEnv(key)
}

// Resolve returns the highest-priority candidate that is present and
// parseable. A non-nil override wins outright and is never parsed. Each key
// is consulted in order; a present but unparsable value falls through to the
// next candidate instead of failing resolution. When every candidate is
// absent or unparsable the fallback is returned.
func Resolve[T any](env Environ, override *T, fallback T, parse func(string) (T, bool), keys ...string) T {
	if override != nil {
		return *override
	}

	if env == nil {
		env = OS
	}

	for _, key := range keys {
		raw, ok := env(key)
		if !ok {
			continue
		}

		value, ok := parse(raw)
		if !ok {
			continue
		}

		return value
	}

	return fallback
}

// Bool parses boolean environment values. Accepts the strconv forms
// (1/t/true, 0/f/false) in any case.
func Bool(raw string) (bool, bool) {
	value, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false, false
	}

	return value, true
}

// String accepts any value that is non-empty after trimming whitespace.
func String(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	return raw, true
}

// Map builds an Environ from a plain map, for tests and embedding scenarios.
func Map(values map[string]string) Environ {
	return func(key string) (string, bool) {
		value, ok := values[key]

		return value, ok
	}
}
