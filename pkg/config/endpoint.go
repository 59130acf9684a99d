package config

import (
	"errors"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/hyp3rd/ewrap"
)

// Endpoint is the parsed collector address.
type Endpoint struct {
	Host   string
	Port   int
	Secure bool
}

// Endpoint configuration errors.
var (
	ErrEndpointMissingHost = ewrap.New("endpoint is missing a host")
	ErrEndpointMissingPort = ewrap.New("endpoint is missing a port")
)

const maxPort = 65535

// ParseEndpoint parses a full URL (scheme://host:port) or a bare host:port.
// A recognized scheme decides transport security and overrides the insecure
// hint; without a scheme the hint applies.
func ParseEndpoint(raw string, insecure bool) (Endpoint, error) {
	raw = strings.TrimSpace(raw)
	if strings.Contains(raw, "://") {
		return parseURLEndpoint(raw, insecure)
	}

	return parseHostPort(raw, !insecure)
}

func parseURLEndpoint(raw string, insecure bool) (Endpoint, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return Endpoint{}, ewrap.Wrapf(err, "parse endpoint %q", raw)
	}

	secure := !insecure

	switch strings.ToLower(parsed.Scheme) {
	case "https", "grpcs":
		secure = true
	case "http", "grpc":
		secure = false
	}

	host := parsed.Hostname()
	if host == "" {
		return Endpoint{}, ErrEndpointMissingHost
	}

	port := parsed.Port()
	if port == "" {
		return Endpoint{}, ErrEndpointMissingPort
	}

	return endpointFrom(host, port, secure)
}

func parseHostPort(raw string, secure bool) (Endpoint, error) {
	host, port, err := net.SplitHostPort(raw)
	if err != nil {
		var addrErr *net.AddrError
		if errors.As(err, &addrErr) && strings.Contains(addrErr.Err, "missing port") {
			return Endpoint{}, ErrEndpointMissingPort
		}

		return Endpoint{}, ewrap.Wrapf(err, "parse endpoint %q", raw)
	}

	if host == "" {
		return Endpoint{}, ErrEndpointMissingHost
	}

	if port == "" {
		return Endpoint{}, ErrEndpointMissingPort
	}

	return endpointFrom(host, port, secure)
}

func endpointFrom(host, port string, secure bool) (Endpoint, error) {
	number, err := strconv.Atoi(port)
	if err != nil {
		return Endpoint{}, ewrap.Wrapf(err, "parse endpoint port %q", port)
	}

	if number < 1 || number > maxPort {
		return Endpoint{}, ewrap.Newf("endpoint port %d out of range", number)
	}

	return Endpoint{Host: host, Port: number, Secure: secure}, nil
}

// Target returns the host:port form used to dial the collector.
func (e Endpoint) Target() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}
