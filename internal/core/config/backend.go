package config

import (
	"net"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const prefixSeparator = "::"

// Backend is the statsd target given as `host:port[::prefix]`
type Backend struct {
	Host   string
	Port   uint16
	Prefix string
}

// Address returns the host:port to connect to
func (b Backend) Address() string {
	return net.JoinHostPort(b.Host, strconv.Itoa(int(b.Port)))
}

// ParseBackend parses `host:port` with an optional `::prefix` suffix.  IPv6
// hosts must be bracketed, e.g. `[::1]:8125::haproxy`.
func ParseBackend(s string) (Backend, error) {
	server, prefix := s, ""

	// Skip over a bracketed IPv6 host so its colons are not taken for the
	// prefix separator.
	start := 0
	if strings.HasPrefix(s, "[") {
		if i := strings.Index(s, "]"); i >= 0 {
			start = i
		}
	}
	if i := strings.Index(s[start:], prefixSeparator); i >= 0 {
		server, prefix = s[:start+i], s[start+i+len(prefixSeparator):]
	}

	host, portStr, err := net.SplitHostPort(server)
	if err != nil {
		return Backend{}, errors.Wrapf(err, "backend %q must be host:port[::prefix]", s)
	}
	if host == "" {
		return Backend{}, errors.Errorf("backend %q has no host", s)
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil || port == 0 {
		return Backend{}, errors.Errorf("backend %q has an invalid port %q", s, portStr)
	}

	return Backend{
		Host:   host,
		Port:   uint16(port),
		Prefix: strings.Trim(prefix, "."),
	}, nil
}
