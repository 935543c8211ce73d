// Package config contains the configuration of the HAProxy monitor and the
// logic to assemble it from a YAML file and command line flags.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/pkg/errors"
	"github.com/prometheus/common/model"

	"github.com/signalfx/haproxy-monitor/internal/core/config/validation"
	"github.com/signalfx/haproxy-monitor/internal/core/writer/pushgateway"
	"github.com/signalfx/haproxy-monitor/internal/monitors/haproxy"
)

// Config is the complete configuration for one run of the monitor.  It is
// read once at startup and never changed afterwards.
type Config struct {
	// The statsd backend to send gauges to, in the form
	// `host:port[::prefix]`.  The optional prefix is put in front of every
	// gauge name.
	Backend string `yaml:"backend" validate:"required"`
	// Prometheus push-gateway URLs.  Every gateway receives the full set of
	// metrics for every socket.
	PrometheusServers []string `yaml:"prometheusServers" validate:"dive,required"`
	// Prefix for Prometheus metric family names
	PrometheusPrefix string `yaml:"prometheusPrefix"`
	// Extra constant labels added to every Prometheus series
	PrometheusLabels map[string]string `yaml:"prometheusLabels"`
	// Paths of the HAProxy admin sockets to poll
	Sockets []string `yaml:"sockets" validate:"required,min=1,dive,required"`
	// The `show info` fields to keep.  Must contain `Process_num`.
	IncludeInfo []string `yaml:"includeInfo"`
	// The `show stat` columns to keep
	IncludeStat []string `yaml:"includeStat"`
	// Timeout for each socket command and each push-gateway request
	Timeout time.Duration `yaml:"timeout" default:"10s" validate:"min=1"`
	// Responses larger than this many bytes fail the poll
	MaxResponseBytes int64 `yaml:"maxResponseBytes" default:"16777216" validate:"min=1"`
	// How many sockets may be polled at the same time
	Parallelism int `yaml:"parallelism" default:"1" validate:"min=1"`
	// If greater than zero, poll every this many seconds until stopped
	// instead of polling once and exiting.
	IntervalSeconds int `yaml:"intervalSeconds" validate:"min=0"`
	// Report under the fully qualified host name before shortening it
	UseFullyQualifiedHost bool `yaml:"useFullyQualifiedHost"`
	// Log at debug level
	Verbose bool `yaml:"verbose"`

	// ParsedBackend is Backend after parsing
	ParsedBackend Backend `yaml:"-"`
}

// ConfigError is returned for any configuration that cannot be used.  The
// monitor exits before polling when it sees one.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Finalize fills in defaults, validates the config and parses the backend.
func (c *Config) Finalize() error {
	if err := defaults.Set(c); err != nil {
		panic(fmt.Sprintf("Config defaults are wrong types: %s", err))
	}
	if len(c.IncludeInfo) == 0 {
		c.IncludeInfo = append([]string(nil), haproxy.DefaultIncludeInfo...)
	}
	if len(c.IncludeStat) == 0 {
		c.IncludeStat = append([]string(nil), haproxy.DefaultIncludeStat...)
	}

	if err := validation.ValidateStruct(c); err != nil {
		return &ConfigError{Err: err}
	}
	if err := validation.ValidateCustomConfig(c); err != nil {
		return &ConfigError{Err: err}
	}

	backend, err := ParseBackend(c.Backend)
	if err != nil {
		return &ConfigError{Err: err}
	}
	c.ParsedBackend = backend
	return nil
}

// Validate does the checks that the struct tags cannot express
func (c *Config) Validate() error {
	for i, s := range c.PrometheusServers {
		// A bare host:port means plain http, like push.New assumes.
		if !strings.Contains(s, "://") {
			s = "http://" + s
			c.PrometheusServers[i] = s
		}
		u, err := url.Parse(s)
		if err != nil {
			return errors.Wrapf(err, "prometheus server %q", s)
		}
		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return errors.Errorf("prometheus server %q must be an http(s) URL", s)
		}
	}

	reserved := map[string]bool{"job": true}
	for _, l := range pushgateway.LabelNames {
		reserved[l] = true
	}
	for name := range c.PrometheusLabels {
		if !model.LabelName(name).IsValid() {
			return errors.Errorf("prometheus label %q is not a valid label name", name)
		}
		if reserved[name] || strings.HasPrefix(name, model.ReservedLabelPrefix) {
			return errors.Errorf("prometheus label %q is set by the monitor itself", name)
		}
	}

	if !contains(c.IncludeInfo, haproxy.ProcessNumKey) {
		return errors.Errorf("includeInfo must contain %s", haproxy.ProcessNumKey)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, l := range list {
		if l == s {
			return true
		}
	}
	return false
}

// Interval is IntervalSeconds as a duration
func (c *Config) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}
