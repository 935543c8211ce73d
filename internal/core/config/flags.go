package config

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

// Parse builds the config from command line arguments (without the program
// name).  If `--config` is given the file is loaded first and any flags that
// were set explicitly override it.  Positional arguments are taken as
// additional socket paths.  pflag.ErrHelp is returned as is when help was
// requested.
func Parse(programName string, args []string) (*Config, error) {
	set := pflag.NewFlagSet(programName, pflag.ContinueOnError)

	configPath := set.String("config", "", "path to a YAML config file")
	backend := set.String("backend", "", "statsd backend as host:port::prefix")
	promServers := set.StringSlice("prometheus_servers", nil, "comma separated Prometheus push-gateway URLs")
	promPrefix := set.String("prometheus_prefix", "", "prefix for Prometheus metric names")
	promLabels := set.String("prometheus_labels", "", "extra Prometheus labels as a JSON object")
	sockets := set.StringArray("sockets", nil, "HAProxy admin socket path, may be repeated")
	verbose := set.Bool("verbose", false, "log at debug level")
	timeout := set.Duration("timeout", 0, "timeout for socket commands and gateway pushes")
	parallelism := set.Int("parallelism", 0, "number of sockets polled at the same time")
	interval := set.Int("interval", 0, "poll every this many seconds instead of once")

	if err := set.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil, err
		}
		return nil, &ConfigError{Err: err}
	}

	conf := &Config{}
	if *configPath != "" {
		var err error
		if conf, err = LoadFile(*configPath); err != nil {
			return nil, err
		}
	}

	if set.Changed("backend") {
		conf.Backend = *backend
	}
	if set.Changed("prometheus_servers") {
		conf.PrometheusServers = *promServers
	}
	if set.Changed("prometheus_prefix") {
		conf.PrometheusPrefix = *promPrefix
	}
	if set.Changed("prometheus_labels") {
		labels, err := parseLabels(*promLabels)
		if err != nil {
			return nil, &ConfigError{Err: err}
		}
		conf.PrometheusLabels = labels
	}
	if set.Changed("sockets") {
		conf.Sockets = *sockets
	}
	conf.Sockets = append(conf.Sockets, set.Args()...)
	if set.Changed("verbose") {
		conf.Verbose = *verbose
	}
	if set.Changed("timeout") {
		conf.Timeout = *timeout
	}
	if set.Changed("parallelism") {
		conf.Parallelism = *parallelism
	}
	if set.Changed("interval") {
		conf.IntervalSeconds = *interval
	}

	if err := conf.Finalize(); err != nil {
		return nil, err
	}
	return conf, nil
}

func parseLabels(s string) (map[string]string, error) {
	if s == "" {
		return nil, nil
	}
	var labels map[string]string
	if err := json.Unmarshal([]byte(s), &labels); err != nil {
		return nil, errors.Wrap(err, "prometheus_labels must be a JSON object of strings")
	}
	return labels, nil
}
