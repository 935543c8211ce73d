package core

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/signalfx/haproxy-monitor/internal/core/config"
	"github.com/signalfx/haproxy-monitor/internal/core/hostid"
	"github.com/signalfx/haproxy-monitor/internal/core/writer/pushgateway"
	"github.com/signalfx/haproxy-monitor/internal/core/writer/statsd"
	"github.com/signalfx/haproxy-monitor/internal/monitors/haproxy"
	"github.com/signalfx/haproxy-monitor/internal/monitors/types"
	"github.com/signalfx/haproxy-monitor/internal/utils"
)

// NewCollector wires the socket poller and the sinks described by conf.
// The statsd sink always comes first.  The push-gateway sink is only added
// when gateways are configured.
func NewCollector(conf *config.Config, logger log.FieldLogger) *Collector {
	host := hostid.Short(hostid.Hostname(conf.UseFullyQualifiedHost, logger))
	logger.WithField("host", host).Debug("Using host name in metric names")

	monitor := haproxy.NewMonitor(
		&haproxy.SocketClient{
			Timeout:          conf.Timeout,
			MaxResponseBytes: conf.MaxResponseBytes,
		},
		haproxy.NewParser(conf.IncludeInfo, conf.IncludeStat),
		logger)

	sinks := []types.Sink{
		statsd.New(conf.ParsedBackend.Address(), conf.ParsedBackend.Prefix, host, logger),
	}
	if len(conf.PrometheusServers) > 0 {
		sinks = append(sinks, pushgateway.New(conf.PrometheusServers, conf.PrometheusPrefix,
			conf.PrometheusLabels, host, conf.Timeout, logger))
	}

	return &Collector{
		Monitor:     monitor,
		Sinks:       sinks,
		Parallelism: conf.Parallelism,
		Logger:      logger,
	}
}

// Startup runs the collector over the configured sockets.  Without an
// interval it runs a single cycle.  With one it keeps cycling until ctx is
// cancelled.  The returned error is that of the last completed cycle, or the
// context's error if it was cancelled before any cycle completed.
func Startup(ctx context.Context, conf *config.Config, logger log.FieldLogger) error {
	collector := NewCollector(conf, logger)

	if conf.Interval() <= 0 {
		return collector.Run(ctx, conf.Sockets)
	}

	logger.WithField("intervalSeconds", conf.IntervalSeconds).Info("Polling HAProxy on an interval")

	var lastErr error
	completed := false
	utils.RunOnInterval(ctx, func() {
		err := collector.Run(ctx, conf.Sockets)
		// A cycle cut short by shutdown does not count.
		if ctx.Err() != nil {
			return
		}
		lastErr = err
		completed = true
	}, conf.Interval())

	if !completed {
		return errors.Wrap(ctx.Err(), "stopped before any collection cycle completed")
	}
	return lastErr
}
