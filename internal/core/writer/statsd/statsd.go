// Package statsd publishes a namespace as statsd gauges, one gauge per
// namespace entry, under `<prefix>.<host>.<process_num>.<key>`.  This is the
// format Graphite ends up storing when fed through a statsd daemon.
package statsd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	dogstatsd "github.com/DataDog/datadog-go/v5/statsd"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/signalfx/haproxy-monitor/internal/monitors/types"
)

const sinkName = "statsd"

// SinkConnectError means no client could be created for the backend, so
// nothing was published.
type SinkConnectError struct {
	Address string
	Err     error
}

func (e *SinkConnectError) Error() string {
	return fmt.Sprintf("cannot connect to statsd backend %s: %v", e.Address, e.Err)
}

func (e *SinkConnectError) Unwrap() error {
	return e.Err
}

// gaugeClient is the part of the dogstatsd client that the writer uses.
type gaugeClient interface {
	Gauge(name string, value float64, tags []string, rate float64) error
	Close() error
}

// Writer sends gauges to a statsd backend
type Writer struct {
	// host:port of the statsd daemon
	Address string
	// Prefix is put in front of the host name, may be empty
	Prefix   string
	Hostname string
	Logger   log.FieldLogger

	newClient func(address string) (gaugeClient, error)
}

var _ types.Sink = &Writer{}

// New creates a writer for the backend at address.  hostname should already
// be shortened to the form it should take in metric names.
func New(address, prefix, hostname string, logger log.FieldLogger) *Writer {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Writer{
		Address:   address,
		Prefix:    prefix,
		Hostname:  hostname,
		Logger:    logger.WithFields(log.Fields{"sink": sinkName, "backend": address}),
		newClient: dialDogStatsd,
	}
}

func dialDogStatsd(address string) (gaugeClient, error) {
	client, err := dogstatsd.New(address,
		dogstatsd.WithoutTelemetry(),
		dogstatsd.WithoutOriginDetection())
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Name of the sink
func (w *Writer) Name() string {
	return sinkName
}

// Publish sends one gauge per namespace entry except Process_num, which
// becomes part of the prefix instead.  Failing to send an individual gauge is
// logged and does not stop the others.
func (w *Writer) Publish(ctx context.Context, ns *types.Namespace) error {
	processNum, ok := ns.Get(types.ProcessNumKey)
	if !ok {
		return errors.Errorf("namespace has no %s entry", types.ProcessNumKey)
	}
	prefix := w.metricPrefix(processNum)

	if err := ctx.Err(); err != nil {
		return err
	}
	client, err := w.newClient(w.Address)
	if err != nil {
		return &SinkConnectError{Address: w.Address, Err: err}
	}

	var sent, failed int
	ns.Without(types.ProcessNumKey).Each(func(key string, value float64) {
		if err := client.Gauge(prefix+"."+key, value, nil, 1); err != nil {
			failed++
			w.Logger.WithError(err).WithField("metric", key).Error("Could not publish gauge")
			return
		}
		sent++
	})

	if err := client.Close(); err != nil {
		w.Logger.WithError(err).Warn("Could not flush statsd client")
	}

	logger := w.Logger.WithFields(log.Fields{
		"prefix": prefix,
		"sent":   sent,
		"failed": failed,
	})
	if failed > 0 {
		logger.Warn("Some gauges were not published")
	} else {
		logger.Debug("Published gauges")
	}
	return nil
}

func (w *Writer) metricPrefix(processNum float64) string {
	var parts []string
	if w.Prefix != "" {
		parts = append(parts, w.Prefix)
	}
	if w.Hostname != "" {
		parts = append(parts, w.Hostname)
	}
	parts = append(parts, strconv.FormatFloat(processNum, 'f', -1, 64))
	return strings.Join(parts, ".")
}
