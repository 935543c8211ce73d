// Package pushgateway republishes a namespace as labeled Prometheus gauges
// and pushes them to one or more push-gateways.
package pushgateway

import (
	"context"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/prometheus/common/model"
	log "github.com/sirupsen/logrus"

	"github.com/signalfx/haproxy-monitor/internal/monitors/types"
)

const (
	sinkName  = "pushgateway"
	jobPrefix = "monitor_haproxy_"
	noneLabel = "none"
)

// LabelNames are the variable labels every gauge family carries, in the order
// their values are given.
var LabelNames = []string{"name", "endpoint", "process_num", "server_name"}

var invalidMetricChars = regexp.MustCompile(`[^a-zA-Z0-9_:]`)

// DeriveSeries splits a dotted namespace key into the gauge family it belongs
// to and the values of its `name` and `endpoint` labels.  Keys of the form
// `<proxy>.<service>.<field>` give family `<field>`, four part keys such as
// `<proxy>.<service>.status.UP` give `status_UP`.  Keys with two or fewer
// parts are used whole as the family with both labels set to `none`.
func DeriveSeries(key string) (family, name, endpoint string) {
	parts := strings.Split(key, ".")
	if len(parts) <= 2 {
		return key, noneLabel, noneLabel
	}

	family = parts[2]
	if len(parts) == 4 {
		family = parts[2] + "_" + parts[3]
	}
	return family, parts[0], parts[1]
}

// Writer pushes namespaces to push-gateways.  Delivery is best effort: a
// gateway that cannot be reached is logged and skipped.
type Writer struct {
	URLs []string
	// Prefix is prepended to every metric family name, may be empty
	Prefix string
	// ConstLabels are added to every series
	ConstLabels prometheus.Labels
	Hostname    string
	Logger      log.FieldLogger

	client *http.Client
}

var _ types.Sink = &Writer{}

// New creates a writer for the given gateway URLs.  timeout applies to each
// push request.
func New(urls []string, prefix string, constLabels map[string]string, hostname string, timeout time.Duration, logger log.FieldLogger) *Writer {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Writer{
		URLs:        urls,
		Prefix:      prefix,
		ConstLabels: constLabels,
		Hostname:    hostname,
		Logger:      logger.WithField("sink", sinkName),
		client:      &http.Client{Timeout: timeout},
	}
}

// Name of the sink
func (w *Writer) Name() string {
	return sinkName
}

// Job is the push-gateway job name that this host's metrics are grouped
// under.
func (w *Writer) Job() string {
	return jobPrefix + w.Hostname
}

// Publish builds a registry from the namespace and pushes it to every
// gateway with a PUT, replacing whatever the job's group held before.
// Gateway failures are logged and never returned.  Each request is bounded by
// the client timeout, ctx is only checked between gateways.
func (w *Writer) Publish(ctx context.Context, ns *types.Namespace) error {
	processNum, ok := ns.Get(types.ProcessNumKey)
	if !ok {
		return errors.Errorf("namespace has no %s entry", types.ProcessNumKey)
	}

	registry := w.buildRegistry(ns.Without(types.ProcessNumKey), strconv.FormatFloat(processNum, 'f', -1, 64))

	for _, u := range w.URLs {
		if err := ctx.Err(); err != nil {
			return err
		}
		logger := w.Logger.WithField("gateway", u)
		err := push.New(u, w.Job()).
			Gatherer(registry).
			Client(w.client).
			Push()
		if err != nil {
			logger.WithError(err).Error("Could not push metrics to gateway")
			continue
		}
		logger.Debug("Pushed metrics to gateway")
	}
	return nil
}

// buildRegistry registers one gauge family per derived family name and sets
// a series for every namespace entry.
func (w *Writer) buildRegistry(ns *types.Namespace, processNum string) *prometheus.Registry {
	registry := prometheus.NewRegistry()
	families := make(map[string]*prometheus.GaugeVec)

	ns.Each(func(key string, value float64) {
		family, name, endpoint := DeriveSeries(key)
		metricName := w.metricName(family)
		logger := w.Logger.WithFields(log.Fields{"metric": key, "family": metricName})

		vec, seen := families[metricName]
		if !seen {
			vec = prometheus.NewGaugeVec(prometheus.GaugeOpts{
				Name:        metricName,
				Help:        "HAProxy " + family + " reported by the admin socket",
				ConstLabels: w.ConstLabels,
			}, LabelNames)
			if err := registry.Register(vec); err != nil {
				logger.WithError(err).Error("Could not register gauge family")
				vec = nil
			}
			families[metricName] = vec
		}
		if vec == nil {
			return
		}

		gauge, err := vec.GetMetricWithLabelValues(name, endpoint, processNum, w.Hostname)
		if err != nil {
			logger.WithError(err).Error("Could not create series")
			return
		}
		gauge.Set(value)
	})
	return registry
}

func (w *Writer) metricName(family string) string {
	name := family
	if w.Prefix != "" {
		name = strings.TrimSuffix(w.Prefix, "_") + "_" + family
	}
	name = invalidMetricChars.ReplaceAllString(name, "_")
	if !model.IsValidMetricName(model.LabelValue(name)) {
		name = "_" + name
	}
	return name
}
