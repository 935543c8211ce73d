// Package core contains the central frame of the monitor that hooks the
// HAProxy poller up to the metric sinks.
package core

import (
	"context"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/signalfx/haproxy-monitor/internal/monitors/types"
)

// Poller turns one socket into a namespace of metrics
type Poller interface {
	Poll(ctx context.Context, socketPath string) (*types.Namespace, error)
}

// Collector runs one poll-and-publish pipeline per socket.
type Collector struct {
	Monitor Poller
	// Sinks are published to in this order.  The first sink that fails ends
	// the pipeline for that socket.
	Sinks []types.Sink
	// How many socket pipelines may run at once.  Anything below 2 runs the
	// sockets one after the other.
	Parallelism int
	Logger      log.FieldLogger
}

// Run polls every socket and publishes what it gets to each sink.  One
// socket failing does not stop the others.  The returned error is a
// *multierror.Error holding one error per failed socket, in the order the
// sockets were given, or nil if every pipeline succeeded.
func (c *Collector) Run(ctx context.Context, sockets []string) error {
	logger := c.Logger
	if logger == nil {
		logger = log.StandardLogger()
	}

	results := make([]error, len(sockets))

	limit := c.Parallelism
	if limit < 1 {
		limit = 1
	}
	var g errgroup.Group
	g.SetLimit(limit)
	for i := range sockets {
		i := i
		g.Go(func() error {
			results[i] = c.runSocket(ctx, sockets[i])
			return nil
		})
	}
	// Pipelines never return errors to the group, they go in results.
	_ = g.Wait()

	var merr *multierror.Error
	for i, err := range results {
		if err == nil {
			continue
		}
		logger.WithError(err).WithField("socket", sockets[i]).Error("Could not collect HAProxy stats")
		merr = multierror.Append(merr, err)
	}
	return merr.ErrorOrNil()
}

func (c *Collector) runSocket(ctx context.Context, socketPath string) error {
	ns, err := c.Monitor.Poll(ctx, socketPath)
	if err != nil {
		return errors.Wrapf(err, "polling %s", socketPath)
	}

	for _, sink := range c.Sinks {
		if err := ctx.Err(); err != nil {
			return errors.Wrapf(err, "publishing %s", socketPath)
		}
		if err := sink.Publish(ctx, ns); err != nil {
			return errors.Wrapf(err, "publishing %s to %s", socketPath, sink.Name())
		}
	}
	return nil
}
