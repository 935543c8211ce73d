package haproxy

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/signalfx/haproxy-monitor/internal/monitors/types"
)

// Monitor polls a HAProxy control socket and turns its answers into a
// namespace.
type Monitor struct {
	Client *SocketClient
	Parser *Parser
	Logger log.FieldLogger
}

// NewMonitor creates a monitor that uses the given allow-lists.
func NewMonitor(client *SocketClient, parser *Parser, logger log.FieldLogger) *Monitor {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Monitor{
		Client: client,
		Parser: parser,
		Logger: logger.WithField("monitorType", monitorType),
	}
}

// Poll fetches `show info` and then `show stat` from socketPath and parses
// them.  A transport failure on either command fails the whole poll; no
// partial namespace is returned.
func (m *Monitor) Poll(ctx context.Context, socketPath string) (*types.Namespace, error) {
	logger := m.Logger.WithField("socket", socketPath)

	info, err := m.Client.Send(ctx, socketPath, CmdShowInfo)
	if err != nil {
		return nil, err
	}
	stat, err := m.Client.Send(ctx, socketPath, CmdShowStat)
	if err != nil {
		return nil, err
	}

	ns, skipped := m.Parser.Parse(info, stat)
	for _, fe := range skipped {
		logger.WithError(fe).Debug("Skipping haproxy field")
	}

	logger.WithFields(log.Fields{
		"metrics": ns.Len(),
		"skipped": len(skipped),
	}).Debug("Parsed haproxy stats")
	return ns, nil
}
