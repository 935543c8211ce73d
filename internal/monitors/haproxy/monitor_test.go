package haproxy

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func TestMonitorPoll(t *testing.T) {
	path := runFakeHAProxy(t, map[string]string{
		CmdShowInfo: sampleInfo + "Idle_pct: oops\n",
		CmdShowStat: sampleStat,
	})
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	m := NewMonitor(&SocketClient{}, newTestParser(), logger)
	ns, err := m.Poll(context.Background(), path)
	require.NoError(t, err)

	v, ok := ns.Get("front_http.srv1.scur")
	require.True(t, ok)
	require.Equal(t, 3.0, v)

	var skippedLogs int
	for _, e := range hook.AllEntries() {
		if e.Message == "Skipping haproxy field" {
			skippedLogs++
			require.Equal(t, path, e.Data["socket"])
		}
	}
	require.Equal(t, 1, skippedLogs)
}

func TestMonitorPollTransportFailure(t *testing.T) {
	m := NewMonitor(&SocketClient{}, newTestParser(), nil)

	ns, err := m.Poll(context.Background(), filepath.Join(t.TempDir(), "nope.sock"))
	require.Nil(t, ns)

	var te *TransportError
	require.True(t, errors.As(err, &te))
	require.Equal(t, CmdShowInfo, te.Command)
}
