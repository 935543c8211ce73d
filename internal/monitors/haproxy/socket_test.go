package haproxy

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/signalfx/haproxy-monitor/internal/utils/network/simpleserver"
)

// runFakeHAProxy serves canned responses keyed by command on a fresh unix
// socket and returns its path.
func runFakeHAProxy(t *testing.T, responses map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "haproxy.sock")

	stop, err := simpleserver.Run(path, func(cmd string) string {
		return responses[cmd]
	}, func(err error) {
		t.Logf("fake haproxy: %v", err)
	})
	require.NoError(t, err)
	t.Cleanup(stop)
	return path
}

func TestSocketClientSend(t *testing.T) {
	path := runFakeHAProxy(t, map[string]string{
		CmdShowInfo: sampleInfo,
		CmdShowStat: sampleStat,
	})
	client := &SocketClient{Timeout: 5 * time.Second}

	info, err := client.Send(context.Background(), path, CmdShowInfo)
	require.NoError(t, err)
	require.Equal(t, sampleInfo, string(info))

	// A second command needs a new connection, which must work as well.
	stat, err := client.Send(context.Background(), path, CmdShowStat)
	require.NoError(t, err)
	require.Equal(t, sampleStat, string(stat))
}

func TestSocketClientReadsLargeResponses(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("# pxname,svname,scur,\n")
	for sb.Len() < 64*1024 {
		sb.WriteString("some_frontend_with_a_long_name,server_with_a_long_name,12345,\n")
	}
	path := runFakeHAProxy(t, map[string]string{CmdShowStat: sb.String()})

	stat, err := (&SocketClient{}).Send(context.Background(), path, CmdShowStat)
	require.NoError(t, err)
	require.Equal(t, sb.String(), string(stat))
}

func TestSocketClientResponseLimit(t *testing.T) {
	path := runFakeHAProxy(t, map[string]string{CmdShowInfo: strings.Repeat("x", 2048)})

	_, err := (&SocketClient{MaxResponseBytes: 1024}).Send(context.Background(), path, CmdShowInfo)
	require.Error(t, err)
	require.Contains(t, err.Error(), "exceeds 1024 bytes")
}

func TestSocketClientConnectFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.sock")

	_, err := (&SocketClient{Timeout: time.Second}).Send(context.Background(), path, CmdShowInfo)
	require.Error(t, err)

	var te *TransportError
	require.True(t, errors.As(err, &te))
	require.Equal(t, path, te.Socket)
	require.Equal(t, CmdShowInfo, te.Command)
}
