package statsd

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalfx/haproxy-monitor/internal/monitors/types"
)

type gauge struct {
	name  string
	value float64
}

type fakeClient struct {
	gauges []gauge
	failOn map[string]bool
	closed bool
}

func (f *fakeClient) Gauge(name string, value float64, tags []string, rate float64) error {
	if f.failOn[name] {
		return errors.New("send failed")
	}
	f.gauges = append(f.gauges, gauge{name, value})
	return nil
}

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

func testNamespace() *types.Namespace {
	ns := types.NewNamespace()
	ns.Set("Process_num", 1)
	ns.Set("Idle_pct", 93)
	ns.Set("front_http.srv1.scur", 3)
	ns.Set("front_http.srv1.status.UP", 1)
	return ns
}

func newFakeWriter(client *fakeClient) *Writer {
	logger, _ := test.NewNullLogger()
	w := New("127.0.0.1:8125", "haproxy", "lb01", logger)
	w.newClient = func(string) (gaugeClient, error) { return client, nil }
	return w
}

func TestPublish(t *testing.T) {
	client := &fakeClient{}
	w := newFakeWriter(client)

	ns := testNamespace()
	require.NoError(t, w.Publish(context.Background(), ns))

	require.Equal(t, []gauge{
		{"haproxy.lb01.1.Idle_pct", 93},
		{"haproxy.lb01.1.front_http.srv1.scur", 3},
		{"haproxy.lb01.1.front_http.srv1.status.UP", 1},
	}, client.gauges)
	require.True(t, client.closed)

	_, ok := ns.Get("Process_num")
	require.True(t, ok, "namespace must not be modified")
}

func TestPublishContinuesAfterGaugeFailure(t *testing.T) {
	client := &fakeClient{failOn: map[string]bool{"haproxy.lb01.1.Idle_pct": true}}
	w := newFakeWriter(client)

	require.NoError(t, w.Publish(context.Background(), testNamespace()))
	require.Len(t, client.gauges, 2)
	require.Equal(t, "haproxy.lb01.1.front_http.srv1.scur", client.gauges[0].name)
}

func TestPublishConnectFailure(t *testing.T) {
	w := newFakeWriter(nil)
	w.newClient = func(string) (gaugeClient, error) { return nil, errors.New("no route") }

	err := w.Publish(context.Background(), testNamespace())
	var ce *SinkConnectError
	require.True(t, errors.As(err, &ce))
	require.Equal(t, "127.0.0.1:8125", ce.Address)
}

func TestPublishRequiresProcessNum(t *testing.T) {
	client := &fakeClient{}
	w := newFakeWriter(client)

	ns := types.NewNamespace()
	ns.Set("Idle_pct", 93)

	require.Error(t, w.Publish(context.Background(), ns))
	require.Empty(t, client.gauges)
}

func TestMetricPrefix(t *testing.T) {
	w := &Writer{Hostname: "lb01"}
	assert.Equal(t, "lb01.2", w.metricPrefix(2))

	w.Prefix = "rucio.haproxy"
	assert.Equal(t, "rucio.haproxy.lb01.2", w.metricPrefix(2))
}

func TestPublishOverUDP(t *testing.T) {
	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer conn.Close()

	logger, _ := test.NewNullLogger()
	w := New(conn.LocalAddr().String(), "haproxy", "lb01", logger)
	require.NoError(t, w.Publish(context.Background(), testNamespace()))

	expected := map[string]bool{
		"haproxy.lb01.1.Idle_pct:93|g":                 false,
		"haproxy.lb01.1.front_http.srv1.scur:3|g":      false,
		"haproxy.lb01.1.front_http.srv1.status.UP:1|g": false,
	}

	buf := make([]byte, 65536)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for remaining := len(expected); remaining > 0; {
		n, _, err := conn.ReadFrom(buf)
		require.NoError(t, err)
		for _, line := range strings.Split(string(buf[:n]), "\n") {
			for want, seen := range expected {
				if !seen && strings.HasPrefix(line, want) {
					expected[want] = true
					remaining--
				}
			}
		}
	}
}
