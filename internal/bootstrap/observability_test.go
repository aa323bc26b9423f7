package bootstrap

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/jobboard/config"
	"github.com/target/jobboard/internal/observability/statsd"
)

func TestBuildMetrics(t *testing.T) {
	t.Run("disabled returns nil", func(t *testing.T) {
		got := BuildMetrics(context.Background(), config.MetricsConfig{StatsdAddress: "127.0.0.1:8125"}, discardLogger())
		assert.Nil(t, got)
		assert.Nil(t, metricsSink(got))
	})

	t.Run("bad address is logged and ignored", func(t *testing.T) {
		cfg := config.MetricsConfig{Enabled: true, StatsdAddress: "not-a-host-port", Prefix: "jobboard"}
		assert.Nil(t, BuildMetrics(context.Background(), cfg, discardLogger()))
	})

	t.Run("enabled dials udp", func(t *testing.T) {
		pc, err := net.ListenPacket("udp", "127.0.0.1:0")
		require.NoError(t, err)
		t.Cleanup(func() { _ = pc.Close() })

		cfg := config.MetricsConfig{Enabled: true, StatsdAddress: pc.LocalAddr().String(), Prefix: "jobboard"}
		client := BuildMetrics(context.Background(), cfg, discardLogger())
		require.NotNil(t, client)
		t.Cleanup(func() { _ = client.Close() })

		var sink statsd.Sink = metricsSink(client)
		assert.NotNil(t, sink)
	})
}

func TestServiceContainer_CloseWithoutMetrics(t *testing.T) {
	c := &ServiceContainer{}
	assert.NoError(t, c.Close())
}
