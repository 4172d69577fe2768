package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeusync/sensorsim/internal/core/events/bus"
	"github.com/zeusync/sensorsim/internal/core/observability/log"
	"github.com/zeusync/sensorsim/internal/core/simulation"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return newTestServerFrom(t, simulation.DefaultConfig())
}

func newTestServerFrom(t *testing.T, simCfg *simulation.Config) *Server {
	t.Helper()
	sim, err := simulation.New(simCfg, simulation.WithLogger(log.NewNop()))
	require.NoError(t, err)

	events := bus.New()
	t.Cleanup(func() { _ = events.Close() })

	cfg := ConfigFrom(simCfg)
	cfg.ListenAddr = "127.0.0.1:0"
	cfg.TickInterval = 5 * time.Millisecond
	return NewServer(sim, events, cfg, log.NewNop())
}

func TestHealthAndSnapshot(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	_, err = srv.Step(context.Background())
	require.NoError(t, err)

	resp, err = http.Get(ts.URL + "/snapshot")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var snap simulation.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.Equal(t, uint64(1), snap.Tick)
	assert.Equal(t, 100, snap.Boundary)
	require.Len(t, snap.Agents, 1)
	assert.Equal(t, "robot-1", snap.Agents[0].ID)
	assert.Len(t, snap.Agents[0].Sensors, 5)

	resp, err = http.Get(ts.URL + "/agents/robot-1")
	require.NoError(t, err)
	var agent simulation.AgentSnapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&agent))
	_ = resp.Body.Close()
	assert.Equal(t, "robot-1", agent.ID)
	assert.Equal(t, snap.Agents[0].Position, agent.Position)

	resp, err = http.Get(ts.URL + "/agents/nobody")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp2, err := http.Post(ts.URL+"/snapshot", "application/json", nil)
	require.NoError(t, err)
	_ = resp2.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp2.StatusCode)
}

func TestWebSocketStream(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var first Frame
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, "snapshot", first.Type)
	assert.Equal(t, uint64(0), first.Data.Tick)
	assert.Equal(t, 1, srv.bus.Subscribers(EventTick))

	for i := 1; i <= 3; i++ {
		_, err = srv.Step(context.Background())
		require.NoError(t, err)

		var frame Frame
		require.NoError(t, conn.ReadJSON(&frame))
		assert.Equal(t, "tick", frame.Type)
		assert.Equal(t, uint64(i), frame.Data.Tick)
	}

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool {
		return srv.bus.Subscribers(EventTick) == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestStartStop(t *testing.T) {
	srv := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, srv.Start(ctx))
	assert.ErrorIs(t, srv.Start(ctx), ErrServerAlreadyRunning)
	require.NotNil(t, srv.Addr())

	require.Eventually(t, func() bool { return srv.Ticks() >= 3 }, 2*time.Second, 5*time.Millisecond)

	resp, err := http.Get("http://" + srv.Addr().String() + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
	defer stopCancel()
	require.NoError(t, srv.Stop(stopCtx))
	assert.ErrorIs(t, srv.Stop(stopCtx), ErrServerNotRunning)

	stopped := srv.Ticks()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, srv.Ticks())
}

func TestRestartAfterStop(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, srv.Start(ctx))
	require.Eventually(t, func() bool { return srv.Ticks() >= 2 }, 2*time.Second, 5*time.Millisecond)
	require.NoError(t, srv.Stop(ctx))
	first := srv.Ticks()

	require.NoError(t, srv.Start(ctx))
	require.Eventually(t, func() bool { return srv.Ticks() >= first+2 }, 2*time.Second, 5*time.Millisecond)

	resp, err := http.Get("http://" + srv.Addr().String() + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NotPanics(t, func() { require.NoError(t, srv.Stop(ctx)) })
	assert.ErrorIs(t, srv.Stop(ctx), ErrServerNotRunning)
}

func TestMaxTicks(t *testing.T) {
	simCfg := simulation.DefaultConfig()
	simCfg.MaxTicks = 4
	srv := newTestServerFrom(t, simCfg)

	require.NoError(t, srv.Start(context.Background()))
	require.Eventually(t, func() bool { return srv.Ticks() == 4 }, 2*time.Second, 5*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, uint64(4), srv.Ticks())
	require.NoError(t, srv.Stop(context.Background()))
}

func TestConfigFrom(t *testing.T) {
	cfg := simulation.DefaultConfig()
	cfg.Listen = "127.0.0.1:9000"
	cfg.TickInterval = simulation.Duration(250 * time.Millisecond)
	cfg.MaxTicks = 1000

	got := ConfigFrom(cfg)
	assert.Equal(t, "127.0.0.1:9000", got.ListenAddr)
	assert.Equal(t, 250*time.Millisecond, got.TickInterval)
	assert.Equal(t, uint64(1000), got.MaxTicks)
	assert.Equal(t, DefaultServerConfig().ClientBuffer, got.ClientBuffer)
}
