package editor

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotebuilder/internal/domain"
	"quotebuilder/internal/metrics"
)

func TestRegistryLifecycle(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	registry := NewRegistry(func(id string) (*Session, error) {
		return NewSession(id, &stubRenderer{}, newMemStore(), logger)
	}, logger, m)

	a, err := registry.Create()
	require.NoError(t, err)
	b, err := registry.Create()
	require.NoError(t, err)
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, 2, registry.Len())

	got, err := registry.Get(a.ID())
	require.NoError(t, err)
	assert.Same(t, a, got)

	_, err = a.SetField("client.name", "Acme")
	require.NoError(t, err)
	assert.Empty(t, b.Snapshot().Document.Client.Name, "sessions must not share state")

	count, err := testutil.GatherAndCount(reg, "quotebuilder_editor_active_sessions")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, registry.Close(a.ID()))
	assert.ErrorIs(t, registry.Close(a.ID()), domain.ErrNotFound)

	_, err = registry.Get(a.ID())
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 1, registry.Len())
}

const activeSessionsMetric = `
# HELP quotebuilder_editor_active_sessions Editing sessions currently held in memory.
# TYPE quotebuilder_editor_active_sessions gauge
quotebuilder_editor_active_sessions %s
`

func expectActiveSessions(t *testing.T, reg *prometheus.Registry, value string) {
	t.Helper()
	expected := strings.Replace(activeSessionsMetric, "%s", value, 1)
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "quotebuilder_editor_active_sessions"))
}

func TestRegistryEvictsIdleSessions(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	registry := NewRegistry(func(id string) (*Session, error) {
		return NewSession(id, &stubRenderer{}, newMemStore(), logger)
	}, logger, metrics.New(reg))

	clock := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	registry.now = func() time.Time { return clock }

	idle, err := registry.Create()
	require.NoError(t, err)
	busy, err := registry.Create()
	require.NoError(t, err)
	expectActiveSessions(t, reg, "2")

	clock = clock.Add(20 * time.Minute)
	_, err = registry.Get(busy.ID())
	require.NoError(t, err)

	clock = clock.Add(15 * time.Minute)
	assert.Equal(t, 1, registry.evictIdle(30*time.Minute))

	_, err = registry.Get(idle.ID())
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = registry.Get(busy.ID())
	assert.NoError(t, err, "a session used within the retention period survives")
	assert.Equal(t, 1, registry.Len())
	expectActiveSessions(t, reg, "1")

	// evicted sessions are gone for Close too, and the gauge is not decremented twice
	assert.ErrorIs(t, registry.Close(idle.ID()), domain.ErrNotFound)
	expectActiveSessions(t, reg, "1")
}

func TestRegistryStartCleanup(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	registry := NewRegistry(func(id string) (*Session, error) {
		return NewSession(id, &stubRenderer{}, newMemStore(), logger)
	}, logger, metrics.New(reg))

	_, err := registry.Create()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		registry.StartCleanup(ctx, 5*time.Millisecond, 10*time.Millisecond)
	}()

	require.Eventually(t, func() bool { return registry.Len() == 0 }, time.Second, 5*time.Millisecond)
	expectActiveSessions(t, reg, "0")

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("StartCleanup did not return after cancel")
	}
}
