package core_test

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/linkdao/reputation/internal/worker/core"
	"github.com/redis/rueidis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupMonitor(t *testing.T) *core.Monitor {
	t.Helper()

	mr := miniredis.RunT(t)

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{mr.Addr()},
		DisableCache: true,
	})
	require.NoError(t, err)
	t.Cleanup(client.Close)

	return core.NewMonitor(client, zap.NewNop())
}

func TestMonitorReportStatus(t *testing.T) {
	t.Parallel()

	monitor := setupMonitor(t)
	ctx := t.Context()

	status := core.Status{
		WorkerID:    "worker-1",
		WorkerType:  "refresh",
		CurrentTask: "refreshing metrics",
		Progress:    40,
		IsHealthy:   true,
	}
	require.NoError(t, monitor.ReportStatus(ctx, status))

	statuses, err := monitor.GetAllStatuses(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 1)

	got := statuses[0]
	assert.Equal(t, "worker-1", got.WorkerID)
	assert.Equal(t, "refresh", got.WorkerType)
	assert.Equal(t, "refreshing metrics", got.CurrentTask)
	assert.Equal(t, 40, got.Progress)
	assert.True(t, got.IsHealthy)
	assert.WithinDuration(t, time.Now(), got.LastSeen, time.Minute)
}

func TestMonitorGetAllStatusesEmpty(t *testing.T) {
	t.Parallel()

	monitor := setupMonitor(t)

	statuses, err := monitor.GetAllStatuses(t.Context())
	require.NoError(t, err)
	assert.Empty(t, statuses)
}

func TestMonitorMultipleWorkers(t *testing.T) {
	t.Parallel()

	monitor := setupMonitor(t)
	ctx := t.Context()

	require.NoError(t, monitor.ReportStatus(ctx, core.Status{WorkerID: "a", WorkerType: "refresh", IsHealthy: true}))
	require.NoError(t, monitor.ReportStatus(ctx, core.Status{WorkerID: "b", WorkerType: "outbox", IsHealthy: false}))

	statuses, err := monitor.GetAllStatuses(ctx)
	require.NoError(t, err)
	assert.Len(t, statuses, 2)
}
