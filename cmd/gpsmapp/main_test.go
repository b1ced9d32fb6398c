package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/krople/gpsmapp/internal/config"
	"github.com/krople/gpsmapp/internal/mapview"
	"github.com/krople/gpsmapp/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestSetupLogger(t *testing.T) {
	ctx := t.Context()

	assert.True(t, setupLogger(envLocal).Enabled(ctx, -4))
	assert.True(t, setupLogger(envDev).Enabled(ctx, 0))
	assert.False(t, setupLogger(envDev).Enabled(ctx, -4))
	assert.False(t, setupLogger(envProd).Enabled(ctx, 0))
	assert.False(t, setupLogger("unknown").Enabled(ctx, 4))
}

func TestMonitoringServer_Healthz(t *testing.T) {
	logger := setupLogger(envLocal)

	tests := []struct {
		name   string
		ping   error
		status int
		body   string
	}{
		{"store reachable", nil, http.StatusOK, "OK"},
		{"store down", assert.AnError, http.StatusServiceUnavailable, "DB ping failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := pingFunc(func(context.Context) error { return tt.ping })
			server := newMonitoringServer(t.Context(), logger, prometheus.NewRegistry(), store, 0)

			rec := httptest.NewRecorder()
			server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.body, rec.Body.String())
		})
	}

	t.Run("metrics", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "gpsmapp_test_total", Help: "test"})
		reg.MustRegister(counter)
		counter.Inc()
		server := newMonitoringServer(t.Context(), logger, reg, pingFunc(func(context.Context) error { return nil }), 0)

		rec := httptest.NewRecorder()
		server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "gpsmapp_test_total 1")
	})
}

func TestOpenBackend(t *testing.T) {
	logger := setupLogger(envLocal)

	t.Run("sqlite", func(t *testing.T) {
		store, err := openBackend(t.Context(), &config.Config{Store: config.StoreSQLite}, logger)
		require.NoError(t, err)
		defer store.close()

		require.NoError(t, store.pinger.Ping(t.Context()))
		_, err = store.repo.InsertLocation(t.Context(), models.Location{Latitude: 1, Longitude: 2, Timestamp: time.Now()})
		require.NoError(t, err)
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := openBackend(t.Context(), &config.Config{Store: "mongo"}, logger)
		require.ErrorContains(t, err, "unsupported store")
	})
}

func TestRecordAndHistoryCommands(t *testing.T) {
	t.Setenv("GPSMAPP_ENV_FILE", "does-not-exist.env")
	t.Setenv("GPSMAPP_STORE", config.StoreSQLite)
	t.Setenv("GPSMAPP_SQLITE_PATH", t.TempDir()+"/gpsmapp.db")
	t.Setenv("GPSMAPP_TIMEZONE", "UTC")

	var out bytes.Buffer
	for _, args := range [][]string{
		{"record", "--lat", "37.5665", "--lng", "126.9780", "--accuracy", "12.4"},
		{"record", "--lat", "37.5651", "--lng", "126.9895"},
	} {
		out.Reset()
		root := newRootCmd()
		root.SetOut(&out)
		root.SetArgs(args)
		require.NoError(t, root.ExecuteContext(t.Context()))
		assert.Contains(t, out.String(), "recorded #")
	}
	assert.Contains(t, out.String(), "2 markers")

	out.Reset()
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"history"})
	require.NoError(t, root.ExecuteContext(t.Context()))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "RANK"))
	assert.Contains(t, lines[1], "37.565100")
	assert.Contains(t, lines[2], "12m")
	assert.True(t, strings.HasPrefix(lines[1], mapview.CurrentGlyph+" "))

	root = newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"record", "--lat", "91", "--lng", "0"})
	require.ErrorIs(t, root.ExecuteContext(t.Context()), models.ErrInvalidCoordinates)
}

func TestPrintHistory(t *testing.T) {
	accuracy := 12.5
	base := time.Date(2025, 3, 1, 3, 0, 0, 0, time.UTC)
	records := []models.Location{
		{Latitude: 37.5, Longitude: 127.0, Accuracy: &accuracy, Timestamp: base.Add(time.Minute)},
		{Latitude: 37.4, Longitude: 126.9, Timestamp: base},
	}
	plan := mapview.NewReconciler(mapview.Options{Location: time.FixedZone("KST", 9*3600)}).Plan(records)

	var out bytes.Buffer
	require.NoError(t, printHistory(&out, plan))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], mapview.CurrentGlyph+" "))
	assert.Contains(t, lines[1], "2025-03-01 12:01:00")
	assert.Contains(t, lines[1], plan.Markers[0].Detail.Accuracy)
	assert.Contains(t, lines[1], "13m", "accuracy rounds like the map detail")
	assert.True(t, strings.HasPrefix(lines[2], "1 "))
	assert.Contains(t, lines[2], "unknown")
}
