package database_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Aidin1998/publications/internal/config"
	"github.com/Aidin1998/publications/internal/database"
	"github.com/Aidin1998/publications/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sqliteConfig(t *testing.T) config.DatabaseConfig {
	return config.DatabaseConfig{
		Driver:   config.DriverSQLite,
		DSN:      filepath.Join(t.TempDir(), "publications.db"),
		LogLevel: "silent",
	}
}

func TestOpenSQLite(t *testing.T) {
	db, err := database.Open(sqliteConfig(t))
	require.NoError(t, err)
	defer database.Close(db)

	require.NoError(t, database.Ping(context.Background(), db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := database.Open(config.DatabaseConfig{Driver: "mysql", DSN: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestPingAfterClose(t *testing.T) {
	db, err := database.Open(sqliteConfig(t))
	require.NoError(t, err)
	require.NoError(t, database.Close(db))

	assert.Error(t, database.Ping(context.Background(), db))
}

func TestRecordPoolStats(t *testing.T) {
	db, err := database.Open(sqliteConfig(t))
	require.NoError(t, err)
	defer database.Close(db)
	require.NoError(t, database.Ping(context.Background(), db))

	require.NoError(t, database.RecordPoolStats(db, "sqlite-test"))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.DBOpenConns.WithLabelValues("sqlite-test")))
}

func TestCollectPoolStatsStopsOnCancel(t *testing.T) {
	db, err := database.Open(sqliteConfig(t))
	require.NoError(t, err)
	defer database.Close(db)
	require.NoError(t, database.Ping(context.Background(), db))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		database.CollectPoolStats(ctx, db, "sqlite-collect", time.Millisecond, zap.NewNop())
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(metrics.DBOpenConns.WithLabelValues("sqlite-collect")) == 1
	}, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("collector did not stop")
	}
}

func TestCollectPoolStatsZeroInterval(t *testing.T) {
	// returns immediately instead of panicking in time.NewTicker
	database.CollectPoolStats(context.Background(), nil, "disabled", 0, zap.NewNop())
}
