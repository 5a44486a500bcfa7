//go:build database

package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestEvotrackWithMySQL tests the evotrack CLI with a MySQL backend.
func TestEvotrackWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306:3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "evotrack",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(30 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/evotrack?parseTime=true", host, port.Port())
	runBackendScenario(t, "mysql", connStr)
}

// TestEvotrackWithPostgres tests the evotrack CLI with a PostgreSQL backend.
func TestEvotrackWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432:5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()
	time.Sleep(5 * time.Second)

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port.Port())
	runBackendScenario(t, "postgresql", connStr)
}

// runBackendScenario exercises cache and analysis tracking against a live backend.
func runBackendScenario(t *testing.T, backend, connStr string) {
	t.Helper()

	// Set environment variables
	_ = os.Setenv("EVOTRACK_CACHE_BACKEND", backend)
	_ = os.Setenv("EVOTRACK_CACHE_DB_CONNECT", connStr)
	_ = os.Setenv("EVOTRACK_ANALYSIS_BACKEND", backend)
	_ = os.Setenv("EVOTRACK_ANALYSIS_DB_CONNECT", connStr)
	defer func() { _ = os.Unsetenv("EVOTRACK_CACHE_BACKEND") }()
	defer func() { _ = os.Unsetenv("EVOTRACK_CACHE_DB_CONNECT") }()
	defer func() { _ = os.Unsetenv("EVOTRACK_ANALYSIS_BACKEND") }()
	defer func() { _ = os.Unsetenv("EVOTRACK_ANALYSIS_DB_CONNECT") }()

	bundleDir := seedBundle(t)

	// Reset both stores
	_, err := runEvotrackCommand(t, "..", "cache", "clear")
	require.NoError(t, err)
	_, err = runEvotrackCommand(t, "..", "analysis", "clear")
	require.NoError(t, err)

	// Generate a report twice; the second run should hit the cache
	_, err = runEvotrackCommand(t, "..", "report", bundleDir, "--output", "json")
	require.NoError(t, err)
	_, err = runEvotrackCommand(t, "..", "report", bundleDir, "--output", "json")
	require.NoError(t, err)

	// Verify both stores respond to status queries
	_, err = runEvotrackCommand(t, "..", "cache", "status")
	require.NoError(t, err)
	_, err = runEvotrackCommand(t, "..", "analysis", "status")
	require.NoError(t, err)

	// Runs were recorded for both report invocations
	output, err := runEvotrackCommand(t, "..", "runs", "--output", "csv")
	require.NoError(t, err)
	require.Contains(t, output, "report")
}
