//go:build database

package integration

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestPow3rWithMySQL tests the pow3r CLI with a MySQL backend.
func TestPow3rWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306:3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "pow3r",
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

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/pow3r?parseTime=true", host, port.Port())

	// Set environment variables
	_ = os.Setenv("POW3R_CACHE_BACKEND", "mysql")
	_ = os.Setenv("POW3R_CACHE_DB_CONNECT", connStr)
	_ = os.Setenv("POW3R_HISTORY_BACKEND", "mysql")
	_ = os.Setenv("POW3R_HISTORY_DB_CONNECT", connStr)
	defer func() { _ = os.Unsetenv("POW3R_CACHE_BACKEND") }()
	defer func() { _ = os.Unsetenv("POW3R_CACHE_DB_CONNECT") }()
	defer func() { _ = os.Unsetenv("POW3R_HISTORY_BACKEND") }()
	defer func() { _ = os.Unsetenv("POW3R_HISTORY_DB_CONNECT") }()

	// Run pow3r cache clear
	err = runPow3rCommand(t, "cache", "clear")
	require.NoError(t, err)

	// Run pow3r history clear
	err = runPow3rCommand(t, "history", "clear")
	require.NoError(t, err)

	// Run pow3r scan (on project root)
	err = runPow3rCommand(t, "scan", "--out-dir", tempDir)
	require.NoError(t, err)

	// Run pow3r cache status
	err = runPow3rCommand(t, "cache", "status")
	require.NoError(t, err)

	// Run pow3r history status
	err = runPow3rCommand(t, "history", "status")
	require.NoError(t, err)

	// Run pow3r history list
	err = runPow3rCommand(t, "history", "list")
	require.NoError(t, err)
}

// TestPow3rWithPostgres tests the pow3r CLI with a PostgreSQL backend.
func TestPow3rWithPostgres(t *testing.T) {
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

	// Set environment variables
	_ = os.Setenv("POW3R_CACHE_BACKEND", "postgresql")
	_ = os.Setenv("POW3R_CACHE_DB_CONNECT", connStr)
	_ = os.Setenv("POW3R_HISTORY_BACKEND", "postgresql")
	_ = os.Setenv("POW3R_HISTORY_DB_CONNECT", connStr)
	defer func() { _ = os.Unsetenv("POW3R_CACHE_BACKEND") }()
	defer func() { _ = os.Unsetenv("POW3R_CACHE_DB_CONNECT") }()
	defer func() { _ = os.Unsetenv("POW3R_HISTORY_BACKEND") }()
	defer func() { _ = os.Unsetenv("POW3R_HISTORY_DB_CONNECT") }()

	// Run pow3r cache clear
	err = runPow3rCommand(t, "cache", "clear")
	require.NoError(t, err)

	// Run pow3r history clear
	err = runPow3rCommand(t, "history", "clear")
	require.NoError(t, err)

	// Run pow3r scan (on project root)
	err = runPow3rCommand(t, "scan", "--out-dir", tempDir)
	require.NoError(t, err)

	// Run pow3r cache status
	err = runPow3rCommand(t, "cache", "status")
	require.NoError(t, err)

	// Run pow3r history status
	err = runPow3rCommand(t, "history", "status")
	require.NoError(t, err)

	// Run pow3r history list
	err = runPow3rCommand(t, "history", "list")
	require.NoError(t, err)
}

func runPow3rCommand(t *testing.T, args ...string) error {
	pow3rPath := getPow3rBinary()
	cmd := exec.Command(pow3rPath, args...)
	cmd.Dir = "../" // Run from project root
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("Command failed: %s\nOutput: %s", cmd.String(), string(output))
		return err
	}
	return nil
}
