package cmd

import (
	"fmt"

	"github.com/memorymusicllc/pow3r/internal/contract"
	"github.com/memorymusicllc/pow3r/internal/iocache"
	"github.com/memorymusicllc/pow3r/internal/outwriter"
	"github.com/memorymusicllc/pow3r/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historySetup loads minimal configuration needed for history operations.
// This is used by commands that need history access without full shared setup.
func historySetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get history-related config values
	backendStr := viper.GetString("history-backend")
	connStr := viper.GetString("history-db-connect")

	// Handle empty backend as NoneBackend
	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.NoneBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Get output-related config values (used by export and list commands)
	cfg.Output = schema.OutputMode(viper.GetString("output"))
	cfg.OutputFile = viper.GetString("output-file")
	cfg.Precision = viper.GetInt("precision")
	if cfg.Precision < 1 || cfg.Precision > 2 {
		cfg.Precision = contract.DefaultPrecision
	}
	colors, err := contract.ParseBoolString(viper.GetString("color"))
	if err != nil {
		return err
	}
	cfg.UseColors = colors

	// Initialize stores with the loaded config (no scan caching for history commands)
	if err := iocache.InitStores(schema.NoneBackend, "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr

	return nil
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// historyMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func historyMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get history-related config values
	backendStr := viper.GetString("history-backend")
	connStr := viper.GetString("history-db-connect")

	// Handle empty backend as NoneBackend
	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.NoneBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetHistoryDBFilePath()
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr

	return nil
}

// historyMigrateSetupWrapper wraps historyMigrateSetup to provide PreRunE for migrate command.
func historyMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return historyMigrateSetup()
}

// historyCmd focused on scan history management.
//
// Note: History subcommands use minimal initialization (historySetup) instead
// of the full sharedSetup used by scanning commands. This avoids scan path
// validation and complex config processing for simple history operations.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage historical scan tracking and exports",
	Long: `Manage historical scan data used for trend tracking and reporting.

When enabled, pow3r records every repository scan, storing:
- Repository path and inferred state
- Node and edge counts of the synthesized graph
- Graph fingerprint and scan duration

This enables longitudinal tracking of project health and data export for BI tools.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  list    - Show recent scan records
  status  - Show history tracking statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all tracking data
  migrate - Run database schema migrations

Examples:
  # Show the last scans
  pow3r history list

  # Export for analysis in pandas/DuckDB
  pow3r history export --output-file scan-data.parquet`,
}

// historyListCmd lists recent scan records.
var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the most recent scan records",
	Long: `List recorded repository scans, newest first.

Each record shows the repository, its inferred state and progress at scan
time, and the size of the synthesized graph.

Examples:
  # Show the last scans
  pow3r history list

  # Show more records as JSON
  pow3r history list --limit 100 --output json`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetHistoryStore()
		if store == nil {
			contract.LogFatal("History store is not configured", fmt.Errorf("set --history-backend to enable tracking"))
		}
		records, err := store.ListScans(viper.GetInt("limit"))
		if err != nil {
			contract.LogFatal("Failed to list scan history", err)
		}
		if err := outwriter.WriteHistoryRecords(records, cfg); err != nil {
			contract.LogFatal("Failed to write scan history", err)
		}
	},
}

// historyClearCmd clears the history data.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all historical scan tracking data",
	Long: `Delete all stored scan records.

WARNING: This action cannot be undone. Consider exporting data first.

Use this when:
- Resetting trend tracking
- Database storage is full
- Starting fresh scan history

Examples:
  # Export before clearing
  pow3r history export --output-file backup.parquet
  pow3r history clear`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearHistory(cfg.HistoryBackend, contract.GetHistoryDBFilePath(), cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear scan history", err)
		}
		fmt.Println("Scan history cleared successfully.")
	},
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display history tracking statistics and connection details",
	Long: `Show detailed information about historical scan tracking.

Displays:
- Backend type and connection status
- Total number of scan records stored
- Last and oldest scan timestamps

Examples:
  # Check history tracking status
  pow3r history status`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetHistoryStore()
		if store == nil {
			contract.LogFatal("History store is not configured", fmt.Errorf("set --history-backend to enable tracking"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		iocache.PrintHistoryStatus(status)
	},
}

// historyExportCmd exports scan history to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export scan history to Parquet for BI tools and analytics",
	Long: `Export all stored scan records to Parquet format for use with analytics tools.

Parquet format enables:
- Fast querying with DuckDB, Apache Spark, pandas
- Efficient storage with columnar compression
- Direct import into BI tools (Tableau, Metabase, etc.)

Requires: --output-file parameter

Examples:
  # Export all data
  pow3r history export --output-file scan-data.parquet

  # Use with DuckDB for analysis
  pow3r history export --output-file data.parquet
  duckdb -c "SELECT * FROM read_parquet('data.parquet.scan_runs.parquet') LIMIT 10"`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteHistoryExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export scan history", err)
		}
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the scan history store.

Migrations allow:
- Upgrading to new schema versions when pow3r is updated
- Safely modifying database structure without data loss
- Rolling back schema changes if needed

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  pow3r history migrate

  # Migrate to specific version
  pow3r history migrate --target-version 1

  # Rollback to initial state
  pow3r history migrate --target-version 0`,
	PreRunE: historyMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
