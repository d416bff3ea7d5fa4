package iocache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/memorymusicllc/pow3r/internal/contract"
	"github.com/memorymusicllc/pow3r/schema"
)

// scanRunsTable is the name of the scan history table.
const scanRunsTable = "pow3r_scan_runs"

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	var db *sql.DB
	var err error
	var driverName string

	switch backend {
	case schema.SQLiteBackend:
		driverName = "sqlite"
		dbPath := connStr
		if dbPath == "" {
			dbPath = GetHistoryDBFilePath()
		}
		db, err = sql.Open(driverName, dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		driverName = "mysql"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		driverName = "pgx"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	case schema.NoneBackend:
		// Return a no-op store for disabled tracking
		return &HistoryStoreImpl{
			db:         nil,
			backend:    backend,
			driverName: "",
		}, nil

	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}

	// Ping to verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w. Check that the server is running and connection parameters are valid", backend, err)
	}

	// Create the table schema
	if _, err := db.Exec(getCreateScanRunsQuery(backend)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", scanRunsTable, err)
	}

	return &HistoryStoreImpl{
		db:         db,
		backend:    backend,
		driverName: driverName,
	}, nil
}

// getCreateScanRunsQuery returns the CREATE TABLE query for pow3r_scan_runs.
func getCreateScanRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(scanRunsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				scan_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				repo_path VARCHAR(512) NOT NULL,
				state VARCHAR(20) NOT NULL,
				progress INT NOT NULL,
				node_count INT NOT NULL,
				edge_count INT NOT NULL,
				graph_id VARCHAR(64) NOT NULL,
				scan_time DATETIME(6) NOT NULL,
				duration_ms BIGINT NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				scan_id BIGSERIAL PRIMARY KEY,
				repo_path TEXT NOT NULL,
				state TEXT NOT NULL,
				progress INT NOT NULL,
				node_count INT NOT NULL,
				edge_count INT NOT NULL,
				graph_id TEXT NOT NULL,
				scan_time TIMESTAMPTZ NOT NULL,
				duration_ms BIGINT NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				scan_id INTEGER PRIMARY KEY AUTOINCREMENT,
				repo_path TEXT NOT NULL,
				state TEXT NOT NULL,
				progress INTEGER NOT NULL,
				node_count INTEGER NOT NULL,
				edge_count INTEGER NOT NULL,
				graph_id TEXT NOT NULL,
				scan_time TEXT NOT NULL,
				duration_ms INTEGER NOT NULL
			);
		`, quotedTableName)
	}
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.Format(time.RFC3339Nano)
	default:
		return t
	}
}

// RecordScan stores one completed repository scan and returns its id.
func (hs *HistoryStoreImpl) RecordScan(record schema.ScanRecord) (int64, error) {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return 0, nil
	}

	quotedTableName := quoteTableName(scanRunsTable, hs.backend)

	var scanID int64
	var err error
	switch hs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (repo_path, state, progress, node_count, edge_count, graph_id, scan_time, duration_ms)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING scan_id`, quotedTableName)
		err = hs.db.QueryRow(query,
			record.RepoPath, string(record.State), record.Progress, record.NodeCount,
			record.EdgeCount, record.GraphID, record.ScanTime, record.DurationMs,
		).Scan(&scanID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (repo_path, state, progress, node_count, edge_count, graph_id, scan_time, duration_ms)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, quotedTableName)
		var result sql.Result
		result, err = hs.db.Exec(query,
			record.RepoPath, string(record.State), record.Progress, record.NodeCount,
			record.EdgeCount, record.GraphID, formatTime(record.ScanTime, hs.backend), record.DurationMs,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert scan record: %w", err)
		}
		scanID, err = result.LastInsertId()
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert scan record: %w", err)
	}
	return scanID, nil
}

// ListScans returns the most recent scan records, newest first.
func (hs *HistoryStoreImpl) ListScans(limit int) ([]schema.ScanRecord, error) {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	quotedTableName := quoteTableName(scanRunsTable, hs.backend)
	var query string
	switch hs.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`SELECT scan_id, repo_path, state, progress, node_count, edge_count, graph_id, scan_time, duration_ms
			FROM %s ORDER BY scan_id DESC LIMIT $1`, quotedTableName)
	default:
		query = fmt.Sprintf(`SELECT scan_id, repo_path, state, progress, node_count, edge_count, graph_id, scan_time, duration_ms
			FROM %s ORDER BY scan_id DESC LIMIT ?`, quotedTableName)
	}

	rows, err := hs.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query scan records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ScanRecord
	for rows.Next() {
		var record schema.ScanRecord
		var state string

		switch hs.backend {
		case schema.SQLiteBackend:
			var scanTimeStr string
			if err := rows.Scan(&record.ScanID, &record.RepoPath, &state, &record.Progress,
				&record.NodeCount, &record.EdgeCount, &record.GraphID, &scanTimeStr, &record.DurationMs); err != nil {
				return nil, fmt.Errorf("failed to scan record: %w", err)
			}
			scanTime, err := time.Parse(time.RFC3339Nano, scanTimeStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse scan_time: %w", err)
			}
			record.ScanTime = scanTime
		default: // MySQL and PostgreSQL store as native datetime
			if err := rows.Scan(&record.ScanID, &record.RepoPath, &state, &record.Progress,
				&record.NodeCount, &record.EdgeCount, &record.GraphID, &record.ScanTime, &record.DurationMs); err != nil {
				return nil, fmt.Errorf("failed to scan record: %w", err)
			}
		}

		record.State = schema.NodeState(state)
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scan records: %w", err)
	}
	return results, nil
}

// Clear removes all scan records.
func (hs *HistoryStoreImpl) Clear() error {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil
	}
	quotedTableName := quoteTableName(scanRunsTable, hs.backend)
	_, err := hs.db.Exec(fmt.Sprintf("DELETE FROM %s", quotedTableName))
	return err
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:   string(hs.backend),
		Connected: hs.db != nil,
	}

	if hs.backend == schema.NoneBackend || hs.db == nil {
		return status, nil
	}

	quotedTableName := quoteTableName(scanRunsTable, hs.backend)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedTableName)
	row := hs.db.QueryRow(countQuery)
	if err := row.Scan(&status.TotalScans); err != nil {
		return status, fmt.Errorf("failed to get total scans: %w", err)
	}

	if status.TotalScans == 0 {
		return status, nil
	}

	lastQuery := fmt.Sprintf("SELECT scan_time FROM %s ORDER BY scan_id DESC LIMIT 1", quotedTableName)
	row = hs.db.QueryRow(lastQuery)

	switch hs.backend {
	case schema.SQLiteBackend:
		var lastTimeStr string
		if err := row.Scan(&lastTimeStr); err != nil {
			return status, fmt.Errorf("failed to get last scan time: %w", err)
		}
		lastTime, err := time.Parse(time.RFC3339Nano, lastTimeStr)
		if err != nil {
			return status, fmt.Errorf("failed to parse last scan time: %w", err)
		}
		status.LastScanTime = lastTime
	default: // MySQL and PostgreSQL store as native datetime
		if err := row.Scan(&status.LastScanTime); err != nil {
			return status, fmt.Errorf("failed to get last scan time: %w", err)
		}
	}

	return status, nil
}
