package schema

import "time"

// CacheStatus holds status information about the scan cache store.
type CacheStatus struct {
	Backend         string
	Connected       bool
	TotalEntries    int64
	LastEntryTime   time.Time
	OldestEntryTime time.Time
	TableSizeBytes  int64
}

// ScanRecord represents one row from the pow3r_scan_runs history table.
type ScanRecord struct {
	ScanID     int64
	RepoPath   string
	State      NodeState
	Progress   int
	NodeCount  int
	EdgeCount  int
	GraphID    string
	ScanTime   time.Time
	DurationMs int64
}

// HistoryStatus holds status information about the scan history store.
type HistoryStatus struct {
	Backend      string
	Connected    bool
	TotalScans   int64
	LastScanTime time.Time
}
