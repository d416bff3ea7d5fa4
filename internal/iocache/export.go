package iocache

import (
	"errors"
	"fmt"

	"github.com/memorymusicllc/pow3r/internal/parquet"
)

// exportListLimit bounds how many scan records one export pulls.
const exportListLimit = 100000

// ExecuteHistoryExport performs the actual export of scan history to a Parquet file.
func ExecuteHistoryExport(outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	// Get the history store
	store := Manager.GetHistoryStore()
	if store == nil {
		return errors.New("history store is not configured")
	}

	// Check if there's any data to export
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}

	if status.TotalScans == 0 {
		return errors.New("no scan history found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total scan runs: %d\n", status.TotalScans)

	// Retrieve all scan records
	records, err := store.ListScans(exportListLimit)
	if err != nil {
		return fmt.Errorf("failed to retrieve scan records: %w", err)
	}

	// Convert and write to Parquet
	scanRuns := parquet.ConvertScanRecords(records)
	scanRunsFile := outputFile + ".scan_runs.parquet"
	if err := parquet.WriteScanRunsParquet(scanRuns, scanRunsFile); err != nil {
		return fmt.Errorf("failed to write scan runs: %w", err)
	}
	fmt.Printf("Exported %d scan runs to: %s\n", len(scanRuns), scanRunsFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Apache Arrow")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
