// Package outwriter has output and writer logic.
package outwriter

import (
	"os"
	"time"

	"github.com/memorymusicllc/pow3r/internal/contract"
	"github.com/memorymusicllc/pow3r/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteScans prints scan results using the configured output format.
func (ow *OutWriter) WriteScans(results []schema.ScanResult, cfg *contract.Config, duration time.Duration) error {
	return WriteScanResults(results, cfg, duration)
}

// WriteGraph prints an aggregated graph using the configured output format.
func (ow *OutWriter) WriteGraph(graph *schema.AggregateGraph, cfg *contract.Config, duration time.Duration) error {
	return WriteAggregateGraph(graph, cfg, duration)
}

// WriteHistory prints scan history records using the configured output format.
func (ow *OutWriter) WriteHistory(records []schema.ScanRecord, cfg *contract.Config) error {
	return WriteHistoryRecords(records, cfg)
}

// getMaxTablePathWidth calculates the maximum width for repository paths in
// table output based on terminal width.
func getMaxTablePathWidth() int {
	// Get terminal width
	termWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || termWidth <= 0 {
		// Fallback to conservative default if terminal size can't be detected
		termWidth = 80 // Conservative default for narrow terminals and CI
	}

	// Reserve space for the fixed columns with table formatting
	baseWidth := 45 // State + Progress + Nodes + Edges + Cached with borders/padding

	available := termWidth - baseWidth
	if available < 15 {
		// Minimum reasonable path width
		return 15
	}
	if available > 70 {
		// Maximum path width to prevent overly long paths
		return 70
	}
	return available
}
