// Package parquet provides data structures and functions for exporting scan
// history and graph data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/memorymusicllc/pow3r/schema"
	"github.com/parquet-go/parquet-go"
)

// ScanRun represents a single repository scan with its classified result.
// This struct maps to the pow3r_scan_runs database table.
type ScanRun struct {
	// ScanID is the unique identifier for this scan run
	ScanID int64 `parquet:"scan_id,snappy"`

	// RepoPath is the absolute path of the scanned repository
	RepoPath string `parquet:"repo_path,snappy"`

	// State is the classified lifecycle state
	State string `parquet:"state,snappy"`

	// Progress is the completion percentage (0-100)
	Progress int32 `parquet:"progress,snappy"`

	// NodeCount is the number of synthesized nodes
	NodeCount int32 `parquet:"node_count,snappy"`

	// EdgeCount is the number of synthesized edges
	EdgeCount int32 `parquet:"edge_count,snappy"`

	// GraphID is the content hash of the synthesized graph
	GraphID string `parquet:"graph_id,snappy"`

	// ScanTime is when the scan ran (stored as TIMESTAMP with nanosecond precision)
	ScanTime time.Time `parquet:"scan_time,snappy"`

	// DurationMs is the scan duration in milliseconds
	DurationMs int64 `parquet:"duration_ms,snappy"`
}

// GraphNode represents one node of an aggregated graph, flattened for
// columnar analysis.
type GraphNode struct {
	// NodeID is the source-qualified node identifier
	NodeID string `parquet:"node_id,snappy"`

	// NodeType is the rendering taxonomy type
	NodeType string `parquet:"node_type,snappy"`

	// Title is the human-readable node title
	Title string `parquet:"title,snappy"`

	// Location is the repository-relative path the node covers
	Location string `parquet:"location,snappy"`

	// State is the lifecycle state
	State string `parquet:"state,snappy"`

	// Progress is the completion percentage (0-100)
	Progress int32 `parquet:"progress,snappy"`

	// Connectivity is the number of directly connected edges
	Connectivity int32 `parquet:"connectivity,snappy"`

	// CentralityScore is the normalized degree centrality (0-1)
	CentralityScore float64 `parquet:"centrality_score,snappy"`

	// ActivityLast30Days is the recent commit count
	ActivityLast30Days int32 `parquet:"activity_last_30_days,snappy"`

	// ReliabilityScore is the evidence-weighted reliability (nullable)
	ReliabilityScore *float64 `parquet:"reliability_score,optional,snappy"`

	// Authors is the comma-joined contributor list (nullable)
	Authors *string `parquet:"authors,optional,snappy"`
}

// WriteScanRunsParquet writes a slice of ScanRun structs to a Parquet file.
func WriteScanRunsParquet(data []ScanRun, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the ScanRun struct tags
	writer := parquet.NewGenericWriter[ScanRun](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteGraphNodesParquet writes a slice of GraphNode structs to a Parquet file.
func WriteGraphNodesParquet(data []GraphNode, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the GraphNode struct tags
	writer := parquet.NewGenericWriter[GraphNode](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// ConvertScanRecords converts schema.ScanRecord to ScanRun for Parquet export.
func ConvertScanRecords(records []schema.ScanRecord) []ScanRun {
	result := make([]ScanRun, len(records))
	for i, record := range records {
		result[i] = ScanRun{
			ScanID:     record.ScanID,
			RepoPath:   record.RepoPath,
			State:      string(record.State),
			Progress:   int32(record.Progress),
			NodeCount:  int32(record.NodeCount),
			EdgeCount:  int32(record.EdgeCount),
			GraphID:    record.GraphID,
			ScanTime:   record.ScanTime,
			DurationMs: record.DurationMs,
		}
	}
	return result
}

// ConvertGraphNodes converts schema.Node to GraphNode for Parquet export.
func ConvertGraphNodes(nodes []schema.Node) []GraphNode {
	result := make([]GraphNode, len(nodes))
	for i, node := range nodes {
		gn := GraphNode{
			NodeID:             node.ID,
			NodeType:           node.Type,
			Title:              node.Metadata.Title,
			Location:           node.Metadata.Location,
			State:              string(node.Status.State),
			Progress:           int32(node.Status.Progress),
			Connectivity:       int32(node.Analytics.Connectivity),
			CentralityScore:    node.Analytics.CentralityScore,
			ActivityLast30Days: int32(node.Analytics.ActivityLast30Days),
		}
		if node.Reliability != nil {
			score := node.Reliability.Score
			gn.ReliabilityScore = &score
		}
		if len(node.Metadata.Authors) > 0 {
			authors := strings.Join(node.Metadata.Authors, ",")
			gn.Authors = &authors
		}
		result[i] = gn
	}
	return result
}
