// Package schema has configs, models and global variables for all parts of pow3r.
package schema

import "time"

// Quality holds the optional quality annotation of a status.
type Quality struct {
	QualityScore float64 `json:"qualityScore"`
	Notes        string  `json:"notes,omitempty"`
}

// Legacy is the always-present shadow projection of a status into the
// four-value phase vocabulary, kept for backward compatibility with older
// consumers.
type Legacy struct {
	Phase        LegacyPhase `json:"phase"`
	Completeness float64     `json:"completeness"`
}

// StatusValue is the canonical, immutable status of a node or repository.
// State and Progress must stay consistent under the StateProgress band table
// unless explicitly overridden by evidence.
type StatusValue struct {
	State    NodeState `json:"state"`
	Progress int       `json:"progress"`
	Quality  *Quality  `json:"quality,omitempty"`
	Legacy   Legacy    `json:"legacy"`
}

// Analytics holds per-node graph and activity metrics.
// Connectivity is recomputed after aggregation and must not be trusted
// from source documents.
type Analytics struct {
	Connectivity       int     `json:"connectivity"`
	CentralityScore    float64 `json:"centralityScore"`
	ActivityLast30Days int     `json:"activityLast30Days"`
}

// Metadata holds descriptive node information used for rendering and
// filtering, never for control flow.
type Metadata struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Location    string   `json:"location,omitempty"`
	Language    string   `json:"language,omitempty"`
	Version     string   `json:"version,omitempty"`
	Authors     []string `json:"authors,omitempty"`
}

// Evidence is one auditable entry contributing to a reliability score.
type Evidence struct {
	Claim  string  `json:"claim"`
	Source string  `json:"source"`
	Weight float64 `json:"weight"`
	Note   string  `json:"note,omitempty"`
}

// Reliability is the v3 extension annotation: a confidence score plus the
// ordered evidence trail that produced it.
type Reliability struct {
	Score    float64    `json:"score"`
	Evidence []Evidence `json:"evidence,omitempty"`
}

// Node is one component/repository/architectural unit in a status graph.
// Nodes are re-created on every scan, never mutated in place.
type Node struct {
	ID          string       `json:"id"`
	Type        string       `json:"type"`
	Status      StatusValue  `json:"status"`
	Analytics   Analytics    `json:"analytics"`
	Metadata    Metadata     `json:"metadata"`
	Reliability *Reliability `json:"reliability,omitempty"`
}

// Edge is a typed, directed relation between two nodes.
type Edge struct {
	From     string   `json:"from"`
	To       string   `json:"to"`
	Type     EdgeType `json:"type"`
	Strength float64  `json:"strength"`
	Label    string   `json:"label,omitempty"`
}

// StatusDocument is one per-repository, per-scan snapshot. It is produced
// wholly by one scan pass and read-only to all downstream consumers.
type StatusDocument struct {
	GraphID       string        `json:"graphId"`
	ProjectName   string        `json:"projectName"`
	Source        string        `json:"source,omitempty"`
	LastScan      time.Time     `json:"lastScan"`
	SchemaVersion SchemaVersion `json:"schemaVersion"`
	Status        StatusValue   `json:"status"`
	Nodes         []Node        `json:"nodes"`
	Edges         []Edge        `json:"edges"`
}

// Skip record kinds.
const (
	SkipMalformedDocument = "document"
	SkipDuplicateNode     = "node"
	SkipDanglingEdge      = "edge"
)

// SkipRecord captures one document, node or edge that was dropped during
// aggregation, with enough context to audit the decision.
type SkipRecord struct {
	Kind   string `json:"kind"` // "document", "node" or "edge"
	Source string `json:"source"`
	Detail string `json:"detail"`
}

// SummaryStats holds pure reductions over the merged node and edge lists.
type SummaryStats struct {
	TotalNodes         int               `json:"totalNodes"`
	TotalEdges         int               `json:"totalEdges"`
	StateCounts        map[NodeState]int `json:"stateCounts"`
	AvgQuality         float64           `json:"avgQuality"`
	AvgProgress        float64           `json:"avgProgress"`
	DocumentsProcessed int               `json:"documentsProcessed"`
	DocumentsSkipped   int               `json:"documentsSkipped"`
	Skips              []SkipRecord      `json:"skips,omitempty"`
}

// AggregateGraph is the combined graph over all source documents. It is
// derived fresh on each aggregation run, never incrementally mutated.
type AggregateGraph struct {
	Timestamp time.Time    `json:"timestamp"`
	Nodes     []Node       `json:"nodes"`
	Edges     []Edge       `json:"edges"`
	Stats     SummaryStats `json:"stats"`
}

// ScanResult pairs a scanned repository with its resulting document or the
// reason the scan failed.
type ScanResult struct {
	RepoPath string
	Document *StatusDocument
	Cached   bool
	Err      error
	Duration time.Duration
}
