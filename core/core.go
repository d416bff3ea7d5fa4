// Package core has core logic for signal collection, classification, graph
// synthesis and aggregation.
package core

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/memorymusicllc/pow3r/core/agg"
	"github.com/memorymusicllc/pow3r/internal/contract"
	"github.com/memorymusicllc/pow3r/internal/docstore"
	"github.com/memorymusicllc/pow3r/internal/iocache"
	"github.com/memorymusicllc/pow3r/internal/outwriter"
	"github.com/memorymusicllc/pow3r/internal/parquet"
	"github.com/memorymusicllc/pow3r/schema"
)

// ExecutorFunc defines the function signature for executing different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config) error

// ExecuteScan discovers repositories under the scan root, runs the full
// inference pipeline on each, persists the resulting status documents and
// prints a summary. It serves as the main entry point for the 'scan' mode.
func ExecuteScan(ctx context.Context, cfg *contract.Config) error {
	start := time.Now()
	if cfg.Output == schema.ParquetOut {
		return errors.New("parquet output is only supported by 'aggregate' and 'history export'")
	}

	client := contract.NewLocalGitClient()
	repos, err := DiscoverRepos(cfg.ScanPath, cfg.Excludes)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	results := ScanAll(ctx, cfg, client, iocache.Manager, repos, now)

	for _, r := range results {
		if r.Err != nil || r.Document == nil {
			contract.LogWarn(fmt.Sprintf("scanning %s", r.RepoPath), r.Err)
			continue
		}
		if err := docstore.WriteDocument(r.Document, documentPath(cfg, r)); err != nil {
			contract.LogWarn(fmt.Sprintf("writing document for %s", r.RepoPath), err)
		}
	}

	recordScanHistory(iocache.Manager, results)

	duration := time.Since(start)
	return outwriter.WriteScanResults(results, cfg, duration)
}

// ExecuteClassify runs signal collection and classification for a single
// repository without persisting anything. It serves as the main entry point
// for the 'classify' mode.
func ExecuteClassify(ctx context.Context, cfg *contract.Config) error {
	client := contract.NewLocalGitClient()

	repoPath, err := client.GetRepoRoot(ctx, cfg.ScanPath)
	if err != nil {
		repoPath = cfg.ScanPath
	}

	repoCtx, cancel := context.WithTimeout(ctx, cfg.RepoTimeout)
	defer cancel()

	signals := CollectSignals(repoCtx, client, repoPath, time.Now().UTC())
	status := Classify(signals)
	return outwriter.WriteClassification(signals, status, cfg)
}

// ExecuteAggregate loads status documents from the input directories, merges
// them into one graph and writes it out. It serves as the main entry point
// for the 'aggregate' mode.
func ExecuteAggregate(_ context.Context, cfg *contract.Config) error {
	start := time.Now()
	if len(cfg.InputDirs) == 0 {
		return errors.New("at least one input directory is required")
	}

	loaded, err := docstore.LoadDir(cfg.InputDirs...)
	if err != nil {
		return err
	}
	if len(loaded.Documents) == 0 && len(loaded.Skips) == 0 {
		return fmt.Errorf("no status documents found under %v", cfg.InputDirs)
	}

	graph := agg.Aggregate(loaded.Documents, time.Now().UTC())

	// Fold load failures into the aggregation stats
	graph.Stats.DocumentsSkipped += len(loaded.Skips)
	graph.Stats.Skips = append(loaded.Skips, graph.Stats.Skips...)

	if cfg.Output == schema.ParquetOut {
		if cfg.OutputFile == "" {
			return errors.New("--output-file is required for parquet output")
		}
		nodesFile := cfg.OutputFile + ".nodes.parquet"
		if err := parquet.WriteGraphNodesParquet(parquet.ConvertGraphNodes(graph.Nodes), nodesFile); err != nil {
			return fmt.Errorf("failed to write graph nodes: %w", err)
		}
		fmt.Printf("Exported %d nodes to: %s\n", len(graph.Nodes), nodesFile)
		return nil
	}

	duration := time.Since(start)
	return outwriter.WriteAggregateGraph(graph, cfg, duration)
}

// ExecuteConvert reads one status document of any known generation and
// rewrites it in the canonical shape. It serves as the main entry point for
// the 'convert' mode.
func ExecuteConvert(_ context.Context, cfg *contract.Config) error {
	if len(cfg.InputDirs) == 0 {
		return errors.New("an input file is required")
	}
	inputFile := cfg.InputDirs[0]

	doc, err := docstore.LoadFile(inputFile)
	if err != nil {
		return fmt.Errorf("loading %s: %w", inputFile, err)
	}

	if cfg.OutputFile == "" {
		// Without a destination, emit the canonical document to stdout
		out := cfg.Clone()
		out.Output = schema.JSONOut
		doc.SchemaVersion = schema.SchemaV3
		return outwriter.WriteDocumentJSON(doc, out)
	}
	return docstore.WriteDocument(doc, cfg.OutputFile)
}

// documentPath resolves where one repository's status document is written:
// the configured output directory, or the repository root itself.
func documentPath(cfg *contract.Config, r schema.ScanResult) string {
	name := docstore.DocumentFileName(r.Document.ProjectName)
	if cfg.OutputDir != "" {
		return filepath.Join(cfg.OutputDir, name)
	}
	return filepath.Join(r.RepoPath, name)
}

// recordScanHistory appends the completed scans to the history store.
func recordScanHistory(mgr contract.CacheManager, results []schema.ScanResult) {
	store := mgr.GetHistoryStore()
	if store == nil {
		return
	}
	for _, r := range results {
		if r.Err != nil || r.Document == nil {
			continue
		}
		doc := r.Document
		record := schema.ScanRecord{
			RepoPath:   r.RepoPath,
			State:      doc.Status.State,
			Progress:   doc.Status.Progress,
			NodeCount:  len(doc.Nodes),
			EdgeCount:  len(doc.Edges),
			GraphID:    doc.GraphID,
			ScanTime:   doc.LastScan,
			DurationMs: r.Duration.Milliseconds(),
		}
		if _, err := store.RecordScan(record); err != nil {
			contract.LogWarn(fmt.Sprintf("recording scan for %s", r.RepoPath), err)
		}
	}
}
