package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/memorymusicllc/pow3r/internal/contract"
	"github.com/memorymusicllc/pow3r/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteAggregateGraph outputs an aggregated graph, dispatching based on the
// output format configured.
func WriteAggregateGraph(graph *schema.AggregateGraph, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, graph)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeCSVResultsForGraph(csvWriter, graph, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeGraphTable(graph, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeGraphTable generates and writes the human-readable node table plus a
// summary block.
func writeGraphTable(graph *schema.AggregateGraph, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	table.Header([]string{"Node", "Type", "State", "Progress", "Conn", "Reliability"})

	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, n := range graph.Nodes {
		reliability := "-"
		if n.Reliability != nil {
			reliability = fmtFloat(n.Reliability.Score)
		}
		data = append(data, []string{
			contract.TruncatePath(n.ID, getMaxTablePathWidth()),
			n.Type,
			stateLabel(n.Status.State, cfg),
			strconv.Itoa(n.Status.Progress) + "%",
			strconv.Itoa(n.Analytics.Connectivity),
			reliability,
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	stats := graph.Stats
	if _, err := fmt.Fprintf(writer, "Graph: %d nodes, %d edges (avg progress %s%%, avg quality %s)\n",
		stats.TotalNodes, stats.TotalEdges, fmtFloat(stats.AvgProgress), fmtFloat(stats.AvgQuality)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Documents: %d processed, %d skipped\n",
		stats.DocumentsProcessed, stats.DocumentsSkipped); err != nil {
		return err
	}
	for _, skip := range stats.Skips {
		if _, err := fmt.Fprintf(writer, "  skipped %s from %s: %s\n", skip.Kind, skip.Source, skip.Detail); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(writer, "Aggregation completed in %v\n", duration); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForGraph writes the merged node list in CSV format.
func writeCSVResultsForGraph(w *csv.Writer, graph *schema.AggregateGraph, fmtFloat func(float64) string) error {
	header := []string{
		"node_id",
		"type",
		"title",
		"state",
		"progress",
		"phase",
		"connectivity",
		"centrality",
		"activity_30d",
		"reliability",
		"authors",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, n := range graph.Nodes {
		reliability := ""
		if n.Reliability != nil {
			reliability = fmtFloat(n.Reliability.Score)
		}
		rec := []string{
			n.ID,
			n.Type,
			n.Metadata.Title,
			contract.GetPlainStateLabel(n.Status.State),
			strconv.Itoa(n.Status.Progress),
			string(n.Status.Legacy.Phase),
			strconv.Itoa(n.Analytics.Connectivity),
			fmtFloat(n.Analytics.CentralityScore),
			strconv.Itoa(n.Analytics.ActivityLast30Days),
			reliability,
			strings.Join(n.Metadata.Authors, "|"),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
