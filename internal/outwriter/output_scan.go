package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/memorymusicllc/pow3r/internal/contract"
	"github.com/memorymusicllc/pow3r/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteScanResults outputs the scan results, dispatching based on the output format configured.
func WriteScanResults(results []schema.ScanResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeScanJSONResults(results, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeScanCSVResults(results, cfg); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeScanTable(results, cfg, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeScanJSONResults handles opening the file and calling the JSON writer.
func writeScanJSONResults(results []schema.ScanResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultsForScans(w, results)
	}, "Wrote JSON")
}

// writeScanCSVResults handles opening the file and calling the CSV writer.
func writeScanCSVResults(results []schema.ScanResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForScans(csvWriter, results)
	}, "Wrote CSV")
}

// writeScanTable generates and writes the human-readable table.
func writeScanTable(results []schema.ScanResult, cfg *contract.Config, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	table.Header([]string{"Repository", "State", "Progress", "Nodes", "Edges", "Cached"})

	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	failed := 0
	for _, r := range results {
		if r.Err != nil || r.Document == nil {
			failed++
			data = append(data, []string{
				contract.TruncatePath(r.RepoPath, getMaxTablePathWidth()),
				contract.RedColor.Sprint("error"),
				"-", "-", "-", "-",
			})
			continue
		}
		doc := r.Document
		data = append(data, []string{
			contract.TruncatePath(r.RepoPath, getMaxTablePathWidth()),
			stateLabel(doc.Status.State, cfg),
			strconv.Itoa(doc.Status.Progress) + "%",
			strconv.Itoa(len(doc.Nodes)),
			strconv.Itoa(len(doc.Edges)),
			formatCached(r.Cached),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "Scanned %d repositories (%d failed)\n", len(results), failed); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Scan completed in %v with %d workers. Cache backend: %s\n", duration, cfg.Workers, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForScans writes the scan results in CSV format.
func writeCSVResultsForScans(w *csv.Writer, results []schema.ScanResult) error {
	header := []string{
		"repository",
		"state",
		"progress",
		"phase",
		"nodes",
		"edges",
		"graph_id",
		"cached",
		"duration_ms",
		"error",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range results {
		rec := []string{r.RepoPath, "", "", "", "", "", "", strconv.FormatBool(r.Cached), strconv.FormatInt(r.Duration.Milliseconds(), 10), ""}
		if r.Err != nil {
			rec[9] = r.Err.Error()
		} else if r.Document != nil {
			doc := r.Document
			rec[1] = contract.GetPlainStateLabel(doc.Status.State)
			rec[2] = strconv.Itoa(doc.Status.Progress)
			rec[3] = string(doc.Status.Legacy.Phase)
			rec[4] = strconv.Itoa(len(doc.Nodes))
			rec[5] = strconv.Itoa(len(doc.Edges))
			rec[6] = doc.GraphID
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// writeJSONResultsForScans writes the scan results in JSON format.
func writeJSONResultsForScans(w io.Writer, results []schema.ScanResult) error {
	// Prepare the data structure for JSON with the error flattened to a string
	type JSONScanResult struct {
		RepoPath   string                 `json:"repoPath"`
		Cached     bool                   `json:"cached"`
		DurationMs int64                  `json:"durationMs"`
		Error      string                 `json:"error,omitempty"`
		Document   *schema.StatusDocument `json:"document,omitempty"`
	}

	output := make([]JSONScanResult, len(results))
	for i, r := range results {
		output[i] = JSONScanResult{
			RepoPath:   r.RepoPath,
			Cached:     r.Cached,
			DurationMs: r.Duration.Milliseconds(),
			Document:   r.Document,
		}
		if r.Err != nil {
			output[i].Error = r.Err.Error()
		}
	}

	return writeJSON(w, output)
}

// stateLabel picks the colored or plain state label per config.
func stateLabel(state schema.NodeState, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorStateLabel(state)
	}
	return contract.GetPlainStateLabel(state)
}

// formatCached renders the cache-hit marker.
func formatCached(cached bool) string {
	if cached {
		return "yes"
	}
	return "no"
}
