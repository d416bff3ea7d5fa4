package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/memorymusicllc/pow3r/internal/contract"
	"github.com/memorymusicllc/pow3r/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteHistoryRecords outputs scan history records, dispatching based on the
// output format configured.
func WriteHistoryRecords(records []schema.ScanRecord, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, records)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeCSVResultsForHistory(csvWriter, records)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHistoryTable(records, cfg, w)
		}, "Wrote table")
	}
	return nil
}

// writeHistoryTable generates and writes the human-readable history table.
func writeHistoryTable(records []schema.ScanRecord, cfg *contract.Config, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	table.Header([]string{"ID", "Repository", "State", "Progress", "Nodes", "Edges", "When"})

	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, r := range records {
		data = append(data, []string{
			strconv.FormatInt(r.ScanID, 10),
			contract.TruncatePath(r.RepoPath, getMaxTablePathWidth()),
			stateLabel(r.State, cfg),
			strconv.Itoa(r.Progress) + "%",
			strconv.Itoa(r.NodeCount),
			strconv.Itoa(r.EdgeCount),
			r.ScanTime.Format("2006-01-02 15:04:05"),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "Showing %d scan records\n", len(records)); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForHistory writes the history records in CSV format.
func writeCSVResultsForHistory(w *csv.Writer, records []schema.ScanRecord) error {
	header := []string{
		"scan_id",
		"repository",
		"state",
		"progress",
		"nodes",
		"edges",
		"graph_id",
		"scan_time",
		"duration_ms",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range records {
		rec := []string{
			strconv.FormatInt(r.ScanID, 10),
			r.RepoPath,
			contract.GetPlainStateLabel(r.State),
			strconv.Itoa(r.Progress),
			strconv.Itoa(r.NodeCount),
			strconv.Itoa(r.EdgeCount),
			r.GraphID,
			r.ScanTime.Format(contract.DateTimeFormat),
			strconv.FormatInt(r.DurationMs, 10),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
