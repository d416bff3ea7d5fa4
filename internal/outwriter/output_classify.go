package outwriter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/memorymusicllc/pow3r/internal/contract"
	"github.com/memorymusicllc/pow3r/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// classifyReport pairs the inferred status with the signals behind it for
// structured output modes.
type classifyReport struct {
	RepoPath string             `json:"repoPath"`
	Status   schema.StatusValue `json:"status"`
	Signals  classifySignals    `json:"signals"`
}

type classifySignals struct {
	TotalCommits       int      `json:"totalCommits"`
	CommitsLast14Days  int      `json:"commitsLast14Days"`
	CommitsLast30Days  int      `json:"commitsLast30Days"`
	CommitsLast180Days int      `json:"commitsLast180Days"`
	LastCommit         string   `json:"lastCommit,omitempty"`
	UnmergedWork       []string `json:"unmergedWorkBranches,omitempty"`
	WorkingTreeClean   bool     `json:"workingTreeClean"`
	TagCount           int      `json:"tagCount"`
	Unavailable        bool     `json:"unavailable,omitempty"`
}

// WriteClassification outputs a single-repository classification, dispatching
// based on the output format configured.
func WriteClassification(signals *schema.RepoSignals, status schema.StatusValue, cfg *contract.Config) error {
	report := buildClassifyReport(signals, status)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeClassifyTable(report, cfg, w)
		}, "Wrote table")
	}
	return nil
}

func buildClassifyReport(signals *schema.RepoSignals, status schema.StatusValue) classifyReport {
	report := classifyReport{
		RepoPath: signals.RepoPath,
		Status:   status,
		Signals: classifySignals{
			TotalCommits:       signals.TotalCommits,
			CommitsLast14Days:  signals.CommitsLast14Days,
			CommitsLast30Days:  signals.CommitsLast30Days,
			CommitsLast180Days: signals.CommitsLast180Days,
			UnmergedWork:       signals.UnmergedWorkBranches,
			WorkingTreeClean:   signals.WorkingTreeClean,
			TagCount:           len(signals.Tags),
			Unavailable:        signals.Unavailable,
		},
	}
	if !signals.LastCommit.IsZero() {
		report.Signals.LastCommit = signals.LastCommit.Format(contract.DateTimeFormat)
	}
	return report
}

// writeClassifyTable renders the classification and its key signals as a
// two-column table.
func writeClassifyTable(report classifyReport, cfg *contract.Config, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	table.Header([]string{"Field", "Value"})

	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignLeft
	})

	lastCommit := "-"
	if report.Signals.LastCommit != "" {
		lastCommit = report.Signals.LastCommit
	}
	data := [][]string{
		{"Repository", contract.TruncatePath(report.RepoPath, getMaxTablePathWidth())},
		{"State", stateLabel(report.Status.State, cfg)},
		{"Phase", string(report.Status.Legacy.Phase)},
		{"Progress", strconv.Itoa(report.Status.Progress) + "%"},
		{"Commits (total)", strconv.Itoa(report.Signals.TotalCommits)},
		{"Commits (14d/30d/180d)", fmt.Sprintf("%d/%d/%d",
			report.Signals.CommitsLast14Days, report.Signals.CommitsLast30Days, report.Signals.CommitsLast180Days)},
		{"Last commit", lastCommit},
		{"Unmerged work branches", strconv.Itoa(len(report.Signals.UnmergedWork))},
		{"Working tree clean", strconv.FormatBool(report.Signals.WorkingTreeClean)},
		{"Tags", strconv.Itoa(report.Signals.TagCount)},
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if report.Signals.Unavailable {
		if _, err := fmt.Fprintln(writer, "Warning: Git signals were unavailable for this repository"); err != nil {
			return err
		}
	}
	return nil
}
