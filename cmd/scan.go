package cmd

import (
	"github.com/memorymusicllc/pow3r/core"
	"github.com/memorymusicllc/pow3r/internal/contract"
	"github.com/spf13/cobra"
)

// scanCmd performs a full workspace scan.
var scanCmd = &cobra.Command{
	Use:   "scan [scan-path]",
	Short: "Scan repositories and emit status documents.",
	Long: `Discover Git repositories under a root path and run the full status
pipeline on each one.

For every repository found, pow3r:
- Collects commit, branch and tag signals from Git history
- Infers the development status (built, building, blocked, broken, backlogged, burned)
- Synthesizes an architecture graph of nodes and edges from the file tree
- Annotates each node with a reliability score and its supporting evidence
- Writes a status document next to the repository (or into --out-dir)

Repeated scans of unchanged repositories are served from the cache.

Examples:
  # Scan every repository under the current directory
  pow3r scan

  # Scan a workspace and collect documents in one place
  pow3r scan ~/workspace --out-dir ./status

  # Scan with more workers and JSON output
  pow3r scan ~/workspace --workers 8 --output json

  # Export findings to CSV for tracking
  pow3r scan --output csv --output-file scans.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteScan(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot run scan", err)
		}
	},
}
