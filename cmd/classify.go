package cmd

import (
	"github.com/memorymusicllc/pow3r/core"
	"github.com/memorymusicllc/pow3r/internal/contract"
	"github.com/spf13/cobra"
)

// classifyCmd classifies a single repository without writing anything.
var classifyCmd = &cobra.Command{
	Use:   "classify [repo-path]",
	Short: "Infer the development status of one repository.",
	Long: `Collect Git signals for a single repository and print the inferred
development status without synthesizing a graph or writing documents.

The classifier weighs:
- Commit recency and frequency across 14, 30 and 180 day windows
- Unmerged hotfix and bugfix branches (signals blocked work)
- Revert and breakage markers in recent commit subjects
- Release tags and overall history depth

Examples:
  # Classify the current repository
  pow3r classify

  # Classify another repository with JSON output
  pow3r classify ~/projects/api --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteClassify(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot run classification", err)
		}
	},
}
