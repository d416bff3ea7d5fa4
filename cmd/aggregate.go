package cmd

import (
	"github.com/memorymusicllc/pow3r/core"
	"github.com/memorymusicllc/pow3r/internal/contract"
	"github.com/spf13/cobra"
)

// aggregateCmd merges status documents into one graph.
var aggregateCmd = &cobra.Command{
	Use:   "aggregate <input-dir> [input-dir...]",
	Short: "Merge status documents into one combined graph.",
	Long: `Load every status document found under the given directories and merge
them into a single graph.

All three document generations are accepted (flat lists, asset graphs and
node/edge documents); older shapes are upgraded before merging. Node IDs are
namespaced by a short source hash so identically named nodes from different
projects never collide. Edges whose endpoints did not survive the merge are
dropped and reported.

Malformed documents are skipped and counted, never fatal.

Examples:
  # Aggregate a workspace-wide status directory
  pow3r aggregate ./status

  # Merge several directories and write JSON
  pow3r aggregate ./team-a ./team-b --output json --output-file graph.json

  # Export the merged node list to Parquet for analytics
  pow3r aggregate ./status --output parquet --output-file graph`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: inputSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteAggregate(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot run aggregation", err)
		}
	},
}
