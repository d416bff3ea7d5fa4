package cmd

import (
	"github.com/memorymusicllc/pow3r/core"
	"github.com/memorymusicllc/pow3r/internal/contract"
	"github.com/spf13/cobra"
)

// convertCmd upgrades one document to the canonical shape.
var convertCmd = &cobra.Command{
	Use:   "convert <input-file>",
	Short: "Upgrade a status document to the canonical schema.",
	Long: `Read one status document of any known generation and rewrite it in the
canonical node/edge shape.

The generation is detected from the document's structure, so no version flag
is needed. Legacy phase labels are mapped onto the six-state lifecycle and the
original phase is preserved as a shadow for round-tripping.

Examples:
  # Print the upgraded document to stdout
  pow3r convert ./old/power.status.json

  # Write the upgraded document to a file
  pow3r convert ./old/power.status.json --output-file demo.pow3r.status.json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: inputSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteConvert(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot run conversion", err)
		}
	},
}
