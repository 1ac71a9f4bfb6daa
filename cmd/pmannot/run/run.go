// Package run implements `pmannot run`, the batch mode that annotates every
// PMID named by the config file or discovered from *.pmids lists.
package run

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/manselmi/pmannot/internal/exitcode"
	"github.com/manselmi/pmannot/internal/logging"
	"github.com/manselmi/pmannot/internal/pipeline"
)

var (
	cfgPath    string
	flagOutDir string
)

// Cmd represents the `pmannot run` command.
var Cmd = &cobra.Command{
	Use:           "run",
	Short:         "Annotate a batch of PMIDs from a config",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfgPath == "" {
			return exitcode.Usagef("missing required flag: --config")
		}
		level, _ := cmd.Flags().GetString("log-level")
		format, _ := cmd.Flags().GetString("log-format")
		log := logging.New(level, format, os.Stderr)

		env, err := executePipeline(cmd.Context(), cfgPath, flagOutDir, pipeline.Deps{Log: log})
		if err != nil {
			return err
		}
		if err := printRunSummary(cmd.OutOrStdout(), env); err != nil {
			return err
		}
		return evaluateRunExit(env)
	},
}

func init() {
	Cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to config file (.cue)")
	Cmd.Flags().StringVar(&flagOutDir, "out-dir", "", "Directory for annotation output")
}
