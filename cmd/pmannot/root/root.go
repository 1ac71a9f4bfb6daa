// Package root wires the pmannot command tree. The root command itself
// resolves a single PMID; batch processing lives under `pmannot run`.
package root

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/manselmi/pmannot/cmd/pmannot/diagnose"
	"github.com/manselmi/pmannot/cmd/pmannot/run"
	"github.com/manselmi/pmannot/cmd/pmannot/version"
	"github.com/manselmi/pmannot/internal/exitcode"
	"github.com/manselmi/pmannot/internal/logging"
	"github.com/manselmi/pmannot/internal/pmid"
)

var (
	flagConfig    string
	flagOutDir    string
	flagTimeout   time.Duration
	flagLogLevel  string
	flagLogFormat string
)

// NewRootCmd creates the root command for pmannot.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pmannot <pmid>",
		Short: "Annotate the abstract of a PubMed article with grounded entities",
		Long: "pmannot resolves a PubMed identifier: it fetches the article from the NCBI\n" +
			"eFetch service, extracts the abstract, runs it through the Glida grounding\n" +
			"service and writes the annotation to <PMID>.json.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !logging.ValidLevel(flagLogLevel) {
				return exitcode.Usagef("invalid log level %q", flagLogLevel)
			}
			if !logging.ValidFormat(flagLogFormat) {
				return exitcode.Usagef("invalid log format %q", flagLogFormat)
			}
			return nil
		},
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return exitcode.Usagef("expected exactly one PMID argument, got %d", len(args))
			}
			if err := pmid.Validate(args[0]); err != nil {
				return exitcode.Usagef("invalid pmid %q: %v", args[0], err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return annotateOne(cmd, args[0])
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")
	cmd.Flags().StringVarP(&flagConfig, "config", "c", "", "Path to config file (.cue)")
	cmd.Flags().StringVar(&flagOutDir, "out-dir", "", "Directory for annotation output")
	cmd.Flags().DurationVar(&flagTimeout, "timeout", 0, "Per-request timeout for both web services")

	// Subcommands
	cmd.AddCommand(version.VersionCmd)
	cmd.AddCommand(run.Cmd)
	cmd.AddCommand(diagnose.Cmd)

	return cmd
}

// Execute runs the root command with provided args.
func Execute(args []string) error {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	return cmd.Execute()
}
