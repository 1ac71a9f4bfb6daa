// Package diagnose implements `pmannot diagnose`, which probes both backing
// web services end to end and reports one JSON line per probe.
package diagnose

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/manselmi/pmannot/internal/config"
	"github.com/manselmi/pmannot/internal/exitcode"
	"github.com/manselmi/pmannot/internal/glida"
	"github.com/manselmi/pmannot/internal/pubmed"
)

var (
	cfgPath     string
	flagTimeout time.Duration
)

// probePMID is a stable, always-present article used for the eFetch probe.
const probePMID = "1"

const probeText = "aspirin"

// Cmd represents the `pmannot diagnose` command.
var Cmd = &cobra.Command{
	Use:           "diagnose",
	Short:         "Probe the PubMed and Glida services",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		pubmedURL, glidaURL, err := serviceURLs(cfgPath)
		if err != nil {
			return exitcode.Usagef("config %s: %v", cfgPath, err)
		}
		timeout := flagTimeout
		if timeout <= 0 {
			timeout = pubmed.DefaultTimeout
		}

		probes := []probe{
			{service: "pubmed", url: pubmedURL, fn: func(ctx context.Context) error {
				_, err := pubmed.NewClient(pubmedURL, timeout).FetchArticleXML(ctx, probePMID)
				return err
			}},
			{service: "glida", url: glidaURL, fn: func(ctx context.Context) error {
				_, err := glida.NewClient(glidaURL, timeout).Annotate(ctx, probeText)
				return err
			}},
		}

		var failedServices []string
		for _, p := range probes {
			res := runProbe(cmd.Context(), p)
			if err := printJSONLine(cmd.OutOrStdout(), res); err != nil {
				return err
			}
			if !res.OK {
				failedServices = append(failedServices, p.service)
			}
		}
		if len(failedServices) > 0 {
			return exitcode.New(exitcode.Resolution,
				"service probe failed: "+strings.Join(failedServices, ", "))
		}
		return nil
	},
}

func serviceURLs(path string) (pubmedURL, glidaURL string, err error) {
	pubmedURL, glidaURL = pubmed.DefaultBaseURL, glida.DefaultBaseURL
	if path == "" {
		return
	}
	cfg, err := config.Parse(path)
	if err != nil {
		return "", "", err
	}
	if cfg.PubMed.HasBaseURL {
		pubmedURL = cfg.PubMed.BaseURL
	}
	if cfg.Glida.HasBaseURL {
		glidaURL = cfg.Glida.BaseURL
	}
	return
}

func init() {
	Cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to config file (.cue)")
	Cmd.Flags().DurationVar(&flagTimeout, "timeout", 0, "Per-probe timeout")
}
