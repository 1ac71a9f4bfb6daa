package root

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/manselmi/pmannot/internal/exitcode"
	"github.com/manselmi/pmannot/internal/logging"
	"github.com/manselmi/pmannot/internal/pipeline"
)

// summary is the single JSON line printed to stdout on success.
type summary struct {
	PMID     string `json:"pmid"`
	Output   string `json:"output"`
	Sidecar  string `json:"sidecar,omitempty"`
	Entities int    `json:"entities"`
}

// annotateOne resolves exactly the requested PMID. PMID list sources from the
// config file (explicit lists, discovery roots) apply to `pmannot run` only
// and are dropped here after config validation.
func annotateOne(cmd *cobra.Command, tok string) error {
	log := logging.New(flagLogLevel, flagLogFormat, os.Stderr)
	deps := pipeline.Deps{Log: log}

	env := pipeline.Envelope{
		Records: []pipeline.Record{{PMID: tok}},
		Meta:    singleRunMeta(),
	}
	var err error
	for _, name := range pipeline.Sequence() {
		env, err = pipeline.Run(cmd.Context(), name, env, deps)
		if err != nil {
			return err
		}
		if name == "validate-config" && env.Meta != nil {
			env.Meta.PMIDs = nil
			env.Meta.Discovery = nil
		}
	}

	rec, ok := findRecord(env.Records, tok)
	if !ok {
		return fmt.Errorf("record for pmid %s missing from pipeline output", tok)
	}
	if rec.Error != nil {
		return exitcode.New(exitcode.Resolution,
			fmt.Sprintf("%s: %s: %s", rec.Error.Stage, tok, rec.Error.Message))
	}
	if driftFailure(env.Meta, rec) {
		return exitcode.New(exitcode.Drift, "drift detected: "+rec.Output)
	}

	out := cmd.OutOrStdout()
	return printJSONLine(out, summary{
		PMID:     rec.PMID,
		Output:   rec.Output,
		Sidecar:  rec.Sidecar,
		Entities: rec.Entities,
	})
}

func singleRunMeta() *pipeline.Meta {
	meta := &pipeline.Meta{ConfigPath: flagConfig}
	if flagOutDir != "" {
		meta.Output = &pipeline.OutputMeta{Dir: flagOutDir}
	}
	if flagTimeout > 0 {
		ms := int(flagTimeout / time.Millisecond)
		meta.PubMed = &pipeline.ServiceMeta{TimeoutMs: ms}
		meta.Glida = &pipeline.ServiceMeta{TimeoutMs: ms}
	}
	return meta
}

func findRecord(records []pipeline.Record, tok string) (pipeline.Record, bool) {
	for _, r := range records {
		if r.PMID == tok {
			return r, true
		}
	}
	return pipeline.Record{}, false
}

func driftFailure(meta *pipeline.Meta, rec pipeline.Record) bool {
	return meta != nil && meta.Output != nil && meta.Output.FailOnChange && rec.Changed
}
