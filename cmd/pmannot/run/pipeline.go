package run

import (
	"context"
	"encoding/json"
	"io"

	"github.com/manselmi/pmannot/internal/pipeline"
)

// executePipeline runs the full stage sequence for a batch invocation.
func executePipeline(ctx context.Context, cfgPath, outDir string, deps pipeline.Deps) (pipeline.Envelope, error) {
	meta := &pipeline.Meta{ConfigPath: cfgPath}
	if outDir != "" {
		meta.Output = &pipeline.OutputMeta{Dir: outDir}
	}
	in := pipeline.Envelope{Records: []pipeline.Record{}, Meta: meta}
	return pipeline.RunSequence(ctx, in, deps)
}

// runSummary is the single JSON line printed to stdout after a batch run.
type runSummary struct {
	Records   int              `json:"records"`
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	Changed   int              `json:"changed"`
	Errors    []pipeline.Error `json:"errors,omitempty"`
}

func printRunSummary(w io.Writer, env pipeline.Envelope) error {
	succeeded, failed := pipeline.CountResults(env.Records)
	changed := 0
	for _, r := range env.Records {
		if r.Error == nil && r.Changed {
			changed++
		}
	}
	s := runSummary{
		Records:   len(env.Records),
		Succeeded: succeeded,
		Failed:    failed,
		Changed:   changed,
	}
	if embedErrors(env.Meta) {
		s.Errors = env.Errors
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(s)
}

func embedErrors(meta *pipeline.Meta) bool {
	return meta != nil && meta.Errors != nil && meta.Errors.EmbedErrors
}
