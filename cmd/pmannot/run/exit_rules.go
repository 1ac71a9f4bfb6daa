package run

import (
	"github.com/manselmi/pmannot/internal/exitcode"
	"github.com/manselmi/pmannot/internal/pipeline"
)

func keepGoingMode(meta *pipeline.Meta) bool {
	return meta != nil && meta.Errors != nil && meta.Errors.Mode == "keep-going"
}

func driftDetectionEnabled(meta *pipeline.Meta) bool {
	return meta != nil && meta.Output != nil && meta.Output.FailOnChange
}

func hasFailures(env pipeline.Envelope) bool {
	_, failed := pipeline.CountResults(env.Records)
	return failed > 0 || len(env.Errors) > 0
}

// allResolutionFailures reports whether every accumulated failure happened in
// a resolution stage. A single non-resolution failure classifies the whole run
// as an execution fault.
func allResolutionFailures(env pipeline.Envelope) bool {
	for _, r := range env.Records {
		if r.Error != nil && !pipeline.ResolutionStage(r.Error.Stage) {
			return false
		}
	}
	for _, e := range env.Errors {
		if !pipeline.ResolutionStage(e.Stage) {
			return false
		}
	}
	return true
}

// evaluateRunExit maps the final envelope to the process exit contract. A run
// with nothing to do could not resolve anything, so it fails like one where
// every record failed. Failures win over drift and keep their class: runs
// whose failures are all resolution failures exit 3, anything else exits 1.
func evaluateRunExit(env pipeline.Envelope) error {
	if len(env.Records) == 0 {
		return exitcode.New(exitcode.Resolution, "no pmids to process")
	}

	if driftDetectionEnabled(env.Meta) {
		if hasFailures(env) {
			if allResolutionFailures(env) {
				return exitcode.New(exitcode.Resolution, "resolution errors")
			}
			return exitcode.New(exitcode.Exec, "execution errors")
		}
		if pipeline.HasChanges(env) {
			return exitcode.New(exitcode.Drift, "drift detected")
		}
		return nil
	}

	if !keepGoingMode(env.Meta) {
		return nil
	}
	if !hasFailures(env) {
		return nil
	}
	succeeded, _ := pipeline.CountResults(env.Records)
	if succeeded > 0 {
		return nil
	}
	return exitcode.New(exitcode.Resolution, "keep-going: no successful records")
}
