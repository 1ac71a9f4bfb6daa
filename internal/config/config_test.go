package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pmannot.cue")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestParseFullConfig(t *testing.T) {
	path := writeConfig(t, `
configVersion: "1"
pubmed: {
	baseURL:   "https://example.org/eutils"
	timeoutMs: 2500
}
glida: baseURL: "https://example.org/glida"
pmids: ["28546431", "12345"]
discovery: {
	root:        "corpus"
	noGitignore: true
}
filter: inline: "entity.text ~= \"water\""
sandbox: {
	timeoutMs:        500
	memoryLimitBytes: 1048576
}
output: {
	dir:          "out"
	sidecar:      true
	pretty:       true
	failOnChange: true
}
exec: {
	enabled:      true
	program:      "jq"
	argsTemplate: [".", "{{output}}"]
	timeoutMs:    3000
}
errors: {
	mode:        "keep-going"
	embedErrors: true
}
workers: 4
`)
	cfg, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.PubMed.BaseURL != "https://example.org/eutils" || !cfg.PubMed.HasBaseURL {
		t.Fatalf("unexpected pubmed: %+v", cfg.PubMed)
	}
	if cfg.PubMed.TimeoutMs != 2500 {
		t.Fatalf("unexpected pubmed timeout: %d", cfg.PubMed.TimeoutMs)
	}
	if !cfg.Glida.HasBaseURL || cfg.Glida.HasTimeout {
		t.Fatalf("unexpected glida: %+v", cfg.Glida)
	}
	if !cfg.HasPMIDs || len(cfg.PMIDs) != 2 || cfg.PMIDs[0] != "28546431" {
		t.Fatalf("unexpected pmids: %v", cfg.PMIDs)
	}
	if cfg.Discovery.Root != "corpus" || !cfg.Discovery.NoGitignore {
		t.Fatalf("unexpected discovery: %+v", cfg.Discovery)
	}
	if !cfg.Filter.HasInline {
		t.Fatalf("filter inline missing")
	}
	if cfg.Sandbox.TimeoutMs != 500 || cfg.Sandbox.MemoryLimitBytes != 1048576 {
		t.Fatalf("unexpected sandbox: %+v", cfg.Sandbox)
	}
	if cfg.Output.Dir != "out" || !cfg.Output.Sidecar || !cfg.Output.Pretty || !cfg.Output.FailOnChange {
		t.Fatalf("unexpected output: %+v", cfg.Output)
	}
	if !cfg.Exec.Enabled || cfg.Exec.Program != "jq" || len(cfg.Exec.ArgsTemplate) != 2 {
		t.Fatalf("unexpected exec: %+v", cfg.Exec)
	}
	if cfg.Errors.Mode != "keep-going" || !cfg.Errors.EmbedErrors {
		t.Fatalf("unexpected errors: %+v", cfg.Errors)
	}
	if cfg.Workers != 4 || !cfg.HasWorkers {
		t.Fatalf("unexpected workers: %d", cfg.Workers)
	}
}

func TestParseMinimalConfig(t *testing.T) {
	path := writeConfig(t, `configVersion: "1"`)
	cfg, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.PubMed.HasBaseURL || cfg.HasPMIDs || cfg.HasWorkers {
		t.Fatalf("presence flags should be unset: %+v", cfg)
	}
}

func TestParseRejects(t *testing.T) {
	cases := []struct {
		name    string
		content string
		wantErr string
	}{
		{"missing version", `workers: 2`, "missing required field: configVersion"},
		{"wrong version", `configVersion: "2"`, "unsupported configVersion"},
		{"version not string", `configVersion: 1`, "expected string"},
		{"bad workers", "configVersion: \"1\"\nworkers: 0", "invalid workers"},
		{"bad mode", "configVersion: \"1\"\nerrors: mode: \"sometimes\"", "invalid errors.mode"},
		{"bad timeout", "configVersion: \"1\"\npubmed: timeoutMs: -1", "invalid timeoutMs"},
		{"pmids not list", "configVersion: \"1\"\npmids: \"28546431\"", "expected list"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.content)
			_, err := Parse(path)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error %q does not contain %q", err.Error(), tc.wantErr)
			}
		})
	}
}

func TestParseRejectsNonCueExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pmannot.yaml")
	if err := os.WriteFile(path, []byte(`configVersion: "1"`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Parse(path); err == nil {
		t.Fatal("expected error for non-.cue extension")
	}
}

func TestParseMissingFile(t *testing.T) {
	if _, err := Parse(filepath.Join(t.TempDir(), "absent.cue")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
