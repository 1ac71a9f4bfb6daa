// Package config loads the optional CUE configuration file. Every field is
// optional except configVersion; presence flags let callers distinguish "not
// set" from zero values so flag and default precedence stays explicit.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// SupportedVersion is the only accepted configVersion value.
const SupportedVersion = "1"

// Service holds endpoint overrides for one backing web service.
type Service struct {
	BaseURL    string
	HasBaseURL bool
	TimeoutMs  int
	HasTimeout bool
}

// Discovery holds optional PMID list file discovery settings.
type Discovery struct {
	Root           string
	HasRoot        bool
	NoGitignore    bool
	HasNoGitignore bool
}

// Filter holds the optional inline Lua entity predicate.
type Filter struct {
	Inline    string
	HasInline bool
}

// Sandbox holds optional Lua sandbox limits.
type Sandbox struct {
	TimeoutMs        int
	HasTimeout       bool
	MemoryLimitBytes int
	HasMemory        bool
}

// Output holds optional output settings.
type Output struct {
	Dir             string
	HasDir          bool
	Sidecar         bool
	HasSidecar      bool
	Pretty          bool
	HasPretty       bool
	FailOnChange    bool
	HasFailOnChange bool
}

// Exec holds the optional per-record post-write command.
type Exec struct {
	Enabled      bool
	HasEnabled   bool
	Program      string
	HasProgram   bool
	ArgsTemplate []string
	HasArgs      bool
	TimeoutMs    int
	HasTimeout   bool
}

// Errors holds the optional error handling mode.
type Errors struct {
	Mode        string
	HasMode     bool
	EmbedErrors bool
	HasEmbed    bool
}

// Config is the parsed configuration document.
type Config struct {
	ConfigVersion string
	PubMed        Service
	Glida         Service
	PMIDs         []string
	HasPMIDs      bool
	Discovery     Discovery
	Filter        Filter
	Sandbox       Sandbox
	Output        Output
	Exec          Exec
	Errors        Errors
	Workers       int
	HasWorkers    bool
}

// Parse reads, validates, and extracts a CUE config file.
func Parse(path string) (Config, error) {
	if filepath.Ext(path) != ".cue" {
		return Config{}, errors.New("unsupported config format: expected .cue")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data)
	if err := v.Err(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %v", err)
	}

	var cfg Config
	ver, ok, err := optionalString(v, "configVersion")
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Config{}, errors.New("missing required field: configVersion")
	}
	if ver != SupportedVersion {
		return Config{}, fmt.Errorf("unsupported configVersion: %q", ver)
	}
	cfg.ConfigVersion = ver

	if cfg.PubMed, err = parseService(v, "pubmed"); err != nil {
		return Config{}, err
	}
	if cfg.Glida, err = parseService(v, "glida"); err != nil {
		return Config{}, err
	}
	if cfg.PMIDs, cfg.HasPMIDs, err = optionalStringList(v, "pmids"); err != nil {
		return Config{}, err
	}
	if err = parseDiscovery(v, &cfg.Discovery); err != nil {
		return Config{}, err
	}
	if err = parseFilter(v, &cfg.Filter); err != nil {
		return Config{}, err
	}
	if err = parseSandbox(v, &cfg.Sandbox); err != nil {
		return Config{}, err
	}
	if err = parseOutput(v, &cfg.Output); err != nil {
		return Config{}, err
	}
	if err = parseExec(v, &cfg.Exec); err != nil {
		return Config{}, err
	}
	if err = parseErrors(v, &cfg.Errors); err != nil {
		return Config{}, err
	}
	if cfg.Workers, cfg.HasWorkers, err = optionalInt(v, "workers"); err != nil {
		return Config{}, err
	}
	if cfg.HasWorkers && cfg.Workers < 1 {
		return Config{}, fmt.Errorf("invalid workers: %d", cfg.Workers)
	}
	if cfg.Errors.HasMode && cfg.Errors.Mode != "fail-fast" && cfg.Errors.Mode != "keep-going" {
		return Config{}, fmt.Errorf("invalid errors.mode: %q", cfg.Errors.Mode)
	}
	return cfg, nil
}

func parseService(v cue.Value, name string) (Service, error) {
	var s Service
	sv := v.LookupPath(cue.ParsePath(name))
	if !sv.Exists() {
		return s, nil
	}
	var err error
	if s.BaseURL, s.HasBaseURL, err = optionalString(sv, "baseURL"); err != nil {
		return s, fmt.Errorf("%s: %w", name, err)
	}
	if s.TimeoutMs, s.HasTimeout, err = optionalInt(sv, "timeoutMs"); err != nil {
		return s, fmt.Errorf("%s: %w", name, err)
	}
	if s.HasTimeout && s.TimeoutMs <= 0 {
		return s, fmt.Errorf("%s: invalid timeoutMs: %d", name, s.TimeoutMs)
	}
	return s, nil
}

func parseDiscovery(v cue.Value, d *Discovery) error {
	dv := v.LookupPath(cue.ParsePath("discovery"))
	if !dv.Exists() {
		return nil
	}
	var err error
	if d.Root, d.HasRoot, err = optionalString(dv, "root"); err != nil {
		return fmt.Errorf("discovery: %w", err)
	}
	if d.NoGitignore, d.HasNoGitignore, err = optionalBool(dv, "noGitignore"); err != nil {
		return fmt.Errorf("discovery: %w", err)
	}
	return nil
}

func parseFilter(v cue.Value, f *Filter) error {
	fv := v.LookupPath(cue.ParsePath("filter"))
	if !fv.Exists() {
		return nil
	}
	var err error
	if f.Inline, f.HasInline, err = optionalString(fv, "inline"); err != nil {
		return fmt.Errorf("filter: %w", err)
	}
	return nil
}

func parseSandbox(v cue.Value, s *Sandbox) error {
	sv := v.LookupPath(cue.ParsePath("sandbox"))
	if !sv.Exists() {
		return nil
	}
	var err error
	if s.TimeoutMs, s.HasTimeout, err = optionalInt(sv, "timeoutMs"); err != nil {
		return fmt.Errorf("sandbox: %w", err)
	}
	if s.MemoryLimitBytes, s.HasMemory, err = optionalInt(sv, "memoryLimitBytes"); err != nil {
		return fmt.Errorf("sandbox: %w", err)
	}
	return nil
}

func parseOutput(v cue.Value, o *Output) error {
	ov := v.LookupPath(cue.ParsePath("output"))
	if !ov.Exists() {
		return nil
	}
	var err error
	if o.Dir, o.HasDir, err = optionalString(ov, "dir"); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	if o.Sidecar, o.HasSidecar, err = optionalBool(ov, "sidecar"); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	if o.Pretty, o.HasPretty, err = optionalBool(ov, "pretty"); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	if o.FailOnChange, o.HasFailOnChange, err = optionalBool(ov, "failOnChange"); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	return nil
}

func parseExec(v cue.Value, e *Exec) error {
	ev := v.LookupPath(cue.ParsePath("exec"))
	if !ev.Exists() {
		return nil
	}
	var err error
	if e.Enabled, e.HasEnabled, err = optionalBool(ev, "enabled"); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	if e.Program, e.HasProgram, err = optionalString(ev, "program"); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	if e.ArgsTemplate, e.HasArgs, err = optionalStringList(ev, "argsTemplate"); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	if e.TimeoutMs, e.HasTimeout, err = optionalInt(ev, "timeoutMs"); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	return nil
}

func parseErrors(v cue.Value, e *Errors) error {
	ev := v.LookupPath(cue.ParsePath("errors"))
	if !ev.Exists() {
		return nil
	}
	var err error
	if e.Mode, e.HasMode, err = optionalString(ev, "mode"); err != nil {
		return fmt.Errorf("errors: %w", err)
	}
	if e.EmbedErrors, e.HasEmbed, err = optionalBool(ev, "embedErrors"); err != nil {
		return fmt.Errorf("errors: %w", err)
	}
	return nil
}
