package version

import (
	"bytes"
	"strings"
	"testing"
)

func TestVersionSingleStableLine(t *testing.T) {
	var buf bytes.Buffer
	VersionCmd.SetOut(&buf)
	VersionCmd.SetArgs(nil)
	if err := VersionCmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "pmannot ") {
		t.Fatalf("unexpected output: %q", out)
	}
	if strings.Count(out, "\n") != 1 {
		t.Fatalf("expected exactly one line: %q", out)
	}
}
