package run

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

const articleXML = `<PubmedArticleSet><PubmedArticle><MedlineCitation><Article>` +
	`<Abstract><AbstractText>Ibuprofen reduces inflammation.</AbstractText></Abstract>` +
	`</Article></MedlineCitation></PubmedArticle></PubmedArticleSet>`

func testServices(t *testing.T, missing string) (pubmedURL, glidaURL string) {
	t.Helper()
	pm := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("id") == missing {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(articleXML))
	}))
	t.Cleanup(pm.Close)
	gl := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"text":"Ibuprofen","start":0,"end":9}]`))
	}))
	t.Cleanup(gl.Close)
	return pm.URL, gl.URL
}

func executeRun(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	Cmd.SetOut(&buf)
	Cmd.SetErr(&buf)
	Cmd.SetArgs(args)
	err := Cmd.Execute()
	return buf.String(), err
}

func TestRunRequiresConfig(t *testing.T) {
	_, err := executeRun(t)
	if err == nil {
		t.Fatal("expected error")
	}
	ec, ok := err.(interface{ ExitCode() int })
	if !ok || ec.ExitCode() != 2 {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestRunBatchKeepGoing(t *testing.T) {
	pmURL, glURL := testServices(t, "999")
	dir := t.TempDir()
	cfg := filepath.Join(t.TempDir(), "pmannot.cue")
	content := "configVersion: \"1\"\n" +
		"pubmed: baseURL: \"" + pmURL + "\"\n" +
		"glida: baseURL: \"" + glURL + "\"\n" +
		"pmids: [\"111\", \"999\"]\n" +
		"errors: {\n\tmode:        \"keep-going\"\n\tembedErrors: true\n}\n"
	if err := os.WriteFile(cfg, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	out, err := executeRun(t, "--config", cfg, "--out-dir", dir)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	var s map[string]any
	if err := json.Unmarshal([]byte(out), &s); err != nil {
		t.Fatalf("stdout is not one JSON line: %q", out)
	}
	if s["records"] != float64(2) || s["succeeded"] != float64(1) || s["failed"] != float64(1) {
		t.Fatalf("unexpected summary: %v", s)
	}
	if _, ok := s["errors"]; !ok {
		t.Fatal("embedErrors should include error details in the summary")
	}
	if _, err := os.Stat(filepath.Join(dir, "111.json")); err != nil {
		t.Fatalf("annotation missing: %v", err)
	}
}
