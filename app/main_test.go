package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lysyi3m/rss-relay/app/cfg"
	"github.com/lysyi3m/rss-relay/app/pipeline"
)

func TestRunOnce(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<?xml version="1.0"?>
<rss version="2.0"><channel><title>T</title>
<item><title>Story</title><link>https://a.example/1</link><pubDate>Mon, 04 Mar 2024 10:00:00 +0700</pubDate></item>
</channel></rss>`)
	}))
	defer server.Close()

	appCfg := cfg.Default()
	appCfg.SourceFeeds = []string{server.URL}
	appCfg.Output = filepath.Join(t.TempDir(), "rss.xml")

	logger, closeLog := setupLogger(appCfg)
	defer closeLog()

	relay, err := pipeline.New(appCfg, http.DefaultClient, logger)
	if err != nil {
		t.Fatalf("Failed to create pipeline: %v", err)
	}

	var out bytes.Buffer
	if err := runOnce(context.Background(), appCfg, relay, &out); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	expected := fmt.Sprintf("Wrote 1 items to %s\n- Mon, 04 Mar 2024 10:00:00 +0700 | Story | https://a.example/1\n", appCfg.Output)
	if out.String() != expected {
		t.Errorf("Expected:\n%s\ngot:\n%s", expected, out.String())
	}

	data, err := os.ReadFile(appCfg.Output)
	if err != nil {
		t.Fatalf("Expected output file, got: %v", err)
	}
	if !strings.Contains(string(data), "<title>Story</title>") {
		t.Errorf("Expected item in output file, got:\n%s", string(data))
	}
}

func TestRunOnceWriteFailure(t *testing.T) {
	appCfg := cfg.Default()
	appCfg.Output = filepath.Join(t.TempDir(), "missing", "rss.xml")

	logger, closeLog := setupLogger(appCfg)
	defer closeLog()

	relay, err := pipeline.New(appCfg, http.DefaultClient, logger)
	if err != nil {
		t.Fatalf("Failed to create pipeline: %v", err)
	}

	var out bytes.Buffer
	if err := runOnce(context.Background(), appCfg, relay, &out); err == nil {
		t.Error("Expected write failure")
	}
	if out.Len() != 0 {
		t.Errorf("Expected no report on failure, got '%s'", out.String())
	}
}
