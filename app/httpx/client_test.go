package httpx

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNewClientSetsUserAgent(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(slog.Default(), "RSS Relay/test", time.Second)

	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	resp.Body.Close()

	if gotUA != "RSS Relay/test" {
		t.Errorf("Expected user agent 'RSS Relay/test', got '%s'", gotUA)
	}
}

func TestLoggingRoundTripperMasksSecrets(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusTeapot)
	}))
	defer server.Close()

	var buf bytes.Buffer
	lg := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	client := NewClient(lg, "ua", time.Second)

	req, _ := http.NewRequest(http.MethodGet, server.URL, nil)
	req.Header.Set("Authorization", "Bearer secret-token")

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	resp.Body.Close()

	logs := buf.String()
	if strings.Contains(logs, "secret-token") {
		t.Error("Expected secret header to be masked in logs")
	}
	if !strings.Contains(logs, "status=418") {
		t.Errorf("Expected response status in logs, got: %s", logs)
	}
}

func TestLoggingRoundTripperSilentAboveLevel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	var buf bytes.Buffer
	lg := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	client := NewClient(lg, "ua", time.Second)

	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	resp.Body.Close()

	if buf.Len() != 0 {
		t.Errorf("Expected no logs at info level, got: %s", buf.String())
	}
}
