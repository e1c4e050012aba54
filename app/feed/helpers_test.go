package feed

import (
	"io"
	"log/slog"
	"net/http"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testClient() *http.Client {
	return &http.Client{Timeout: 2 * time.Second}
}
