package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	e := echo.New()
	e.Use(requestLogger(logger))
	e.GET("/probe", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/app.js", func(c echo.Context) error { return c.String(http.StatusOK, "js") })
	e.GET("/assets/*", func(c echo.Context) error { return echo.ErrNotFound })

	for _, target := range []string{"/probe", "/app.js", "/assets/app.wasm"} {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, target, nil))
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 log lines with /probe skipped, got %d: %s", len(lines), buf.String())
	}

	var ok, missing map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &ok); err != nil {
		t.Fatalf("Invalid log line %q: %v", lines[0], err)
	}
	if err := json.Unmarshal([]byte(lines[1]), &missing); err != nil {
		t.Fatalf("Invalid log line %q: %v", lines[1], err)
	}

	if ok["level"] != "INFO" || ok["route"] != "/app.js" || ok["status"] != float64(200) {
		t.Errorf("Unexpected log entry for /app.js: %v", ok)
	}
	if missing["level"] != "WARN" || missing["route"] != "/assets/*" || missing["status"] != float64(404) {
		t.Errorf("Unexpected log entry for missing asset: %v", missing)
	}
	if _, hasErr := missing["error"]; !hasErr {
		t.Error("Expected the handler error on the missing asset entry")
	}
}
