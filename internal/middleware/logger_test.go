package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/guttosm/b3yield/internal/logger"
)

func TestToString(t *testing.T) {
	if s := toString(nil); s != "" {
		t.Fatalf("nil -> %q, want empty", s)
	}
	if s := toString("abc"); s != "abc" {
		t.Fatalf("string -> %q, want 'abc'", s)
	}
	if s := toString(123); s != "" {
		t.Fatalf("non-string -> %q, want empty", s)
	}
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logger.InitWriter(&buf, zerolog.InfoLevel, false)
	t.Cleanup(logger.Init)
	return &buf
}

func TestRequestLogger_Entries(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name      string
		path      string
		status    int
		wantLevel string
		wantRoute string
	}{
		{name: "ok", path: "/api/v1/quotations/LTN", status: http.StatusOK, wantLevel: "info", wantRoute: "/api/v1/quotations/:code"},
		{name: "client error", path: "/api/v1/quotations/NTNF", status: http.StatusUnprocessableEntity, wantLevel: "warn", wantRoute: "/api/v1/quotations/:code"},
		{name: "server error", path: "/api/v1/quotations/LFT", status: http.StatusInternalServerError, wantLevel: "error", wantRoute: "/api/v1/quotations/:code"},
		{name: "no route", path: "/nope", status: http.StatusNotFound, wantLevel: "warn", wantRoute: "unmatched"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			buf := captureLogs(t)
			router := gin.New()
			router.Use(RequestID(), RequestLogger())
			router.GET("/api/v1/quotations/:code", func(c *gin.Context) { c.String(tc.status, "x") })

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))

			var entry map[string]any
			line := strings.TrimSpace(buf.String())
			if err := json.Unmarshal([]byte(line), &entry); err != nil {
				t.Fatalf("expected one JSON entry, got %q: %v", line, err)
			}
			if entry["level"] != tc.wantLevel || entry["route"] != tc.wantRoute || entry["path"] != tc.path {
				t.Fatalf("unexpected entry %v", entry)
			}
			if entry["request_id"] != w.Header().Get(RequestIDHeader) || entry["component"] != "http" {
				t.Fatalf("unexpected entry %v", entry)
			}
		})
	}
}
