package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/b3yield/internal/numeric"
)

type assertErr struct{}

func (assertErr) Error() string { return "err" }

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	slow := func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Minute):
			return nil
		}
	}

	cases := []struct {
		name string
		ping func(ctx context.Context) error
		path string
		want int
	}{
		{name: "healthz ok", path: "/healthz", want: http.StatusOK},
		{name: "healthz ignores store", ping: func(context.Context) error { return assertErr{} }, path: "/healthz", want: http.StatusOK},
		{name: "readyz without store", path: "/readyz", want: http.StatusOK},
		{name: "readyz ok", ping: func(context.Context) error { return nil }, path: "/readyz", want: http.StatusOK},
		{name: "readyz degraded", ping: func(context.Context) error { return assertErr{} }, path: "/readyz", want: http.StatusServiceUnavailable},
		{name: "readyz timeout", ping: slow, path: "/readyz", want: http.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			NewHealthHandler(tc.ping).Register(r)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))
			if w.Code != tc.want {
				t.Fatalf("want %d got %d", tc.want, w.Code)
			}
		})
	}
}

func TestHealthHandler_ReadyReportsEngine(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHealthHandler(func(context.Context) error { return nil }, "ANBIMA").Register(r)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	var body struct {
		Status    string   `json:"status"`
		Calendars []string `json:"calendars"`
		Precision int32    `json:"decimal_precision"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body.Status != "ready" || len(body.Calendars) != 1 || body.Calendars[0] != "ANBIMA" {
		t.Fatalf("unexpected body %+v", body)
	}
	if body.Precision != numeric.DecimalPrecision {
		t.Fatalf("precision %d, want %d", body.Precision, numeric.DecimalPrecision)
	}
}
