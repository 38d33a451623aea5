package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/b3yield/internal/calendar"
	"github.com/guttosm/b3yield/internal/domain/dto"
	"github.com/guttosm/b3yield/internal/service"
)

func TestNewRouter_WiringAndMiddlewares(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// Real service without a store: pricing works, quotations are not found.
	svc := service.NewPricingService(nil, calendar.NewRegistry(calendar.NewANBIMA()), service.Options{})
	r := NewRouter(NewHandler(svc))

	cases := []struct {
		name string
		path string
		body string
		want string
	}{
		{name: "bill", path: "/api/v1/bills/price", body: billBody, want: "753.315323"},
		{name: "bond", path: "/api/v1/bonds/price", body: bondBody, want: "880.281002"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(r, http.MethodPost, tc.path, tc.body)
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
			}
			if w.Header().Get("X-Request-ID") == "" {
				t.Fatalf("expected X-Request-ID header to be set")
			}
			var out dto.PriceResponse
			if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
				t.Fatalf("invalid json response: %v", err)
			}
			if out.Price != tc.want || out.Methodology != "ANBIMA" {
				t.Fatalf("unexpected body: %+v", out)
			}
		})
	}

	w := do(r, http.MethodGet, "/api/v1/quotations?date=2008-05-21&code=LTN", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without a store, got %d", w.Code)
	}
	var e dto.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil || e.RequestID != w.Header().Get("X-Request-ID") {
		t.Fatalf("error body should carry the request id: %s", w.Body.String())
	}
}

func TestNewRouter_RejectsOversizedBodies(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := service.NewPricingService(nil, calendar.NewRegistry(calendar.NewANBIMA()), service.Options{})
	r := NewRouter(NewHandler(svc))

	// valid JSON that only fails because of its size
	body := `{"items":[` + billBody + `]` + strings.Repeat(" ", maxBodyBytes) + `}`
	w := do(r, http.MethodPost, "/api/v1/prices/batch", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a %d byte body, got %d", len(body), w.Code)
	}
}
