package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestErrorResponse_TableDriven(t *testing.T) {
	wrapped := fmt.Errorf("price bond: %w", errors.New("settlement after last payment"))

	cases := []struct {
		name        string
		message     string
		err         error
		wantError   string
		wantDetails string
	}{
		{name: "message only", message: "no data found", wantError: "no data found"},
		{name: "with cause", message: "cannot price", err: wrapped, wantError: "cannot price: price bond: settlement after last payment", wantDetails: "price bond: settlement after last payment"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := NewErrorResponse(tc.message, tc.err)
			if e.Error() != tc.wantError || e.ErrorDetails != tc.wantDetails {
				t.Fatalf("unexpected %+v (Error()=%q)", e, e.Error())
			}
			if e.Timestamp.Location() != time.UTC || time.Since(e.Timestamp) > time.Second {
				t.Fatalf("timestamp not set to now in UTC: %v", e.Timestamp)
			}
		})
	}
}

func TestErrorResponse_JSON(t *testing.T) {
	e := NewErrorResponse("invalid date", nil).WithRequestID("rid-1")

	raw, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m["message"] != "invalid date" || m["request_id"] != "rid-1" {
		t.Fatalf("unexpected body %s", raw)
	}
	if _, ok := m["error"]; ok {
		t.Fatalf("empty details must be omitted: %s", raw)
	}
}
