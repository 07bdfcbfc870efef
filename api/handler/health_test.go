package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/fastygo/timetracker/api/transport"
	"github.com/fastygo/timetracker/internal/infrastructure/monitor"
)

type staticStatus monitor.Status

func (s staticStatus) GetStatus() monitor.Status { return monitor.Status(s) }

func TestHealthCheck(t *testing.T) {
	checked := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	cases := []struct {
		name       string
		status     monitor.Status
		wantCode   int
		wantStatus string
	}{
		{"healthy", monitor.Status{Services: map[string]bool{"mongodb": true}, LastCheck: checked}, http.StatusOK, "ok"},
		{"store down", monitor.Status{Services: map[string]bool{"mongodb": false}, LastCheck: checked}, http.StatusServiceUnavailable, "degraded"},
		{"never probed", monitor.Status{}, http.StatusServiceUnavailable, "degraded"},
	}

	for _, tc := range cases {
		h := NewHealthHandler(staticStatus(tc.status), nil, nil)
		ctx := &fasthttp.RequestCtx{}
		h.Check(ctx)

		if ctx.Response.StatusCode() != tc.wantCode {
			t.Errorf("%s: status %d, want %d", tc.name, ctx.Response.StatusCode(), tc.wantCode)
		}
		var body transport.HealthResponse
		if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
			t.Fatalf("%s: decode: %v", tc.name, err)
		}
		if body.Status != tc.wantStatus {
			t.Errorf("%s: body status %q, want %q", tc.name, body.Status, tc.wantStatus)
		}
	}
}
