package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gatewayFunc func(ctx context.Context) error

func (f gatewayFunc) Health(ctx context.Context) error { return f(ctx) }

func TestHealth(t *testing.T) {
	cases := []struct {
		name    string
		gateway GatewayChecker
		status  string
		gw      string
	}{
		{name: "no gateway probe", status: "ok"},
		{name: "gateway up", gateway: gatewayFunc(func(context.Context) error { return nil }), status: "ok", gw: "ok"},
		{
			name:    "gateway down",
			gateway: gatewayFunc(func(context.Context) error { return errors.New("dial tcp: refused") }),
			status:  "degraded",
			gw:      "unreachable",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHomeHandler(tc.gateway)
			rec := httptest.NewRecorder()
			h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, http.StatusOK, rec.Code)

			var body struct {
				Data struct {
					Status  string `json:"status"`
					Gateway string `json:"gateway"`
				} `json:"data"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.status, body.Data.Status)
			assert.Equal(t, tc.gw, body.Data.Gateway)
		})
	}
}

func TestIndex(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHomeHandler(nil).Index(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Mollie SMS")
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
}
