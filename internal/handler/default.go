package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/oggyb/mollie-sms/internal/response"
)

// GatewayChecker probes the upstream SMS gateway.
type GatewayChecker interface {
	Health(ctx context.Context) error
}

const gatewayProbeTimeout = 3 * time.Second

// HomeHandler serves basic root and health endpoints.
type HomeHandler struct {
	gateway GatewayChecker
}

// NewHomeHandler returns a new HomeHandler. gateway may be nil, in which
// case Health only reports on the API itself.
func NewHomeHandler(gateway GatewayChecker) *HomeHandler {
	return &HomeHandler{gateway: gateway}
}

// Index godoc
// @Summary     Welcome endpoint
// @Description Simple root endpoint that returns a welcome message.
// @Tags        home
// @Produce     json
// @Success     200 {object} response.WelcomeResponse
// @Router      / [get]
func (h *HomeHandler) Index(w http.ResponseWriter, r *http.Request) {
	payload := response.WelcomePayload{
		Message: "Mollie SMS dispatch API",
	}

	response.RespondJSON(w, http.StatusOK, payload)
}

// Health godoc
// @Summary     Health check
// @Description Reports that the API is running and whether the SMS gateway answers.
// @Tags        home
// @Produce     json
// @Success     200 {object} response.HealthResponse
// @Router      /health [get]
func (h *HomeHandler) Health(w http.ResponseWriter, r *http.Request) {
	payload := response.HealthPayload{
		Status: "ok",
	}

	if h.gateway != nil {
		ctx, cancel := context.WithTimeout(r.Context(), gatewayProbeTimeout)
		defer cancel()

		payload.Gateway = "ok"
		if err := h.gateway.Health(ctx); err != nil {
			payload.Status = "degraded"
			payload.Gateway = "unreachable"
		}
	}

	response.RespondJSON(w, http.StatusOK, payload)
}
