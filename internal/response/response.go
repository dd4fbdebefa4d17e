// Package response provides small helpers for writing JSON API responses
// with a consistent envelope structure.
package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/oggyb/mollie-sms/internal/sms"
)

// JSONResponse is the common response envelope for all API endpoints.
type JSONResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *ErrorBody  `json:"error,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// ErrorBody holds details about an API error. Kind and GatewayCode are only
// set when the SMS gateway produced the error.
type ErrorBody struct {
	Code        int    `json:"code"`
	Message     string `json:"message"`
	Kind        string `json:"kind,omitempty"`
	GatewayCode int    `json:"gatewayCode,omitempty"`
}

// RespondJSON writes a successful JSON response with the given status code and payload.
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	writeJSON(w, status, JSONResponse{
		Success:   true,
		Data:      payload,
		Timestamp: now(),
	})
}

// RespondError writes an error JSON response with the given status code and message.
func RespondError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, JSONResponse{
		Error:     &ErrorBody{Code: status, Message: msg},
		Timestamp: now(),
	})
}

// RespondFailure writes err as an error response, exposing the gateway's
// classification when err wraps an *sms.Error.
func RespondFailure(w http.ResponseWriter, status int, err error) {
	body := &ErrorBody{Code: status, Message: err.Error()}

	var smsErr *sms.Error
	if errors.As(err, &smsErr) {
		body.Kind = smsErr.Kind.String()
		body.GatewayCode = smsErr.Code
	}

	writeJSON(w, status, JSONResponse{Error: body, Timestamp: now()})
}

func now() string {
	return time.Now().Format(time.RFC3339)
}

// writeJSON encodes v as JSON and writes it to the response writer.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
