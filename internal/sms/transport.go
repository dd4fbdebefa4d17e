package sms

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// Transport executes a built request and returns the HTTP status and body.
// Network failures are returned as err; the client reports them as
// KindGatewayUnreachable.
type Transport interface {
	Execute(ctx context.Context, req *Request) (status int, body []byte, err error)
}

// maxResponseSize bounds how much of a reply is read. Gateway replies are a few hundred bytes.
const maxResponseSize = 64 << 10

// HTTPTransport performs GET requests with a plain *http.Client.
type HTTPTransport struct {
	HTTPClient *http.Client
}

// NewHTTPTransport returns a transport with the given per-request timeout.
func NewHTTPTransport(timeout time.Duration) *HTTPTransport {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPTransport{HTTPClient: &http.Client{Timeout: timeout}}
}

// Execute implements Transport.
func (t *HTTPTransport) Execute(ctx context.Context, req *Request) (int, []byte, error) {
	target, err := req.URL()
	if err != nil {
		return 0, nil, errors.Wrap(err, "invalid gateway URL")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, nil, errors.Wrap(err, "failed to create request")
	}

	client := t.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return 0, nil, errors.Wrap(err, "HTTP GET failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return resp.StatusCode, nil, errors.Wrap(err, "failed to read response")
	}
	return resp.StatusCode, body, nil
}
