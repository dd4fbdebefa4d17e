package sms

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var _ Client = (*MollieClient)(nil)

// defaultTimeout bounds a single gateway call when the caller's context has no deadline.
const defaultTimeout = 10 * time.Second

// Option customises a MollieClient.
type Option func(*MollieClient)

// WithOriginator sets the sender shown to recipients.
func WithOriginator(originator string) Option {
	return func(c *MollieClient) { c.cfg.Originator = originator }
}

// WithGateway replaces the default endpoint of both send and cancel.
func WithGateway(gateway string) Option {
	return func(c *MollieClient) { c.cfg.Gateway = gateway }
}

// WithTransport replaces the HTTP transport, mostly for tests.
func WithTransport(t Transport) Option {
	return func(c *MollieClient) {
		if t != nil {
			c.transport = t
		}
	}
}

// WithHTTPClient runs the default transport on the given *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *MollieClient) {
		if hc != nil {
			c.transport = &HTTPTransport{HTTPClient: hc}
		}
	}
}

// WithXMLLookup replaces the XML text lookup used to read replies.
func WithXMLLookup(l XMLLookup) Option {
	return func(c *MollieClient) {
		if l != nil {
			c.interpreter.Lookup = l
		}
	}
}

// WithTimeout sets the timeout applied when the caller's context has no
// deadline. It also bounds the default HTTP transport.
func WithTimeout(d time.Duration) Option {
	return func(c *MollieClient) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *MollieClient) { c.logger = logger }
}

// MollieClient talks to the Mollie XML gateway.
//
// It is safe for concurrent use as long as SetOriginator and SetGateway are
// not called while requests are in flight.
type MollieClient struct {
	mu          sync.RWMutex
	cfg         Config
	transport   Transport
	interpreter Interpreter
	timeout     time.Duration
	logger      zerolog.Logger
}

// NewMollieClient creates a client authenticating with username and password.
func NewMollieClient(username, password string, opts ...Option) *MollieClient {
	c := &MollieClient{
		cfg:         Config{Username: username, Password: password},
		interpreter: Interpreter{Lookup: EtreeLookup{}},
		timeout:     defaultTimeout,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.transport == nil {
		c.transport = NewHTTPTransport(c.timeout)
	}
	return c
}

// Config returns a copy of the current configuration.
func (c *MollieClient) Config() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg
}

func (c *MollieClient) SetOriginator(originator string) {
	c.mu.Lock()
	c.cfg.Originator = originator
	c.mu.Unlock()
}

func (c *MollieClient) SetGateway(gateway string) {
	c.mu.Lock()
	c.cfg.Gateway = gateway
	c.mu.Unlock()
}

// withTimeout wraps the context with a timeout if it doesn't already have one.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}

// Send implements Client.Send.
func (c *MollieClient) Send(ctx context.Context, req SendRequest) (*Result, error) {
	r, err := BuildSendRequest(c.Config(), req)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, r)
}

// Cancel implements Client.Cancel.
func (c *MollieClient) Cancel(ctx context.Context, reference string) (*Result, error) {
	r, err := BuildCancelRequest(c.Config(), CancelRequest{Reference: reference})
	if err != nil {
		return nil, err
	}
	return c.do(ctx, r)
}

// Health checks that the send gateway answers with HTTP 200. The reply itself
// is not interpreted since an unauthenticated probe always carries an error code.
func (c *MollieClient) Health(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, 2*time.Second)
	defer cancel()

	probe := &Request{Op: OpSend, Gateway: c.Config().gateway(OpSend)}
	status, _, err := c.transport.Execute(ctx, probe)
	if err != nil {
		return &Error{Op: OpSend, Kind: KindGatewayUnreachable, Code: CodeGatewayUnreachable, Err: err}
	}
	if status != http.StatusOK {
		return &Error{Op: OpSend, Kind: KindGatewayUnreachable, Code: CodeGatewayUnreachable}
	}
	return nil
}

func (c *MollieClient) do(ctx context.Context, r *Request) (*Result, error) {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	status, body, err := c.transport.Execute(ctx, r)
	if err != nil {
		c.logger.Warn().Err(err).
			Str("op", string(r.Op)).
			Str("gateway", r.Gateway).
			Dur("latency", time.Since(start)).
			Msg("gateway request failed")
		return nil, &Error{Op: r.Op, Kind: KindGatewayUnreachable, Code: CodeGatewayUnreachable, Err: err}
	}

	res, err := c.interpreter.Interpret(r.Op, status, body)

	event := c.logger.Debug()
	if err != nil {
		event = c.logger.Info().Err(err)
	}
	event.Str("op", string(r.Op)).
		Str("gateway", r.Gateway).
		Int("status", status).
		Dur("latency", time.Since(start)).
		Msg("gateway request completed")

	return res, err
}
