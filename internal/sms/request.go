package sms

import (
	"net/url"
	"strings"
)

// Config is the per-client configuration shared by every call.
type Config struct {
	Username   string
	Password   string
	Originator string
	// Gateway overrides the default endpoint of both operations when set.
	Gateway string
}

func (c Config) gateway(op Operation) string {
	if c.Gateway != "" {
		return c.Gateway
	}
	if op == OpCancel {
		return DefaultCancelGateway
	}
	return DefaultSendGateway
}

// Param is a single query parameter.
type Param struct {
	Key   string
	Value string
}

// Request is a fully built gateway call.
type Request struct {
	Op      Operation
	Gateway string
	Params  []Param
}

// Get returns the value of key, or "" when the parameter was omitted.
func (r *Request) Get(key string) string {
	for _, p := range r.Params {
		if p.Key == key {
			return p.Value
		}
	}
	return ""
}

// Encode serializes the parameters in declaration order.
func (r *Request) Encode() string {
	var b strings.Builder
	for i, p := range r.Params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

// URL joins the gateway and the encoded parameters. A query already present on
// the gateway is kept in front of the request's own parameters.
func (r *Request) URL() (string, error) {
	u, err := url.Parse(r.Gateway)
	if err != nil {
		return "", err
	}
	q := r.Encode()
	switch {
	case u.RawQuery == "":
		u.RawQuery = q
	case q != "":
		u.RawQuery += "&" + q
	}
	return u.String(), nil
}

// add appends a parameter unless its value is empty.
func (r *Request) add(key, value string) {
	if value == "" {
		return
	}
	r.Params = append(r.Params, Param{Key: key, Value: value})
}

// BuildSendRequest validates req and serializes it against cfg.
func BuildSendRequest(cfg Config, req SendRequest) (*Request, error) {
	if err := validateSend(req); err != nil {
		return nil, err
	}

	r := &Request{Op: OpSend, Gateway: cfg.gateway(OpSend)}
	r.add("recipients", strings.Join(req.Recipients, ","))
	r.add("username", cfg.Username)
	r.add("password", cfg.Password)
	r.add("originator", cfg.Originator)
	r.add("message", req.Message)
	if req.Scheduled() {
		r.add("deliverydate", req.DeliveryDate)
		r.add("reference", req.Reference)
	}
	return r, nil
}

// BuildCancelRequest validates req and serializes it against cfg.
func BuildCancelRequest(cfg Config, req CancelRequest) (*Request, error) {
	if err := validateCancel(req); err != nil {
		return nil, err
	}

	r := &Request{Op: OpCancel, Gateway: cfg.gateway(OpCancel)}
	r.add("username", cfg.Username)
	r.add("password", cfg.Password)
	r.add("reference", req.Reference)
	return r, nil
}
