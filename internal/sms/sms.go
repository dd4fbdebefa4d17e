// Package sms is a client for the Mollie XML SMS gateway.
//
// A send is validated locally, serialized into a query against the gateway,
// executed through a Transport and the XML reply is classified into either a
// Result or an *Error whose Kind the caller can branch on.
package sms

import (
	"context"
	"time"
	_ "time/tzdata" // the gateway zone must resolve on hosts without a zoneinfo database
)

// Operation names the gateway call being made.
type Operation string

const (
	OpSend   Operation = "send"
	OpCancel Operation = "cancel"
)

const (
	DefaultSendGateway   = "http://www.mollie.nl/xml/sms/"
	DefaultCancelGateway = "http://www.mollie.nl/xml/sms_cancel/"
)

// DeliveryDateLayout is the time layout of the deliverydate parameter.
const DeliveryDateLayout = "20060102150405"

// DefaultTimezone is the zone the gateway reads deliverydate in.
const DefaultTimezone = "Europe/Amsterdam"

// FormatDeliveryDate renders t in the gateway's YYYYMMDDHHMMSS form, in t's own location.
func FormatDeliveryDate(t time.Time) string {
	return t.Format(DeliveryDateLayout)
}

// FormatDeliveryDateIn renders the instant t as wall-clock time in loc.
// A nil loc means DefaultLocation.
func FormatDeliveryDateIn(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = DefaultLocation()
	}
	return FormatDeliveryDate(t.In(loc))
}

// DefaultLocation returns the DefaultTimezone location.
func DefaultLocation() *time.Location {
	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		// unreachable with time/tzdata linked in
		return time.UTC
	}
	return loc
}

// Client is the contract for an SMS gateway implementation.
type Client interface {
	// Send delivers a message to one or more recipients, or schedules it when
	// the request carries a delivery date.
	Send(ctx context.Context, req SendRequest) (*Result, error)

	// Cancel withdraws a scheduled message by the reference it was sent with.
	Cancel(ctx context.Context, reference string) (*Result, error)

	// Health checks whether the gateway is reachable.
	Health(ctx context.Context) error
}

// SendRequest holds the arguments of a send.
// DeliveryDate and Reference are only used together.
type SendRequest struct {
	Recipients   []string
	Message      string
	DeliveryDate string
	Reference    string
}

// Scheduled reports whether the request asks for deferred delivery.
func (r SendRequest) Scheduled() bool {
	return r.DeliveryDate != ""
}

// CancelRequest holds the arguments of a cancel.
type CancelRequest struct {
	Reference string
}

// Result is a successful gateway reply.
type Result struct {
	Code    int
	Success bool
	Message string
	Raw     string
}
