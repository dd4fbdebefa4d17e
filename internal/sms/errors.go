package sms

import "fmt"

// Kind classifies the outcome of a gateway call.
type Kind int

const (
	KindUnknownService Kind = iota
	KindGatewayUnreachable
	KindNoUsername
	KindNoPassword
	KindInvalidOriginator
	KindRecipientMissing
	KindMessageMissing
	KindInvalidRecipient
	KindInvalidMessage
	KindInvalidParameter
	KindAuthenticationFailed
	KindInsufficientCredits
	KindMissingReference
	KindReferencedMessageNotFound

	// Raised locally, before any request is built.
	KindScheduleMissingReference
	KindInvalidScheduleFormat
)

var kindNames = map[Kind]string{
	KindUnknownService:            "unknown service error",
	KindGatewayUnreachable:        "gateway unreachable",
	KindNoUsername:                "no username",
	KindNoPassword:                "no password",
	KindInvalidOriginator:         "invalid originator",
	KindRecipientMissing:          "recipient missing",
	KindMessageMissing:            "message missing",
	KindInvalidRecipient:          "invalid recipient",
	KindInvalidMessage:            "invalid message",
	KindInvalidParameter:          "invalid parameter",
	KindAuthenticationFailed:      "authentication failed",
	KindInsufficientCredits:       "insufficient credits",
	KindMissingReference:          "missing reference",
	KindReferencedMessageNotFound: "referenced message not found",
	KindScheduleMissingReference:  "delivery date given without reference",
	KindInvalidScheduleFormat:     "delivery date must be YYYYMMDDHHMMSS",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

const (
	// CodeSuccess is the result code the gateway reports for an accepted request.
	CodeSuccess = 10
	// CodeGatewayUnreachable is reserved for transport failures and non-200 replies.
	CodeGatewayUnreachable = 98
	// CodeUnknown is the gateway's own catch-all code.
	CodeUnknown = 99
)

// Result codes of a send attempt.
var sendCodes = map[int]Kind{
	20: KindNoUsername,
	21: KindNoPassword,
	22: KindInvalidOriginator,
	23: KindRecipientMissing,
	24: KindMessageMissing,
	25: KindInvalidRecipient,
	26: KindInvalidOriginator,
	27: KindInvalidMessage,
	29: KindInvalidParameter,
	30: KindAuthenticationFailed,
	31: KindInsufficientCredits,
	98: KindGatewayUnreachable,
	99: KindUnknownService,
}

// Result codes of a cancel attempt. 22 differs from the send table.
var cancelCodes = map[int]Kind{
	20: KindNoUsername,
	21: KindNoPassword,
	22: KindMissingReference,
	30: KindAuthenticationFailed,
	40: KindReferencedMessageNotFound,
	98: KindGatewayUnreachable,
	99: KindUnknownService,
}

// KindBySendCode maps a non-success send result code to its Kind.
// Codes absent from the table map to KindUnknownService.
func KindBySendCode(code int) Kind {
	if k, ok := sendCodes[code]; ok {
		return k
	}
	return KindUnknownService
}

// KindByCancelCode maps a non-success cancel result code to its Kind.
// Codes absent from the table map to KindUnknownService.
func KindByCancelCode(code int) Kind {
	if k, ok := cancelCodes[code]; ok {
		return k
	}
	return KindUnknownService
}

// KindByCode dispatches to the table of the given operation.
func KindByCode(op Operation, code int) Kind {
	if op == OpCancel {
		return KindByCancelCode(code)
	}
	return KindBySendCode(code)
}

// Error is returned by every failing Send or Cancel.
//
// Code is the gateway result code (0 for local validation errors) and Message
// the gateway's resultmessage, when it sent one. Err holds the underlying cause
// for transport and parse failures.
type Error struct {
	Op      Operation
	Kind    Kind
	Code    int
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := "mollie"
	if e.Op != "" {
		msg += " " + string(e.Op)
	}
	msg += ": " + e.Kind.String()
	if e.Code != 0 {
		msg += fmt.Sprintf(" (code %d)", e.Code)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind, so the exported sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is. Compare by Kind; use errors.As to read Code and Message.
var (
	ErrUnknownService            = &Error{Kind: KindUnknownService}
	ErrGatewayUnreachable        = &Error{Kind: KindGatewayUnreachable}
	ErrNoUsername                = &Error{Kind: KindNoUsername}
	ErrNoPassword                = &Error{Kind: KindNoPassword}
	ErrInvalidOriginator         = &Error{Kind: KindInvalidOriginator}
	ErrRecipientMissing          = &Error{Kind: KindRecipientMissing}
	ErrMessageMissing            = &Error{Kind: KindMessageMissing}
	ErrInvalidRecipient          = &Error{Kind: KindInvalidRecipient}
	ErrInvalidMessage            = &Error{Kind: KindInvalidMessage}
	ErrInvalidParameter          = &Error{Kind: KindInvalidParameter}
	ErrAuthenticationFailed      = &Error{Kind: KindAuthenticationFailed}
	ErrInsufficientCredits       = &Error{Kind: KindInsufficientCredits}
	ErrMissingReference          = &Error{Kind: KindMissingReference}
	ErrReferencedMessageNotFound = &Error{Kind: KindReferencedMessageNotFound}
	ErrScheduleMissingReference  = &Error{Kind: KindScheduleMissingReference}
	ErrInvalidScheduleFormat     = &Error{Kind: KindInvalidScheduleFormat}
)
