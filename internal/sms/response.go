package sms

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// Interpreter classifies completed gateway exchanges.
type Interpreter struct {
	Lookup XMLLookup
}

// Interpret turns a status code and body into a Result or an *Error.
//
// A non-200 status is reported as KindGatewayUnreachable without reading the body.
// Otherwise the resultcode element decides; codes missing from the table of op
// become KindUnknownService carrying the raw code.
func (in Interpreter) Interpret(op Operation, status int, body []byte) (*Result, error) {
	if status != http.StatusOK {
		return nil, &Error{
			Op:   op,
			Kind: KindGatewayUnreachable,
			Code: CodeGatewayUnreachable,
			Err:  fmt.Errorf("unexpected HTTP status %d", status),
		}
	}

	lookup := in.Lookup
	if lookup == nil {
		lookup = EtreeLookup{}
	}

	raw, found, err := lookup.FindText(body, "resultcode")
	if err != nil {
		return nil, &Error{Op: op, Kind: KindUnknownService, Err: fmt.Errorf("parse response: %w", err)}
	}
	if !found {
		return nil, &Error{Op: op, Kind: KindUnknownService, Err: fmt.Errorf("response has no resultcode")}
	}
	code, err := strconv.Atoi(raw)
	if err != nil {
		return nil, &Error{Op: op, Kind: KindUnknownService, Err: fmt.Errorf("resultcode %q: %w", raw, err)}
	}

	// success and resultmessage are diagnostics only; older gateway versions omit them.
	message, _, _ := lookup.FindText(body, "resultmessage")
	flag, _, _ := lookup.FindText(body, "success")

	if code == CodeSuccess {
		return &Result{
			Code:    code,
			Success: flag == "" || strings.EqualFold(flag, "true"),
			Message: message,
			Raw:     string(body),
		}, nil
	}

	return nil, &Error{
		Op:      op,
		Kind:    KindByCode(op, code),
		Code:    code,
		Message: message,
	}
}
