package sms

import "strings"

// validateSend rejects scheduling arguments the gateway would refuse anyway.
// Without a delivery date the reference is ignored.
func validateSend(req SendRequest) error {
	if !req.Scheduled() {
		return nil
	}
	if req.Reference == "" {
		return &Error{Op: OpSend, Kind: KindScheduleMissingReference}
	}
	if !isDeliveryDate(req.DeliveryDate) {
		return &Error{
			Op:      OpSend,
			Kind:    KindInvalidScheduleFormat,
			Message: req.DeliveryDate,
		}
	}
	return nil
}

func validateCancel(req CancelRequest) error {
	if strings.TrimSpace(req.Reference) == "" {
		return &Error{Op: OpCancel, Kind: KindMissingReference}
	}
	return nil
}

// isDeliveryDate reports whether s is exactly 14 ASCII digits.
func isDeliveryDate(s string) bool {
	if len(s) != len(DeliveryDateLayout) {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
