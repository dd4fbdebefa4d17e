package handler

import (
	"errors"
	"net/http"

	domain "github.com/oggyb/mollie-sms/internal/domain/message"
	"github.com/oggyb/mollie-sms/internal/sms"
)

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrEmptyRecipient),
		errors.Is(err, domain.ErrTooManyRecipients),
		errors.Is(err, domain.ErrEmptyContent),
		errors.Is(err, domain.ErrContentTooLong),
		errors.Is(err, domain.ErrDeliveryInPast),
		errors.Is(err, domain.ErrReferenceTooLong):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrMessageNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNotCancellable),
		errors.Is(err, domain.ErrReferenceInUse):
		return http.StatusConflict
	}

	var smsErr *sms.Error
	if !errors.As(err, &smsErr) {
		return http.StatusInternalServerError
	}

	switch smsErr.Kind {
	case sms.KindReferencedMessageNotFound:
		return http.StatusNotFound
	case sms.KindInsufficientCredits:
		return http.StatusPaymentRequired
	case sms.KindMissingReference,
		sms.KindScheduleMissingReference,
		sms.KindInvalidScheduleFormat,
		sms.KindRecipientMissing,
		sms.KindMessageMissing,
		sms.KindInvalidRecipient,
		sms.KindInvalidMessage,
		sms.KindInvalidOriginator,
		sms.KindInvalidParameter:
		return http.StatusBadRequest
	default:
		// Credentials, an unreachable gateway and unknown replies are upstream problems.
		return http.StatusBadGateway
	}
}
