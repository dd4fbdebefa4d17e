package messagegorm

import (
	"strings"

	"github.com/oggyb/mollie-sms/internal/domain/message"
)

// recipientSep joins recipients in the recipients column, matching the gateway's own separator.
const recipientSep = ","

// toDomain maps a GORM MessageModel to a domain-level Message.
func toDomain(m *MessageModel) *message.Message {
	var to []string
	if m.Recipients != "" {
		to = strings.Split(m.Recipients, recipientSep)
	}
	return &message.Message{
		ID:            m.ID,
		To:            to,
		Content:       m.Content,
		Reference:     m.Reference,
		DeliverAt:     m.DeliverAt,
		Status:        message.Status(m.Status),
		ResultCode:    m.ResultCode,
		ResultMessage: m.ResultMessage,
		RawResponse:   m.RawResponse,
		SentAt:        m.SentAt,
		CancelledAt:   m.CancelledAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// toDomainMany maps a slice of MessageModel to a slice of domain Messages.
func toDomainMany(models []MessageModel) []*message.Message {
	out := make([]*message.Message, len(models))
	for i := range models {
		out[i] = toDomain(&models[i])
	}
	return out
}

// fromDomain maps a domain-level Message to a GORM MessageModel.
func fromDomain(d *message.Message) *MessageModel {
	return &MessageModel{
		ID:            d.ID,
		Recipients:    strings.Join(d.To, recipientSep),
		Content:       d.Content,
		Reference:     d.Reference,
		DeliverAt:     d.DeliverAt,
		Status:        string(d.Status),
		ResultCode:    d.ResultCode,
		ResultMessage: d.ResultMessage,
		RawResponse:   d.RawResponse,
		SentAt:        d.SentAt,
		CancelledAt:   d.CancelledAt,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}
