package response

import (
	"time"

	domain "github.com/oggyb/mollie-sms/internal/domain/message"
)

type WelcomePayload struct {
	Message string `json:"message"`
}

type HealthPayload struct {
	Status  string `json:"status"`
	Gateway string `json:"gateway,omitempty"`
}

type WelcomeResponse struct {
	Success   bool           `json:"success"`
	Data      WelcomePayload `json:"data"`
	Timestamp string         `json:"timestamp"`
}

type HealthResponse struct {
	Success   bool          `json:"success"`
	Data      HealthPayload `json:"data"`
	Timestamp string        `json:"timestamp"`
}

type SchedulerControlPayload struct {
	Message string `json:"message"`
}

type SchedulerControlResponse struct {
	Success   bool                    `json:"success"`
	Data      SchedulerControlPayload `json:"data"`
	Timestamp string                  `json:"timestamp"`
}

// MessageDTO is a public-facing representation of a message
// used in API responses. It decouples the wire format from
// the domain entity and plays nicely with Swagger.
type MessageDTO struct {
	ID            string     `json:"id"`
	To            []string   `json:"to"`
	Content       string     `json:"content"`
	Status        string     `json:"status"`
	Reference     string     `json:"reference,omitempty"`
	DeliverAt     *time.Time `json:"deliverAt,omitempty"`
	ResultCode    int        `json:"resultCode,omitempty"`
	ResultMessage string     `json:"resultMessage,omitempty"`
	SentAt        *time.Time `json:"sentAt,omitempty"`
	CancelledAt   *time.Time `json:"cancelledAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

type SentMessagesPayload struct {
	Items []MessageDTO `json:"items"`
	Total int64        `json:"total"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
}

type SentMessagesResponse struct {
	Success   bool                `json:"success"`
	Data      SentMessagesPayload `json:"data"`
	Timestamp string              `json:"timestamp"`
}

type MessageResponse struct {
	Success   bool       `json:"success"`
	Data      MessageDTO `json:"data"`
	Timestamp string     `json:"timestamp"`
}

// ErrorResponse documents the error envelope for Swagger.
type ErrorResponse struct {
	Success   bool      `json:"success"`
	Error     ErrorBody `json:"error"`
	Timestamp string    `json:"timestamp"`
}

// FromDomainMessage converts a single domain message into its DTO.
func FromDomainMessage(m *domain.Message) MessageDTO {
	return MessageDTO{
		ID:            m.ID.String(),
		To:            m.To,
		Content:       m.Content,
		Status:        string(m.Status),
		Reference:     m.Reference,
		DeliverAt:     m.DeliverAt,
		ResultCode:    m.ResultCode,
		ResultMessage: m.ResultMessage,
		SentAt:        m.SentAt,
		CancelledAt:   m.CancelledAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// FromDomainMessages converts domain messages into DTOs
// for use in HTTP responses.
func FromDomainMessages(msgs []*domain.Message) []MessageDTO {
	out := make([]MessageDTO, len(msgs))
	for i, m := range msgs {
		out[i] = FromDomainMessage(m)
	}
	return out
}
