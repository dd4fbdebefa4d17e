// Package message holds the domain model and invariants for messages.
package message

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	// MaxContentLength is the longest body the gateway accepts (nine concatenated parts).
	MaxContentLength = 1377
	// MaxRecipients caps a single message's recipient list.
	MaxRecipients = 100
	// MaxReferenceLength bounds a scheduled message's reference.
	MaxReferenceLength = 100
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusSuccess   Status = "SUCCESS"
	StatusFailed    Status = "FAILED"
	StatusCancelled Status = "CANCELLED"
)

var (
	// ErrEmptyRecipient is returned when no recipient phone number is provided.
	ErrEmptyRecipient = errors.New("recipient phone number is required")
	// ErrTooManyRecipients is returned when the recipient list exceeds MaxRecipients.
	ErrTooManyRecipients = errors.New("too many recipients")
	// ErrEmptyContent is returned when the message body is empty.
	ErrEmptyContent = errors.New("message content is required")
	// ErrContentTooLong is returned when the message body exceeds MaxContentLength.
	ErrContentTooLong = errors.New("message content exceeds maximum length")
	// ErrDeliveryInPast is returned when a scheduled message would be delivered before now.
	ErrDeliveryInPast = errors.New("delivery time must be in the future")
	// ErrNotCancellable is returned when cancelling a message that is not a scheduled, accepted send.
	ErrNotCancellable = errors.New("message is not a scheduled send accepted by the gateway")
	// ErrReferenceTooLong is returned when a reference exceeds MaxReferenceLength.
	ErrReferenceTooLong = errors.New("reference exceeds maximum length")
	// ErrReferenceInUse is returned when another pending or accepted message holds the reference.
	ErrReferenceInUse = errors.New("reference is already used by a live scheduled message")
	// ErrMessageNotFound is returned by repositories when no message matches.
	ErrMessageNotFound = errors.New("message not found")
)

// Message is the core domain entity representing an outgoing SMS message.
type Message struct {
	ID            uuid.UUID
	To            []string
	Content       string
	Reference     string
	DeliverAt     *time.Time
	Status        Status
	ResultCode    int
	ResultMessage string
	RawResponse   string
	SentAt        *time.Time
	CancelledAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewMessage constructs a new pending Message and enforces basic domain rules.
func NewMessage(to []string, content string) (*Message, error) {
	recipients, err := normalizeRecipients(to)
	if err != nil {
		return nil, err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return nil, ErrContentTooLong
	}

	return &Message{
		ID:        uuid.New(),
		To:        recipients,
		Content:   content,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}, nil
}

// NewScheduledMessage constructs a pending message the gateway should hold
// until deliverAt. An empty reference is replaced by a generated one.
func NewScheduledMessage(to []string, content string, deliverAt time.Time, reference string) (*Message, error) {
	m, err := NewMessage(to, content)
	if err != nil {
		return nil, err
	}
	if !deliverAt.After(m.CreatedAt) {
		return nil, ErrDeliveryInPast
	}

	reference = strings.TrimSpace(reference)
	if reference == "" {
		reference = uuid.NewString()
	}
	if utf8.RuneCountInString(reference) > MaxReferenceLength {
		return nil, ErrReferenceTooLong
	}

	at := deliverAt
	m.DeliverAt = &at
	m.Reference = reference
	return m, nil
}

func normalizeRecipients(to []string) ([]string, error) {
	out := make([]string, 0, len(to))
	for _, r := range to {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return nil, ErrEmptyRecipient
	}
	if len(out) > MaxRecipients {
		return nil, ErrTooManyRecipients
	}
	return out, nil
}

// Scheduled reports whether the message carries a delivery time.
func (m *Message) Scheduled() bool {
	return m.DeliverAt != nil
}

// MarkSent marks the message as accepted by the gateway and records its reply.
func (m *Message) MarkSent(code int, resultMessage, raw string) {
	now := time.Now()
	m.SentAt = &now
	m.Status = StatusSuccess
	m.ResultCode = code
	m.ResultMessage = resultMessage
	m.RawResponse = raw
}

// MarkFailed marks the message as failed and stores the gateway's verdict.
func (m *Message) MarkFailed(code int, resultMessage, raw string) {
	m.Status = StatusFailed
	m.ResultCode = code
	m.ResultMessage = resultMessage
	m.RawResponse = raw
}

// CanCancel reports whether the gateway still holds the message for later delivery.
func (m *Message) CanCancel() bool {
	return m.Scheduled() && m.Status == StatusSuccess
}

// MarkCancelled records a successful cancel.
func (m *Message) MarkCancelled() error {
	if !m.CanCancel() {
		return ErrNotCancellable
	}
	now := time.Now()
	m.CancelledAt = &now
	m.Status = StatusCancelled
	return nil
}
