package message

import "context"

// Repository defines the persistence operations for Message aggregates.
//
// It is implemented by infrastructure layers (e.g. GORM, sqlc, etc.)
// while the domain and service layers depend only on this interface.
type Repository interface {
	// Save persists a new message.
	Save(ctx context.Context, m *Message) error

	// GetPending returns up to limit messages that are still waiting to be sent.
	GetPending(ctx context.Context, limit int) ([]*Message, error)

	// GetSent returns a paginated list of messages accepted by the gateway
	// along with the total number of such records.
	GetSent(ctx context.Context, page, limit int) ([]*Message, int64, error)

	// FindByReference returns the scheduled message sent with reference,
	// or ErrMessageNotFound.
	FindByReference(ctx context.Context, reference string) (*Message, error)

	// FindByID returns the message with the given id, or ErrMessageNotFound.
	FindByID(ctx context.Context, id string) (*Message, error)

	// UpdateStatus updates the status and metadata of an existing message.
	UpdateStatus(ctx context.Context, m *Message) error
}
