package messagegorm

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MessageModel is the GORM persistence model for messages.
// It maps directly to the "messages" table in Postgres.
//
// A reference is unique among pending and accepted messages; it frees up
// again once its message failed or was cancelled.
type MessageModel struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Recipients    string     `gorm:"size:2048;not null"`
	Content       string     `gorm:"size:1377;not null"`
	Reference     string     `gorm:"size:100;index;uniqueIndex:idx_messages_live_reference,where:reference <> '' AND status <> 'FAILED' AND status <> 'CANCELLED' AND deleted_at IS NULL"`
	DeliverAt     *time.Time `gorm:"index"`
	Status        string     `gorm:"size:20;not null;index"`
	ResultCode    int
	ResultMessage string     `gorm:"size:255"`
	RawResponse   string     `gorm:"type:text"`
	SentAt        *time.Time `gorm:"index"`
	CancelledAt   *time.Time
	CreatedAt     time.Time `gorm:"not null;index"`
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

// TableName overrides the default table name used by GORM.
func (MessageModel) TableName() string {
	return "messages"
}

// BeforeCreate ensures a UUID is set before inserting a new record.
func (m *MessageModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
