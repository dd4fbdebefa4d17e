package cache

import "fmt"

type Prefix string

const (
	// SentMessages maps a message id to the time the gateway accepted it.
	SentMessages Prefix = "sent_messages"
	// ScheduledReferences maps a scheduled send's reference to its message id.
	ScheduledReferences Prefix = "scheduled_references"
)

func (p Prefix) Key(id string) string {
	return fmt.Sprintf("%s:%s", p, id)
}
