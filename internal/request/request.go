package request

// SchedulerRequest represents the JSON body for scheduler control.
type SchedulerRequest struct {
	// Action controls the scheduler. Allowed values:
	// - "start": start processing batches
	// - "stop":  stop processing batches
	Action string `json:"action"`
}

// CreateMessageRequest queues an SMS for one or more recipients.
//
// DeliverAt is RFC 3339; when set the gateway holds the message until then
// and Reference (generated if empty) can later be used to cancel it.
type CreateMessageRequest struct {
	To        []string `json:"to" example:"0612345678"`
	Content   string   `json:"content" example:"Your parcel arrives today"`
	DeliverAt string   `json:"deliverAt,omitempty" example:"2026-12-24T18:00:00+01:00"`
	Reference string   `json:"reference,omitempty" example:"xmas-2026"`
}
