package message

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	m, err := NewMessage([]string{" 0687654321 ", "", "0612435687"}, "  hello  ")
	require.NoError(t, err)

	assert.Equal(t, []string{"0687654321", "0612435687"}, m.To)
	assert.Equal(t, "hello", m.Content)
	assert.Equal(t, StatusPending, m.Status)
	assert.False(t, m.Scheduled())
	assert.Empty(t, m.Reference)
}

func TestNewMessageRules(t *testing.T) {
	_, err := NewMessage(nil, "hi")
	assert.ErrorIs(t, err, ErrEmptyRecipient)

	_, err = NewMessage([]string{" "}, "hi")
	assert.ErrorIs(t, err, ErrEmptyRecipient)

	_, err = NewMessage([]string{"0687654321"}, " ")
	assert.ErrorIs(t, err, ErrEmptyContent)

	_, err = NewMessage([]string{"0687654321"}, strings.Repeat("x", MaxContentLength+1))
	assert.ErrorIs(t, err, ErrContentTooLong)

	many := make([]string, MaxRecipients+1)
	for i := range many {
		many[i] = "0612345678"
	}
	_, err = NewMessage(many, "hi")
	assert.ErrorIs(t, err, ErrTooManyRecipients)
}

func TestNewScheduledMessage(t *testing.T) {
	at := time.Now().Add(time.Hour)

	m, err := NewScheduledMessage([]string{"0687654321"}, "boo", at, "scarymessage")
	require.NoError(t, err)
	assert.True(t, m.Scheduled())
	assert.Equal(t, "scarymessage", m.Reference)
	assert.True(t, m.DeliverAt.Equal(at))

	generated, err := NewScheduledMessage([]string{"0687654321"}, "boo", at, "")
	require.NoError(t, err)
	assert.NotEmpty(t, generated.Reference)

	_, err = NewScheduledMessage([]string{"0687654321"}, "boo", time.Now().Add(-time.Minute), "r")
	assert.ErrorIs(t, err, ErrDeliveryInPast)
}

func TestMarkCancelled(t *testing.T) {
	m, err := NewScheduledMessage([]string{"0687654321"}, "boo", time.Now().Add(time.Hour), "r")
	require.NoError(t, err)

	assert.ErrorIs(t, m.MarkCancelled(), ErrNotCancellable, "pending messages were never handed to the gateway")

	m.MarkSent(10, "Message successfully sent.", "<response/>")
	require.NoError(t, m.MarkCancelled())
	assert.Equal(t, StatusCancelled, m.Status)
	assert.NotNil(t, m.CancelledAt)

	assert.ErrorIs(t, m.MarkCancelled(), ErrNotCancellable)
}

func TestMarkFailed(t *testing.T) {
	m, err := NewMessage([]string{"0687654321"}, "hi")
	require.NoError(t, err)

	m.MarkFailed(31, "Not enough credits", "<response/>")
	assert.Equal(t, StatusFailed, m.Status)
	assert.Equal(t, 31, m.ResultCode)
	assert.Equal(t, "Not enough credits", m.ResultMessage)
	assert.False(t, m.CanCancel())
}

func TestNewScheduledMessageReferenceLength(t *testing.T) {
	at := time.Now().Add(time.Hour)

	_, err := NewScheduledMessage([]string{"0687654321"}, "hi", at, strings.Repeat("x", MaxReferenceLength))
	assert.NoError(t, err)

	// counted in characters, like the varchar column
	_, err = NewScheduledMessage([]string{"0687654321"}, "hi", at, strings.Repeat("é", MaxReferenceLength))
	assert.NoError(t, err)

	_, err = NewScheduledMessage([]string{"0687654321"}, "hi", at, strings.Repeat("x", MaxReferenceLength+1))
	assert.ErrorIs(t, err, ErrReferenceTooLong)
}
