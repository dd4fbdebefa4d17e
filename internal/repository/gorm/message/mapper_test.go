package messagegorm

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"

	"github.com/oggyb/mollie-sms/internal/domain/message"
)

func TestMapperKeepsScheduling(t *testing.T) {
	at := time.Now().Add(time.Hour)
	m, err := message.NewScheduledMessage([]string{"0687654321", "0612435687"}, "boo", at, "scarymessage")
	require.NoError(t, err)
	m.MarkSent(10, "Message successfully sent.", "<response/>")

	model := fromDomain(m)
	assert.Equal(t, "0687654321,0612435687", model.Recipients)
	assert.Equal(t, "scarymessage", model.Reference)
	assert.Equal(t, "SUCCESS", model.Status)

	back := toDomain(model)
	assert.Equal(t, m.To, back.To)
	assert.Equal(t, m.Reference, back.Reference)
	assert.True(t, back.DeliverAt.Equal(at))
	assert.Equal(t, 10, back.ResultCode)
	assert.True(t, back.CanCancel())
}

func TestToDomainEmptyRecipients(t *testing.T) {
	assert.Nil(t, toDomain(&MessageModel{}).To)
}

func TestModelReferenceUniqueWhileLive(t *testing.T) {
	sch, err := schema.Parse(&MessageModel{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	field := sch.LookUpField("Reference")
	require.NotNil(t, field)
	assert.Equal(t, 100, field.Size)
	assert.Equal(t, message.MaxReferenceLength, field.Size)

	idx := field.TagSettings["UNIQUEINDEX"]
	assert.Contains(t, idx, "idx_messages_live_reference")
	assert.Contains(t, idx, "where:reference <> ''")
	assert.Contains(t, idx, "status <> 'FAILED'")
	assert.Contains(t, idx, "status <> 'CANCELLED'")
}
