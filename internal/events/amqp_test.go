package events

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockChannel struct {
	mock.Mock
}

func (m *MockChannel) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	args := m.Called(exchange, key, mandatory, immediate, msg)
	return args.Error(0)
}

func TestPublishConsentChanged(t *testing.T) {
	ch := new(MockChannel)
	pub := NewPublisher(ch)

	event := ConsentEvent{
		Analytics:   true,
		Marketing:   false,
		ConsentedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	ch.On("Publish", ExchangeName, ConsentRoutingKey, false, false,
		mock.MatchedBy(func(msg amqp.Publishing) bool {
			var got ConsentEvent
			if err := json.Unmarshal(msg.Body, &got); err != nil {
				return false
			}
			return msg.ContentType == "application/json" &&
				msg.DeliveryMode == amqp.Persistent &&
				got == event
		})).Return(nil).Once()

	err := pub.PublishConsentChanged(event)
	require.NoError(t, err)
	ch.AssertExpectations(t)
}

func TestPublishConsentChanged_ChannelError(t *testing.T) {
	ch := new(MockChannel)
	pub := NewPublisher(ch)

	ch.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("channel closed")).Once()

	err := pub.PublishConsentChanged(ConsentEvent{Analytics: true})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "channel closed")
}
