package broker

import (
	"context"
	"encoding/json"
	"testing"

	"storefront/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func message(t *testing.T, event interface{}) kafka.Message {
	t.Helper()
	data, err := json.Marshal(event)
	require.NoError(t, err)
	return kafka.Message{Value: data}
}

func TestEventHandlerRoutesPaymentSucceeded(t *testing.T) {
	handler := NewEventHandler()

	var got *models.PaymentSucceededEvent
	handler.OnPaymentSucceeded(func(ctx context.Context, event *models.PaymentSucceededEvent) error {
		got = event
		return nil
	})

	event := &models.PaymentSucceededEvent{
		BaseEvent: models.BaseEvent{EventID: "e1", EventType: models.EventTypePaymentSucceeded},
		OrderID:   42,
		TxID:      "TXN-abcd1234",
	}
	require.NoError(t, handler.HandleMessage(context.Background(), message(t, event)))

	require.NotNil(t, got)
	assert.Equal(t, int64(42), got.OrderID)
	assert.Equal(t, "TXN-abcd1234", got.TxID)
}

func TestEventHandlerRoutesPaymentFailed(t *testing.T) {
	handler := NewEventHandler()

	var got *models.PaymentFailedEvent
	handler.OnPaymentFailed(func(ctx context.Context, event *models.PaymentFailedEvent) error {
		got = event
		return nil
	})

	event := &models.PaymentFailedEvent{
		BaseEvent: models.BaseEvent{EventID: "e2", EventType: models.EventTypePaymentFailed},
		OrderID:   42,
		Reason:    "simulated_decline",
	}
	require.NoError(t, handler.HandleMessage(context.Background(), message(t, event)))

	require.NotNil(t, got)
	assert.Equal(t, "simulated_decline", got.Reason)
}

func TestEventHandlerIgnoresUnknownTypes(t *testing.T) {
	handler := NewEventHandler()

	msg := kafka.Message{Value: []byte(`{"event_type":"SOMETHING_ELSE"}`)}
	assert.NoError(t, handler.HandleMessage(context.Background(), msg))
}

func TestEventHandlerRejectsMalformedPayload(t *testing.T) {
	handler := NewEventHandler()

	msg := kafka.Message{Value: []byte(`not json`)}
	assert.Error(t, handler.HandleMessage(context.Background(), msg))
}
