package worker

import (
	"context"
	"encoding/json"
	"testing"

	"storefront/internal/models"
	"storefront/internal/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorker(t *testing.T) (*ConfirmationWorker, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewConfirmationWorker(nil, store.NewWithDB(sqlx.NewDb(db, "sqlmock"))), mock
}

func paymentMessage(t *testing.T, event interface{}) kafka.Message {
	t.Helper()
	data, err := json.Marshal(event)
	require.NoError(t, err)
	return kafka.Message{Value: data}
}

func TestPaymentSucceededMarksOrderPaid(t *testing.T) {
	w, mock := newTestWorker(t)

	mock.ExpectExec(`UPDATE orders SET status = \$1 WHERE id = \$2`).
		WithArgs(models.OrderStatusPaid, int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	event := &models.PaymentSucceededEvent{
		BaseEvent: models.BaseEvent{EventID: "e1", EventType: models.EventTypePaymentSucceeded},
		OrderID:   42,
		TxID:      "TXN-abcd1234",
	}
	require.NoError(t, w.eventHandler.HandleMessage(context.Background(), paymentMessage(t, event)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A failed payment leaves the order pending so the customer can retry.
func TestPaymentFailedLeavesOrderAlone(t *testing.T) {
	w, mock := newTestWorker(t)

	event := &models.PaymentFailedEvent{
		BaseEvent: models.BaseEvent{EventID: "e2", EventType: models.EventTypePaymentFailed},
		OrderID:   42,
		Reason:    "simulated_decline",
	}
	require.NoError(t, w.eventHandler.HandleMessage(context.Background(), paymentMessage(t, event)))
	assert.NoError(t, mock.ExpectationsWereMet())
}
